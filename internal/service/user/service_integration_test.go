package user

import (
	"context"
	"log"
	"os"
	"testing"

	"game-market/internal/dbtest"
	tokenrepo "game-market/internal/repository/token"
	userrepo "game-market/internal/repository/user"
)

func TestSignupLoginAndFriends_Integration(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)

	repo := userrepo.NewPostgres(pool, log.New(os.Stdout, "[test] ", log.LstdFlags))
	svc := New(repo, tokenrepo.NewPostgres(pool))

	password := "Abcdefg1"
	buyer, err := svc.Signup(ctx, SignupInput{
		Email:       "Integration@Example.com",
		Password:    password,
		Name:        "Int",
		DateOfBirth: "1990-01-01",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if buyer.ID == "" || buyer.Age == nil {
		t.Fatalf("expected created user with age, got %+v", buyer)
	}

	_, access, refresh, err := svc.Login(ctx, "integration@example.com", password)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatalf("expected tokens, got access=%q refresh=%q", access, refresh)
	}
	me, err := svc.LookupByToken(ctx, access)
	if err != nil || me.ID != buyer.ID {
		t.Fatalf("lookup by token: user=%+v err=%v", me, err)
	}

	if _, err := svc.Signup(ctx, SignupInput{Email: "friend@example.com", Password: password, Name: "Friend"}); err != nil {
		t.Fatalf("signup friend: %v", err)
	}
	if _, err := svc.AddFriendByEmail(ctx, buyer.ID, "friend@example.com"); err != nil {
		t.Fatalf("add friend: %v", err)
	}
	friends, err := svc.ListFriends(ctx, buyer.ID)
	if err != nil {
		t.Fatalf("list friends: %v", err)
	}
	if len(friends) != 1 || friends[0].Name != "Friend" || friends[0].Age != nil {
		t.Fatalf("unexpected friends %+v", friends)
	}
}
