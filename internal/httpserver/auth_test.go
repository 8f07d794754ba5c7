package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"game-market/internal/domain"
	usersvc "game-market/internal/service/user"
)

func TestSignupHandler_Created(t *testing.T) {
	router := newTestRouter(t, &stubUserSvc{
		user: &domain.User{ID: "user-id", Email: "user@example.com", PasswordHash: "secret-hash"},
	}, nil)

	body := `{"email":"user@example.com","password":"Abcdefg1","name":"User","dateOfBirth":"1990-01-01"}`
	req := httptest.NewRequest(http.MethodPost, "/users/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"email":"user@example.com"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "secret-hash") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
}

func TestSignupHandler_ValidationAndConflict(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", domain.Invalidf("name required"), http.StatusBadRequest, `"code":"InvalidInput"`},
		{"duplicate", domain.ErrAlreadyExists, http.StatusConflict, `"code":"DuplicateField"`},
	}
	for _, tc := range cases {
		router := newTestRouter(t, &stubUserSvc{signErr: tc.err}, nil)
		req := httptest.NewRequest(http.MethodPost, "/users/signup", strings.NewReader(`{"email":"a@b.co"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d body=%s", tc.name, tc.status, rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), tc.code) {
			t.Fatalf("%s: unexpected body: %s", tc.name, rec.Body.String())
		}
	}
}

func TestTokenHandler_Success(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	body := `grant_type=password&username=user%40example.com&password=Abcdefg1`
	req := httptest.NewRequest(http.MethodPost, "/oauth/token", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	for _, want := range []string{`"access_token":"access"`, `"refresh_token":"refresh"`, `"expires_in":3600`} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Fatalf("body missing %s: %s", want, rec.Body.String())
		}
	}
}

func TestTokenHandler_InvalidCredentials(t *testing.T) {
	router := newTestRouter(t, &stubUserSvc{loginErr: usersvc.ErrInvalidCredentials}, nil)

	body := `grant_type=password&username=user%40example.com&password=badpass`
	req := httptest.NewRequest(http.MethodPost, "/oauth/token", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestTokenHandler_UnsupportedGrant(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	body := `grant_type=client_credentials&username=a&password=b`
	req := httptest.NewRequest(http.MethodPost, "/oauth/token", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestMeHandler_UnauthorizedWithoutToken(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"statusCode":401`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestMeHandler_UnauthorizedWithUnknownToken(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestMeHandler_Success(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"email":"me@example.com"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestFriendsHandlers(t *testing.T) {
	users := &stubUserSvc{
		user:    &domain.User{ID: "user-id", Name: "Me"},
		friends: []domain.UserShortInfo{{ID: "f-1", Name: "Bob", Age: domain.IntPtr(20)}},
	}
	router := newTestRouter(t, users, nil)

	req := httptest.NewRequest(http.MethodGet, "/me/friends", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"name":"Bob"`) {
		t.Fatalf("unexpected list response %d %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/me/friends", strings.NewReader(`{"email":"friend@example.com"}`))
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated || !strings.Contains(rec.Body.String(), `"id":"friend-id"`) {
		t.Fatalf("unexpected add response %d %s", rec.Code, rec.Body.String())
	}

	users.addErr = domain.ErrNotFound
	req = httptest.NewRequest(http.MethodPost, "/me/friends", strings.NewReader(`{"email":"ghost@example.com"}`))
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
