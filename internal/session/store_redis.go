package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"game-market/internal/purchaseform"
)

const keyPrefix = "purchase_form:"

// RedisStore keeps form sessions in Redis with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// NewRedisClient parses url, connects and pings.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func (s *RedisStore) Get(ctx context.Context, purchaseID string) (purchaseform.Session, error) {
	raw, err := s.client.GetEx(ctx, keyPrefix+purchaseID, s.ttl).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return purchaseform.Session{}, nil
		}
		return purchaseform.Session{}, fmt.Errorf("get form session: %w", err)
	}
	var out purchaseform.Session
	if err := json.Unmarshal(raw, &out); err != nil {
		return purchaseform.Session{}, fmt.Errorf("decode form session: %w", err)
	}
	return out, nil
}

func (s *RedisStore) Save(ctx context.Context, purchaseID string, sess purchaseform.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode form session: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+purchaseID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("set form session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, purchaseID string) error {
	return s.client.Del(ctx, keyPrefix+purchaseID).Err()
}
