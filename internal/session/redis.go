package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "jobby:session:"

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Cookie   CookieOptions
}

// RedisStore keeps tokens in Redis under a random session id carried in
// the cookie. Entries expire with the session TTL.
type RedisStore struct {
	client *redis.Client
	opts   CookieOptions
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, o RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     o.Addr,
		Password: o.Password,
		DB:       o.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis session store unavailable at %s: %w", o.Addr, err)
	}

	return &RedisStore{client: client, opts: o.Cookie.withDefaults()}, nil
}

// Close releases the Redis connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Read(r *http.Request) (string, error) {
	id, err := s.opts.read(r)
	if err != nil {
		return "", err
	}

	tok, err := s.client.Get(r.Context(), redisKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("reading session: %w", err)
	}
	return tok, nil
}

func (s *RedisStore) Write(w http.ResponseWriter, r *http.Request, token string) error {
	id := uuid.NewString()
	if err := s.client.Set(r.Context(), redisKeyPrefix+id, token, s.opts.TTL).Err(); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	http.SetCookie(w, s.opts.cookie(id))
	return nil
}

func (s *RedisStore) Clear(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, s.opts.expired())

	id, err := s.opts.read(r)
	if err != nil {
		return nil
	}
	if err := s.client.Del(r.Context(), redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
