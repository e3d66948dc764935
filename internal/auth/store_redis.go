package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-artisan-market/internal/redisx"
)

type RedisStore struct {
	RDB redis.Cmdable
}

func (s *RedisStore) Save(ctx context.Context, sess Session, ttl time.Duration) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.RDB.Set(ctx, fmt.Sprintf(redisx.KeySession, sess.ID), b, ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context, id string) (Session, error) {
	b, err := s.RDB.Get(ctx, fmt.Sprintf(redisx.KeySession, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, err
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	return sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.RDB.Del(ctx, fmt.Sprintf(redisx.KeySession, id)).Err()
}
