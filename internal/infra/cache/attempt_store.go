package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/usecase/unavailability"
)

const attemptKeyPrefix = "clinic-scheduler:unavailability-attempt:"

// RedisAttemptStore keeps workflow attempts as JSON with a TTL, so a
// conflict presented on one instance can be resolved on another.
type RedisAttemptStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAttemptStore(client *redis.Client, ttl time.Duration) *RedisAttemptStore {
	return &RedisAttemptStore{client: client, ttl: ttl}
}

var _ unavailability.AttemptStore = (*RedisAttemptStore)(nil)

func attemptKey(id uuid.UUID) string {
	return attemptKeyPrefix + id.String()
}

func (s *RedisAttemptStore) Save(ctx context.Context, a *unavailability.Attempt) error {
	b, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, attemptKey(a.ID), b, s.ttl).Err()
}

func (s *RedisAttemptStore) Get(ctx context.Context, id uuid.UUID) (*unavailability.Attempt, error) {
	b, err := s.client.Get(ctx, attemptKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, httperr.ErrBusiness("attempt_not_found")
	}
	if err != nil {
		return nil, err
	}

	var a unavailability.Attempt
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *RedisAttemptStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.client.Del(ctx, attemptKey(id)).Err()
}
