package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateStore keeps OAuth state values between the start and callback legs.
// Consume reports whether the state existed and had not expired, and removes it.
type StateStore interface {
	Put(ctx context.Context, state string, ttl time.Duration) error
	Consume(ctx context.Context, state string) (bool, error)
}

type MemoryStateStore struct {
	mu    sync.Mutex
	items map[string]time.Time
	now   func() time.Time
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{items: make(map[string]time.Time), now: time.Now}
}

// Put also drops expired states so abandoned flows do not accumulate.
func (s *MemoryStateStore) Put(_ context.Context, state string, ttl time.Duration) error {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, exp := range s.items {
		if now.After(exp) {
			delete(s.items, k)
		}
	}
	s.items[state] = now.Add(ttl)
	return nil
}

func (s *MemoryStateStore) Consume(_ context.Context, state string) (bool, error) {
	s.mu.Lock()
	exp, ok := s.items[state]
	if ok {
		delete(s.items, state)
	}
	s.mu.Unlock()
	return ok && !s.now().After(exp), nil
}

const redisStatePrefix = "oauth:state:"

// RedisStateStore shares state across API instances. Expiry is left to Redis.
type RedisStateStore struct {
	client *redis.Client
}

func NewRedisStateStore(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{client: client}
}

func (s *RedisStateStore) Put(ctx context.Context, state string, ttl time.Duration) error {
	return s.client.Set(ctx, redisStatePrefix+state, "1", ttl).Err()
}

// Consume relies on DEL returning the number of removed keys, so two
// concurrent callbacks cannot both redeem the same state.
func (s *RedisStateStore) Consume(ctx context.Context, state string) (bool, error) {
	n, err := s.client.Del(ctx, redisStatePrefix+state).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
