package cache

import (
	"context"
	"sync"
	"time"

	"ministry/internal/domain/service"
	"ministry/internal/errors"

	"github.com/redis/go-redis/v9"
)

const cooldownPrefix = "ministry:cooldown:"

type redisCooldown struct {
	client *redis.Client
}

// NewCooldownStore uses Redis SET NX when a client is available and a
// process-local map otherwise.
func NewCooldownStore(client *redis.Client) service.CooldownStore {
	if client == nil {
		return newMemoryCooldown(time.Now)
	}

	return &redisCooldown{client: client}
}

func (s *redisCooldown) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, cooldownPrefix+key, 1, ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, "redis setnx")
	}

	return ok, nil
}

type memoryCooldown struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

func newMemoryCooldown(now func() time.Time) *memoryCooldown {
	return &memoryCooldown{expires: make(map[string]time.Time), now: now}
}

func (s *memoryCooldown) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if until, ok := s.expires[key]; ok && now.Before(until) {
		return false, nil
	}

	for k, until := range s.expires {
		if !now.Before(until) {
			delete(s.expires, k)
		}
	}
	s.expires[key] = now.Add(ttl)

	return true, nil
}
