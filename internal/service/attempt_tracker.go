package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	shortWindow        = 60 * time.Second
	escalatedWindow    = 300 * time.Second
	windowLimit        = 5
	escalationTrigger  = 10
	attemptKeyPrefix   = "login_attempts:"
	lifetimeKeyPrefix  = "login_failures_total:"
)

// AttemptTracker throttles login attempts per username. A single-instance
// deployment uses the in-memory implementation; multi-instance deployments
// swap in the Redis one without changing call sites.
type AttemptTracker interface {
	// Allow reports whether the username may attempt a login right now.
	Allow(ctx context.Context, username string) (bool, error)
	// RecordFailure notes a failed attempt for the username.
	RecordFailure(ctx context.Context, username string) error
	// RecordSuccess clears the short-window failure list. The lifetime
	// failure counter is deliberately left untouched: a username that ever
	// crossed the escalation trigger stays subject to the longer window.
	RecordSuccess(ctx context.Context, username string) error
}

type attemptState struct {
	failures []time.Time
	lifetime int
}

type memoryAttemptTracker struct {
	mu    sync.Mutex
	state map[string]*attemptState
	now   func() time.Time
}

func NewMemoryAttemptTracker() AttemptTracker {
	return &memoryAttemptTracker{
		state: make(map[string]*attemptState),
		now:   time.Now,
	}
}

// NewMemoryAttemptTrackerWithClock is used by tests to control time.
func NewMemoryAttemptTrackerWithClock(now func() time.Time) AttemptTracker {
	return &memoryAttemptTracker{
		state: make(map[string]*attemptState),
		now:   now,
	}
}

func attemptKey(username string) string {
	return strings.ToLower(username)
}

func (t *memoryAttemptTracker) Allow(_ context.Context, username string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.state[attemptKey(username)]
	if !ok {
		return true, nil
	}

	now := t.now()
	if countSince(s.failures, now.Add(-shortWindow)) >= windowLimit {
		return false, nil
	}
	if s.lifetime >= escalationTrigger && countSince(s.failures, now.Add(-escalatedWindow)) >= windowLimit {
		return false, nil
	}
	return true, nil
}

func (t *memoryAttemptTracker) RecordFailure(_ context.Context, username string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := attemptKey(username)
	s, ok := t.state[key]
	if !ok {
		s = &attemptState{}
		t.state[key] = s
	}

	now := t.now()
	// Drop entries older than the longest window to bound per-user growth.
	s.failures = append(pruneBefore(s.failures, now.Add(-escalatedWindow)), now)
	s.lifetime++
	return nil
}

func (t *memoryAttemptTracker) RecordSuccess(_ context.Context, username string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.state[attemptKey(username)]; ok {
		s.failures = nil
	}
	return nil
}

func countSince(failures []time.Time, cutoff time.Time) int {
	count := 0
	for _, f := range failures {
		if !f.Before(cutoff) {
			count++
		}
	}
	return count
}

func pruneBefore(failures []time.Time, cutoff time.Time) []time.Time {
	kept := failures[:0]
	for _, f := range failures {
		if !f.Before(cutoff) {
			kept = append(kept, f)
		}
	}
	return kept
}

// redisAttemptTracker keeps the failure timestamps in a sorted set and the
// lifetime counter in a plain key, so multiple instances share one view.
type redisAttemptTracker struct {
	client *redis.Client
}

func NewRedisAttemptTracker(client *redis.Client) AttemptTracker {
	return &redisAttemptTracker{client: client}
}

func (t *redisAttemptTracker) Allow(ctx context.Context, username string) (bool, error) {
	key := attemptKeyPrefix + attemptKey(username)
	now := time.Now()

	shortCutoff := strconv.FormatInt(now.Add(-shortWindow).UnixNano(), 10)
	shortCount, err := t.client.ZCount(ctx, key, shortCutoff, "+inf").Result()
	if err != nil {
		return false, fmt.Errorf("failed to count recent failures: %w", err)
	}
	if shortCount >= windowLimit {
		return false, nil
	}

	lifetime, err := t.client.Get(ctx, lifetimeKeyPrefix+attemptKey(username)).Int64()
	if err != nil && err != redis.Nil {
		return false, fmt.Errorf("failed to read lifetime failures: %w", err)
	}
	if lifetime >= escalationTrigger {
		longCutoff := strconv.FormatInt(now.Add(-escalatedWindow).UnixNano(), 10)
		longCount, err := t.client.ZCount(ctx, key, longCutoff, "+inf").Result()
		if err != nil {
			return false, fmt.Errorf("failed to count escalated failures: %w", err)
		}
		if longCount >= windowLimit {
			return false, nil
		}
	}
	return true, nil
}

func (t *redisAttemptTracker) RecordFailure(ctx context.Context, username string) error {
	key := attemptKeyPrefix + attemptKey(username)
	now := time.Now()
	member := strconv.FormatInt(now.UnixNano(), 10)

	pipe := t.client.Pipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: member})
	pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(now.Add(-escalatedWindow).UnixNano(), 10))
	pipe.Expire(ctx, key, escalatedWindow)
	pipe.Incr(ctx, lifetimeKeyPrefix+attemptKey(username))
	_, err := pipe.Exec(ctx)
	return err
}

func (t *redisAttemptTracker) RecordSuccess(ctx context.Context, username string) error {
	return t.client.Del(ctx, attemptKeyPrefix+attemptKey(username)).Err()
}
