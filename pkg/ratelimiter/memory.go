package ratelimiter

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryLimiter keeps attempts in process memory. It only limits a single
// instance and is meant for development and tests; deployments with more than
// one replica use RedisLimiter.
type MemoryLimiter struct {
	policies

	mu          sync.Mutex
	attempts    map[string][]time.Time // "namespace:key" -> timestamps of attempts
	now         func() time.Time
	stopCleanup chan struct{}
	stopped     bool
}

// NewMemoryLimiter creates an in-memory limiter and starts its cleanup goroutine
func NewMemoryLimiter() *MemoryLimiter {
	rl := newMemoryLimiter(time.Now)
	go rl.cleanup(time.Minute)
	return rl
}

func newMemoryLimiter(now func() time.Time) *MemoryLimiter {
	return &MemoryLimiter{
		policies:    newPolicies(),
		attempts:    make(map[string][]time.Time),
		now:         now,
		stopCleanup: make(chan struct{}),
	}
}

// Allow records the attempt when it fits the namespace window
func (rl *MemoryLimiter) Allow(_ context.Context, namespace, key string) (bool, error) {
	policy, exists := rl.Policy(namespace)
	if !exists {
		return false, nil
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	ck := compositeKey(namespace, key)
	valid := pruneBefore(rl.attempts[ck], now.Add(-policy.Window))

	if len(valid) >= policy.MaxAttempts {
		rl.attempts[ck] = valid
		return false, nil
	}

	rl.attempts[ck] = append(valid, now)
	return true, nil
}

// Reset clears all recorded attempts for the given namespace and key
func (rl *MemoryLimiter) Reset(namespace, key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	delete(rl.attempts, compositeKey(namespace, key))
}

func pruneBefore(attempts []time.Time, cutoff time.Time) []time.Time {
	valid := make([]time.Time, 0, len(attempts))
	for _, t := range attempts {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	return valid
}

func (rl *MemoryLimiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.stopCleanup:
			return
		}
	}
}

// sweep drops keys with no attempt left inside their namespace window
func (rl *MemoryLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for ck, attempts := range rl.attempts {
		namespace := ck
		if idx := strings.IndexByte(ck, ':'); idx >= 0 {
			namespace = ck[:idx]
		}

		policy, exists := rl.Policy(namespace)
		if !exists {
			delete(rl.attempts, ck)
			continue
		}
		if len(pruneBefore(attempts, now.Add(-policy.Window))) == 0 {
			delete(rl.attempts, ck)
		}
	}
}

// Stop stops the background cleanup goroutine. It is safe to call Stop multiple times.
func (rl *MemoryLimiter) Stop() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if !rl.stopped {
		close(rl.stopCleanup)
		rl.stopped = true
	}
}
