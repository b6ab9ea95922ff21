package ratelimiter

import (
	"context"
	"sync"
	"time"
)

//go:generate mockgen -destination=../mocks/mock_limiter.go -package=mocks github.com/lumiere-academy/backend/pkg/ratelimiter Limiter

// Limiter decides whether one more attempt for namespace:key fits its window.
// A namespace without a policy is denied.
type Limiter interface {
	Allow(ctx context.Context, namespace, key string) (bool, error)
}

// RatePolicy defines the rate limit configuration for a namespace
type RatePolicy struct {
	MaxAttempts int
	Window      time.Duration
}

// policies is the namespace -> policy registry shared by the limiter implementations
type policies struct {
	mu       sync.RWMutex
	policies map[string]RatePolicy
}

func newPolicies() policies {
	return policies{policies: make(map[string]RatePolicy)}
}

// SetPolicy configures the rate limit policy for a specific namespace.
//
// Example:
//
//	rl.SetPolicy("forms.submit", 10, time.Minute) // 10 submissions per minute
func (p *policies) SetPolicy(namespace string, maxAttempts int, window time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.policies[namespace] = RatePolicy{
		MaxAttempts: maxAttempts,
		Window:      window,
	}
}

// Policy returns the policy of namespace
func (p *policies) Policy(namespace string) (RatePolicy, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	policy, ok := p.policies[namespace]
	return policy, ok
}

func compositeKey(namespace, key string) string {
	return namespace + ":" + key
}
