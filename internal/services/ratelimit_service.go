// Package services – RateLimitService
//
// This file implements the RateLimitService, a fixed-window request limiter
// whose counters live in Redis so every replica of the API enforces the same
// budget. Each (identifier, endpoint) pair owns one counter key; the first
// increment of a window arms a TTL, after which the key simply disappears and
// the window restarts.
//
// Increment is a single Lua script, so the read-bump-expire sequence is
// atomic even under concurrent callers. Check never mutates state.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindowScript atomically bumps the window counter and arms the TTL on
// the first hit. Returns {count, pttl_ms}.
const fixedWindowScript = `local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {n, ttl}`

// RateLimitPolicy bounds one endpoint: at most MaxRequests per Window.
type RateLimitPolicy struct {
	MaxRequests int
	Window      time.Duration
}

// RateLimitDecision is the outcome of a check or increment.
type RateLimitDecision struct {
	Allowed   bool      `json:"allowed"`
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// RateLimitService enforces per-endpoint request budgets backed by Redis.
type RateLimitService struct {
	// Redis is the shared counter store.
	Redis *redis.Client

	// Policies maps endpoint names to their budgets; endpoints not listed
	// fall back to Default.
	Policies map[string]RateLimitPolicy

	// Default applies to any endpoint without an explicit policy.
	Default RateLimitPolicy

	// Now allows tests to pin the clock; defaults to time.Now.
	Now func() time.Time
}

// NewRateLimitService constructs a RateLimitService.
func NewRateLimitService(rdb *redis.Client, policies map[string]RateLimitPolicy, def RateLimitPolicy) *RateLimitService {
	return &RateLimitService{Redis: rdb, Policies: policies, Default: def, Now: time.Now}
}

// PolicyFor returns the policy governing endpoint.
func (s *RateLimitService) PolicyFor(endpoint string) RateLimitPolicy {
	if p, ok := s.Policies[endpoint]; ok {
		return p
	}
	return s.Default
}

func (s *RateLimitService) key(identifier, endpoint string) string {
	return fmt.Sprintf("rl:%s:%s", endpoint, identifier)
}

// Check reports the caller's standing without consuming budget.
func (s *RateLimitService) Check(ctx context.Context, identifier, endpoint string) (*RateLimitDecision, error) {
	if err := validateSubject(identifier, endpoint); err != nil {
		return nil, err
	}
	policy := s.PolicyFor(endpoint)

	count, err := s.Redis.Get(ctx, s.key(identifier, endpoint)).Int()
	if errors.Is(err, redis.Nil) {
		count = 0
	} else if err != nil {
		return nil, err
	}

	ttl, err := s.Redis.PTTL(ctx, s.key(identifier, endpoint)).Result()
	if err != nil {
		return nil, err
	}
	// Allowed here means a further request would still fit in the window.
	return s.decision(policy, count, ttl, count < policy.MaxRequests), nil
}

// Increment consumes one unit of budget and reports the new standing. When
// the window is exhausted it returns the decision together with
// ErrRateLimited; the counter still advances, so hammering a closed window
// never reopens it early.
func (s *RateLimitService) Increment(ctx context.Context, identifier, endpoint string) (*RateLimitDecision, error) {
	if err := validateSubject(identifier, endpoint); err != nil {
		return nil, err
	}
	policy := s.PolicyFor(endpoint)

	vals, err := s.Redis.Eval(ctx, fixedWindowScript,
		[]string{s.key(identifier, endpoint)},
		policy.Window.Milliseconds()).Slice()
	if err != nil {
		return nil, err
	}
	if len(vals) != 2 {
		return nil, fmt.Errorf("rate limit script returned %d values", len(vals))
	}
	count, _ := vals[0].(int64)
	ttlMs, _ := vals[1].(int64)

	d := s.decision(policy, int(count), time.Duration(ttlMs)*time.Millisecond, int(count) <= policy.MaxRequests)
	if !d.Allowed {
		return d, ErrRateLimited
	}
	return d, nil
}

// Reset clears the window for one (identifier, endpoint) pair.
func (s *RateLimitService) Reset(ctx context.Context, identifier, endpoint string) error {
	if err := validateSubject(identifier, endpoint); err != nil {
		return err
	}
	return s.Redis.Del(ctx, s.key(identifier, endpoint)).Err()
}

func (s *RateLimitService) decision(policy RateLimitPolicy, count int, ttl time.Duration, allowed bool) *RateLimitDecision {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	resetAt := now().UTC().Add(policy.Window)
	if ttl > 0 {
		resetAt = now().UTC().Add(ttl)
	}
	remaining := policy.MaxRequests - count
	if remaining < 0 {
		remaining = 0
	}
	return &RateLimitDecision{
		Allowed:   allowed,
		Limit:     policy.MaxRequests,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}

func validateSubject(identifier, endpoint string) error {
	if strings.TrimSpace(identifier) == "" || strings.TrimSpace(endpoint) == "" {
		return fmt.Errorf("%w: identifier and endpoint are required", ErrValidation)
	}
	return nil
}
