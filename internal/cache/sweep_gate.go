package cache

import (
	"context"
	"sync"
	"time"
)

// SweepGate throttles repeated sweep runs. TryAcquire returns true when
// the caller may run a sweep now, false when one ran within the
// interval. The gate is shared state, so the redis implementation keeps
// multiple instances from sweeping in parallel.
type SweepGate interface {
	TryAcquire(ctx context.Context, key string, interval time.Duration) (bool, error)
}

// RedisSweepGate gates on a redis SET NX key with the interval as TTL.
type RedisSweepGate struct{}

// NewRedisSweepGate creates a redis backed gate.
func NewRedisSweepGate() *RedisSweepGate {
	return &RedisSweepGate{}
}

// TryAcquire claims the gate key. When redis is disabled it always
// allows, leaving throttling to the in-process gate.
func (g *RedisSweepGate) TryAcquire(ctx context.Context, key string, interval time.Duration) (bool, error) {
	if !Enabled() {
		return true, nil
	}
	return redisClient.SetNX(ctx, BuildKey(key), time.Now().Unix(), interval).Result()
}

// MemorySweepGate is an in-process gate used when redis is disabled and
// in tests.
type MemorySweepGate struct {
	mu      sync.Mutex
	lastRun map[string]time.Time
	now     func() time.Time
}

// NewMemorySweepGate creates an in-memory gate.
func NewMemorySweepGate() *MemorySweepGate {
	return &MemorySweepGate{
		lastRun: make(map[string]time.Time),
		now:     time.Now,
	}
}

// NewMemorySweepGateWithClock creates a gate with an injected clock.
func NewMemorySweepGateWithClock(now func() time.Time) *MemorySweepGate {
	gate := NewMemorySweepGate()
	if now != nil {
		gate.now = now
	}
	return gate
}

// TryAcquire claims the gate when the last run is older than interval.
func (g *MemorySweepGate) TryAcquire(_ context.Context, key string, interval time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	current := g.now()
	if last, ok := g.lastRun[key]; ok && current.Sub(last) < interval {
		return false, nil
	}
	g.lastRun[key] = current
	return true, nil
}
