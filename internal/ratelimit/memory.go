package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/Joaovenera/wms-sub000/internal/validation"
	"github.com/Joaovenera/wms-sub000/pkg/metrics"
)

type window struct {
	start time.Time
	count int
	score int
}

// MemoryLimiter is a process-local limiter. Like the in-memory cache
// it is not shared across instances, so the budget applies per
// instance; multi-instance deployments use the Redis limiter.
type MemoryLimiter struct {
	mu        sync.Mutex
	windows   map[string]*window
	baseLimit int
	window    time.Duration
	now       func() time.Time
	metrics   *metrics.Metrics
	lastSweep time.Time
}

// MemoryOption configures a MemoryLimiter
type MemoryOption func(*MemoryLimiter)

// WithBaseLimit overrides the default per-window budget
func WithBaseLimit(limit int) MemoryOption {
	return func(l *MemoryLimiter) { l.baseLimit = limit }
}

// WithWindow overrides the window length
func WithWindow(d time.Duration) MemoryOption {
	return func(l *MemoryLimiter) { l.window = d }
}

// WithClock overrides the time source, for tests
func WithClock(now func() time.Time) MemoryOption {
	return func(l *MemoryLimiter) { l.now = now }
}

// WithMetrics wires rejection counters into the metrics registry
func WithMetrics(m *metrics.Metrics) MemoryOption {
	return func(l *MemoryLimiter) { l.metrics = m }
}

// NewMemoryLimiter creates an in-memory rate limiter
func NewMemoryLimiter(opts ...MemoryOption) *MemoryLimiter {
	limiter := &MemoryLimiter{
		windows:   make(map[string]*window),
		baseLimit: DefaultBaseLimit,
		window:    DefaultWindow,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(limiter)
	}
	limiter.lastSweep = limiter.now()
	return limiter
}

// Allow charges the request against the identity's current window
func (l *MemoryLimiter) Allow(_ context.Context, clientIP, userID string, request *validation.Request) (Decision, error) {
	complexity := Complexity(request)
	effectiveLimit := EffectiveLimit(l.baseLimit, complexity)
	scoreLimit := effectiveLimit * scoreMultiplier

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	key := identityKey(clientIP, userID)
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		w = &window{start: now}
		l.windows[key] = w
	}

	decision := Decision{
		Complexity:     complexity,
		EffectiveLimit: effectiveLimit,
	}

	if w.count >= effectiveLimit || w.score+complexity > scoreLimit {
		decision.Allowed = false
		decision.Remaining = effectiveLimit - w.count
		if decision.Remaining < 0 {
			decision.Remaining = 0
		}
		decision.RetryAfter = w.start.Add(l.window).Sub(now)
		if l.metrics != nil {
			l.metrics.RecordRateLimitRejection("composition")
		}
		return decision, nil
	}

	w.count++
	w.score += complexity
	decision.Allowed = true
	decision.Remaining = effectiveLimit - w.count
	return decision, nil
}

// sweep drops expired windows; runs at most once per window length
func (l *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	for key, w := range l.windows {
		if now.Sub(w.start) >= l.window {
			delete(l.windows, key)
		}
	}
	l.lastSweep = now
}
