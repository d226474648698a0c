// Package ratelimit implements per-key fixed-window request admission.
//
// Windows are discrete, non-overlapping buckets per key: the counter resets
// at each boundary, so a burst straddling a boundary can reach 2x the limit.
// That imprecision is accepted; counters are in-process and do not survive
// restarts.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Config declares a route's admission policy
type Config struct {
	Limit  int
	Window time.Duration
}

// Result is the outcome of an admission check
type Result struct {
	Allowed    bool
	Limit      int // effective limit after the environment multiplier
	Remaining  int
	ResetAt    time.Time     // when the current window rolls over
	RetryAfter time.Duration // time until ResetAt, zero when allowed
}

type window struct {
	count    int
	start    time.Time
	lastSeen time.Time
}

// Service holds fixed-window counters keyed by (client, route). Counters are
// created lazily and swept by the janitor once idle.
type Service struct {
	mu         sync.Mutex
	windows    map[string]*window
	multiplier int
	idleTTL    time.Duration
	sweepEvery time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithIdleTTL sets how long an untouched counter is kept
func WithIdleTTL(d time.Duration) Option {
	return func(s *Service) { s.idleTTL = d }
}

// WithSweepEvery sets the janitor interval
func WithSweepEvery(d time.Duration) Option {
	return func(s *Service) { s.sweepEvery = d }
}

// NewService creates a new Service. multiplier scales every route's limit
// upward (development mode); values below 1 are treated as 1.
func NewService(multiplier int, logger *zap.Logger, opts ...Option) *Service {
	if multiplier < 1 {
		multiplier = 1
	}
	s := &Service{
		windows:    make(map[string]*window),
		multiplier: multiplier,
		idleTTL:    15 * time.Minute,
		sweepEvery: 2 * time.Minute,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Admit counts a request against the key's current window and decides
// whether it may proceed. Increment-and-compare happens under one lock, so
// concurrent requests for the same key never overshoot the limit within a
// window.
func (s *Service) Admit(key string, cfg Config) Result {
	effective := cfg.Limit * s.multiplier
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok {
		w = &window{start: now}
		s.windows[key] = w
	}
	w.lastSeen = now

	if now.Sub(w.start) >= cfg.Window {
		w.start = now
		w.count = 0
	}

	resetAt := w.start.Add(cfg.Window)

	if w.count >= effective {
		return Result{
			Allowed:    false,
			Limit:      effective,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: resetAt.Sub(now),
		}
	}

	w.count++
	return Result{
		Allowed:   true,
		Limit:     effective,
		Remaining: effective - w.count,
		ResetAt:   resetAt,
	}
}

// Sweep drops counters that have not been touched for idleTTL
func (s *Service) Sweep() {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, w := range s.windows {
		if w.lastSeen.Before(cutoff) {
			delete(s.windows, k)
		}
	}
}

// StartJanitor sweeps idle counters periodically until the context is done
func (s *Service) StartJanitor(ctx context.Context) {
	if s.sweepEvery <= 0 {
		return
	}

	t := time.NewTicker(s.sweepEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Sweep()
			}
		}
	}()
}
