package services

import (
	"fmt"
	"sync"
	"time"
)

// RatePolicy configures one limited action: at most MaxAttempts hits per
// Window, with an escalating block once exceeded. A zero BlockDuration
// defaults to twice the window.
type RatePolicy struct {
	MaxAttempts   int
	Window        time.Duration
	BlockDuration time.Duration
}

func (p RatePolicy) blockDuration() time.Duration {
	if p.BlockDuration > 0 {
		return p.BlockDuration
	}
	return 2 * p.Window
}

// RateResult is the outcome of a single hit.
type RateResult struct {
	Allowed    bool
	RetryAfter time.Duration
}

// CounterStore is a keyed rate-limit counter. The in-memory store covers a
// single instance; multi-instance deployments must use the Redis store so
// the abuse-prevention guarantee holds across replicas.
type CounterStore interface {
	Hit(key string, policy RatePolicy) (RateResult, error)
}

type rateEntry struct {
	count        int
	windowStart  time.Time
	blockedUntil time.Time
}

// MemoryCounterStore keeps rate-limit windows in a process-local map.
type MemoryCounterStore struct {
	mu      sync.Mutex
	entries map[string]*rateEntry
	now     func() time.Time
}

func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{
		entries: make(map[string]*rateEntry),
		now:     time.Now,
	}
}

// Hit counts one attempt against key. While a block is active every attempt
// is rejected regardless of count. Once the window or block expires the
// entry resets to a fresh window; stale counts never leak. The window
// boundary check is strict greater-than, so an attempt landing exactly at
// windowStart+window still counts against the existing window.
func (s *MemoryCounterStore) Hit(key string, policy RatePolicy) (RateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.entries[key]

	if ok && e.blockedUntil.After(now) {
		return RateResult{Allowed: false, RetryAfter: e.blockedUntil.Sub(now)}, nil
	}

	if !ok || now.Sub(e.windowStart) > policy.Window || (!e.blockedUntil.IsZero() && !e.blockedUntil.After(now)) {
		s.entries[key] = &rateEntry{count: 1, windowStart: now}
		return RateResult{Allowed: true}, nil
	}

	e.count++
	if e.count > policy.MaxAttempts {
		block := policy.blockDuration()
		e.blockedUntil = now.Add(block)
		return RateResult{Allowed: false, RetryAfter: block}, nil
	}

	return RateResult{Allowed: true}, nil
}

// FormatRetryAfter renders a wait duration in the coarsest unit that keeps
// at least half its precision: seconds under a minute, minutes under an
// hour, hours beyond. Always rounds up; under-promising a wait time is a
// correctness bug, not a formatting choice.
func FormatRetryAfter(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return plural(ceilDiv(d, time.Second), "second")
	case d < time.Hour:
		return plural(ceilDiv(d, time.Minute), "minute")
	default:
		return plural(ceilDiv(d, time.Hour), "hour")
	}
}

func ceilDiv(d, unit time.Duration) int64 {
	n := int64(d / unit)
	if d%unit != 0 {
		n++
	}
	if n < 1 {
		n = 1
	}
	return n
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
