// Package ratelimiter throttles gateway clients with one token bucket per
// client key.
package ratelimiter

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultRPS     = 5
	DefaultBurst   = 10
	DefaultIdleTTL = 10 * time.Minute

	sweepEvery = 512
)

type Config struct {
	Enabled bool
	RPS     float64
	Burst   int
	IdleTTL time.Duration
}

func DefaultConfig() Config {
	return Config{Enabled: true, RPS: DefaultRPS, Burst: DefaultBurst, IdleTTL: DefaultIdleTTL}
}

// MapLimiter applies a token bucket per key and periodically evicts idle
// entries. A nil *MapLimiter allows everything.
type MapLimiter struct {
	limit   rate.Limit
	burst   int
	mu      sync.Mutex
	byKey   map[string]*entry
	hits    uint64
	idleTTL time.Duration
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New returns nil when rps or burst is not positive.
func New(rps float64, burst int, idleTTL time.Duration) *MapLimiter {
	if rps <= 0 || burst <= 0 {
		return nil
	}
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &MapLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		byKey:   make(map[string]*entry),
		idleTTL: idleTTL,
	}
}

// FromConfig returns nil for a disabled config.
func FromConfig(cfg Config) *MapLimiter {
	if !cfg.Enabled {
		return nil
	}
	return New(cfg.RPS, cfg.Burst, cfg.IdleTTL)
}

// Allow reports whether one request from key may proceed at now. Empty
// keys are never limited.
func (l *MapLimiter) Allow(key string, now time.Time) bool {
	if l == nil {
		return true
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.byKey[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byKey[key] = e
	}
	e.lastSeen = now
	allowed := e.limiter.AllowN(now, 1)

	l.hits++
	if l.hits%sweepEvery == 0 {
		l.evictIdle(now)
	}
	return allowed
}

// Len reports how many client keys are tracked.
func (l *MapLimiter) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byKey)
}

func (l *MapLimiter) evictIdle(now time.Time) {
	cutoff := now.Add(-l.idleTTL)
	for k, v := range l.byKey {
		if v.lastSeen.Before(cutoff) {
			delete(l.byKey, k)
		}
	}
}
