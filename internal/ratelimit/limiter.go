// Package ratelimit provides per-tool token bucket rate limiting for MCP tools.
package ratelimit

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrLimited is returned by Set.Check when a tool has no tokens left.
var ErrLimited = errors.New("rate limit exceeded")

// Limit describes a token bucket: Rate tokens per second refilled up to Burst.
type Limit struct {
	Rate  float64
	Burst int
}

// PerMinute returns a Limit allowing n calls per minute with the given burst.
func PerMinute(n float64, burst int) Limit {
	return Limit{Rate: n / 60.0, Burst: burst}
}

// Bucket is a single token bucket. It is safe for concurrent use.
type Bucket struct {
	mu        sync.Mutex
	limit     Limit
	tokens    float64
	lastCheck time.Time
	nowFunc   func() time.Time // injectable clock for testing
}

// NewBucket creates a bucket that starts full.
func NewBucket(limit Limit) *Bucket {
	return &Bucket{
		limit:     limit,
		tokens:    float64(limit.Burst),
		lastCheck: time.Now(),
		nowFunc:   time.Now,
	}
}

// Allow takes one token if available and reports whether it did.
func (b *Bucket) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.nowFunc()
	if elapsed := now.Sub(b.lastCheck).Seconds(); elapsed > 0 {
		b.tokens += b.limit.Rate * elapsed
		if ceiling := float64(b.limit.Burst); b.tokens > ceiling {
			b.tokens = ceiling
		}
		b.lastCheck = now
	}

	if b.tokens < 1.0 {
		return false
	}
	b.tokens--
	return true
}

// Set maps tool names to their buckets.
type Set map[string]*Bucket

// NewSet creates one bucket per entry in limits.
func NewSet(limits map[string]Limit) Set {
	s := make(Set, len(limits))
	for tool, l := range limits {
		s[tool] = NewBucket(l)
	}
	return s
}

// Check returns nil if tool may run now, or an error wrapping ErrLimited.
// Tools without a bucket are always allowed.
func (s Set) Check(tool string) error {
	b, ok := s[tool]
	if !ok {
		return nil
	}
	if !b.Allow() {
		return fmt.Errorf("%w for %s, please try again shortly", ErrLimited, tool)
	}
	return nil
}
