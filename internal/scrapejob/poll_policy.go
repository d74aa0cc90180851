package scrapejob

import (
	"context"
	"errors"
	"time"
)

// PollPolicy decides how long to wait between status checks and when to give up.
type PollPolicy interface {
	ShouldRetry(err error, attempt int) bool
	Backoff(attempt int) time.Duration
}

// FixedIntervalPolicy polls at a constant interval for a bounded number of attempts.
type FixedIntervalPolicy struct {
	maxAttempts int
	interval    time.Duration
}

// NewFixedIntervalPolicy builds a policy. maxAttempts below 1 is treated as 1.
func NewFixedIntervalPolicy(interval time.Duration, maxAttempts int) *FixedIntervalPolicy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &FixedIntervalPolicy{
		maxAttempts: maxAttempts,
		interval:    interval,
	}
}

// ShouldRetry reports whether another status check is allowed after attempt.
// A nil err means the job is still in progress.
func (p *FixedIntervalPolicy) ShouldRetry(err error, attempt int) bool {
	if attempt >= p.maxAttempts {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// Backoff returns the wait before the next attempt.
func (p *FixedIntervalPolicy) Backoff(int) time.Duration {
	return p.interval
}

// MaxAttempts returns the attempt budget.
func (p *FixedIntervalPolicy) MaxAttempts() int {
	return p.maxAttempts
}
