package scrapejob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/contact-scraper/internal/metrics"
)

// StatusChecker reads the status of a submitted job.
type StatusChecker interface {
	Status(ctx context.Context, jobID string) (StatusResponse, error)
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Poller waits for submitted jobs to reach a terminal status.
type Poller struct {
	checker StatusChecker
	policy  PollPolicy
	sleep   SleepFunc
	logger  *zap.Logger
}

// NewPoller constructs a Poller. A nil sleep uses Sleep.
func NewPoller(checker StatusChecker, policy PollPolicy, sleep SleepFunc, logger *zap.Logger) *Poller {
	metrics.Init()
	if sleep == nil {
		sleep = Sleep
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		checker: checker,
		policy:  policy,
		sleep:   sleep,
		logger:  logger,
	}
}

// Wait polls jobID until it completes, fails, or the policy gives up.
// Completed jobs return their result payload. Transport errors and bodies
// that are not JSON are logged and retried; malformed responses and failed
// jobs end the wait.
func (p *Poller) Wait(ctx context.Context, jobID string) (json.RawMessage, error) {
	for attempt := 1; ; attempt++ {
		metrics.ObservePollAttempt()
		status, err := p.checker.Status(ctx, jobID)
		switch {
		case err == nil:
			switch status.Status {
			case JobStatusCompleted:
				p.logger.Info("job completed", zap.String("job_id", jobID), zap.Int("attempts", attempt))
				return status.Result, nil
			case JobStatusFailed:
				p.logger.Error("job failed", zap.String("job_id", jobID))
				return nil, fmt.Errorf("job %s: %w", jobID, ErrJobFailed)
			default:
				p.logger.Debug("job pending",
					zap.String("job_id", jobID),
					zap.String("status", string(status.Status)),
					zap.Int("attempt", attempt),
				)
			}
		case errors.Is(err, ErrMalformedStatus):
			p.logger.Error("unexpected status format", zap.String("job_id", jobID), zap.Error(err))
			return nil, fmt.Errorf("job %s: %w", jobID, err)
		case ctx.Err() != nil:
			return nil, fmt.Errorf("job %s: %w", jobID, ctx.Err())
		default:
			p.logger.Error("failed to check status", zap.String("job_id", jobID), zap.Error(err))
		}

		if !p.policy.ShouldRetry(ctx.Err(), attempt) {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("job %s: %w", jobID, ctx.Err())
			}
			return nil, fmt.Errorf("job %s after %d attempts: %w", jobID, attempt, ErrPollBudgetExhausted)
		}
		if err := p.sleep(ctx, p.policy.Backoff(attempt)); err != nil {
			return nil, fmt.Errorf("job %s: %w", jobID, err)
		}
	}
}

// Sleep waits for d unless ctx finishes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
