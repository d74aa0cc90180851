// Package runner drives the sequential submit, poll, extract, persist pipeline.
package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/contact-scraper/internal/checkpoint"
	"github.com/JakeFAU/contact-scraper/internal/extract"
	"github.com/JakeFAU/contact-scraper/internal/metrics"
	"github.com/JakeFAU/contact-scraper/internal/scrapejob"
)

// Submitter sends a scrape job for a URL and returns its id.
type Submitter interface {
	Submit(ctx context.Context, url string) (string, error)
}

// Waiter blocks until a job yields a result or gives up.
type Waiter interface {
	Wait(ctx context.Context, jobID string) (json.RawMessage, error)
}

// CheckpointStore persists the index of the next URL to process together
// with the number of contacts already written.
type CheckpointStore interface {
	LoadPosition() checkpoint.Position
	SavePosition(pos checkpoint.Position) error
}

// ContactSink persists the accumulated contact list.
type ContactSink interface {
	Write(contacts []extract.Contact) error
}

// ContactSource returns contacts persisted by an earlier run.
type ContactSource interface {
	Read() ([]extract.Contact, error)
}

// IDGenerator produces run ids.
type IDGenerator interface {
	NewID() (string, error)
}

// Config controls Session pacing.
type Config struct {
	// JobDelay is the pause after each successfully processed URL.
	JobDelay time.Duration
	// Sleep overrides the delay implementation; nil uses scrapejob.Sleep.
	Sleep scrapejob.SleepFunc
}

// Summary reports what a Run did.
type Summary struct {
	RunID     string
	Start     int
	NextIndex int
	Processed int
	Skipped   int
}

// Session holds every dependency and the in-memory contact list for one run.
type Session struct {
	submitter  Submitter
	waiter     Waiter
	checkpoint CheckpointStore
	sink       ContactSink
	ids        IDGenerator
	cfg        Config
	logger     *zap.Logger

	contacts []extract.Contact
}

// New constructs a Session.
func New(
	submitter Submitter,
	waiter Waiter,
	checkpoint CheckpointStore,
	sink ContactSink,
	ids IDGenerator,
	cfg Config,
	logger *zap.Logger,
) *Session {
	metrics.Init()
	if cfg.Sleep == nil {
		cfg.Sleep = scrapejob.Sleep
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		submitter:  submitter,
		waiter:     waiter,
		checkpoint: checkpoint,
		sink:       sink,
		ids:        ids,
		cfg:        cfg,
		logger:     logger,
	}
}

// Contacts returns a copy of the records gathered so far.
func (s *Session) Contacts() []extract.Contact {
	out := make([]extract.Contact, len(s.contacts))
	copy(out, s.contacts)
	return out
}

// Run processes urls from the saved checkpoint onward. Submission and polling
// failures skip the URL without advancing the checkpoint; persistence failures
// and context cancellation end the run.
func (s *Session) Run(ctx context.Context, urls []string) (Summary, error) {
	summary := Summary{RunID: s.newRunID()}
	logger := s.logger.With(zap.String("run_id", summary.RunID))
	defer func() {
		logger.Info("Scraping complete.",
			zap.Int("processed", summary.Processed),
			zap.Int("skipped", summary.Skipped),
			zap.Int("next_index", summary.NextIndex),
		)
	}()

	pos := s.checkpoint.LoadPosition()
	start := pos.Index
	if start > len(urls) {
		logger.Warn("checkpoint beyond url list; clamping", zap.Int("index", start), zap.Int("urls", len(urls)))
		start = len(urls)
	}
	summary.Start = start
	summary.NextIndex = start
	metrics.SetCheckpoint(start)
	s.resume(logger, pos)

	for i := start; i < len(urls); i++ {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("run canceled: %w", err)
		}
		url := urls[i]
		urlLogger := logger.With(zap.Int("index", i), zap.String("url", url))

		jobID, err := s.submitter.Submit(ctx, url)
		if err != nil {
			metrics.ObserveSubmit(metrics.ResultError)
			if ctx.Err() != nil {
				return summary, fmt.Errorf("run canceled: %w", ctx.Err())
			}
			urlLogger.Error("skipping job due to submission failure", zap.Error(err))
			summary.Skipped++
			continue
		}
		metrics.ObserveSubmit(metrics.ResultSuccess)
		urlLogger.Info("successfully submitted job", zap.String("job_id", jobID))

		result, err := s.waiter.Wait(ctx, jobID)
		if err != nil {
			metrics.ObserveJob(url, finishLabel(err))
			if ctx.Err() != nil {
				return summary, fmt.Errorf("run canceled: %w", ctx.Err())
			}
			urlLogger.Error("skipping job without result", zap.String("job_id", jobID), zap.Error(err))
			summary.Skipped++
			continue
		}
		metrics.ObserveJob(url, "completed")

		contact := extract.Extract(result, url)
		s.contacts = append(s.contacts, contact)
		urlLogger.Info("data saved", zap.Any("contact", contact))

		if err := s.sink.Write(s.contacts); err != nil {
			return summary, fmt.Errorf("persist contacts: %w", err)
		}
		if err := s.checkpoint.SavePosition(checkpoint.Position{Index: i + 1, Records: len(s.contacts)}); err != nil {
			return summary, fmt.Errorf("persist checkpoint: %w", err)
		}
		metrics.SetCheckpoint(i + 1)
		summary.NextIndex = i + 1
		summary.Processed++

		if err := s.cfg.Sleep(ctx, s.cfg.JobDelay); err != nil {
			return summary, fmt.Errorf("run canceled: %w", err)
		}
	}
	return summary, nil
}

// resume seeds the contact list with the records the checkpoint vouches for,
// so a resumed run appends to them instead of overwriting them. Records
// written after the last checkpoint save belong to a URL that will be
// processed again and are dropped.
func (s *Session) resume(logger *zap.Logger, pos checkpoint.Position) {
	source, ok := s.sink.(ContactSource)
	if !ok || pos.Index == 0 || pos.Records == 0 {
		return
	}
	previous, err := source.Read()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("previous output unreadable; starting a fresh list", zap.Error(err))
		}
		return
	}
	switch {
	case len(previous) > pos.Records:
		logger.Warn("dropping records written after the last checkpoint",
			zap.Int("found", len(previous)),
			zap.Int("kept", pos.Records),
		)
		previous = previous[:pos.Records]
	case len(previous) < pos.Records:
		logger.Warn("previous output shorter than checkpoint",
			zap.Int("found", len(previous)),
			zap.Int("expected", pos.Records),
		)
	}
	s.contacts = append(s.contacts[:0], previous...)
	logger.Info("resuming with previous output", zap.Int("contacts", len(previous)))
}

func (s *Session) newRunID() string {
	if s.ids == nil {
		return ""
	}
	id, err := s.ids.NewID()
	if err != nil {
		s.logger.Warn("run id generation failed", zap.Error(err))
		return ""
	}
	return id
}

func finishLabel(err error) string {
	switch {
	case errors.Is(err, scrapejob.ErrJobFailed):
		return "failed"
	case errors.Is(err, scrapejob.ErrMalformedStatus):
		return "malformed"
	case errors.Is(err, scrapejob.ErrPollBudgetExhausted):
		return "exhausted"
	default:
		return "canceled"
	}
}
