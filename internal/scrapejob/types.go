// Package scrapejob talks to the remote scrape job-queue API: it builds job
// submissions, submits them, and polls their status until a result arrives.
package scrapejob

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/samber/lo"

	"github.com/JakeFAU/contact-scraper/internal/extract"
)

// JobStatus is the lifecycle state reported by the job-queue API.
type JobStatus string

// Status values the API is known to report. Anything else is in progress.
const (
	JobStatusQueued    JobStatus = "Queued"
	JobStatusCompleted JobStatus = "Completed"
	JobStatusFailed    JobStatus = "Failed"
)

var (
	// ErrNoJobID is returned when a submission response carries no id.
	ErrNoJobID = errors.New("no job id returned")
	// ErrMalformedStatus is returned when a status response has an unexpected shape.
	ErrMalformedStatus = errors.New("unexpected status response shape")
	// ErrUndecodableStatus is returned when a status body is not JSON at all.
	// Pollers retry it like a transport error.
	ErrUndecodableStatus = errors.New("status response is not valid JSON")
	// ErrJobFailed is returned when the API reports the job as failed.
	ErrJobFailed = errors.New("job failed")
	// ErrPollBudgetExhausted is returned when polling gives up before a terminal status.
	ErrPollBudgetExhausted = errors.New("poll attempts exhausted")
)

// Element is a named XPath field extractor sent with each job.
type Element struct {
	Name  string `json:"name"`
	XPath string `json:"xpath"`
	URL   string `json:"url"`
}

// JobOptions mirrors the API's per-job options object.
type JobOptions struct {
	MultiPageScrape bool              `json:"multi_page_scrape"`
	CustomHeaders   map[string]string `json:"custom_headers"`
}

// Job is the submission body for a single URL.
type Job struct {
	ID          string          `json:"id"`
	URL         string          `json:"url"`
	Elements    []Element       `json:"elements"`
	User        string          `json:"user"`
	TimeCreated string          `json:"time_created"`
	Result      json.RawMessage `json:"result"`
	JobOptions  JobOptions      `json:"job_options"`
	Status      JobStatus       `json:"status"`
	Chat        string          `json:"chat"`
}

// StatusResponse is the normalized job status returned by the API.
type StatusResponse struct {
	Status JobStatus       `json:"status"`
	Result json.RawMessage `json:"result"`
}

type submitResponse struct {
	ID string `json:"id"`
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// NewJob builds a fresh queued job for url carrying every contact field extractor.
func NewJob(url string, clock Clock) Job {
	elements := lo.Map(extract.Fields, func(f extract.Field, _ int) Element {
		return Element{Name: f.Name, XPath: f.XPath, URL: url}
	})
	return Job{
		ID:          "",
		URL:         url,
		Elements:    elements,
		User:        "",
		TimeCreated: clock.Now().UTC().Format(time.RFC3339Nano),
		Result:      json.RawMessage("[]"),
		JobOptions: JobOptions{
			MultiPageScrape: false,
			CustomHeaders:   map[string]string{},
		},
		Status: JobStatusQueued,
		Chat:   "",
	}
}
