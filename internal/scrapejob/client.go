package scrapejob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ClientConfig controls how the job API is reached.
type ClientConfig struct {
	SubmitURL string
	// StatusURL carries a {jobID} path parameter.
	StatusURL string
	Token     string
	UserAgent string
	Timeout   time.Duration
}

// Client submits jobs to and reads job status from the job-queue API.
type Client struct {
	http  *resty.Client
	cfg   ClientConfig
	clock Clock
}

// NewClient builds a Client. The bearer header is always sent, even when the
// token is empty.
func NewClient(cfg ClientConfig, clock Clock) (*Client, error) {
	if strings.TrimSpace(cfg.SubmitURL) == "" {
		return nil, fmt.Errorf("submit url is required")
	}
	if !strings.Contains(cfg.StatusURL, "{jobID}") {
		return nil, fmt.Errorf("status url must contain {jobID}")
	}
	if clock == nil {
		return nil, fmt.Errorf("clock is required")
	}

	client := resty.New()
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	client.SetHeader("Authorization", "Bearer "+cfg.Token)

	return &Client{http: client, cfg: cfg, clock: clock}, nil
}

// Submit posts a new job for url and returns the server-assigned job id.
func (c *Client) Submit(ctx context.Context, url string) (string, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(NewJob(url, c.clock)).
		Post(c.cfg.SubmitURL)
	if err != nil {
		return "", fmt.Errorf("submit job: %w", err)
	}
	if res.IsError() {
		return "", fmt.Errorf("submit job: unexpected status %d", res.StatusCode())
	}

	var body submitResponse
	if err := json.Unmarshal(res.Body(), &body); err != nil {
		return "", fmt.Errorf("decode submit response: %w", err)
	}
	if body.ID == "" {
		return "", ErrNoJobID
	}
	return body.ID, nil
}

// Status fetches the current status of jobID. The API answers with either an
// object or a list holding one; both are normalized to a StatusResponse.
func (c *Client) Status(ctx context.Context, jobID string) (StatusResponse, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetPathParam("jobID", jobID).
		Get(c.cfg.StatusURL)
	if err != nil {
		return StatusResponse{}, fmt.Errorf("check status: %w", err)
	}
	if res.IsError() {
		return StatusResponse{}, fmt.Errorf("check status: unexpected status %d", res.StatusCode())
	}
	return ParseStatus(res.Body())
}

// ParseStatus normalizes a raw status body. A body that is not JSON is
// ErrUndecodableStatus. A list yields its first element when that element is
// an object; any other JSON shape is ErrMalformedStatus. A missing result is
// reported as an empty list.
func ParseStatus(body []byte) (StatusResponse, error) {
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		return StatusResponse{}, fmt.Errorf("%w: %q", ErrUndecodableStatus, truncate(trimmed, 64))
	}

	obj := trimmed
	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return StatusResponse{}, fmt.Errorf("%w: %v", ErrMalformedStatus, err)
		}
		if len(items) == 0 {
			return StatusResponse{}, fmt.Errorf("%w: empty list", ErrMalformedStatus)
		}
		obj = bytes.TrimSpace(items[0])
		if len(obj) == 0 || obj[0] != '{' {
			return StatusResponse{}, fmt.Errorf("%w: list element is not an object", ErrMalformedStatus)
		}
	case '{':
	default:
		return StatusResponse{}, fmt.Errorf("%w: body is neither object nor list", ErrMalformedStatus)
	}

	var status StatusResponse
	if err := json.Unmarshal(obj, &status); err != nil {
		return StatusResponse{}, fmt.Errorf("%w: %v", ErrMalformedStatus, err)
	}
	if len(status.Result) == 0 || string(status.Result) == "null" {
		status.Result = json.RawMessage("[]")
	}
	return status, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
