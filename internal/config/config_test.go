package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.SubmitURL != "http://localhost:8000/api/submit-scrape-job" {
		t.Fatalf("unexpected submit url %q", cfg.API.SubmitURL)
	}
	if cfg.API.StatusURL != "http://localhost/api/job/{jobID}" {
		t.Fatalf("unexpected status url %q", cfg.API.StatusURL)
	}
	if cfg.API.Token != "" {
		t.Fatalf("expected empty token, got %q", cfg.API.Token)
	}
	if cfg.Poll.Interval != time.Second || cfg.Run.JobDelay != time.Second {
		t.Fatalf("expected 1s poll interval and job delay, got %v / %v", cfg.Poll.Interval, cfg.Run.JobDelay)
	}
	if cfg.Files.Checkpoint != "index.json" || cfg.Files.Output != "data/contact_data.json" {
		t.Fatalf("unexpected file defaults: %+v", cfg.Files)
	}
}

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
api:
  submit_url: http://jobs.test/submit
  status_url: http://jobs.test/job/{jobID}
  token: secret
http:
  timeout_seconds: 45
poll:
  interval: 250ms
  max_attempts: 12
run:
  job_delay: 0s
files:
  urls: urls.json
  checkpoint: state/index.json
  output: out/contacts.json
  log: out/errors.log
logging:
  development: true
metrics:
  addr: ":9100"
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.Token != "secret" || cfg.API.SubmitURL != "http://jobs.test/submit" {
		t.Fatalf("expected api overrides to apply: %+v", cfg.API)
	}
	if cfg.Poll.Interval != 250*time.Millisecond || cfg.Poll.MaxAttempts != 12 {
		t.Fatalf("expected poll overrides to apply: %+v", cfg.Poll)
	}
	if cfg.Run.JobDelay != 0 {
		t.Fatalf("expected zero job delay, got %v", cfg.Run.JobDelay)
	}
	if cfg.Files.Checkpoint != "state/index.json" {
		t.Fatalf("expected checkpoint override, got %q", cfg.Files.Checkpoint)
	}
	if !cfg.Logging.Development || cfg.Metrics.Addr != ":9100" {
		t.Fatalf("expected logging and metrics overrides: %+v %+v", cfg.Logging, cfg.Metrics)
	}
	if got := cfg.HTTPTimeout(); got != 45*time.Second {
		t.Fatalf("expected http timeout 45s, got %v", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	base := Config{
		API:   APIConfig{SubmitURL: "http://x/submit", StatusURL: "http://x/job/{jobID}"},
		HTTP:  HTTPConfig{TimeoutSeconds: 10},
		Poll:  PollConfig{Interval: time.Second, MaxAttempts: 3},
		Files: FilesConfig{URLs: "u.json", Checkpoint: "i.json", Output: "o.json"},
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("base config should be valid: %v", err)
	}

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "missing submit url",
			cfg: func() Config {
				c := base
				c.API.SubmitURL = " "
				return c
			}(),
			want: "api.submit_url",
		},
		{
			name: "status url without placeholder",
			cfg: func() Config {
				c := base
				c.API.StatusURL = "http://x/job/"
				return c
			}(),
			want: "api.status_url",
		},
		{
			name: "invalid timeout",
			cfg: func() Config {
				c := base
				c.HTTP.TimeoutSeconds = 0
				return c
			}(),
			want: "http.timeout_seconds",
		},
		{
			name: "invalid poll interval",
			cfg: func() Config {
				c := base
				c.Poll.Interval = 0
				return c
			}(),
			want: "poll.interval",
		},
		{
			name: "invalid max attempts",
			cfg: func() Config {
				c := base
				c.Poll.MaxAttempts = 0
				return c
			}(),
			want: "poll.max_attempts",
		},
		{
			name: "negative job delay",
			cfg: func() Config {
				c := base
				c.Run.JobDelay = -time.Second
				return c
			}(),
			want: "run.job_delay",
		},
		{
			name: "missing checkpoint path",
			cfg: func() Config {
				c := base
				c.Files.Checkpoint = ""
				return c
			}(),
			want: "files.checkpoint",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
