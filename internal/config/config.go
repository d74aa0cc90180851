// Package config loads and validates scraper configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config captures all client configuration knobs loaded via Viper.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Poll    PollConfig    `mapstructure:"poll"`
	Run     RunConfig     `mapstructure:"run"`
	Files   FilesConfig   `mapstructure:"files"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// APIConfig points at the remote job-queue API.
type APIConfig struct {
	SubmitURL string `mapstructure:"submit_url"`
	// StatusURL must contain the {jobID} placeholder.
	StatusURL string `mapstructure:"status_url"`
	Token     string `mapstructure:"token"`
	UserAgent string `mapstructure:"user_agent"`
}

// HTTPConfig configures the outbound HTTP client.
type HTTPConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// PollConfig bounds the job status polling loop.
type PollConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

// RunConfig controls pacing between submitted jobs.
type RunConfig struct {
	JobDelay time.Duration `mapstructure:"job_delay"`
}

// FilesConfig names every local file the scraper reads or writes.
type FilesConfig struct {
	URLs       string `mapstructure:"urls"`
	Checkpoint string `mapstructure:"checkpoint"`
	Output     string `mapstructure:"output"`
	Log        string `mapstructure:"log"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// MetricsConfig enables the optional Prometheus listener.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load builds a Config from .env, disk and environment.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("SCRAPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.submit_url", "http://localhost:8000/api/submit-scrape-job")
	v.SetDefault("api.status_url", "http://localhost/api/job/{jobID}")
	v.SetDefault("api.token", "")
	v.SetDefault("api.user_agent", "contact-scraper/0.1")
	v.SetDefault("http.timeout_seconds", 30)
	v.SetDefault("poll.interval", "1s")
	v.SetDefault("poll.max_attempts", 600)
	v.SetDefault("run.job_delay", "1s")
	v.SetDefault("files.urls", "idea.json")
	v.SetDefault("files.checkpoint", "index.json")
	v.SetDefault("files.output", "data/contact_data.json")
	v.SetDefault("files.log", "logs/scraper_log.log")
	v.SetDefault("logging.development", false)
	v.SetDefault("metrics.addr", "")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if strings.TrimSpace(c.API.SubmitURL) == "" {
		return fmt.Errorf("api.submit_url is required")
	}
	if !strings.Contains(c.API.StatusURL, "{jobID}") {
		return fmt.Errorf("api.status_url must contain the {jobID} placeholder")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Poll.Interval <= 0 {
		return fmt.Errorf("poll.interval must be > 0")
	}
	if c.Poll.MaxAttempts <= 0 {
		return fmt.Errorf("poll.max_attempts must be > 0")
	}
	if c.Run.JobDelay < 0 {
		return fmt.Errorf("run.job_delay must be >= 0")
	}
	if strings.TrimSpace(c.Files.URLs) == "" {
		return fmt.Errorf("files.urls is required")
	}
	if strings.TrimSpace(c.Files.Checkpoint) == "" {
		return fmt.Errorf("files.checkpoint is required")
	}
	if strings.TrimSpace(c.Files.Output) == "" {
		return fmt.Errorf("files.output is required")
	}
	return nil
}

// HTTPTimeout converts the configured timeout into a duration.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}
