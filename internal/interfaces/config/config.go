package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	BrowserStatic = "static"
	BrowserChrome = "chrome"

	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// Config holds process settings. Summarization settings (API key, model and
// so on) are not part of it: they are re-read on every request.
type Config struct {
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080"`

	Browser      string `envconfig:"BROWSER" default:"static"`
	ChromePath   string `envconfig:"CHROME_PATH"`
	FetchTimeout int    `envconfig:"FETCH_TIMEOUT" default:"30"`
	UserAgent    string `envconfig:"USER_AGENT"`

	SettingsFile string `envconfig:"SETTINGS_FILE"`

	Storage string `envconfig:"STORAGE" default:"memory"`
	DBPath  string `envconfig:"DB_PATH" default:"pagesummarizer.db"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	LogFile   string `envconfig:"LOG_FILE"`

	RateLimit int `envconfig:"RATE_LIMIT" default:"30"`
	RateBurst int `envconfig:"RATE_BURST" default:"5"`

	PollIntervalMS  int `envconfig:"POLL_INTERVAL_MS" default:"200"`
	PollMaxAttempts int `envconfig:"POLL_MAX_ATTEMPTS" default:"15"`
}

// LoadConfig loads .env if present, then reads and validates the process
// environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Browser {
	case BrowserStatic, BrowserChrome:
	default:
		return fmt.Errorf("unknown BROWSER %q (expected %q or %q)", c.Browser, BrowserStatic, BrowserChrome)
	}

	switch c.Storage {
	case StorageMemory, StorageSQLite:
	default:
		return fmt.Errorf("unknown STORAGE %q (expected %q or %q)", c.Storage, StorageMemory, StorageSQLite)
	}

	if c.PollMaxAttempts <= 0 {
		return fmt.Errorf("POLL_MAX_ATTEMPTS must be positive, got %d", c.PollMaxAttempts)
	}
	if c.PollIntervalMS <= 0 {
		return fmt.Errorf("POLL_INTERVAL_MS must be positive, got %d", c.PollIntervalMS)
	}

	return nil
}

func (c *Config) GetFetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeout) * time.Second
}

func (c *Config) GetPollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}
