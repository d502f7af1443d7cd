package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds everything a run needs: API credentials, the reference
// label scheme, reconciliation options and the id mappings.
type Config struct {
	Toggl struct {
		APIToken    string        `yaml:"api_token" env:"TOGGL_API_TOKEN"`
		BaseURL     string        `yaml:"base_url" env:"TOGGL_BASE_URL" env-default:"https://api.track.toggl.com"`
		UserAgent   string        `yaml:"user_agent" env:"TOGGL_USER_AGENT" env-default:"toggl-invoiceninja-sync"`
		DeletePause time.Duration `yaml:"delete_pause" env:"TOGGL_DELETE_PAUSE" env-default:"250ms"`
	} `yaml:"toggl"`

	InvoiceNinja struct {
		APIToken string `yaml:"api_token" env:"INVOICENINJA_API_TOKEN"`
		BaseURL  string `yaml:"base_url" env:"INVOICENINJA_BASE_URL"`
	} `yaml:"invoiceninja"`

	Sync struct {
		// RefLabel is the reserved tag prefix that links a time entry to
		// a task, e.g. "IN Task: ".
		RefLabel     string   `yaml:"ref_label" env:"SYNC_REF_LABEL" env-default:"IN Task: "`
		RoundMinutes int      `yaml:"round_minutes" env:"SYNC_ROUND_MINUTES" env-default:"0"`
		BillableOnly bool     `yaml:"billable_only" env:"SYNC_BILLABLE_ONLY" env-default:"false"`
		IgnoreFields []string `yaml:"ignore_fields" env:"SYNC_IGNORE_FIELDS"`
		Timezone     string   `yaml:"timezone" env:"SYNC_TZ" env-default:"UTC"`
	} `yaml:"sync"`

	// Mappings translate Toggl report display names into InvoiceNinja ids.
	Mappings struct {
		Clients  map[string]string `yaml:"clients"`
		Projects map[string]string `yaml:"projects"`
		Users    map[string]string `yaml:"users"`
	} `yaml:"mappings"`

	Journal struct {
		// DSN enables the MySQL audit journal when set, e.g.
		// user:pass@tcp(host:3306)/dbname?parseTime=true
		DSN string `yaml:"dsn" env:"JOURNAL_MYSQL_DSN"`
	} `yaml:"journal"`
}

// Load reads the YAML file when path is non-empty, then applies
// environment overrides. With an empty path only the environment is read.
func Load(path string) (Config, error) {
	var cfg Config
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Toggl.APIToken == "" {
		return errors.New("TOGGL_API_TOKEN is required")
	}
	if c.InvoiceNinja.APIToken == "" {
		return errors.New("INVOICENINJA_API_TOKEN is required")
	}
	if c.InvoiceNinja.BaseURL == "" {
		return errors.New("INVOICENINJA_BASE_URL is required")
	}
	if c.Sync.RoundMinutes < 0 {
		return errors.New("sync.round_minutes must not be negative")
	}
	if _, err := time.LoadLocation(c.Sync.Timezone); err != nil {
		return fmt.Errorf("invalid sync.timezone %q: %w", c.Sync.Timezone, err)
	}
	return nil
}

// Location returns the configured timezone; validate guarantees it parses.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Sync.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DefaultPath returns the config file to use: the explicit flag value,
// the CONFIG_FILE environment variable, or "" for env-only operation.
func DefaultPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("CONFIG_FILE")
}
