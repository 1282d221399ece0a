// Package config loads process configuration from an optional YAML file
// with SIGSITE_* environment variables layered on top.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"sigsite/internal/domain/syncconfig"
)

// Config is the process configuration for cmd/server and cmd/sigctl.
type Config struct {
	Env            string   `yaml:"env"`
	Addr           string   `yaml:"addr"`
	Database       string   `yaml:"database"`
	CSRFKey        string   `yaml:"csrf_key"` // 64 hex characters
	TrustedOrigins []string `yaml:"trusted_origins"`
	RateLimit      int      `yaml:"rate_limit_per_second"`
	SlowRequest    string   `yaml:"slow_request"`
	SlowQuery      string   `yaml:"slow_query"`
	PhotoDir       string   `yaml:"photo_dir"`

	Admin     AdminConfig     `yaml:"admin"`
	Directory DirectoryConfig `yaml:"directory"`
	Sync      SyncConfig      `yaml:"sync"`
	Email     EmailConfig     `yaml:"email"`
	Deploy    DeployConfig    `yaml:"deploy"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// AdminConfig protects /admin with HTTP basic auth.
type AdminConfig struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"` // bcrypt
}

// DirectoryConfig controls the static document and the sync loop.
type DirectoryConfig struct {
	Document      string `yaml:"document"`
	WatchDocument bool   `yaml:"watch_document"`
	CheckInterval string `yaml:"check_interval"`
	SyncOnStart   bool   `yaml:"sync_on_start"`
	BannerWindow  string `yaml:"banner_window"`
	OutputDir     string `yaml:"output_dir"`
}

// SyncConfig seeds the runtime-editable adapter configuration on first start.
type SyncConfig struct {
	SheetsAPIKey    string `yaml:"sheets_api_key"`
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	LeadershipRange string `yaml:"leadership_range"`
	GeneralRange    string `yaml:"general_range"`
	AlumniRange     string `yaml:"alumni_range"`
	DriveAPIKey     string `yaml:"drive_api_key"`
	PhotoFolderID   string `yaml:"photo_folder_id"`
	Interval        string `yaml:"interval"`
}

// EmailConfig configures sync failure notifications.
type EmailConfig struct {
	ResendKey string   `yaml:"resend_key"`
	From      string   `yaml:"from"`
	NotifyTo  []string `yaml:"notify_to"`
}

// DeployConfig is the S3 target of `sigctl deploy`.
type DeployConfig struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
	Region string `yaml:"region"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Env:         "development",
		Addr:        ":8080",
		Database:    "sigsite.db",
		RateLimit:   10,
		SlowRequest: "200ms",
		SlowQuery:   "50ms",
		PhotoDir:    "assets/members",
		Admin:       AdminConfig{Username: "admin"},
		Directory: DirectoryConfig{
			Document:      "data/members.json",
			CheckInterval: "5m",
			SyncOnStart:   true,
			BannerWindow:  "5m",
			OutputDir:     "public",
		},
		Sync: SyncConfig{
			LeadershipRange: syncconfig.DefaultLeadershipRange,
			GeneralRange:    syncconfig.DefaultGeneralRange,
			AlumniRange:     syncconfig.DefaultAlumniRange,
			Interval:        "30m",
		},
		Email: EmailConfig{From: "Member Directory <noreply@example.org>"},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path (a missing file yields the defaults) and applies environment overrides.
// PRE: none (an empty path skips the file)
// POST: Returns a validated configuration or an error naming the bad field
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	c.Env = envOrDefault("SIGSITE_ENV", c.Env)
	c.Addr = envOrDefault("SIGSITE_ADDR", c.Addr)
	c.Database = envOrDefault("SIGSITE_DB", c.Database)
	c.CSRFKey = envOrDefault("SIGSITE_CSRF_KEY", c.CSRFKey)
	c.TrustedOrigins = envList("SIGSITE_TRUSTED_ORIGINS", c.TrustedOrigins)
	c.RateLimit = envInt("SIGSITE_RATE_LIMIT", c.RateLimit)
	c.SlowRequest = envOrDefault("SIGSITE_SLOW_REQUEST", c.SlowRequest)
	c.SlowQuery = envOrDefault("SIGSITE_SLOW_QUERY", c.SlowQuery)
	c.PhotoDir = envOrDefault("SIGSITE_PHOTO_DIR", c.PhotoDir)

	c.Admin.Username = envOrDefault("SIGSITE_ADMIN_USER", c.Admin.Username)
	c.Admin.PasswordHash = envOrDefault("SIGSITE_ADMIN_PASSWORD_HASH", c.Admin.PasswordHash)

	c.Directory.Document = envOrDefault("SIGSITE_MEMBERS_DOCUMENT", c.Directory.Document)
	c.Directory.WatchDocument = envBool("SIGSITE_WATCH_DOCUMENT", c.Directory.WatchDocument)
	c.Directory.CheckInterval = envOrDefault("SIGSITE_CHECK_INTERVAL", c.Directory.CheckInterval)
	c.Directory.SyncOnStart = envBool("SIGSITE_SYNC_ON_START", c.Directory.SyncOnStart)
	c.Directory.OutputDir = envOrDefault("SIGSITE_OUTPUT_DIR", c.Directory.OutputDir)

	c.Sync.SheetsAPIKey = envOrDefault("SIGSITE_SHEETS_API_KEY", c.Sync.SheetsAPIKey)
	c.Sync.SpreadsheetID = envOrDefault("SIGSITE_SPREADSHEET_ID", c.Sync.SpreadsheetID)
	c.Sync.DriveAPIKey = envOrDefault("SIGSITE_DRIVE_API_KEY", c.Sync.DriveAPIKey)
	c.Sync.PhotoFolderID = envOrDefault("SIGSITE_PHOTO_FOLDER_ID", c.Sync.PhotoFolderID)
	c.Sync.Interval = envOrDefault("SIGSITE_SYNC_INTERVAL", c.Sync.Interval)

	c.Email.ResendKey = envOrDefault("SIGSITE_RESEND_KEY", c.Email.ResendKey)
	c.Email.From = envOrDefault("SIGSITE_RESEND_FROM", c.Email.From)
	c.Email.NotifyTo = envList("SIGSITE_NOTIFY_TO", c.Email.NotifyTo)

	c.Deploy.Bucket = envOrDefault("SIGSITE_S3_BUCKET", c.Deploy.Bucket)
	c.Deploy.Prefix = envOrDefault("SIGSITE_S3_PREFIX", c.Deploy.Prefix)
	c.Deploy.Region = envOrDefault("SIGSITE_AWS_REGION", c.Deploy.Region)

	c.Logging.Level = envOrDefault("SIGSITE_LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = envOrDefault("SIGSITE_LOG_FORMAT", c.Logging.Format)
}

// Validate checks if the Config has valid data.
// PRE: Config struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (c *Config) Validate() error {
	for name, v := range map[string]string{
		"slow_request":             c.SlowRequest,
		"slow_query":               c.SlowQuery,
		"directory.check_interval": c.Directory.CheckInterval,
		"directory.banner_window":  c.Directory.BannerWindow,
		"sync.interval":            c.Sync.Interval,
	} {
		if _, err := parseDuration(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if c.CSRFKey != "" {
		if _, err := c.CSRFKeyBytes(); err != nil {
			return err
		}
	} else if c.IsProduction() {
		return errors.New("SIGSITE_CSRF_KEY is required in production")
	}
	if c.RateLimit < 0 {
		return errors.New("rate_limit_per_second cannot be negative")
	}
	seed := c.SeedSyncConfig()
	if err := seed.Validate(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return nil
}

// IsProduction reports whether SIGSITE_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// CSRFKeyBytes decodes the CSRF secret; nil when unset.
func (c *Config) CSRFKeyBytes() ([]byte, error) {
	if c.CSRFKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(c.CSRFKey)
	if err != nil || len(key) != 32 {
		return nil, errors.New("SIGSITE_CSRF_KEY must be 64 hex characters (32 bytes)")
	}
	return key, nil
}

// SeedSyncConfig returns the adapter configuration stored on first start.
func (c *Config) SeedSyncConfig() syncconfig.Config {
	interval, _ := parseDuration(c.Sync.Interval)
	return syncconfig.Config{
		SheetsAPIKey:    c.Sync.SheetsAPIKey,
		SpreadsheetID:   c.Sync.SpreadsheetID,
		LeadershipRange: c.Sync.LeadershipRange,
		GeneralRange:    c.Sync.GeneralRange,
		AlumniRange:     c.Sync.AlumniRange,
		DriveAPIKey:     c.Sync.DriveAPIKey,
		PhotoFolderID:   c.Sync.PhotoFolderID,
		SyncInterval:    interval,
	}
}

// SlowRequestThreshold, SlowQueryThreshold, CheckInterval and BannerWindow
// return the parsed durations; Validate has already rejected bad values.
func (c *Config) SlowRequestThreshold() time.Duration { return mustDuration(c.SlowRequest) }
func (c *Config) SlowQueryThreshold() time.Duration   { return mustDuration(c.SlowQuery) }
func (c *Config) CheckInterval() time.Duration        { return mustDuration(c.Directory.CheckInterval) }
func (c *Config) BannerWindow() time.Duration         { return mustDuration(c.Directory.BannerWindow) }

// NewLogger builds the process logger from the logging section.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Logging.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseDuration(s string) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}

func mustDuration(s string) time.Duration {
	d, _ := parseDuration(s)
	return d
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
