// Package config provides centralized configuration for medtrack.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/manav03panchal/medtrack/internal/errors"
	"github.com/manav03panchal/medtrack/internal/storage"
)

// Environment variables read by Load.
const (
	EnvDatabase  = "MEDTRACK_DATABASE"
	EnvLogLevel  = "MEDTRACK_LOG_LEVEL"
	EnvLogJSON   = "MEDTRACK_LOG_JSON"
	EnvWatchSpec = "MEDTRACK_WATCH_SPEC"
	EnvSummaryAt = "MEDTRACK_SUMMARY_AT"
)

// DefaultWatchSpec fires at second zero of every minute.
const DefaultWatchSpec = "0 * * * * *"

// Config holds the values that can be set from the environment or flags.
type Config struct {
	// DatabasePath is the SQLite file, or ":memory:".
	// Default: $XDG_DATA_HOME/medtrack/medicationtracker.db
	DatabasePath string `validate:"required"`

	// LogLevel is the minimum level written to stderr.
	// Default: warn
	LogLevel string `validate:"oneof=debug info warn error"`

	// LogJSON switches the log encoder from console to JSON.
	LogJSON bool

	// WatchSpec is the cron schedule, with a seconds field, on which the
	// reminder watcher checks for due reminders.
	// Default: every minute
	WatchSpec string `validate:"required,cronspec"`

	// SummaryAt is the local time of day, HH:MM, at which the watcher
	// announces the day's agenda. Empty disables the summary.
	SummaryAt string `validate:"omitempty,datetime=15:04"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		DatabasePath: storage.DefaultPath(),
		LogLevel:     "warn",
		WatchSpec:    DefaultWatchSpec,
	}
}

// Load reads a .env file from the working directory if present, then
// applies MEDTRACK_* environment variables over the defaults.
func Load() *Config {
	_ = godotenv.Load()

	cfg := Default()
	cfg.loadFromEnv()
	return cfg
}

// loadFromEnv loads configuration overrides from environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv(EnvDatabase); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv(EnvLogJSON); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.LogJSON = b
		}
	}
	if v := os.Getenv(EnvWatchSpec); v != "" {
		c.WatchSpec = v
	}
	if v, ok := os.LookupEnv(EnvSummaryAt); ok {
		c.SummaryAt = strings.TrimSpace(v)
	}
}

// CronParser parses the six-field specs WatchSpec accepts.
var CronParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("cronspec", func(fl validator.FieldLevel) bool {
		_, err := CronParser.Parse(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks every field and reports the first problem as a user error.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.NewSystemError("configuration check failed", err)
	}

	fe := verrs[0]
	return errors.NewUserErrorWithField(
		fe.Field(),
		fmt.Sprint(fe.Value()),
		fmt.Sprintf("invalid %s (%s)", fe.Field(), describeTag(fe)),
		"",
	).Because(errors.ErrInvalidConfig)
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must be set"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "cronspec":
		return "must be a cron spec with seconds, e.g. '" + DefaultWatchSpec + "'"
	case "datetime":
		return "must be a time of day as HH:MM"
	default:
		return fe.Tag()
	}
}
