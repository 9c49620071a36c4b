package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"roster/internal/errors"
)

// Store backends
const (
	BackendBadger   = "badger"
	BackendPostgres = "postgres"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Import    ImportConfig
	Agenda    AgendaConfig
	Log       LogConfig
	Profiling ProfilingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port           string
	Location       *time.Location
	AllowedOrigins []string
}

// StoreConfig selects and configures snapshot persistence
type StoreConfig struct {
	Backend     string
	BadgerDir   string
	DatabaseURL string
	Slot        string
	SeedFile    string
}

// ImportConfig holds upload limits
type ImportConfig struct {
	MaxUploadMB int
	PendingTTL  time.Duration
}

// MaxUploadBytes returns the upload limit in bytes
func (c ImportConfig) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}

// AgendaConfig schedules the daily agenda log. An empty Spec disables it.
type AgendaConfig struct {
	Spec string
}

// ProfilingConfig holds the admin listener settings (health and pprof)
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	loc, err := loadLocation(getEnvOrDefault("TIMEZONE", "Local"))
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port:           getEnvOrDefault("PORT", "8080"),
			Location:       loc,
			AllowedOrigins: getEnvListOrDefault("CORS_ALLOWED_ORIGINS", nil),
		},
		Store: StoreConfig{
			Backend:     strings.ToLower(getEnvOrDefault("STORE_BACKEND", BackendBadger)),
			BadgerDir:   getEnvOrDefault("BADGER_DIR", "./data/roster"),
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Slot:        getEnvOrDefault("STORE_SLOT", "work-schedule"),
			SeedFile:    os.Getenv("SEED_FILE"),
		},
		Import: ImportConfig{
			MaxUploadMB: getEnvIntOrDefault("MAX_UPLOAD_MB", 50),
			PendingTTL:  getEnvDurationOrDefault("PENDING_IMPORT_TTL", 15*time.Minute),
		},
		Agenda: AgendaConfig{
			Spec: getEnvOrDefault("AGENDA_CRON", "0 6 * * *"),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
		},
		Profiling: ProfilingConfig{
			Port:    getEnvOrDefault("PPROF_PORT", "6060"),
			Enabled: getEnvBoolOrDefault("PPROF_ENABLED", true),
		},
	}
	if v, ok := os.LookupEnv("AGENDA_CRON"); ok && strings.TrimSpace(v) == "" {
		config.Agenda.Spec = ""
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errors.ConfigInvalid(fmt.Sprintf("TIMEZONE %q is not a known zone", name))
	}
	return loc, nil
}

func validateConfig(config *Config) error {
	switch config.Store.Backend {
	case BackendBadger:
		if config.Store.BadgerDir == "" {
			return errors.ConfigInvalid("BADGER_DIR is required for the badger backend")
		}
	case BackendPostgres:
		if config.Store.DatabaseURL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for the postgres backend")
		}
	default:
		return errors.ConfigInvalid(fmt.Sprintf("STORE_BACKEND must be %q or %q", BackendBadger, BackendPostgres))
	}
	if config.Store.Slot == "" {
		return errors.ConfigInvalid("STORE_SLOT cannot be empty")
	}
	if config.Import.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Import.PendingTTL <= 0 {
		return errors.ConfigInvalid("PENDING_IMPORT_TTL must be positive")
	}
	if config.Agenda.Spec != "" {
		if _, err := cron.ParseStandard(config.Agenda.Spec); err != nil {
			return errors.ConfigInvalid(fmt.Sprintf("AGENDA_CRON %q is invalid: %v", config.Agenda.Spec, err))
		}
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
