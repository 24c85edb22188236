package config

import (
	"os"
	"strconv"
	"time"

	"goeda/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	API       APIConfig
	Upload    UploadConfig
	Session   SessionConfig
	Data      DataConfig
	Report    ReportConfig
	Charts    ChartConfig
	Profiling ProfilingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// APIConfig holds JSON API server settings
type APIConfig struct {
	Port string
}

// UploadConfig limits dataset uploads
type UploadConfig struct {
	MaxBytes int64
}

// SessionConfig bounds the in-memory dataset store
type SessionConfig struct {
	TTL         time.Duration
	MaxDatasets int
}

// DataConfig holds data loading settings
type DataConfig struct {
	// Optional dataset loaded at startup
	File string
}

// ReportConfig holds report rendering settings
type ReportConfig struct {
	Workers int
}

// ChartConfig holds default chart dimensions in centimetres
type ChartConfig struct {
	WidthCm  float64
	HeightCm float64
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		API: APIConfig{
			Port: getEnvOrDefault("API_PORT", "8081"),
		},
		Upload: UploadConfig{
			MaxBytes: int64(getEnvIntOrDefault("MAX_UPLOAD_MB", 50)) * 1024 * 1024,
		},
		Session: SessionConfig{
			TTL:         getEnvDurationOrDefault("SESSION_TTL", time.Hour),
			MaxDatasets: getEnvIntOrDefault("MAX_SESSIONS", 64),
		},
		Data: DataConfig{
			File: getEnvOrDefault("DATA_FILE", ""),
		},
		Report: ReportConfig{
			Workers: getEnvIntOrDefault("REPORT_WORKERS", 4),
		},
		Charts: ChartConfig{
			WidthCm:  getEnvFloatOrDefault("CHART_WIDTH_CM", 16),
			HeightCm: getEnvFloatOrDefault("CHART_HEIGHT_CM", 10),
		},
		Profiling: ProfilingConfig{
			Port:    getEnvOrDefault("PPROF_PORT", "6060"),
			Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if config.Upload.MaxBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Session.TTL <= 0 {
		return errors.ConfigInvalid("SESSION_TTL must be positive")
	}
	if config.Session.MaxDatasets <= 0 {
		return errors.ConfigInvalid("MAX_SESSIONS must be positive")
	}
	if config.Report.Workers <= 0 {
		return errors.ConfigInvalid("REPORT_WORKERS must be positive")
	}
	if config.Charts.WidthCm <= 0 || config.Charts.HeightCm <= 0 {
		return errors.ConfigInvalid("chart dimensions must be positive")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be one of debug, release, test")
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

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
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
