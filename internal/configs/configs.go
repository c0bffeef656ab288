/*
Package configs is responsible for loading and parsing the application's configuration settings.

It configures server parameters by reading operating system environment variables,
including the running environment, port, CORS allowed origins, the proximity range,
and the optional voice clip storage backend.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig contains all configuration parameters required for the application to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// ProximityRangeMeters is the fixed chat range. Users at most this many
	// meters apart can see and message each other.
	ProximityRangeMeters float64

	// Security Settings
	AllowedOrigins []string

	// Voice Clip Storage Settings. The whole block is optional: when
	// S3BucketName is empty the server runs without object storage and only
	// relays small inline voice clips.
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	VoiceRetention    time.Duration
}

const (
	defaultPort                 = 3001
	defaultProximityRangeMeters = 100
	defaultVoiceRetention       = time.Hour
)

// StorageEnabled reports whether a voice clip storage backend is configured.
func (c *AppConfig) StorageEnabled() bool {
	return c.S3BucketName != ""
}

// LoadConfig reads and parses the application configuration from environment variables.
// It provides default values for each configuration item and performs necessary type conversions and validation.
// It returns a pointer to the AppConfig struct and any error encountered.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	// Environment
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// Port
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = strconv.Itoa(defaultPort)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// ProximityRangeMeters
	rangeStr := os.Getenv("PROXIMITY_RANGE_M")
	if rangeStr == "" {
		cfg.ProximityRangeMeters = defaultProximityRangeMeters
	} else {
		rangeMeters, err := strconv.ParseFloat(rangeStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid PROXIMITY_RANGE_M environment variable: %w", err)
		}
		if rangeMeters <= 0 {
			return nil, fmt.Errorf("PROXIMITY_RANGE_M must be positive, got %v", rangeMeters)
		}
		cfg.ProximityRangeMeters = rangeMeters
	}

	// --- Security Settings ---
	// AllowedOrigins
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for _, origin := range origins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	if cfg.Environment != "development" && len(cfg.AllowedOrigins) == 0 {
		return nil, fmt.Errorf("ALLOWED_ORIGINS environment variable is required in %s environment", cfg.Environment)
	}

	// --- Voice Clip Storage Settings ---
	cfg.S3BucketName = os.Getenv("S3_BUCKET_NAME")
	cfg.S3Endpoint = os.Getenv("S3_ENDPOINT")
	cfg.S3AccessKeyID = os.Getenv("S3_ACCESS_KEY_ID")
	cfg.S3SecretAccessKey = os.Getenv("S3_SECRET_ACCESS_KEY")

	if cfg.StorageEnabled() {
		if cfg.S3Endpoint == "" {
			return nil, fmt.Errorf("S3_ENDPOINT environment variable is required when S3_BUCKET_NAME is set")
		}
		if cfg.S3AccessKeyID == "" {
			return nil, fmt.Errorf("S3_ACCESS_KEY_ID environment variable is required when S3_BUCKET_NAME is set")
		}
		if cfg.S3SecretAccessKey == "" {
			return nil, fmt.Errorf("S3_SECRET_ACCESS_KEY environment variable is required when S3_BUCKET_NAME is set")
		}
	}

	// VoiceRetention
	retentionStr := os.Getenv("VOICE_RETENTION_MINUTES")
	if retentionStr == "" {
		cfg.VoiceRetention = defaultVoiceRetention
	} else {
		minutes, err := strconv.Atoi(retentionStr)
		if err != nil {
			return nil, fmt.Errorf("invalid VOICE_RETENTION_MINUTES environment variable: %w", err)
		}
		if minutes <= 0 {
			return nil, fmt.Errorf("VOICE_RETENTION_MINUTES must be positive, got %d", minutes)
		}
		cfg.VoiceRetention = time.Duration(minutes) * time.Minute
	}

	return cfg, nil
}
