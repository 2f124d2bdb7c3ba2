package config

import (
	"os"
	"strconv"
	"strings"

	"recoverystats/internal/errors"

	"github.com/go-playground/validator/v10"
)

// Config represents the complete application configuration
type Config struct {
	Bootstrap BootstrapConfig `validate:"required"`
	Paths     PathConfig      `validate:"required"`
	Database  DatabaseConfig
	LogLevel  string
}

// BootstrapConfig holds resampling settings
type BootstrapConfig struct {
	Iterations      int     `validate:"gte=1"`
	ConfidenceLevel float64 `validate:"gt=0,lt=1"`
	Seed            int64   // zero seeds every stream from entropy
}

// PathConfig holds file system paths
type PathConfig struct {
	OutputDir string `validate:"required"`
	CorpusDir string
	PlanFile  string
}

// DatabaseConfig holds the optional interval archive connection
type DatabaseConfig struct {
	URL string
}

// ArchiveEnabled reports whether final intervals should be archived
func (c *Config) ArchiveEnabled() bool {
	return c.Database.URL != ""
}

var configValidator = validator.New()

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	level, err := getEnvFloat("CONFIDENCE_LEVEL", 0.99)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load bootstrap configuration")
	}
	iterations, err := getEnvInt("BOOTSTRAP_ITERATIONS", 10000)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load bootstrap configuration")
	}
	seed, err := getEnvInt64("BOOTSTRAP_SEED", 0)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load bootstrap configuration")
	}

	config := &Config{
		Bootstrap: BootstrapConfig{
			Iterations:      iterations,
			ConfidenceLevel: level,
			Seed:            seed,
		},
		Paths: PathConfig{
			OutputDir: getEnvOrDefault("OUTPUT_DIR", "."),
			CorpusDir: getEnvOrDefault("CORPUS_DIR", "src_files"),
			PlanFile:  getEnvOrDefault("PLAN_FILE", ""),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Validate checks the configuration after flags have been applied
func (c *Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return errors.ConfigInvalid(err.Error())
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be an integer, got " + strconv.Quote(value))
	}
	return intValue, nil
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be an integer, got " + strconv.Quote(value))
	}
	return intValue, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be a number, got " + strconv.Quote(value))
	}
	return floatValue, nil
}
