// Package config reads service configuration from TENURE_* environment
// variables, optionally seeded from a .env file for local runs.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Version is the release version, overridable at build time.
var Version = "0.1.0"

// Config holds all Tenure configuration.
type Config struct {
	// Mode selects what the process does: "serve", "train" or "ingest".
	Mode            string
	ShutdownTimeout time.Duration
	Store           StoreConfig
	Training        TrainingConfig
	Serving         ServingConfig
	Audit           AuditConfig
}

// StoreConfig selects and parameterizes the employee data source.
type StoreConfig struct {
	Provider string // "postgres" or "csv"
	DSN      string
	Dir      string
	Table    string
}

// TrainingConfig holds training job settings.
type TrainingConfig struct {
	ArtifactPath string
	TestFraction float64
	Seed         int64
	LearningRate float64
	Epochs       int
}

// ServingConfig holds HTTP server settings.
type ServingConfig struct {
	Addr string
}

// AuditConfig holds prediction audit settings.
type AuditConfig struct {
	// Path of the NDJSON audit file. Empty disables the file sink.
	Path string
	// Database mirrors audit rows to the postgres store when true.
	Database bool
}

// Load reads configuration from environment variables with defaults. A
// .env file in the working directory is loaded first if present; real
// environment variables win over it.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Mode:            getenv("TENURE_MODE", "serve"),
		ShutdownTimeout: getenvDuration("TENURE_SHUTDOWN_TIMEOUT", 10*time.Second),
		Store: StoreConfig{
			Provider: getenv("TENURE_STORE", "csv"),
			DSN:      os.Getenv("TENURE_DATABASE_URL"),
			Dir:      getenv("TENURE_EXTRACT_DIR", "data"),
			Table:    getenv("TENURE_TABLE", "employees"),
		},
		Training: TrainingConfig{
			ArtifactPath: getenv("TENURE_ARTIFACT_PATH", "models/pipeline.json"),
			TestFraction: getenvFloat("TENURE_TEST_FRACTION", 0.2),
			Seed:         getenvInt("TENURE_SPLIT_SEED", 42),
			LearningRate: getenvFloat("TENURE_LEARNING_RATE", 0.1),
			Epochs:       int(getenvInt("TENURE_EPOCHS", 500)),
		},
		Serving: ServingConfig{
			Addr: getenv("TENURE_ADDR", ":8000"),
		},
		Audit: AuditConfig{
			Path:     getenv("TENURE_AUDIT_PATH", "logs/predictions.ndjson"),
			Database: getenvBool("TENURE_AUDIT_DATABASE", false),
		},
	}
}

// Validate checks the loaded configuration, collecting every problem
// rather than stopping at the first.
func (c Config) Validate() error {
	var errs []error

	switch c.Mode {
	case "serve", "train", "ingest":
	default:
		errs = append(errs, fmt.Errorf("invalid mode %q (want serve, train or ingest)", c.Mode))
	}

	switch c.Store.Provider {
	case "postgres":
		if c.Store.DSN == "" {
			errs = append(errs, errors.New("TENURE_DATABASE_URL required for the postgres store"))
		}
	case "csv":
		if c.Store.Dir == "" {
			errs = append(errs, errors.New("TENURE_EXTRACT_DIR required for the csv store"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid store provider %q (want postgres or csv)", c.Store.Provider))
	}

	if f := c.Training.TestFraction; f <= 0 || f >= 1 {
		errs = append(errs, fmt.Errorf("test fraction %v outside (0, 1)", f))
	}
	if c.Training.Epochs <= 0 {
		errs = append(errs, fmt.Errorf("epochs must be positive, got %d", c.Training.Epochs))
	}
	if c.Training.LearningRate <= 0 {
		errs = append(errs, fmt.Errorf("learning rate must be positive, got %v", c.Training.LearningRate))
	}
	if c.Training.ArtifactPath == "" {
		errs = append(errs, errors.New("TENURE_ARTIFACT_PATH must not be empty"))
	}

	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getenvInt(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getenvBool(key string, fallback bool) bool {
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
