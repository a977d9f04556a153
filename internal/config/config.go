// Package config loads runtime settings from the environment, with an
// optional .env file for local runs.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every externally configurable setting.
type Config struct {
	// Search API
	SearchEndpoint string
	SearchAPIKey   string
	SearchEngine   string
	SearchRPS      float64

	// Directories
	SnapshotDir string
	OutputDir   string

	// Pipeline tuning
	Concurrency       int
	SnapshotThreshold int
	GroupThreshold    int
	SubGroupThreshold int
	PositionCutoff    int

	// Collaborators
	NotifierURL  string
	WarehouseDSN string
	JobStorePath string
	MetricsPort  int
}

// Load reads the configuration. A .env file is honored if present.
func Load() *Config {
	godotenv.Load()

	return &Config{
		SearchEndpoint: getEnv("SEARCH_ENDPOINT", "https://serpapi.com/search"),
		SearchAPIKey:   getEnv("SEARCH_API_KEY", ""),
		SearchEngine:   getEnv("SEARCH_ENGINE", "google"),
		SearchRPS:      getEnvFloat("SEARCH_RPS", 0),

		SnapshotDir: getEnv("SNAPSHOT_DIR", "snapshots"),
		OutputDir:   getEnv("OUTPUT_DIR", "output"),

		Concurrency:       getEnvInt("CONCURRENCY", 100),
		SnapshotThreshold: getEnvInt("SNAPSHOT_THRESHOLD", 100),
		GroupThreshold:    getEnvInt("GROUP_THRESHOLD", 3),
		SubGroupThreshold: getEnvInt("SUBGROUP_THRESHOLD", 0),
		PositionCutoff:    getEnvInt("POSITION_CUTOFF", 10),

		NotifierURL:  getEnv("NOTIFIER_URL", ""),
		WarehouseDSN: getEnv("WAREHOUSE_DSN", ""),
		JobStorePath: getEnv("JOB_STORE_PATH", "jobs.db"),
		MetricsPort:  getEnvInt("METRICS_PORT", 0),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
