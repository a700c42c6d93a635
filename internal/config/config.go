package config

import (
	_ "embed"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed matching.yaml
var matchingYAML []byte

type Config struct {
	Detector DetectorConfig
	Server   ServerConfig
	Database DatabaseConfig
	Matching MatchingConfig
}

type DetectorConfig struct {
	URL string // landmark detection service base URL (e.g., http://localhost:8500)
}

type ServerConfig struct {
	Addr string // HTTP listen address (default :8080)
}

type DatabaseConfig struct {
	Driver        string // "postgres" or "mysql" (default postgres)
	URL           string // connection URL / DSN
	MaxOpenConns  int    // Maximum open connections (default 25)
	MaxIdleConns  int    // Maximum idle connections (default 5)
	HNSWIndexPath string // Path to persist the identity HNSW index (optional, if empty index is rebuilt on startup)
}

// MatchingConfig is the embedded matching profile. It is versioned so
// stored embeddings can be invalidated when the geometry changes.
type MatchingConfig struct {
	Profile struct {
		Version   int `yaml:"version"`
		Dimension int `yaml:"dimension"`
	} `yaml:"profile"`
	Thresholds struct {
		Recognition float64 `yaml:"recognition"`
		Duplicate   float64 `yaml:"duplicate"`
	} `yaml:"thresholds"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envString reads an environment variable with a fallback default.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	var matching MatchingConfig
	if err := yaml.Unmarshal(matchingYAML, &matching); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded matching.yaml: " + err.Error())
	}

	return &Config{
		Detector: DetectorConfig{
			URL: envString("DETECTOR_URL", "http://localhost:8500"),
		},
		Server: ServerConfig{
			Addr: envString("SERVER_ADDR", ":8080"),
		},
		Database: DatabaseConfig{
			Driver:        envString("DATABASE_DRIVER", "postgres"),
			URL:           os.Getenv("DATABASE_URL"),
			MaxOpenConns:  envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:  envInt("DATABASE_MAX_IDLE_CONNS", 5),
			HNSWIndexPath: os.Getenv("HNSW_INDEX_PATH"),
		},
		Matching: matching,
	}
}
