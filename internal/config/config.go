// Package config provides configuration management for ticketlens.
//
// Settings live in ~/.ticketlens/settings.json keyed by the same names
// as the environment variables; a sibling settings.yaml may override
// individual values, and environment variables override both.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultWorkerPort is the default HTTP worker port.
	DefaultWorkerPort = 37700

	// DefaultDistanceThreshold is the maximum neighbor distance for
	// cluster membership.
	DefaultDistanceThreshold = 1.0

	// DefaultMinClusterSize drops clusters below this member count.
	DefaultMinClusterSize = 3

	// DefaultMaxNeighbors bounds per-seed neighbor queries.
	DefaultMaxNeighbors = 200

	// DefaultMaxClusters caps the number of groups in a report.
	DefaultMaxClusters = 20

	// DefaultChromaURL is the default vector store endpoint.
	DefaultChromaURL = "http://localhost:8000"

	// DefaultCollection is the default vector collection name.
	DefaultCollection = "tickets"

	// DefaultLLMURL is the default narrative generation endpoint.
	DefaultLLMURL = "http://localhost:11434"

	// DefaultLLMModel is the default narrative model.
	DefaultLLMModel = "llama3.2"
)

// Config holds all configurable settings. JSON keys match the
// environment variable names so settings.json reads like an env file.
type Config struct {
	WorkerPort        int     `json:"TICKETLENS_WORKER_PORT" yaml:"TICKETLENS_WORKER_PORT"`
	DistanceThreshold float64 `json:"TICKETLENS_DISTANCE_THRESHOLD" yaml:"TICKETLENS_DISTANCE_THRESHOLD"`
	MinClusterSize    int     `json:"TICKETLENS_MIN_CLUSTER_SIZE" yaml:"TICKETLENS_MIN_CLUSTER_SIZE"`
	MaxNeighbors      int     `json:"TICKETLENS_MAX_NEIGHBORS" yaml:"TICKETLENS_MAX_NEIGHBORS"`
	MaxClusters       int     `json:"TICKETLENS_MAX_CLUSTERS" yaml:"TICKETLENS_MAX_CLUSTERS"`
	ChromaURL         string  `json:"TICKETLENS_CHROMA_URL" yaml:"TICKETLENS_CHROMA_URL"`
	Collection        string  `json:"TICKETLENS_COLLECTION" yaml:"TICKETLENS_COLLECTION"`
	CSVPath           string  `json:"TICKETLENS_CSV_PATH" yaml:"TICKETLENS_CSV_PATH"`
	Repository        string  `json:"TICKETLENS_REPOSITORY" yaml:"TICKETLENS_REPOSITORY"`
	LLMURL            string  `json:"TICKETLENS_LLM_URL" yaml:"TICKETLENS_LLM_URL"`
	LLMModel          string  `json:"TICKETLENS_LLM_MODEL" yaml:"TICKETLENS_LLM_MODEL"`
	MaxConns          int     `json:"TICKETLENS_MAX_CONNS" yaml:"TICKETLENS_MAX_CONNS"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		WorkerPort:        DefaultWorkerPort,
		DistanceThreshold: DefaultDistanceThreshold,
		MinClusterSize:    DefaultMinClusterSize,
		MaxNeighbors:      DefaultMaxNeighbors,
		MaxClusters:       DefaultMaxClusters,
		ChromaURL:         DefaultChromaURL,
		Collection:        DefaultCollection,
		Repository:        "csv",
		LLMURL:            DefaultLLMURL,
		LLMModel:          DefaultLLMModel,
		MaxConns:          4,
	}
}

// DataDir returns the data directory path (~/.ticketlens).
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".ticketlens")
}

// DBPath returns the SQLite database path.
func DBPath() string {
	return filepath.Join(DataDir(), "ticketlens.db")
}

// SettingsPath returns the settings.json path.
func SettingsPath() string {
	return filepath.Join(DataDir(), "settings.json")
}

// YAMLSettingsPath returns the optional settings.yaml path.
func YAMLSettingsPath() string {
	return filepath.Join(DataDir(), "settings.yaml")
}

// EnsureDataDir creates the data directory if missing.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0750)
}

// EnsureSettings writes a default settings.json if missing.
func EnsureSettings() error {
	path := SettingsPath()
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	data, err := json.MarshalIndent(Default(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// EnsureAll initializes the data directory and settings file.
func EnsureAll() error {
	if err := EnsureDataDir(); err != nil {
		return err
	}
	return EnsureSettings()
}

// Load reads configuration: defaults, then settings.json, then
// settings.yaml, then environment variables. Unreadable files fall
// back to the layer below rather than failing.
func Load() (*Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(SettingsPath()); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			log.Warn().Err(err).Msg("Invalid settings.json, using defaults")
			cfg = Default()
		}
	}

	if data, err := os.ReadFile(YAMLSettingsPath()); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Warn().Err(err).Msg("Invalid settings.yaml, ignoring")
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	envInt("TICKETLENS_WORKER_PORT", &cfg.WorkerPort)
	envFloat("TICKETLENS_DISTANCE_THRESHOLD", &cfg.DistanceThreshold)
	envInt("TICKETLENS_MIN_CLUSTER_SIZE", &cfg.MinClusterSize)
	envInt("TICKETLENS_MAX_NEIGHBORS", &cfg.MaxNeighbors)
	envInt("TICKETLENS_MAX_CLUSTERS", &cfg.MaxClusters)
	envString("TICKETLENS_CHROMA_URL", &cfg.ChromaURL)
	envString("TICKETLENS_COLLECTION", &cfg.Collection)
	envString("TICKETLENS_CSV_PATH", &cfg.CSVPath)
	envString("TICKETLENS_REPOSITORY", &cfg.Repository)
	envString("TICKETLENS_LLM_URL", &cfg.LLMURL)
	envString("TICKETLENS_LLM_MODEL", &cfg.LLMModel)
	envInt("TICKETLENS_MAX_CONNS", &cfg.MaxConns)
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envFloat(key string, dst *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

var (
	cached   *Config
	cachedMu sync.Mutex
)

// Get returns the cached configuration, loading it on first use.
func Get() *Config {
	cachedMu.Lock()
	defer cachedMu.Unlock()
	if cached == nil {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
		}
		cached = cfg
	}
	return cached
}

// Reset clears the cached configuration. Used by tests.
func Reset() {
	cachedMu.Lock()
	defer cachedMu.Unlock()
	cached = nil
}
