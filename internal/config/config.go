// Package config loads proxy configuration from an optional JSON file
// and environment variables. Environment variables win over the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

// Config holds all runtime configuration for the proxy.
type Config struct {
	Port         string `json:"port"`
	ECFRBaseURL  string `json:"ecfr_base_url"`
	DebugEnabled bool   `json:"debug"`

	// Redis cache backend; memory-only when RedisAddr is empty.
	RedisAddr     string `json:"redis_addr"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`
	RedisPrefix   string `json:"redis_prefix"`

	// Cache TTLs in minutes.
	MetadataTTL   int `json:"metadata_ttl"`
	WordCountTTL  int `json:"wordcount_ttl"`
	SuggestionTTL int `json:"suggestion_ttl"`

	// Upstream fetch timeout in seconds. Full-title XML documents can
	// run to tens of megabytes, so this is generous.
	UpstreamTimeout int `json:"upstream_timeout"`

	// Max concurrent word-count computations.
	ConcurrencyLimit int `json:"concurrency_limit"`

	// PreloadMetadata fetches titles and agencies at startup.
	PreloadMetadata bool `json:"preload_metadata"`
}

// Load reads the optional config file at path, overlays environment
// variables, and applies defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	ApplyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Port, "PORT")
	setString(&cfg.ECFRBaseURL, "ECFR_BASE_URL")
	setString(&cfg.RedisAddr, "REDIS_ADDR")
	setString(&cfg.RedisPassword, "REDIS_PASSWORD")
	setString(&cfg.RedisPrefix, "REDIS_PREFIX")
	setInt(&cfg.RedisDB, "REDIS_DB")
	setInt(&cfg.MetadataTTL, "METADATA_TTL_MINUTES")
	setInt(&cfg.WordCountTTL, "WORDCOUNT_TTL_MINUTES")
	setInt(&cfg.SuggestionTTL, "SUGGESTION_TTL_MINUTES")
	setInt(&cfg.UpstreamTimeout, "UPSTREAM_TIMEOUT_SECONDS")
	setInt(&cfg.ConcurrencyLimit, "CONCURRENCY_LIMIT")
	setBool(&cfg.DebugEnabled, "DEBUG")
	setBool(&cfg.PreloadMetadata, "PRELOAD_METADATA")
}

// ApplyDefaults fills in zero-valued fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Port == "" {
		cfg.Port = "10000"
	}
	if cfg.ECFRBaseURL == "" {
		cfg.ECFRBaseURL = "https://www.ecfr.gov"
	}
	if cfg.RedisPrefix == "" {
		cfg.RedisPrefix = "ecfrproxy:"
	}
	if cfg.MetadataTTL <= 0 {
		cfg.MetadataTTL = 24 * 60
	}
	if cfg.WordCountTTL <= 0 {
		cfg.WordCountTTL = 30 * 24 * 60
	}
	if cfg.SuggestionTTL <= 0 {
		cfg.SuggestionTTL = 12 * 60
	}
	if cfg.UpstreamTimeout <= 0 {
		cfg.UpstreamTimeout = 60
	}
	if cfg.ConcurrencyLimit <= 0 {
		cfg.ConcurrencyLimit = 8
	}
}

// MetadataTTLDuration returns the metadata cache TTL.
func (c *Config) MetadataTTLDuration() time.Duration {
	return time.Duration(c.MetadataTTL) * time.Minute
}

// WordCountTTLDuration returns the word-count cache TTL.
func (c *Config) WordCountTTLDuration() time.Duration {
	return time.Duration(c.WordCountTTL) * time.Minute
}

// SuggestionTTLDuration returns the suggestion cache TTL.
func (c *Config) SuggestionTTLDuration() time.Duration {
	return time.Duration(c.SuggestionTTL) * time.Minute
}

// UpstreamTimeoutDuration returns the per-fetch upstream timeout.
func (c *Config) UpstreamTimeoutDuration() time.Duration {
	return time.Duration(c.UpstreamTimeout) * time.Second
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
