package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	ApplyDefaults(&cfg)

	if cfg.Port != "10000" {
		t.Fatalf("Port=%q want=10000", cfg.Port)
	}
	if cfg.ECFRBaseURL != "https://www.ecfr.gov" {
		t.Fatalf("ECFRBaseURL=%q", cfg.ECFRBaseURL)
	}
	if got := cfg.MetadataTTLDuration(); got != 24*time.Hour {
		t.Fatalf("MetadataTTLDuration()=%v want=24h", got)
	}
	if got := cfg.WordCountTTLDuration(); got != 30*24*time.Hour {
		t.Fatalf("WordCountTTLDuration()=%v want=720h", got)
	}
	if got := cfg.SuggestionTTLDuration(); got != 12*time.Hour {
		t.Fatalf("SuggestionTTLDuration()=%v want=12h", got)
	}
	if got := cfg.UpstreamTimeoutDuration(); got != 60*time.Second {
		t.Fatalf("UpstreamTimeoutDuration()=%v want=60s", got)
	}
	if cfg.ConcurrencyLimit != 8 {
		t.Fatalf("ConcurrencyLimit=%d want=8", cfg.ConcurrencyLimit)
	}
}

func TestApplyDefaultsPreservesConfiguredFields(t *testing.T) {
	cfg := Config{
		Port:        "8080",
		ECFRBaseURL: "http://ecfr.test",
		RedisAddr:   "redis:6380",
		MetadataTTL: 5,
	}
	ApplyDefaults(&cfg)

	if cfg.Port != "8080" {
		t.Fatalf("Port=%q want=8080", cfg.Port)
	}
	if cfg.ECFRBaseURL != "http://ecfr.test" {
		t.Fatalf("ECFRBaseURL=%q", cfg.ECFRBaseURL)
	}
	if cfg.RedisAddr != "redis:6380" {
		t.Fatalf("RedisAddr=%q", cfg.RedisAddr)
	}
	if cfg.MetadataTTL != 5 {
		t.Fatalf("MetadataTTL=%d want=5", cfg.MetadataTTL)
	}
}

func TestLoadFileAndEnvOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"port":"9999","ecfr_base_url":"http://file.test"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PORT", "7777")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// Environment wins over the file.
	if cfg.Port != "7777" {
		t.Fatalf("Port=%q want=7777", cfg.Port)
	}
	// File value survives where no env is set.
	if cfg.ECFRBaseURL != "http://file.test" {
		t.Fatalf("ECFRBaseURL=%q want=http://file.test", cfg.ECFRBaseURL)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
