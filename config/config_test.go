package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cfl_scraper/generator"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DEFAULT_LIMIT", "MAX_LIMIT", "GENERATOR_SEED", "LOG_LEVEL",
		"DATABASE_URL", "S3_BUCKET", "EXPORT_CRON", "EXPORT_INTERVAL", "EXPORT_DIR",
		"EXPORT_ON_START",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("CITIES_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.Limits.Default != 10 || cfg.Limits.Max != 200 {
		t.Fatalf("unexpected limits %+v", cfg.Limits)
	}
	if cfg.Seed != 0 {
		t.Fatalf("expected seed 0, got %d", cfg.Seed)
	}
	if cfg.S3.Enabled() {
		t.Fatalf("expected uploads disabled without a bucket")
	}
	if cfg.Scheduler.Enabled() || cfg.Scheduler.RunOnStart {
		t.Fatalf("expected scheduler disabled")
	}
	if len(cfg.Cities) != len(generator.DefaultRoster) {
		t.Fatalf("expected built-in roster, got %v", cfg.Cities)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DEFAULT_LIMIT", "5")
	t.Setenv("MAX_LIMIT", "50")
	t.Setenv("GENERATOR_SEED", "42")
	t.Setenv("EXPORT_INTERVAL", "30m")
	t.Setenv("EXPORT_ON_START", "true")
	t.Setenv("S3_BUCKET", "listings")
	t.Setenv("DB_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Port != 9090 || cfg.Limits.Default != 5 || cfg.Limits.Max != 50 || cfg.Seed != 42 {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.Scheduler.Interval != 30*time.Minute {
		t.Fatalf("expected 30m interval, got %s", cfg.Scheduler.Interval)
	}
	if !cfg.Scheduler.RunOnStart {
		t.Fatalf("expected startup export enabled")
	}
	if !cfg.S3.Enabled() {
		t.Fatalf("expected uploads enabled")
	}
	if cfg.DBPath != "" {
		t.Fatalf("expected empty DB_PATH to disable the run store, got %q", cfg.DBPath)
	}
}

func TestLoad_BadInterval(t *testing.T) {
	clearEnv(t)
	t.Setenv("EXPORT_INTERVAL", "often")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid interval")
	}
}

func TestLoad_RosterFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "cities.yaml")
	data := []byte("cities:\n  - name: Ocala\n  - name: Tampa\n    disabled: true\n  - name: Sanford\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write roster: %v", err)
	}
	t.Setenv("CITIES_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(cfg.Cities) != 2 || cfg.Cities[0] != "Ocala" || cfg.Cities[1] != "Sanford" {
		t.Fatalf("unexpected roster %v", cfg.Cities)
	}
}

func TestParseRoster_ShippedFileMatchesBuiltIn(t *testing.T) {
	data, err := os.ReadFile("cities.yaml")
	if err != nil {
		t.Fatalf("read cities.yaml: %v", err)
	}
	cities, err := ParseRoster(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(cities) != len(generator.DefaultRoster) {
		t.Fatalf("expected %d cities, got %d", len(generator.DefaultRoster), len(cities))
	}
	for i, city := range generator.DefaultRoster {
		if cities[i] != city {
			t.Fatalf("city %d: expected %s, got %s", i, city, cities[i])
		}
	}
}

func TestParseRoster_SkipsBlanksAndDuplicates(t *testing.T) {
	cities, err := ParseRoster([]byte("cities:\n  - name: Tampa\n  - name: ' '\n  - name: Tampa\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(cities) != 1 || cities[0] != "Tampa" {
		t.Fatalf("unexpected roster %v", cities)
	}
}

func TestParseRoster_Invalid(t *testing.T) {
	if _, err := ParseRoster([]byte("cities: [")); err == nil {
		t.Fatalf("expected yaml error")
	}
}
