package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"cfl_scraper/export"
	"cfl_scraper/generator"
)

type Config struct {
	Port        int
	Limits      export.Limits
	Seed        int64
	LogLevel    string
	LogFile     string
	DBPath      string
	DatabaseURL string
	S3          S3Config
	Scheduler   SchedulerConfig
	ExportDir   string
	CitiesFile  string
	Cities      []string
}

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
}

// Enabled reports whether export uploads are configured
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

type SchedulerConfig struct {
	Interval   time.Duration
	Cron       string
	RunOnStart bool
}

// Enabled reports whether any periodic export is configured
func (c SchedulerConfig) Enabled() bool {
	return c.Cron != "" || c.Interval > 0
}

// RosterFile is the shape of the cities YAML file
type RosterFile struct {
	Cities []RosterCity `yaml:"cities"`
}

type RosterCity struct {
	Name     string `yaml:"name"`
	Disabled bool   `yaml:"disabled"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnvInt("PORT", 8080),
		Limits: export.Limits{
			Default: getEnvInt("DEFAULT_LIMIT", export.DefaultLimits.Default),
			Max:     getEnvInt("MAX_LIMIT", export.DefaultLimits.Max),
		},
		Seed:        int64(getEnvInt("GENERATOR_SEED", 0)),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFile:     getEnvAllowEmpty("LOG_FILE", "daemon.log"),
		DBPath:      getEnvAllowEmpty("DB_PATH", "exports.db"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		S3: S3Config{
			Bucket:          os.Getenv("S3_BUCKET"),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
			Prefix:          getEnv("S3_PREFIX", "exports"),
		},
		Scheduler: SchedulerConfig{
			Cron:       os.Getenv("EXPORT_CRON"),
			RunOnStart: getEnvBool("EXPORT_ON_START", false),
		},
		ExportDir:  getEnv("EXPORT_DIR", "."),
		CitiesFile: getEnv("CITIES_FILE", "config/cities.yaml"),
		Cities:     generator.DefaultRoster,
	}

	if interval := os.Getenv("EXPORT_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return nil, fmt.Errorf("invalid EXPORT_INTERVAL %q: %w", interval, err)
		}
		cfg.Scheduler.Interval = d
	}

	if cfg.Limits.Default < 0 {
		cfg.Limits.Default = export.DefaultLimits.Default
	}
	if cfg.Limits.Max < cfg.Limits.Default {
		cfg.Limits.Max = cfg.Limits.Default
	}

	if err := cfg.loadRoster(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadRoster replaces the built-in roster when the cities file exists
func (c *Config) loadRoster() error {
	if c.CitiesFile == "" {
		return nil
	}

	data, err := os.ReadFile(c.CitiesFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	cities, err := ParseRoster(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", c.CitiesFile, err)
	}
	if len(cities) > 0 {
		c.Cities = cities
	}
	return nil
}

// ParseRoster returns the enabled city names in file order, skipping blanks
// and duplicates.
func ParseRoster(data []byte) ([]string, error) {
	var file RosterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var cities []string
	for _, city := range file.Cities {
		name := strings.TrimSpace(city.Name)
		if name == "" || city.Disabled || seen[name] {
			continue
		}
		seen[name] = true
		cities = append(cities, name)
	}
	return cities, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvAllowEmpty lets an explicitly empty variable switch a feature off
func getEnvAllowEmpty(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
