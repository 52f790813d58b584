package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultOrigin = "http://localhost:3000"

// Config holds every runtime setting for the server and marketctl.
type Config struct {
	Port           string   `yaml:"port"`
	DataPath       string   `yaml:"data_path"`
	CORSOrigins    []string `yaml:"cors_origins"`
	DefaultLimit   int      `yaml:"default_page_limit"`
	MaxLimit       int      `yaml:"max_page_limit"`
	MapMarkerLimit int      `yaml:"map_marker_limit"`
	SiteBaseURL    string   `yaml:"site_base_url"`
	LogLevel       string   `yaml:"log_level"`
	LogFormat      string   `yaml:"log_format"` // "json" or "console"
	SnapshotURL    string   `yaml:"snapshot_url,omitempty"`
}

func defaults() Config {
	return Config{
		Port:           "8080",
		DataPath:       "public/data/farmers_markets.json",
		CORSOrigins:    []string{defaultOrigin},
		DefaultLimit:   50,
		MaxLimit:       1000,
		MapMarkerLimit: 500,
		SiteBaseURL:    "https://farmermarkets.app",
		LogLevel:       "info",
		LogFormat:      "json",
	}
}

// Load builds the configuration in three layers: defaults, then the YAML
// file named by CONFIG_FILE (if any), then environment variables. A .env
// file in the working directory is loaded first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DataPath = getEnv("MARKETS_DATA_PATH", cfg.DataPath)
	cfg.DefaultLimit = getEnvInt("DEFAULT_PAGE_LIMIT", cfg.DefaultLimit)
	cfg.MaxLimit = getEnvInt("MAX_PAGE_LIMIT", cfg.MaxLimit)
	cfg.MapMarkerLimit = getEnvInt("MAP_MARKER_LIMIT", cfg.MapMarkerLimit)
	cfg.SiteBaseURL = strings.TrimRight(getEnv("SITE_BASE_URL", cfg.SiteBaseURL), "/")
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.SnapshotURL = getEnv("SNAPSHOT_URL", cfg.SnapshotURL)
	cfg.CORSOrigins = mergeOrigins(cfg.CORSOrigins, splitCSV(os.Getenv("CORS_ORIGINS")))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// mergeFile overlays the YAML file at path onto c. ${VAR} references in the
// file are expanded from the environment before parsing.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	c.CORSOrigins = mergeOrigins([]string{defaultOrigin}, c.CORSOrigins)
	return nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("missing required setting: PORT")
	}
	if strings.TrimSpace(c.DataPath) == "" {
		return fmt.Errorf("missing required setting: MARKETS_DATA_PATH")
	}
	if c.DefaultLimit < 1 {
		return fmt.Errorf("DEFAULT_PAGE_LIMIT must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("MAX_PAGE_LIMIT (%d) must be >= DEFAULT_PAGE_LIMIT (%d)", c.MaxLimit, c.DefaultLimit)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.LogFormat)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// mergeOrigins appends extra to base, dropping duplicates.
func mergeOrigins(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	seen := map[string]bool{}
	for _, o := range append(append([]string{}, base...), extra...) {
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}
	return out
}
