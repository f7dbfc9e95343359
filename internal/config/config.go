// Package config carries process-level runtime configuration: where the
// hot-reloadable documents live, the journal path, and the health endpoint.
// The documents themselves are owned by the settings store.
package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ConfigDir     string       `yaml:"config_dir"`
	JournalPath   string       `yaml:"journal_path"`
	RetentionDays int          `yaml:"retention_days"`
	LogLevel      string       `yaml:"log_level"`
	Health        HealthConfig `yaml:"health"`
}

type HealthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

func DefaultConfig() Config {
	return Config{
		ConfigDir:     ".",
		JournalPath:   "autoreacto.db",
		RetentionDays: 30,
		LogLevel:      "Information",
		Health:        HealthConfig{Enabled: false, Addr: ":8080"},
	}
}

// Load reads the optional runtime config file, then overlays env vars.
func Load() (Config, error) {
	cfg := DefaultConfig()

	path := os.Getenv("AUTOREACTO_CONFIG")
	if path == "" {
		path = "autoreacto.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.ConfigDir = envString("AUTOREACTO_CONFIG_DIR", cfg.ConfigDir)
	cfg.JournalPath = envString("AUTOREACTO_JOURNAL_PATH", cfg.JournalPath)
	cfg.RetentionDays = envInt("AUTOREACTO_RETENTION_DAYS", cfg.RetentionDays)
	cfg.LogLevel = envString("AUTOREACTO_LOG_LEVEL", cfg.LogLevel)
	cfg.Health.Enabled = envBool("AUTOREACTO_HEALTH_ENABLED", cfg.Health.Enabled)
	cfg.Health.Addr = envString("AUTOREACTO_HEALTH_ADDR", cfg.Health.Addr)
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		lower := strings.ToLower(value)
		return lower == "1" || lower == "true" || lower == "yes"
	}
	return fallback
}

// MaskToken renders a token safe for logging: first four runes kept, the
// rest masked.
func MaskToken(token string) string {
	if token == "" {
		return "unset"
	}
	runes := []rune(token)
	if len(runes) <= 4 {
		return "****"
	}
	return string(runes[:4]) + "****"
}
