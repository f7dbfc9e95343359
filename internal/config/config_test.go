package config

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("AUTOREACTO_CONFIG", "/nonexistent/autoreacto.yaml")
	t.Setenv("AUTOREACTO_CONFIG_DIR", "/etc/autoreacto")
	t.Setenv("AUTOREACTO_HEALTH_ENABLED", "true")
	t.Setenv("AUTOREACTO_RETENTION_DAYS", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ConfigDir != "/etc/autoreacto" {
		t.Fatalf("expected env override, got %q", cfg.ConfigDir)
	}
	if !cfg.Health.Enabled {
		t.Fatalf("expected health enabled")
	}
	if cfg.JournalPath != "autoreacto.db" {
		t.Fatalf("expected default journal path, got %q", cfg.JournalPath)
	}
	if cfg.RetentionDays != 7 {
		t.Fatalf("expected retention override, got %d", cfg.RetentionDays)
	}
}

func TestDefaultRetention(t *testing.T) {
	t.Setenv("AUTOREACTO_CONFIG", "/nonexistent/autoreacto.yaml")
	t.Setenv("AUTOREACTO_RETENTION_DAYS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RetentionDays != 30 {
		t.Fatalf("expected default retention, got %d", cfg.RetentionDays)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"Debug":       zapcore.DebugLevel,
		"Information": zapcore.InfoLevel,
		"warning":     zapcore.WarnLevel,
		"ERROR":       zapcore.ErrorLevel,
		"bogus":       zapcore.InfoLevel,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestMaskToken(t *testing.T) {
	if MaskToken("") != "unset" {
		t.Fatalf("empty token must render as unset")
	}
	if MaskToken("abc") != "****" {
		t.Fatalf("short token must be fully masked")
	}
	masked := MaskToken("supersecrettoken")
	if masked != "supe****" {
		t.Fatalf("unexpected mask %q", masked)
	}
}
