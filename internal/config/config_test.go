// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envVars = []string{
	"BLOCKPRESS_CONFIG",
	"APP_HOST", "APP_PORT", "APP_ENV", "SITE_NAME", "LOG_LEVEL",
	"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
	"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
	"S3_ENDPOINT", "S3_REGION", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET", "S3_PUBLIC_URL",
	"ASSET_BASE_URL", "RESOLVE_WAIT", "PAGE_CACHE_TTL", "DEFAULT_LANGUAGE",
}

// clearEnv sets every variable Load reads to "", which envOrDefault treats
// the same as unset. t.Setenv restores the previous values afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
}

// TestLoad_Defaults verifies that Load returns sensible development defaults
// when no environment variables are set.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	checks := []struct {
		field string
		got   string
		want  string
	}{
		{"Host", cfg.Host, "0.0.0.0"},
		{"Port", cfg.Port, "8080"},
		{"Env", cfg.Env, "development"},
		{"DBUser", cfg.DBUser, "blockpress"},
		{"DBPassword", cfg.DBPassword, "changeme"},
		{"DBName", cfg.DBName, "blockpress"},
		{"ValkeyPort", cfg.ValkeyPort, "6379"},
		{"S3Region", cfg.S3Region, "us-east-1"},
		{"DefaultLanguage", cfg.DefaultLanguage, "en"},
		{"SiteName", cfg.SiteName, "BlockPress"},
	}
	for _, c := range checks {
		t.Run(c.field, func(t *testing.T) {
			if c.got != c.want {
				t.Errorf("%s: got %q, want %q", c.field, c.got, c.want)
			}
		})
	}
	if cfg.ResolveWait != 250*time.Millisecond {
		t.Errorf("ResolveWait: got %v, want 250ms", cfg.ResolveWait)
	}
	if cfg.PageCacheTTL != 5*time.Minute {
		t.Errorf("PageCacheTTL: got %v, want 5m", cfg.PageCacheTTL)
	}
	if cfg.HasS3() {
		t.Error("HasS3 should be false without credentials")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("S3_ACCESS_KEY", "ak")
	t.Setenv("S3_SECRET_KEY", "sk")
	t.Setenv("RESOLVE_WAIT", "1s")
	t.Setenv("PAGE_CACHE_TTL", "30s")
	t.Setenv("DEFAULT_LANGUAGE", "de")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" || cfg.DBHost != "db.internal" || cfg.DefaultLanguage != "de" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if !cfg.HasS3() {
		t.Error("HasS3 should be true with both keys set")
	}
	if cfg.ResolveWait != time.Second || cfg.PageCacheTTL != 30*time.Second {
		t.Errorf("durations: got %v / %v", cfg.ResolveWait, cfg.PageCacheTTL)
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "blockpress.yaml")
	yaml := `
port: "7000"
site_name: Docs
db_host: file-db
resolve_wait: 100ms
page_cache_ttl: 2m
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BLOCKPRESS_CONFIG", path)
	t.Setenv("POSTGRES_HOST", "env-db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "7000" || cfg.SiteName != "Docs" {
		t.Errorf("file values not applied: port=%q site=%q", cfg.Port, cfg.SiteName)
	}
	if cfg.DBHost != "env-db" {
		t.Errorf("environment must win over the file: got %q", cfg.DBHost)
	}
	if cfg.ResolveWait != 100*time.Millisecond || cfg.PageCacheTTL != 2*time.Minute {
		t.Errorf("durations from file: got %v / %v", cfg.ResolveWait, cfg.PageCacheTTL)
	}
	if cfg.DBUser != "blockpress" {
		t.Errorf("unset file values keep defaults: got %q", cfg.DBUser)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"production default password", map[string]string{"APP_ENV": "production"}, "POSTGRES_PASSWORD"},
		{"bad duration", map[string]string{"RESOLVE_WAIT": "soon"}, "RESOLVE_WAIT"},
		{"negative ttl", map[string]string{"PAGE_CACHE_TTL": "-1s"}, "PAGE_CACHE_TTL"},
		{"unknown log level", map[string]string{"LOG_LEVEL": "loud"}, "LOG_LEVEL"},
		{"missing file", map[string]string{"BLOCKPRESS_CONFIG": "/nonexistent/blockpress.yaml"}, "read config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_ProductionWithPassword(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("POSTGRES_PASSWORD", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.IsDev() {
		t.Error("production config must not report IsDev")
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5433", DBName: "d"}
	want := "postgres://u:p@h:5433/d?sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN: got %q, want %q", got, want)
	}
}

func TestAddr(t *testing.T) {
	cfg := &Config{Host: "127.0.0.1", Port: "3000"}
	if got := cfg.Addr(); got != "127.0.0.1:3000" {
		t.Errorf("Addr: got %q", got)
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := (&Config{LogLevel: tt.in}).SlogLevel()
			if err != nil {
				t.Fatalf("SlogLevel: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("BLOCKPRESS_TEST_VAR", "")
	if got := envOrDefault("BLOCKPRESS_TEST_VAR", "fallback"); got != "fallback" {
		t.Errorf("empty: got %q", got)
	}
	t.Setenv("BLOCKPRESS_TEST_VAR", "set")
	if got := envOrDefault("BLOCKPRESS_TEST_VAR", "fallback"); got != "set" {
		t.Errorf("set: got %q", got)
	}
}
