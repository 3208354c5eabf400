package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"wikiepisodes/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("WIKIEPISODES_API_URL", "")
	t.Setenv("WIKIEPISODES_USER_AGENT", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogs := filepath.Join(tempHome, ".local", "share", "wikiepisodes", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	wantCache := filepath.Join(tempHome, ".cache", "wikiepisodes", "responses.db")
	if cfg.Cache.Path != wantCache {
		t.Fatalf("unexpected cache path: got %q want %q", cfg.Cache.Path, wantCache)
	}
	if !filepath.IsAbs(cfg.Paths.OutputDir) {
		t.Fatalf("expected absolute output dir, got %q", cfg.Paths.OutputDir)
	}
	if cfg.Wiki.APIURL != config.Default().Wiki.APIURL {
		t.Fatalf("unexpected api url: %q", cfg.Wiki.APIURL)
	}
	if !cfg.Wiki.FollowRedirects {
		t.Fatal("expected redirects to be followed by default")
	}
	if cfg.RequestTimeout().Seconds() != 20 {
		t.Fatalf("unexpected request timeout: %v", cfg.RequestTimeout())
	}
	if cfg.Export.Format != "csv" {
		t.Fatalf("unexpected export format: %q", cfg.Export.Format)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, filepath.Dir(cfg.Cache.Path)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "wikiepisodes.toml")

	type payload struct {
		Wiki struct {
			APIURL        string `toml:"api_url"`
			RetryAttempts int    `toml:"retry_attempts"`
		} `toml:"wiki"`
		Export struct {
			Format string `toml:"format"`
		} `toml:"export"`
		Logging struct {
			Level string `toml:"level"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Wiki.APIURL = "https://wiki.example.com/w/api.php"
	custom.Wiki.RetryAttempts = 5
	custom.Export.Format = " Markdown "
	custom.Logging.Level = "DEBUG"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("WIKIEPISODES_API_URL", "")

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Wiki.APIURL != custom.Wiki.APIURL {
		t.Fatalf("unexpected api url: %q", cfg.Wiki.APIURL)
	}
	if cfg.Wiki.RetryAttempts != 5 {
		t.Fatalf("unexpected retry attempts: %d", cfg.Wiki.RetryAttempts)
	}
	if cfg.Export.Format != "markdown" {
		t.Fatalf("expected normalized export format, got %q", cfg.Export.Format)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized log level, got %q", cfg.Logging.Level)
	}
	if cfg.Wiki.UserAgent == "" {
		t.Fatal("expected default user agent to survive partial config")
	}
}

func TestEnvOverridesWikiSettings(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("WIKIEPISODES_API_URL", "https://fr.wikipedia.org/w/api.php")
	t.Setenv("WIKIEPISODES_USER_AGENT", "tester/1.0")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Wiki.APIURL != "https://fr.wikipedia.org/w/api.php" {
		t.Fatalf("expected api url from env, got %q", cfg.Wiki.APIURL)
	}
	if cfg.Wiki.UserAgent != "tester/1.0" {
		t.Fatalf("expected user agent from env, got %q", cfg.Wiki.UserAgent)
	}
}

func TestCreateSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[wiki]") {
		t.Fatalf("sample config missing [wiki] section: %s", data)
	}

	t.Setenv("HOME", t.TempDir())
	if _, _, exists, err := config.Load(target); err != nil || !exists {
		t.Fatalf("sample config should load cleanly: exists=%v err=%v", exists, err)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"bad scheme", func(c *config.Config) { c.Wiki.APIURL = "ftp://example.com" }, "wiki.api_url"},
		{"zero timeout", func(c *config.Config) { c.Wiki.TimeoutSeconds = 0 }, "wiki.timeout_seconds"},
		{"negative retries", func(c *config.Config) { c.Wiki.RetryAttempts = -1 }, "wiki.retry_attempts"},
		{"negative rate", func(c *config.Config) { c.Wiki.RequestsPerSecond = -2 }, "wiki.requests_per_second"},
		{"cache ttl", func(c *config.Config) { c.Cache.TTLHours = 0 }, "cache.ttl_hours"},
		{"export format", func(c *config.Config) { c.Export.Format = "pdf" }, "export.format"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateAllowsDisabledCacheWithoutTTL(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Enabled = false
	cfg.Cache.TTLHours = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}
