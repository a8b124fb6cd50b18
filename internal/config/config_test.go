package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vango-dev/signup/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Storage.Key != "saved-signup-form" {
		t.Errorf("Storage.Key = %q, want saved-signup-form", cfg.Storage.Key)
	}
	if cfg.Storage.Backend != BackendFile {
		t.Errorf("Storage.Backend = %q, want %q", cfg.Storage.Backend, BackendFile)
	}
	d, err := cfg.DebounceWindow()
	if err != nil || d != 500*time.Millisecond {
		t.Errorf("DebounceWindow() = %v, %v; want 500ms", d, err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults: %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	content := `{
  "debounce": "250ms",
  "storage": {
    "backend": "redis",
    "redis": { "addr": "cache:6379", "ttl": "24h" }
  },
  "log": { "level": "debug" }
}`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Storage.Backend != BackendRedis {
		t.Errorf("Backend = %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Redis.Addr != "cache:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Storage.Redis.Addr)
	}
	if cfg.Storage.Redis.Prefix != "signup:" {
		t.Errorf("Redis.Prefix default not applied: %q", cfg.Storage.Redis.Prefix)
	}
	if cfg.Storage.Key != DefaultStorageKey {
		t.Errorf("Key default not applied: %q", cfg.Storage.Key)
	}
	if ttl, err := cfg.Storage.RedisTTL(); err != nil || ttl != 24*time.Hour {
		t.Errorf("RedisTTL() = %v, %v", ttl, err)
	}
	if d, _ := cfg.DebounceWindow(); d != 250*time.Millisecond {
		t.Errorf("DebounceWindow() = %v", d)
	}
	if level, _ := cfg.Log.SlogLevel(); level != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v", level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format default not applied: %q", cfg.Log.Format)
	}
	if cfg.Path() != filepath.Join(dir, ConfigFileName) {
		t.Errorf("Path() = %q", cfg.Path())
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	content := `
debounce: 1s
storage:
  backend: sqlite
  sqlite:
    path: /tmp/drafts.db
server:
  addr: 127.0.0.1:8080
`
	if err := os.WriteFile(filepath.Join(dir, YAMLConfigFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Storage.SQLite.Path != "/tmp/drafts.db" || cfg.Storage.SQLite.Table != "kv" {
		t.Errorf("SQLite = %+v", cfg.Storage.SQLite)
	}
	if cfg.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(dir)
	if !errors.HasCode(err, "E101") {
		t.Errorf("Load(empty dir) = %v, want E101", err)
	}

	cfg, err := LoadOrDefault(dir)
	if err != nil || cfg == nil {
		t.Errorf("LoadOrDefault(empty dir) = %v, %v", cfg, err)
	}

	bad := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = LoadFile(bad)
	if !errors.HasCode(err, "E102") {
		t.Errorf("LoadFile(bad json) = %v, want E102", err)
	}
	if _, err := LoadOrDefault(dir); !errors.HasCode(err, "E102") {
		t.Errorf("LoadOrDefault(bad json) = %v, want E102", err)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := New()
	cfg.Storage.Backend = BackendS3
	cfg.Storage.S3.Bucket = "drafts"
	cfg.Storage.S3.Region = "eu-west-1"

	for _, name := range []string{"out.json", "out.yaml"} {
		path := filepath.Join(dir, name)
		if err := cfg.SaveTo(path); err != nil {
			t.Fatalf("SaveTo(%s): %v", name, err)
		}
		loaded, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile(%s): %v", name, err)
		}
		if loaded.Storage.S3.Bucket != "drafts" || loaded.Storage.Backend != BackendS3 {
			t.Errorf("%s: storage = %+v", name, loaded.Storage)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantCode string
	}{
		{"bad debounce", func(c *Config) { c.Debounce = "soon" }, "E103"},
		{"negative debounce", func(c *Config) { c.Debounce = "-1s" }, "E103"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "etcd" }, "E104"},
		{"empty key", func(c *Config) { c.Storage.Key = "" }, "E105"},
		{"redis without addr", func(c *Config) {
			c.Storage.Backend = BackendRedis
			c.Storage.Redis.Addr = ""
		}, "E105"},
		{"redis bad ttl", func(c *Config) {
			c.Storage.Backend = BackendRedis
			c.Storage.Redis.TTL = "forever"
		}, "E105"},
		{"sqlite bad table", func(c *Config) {
			c.Storage.Backend = BackendSQLite
			c.Storage.SQLite.Table = "kv; DROP TABLE x"
		}, "E105"},
		{"s3 without bucket", func(c *Config) { c.Storage.Backend = BackendS3 }, "E105"},
		{"bad log level", func(c *Config) { c.Log.Level = "chatty" }, "E106"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "E106"},
		{"memory ok", func(c *Config) { c.Storage.Backend = BackendMemory }, ""},
		{"zero debounce ok", func(c *Config) { c.Debounce = "0s" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.HasCode(err, tt.wantCode) {
				t.Errorf("Validate() = %v, want %s", err, tt.wantCode)
			}
		})
	}
}
