package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/signup/internal/errors"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "signup.json"

	// YAMLConfigFileName is the name of the YAML configuration file.
	YAMLConfigFileName = "signup.yaml"

	// DefaultDebounce is the quiet window before a draft is written.
	DefaultDebounce = 500 * time.Millisecond

	// DefaultStorageKey is the storage slot holding the draft.
	DefaultStorageKey = "saved-signup-form"

	// DefaultAddr is the default listen address of the form server.
	DefaultAddr = ":3000"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendS3     = "s3"
)

// Config represents the complete signup configuration.
type Config struct {
	// Debounce is the draft write window as a Go duration (e.g., "500ms").
	Debounce string `json:"debounce,omitempty" yaml:"debounce,omitempty"`

	// Storage selects and configures the draft store.
	Storage StorageConfig `json:"storage" yaml:"storage"`

	// Server configures the HTTP boundary.
	Server ServerConfig `json:"server" yaml:"server"`

	// Log configures the process logger.
	Log LogConfig `json:"log" yaml:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// StorageConfig selects the durable key-value store for drafts.
type StorageConfig struct {
	// Backend is one of memory, file, redis, sqlite, s3.
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`

	// Key is the slot the draft is stored under.
	Key string `json:"key,omitempty" yaml:"key,omitempty"`

	File   FileConfig   `json:"file,omitempty" yaml:"file,omitempty"`
	Redis  RedisConfig  `json:"redis,omitempty" yaml:"redis,omitempty"`
	SQLite SQLiteConfig `json:"sqlite,omitempty" yaml:"sqlite,omitempty"`
	S3     S3Config     `json:"s3,omitempty" yaml:"s3,omitempty"`
}

// FileConfig configures the JSON file store.
type FileConfig struct {
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// RedisConfig configures the Redis store.
type RedisConfig struct {
	Addr     string `json:"addr,omitempty" yaml:"addr,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	DB       int    `json:"db,omitempty" yaml:"db,omitempty"`
	Prefix   string `json:"prefix,omitempty" yaml:"prefix,omitempty"`

	// TTL expires drafts after a Go duration. Empty keeps them forever.
	TTL string `json:"ttl,omitempty" yaml:"ttl,omitempty"`
}

// SQLiteConfig configures the SQLite store.
type SQLiteConfig struct {
	Path  string `json:"path,omitempty" yaml:"path,omitempty"`
	Table string `json:"table,omitempty" yaml:"table,omitempty"`
}

// S3Config configures the S3 store.
type S3Config struct {
	Bucket          string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix          string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region          string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint        string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	AccessKeyID     string `json:"accessKeyId,omitempty" yaml:"accessKeyId,omitempty"`
	SecretAccessKey string `json:"secretAccessKey,omitempty" yaml:"secretAccessKey,omitempty"`
	UsePathStyle    bool   `json:"usePathStyle,omitempty" yaml:"usePathStyle,omitempty"`
}

// ServerConfig configures the HTTP boundary.
type ServerConfig struct {
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`

	// Metrics exposes /metrics when true.
	Metrics bool `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Debounce: DefaultDebounce.String(),
		Storage: StorageConfig{
			Backend: BackendFile,
			Key:     DefaultStorageKey,
			File:    FileConfig{Path: filepath.Join(".signup", "storage.json")},
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "signup:"},
			SQLite:  SQLiteConfig{Path: filepath.Join(".signup", "storage.db"), Table: "kv"},
			S3:      S3Config{Prefix: "signup/"},
		},
		Server: ServerConfig{
			Addr:    DefaultAddr,
			Metrics: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for signup.json, then signup.yaml.
func Load(dir string) (*Config, error) {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName, "signup.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E101").
		WithDetail("No " + ConfigFileName + " or " + YAMLConfigFileName + " found in " + dir)
}

// LoadOrDefault behaves like Load but returns defaults when no file exists.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if errors.HasCode(err, "E101") {
		return New(), nil
	}
	return cfg, err
}

// LoadFile reads configuration from the specified file path.
// Files ending in .yaml or .yml are parsed as YAML, everything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E101").
				WithDetail("No config file at " + path)
		}
		return nil, errors.New("E102").Wrap(err)
	}

	cfg := New()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E102").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// SaveTo writes the configuration to the specified path as JSON or YAML,
// chosen by extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E102").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E102").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	d := New()
	if c.Debounce == "" {
		c.Debounce = d.Debounce
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = d.Storage.Backend
	}
	if c.Storage.Key == "" {
		c.Storage.Key = d.Storage.Key
	}
	if c.Storage.File.Path == "" {
		c.Storage.File.Path = d.Storage.File.Path
	}
	if c.Storage.Redis.Addr == "" {
		c.Storage.Redis.Addr = d.Storage.Redis.Addr
	}
	if c.Storage.Redis.Prefix == "" {
		c.Storage.Redis.Prefix = d.Storage.Redis.Prefix
	}
	if c.Storage.SQLite.Path == "" {
		c.Storage.SQLite.Path = d.Storage.SQLite.Path
	}
	if c.Storage.SQLite.Table == "" {
		c.Storage.SQLite.Table = d.Storage.SQLite.Table
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

// DebounceWindow parses the debounce window.
func (c *Config) DebounceWindow() (time.Duration, error) {
	d, err := time.ParseDuration(c.Debounce)
	if err != nil {
		return 0, errors.New("E103").WithDetailf("debounce %q: %v", c.Debounce, err)
	}
	if d < 0 {
		return 0, errors.New("E103").WithDetailf("debounce %q is negative", c.Debounce)
	}
	return d, nil
}

// RedisTTL parses the Redis TTL. An empty TTL means no expiry.
func (c *StorageConfig) RedisTTL() (time.Duration, error) {
	if c.Redis.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Redis.TTL)
	if err != nil || d < 0 {
		return 0, errors.New("E105").WithDetailf("storage.redis.ttl %q is not a valid duration", c.Redis.TTL)
	}
	return d, nil
}

// SlogLevel parses the log level.
func (c *LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, errors.New("E106").WithDetailf("log.level %q", c.Level)
	}
	return level, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.DebounceWindow(); err != nil {
		return err
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E106").
			WithDetailf("log.format %q", c.Log.Format).
			WithSuggestion("Use text or json")
	}
	return c.Storage.Validate()
}

// Validate checks that the selected backend has what it needs.
func (c *StorageConfig) Validate() error {
	if c.Key == "" {
		return errors.New("E105").WithDetail("storage.key is empty")
	}
	switch c.Backend {
	case BackendMemory:
	case BackendFile:
		if c.File.Path == "" {
			return errors.New("E105").WithDetail("storage.file.path is empty")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("E105").WithDetail("storage.redis.addr is empty")
		}
		if _, err := c.RedisTTL(); err != nil {
			return err
		}
	case BackendSQLite:
		if c.SQLite.Path == "" {
			return errors.New("E105").WithDetail("storage.sqlite.path is empty")
		}
		if !validIdentifier(c.SQLite.Table) {
			return errors.New("E105").WithDetailf("storage.sqlite.table %q is not a plain identifier", c.SQLite.Table)
		}
	case BackendS3:
		if c.S3.Bucket == "" {
			return errors.New("E105").WithDetail("storage.s3.bucket is empty")
		}
		if c.S3.Region == "" {
			return errors.New("E105").WithDetail("storage.s3.region is empty")
		}
	default:
		return errors.New("E104").WithDetailf("backend %q", c.Backend)
	}
	return nil
}

func validIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
