package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tally-dev/tally/internal/log"
	"github.com/tally-dev/tally/internal/storage"
)

// FileName is the config file inside a project directory.
const FileName = "tally.yaml"

// EnvFile is the optional dotenv file inside a project directory.
const EnvFile = ".env"

// Environment variables that override the config file.
const (
	EnvHome           = "TALLY_HOME"
	EnvStorageBackend = "TALLY_STORAGE_BACKEND"
	EnvStoragePath    = "TALLY_STORAGE_PATH"
	EnvSeedSource     = "TALLY_SEED_SOURCE"
	EnvLogLevel       = "TALLY_LOG_LEVEL"
	EnvLogFormat      = "TALLY_LOG_FORMAT"
	EnvAutoCommit     = "TALLY_GIT_AUTO_COMMIT"
)

// Config represents the top-level tally.yaml configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Seed    SeedConfig    `yaml:"seed"`
	Search  SearchConfig  `yaml:"search"`
	Sort    SortConfig    `yaml:"sort"`
	Log     LogConfig     `yaml:"log"`
	Git     GitConfig     `yaml:"git"`
}

// StorageConfig selects where the snapshot is persisted.
type StorageConfig struct {
	Backend string `yaml:"backend"` // file, sqlite or memory
	Path    string `yaml:"path,omitempty"`
	Key     string `yaml:"key"`
}

// SeedConfig names the starter data used when the store is empty.
type SeedConfig struct {
	Source string `yaml:"source,omitempty"` // file path or http(s) URL
	Format string `yaml:"format,omitempty"` // json or csv; inferred when empty
}

// SearchConfig tunes the search pattern cache.
type SearchConfig struct {
	CacheSize int `yaml:"cache_size"`
}

// SortConfig controls table ordering.
type SortConfig struct {
	Locale string `yaml:"locale,omitempty"` // BCP 47 tag for collation
}

// LogConfig controls diagnostics on stderr.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: storage.KindFile,
			Key:     storage.DefaultKey,
		},
		Search: SearchConfig{
			CacheSize: 64,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "tally",
			AuthorEmail: "tally@localhost",
		},
	}
}

// Load reads a tally.yaml file from disk. Keys absent from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadDir reads <dir>/tally.yaml, falling back to defaults when the file
// does not exist, then applies <dir>/.env and TALLY_* overrides and
// validates the result.
func LoadDir(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
	} else if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(dir); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// HomeDir returns the project directory named by TALLY_HOME, or ".".
func HomeDir() string {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir
	}
	return "."
}

// ApplyEnv loads <dir>/.env into the process environment (existing
// variables win) and then applies TALLY_* overrides.
func (c *Config) ApplyEnv(dir string) error {
	envPath := filepath.Join(dir, EnvFile)
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return fmt.Errorf("loading %s: %w", envPath, err)
		}
	}

	if v := os.Getenv(EnvStorageBackend); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv(EnvStoragePath); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv(EnvSeedSource); v != "" {
		c.Seed.Source = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv(EnvAutoCommit); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvAutoCommit, v, err)
		}
		c.Git.AutoCommit = b
	}
	return nil
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var problems []string

	if !slices.Contains(storage.Kinds, c.Storage.Backend) {
		problems = append(problems, fmt.Sprintf("invalid storage backend %q: must be one of %v", c.Storage.Backend, storage.Kinds))
	}
	if err := storage.ValidateKey(c.Storage.Key); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Search.CacheSize < 1 {
		problems = append(problems, fmt.Sprintf("invalid search cache size %d: must be at least 1", c.Search.CacheSize))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		problems = append(problems, fmt.Sprintf("invalid log format %q: must be text or json", c.Log.Format))
	}
	if f := strings.ToLower(c.Seed.Format); f != "" && f != "json" && f != "csv" {
		problems = append(problems, fmt.Sprintf("invalid seed format %q: must be json or csv", c.Seed.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// StoragePath resolves the backend location against the project
// directory. An empty path picks data/ for the file backend and
// data/tally.db for sqlite.
func (c *Config) StoragePath(dir string) string {
	p := c.Storage.Path
	if p == "" {
		switch c.Storage.Backend {
		case storage.KindSQLite:
			p = filepath.Join("data", "tally.db")
		default:
			p = "data"
		}
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// SeedSource resolves a local seed path against the project directory;
// URLs are returned unchanged.
func (c *Config) SeedSource(dir string) string {
	src := c.Seed.Source
	if src == "" || filepath.IsAbs(src) || strings.Contains(src, "://") {
		return src
	}
	return filepath.Join(dir, src)
}
