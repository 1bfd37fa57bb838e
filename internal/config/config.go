// Package config loads the td client configuration.
//
// Sources are layered, later ones winning: built-in defaults, the YAML file,
// a .env file, the process environment, then command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/and161185/taskdesk/internal/model"
)

// Storage backends.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Environment variables.
const (
	EnvAPIBaseURL    = "TASKDESK_API_BASE_URL"
	EnvLegacyBaseURL = "REACT_APP_API_BASE_URL"
	EnvStorage       = "TASKDESK_STORAGE"
	EnvDataDir       = "TASKDESK_DATA_DIR"
	EnvTimeout       = "TASKDESK_TIMEOUT"
	EnvLogLevel      = "TASKDESK_LOG_LEVEL"
	EnvPageSize      = "TASKDESK_PAGE_SIZE"
)

// Config is the resolved client configuration.
type Config struct {
	APIBaseURL string        `yaml:"api_base_url"`
	DataDir    string        `yaml:"data_dir"`
	Storage    string        `yaml:"storage"`
	Timeout    time.Duration `yaml:"timeout"`
	LogLevel   string        `yaml:"log_level"`
	PageSize   int           `yaml:"page_size"`

	Debug bool   `yaml:"-"`
	File  string `yaml:"-"` // config file that was read, "" if none
}

// DefaultDir is $XDG_CONFIG_HOME/taskdesk, falling back to ~/.config/taskdesk.
func DefaultDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "taskdesk")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "taskdesk")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:  DefaultDir(),
		Storage:  StorageFile,
		Timeout:  30 * time.Second,
		LogLevel: "warn",
		PageSize: model.DefaultPageSize,
	}
}

// Load parses the global flags in args and resolves the configuration.
// It returns the remaining arguments (the subcommand and its flags).
func Load(args []string, stderr io.Writer) (*Config, []string, error) {
	set := flag.NewFlagSet("td", flag.ContinueOnError)
	set.SetOutput(stderr)
	cfgPath := set.String("config", "", "config file (YAML)")
	envFile := set.String("env-file", ".env", "dotenv file")
	apiURL := set.String("api", "", "API base URL")
	dataDir := set.String("data-dir", "", "directory for local state")
	storage := set.String("storage", "", "local storage: file, sqlite or memory")
	timeout := set.Duration("timeout", 0, "per-request timeout")
	logLevel := set.String("log-level", "", "log level")
	pageSize := set.Int("page-size", 0, "initial page size (5, 10, 15 or 20)")
	debug := set.Bool("debug", false, "development logging at debug level")
	if err := set.Parse(args); err != nil {
		return nil, nil, err
	}

	cfg := Default()

	path, explicit := *cfgPath, *cfgPath != ""
	if !explicit {
		path = filepath.Join(DefaultDir(), "config.yaml")
	}
	if err := cfg.readFile(path, explicit); err != nil {
		return nil, nil, err
	}

	dotenv, err := godotenv.Read(*envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("read %s: %w", *envFile, err)
	}
	lookup := func(k string) (string, bool) {
		if v := os.Getenv(k); v != "" {
			return v, true
		}
		v, ok := dotenv[k]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, nil, err
	}

	set.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "api":
			cfg.APIBaseURL = *apiURL
		case "data-dir":
			cfg.DataDir = *dataDir
		case "storage":
			cfg.Storage = *storage
		case "timeout":
			cfg.Timeout = *timeout
		case "log-level":
			cfg.LogLevel = *logLevel
		case "page-size":
			cfg.PageSize = *pageSize
		case "debug":
			cfg.Debug = *debug
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, set.Args(), nil
}

func (c *Config) readFile(path string, required bool) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	c.File = path
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLegacyBaseURL); ok && v != "" {
		c.APIBaseURL = v
	}
	if v, ok := lookup(EnvAPIBaseURL); ok && v != "" {
		c.APIBaseURL = v
	}
	if v, ok := lookup(EnvStorage); ok && v != "" {
		c.Storage = v
	}
	if v, ok := lookup(EnvDataDir); ok && v != "" {
		c.DataDir = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	if v, ok := lookup(EnvPageSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPageSize, err)
		}
		c.PageSize = n
	}
	return nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	switch c.Storage {
	case StorageFile, StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("storage %q: must be file, sqlite or memory", c.Storage)
	}
	if c.Storage != StorageMemory && c.DataDir == "" {
		return errors.New("data dir is empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout %s: must be positive", c.Timeout)
	}
	if !model.ValidPageSize(c.PageSize) {
		return fmt.Errorf("page size %d: must be one of %v", c.PageSize, model.PageSizes)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// RequireAPI reports a missing API base URL.
func (c *Config) RequireAPI() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("api base url is not set (use -api or %s)", EnvAPIBaseURL)
	}
	return nil
}
