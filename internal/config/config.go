package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"goaltracker/internal/storage"
)

const (
	DefaultAddr     = "127.0.0.1:8080"
	DefaultDBName   = "goaltracker.db"
	DefaultFileName = "config.yaml"
)

type Config struct {
	Env         string `yaml:"env"`
	LogLevel    string `yaml:"log_level"`
	Backend     string `yaml:"backend"`
	DataDir     string `yaml:"data_dir"`
	DBPath      string `yaml:"db_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
	Addr        string `yaml:"addr"`
	Timezone    string `yaml:"timezone"`
}

// DefaultDataDir is ~/.goaltracker, or ./.goaltracker when there is no home.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".goaltracker"
	}
	return filepath.Join(home, ".goaltracker")
}

func Default() *Config {
	return &Config{
		Env:      "production",
		LogLevel: "warn",
		Backend:  storage.BackendSQLite,
		DataDir:  DefaultDataDir(),
		Addr:     DefaultAddr,
	}
}

// Load layers defaults, the YAML file, .env and GT_* variables, in that
// order of increasing precedence. An empty path means GT_CONFIG, then
// <data dir>/config.yaml; only an explicitly named file must exist.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	c := Default()
	explicit := path != ""
	if !explicit {
		if p := os.Getenv("GT_CONFIG"); p != "" {
			path, explicit = p, true
		} else {
			dir := c.DataDir
			if d := os.Getenv("GT_DATA_DIR"); d != "" {
				dir = d
			}
			path = filepath.Join(dir, DefaultFileName)
		}
	}
	if err := c.readFile(path, explicit); err != nil {
		return nil, err
	}

	c.applyEnv()
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, DefaultDBName)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) readFile(path string, required bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	for key, dst := range map[string]*string{
		"GT_ENV":          &c.Env,
		"GT_LOG_LEVEL":    &c.LogLevel,
		"GT_BACKEND":      &c.Backend,
		"GT_DATA_DIR":     &c.DataDir,
		"GT_DB_PATH":      &c.DBPath,
		"GT_POSTGRES_DSN": &c.PostgresDSN,
		"GT_ADDR":         &c.Addr,
		"GT_TIMEZONE":     &c.Timezone,
	} {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
}

func (c *Config) Validate() error {
	switch c.Env {
	case "development", "staging", "production":
	default:
		return errors.New("env must be one of: development, staging, production")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q must be one of: debug, info, warn, error", c.LogLevel)
	}
	switch c.Backend {
	case storage.BackendSQLite:
		if c.DBPath == "" {
			return errors.New("db_path is required for the sqlite backend")
		}
	case storage.BackendFile:
		if c.DataDir == "" {
			return errors.New("data_dir is required for the file backend")
		}
	case storage.BackendPostgres:
		if c.PostgresDSN == "" {
			return errors.New("postgres_dsn is required when backend=postgres")
		}
	default:
		return fmt.Errorf("backend %q must be one of: sqlite, file, postgres", c.Backend)
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("timezone: %w", err)
		}
	}
	return nil
}

func (c *Config) BackendOptions() storage.BackendOptions {
	return storage.BackendOptions{
		Kind:        c.Backend,
		DBPath:      c.DBPath,
		DataDir:     filepath.Join(c.DataDir, "documents"),
		PostgresDSN: c.PostgresDSN,
	}
}

// Location is the configured timezone, or the process-local one.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Clock reports wall time in the configured timezone, so calendar days
// follow the user's zone rather than the host's.
func (c *Config) Clock() func() time.Time {
	loc := c.Location()
	return func() time.Time { return time.Now().In(loc) }
}
