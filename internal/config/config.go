// Package config loads dottex settings from a TOML file and DOTTEX_*
// environment variables. Environment variables win over the file, the file
// wins over defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v10"

	errs "github.com/matzehuels/dottex/pkg/errors"
)

const appName = "dottex"

// Layout backends.
const (
	BackendGraphviz = "graphviz" // in-process WebAssembly Graphviz
	BackendExec     = "exec"     // installed Graphviz binary
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config holds all application settings.
type Config struct {
	Layout LayoutConfig `toml:"layout" envPrefix:"LAYOUT_"`
	Cache  CacheConfig  `toml:"cache" envPrefix:"CACHE_"`
	Server ServerConfig `toml:"server" envPrefix:"SERVER_"`
}

// LayoutConfig selects the positioner.
type LayoutConfig struct {
	Backend string        `toml:"backend" env:"BACKEND"`
	Engine  string        `toml:"engine" env:"ENGINE"`
	Binary  string        `toml:"binary" env:"BINARY"`
	Timeout time.Duration `toml:"timeout" env:"TIMEOUT"`
}

// CacheConfig selects where layouts are cached.
type CacheConfig struct {
	Backend   string        `toml:"backend" env:"BACKEND"`
	Dir       string        `toml:"dir" env:"DIR"`
	RedisAddr string        `toml:"redis_addr" env:"REDIS_ADDR"`
	TTL       time.Duration `toml:"ttl" env:"TTL"`
}

// ServerConfig configures dottex serve.
type ServerConfig struct {
	Addr            string        `toml:"addr" env:"ADDR"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			Backend: BackendGraphviz,
			Engine:  "dot",
			Timeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     7 * 24 * time.Hour,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// Load reads path on top of the defaults and applies environment overrides.
// An empty path means [DefaultPath], which may be absent; an explicit path
// must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read config %s", path)
			}
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "DOTTEX_"}); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read environment")
	}

	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = DefaultCacheDir()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every setting has a usable value.
func (c *Config) Validate() error {
	if !slices.Contains([]string{BackendGraphviz, BackendExec}, c.Layout.Backend) {
		return errs.New(errs.ErrCodeInvalidInput, "unknown layout backend %q (want %s or %s)", c.Layout.Backend, BackendGraphviz, BackendExec)
	}
	if err := errs.ValidateEngine(c.Layout.Engine); err != nil {
		return err
	}
	if c.Layout.Timeout < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "layout timeout cannot be negative")
	}

	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errs.New(errs.ErrCodeInvalidInput, "cache backend redis requires redis_addr")
		}
	default:
		return errs.New(errs.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}

	if c.Server.Addr == "" {
		return errs.New(errs.ErrCodeInvalidInput, "server addr cannot be empty")
	}
	return nil
}

// DefaultPath returns the config file location using the XDG standard
// (~/.config/dottex/config.toml), or "" when no home directory is known.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// DefaultCacheDir returns the cache directory using the XDG standard
// (~/.cache/dottex/), falling back to the system temp dir.
func DefaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, ".cache", appName)
}

// String renders the effective configuration as TOML.
func (c *Config) String() string {
	b, err := toml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("%+v", *c)
	}
	return string(b)
}
