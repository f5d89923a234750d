// Package config loads flowplot settings from a TOML file, a .env file and
// the process environment.
//
// Precedence, lowest first: built-in defaults, the TOML file, then the
// FLOWPLOT_* environment variables (which may themselves come from .env).
//
//	[chart]
//	color = "#0088AA55"
//	seed = 42
//	cofactor = 250.0
//	palette = ["#0088AA55", "#AA008855"]
//
//	[server]
//	addr = ":8080"
//	data_dir = "data"
//
//	[store]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[cache]
//	backend = "file"
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/flowplot/pkg/dataset"
	"github.com/matzehuels/flowplot/pkg/errors"
	"github.com/matzehuels/flowplot/pkg/gates"
	"github.com/matzehuels/flowplot/pkg/render/violin"
)

// AppName names the config and cache directories.
const AppName = "flowplot"

// Environment variables that override file values.
const (
	EnvRedisURL = "FLOWPLOT_REDIS_URL"
	EnvMongoURI = "FLOWPLOT_MONGO_URI"
	EnvAddr     = "FLOWPLOT_ADDR"
	EnvStore    = "FLOWPLOT_STORE"
	EnvCache    = "FLOWPLOT_CACHE"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the full settings tree.
type Config struct {
	Chart  Chart  `toml:"chart"`
	Server Server `toml:"server"`
	Store  Store  `toml:"store"`
	Cache  Cache  `toml:"cache"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// Chart holds rendering defaults.
type Chart struct {
	Color    string   `toml:"color"`
	Seed     uint64   `toml:"seed"`
	Cofactor float64  `toml:"cofactor"`
	Bins     int      `toml:"bins"`
	Palette  []string `toml:"palette"`
}

// Server holds HTTP settings.
type Server struct {
	Addr    string `toml:"addr"`
	DataDir string `toml:"data_dir"`
}

// Store selects the gate style backend.
type Store struct {
	Backend    string `toml:"backend"`
	RedisURL   string `toml:"redis_url"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	Prefix     string `toml:"prefix"`
}

// Cache selects the artifact cache backend.
type Cache struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
	Compress *bool  `toml:"compress"`
}

// KeyPrefix namespaces redis cache keys (default "flowplot:cache:").
func (c Cache) KeyPrefix() string {
	if c.Prefix == "" {
		return AppName + ":cache:"
	}
	return c.Prefix
}

// Compressed reports whether artifacts are lz4 compressed (default true).
func (c Cache) Compressed() bool { return c.Compress == nil || *c.Compress }

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Chart: Chart{
			Color:    violin.DefaultColor,
			Seed:     42,
			Cofactor: dataset.DefaultCofactor,
			Palette:  append([]string(nil), gates.DefaultPalette...),
		},
		Server: Server{Addr: ":8080", DataDir: "."},
		Store:  Store{Backend: StoreMemory},
		Cache:  Cache{Backend: CacheFile},
	}
}

// Dir returns $XDG_CONFIG_HOME/flowplot, falling back to ~/.config/flowplot.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// DefaultPath is the config file read when no path is given.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads path over the defaults. An empty path reads [DefaultPath] and
// tolerates its absence; an explicit path must exist. A .env file in the
// working directory is loaded first without replacing variables already set.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "locate config")
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		cfg.Path = path
	} else if explicit {
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Store.RedisURL = v
		c.Cache.RedisURL = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Store.MongoURI = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvStore); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv(EnvCache); v != "" {
		c.Cache.Backend = v
	}
}

// Validate checks backend names, colours and the backend URLs they need.
func (c Config) Validate() error {
	if err := errors.ValidateColor(c.Chart.Color); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "chart.color")
	}
	for i, p := range c.Chart.Palette {
		if err := errors.ValidateColor(p); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "chart.palette[%d]", i)
		}
	}
	if c.Chart.Cofactor < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "chart.cofactor must not be negative")
	}

	switch c.Store.Backend {
	case StoreMemory:
	case StoreRedis:
		if c.Store.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.redis_url required (or %s)", EnvRedisURL)
		}
	case StoreMongo:
		if c.Store.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.mongo_uri required (or %s)", EnvMongoURI)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}

	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url required (or %s)", EnvRedisURL)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}

// Write encodes c as TOML to path, creating parent directories.
func Write(c Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create config dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return nil
}

// String returns a short description of the selected backends.
func (c Config) String() string {
	return "store=" + c.Store.Backend + " cache=" + c.Cache.Backend + " seed=" + strconv.FormatUint(c.Chart.Seed, 10)
}
