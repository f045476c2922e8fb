// Package config loads taskgraph settings from a TOML file and the
// environment.
//
// Precedence, lowest first: built-in defaults, the config file,
// environment variables, then command-line flags (applied by the caller).
//
//	[server]
//	addr = "127.0.0.1:8080"
//
//	[storage]
//	driver = "sqlite"            # or "mongo"
//	path = "~/.local/share/taskgraph/taskgraph.db"
//	mongo_uri = "mongodb://localhost:27017"
//	mongo_database = "taskgraph"
//
//	[cache]
//	backend = "file"             # "redis" or "none"
//	dir = "~/.cache/taskgraph"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[pexels]
//	api_key = "..."
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/taskgraph/pkg/integrations/pexels"
)

// AppName names the configuration, data and cache directories.
const AppName = "taskgraph"

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the complete application configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Cache   CacheConfig   `toml:"cache"`
	Pexels  PexelsConfig  `toml:"pexels"`
}

// ServerConfig configures `taskgraph serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// StorageConfig selects and configures the task store.
type StorageConfig struct {
	Driver        string `toml:"driver"`
	Path          string `toml:"path"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// CacheConfig configures the image lookup cache.
type CacheConfig struct {
	Backend   string        `toml:"backend"`
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	TTL       time.Duration `toml:"ttl"`
}

// PexelsConfig configures the image lookup. An empty APIKey disables it.
type PexelsConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: "127.0.0.1:8080"},
		Storage: StorageConfig{
			Driver:        DriverSQLite,
			Path:          filepath.Join(dataDir(), AppName+".db"),
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: AppName,
		},
		Cache: CacheConfig{
			Backend:   CacheFile,
			Dir:       cacheDir(),
			RedisAddr: "localhost:6379",
			TTL:       24 * time.Hour,
		},
		Pexels: PexelsConfig{BaseURL: pexels.DefaultBaseURL},
	}
}

// Load reads the file at path over the defaults, then applies the
// environment and validates the result. An empty path means
// [DefaultPath], which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	md, err := toml.DecodeFile(path, cfg)
	switch {
	case err == nil:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	cfg.applyEnv(os.Getenv)
	cfg.expandPaths()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides settings from environment variables.
func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Pexels.APIKey, "PEXELS_API_KEY")
	set(&c.Storage.Path, "TASKGRAPH_DB")
	set(&c.Storage.MongoURI, "TASKGRAPH_MONGO_URI")
	set(&c.Cache.RedisAddr, "TASKGRAPH_REDIS_ADDR")
	set(&c.Server.Addr, "TASKGRAPH_ADDR")
	set(&c.Storage.Driver, "TASKGRAPH_STORAGE")
	set(&c.Cache.Backend, "TASKGRAPH_CACHE")
}

func (c *Config) expandPaths() {
	c.Storage.Path = expandHome(c.Storage.Path)
	c.Cache.Dir = expandHome(c.Cache.Dir)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.Path == "" {
			return errors.New("config: storage.path is required for the sqlite driver")
		}
	case DriverMongo:
		if c.Storage.MongoURI == "" || c.Storage.MongoDatabase == "" {
			return errors.New("config: storage.mongo_uri and storage.mongo_database are required for the mongo driver")
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q (want %s or %s)", c.Storage.Driver, DriverSQLite, DriverMongo)
	}

	switch c.Cache.Backend {
	case CacheFile:
		if c.Cache.Dir == "" {
			return errors.New("config: cache.dir is required for the file backend")
		}
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New("config: cache.redis_addr is required for the redis backend")
		}
	case CacheNone:
	default:
		return fmt.Errorf("config: unknown cache backend %q (want %s, %s or %s)", c.Cache.Backend, CacheFile, CacheRedis, CacheNone)
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("config: cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
	if c.Server.Addr == "" {
		return errors.New("config: server.addr is required")
	}
	return nil
}

// DefaultPath returns the config file location, following XDG
// (~/.config/taskgraph/config.toml).
func DefaultPath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), AppName, "config.toml")
}

func dataDir() string {
	return filepath.Join(xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share")), AppName)
}

func cacheDir() string {
	return filepath.Join(xdgDir("XDG_CACHE_HOME", ".cache"), AppName)
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), fallback)
	}
	return filepath.Join(home, fallback)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
