package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PEXELS_API_KEY", "TASKGRAPH_DB", "TASKGRAPH_MONGO_URI", "TASKGRAPH_REDIS_ADDR",
		"TASKGRAPH_ADDR", "TASKGRAPH_STORAGE", "TASKGRAPH_CACHE",
	} {
		t.Setenv(key, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Storage.Driver != DriverSQLite {
		t.Errorf("Storage.Driver = %q, want %q", cfg.Storage.Driver, DriverSQLite)
	}
	if !strings.HasSuffix(cfg.Storage.Path, "taskgraph.db") {
		t.Errorf("Storage.Path = %q, want suffix taskgraph.db", cfg.Storage.Path)
	}
	if cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error: %v", err)
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != Default().Server.Addr {
		t.Errorf("Server.Addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load() should fail for a missing explicit path")
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[server]
addr = ":9000"

[storage]
driver = "mongo"
mongo_uri = "mongodb://db:27017"

[cache]
backend = "redis"
redis_addr = "cache:6379"
ttl = "90m"

[pexels]
api_key = "from-file"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":9000")
	}
	if cfg.Storage.Driver != DriverMongo || cfg.Storage.MongoURI != "mongodb://db:27017" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Storage.MongoDatabase != AppName {
		t.Errorf("Storage.MongoDatabase = %q, want default %q", cfg.Storage.MongoDatabase, AppName)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisAddr != "cache:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL != 90*time.Minute {
		t.Errorf("Cache.TTL = %v, want 90m", cfg.Cache.TTL)
	}
	if cfg.Pexels.APIKey != "from-file" {
		t.Errorf("Pexels.APIKey = %q, want %q", cfg.Pexels.APIKey, "from-file")
	}
}

func TestLoadExampleConfig(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join("..", "..", "examples", "config.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Storage.Driver != DriverSQLite || strings.HasPrefix(cfg.Storage.Path, "~") {
		t.Errorf("Storage = %+v, want sqlite with an expanded path", cfg.Storage)
	}
	if cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
	}
}

func TestLoadUnknownKey(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[storage]\ndriverr = \"sqlite\"\n")

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "storage.driverr") {
		t.Errorf("Load() error = %v, want unknown key storage.driverr", err)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[pexels]\napi_key = \"from-file\"\n")
	t.Setenv("PEXELS_API_KEY", "from-env")
	t.Setenv("TASKGRAPH_DB", "/tmp/env.db")
	t.Setenv("TASKGRAPH_ADDR", ":7000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Pexels.APIKey != "from-env" {
		t.Errorf("Pexels.APIKey = %q, want %q", cfg.Pexels.APIKey, "from-env")
	}
	if cfg.Storage.Path != "/tmp/env.db" {
		t.Errorf("Storage.Path = %q, want %q", cfg.Storage.Path, "/tmp/env.db")
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":7000")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "postgres" }, "unknown storage driver"},
		{"sqlite without path", func(c *Config) { c.Storage.Path = "" }, "storage.path"},
		{"mongo without uri", func(c *Config) { c.Storage.Driver = DriverMongo; c.Storage.MongoURI = "" }, "mongo_uri"},
		{"unknown cache", func(c *Config) { c.Cache.Backend = "memcached" }, "unknown cache backend"},
		{"redis without addr", func(c *Config) { c.Cache.Backend = CacheRedis; c.Cache.RedisAddr = "" }, "redis_addr"},
		{"none needs nothing", func(c *Config) { c.Cache.Backend = CacheNone; c.Cache.Dir = "" }, ""},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }, "ttl"},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultPathXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	want := filepath.Join("/tmp/xdg", AppName, "config.toml")
	if got := DefaultPath(); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct{ in, want string }{
		{"~/data/tasks.db", filepath.Join(home, "data", "tasks.db")},
		{"/abs/tasks.db", "/abs/tasks.db"},
		{"rel/tasks.db", "rel/tasks.db"},
		{"~user/x", "~user/x"},
	}
	for _, tt := range tests {
		if got := expandHome(tt.in); got != tt.want {
			t.Errorf("expandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
