// Package config loads overlay settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/overlay/config.toml, falling back to
// ~/.config/overlay/config.toml. A missing file is not an error: every field
// has a default, and command-line flags override file values.
//
//	[engine]
//	gap = 5
//	max_attempts = 2
//	wrap_width = 250
//	reveal_delay = "20ms"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	namespace = "staging"
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/overlay/pkg/errors"
)

const appName = "overlay"

// Cache backends.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config is the root of the configuration file.
type Config struct {
	Engine Engine `toml:"engine"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
}

// Cache selects and configures the result cache.
type Cache struct {
	Backend         string   `toml:"backend"`
	Dir             string   `toml:"dir,omitempty"`
	RedisAddr       string   `toml:"redis_addr,omitempty"`
	RedisPassword   string   `toml:"redis_password,omitempty"`
	RedisDB         int      `toml:"redis_db,omitempty"`
	MongoURI        string   `toml:"mongo_uri,omitempty"`
	MongoDatabase   string   `toml:"mongo_database,omitempty"`
	MongoCollection string   `toml:"mongo_collection,omitempty"`
	TTL             Duration `toml:"ttl"`

	// Namespace prefixes every key so deployments can share one backend.
	Namespace string `toml:"namespace,omitempty"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Engine: DefaultEngine(),
		Cache: Cache{
			Backend:         BackendFile,
			MongoDatabase:   appName,
			MongoCollection: "cache",
			TTL:             Duration(24 * time.Hour),
		},
		Server: Server{Addr: ":8080"},
	}
}

// Path returns the configuration file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads path on top of the defaults. A missing file yields Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInternal, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field ranges and the cache backend name.
func (c Config) Validate() error {
	if err := c.Engine.Validate(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case BackendNone, BackendFile, "":
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache.redis_addr is required for the redis backend")
		}
	case BackendMongo:
		if c.Cache.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache.mongo_uri is required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Duration is a time.Duration written as a string like "20ms" in TOML.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }
