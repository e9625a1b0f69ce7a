// Package config loads netweave's TOML configuration file.
//
// The file is looked up at the path given with --config, then at
// $XDG_CONFIG_HOME/netweave/config.toml (~/.config/netweave/config.toml).
// A missing default file is not an error; every value has a default.
//
//	[pipeline]
//	network = "watts_strogatz"
//	iterations = 80
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
//	request_timeout = "30s"
//
// Pipeline values are defaults only: flags and request bodies override them.
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/netweave/pkg/cache"
	"github.com/matzehuels/netweave/pkg/errors"
	"github.com/matzehuels/netweave/pkg/pipeline"
)

// AppName names the config and cache directories.
const AppName = "netweave"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the full configuration file.
type Config struct {
	Pipeline PipelineConfig `toml:"pipeline"`
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
}

// PipelineConfig holds default pipeline options.
type PipelineConfig struct {
	Network    string  `toml:"network"`
	Layout     string  `toml:"layout"`
	Nodes      int     `toml:"nodes"`
	Seed       uint64  `toml:"seed"`
	Iterations int     `toml:"iterations"`
	Workers    int     `toml:"workers"`
	Width      float64 `toml:"width"`
	Height     float64 `toml:"height"`
	Margin     float64 `toml:"margin"`
	Strict     bool    `toml:"strict"`
}

// CacheConfig selects and configures the stage cache.
type CacheConfig struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	Prefix   string   `toml:"prefix"`
	TTL      Duration `toml:"ttl"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	ReadTimeout    Duration `toml:"read_timeout"`
	WriteTimeout   Duration `toml:"write_timeout"`
	RequestTimeout Duration `toml:"request_timeout"`

	// MaxNodes and MaxIterations cap request options, below the pipeline's
	// own limits. Zero leaves only the pipeline limits.
	MaxNodes      int `toml:"max_nodes"`
	MaxIterations int `toml:"max_iterations"`
}

// Duration is a time.Duration written as a string ("30s", "24h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Cache: CacheConfig{
			Backend: BackendFile,
			Prefix:  AppName + ":",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			ReadTimeout:    Duration{10 * time.Second},
			WriteTimeout:   Duration{60 * time.Second},
			RequestTimeout: Duration{30 * time.Second},
			MaxNodes:       2000,
			MaxIterations:  500,
		},
	}
}

// Load reads the configuration at path, or the default location when path
// is empty. Values absent from the file keep their defaults. Unknown keys
// are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return Config{}, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return cfg, nil
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.New(errors.ErrCodeInvalidFormat,
			"unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks backend names and that the pipeline defaults form valid
// options.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.UnsupportedKind("cache backend", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisURL == "" {
		return errors.InvalidParameter("cache: redis backend needs redis_url")
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.InvalidParameter("cache: ttl=%s must not be negative", c.Cache.TTL)
	}
	if c.Server.MaxNodes < 0 || c.Server.MaxIterations < 0 {
		return errors.InvalidParameter("server: max_nodes and max_iterations must not be negative")
	}

	opts := pipeline.Options{}
	c.Pipeline.Apply(&opts)
	return opts.ValidateAndSetDefaults()
}

// Apply copies configured values onto opts wherever opts is still zero.
func (p PipelineConfig) Apply(opts *pipeline.Options) {
	if opts.Network == "" {
		opts.Network = p.Network
	}
	if opts.Layout == "" {
		opts.Layout = p.Layout
	}
	if opts.Nodes == 0 {
		opts.Nodes = p.Nodes
	}
	if opts.Seed == 0 {
		opts.Seed = p.Seed
	}
	if opts.Iterations == 0 {
		opts.Iterations = p.Iterations
	}
	if opts.Workers == 0 {
		opts.Workers = p.Workers
	}
	if opts.Width == 0 {
		opts.Width = p.Width
	}
	if opts.Height == 0 {
		opts.Height = p.Height
	}
	if opts.Margin == 0 {
		opts.Margin = p.Margin
	}
	opts.Strict = opts.Strict || p.Strict
}

// OpenCache opens the configured cache backend. An empty Dir for the file
// backend means [CacheDir].
func (c CacheConfig) OpenCache() (cache.Cache, error) {
	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(c.RedisURL, c.Prefix)
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		dir := c.Dir
		if dir == "" {
			d, err := CacheDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	}
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns $XDG_CONFIG_HOME/netweave/config.toml, falling back to
// ~/.config/netweave/config.toml.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/netweave/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
