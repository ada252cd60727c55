// Package config loads the optional sketchgraph configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/sketchgraph/config.toml
// unless a path is given explicitly. Every key is optional:
//
//	[graph]
//	directed = true
//	allow_parallel_edges = false
//	include_deleted = false
//	node_fields = ["id", "type", "text", "x", "y", "width", "height"]
//	edge_fields = ["id", "strokeColor"]
//
//	[output]
//	formats = ["json", "svg"]
//	detailed = true
//
//	[cache]
//	disabled = false
//	dir = "/var/cache/sketchgraph"
//	redis_url = "redis://localhost:6379/0"
//	namespace = "docs"
//	ttl = "72h"
//
// Unknown keys are rejected so that typos surface instead of being ignored.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sketchgraph/pkg/cache"
	"github.com/matzehuels/sketchgraph/pkg/errors"
	"github.com/matzehuels/sketchgraph/pkg/graph"
)

// FileName is the config file's base name.
const FileName = "config.toml"

// Config is the decoded configuration file.
type Config struct {
	Graph  GraphConfig  `toml:"graph"`
	Output OutputConfig `toml:"output"`
	Cache  CacheConfig  `toml:"cache"`
}

// GraphConfig mirrors [graph.Options]. Pointer fields distinguish "unset"
// from an explicit false.
type GraphConfig struct {
	Directed           *bool    `toml:"directed"`
	AllowParallelEdges *bool    `toml:"allow_parallel_edges"`
	IncludeDeleted     bool     `toml:"include_deleted"`
	NodeFields         []string `toml:"node_fields"`
	EdgeFields         []string `toml:"edge_fields"`
}

// OutputConfig selects default artifacts.
type OutputConfig struct {
	Formats  []string `toml:"formats"`
	Detailed bool     `toml:"detailed"`
}

// CacheConfig selects and tunes the artifact cache.
type CacheConfig struct {
	Disabled  bool   `toml:"disabled"`
	Dir       string `toml:"dir"`
	RedisURL  string `toml:"redis_url"`
	Namespace string `toml:"namespace"`
	TTL       string `toml:"ttl"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{}
}

// DefaultPath returns $XDG_CONFIG_HOME/sketchgraph/config.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, cache.AppName, FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", cache.AppName, FileName), nil
}

// Load reads the config at path. An empty path loads the default location
// and tolerates its absence; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if explicit {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "invalid config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidOption, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field names, the TTL and the cache backend choice.
func (c *Config) Validate() error {
	if err := c.GraphOptions().Validate(); err != nil {
		return err
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	if c.Cache.Dir != "" && c.Cache.RedisURL != "" {
		return errors.New(errors.ErrCodeInvalidOption, "cache.dir and cache.redis_url are mutually exclusive")
	}
	return nil
}

// GraphOptions converts the [graph] section into builder options on top of
// [graph.DefaultOptions].
func (c *Config) GraphOptions() graph.Options {
	opts := graph.DefaultOptions()
	if c.Graph.Directed != nil {
		opts.Undirected = !*c.Graph.Directed
	}
	if c.Graph.AllowParallelEdges != nil {
		opts.CoalesceParallelEdges = !*c.Graph.AllowParallelEdges
	}
	opts.IncludeDeleted = c.Graph.IncludeDeleted
	if c.Graph.NodeFields != nil {
		opts.NodeAttributeFields = slices.Clone(c.Graph.NodeFields)
	}
	if c.Graph.EdgeFields != nil {
		opts.EdgeAttributeFields = slices.Clone(c.Graph.EdgeFields)
	}
	return opts
}

// CacheTTL parses cache.ttl, returning [cache.DefaultTTL] when unset.
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return cache.DefaultTTL, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidOption, err, "invalid cache.ttl %q", c.Cache.TTL)
	}
	if d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidOption, "cache.ttl must not be negative")
	}
	return d, nil
}
