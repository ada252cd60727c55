// Package cli implements the sketchgraph command-line interface.
//
// Commands read Excalidraw-style scene files, derive a graph from their
// shapes and bound arrows, and write the results as node-link JSON, DOT,
// SVG, or a reconstructed scene. The CLI is built on cobra and logs through
// charmbracelet/log; --verbose switches to debug level and surfaces
// pipeline and cache events.
//
// # Commands
//
//   - convert: build a graph from a scene and write artifacts, optionally
//     rebuilding whenever the file changes (--watch)
//   - roundtrip: reconstruct a scene and optionally verify it is lossless
//   - inspect: summarize a scene and browse its edges interactively
//   - cache: clear or locate the artifact cache
//   - completion: generate shell completion scripts
//
// Defaults come from the optional config file (see package config); explicit
// flags win over it.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sketchgraph/pkg/cache"
	"github.com/matzehuels/sketchgraph/pkg/config"
	"github.com/matzehuels/sketchgraph/pkg/pipeline"
)

// appName is the application name used for display.
const appName = cache.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if ns := c.config.Cache.Namespace; ns != "" {
		keyer = cache.NewScopedKeyer(keyer, ns)
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// newCache picks the cache backend: none when disabled, Redis when a URL is
// configured, otherwise a file cache in the configured or default directory.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.config.Cache
	if noCache || cfg.Disabled {
		return cache.NewNullCache(), nil
	}
	if cfg.RedisURL != "" {
		return cache.DialRedis(ctx, cfg.RedisURL)
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the configured cache directory, or the XDG default
// (~/.cache/sketchgraph/).
func (c *CLI) cacheDir() (string, error) {
	if c.config.Cache.Dir != "" {
		return c.config.Cache.Dir, nil
	}
	return cache.DefaultDir()
}
