// Package cli implements the cellgraph command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cellgraph/pkg/buildinfo"
	"github.com/matzehuels/cellgraph/pkg/cache"
	"github.com/matzehuels/cellgraph/pkg/errors"
	pkgio "github.com/matzehuels/cellgraph/pkg/io"
	"github.com/matzehuels/cellgraph/pkg/spreadsheet"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "cellgraph"

	// redisPrefix namespaces cellgraph keys on a shared Redis server.
	redisPrefix = appName + ":"
)

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
	Config Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Cellgraph is a spreadsheet engine with a dependency graph",
		Long:         `Cellgraph evaluates spreadsheets of numbers, text and formulas, keeps a dependency graph between cells, and recalculates exactly the affected cells on every change. Sheets are stored as JSON files.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			c.registerHooks()
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/cellgraph/config.toml)")

	// Register all subcommands
	root.AddCommand(c.evalCommand())
	root.AddCommand(c.setCommand())
	root.AddCommand(c.getCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Sheets
// =============================================================================

// openSheet loads the sheet stored at path. With create set, a missing file
// yields an empty sheet instead of an error.
func (c *CLI) openSheet(path string, create bool) (*spreadsheet.Spreadsheet, error) {
	if err := errors.ValidateSheetPath(path); err != nil {
		return nil, err
	}
	opts, err := c.Config.SheetOptions()
	if err != nil {
		return nil, err
	}
	if create {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			c.Logger.Debug("creating sheet", "path", path, "version", opts.Version)
			return spreadsheet.New(opts), nil
		}
	}

	start := time.Now()
	s, err := pkgio.ImportJSON(path, opts)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded sheet", "path", path, "cells", len(s.NonemptyCells()), "elapsed", time.Since(start).Round(time.Millisecond))
	return s, nil
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache returns the configured cache backend, wrapped to emit cache hooks.
// Redis is used when the configuration names a server; otherwise entries are
// stored below the cache directory.
func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if url := c.Config.Cache.RedisURL; url != "" {
		rc, err := cache.NewRedisCache(url, redisPrefix)
		if err != nil {
			return nil, err
		}
		return cache.Instrumented(rc, "render"), nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return cache.Instrumented(fc, "render"), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, falling back to the XDG
// standard (~/.cache/cellgraph/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// configDir returns the XDG configuration directory (~/.config/cellgraph/).
func configDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}
