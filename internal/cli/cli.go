// Package cli implements the taskgraph command-line interface.
//
// Commands operate on the same store as the HTTP API and go through the
// same [tasks.Service], so validation and error codes are identical.
//
// # Commands
//
//   - task add|list|show|deps|rm: manage tasks and their dependencies
//   - analyze: earliest start dates and the critical path
//   - graph: export the dependency graph as DOT or SVG
//   - check: look for cycles and dangling edges (--fix repairs cycles)
//   - serve: run the HTTP API
//   - cache clear|path: manage the image lookup cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
//
// [tasks.Service]: github.com/matzehuels/taskgraph/pkg/tasks.Service
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/taskgraph/internal/config"
	"github.com/matzehuels/taskgraph/pkg/buildinfo"
	"github.com/matzehuels/taskgraph/pkg/cache"
	"github.com/matzehuels/taskgraph/pkg/integrations/pexels"
	"github.com/matzehuels/taskgraph/pkg/observability"
	"github.com/matzehuels/taskgraph/pkg/storage"
	"github.com/matzehuels/taskgraph/pkg/storage/mongo"
	"github.com/matzehuels/taskgraph/pkg/storage/sqlite"
	"github.com/matzehuels/taskgraph/pkg/tasks"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = config.AppName

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

	// ConfigPath overrides the config file location (--config).
	ConfigPath string

	// Config is loaded lazily by config(); tests may set it directly.
	Config *config.Config

	// Verbose enables debug logging (--verbose).
	Verbose bool

	out io.Writer
}

// New creates a new CLI instance. Logs go to w, command output to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "taskgraph tracks tasks, their dependencies and the critical path",
		Long:         `taskgraph is a task tracker that keeps the dependency graph acyclic and computes earliest start dates and the critical path over it.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.Verbose {
				c.SetLogLevel(LogDebug)
			}
			observability.SetTaskHooks(logHooks{c.Logger})
			observability.SetCacheHooks(logHooks{c.Logger})
			observability.SetHTTPHooks(logHooks{c.Logger})
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.out)
	root.PersistentFlags().BoolVarP(&c.Verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(c.taskCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Service Factory
// =============================================================================

func (c *CLI) config() (*config.Config, error) {
	if c.Config != nil {
		return c.Config, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	c.Config = cfg
	return cfg, nil
}

// openService opens the configured store and image cache and wires them
// into a service. The returned close function releases both.
func (c *CLI) openService(ctx context.Context) (*tasks.Service, func() error, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, nil, err
	}

	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, err
	}

	logger := loggerFromContext(ctx)
	imgCache, err := openCache(ctx, cfg.Cache, logger)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	images := pexels.NewClient(imgCache, cfg.Pexels.APIKey, cfg.Cache.TTL).WithBaseURL(cfg.Pexels.BaseURL)
	if !images.Enabled() {
		logger.Debug("PEXELS_API_KEY not set, image lookup disabled")
	}

	svc := tasks.NewService(store, images, logger)
	closeFn := func() error {
		return errors.Join(imgCache.Close(), store.Close())
	}
	return svc, closeFn, nil
}

func openStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		s, err := mongo.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("open mongo store: %w", err)
		}
		return s, nil
	default:
		s, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, nil
	}
}

// openCache opens the configured cache backend. An unreachable Redis or an
// unusable directory degrades to no caching rather than failing the command.
func openCache(ctx context.Context, cfg config.CacheConfig, logger *log.Logger) (cache.Cache, error) {
	switch cfg.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr, appName+":")
		if err != nil {
			logger.Warn("redis cache unavailable, caching disabled", "addr", cfg.RedisAddr, "err", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	default:
		fc, err := cache.NewFileCache(cfg.Dir)
		if err != nil {
			logger.Warn("file cache unavailable, caching disabled", "dir", cfg.Dir, "err", err)
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
}
