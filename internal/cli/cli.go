// Package cli implements the dottex command-line interface.
//
// This package provides commands for sanitizing labels for dot2tex,
// building graph descriptions, laying them out with Graphviz and checking
// the Graphviz installation. The CLI is built using cobra and logs via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - check: Verify that the configured layout engine works
//   - quote: Sanitize text as a LaTeX label, text label or node key
//   - dot: Turn an edge list into a DOT graph with sanitized labels
//   - positions: Lay out a DOT graph and print node positions as JSON
//   - serve: Run the HTTP service
//   - cache: Manage the layout cache
//   - config: Print the effective configuration
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// is attached to the command context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dottex/internal/config"
	"github.com/matzehuels/dottex/pkg/buildinfo"
	"github.com/matzehuels/dottex/pkg/cache"
	errs "github.com/matzehuels/dottex/pkg/errors"
	"github.com/matzehuels/dottex/pkg/layout"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "dottex"

	// redisPrefix namespaces dottex keys in a shared Redis.
	redisPrefix = "dottex:"
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

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "dottex prepares graphs and labels for dot2tex and Graphviz",
		Long:          `dottex sanitizes labels of mathematical objects for dot2tex, builds DOT graphs that carry them, and lays those graphs out with Graphviz.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/dottex/config.toml)")

	// Register all subcommands
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.quoteCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.positionsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the configuration once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "backend", cfg.Layout.Backend, "engine", cfg.Layout.Engine, "cache", cfg.Cache.Backend)
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Layout Flags
// =============================================================================

// layoutFlags are command-line overrides of the [layout] config section.
type layoutFlags struct {
	backend string
	engine  string
	noCache bool
}

func (f *layoutFlags) register(cmd *cobra.Command, withCache bool) {
	cmd.Flags().StringVar(&f.backend, "backend", "", "layout backend: graphviz (built-in) or exec (installed dot)")
	cmd.Flags().StringVarP(&f.engine, "engine", "K", "", "Graphviz layout engine (dot, neato, fdp, ...)")
	if withCache {
		cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the layout cache")
	}
}

// apply returns a copy of lc with the flags applied.
func (f *layoutFlags) apply(lc config.LayoutConfig) (config.LayoutConfig, error) {
	if f.backend != "" {
		lc.Backend = f.backend
	}
	if f.engine != "" {
		if err := errs.ValidateEngine(f.engine); err != nil {
			return lc, err
		}
		lc.Engine = f.engine
	}
	return lc, nil
}

// =============================================================================
// Positioner Factory
// =============================================================================

// newPositioner builds the configured positioner. Unless noCache is set it
// is wrapped with the configured cache; the returned close function
// releases that cache.
func (c *CLI) newPositioner(ctx context.Context, f layoutFlags, noCache bool) (layout.Positioner, func() error, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, nil, err
	}
	lc, err := f.apply(cfg.Layout)
	if err != nil {
		return nil, nil, err
	}

	p, err := newBasePositioner(lc)
	if err != nil {
		return nil, nil, err
	}

	nop := func() error { return nil }
	if noCache || f.noCache || cfg.Cache.Backend == config.CacheNone {
		return p, nop, nil
	}

	store, err := newCache(ctx, cfg.Cache)
	if err != nil {
		c.Logger.Warn("layout cache unavailable, continuing without", "backend", cfg.Cache.Backend, "err", err)
		return p, nop, nil
	}
	return layout.NewCached(p, store, cfg.Cache.TTL, c.Logger), store.Close, nil
}

func newBasePositioner(lc config.LayoutConfig) (layout.Positioner, error) {
	switch lc.Backend {
	case config.BackendGraphviz:
		return layout.NewGraphviz(lc.Engine)
	case config.BackendExec:
		return layout.NewExec(lc.Binary, lc.Engine, lc.Timeout)
	default:
		return nil, errs.New(errs.ErrCodeInvalidInput, "unknown layout backend %q", lc.Backend)
	}
}

func newCache(ctx context.Context, cc config.CacheConfig) (cache.Cache, error) {
	switch cc.Backend {
	case config.CacheRedis:
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return cache.DialRedis(dialCtx, cc.RedisAddr, redisPrefix)
	case config.CacheFile:
		return cache.NewFileCache(cc.Dir)
	default:
		return cache.NewNullCache(), nil
	}
}

// =============================================================================
// Input Helpers
// =============================================================================

// readInput reads the named file, or stdin when name is empty or "-".
func readInput(cmd *cobra.Command, name string) (string, error) {
	var (
		data []byte
		err  error
	)
	if name == "" || name == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}
