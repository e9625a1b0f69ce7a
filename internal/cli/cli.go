package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netweave/pkg/buildinfo"
	"github.com/matzehuels/netweave/pkg/cache"
	"github.com/matzehuels/netweave/pkg/config"
	"github.com/matzehuels/netweave/pkg/errors"
	"github.com/matzehuels/netweave/pkg/generate"
	"github.com/matzehuels/netweave/pkg/layout"
	"github.com/matzehuels/netweave/pkg/pipeline"
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
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "netweave generates random networks and lays them out for rendering",
		Long: `netweave generates random network topologies (scale-free, small-world,
geometric, random and clustered power-law graphs), places their nodes with a
2D layout algorithm and normalizes the positions into a pixel frame.

The result is a JSON layout document (node positions plus edges) for an
external renderer, with optional Graphviz DOT and SVG previews.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(commandContext(cmd), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/netweave/config.toml)")
	_ = root.MarkPersistentFlagFilename("config", "toml")

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.sampleCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cfg := c.Config.Cache
	if noCache {
		cfg.Backend = config.BackendNone
	}
	store, err := cfg.OpenCache()
	if err == nil {
		err = ping(store)
	}
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "backend", cfg.Backend, "error", err)
		if store != nil {
			_ = store.Close()
		}
		store = cache.NewNullCache()
	}
	runner := pipeline.NewRunner(store, nil, c.Logger)
	runner.TTL = cfg.TTL.Duration
	return runner, nil
}

// pingTimeout bounds the reachability check of remote caches.
const pingTimeout = 2 * time.Second

// ping checks that a remote cache answers. Local caches always pass.
func ping(store cache.Cache) error {
	p, ok := store.(interface{ Ping(context.Context) error })
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return p.Ping(ctx)
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineFlags binds the flags shared by generate, layout and run.
type pipelineFlags struct {
	opts    pipeline.Options
	m, k    int
	p, r    float64
	noCache bool
	embed   bool
}

func (f *pipelineFlags) addGenerate(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.opts.Network, "network", "", "generator: "+kindList(generate.Kinds()))
	fs.IntVarP(&f.opts.Nodes, "nodes", "n", 0, fmt.Sprintf("number of nodes (default %d)", pipeline.DefaultNodes))
	fs.Uint64Var(&f.opts.Seed, "seed", 0, fmt.Sprintf("random seed (default %d)", pipeline.DefaultSeed))
	fs.IntVar(&f.m, "m", 0, "edges per new node (barabasi_albert, powerlaw_cluster)")
	fs.IntVar(&f.k, "k", 0, "ring neighbours, even (watts_strogatz)")
	fs.Float64Var(&f.p, "p", 0, "rewiring, edge or triangle probability")
	fs.Float64Var(&f.r, "radius", 0, "connection radius (random_geometric)")
	fs.BoolVar(&f.opts.Refresh, "refresh", false, "ignore cached results")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	_ = cmd.RegisterFlagCompletionFunc("network", completeKinds(generate.Kinds(), networkHelp))
}

func (f *pipelineFlags) addLayout(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.opts.Layout, "layout", "l", "", "layout: "+kindList(layout.Kinds())+" (default spring)")
	fs.IntVar(&f.opts.Iterations, "iterations", 0, "spring iterations (default 50)")
	fs.Float64Var(&f.opts.K, "spacing", 0, "spring optimal distance (default 1/sqrt(n))")
	fs.Float64Var(&f.opts.Temperature, "temperature", 0, "spring initial temperature")
	fs.IntVar(&f.opts.Shells, "shells", 0, "number of shells (default 1)")
	fs.IntVar(&f.opts.Workers, "workers", 0, "spring worker goroutines (default GOMAXPROCS)")
	fs.BoolVar(&f.embed, "embedding", true, "use the generator's embedding when present")
	fs.Float64Var(&f.opts.Width, "width", 0, "frame width in pixels (default 1200)")
	fs.Float64Var(&f.opts.Height, "height", 0, "frame height in pixels (default 1200)")
	fs.Float64Var(&f.opts.Margin, "margin", 0, "frame margin in pixels (default 100)")
	fs.BoolVar(&f.opts.Strict, "strict", false, "fail on collinear layouts instead of centring them")
	fs.BoolVar(&f.opts.Labels, "labels", false, "draw node ids in DOT/SVG previews")
	_ = cmd.RegisterFlagCompletionFunc("layout", completeKinds(layout.Kinds(), layoutHelp))
}

// options returns the pipeline options with explicit generator parameters
// and configured defaults applied.
func (f *pipelineFlags) options(cmd *cobra.Command, cfg config.PipelineConfig) pipeline.Options {
	opts := f.opts
	fs := cmd.Flags()
	if fs.Changed("m") {
		opts.Params.M = f.m
	}
	if fs.Changed("k") {
		opts.Params.K = f.k
	}
	if fs.Changed("p") {
		opts.Params.P = generate.Float(f.p)
	}
	if fs.Changed("radius") {
		opts.Params.Radius = generate.Float(f.r)
	}
	if fs.Lookup("embedding") != nil {
		embed := f.embed
		opts.PreferEmbedding = &embed
	}
	cfg.Apply(&opts)
	return opts
}

func kindList[K ~string](kinds []K) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatJSON}
	}
	return strings.Split(s, ",")
}

// outputBase strips a known extension so that artifacts can be written as
// <base>.<format>.
func outputBase(output, fallback string) string {
	if output == "" {
		return fallback
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if pipeline.ValidFormats[ext] {
		return strings.TrimSuffix(output, "."+ext)
	}
	return output
}

// writeArtifacts writes every artifact to <base>.<format> in format order
// and returns the paths written.
func writeArtifacts(base string, formats []string, artifacts map[string][]byte) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + format
		if err := errors.ValidatePath(path); err != nil {
			return paths, err
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// commandContext returns cmd's context, falling back to Background for
// commands executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
