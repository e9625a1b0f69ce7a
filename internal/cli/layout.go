package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netweave/pkg/cache"
	"github.com/matzehuels/netweave/pkg/graph"
	"github.com/matzehuels/netweave/pkg/network"
	"github.com/matzehuels/netweave/pkg/pipeline"
	"github.com/matzehuels/netweave/pkg/rng"
)

// layoutCommand creates the layout command for placing a generated network.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		formats string
		flags   pipelineFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute a 2D layout for a network",
		Long: `Compute a 2D layout for a network.

The layout command takes a graph.json file (produced by 'generate') and places
its nodes with the chosen layout algorithm, then maps the positions into the
pixel frame given by --width, --height and --margin.

The output is a layout.json file with node positions and edges for an external
renderer. --format dot,svg adds Graphviz previews next to it.

Layouts that need randomness (spring, random) draw from a stream seeded with
--seed, so the same file and flags always give the same positions. Results are
cached locally for faster subsequent runs.`,
		Example: `  netweave layout ba-42.graph.json
  netweave layout ws.graph.json -l shell --shells 3 -f json,svg`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGraphFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.Config.Pipeline)
			opts.Formats = parseFormats(formats)
			return c.runLayout(commandContext(cmd), args[0], opts, output, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base (default: <input>.layout)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output formats: json (default), dot, svg (comma-separated)")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	cmd.Flags().Uint64Var(&flags.opts.Seed, "seed", 0, fmt.Sprintf("layout seed (default %d)", pipeline.DefaultSeed))
	cmd.Flags().BoolVar(&flags.opts.Refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	flags.addLayout(cmd)

	return cmd
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	opts.Network = g.Kind()
	opts.Nodes = g.N()
	if opts.Seed == 0 {
		opts.Seed = pipeline.DefaultSeed
	}
	opts.Logger = loggerFromContext(ctx)
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}
	if err := opts.ValidateForRender(); err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	gen, err := loadedGraph(runner.Keyer, g, opts.Seed)
	if err != nil {
		return err
	}

	prog := newProgress(opts.Logger, "layout")
	spinner := newSpinner(ctx, fmt.Sprintf("Computing %s layout...", opts.Layout))
	spinner.Start()

	placed, err := runner.Place(ctx, gen, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done("placed nodes", placed.Hit, "layout", opts.Layout, "nodes", g.N(), "degenerate", placed.Degenerate)

	doc, err := graph.NewLayout(g, placed.Positions, opts.Frame())
	if err != nil {
		return err
	}
	doc.RunID = uuid.NewString()
	doc.Layout = opts.Layout
	doc.Seed = opts.Seed

	artifacts, err := pipeline.Render(ctx, doc, opts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	paths, err := writeArtifacts(outputBase(output, layoutBase(input)), opts.Formats, artifacts)
	if err != nil {
		return err
	}

	printSuccess("Layout complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(g.N(), g.EdgeCount(), placed.Hit)
	if placed.Degenerate {
		printWarning("Layout is collinear; positions were centred in the frame")
	}

	return nil
}

// loadedGraph wraps a network read from disk for the layout stage. The cache
// key is derived from the canonical graph bytes since the generator inputs
// are unknown, and lives under the "file:" scope so it never matches a
// generated graph. The stream starts fresh from seed.
func loadedGraph(keyer cache.Keyer, g *network.Graph, seed uint64) (*pipeline.Generated, error) {
	data, err := graph.MarshalGraph(g)
	if err != nil {
		return nil, err
	}
	key := cache.NewScopedKeyer(keyer, "file:").GraphKey(cache.GraphKeyOpts{
		Network: g.Kind(),
		Nodes:   g.N(),
		Seed:    seed,
		Params:  cache.Hash(data),
	})
	return &pipeline.Generated{Graph: g, Stream: rng.New(seed), Key: key}, nil
}

// layoutBase returns the default artifact base for input:
// "ba-42.graph.json" becomes "ba-42.layout".
func layoutBase(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	base = strings.TrimSuffix(base, ".graph")
	return base + ".layout"
}
