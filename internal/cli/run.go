package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netweave/pkg/pipeline"
)

// runCommand creates the run command executing the whole pipeline.
func (c *CLI) runCommand() *cobra.Command {
	var (
		output  string
		formats string
		flags   pipelineFlags
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate a network and lay it out in one step",
		Long: `Generate a network and lay it out in one step.

run is 'generate' followed by 'layout' without the intermediate graph file.
Layouts continue the random stream the generator left off, so a run is fully
reproducible from the network type, node count, seed and layout flags.`,
		Example: `  netweave run
  netweave run --network random_geometric -n 300 -l spring -f json,svg
  netweave run --network powerlaw_cluster --m 3 --p 0.3 --strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.Config.Pipeline)
			opts.Formats = parseFormats(formats)
			return c.executeScene(commandContext(cmd), opts, output, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base (default: <network>-<seed>.layout)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output formats: json (default), dot, svg (comma-separated)")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	flags.addGenerate(cmd)
	flags.addLayout(cmd)

	return cmd
}

// executeScene runs the pipeline for opts and writes one artifact per format.
func (c *CLI) executeScene(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)

	prog := newProgress(opts.Logger, "run")
	spinner := newSpinner(ctx, fmt.Sprintf("Running %s...", opts.Summary()))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Pipeline failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done("scene complete", result.CacheInfo.GraphHit && result.CacheInfo.LayoutHit,
		"run", result.RunID, "nodes", result.Stats.NodeCount, "edges", result.Stats.EdgeCount)

	fallback := fmt.Sprintf("%s-%d.layout", opts.Network, opts.Seed)
	paths, err := writeArtifacts(outputBase(output, fallback), opts.Formats, result.Artifacts)
	if err != nil {
		return err
	}

	printSuccess("Scene complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.GraphHit && result.CacheInfo.LayoutHit)
	for _, stage := range spinner.Stages() {
		printDetail("%s", stage)
	}
	printParams(result.Params)
	printDetail("run %s", result.RunID)
	if result.Degenerate {
		printWarning("Layout is collinear; positions were centred in the frame")
	}

	return nil
}
