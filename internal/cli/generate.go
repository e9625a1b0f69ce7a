package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netweave/pkg/graph"
	"github.com/matzehuels/netweave/pkg/pipeline"
)

// generateCommand creates the generate command for building random networks.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		output string
		flags  pipelineFlags
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random network topology",
		Long: `Generate a random network topology and write it as graph JSON.

The network type, node count and seed fully determine the result: running the
command twice with the same flags produces the same file. Generator parameters
left unset (--m, --k, --p, --radius) are derived from the node count and the
seed the same way every time.

The output can be laid out with 'netweave layout' or summarized with
'netweave inspect'.`,
		Example: `  netweave generate --network watts_strogatz -n 200 --seed 7
  netweave generate --network erdos_renyi --p 0.05 -o er.graph.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.Config.Pipeline)
			return c.runGenerate(commandContext(cmd), opts, output, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <network>-<seed>.graph.json)")
	flags.addGenerate(cmd)

	return cmd
}

// runGenerate generates the network and writes it to disk.
func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	if err := opts.ValidateForGenerate(); err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)
	prog := newProgress(opts.Logger, "generate")

	spinner := newSpinner(ctx, fmt.Sprintf("Generating %s...", opts.Summary()))
	spinner.Start()

	gen, err := runner.Generate(ctx, opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return fmt.Errorf("generate: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done("generated network", gen.Hit, "network", opts.Network, "nodes", gen.Graph.N(), "edges", gen.Graph.EdgeCount())

	outputPath := output
	if outputPath == "" {
		outputPath = fmt.Sprintf("%s-%d.graph.json", opts.Network, opts.Seed)
	}
	if err := graph.WriteGraphFile(gen.Graph, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Network generated")
	printFile(outputPath)
	printStats(gen.Graph.N(), gen.Graph.EdgeCount(), gen.Hit)
	printParams(gen.Params)
	printNextStep("Lay out", fmt.Sprintf("%s layout --seed %d %s", appName, opts.Seed, outputPath))

	return nil
}
