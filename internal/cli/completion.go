package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netweave/pkg/generate"
	"github.com/matzehuels/netweave/pkg/layout"
	"github.com/matzehuels/netweave/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for netweave.

To load completions:

Bash:
  $ source <(netweave completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ netweave completion bash > /etc/bash_completion.d/netweave
  # macOS:
  $ netweave completion bash > $(brew --prefix)/etc/bash_completion.d/netweave

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ netweave completion zsh > "${fpath[1]}/_netweave"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ netweave completion fish | source

  # To load completions for each session, execute once:
  $ netweave completion fish > ~/.config/fish/completions/netweave.fish

PowerShell:
  PS> netweave completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> netweave completion powershell > netweave.ps1
  # and source this file from your PowerShell profile.

Generator and layout flags complete to the supported kinds, --format to the
output formats, and file arguments to graph.json files.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// networkHelp and layoutHelp describe each kind in completion listings.
var (
	networkHelp = map[generate.Kind]string{
		generate.KindBarabasiAlbert:  "preferential attachment",
		generate.KindWattsStrogatz:   "small-world ring lattice",
		generate.KindRandomGeometric: "points linked within a radius",
		generate.KindErdosRenyi:      "uniform random edges",
		generate.KindPowerlawCluster: "preferential attachment with triangles",
	}
	layoutHelp = map[layout.Kind]string{
		layout.KindSpring:   "force-directed",
		layout.KindCircular: "unit circle in id order",
		layout.KindShell:    "concentric rings by degree",
		layout.KindRandom:   "uniform in the unit square",
	}
)

// completeKinds completes a flag to one of kinds, tab-separating the
// description the shells display next to each value.
func completeKinds[K ~string](kinds []K, help map[K]string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var out []string
		for _, k := range kinds {
			if strings.HasPrefix(string(k), toComplete) {
				out = append(out, string(k)+"\t"+help[k])
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeFormats completes the comma-separated --format list. Formats
// already listed are not offered again.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix, partial := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix, partial = toComplete[:i+1], toComplete[i+1:]
	}
	used := map[string]bool{}
	for _, f := range strings.Split(prefix, ",") {
		used[f] = true
	}

	var out []string
	for _, f := range []string{pipeline.FormatJSON, pipeline.FormatDOT, pipeline.FormatSVG} {
		if !used[f] && strings.HasPrefix(f, partial) {
			out = append(out, prefix+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// completeGraphFiles completes arguments to JSON files, where generate
// writes its graphs.
func completeGraphFiles(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}
