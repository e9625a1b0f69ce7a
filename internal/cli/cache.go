package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netweave/pkg/cache"
	"github.com/matzehuels/netweave/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local result cache",
		Long: `Manage the local result cache.

Generated graphs and computed layouts are cached on disk so that repeated runs
with the same inputs return immediately. These subcommands act on the file
cache directory; entries in a Redis backend expire through their TTL.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheInfoCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached graphs and layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			st, err := fc.Stats()
			if err != nil {
				return fmt.Errorf("scan cache: %w", err)
			}
			if err := fc.Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %d cached entries", st.Entries+st.Expired)
			printDetail("Directory: %s", dir)
			c.warnNonFileBackend()
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show what the cache holds",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			st, err := fc.Stats()
			if err != nil {
				return fmt.Errorf("scan cache: %w", err)
			}

			printTable(cmd.OutOrStdout(), []string{"cache", dir}, [][]string{
				{"backend", c.Config.Cache.Backend},
				{"graphs", strconv.Itoa(st.Graphs)},
				{"layouts", strconv.Itoa(st.Layouts)},
				{"expired", strconv.Itoa(st.Expired)},
				{"size", formatBytes(st.Bytes)},
			})
			c.warnNonFileBackend()
			return nil
		},
	}
}

// cacheDir returns the configured file cache directory.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return config.CacheDir()
}

func (c *CLI) warnNonFileBackend() {
	if b := c.Config.Cache.Backend; b != config.BackendFile {
		printWarning("Configured backend is %q; the file cache is not in use", b)
	}
}

// formatBytes renders n with a binary unit, e.g. "1.5 KiB".
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
