package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netprune/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached simplification results and images",
	}

	cmd.AddCommand(c.cacheInfoCommand())
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// openCache opens the CLI's file cache.
func openCache() (*cache.FileCache, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, fmt.Errorf("get cache dir: %w", err)
	}
	return cache.NewFileCache(dir)
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cached entries per kind",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := openCache()
			if err != nil {
				return err
			}
			usage, err := fc.Usage()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), usageTable(usage))
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// usageTable renders cache usage with one row per kind, simplify first.
func usageTable(usage map[string]cache.Usage) string {
	kinds := []string{cache.KindSimplify, cache.KindRender}
	for k := range usage {
		if !slices.Contains(kinds, k) {
			kinds = append(kinds, k)
		}
	}
	slices.Sort(kinds[2:])

	t := newTable("Kind", "Entries", "Size")
	for _, k := range kinds {
		u := usage[k]
		name := k
		if name == "" {
			name = "other"
		}
		t.Row(name, fmt.Sprint(u.Entries), formatBytes(u.Bytes))
	}
	return t.Render()
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var expired bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached results and images",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := openCache()
			if err != nil {
				return err
			}
			remove, what := fc.Clear, "cached"
			if expired {
				remove, what = fc.Prune, "expired"
			}
			count, err := remove()
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo("No %s entries", what)
				return nil
			}
			printSuccess("Removed %d %s entries", count, what)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
	cmd.Flags().BoolVar(&expired, "expired", false, "only remove expired or unreadable entries")
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
