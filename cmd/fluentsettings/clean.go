package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kirrishima/FluentSettings/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [dir]",
	Short: "Remove generated files",
	Long: `Remove every file in dir whose first line is the fluentsettings header.
With --cache the on-disk generator cache is dropped as well.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().Bool("cache", false, "also drop the on-disk cache")
}

func runClean(cmd *cobra.Command, args []string) error {
	g, err := readGlobals(cmd)
	if err != nil {
		return err
	}
	dir := targetOf(args)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to stat %q: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", dir)
	}

	removed, err := driver.CleanGenerated(dir)
	if err != nil {
		return err
	}
	if !g.quiet {
		for _, path := range removed {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", path)
		}
		if len(removed) == 0 {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no generated files found")
		}
	}

	dropCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}
	if !dropCache {
		return nil
	}
	cache, err := driver.OpenDiskCache(cacheApp)
	if err != nil {
		return err
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to drop cache %q: %w", cache.Dir(), err)
	}
	if !g.quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed cache %s\n", cache.Dir())
	}
	return nil
}
