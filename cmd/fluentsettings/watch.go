package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kirrishima/FluentSettings/internal/driver"
	"github.com/kirrishima/FluentSettings/internal/host/manifest"
	"github.com/kirrishima/FluentSettings/internal/logging"
	"github.com/kirrishima/FluentSettings/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir|manifest]",
	Short: "Regenerate whenever inputs change",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	addPassFlags(watchCmd)
	watchCmd.Flags().StringP("output", "o", "", "output directory (default: input directory)")
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period before regenerating")
}

// watchMatch accepts declaration sources and manifests but never the files
// the generator writes itself.
func watchMatch(suffix string) func(path string) bool {
	return func(path string) bool {
		base := filepath.Base(path)
		if strings.HasSuffix(base, ".gen.go") || (suffix != "" && strings.HasSuffix(base, suffix)) {
			return false
		}
		return strings.HasSuffix(base, ".go") || manifest.IsManifest(path)
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	g, err := readGlobals(cmd)
	if err != nil {
		return err
	}
	target := targetOf(args)
	proj, err := loadProject(g, target)
	if err != nil {
		return err
	}
	s, err := resolveSettings(cmd, g, proj)
	if err != nil {
		return err
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}
	proj.Config = s.cfg

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	log := logging.FromContext(ctx)

	// кэш живёт между прогонами, на диск не пишем
	cache := driver.NewMemoryCache(64)
	regenerate := func(ctx context.Context, _ []string) error {
		p, err := runPass(ctx, target, s, cache)
		if err != nil {
			return err
		}
		if err := p.report(cmd.OutOrStdout(), cmd.ErrOrStderr(), s); err != nil {
			return err
		}
		if p.result == nil {
			return nil
		}
		written, removed, err := p.write(proj.OutputDir(p.inputDir), s)
		if err != nil {
			return err
		}
		if !g.quiet {
			for _, path := range written {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
			}
			for _, path := range removed {
				fmt.Fprintf(cmd.ErrOrStderr(), "removed stale %s\n", path)
			}
		}
		log.Debug("regenerated",
			zap.Int("groups", p.result.Groups),
			zap.Int("cache_hits", p.result.CacheHits),
			zap.Int("written", len(written)),
			zap.Int("removed", len(removed)))
		return nil
	}

	if err := regenerate(ctx, nil); err != nil {
		return err
	}
	dir := target
	if manifest.IsManifest(target) {
		dir = filepath.Dir(target)
	}
	w := watch.New([]string{dir}, watch.Options{
		Debounce: debounce,
		Match:    watchMatch(s.cfg.Generate.Suffix),
	})
	if !g.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "watching %s\n", dir)
	}
	err = w.Run(ctx, regenerate)
	if ctx.Err() != nil {
		return nil
	}
	return err
}
