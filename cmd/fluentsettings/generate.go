package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [dir|manifest]",
	Short: "Generate settings accessors and bootstrap files",
	Long: `Generate reads a Go package directory (or a .toml/.yaml manifest) and writes
one accessor file per valid settings type plus the bootstrap files.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, args, true)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [dir|manifest]",
	Short: "Report diagnostics without writing files",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, args, false)
	},
}

func init() {
	for _, c := range []*cobra.Command{generateCmd, checkCmd} {
		addPassFlags(c)
	}
	generateCmd.Flags().StringP("output", "o", "", "output directory (default: input directory)")
}

// addPassFlags registers the flags shared by commands that run the generator.
func addPassFlags(c *cobra.Command) {
	c.Flags().String("format", "", "diagnostics format (pretty|json|short)")
	c.Flags().IntP("jobs", "j", 0, "max parallel groups (0 = GOMAXPROCS)")
	c.Flags().Bool("no-cache", false, "disable the on-disk cache")
	c.Flags().String("base", "", "name of the required base type")
	c.Flags().String("activation", "", "name of the activation annotation")
	c.Flags().String("suffix", "", "file name suffix of accessor files")
}

func targetOf(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

func runGenerate(cmd *cobra.Command, args []string, write bool) error {
	ctx := cmd.Context()
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

	p, err := runPass(ctx, target, s, openCache(ctx, s.cfg.Generate.Cache))
	if err != nil {
		return err
	}
	if err := p.report(cmd.OutOrStdout(), cmd.ErrOrStderr(), s); err != nil {
		return fmt.Errorf("failed to write diagnostics: %w", err)
	}
	if g.timings {
		if err := p.timings(cmd.ErrOrStderr(), s); err != nil {
			return err
		}
	}

	if write && p.result != nil {
		// группы без ошибок пишутся даже если другие группы невалидны
		proj.Config = s.cfg
		outDir := proj.OutputDir(p.inputDir)
		written, removed, err := p.write(outDir, s)
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
	}

	if p.bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}
