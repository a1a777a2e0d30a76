package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kirrishima/FluentSettings/internal/bootstrap"
	"github.com/kirrishima/FluentSettings/internal/diag"
	"github.com/kirrishima/FluentSettings/internal/driver"
	"github.com/kirrishima/FluentSettings/internal/source"
	"github.com/kirrishima/FluentSettings/internal/version"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap [dir]",
	Short: "Write only the annotation and base type files",
	Long: `Bootstrap writes localsetting.gen.go and localsettingsbase.gen.go into dir.
The package name is taken from the Go files in dir unless --package is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBootstrap,
}

func init() {
	bootstrapCmd.Flags().String("package", "", "package clause of the generated files")
	bootstrapCmd.Flags().String("base", "", "name of the base type")
	bootstrapCmd.Flags().String("activation", "", "name of the activation annotation type")
	bootstrapCmd.Flags().String("runtime", bootstrap.RuntimeImport, "import path of the settings runtime")
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	g, err := readGlobals(cmd)
	if err != nil {
		return err
	}
	dir := targetOf(args)
	proj, err := loadProject(g, dir)
	if err != nil {
		return err
	}
	s, err := resolveSettings(cmd, g, proj)
	if err != nil {
		return err
	}

	pkg, err := cmd.Flags().GetString("package")
	if err != nil {
		return fmt.Errorf("failed to get package flag: %w", err)
	}
	runtimePath, err := cmd.Flags().GetString("runtime")
	if err != nil {
		return fmt.Errorf("failed to get runtime flag: %w", err)
	}
	if pkg == "" {
		fs := source.NewFileSet()
		bag := diag.NewBag(s.maxDiag)
		table, _, err := loadHost(cmd.Context(), fs, dir, diag.BagReporter{Bag: bag})
		if err != nil {
			return fmt.Errorf("cannot infer package name (use --package): %w", err)
		}
		pkg = table.Namespace()
	}

	units, err := bootstrap.Emit(bootstrap.Options{
		Package:    pkg,
		Activation: s.cfg.Generate.Activation,
		Base:       s.cfg.Generate.Base,
		Runtime:    runtimePath,
		Generator:  "fluentsettings",
		Version:    version.Version,
	})
	if err != nil {
		return err
	}
	arts := make([]driver.Artifact, 0, len(units))
	for _, u := range units {
		arts = append(arts, driver.Artifact{Name: u.FileName, Kind: driver.ArtifactBootstrap, Content: u.Content})
	}
	proj.Config = s.cfg
	written, err := driver.WriteArtifacts(proj.OutputDir(dir), arts)
	if err != nil {
		return err
	}
	if !g.quiet {
		for _, path := range written {
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
		}
	}
	return nil
}
