package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kirrishima/FluentSettings/internal/diagfmt"
	"github.com/kirrishima/FluentSettings/internal/prof"
	"github.com/kirrishima/FluentSettings/internal/project"
)

type globalOptions struct {
	color          string
	quiet          bool
	timings        bool
	maxDiagnostics int
	logLevel       string
	configPath     string
	profile        prof.Options
}

func readGlobals(cmd *cobra.Command) (globalOptions, error) {
	flags := cmd.Root().PersistentFlags()
	var g globalOptions
	var err error
	if g.color, err = flags.GetString("color"); err != nil {
		return g, fmt.Errorf("failed to get color flag: %w", err)
	}
	if g.quiet, err = flags.GetBool("quiet"); err != nil {
		return g, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if g.timings, err = flags.GetBool("timings"); err != nil {
		return g, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if g.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return g, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if g.logLevel, err = flags.GetString("log-level"); err != nil {
		return g, fmt.Errorf("failed to get log-level flag: %w", err)
	}
	if g.configPath, err = flags.GetString("config"); err != nil {
		return g, fmt.Errorf("failed to get config flag: %w", err)
	}
	if g.profile.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return g, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if g.profile.Mem, err = flags.GetString("mem-profile"); err != nil {
		return g, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if g.profile.Trace, err = flags.GetString("trace-out"); err != nil {
		return g, fmt.Errorf("failed to get trace-out flag: %w", err)
	}
	switch strings.ToLower(g.color) {
	case "auto", "on", "off":
	default:
		return g, fmt.Errorf("unsupported color mode %q (must be auto, on or off)", g.color)
	}
	if g.maxDiagnostics < 0 {
		return g, fmt.Errorf("--max-diagnostics must be >= 0")
	}
	return g, nil
}

// applyColor sets the process-wide colour switch used by fatih/color.
func applyColor(mode string) {
	switch strings.ToLower(mode) {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		color.NoColor = !isTerminal(os.Stderr) || os.Getenv("NO_COLOR") != ""
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// loadProject returns the configuration for work in startDir: the file
// named by --config, else fluentsettings.toml found upwards, else defaults.
func loadProject(g globalOptions, startDir string) (*project.Project, error) {
	if g.configPath != "" {
		cfg, err := project.LoadConfig(g.configPath)
		if err != nil {
			return nil, err
		}
		root, err := project.AbsDir(g.configPath)
		if err != nil {
			return nil, err
		}
		return &project.Project{Path: g.configPath, Root: root, Config: cfg}, nil
	}
	p, ok, err := project.Load(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &project.Project{Config: project.Default()}, nil
	}
	return p, nil
}

// settings merges command flags over the project file.
type settings struct {
	cfg     project.Config
	format  diagfmt.Format
	pretty  diagfmt.PrettyOpts
	maxDiag int
}

func resolveSettings(cmd *cobra.Command, g globalOptions, p *project.Project) (settings, error) {
	s := settings{cfg: p.Config}
	flags := cmd.Flags()

	if flags.Changed("jobs") {
		jobs, err := flags.GetInt("jobs")
		if err != nil {
			return s, fmt.Errorf("failed to get jobs flag: %w", err)
		}
		s.cfg.Generate.Jobs = jobs
	}
	for name, dst := range map[string]*string{
		"base":       &s.cfg.Generate.Base,
		"activation": &s.cfg.Generate.Activation,
		"suffix":     &s.cfg.Generate.Suffix,
		"output":     &s.cfg.Generate.Output,
		"format":     &s.cfg.Diagnostics.Format,
	} {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			return s, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = v
	}
	if flags.Lookup("no-cache") != nil {
		noCache, err := flags.GetBool("no-cache")
		if err != nil {
			return s, fmt.Errorf("failed to get no-cache flag: %w", err)
		}
		if noCache {
			s.cfg.Generate.Cache = false
		}
	}
	if g.maxDiagnostics > 0 {
		s.cfg.Diagnostics.Max = g.maxDiagnostics
	}
	if err := s.cfg.Validate(); err != nil {
		return s, err
	}

	format, err := diagfmt.ParseFormat(s.cfg.Diagnostics.Format)
	if err != nil {
		return s, err
	}
	s.format = format
	s.maxDiag = s.cfg.Diagnostics.Max
	s.pretty = diagfmt.PrettyOpts{
		Color:     !color.NoColor,
		Context:   1,
		PathMode:  diagfmt.PathModeRelative,
		ShowNotes: true,
	}
	return s, nil
}
