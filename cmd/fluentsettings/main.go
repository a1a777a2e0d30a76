package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kirrishima/FluentSettings/internal/logging"
	"github.com/kirrishima/FluentSettings/internal/prof"
	"github.com/kirrishima/FluentSettings/internal/version"
)

// errDiagnostics is returned when the diagnostics were already printed and
// only the exit status is left to set.
var errDiagnostics = errors.New("generation reported errors")

var rootCmd = &cobra.Command{
	Use:   "fluentsettings",
	Short: "Generate persisted settings accessors for Go types",
	Long: `fluentsettings reads bodyless methods annotated with // @LocalSetting and
generates getters and setters that persist values through a settings.Store.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupGlobals,
	PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
		_ = logging.FromContext(cmd.Context()).Sync()
		return stopProfiling()
	},
}

// profiling is the session started by --cpu-profile, --mem-profile or --trace-out.
var profiling *prof.Session

func init() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(bootstrapCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics to show (0 = from config)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug|info|warn|error|off)")
	rootCmd.PersistentFlags().String("config", "", "path to fluentsettings.toml (default: search upwards)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file")
	rootCmd.PersistentFlags().String("trace-out", "", "write a runtime trace to file")
}

// main executes the root command. Any error exits with status 1.
func main() {
	err := rootCmd.Execute()
	// при ошибке PostRun не вызывается
	if stopErr := stopProfiling(); stopErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", stopErr)
	}
	if err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func setupGlobals(cmd *cobra.Command, _ []string) error {
	g, err := readGlobals(cmd)
	if err != nil {
		return err
	}
	applyColor(g.color)
	logger, err := logging.New(g.logLevel)
	if err != nil {
		return err
	}
	logger.Debug("starting", zap.String("command", cmd.Name()), zap.String("version", version.Version))
	cmd.SetContext(logging.WithLogger(cmd.Context(), logger))

	if g.profile.Enabled() {
		s, err := prof.Start(g.profile)
		if err != nil {
			return err
		}
		profiling = s
	}
	return nil
}

func stopProfiling() error {
	s := profiling
	profiling = nil
	return s.Stop()
}
