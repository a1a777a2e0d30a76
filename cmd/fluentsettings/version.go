package main

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kirrishima/FluentSettings/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Go        string `json:"go,omitempty"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show fluentsettings version",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	f := versionCmd.Flags()
	f.Bool("hash", false, "include git commit hash")
	f.Bool("date", false, "include build timestamp")
	f.Bool("full", false, "show all build metadata")
	f.String("format", "pretty", "output format (pretty|json)")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	f := cmd.Flags()
	full, err := f.GetBool("full")
	if err != nil {
		return fmt.Errorf("failed to get full flag: %w", err)
	}
	hash, err := f.GetBool("hash")
	if err != nil {
		return fmt.Errorf("failed to get hash flag: %w", err)
	}
	date, err := f.GetBool("date")
	if err != nil {
		return fmt.Errorf("failed to get date flag: %w", err)
	}
	format, err := f.GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	p := versionPayload{Tool: "fluentsettings", Version: valueOrUnknown(version.Version)}
	if full {
		p.Go = runtime.Version()
	}
	if hash || full {
		p.GitCommit = valueOrUnknown(version.GitCommit)
	}
	if date || full {
		p.BuildDate = valueOrUnknown(version.BuildDate)
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "pretty":
		writeVersionPretty(out, p)
		return nil
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}

// цветная только версия, остальное как есть
func writeVersionPretty(w io.Writer, p versionPayload) {
	fmt.Fprintf(w, "%s %s\n", p.Tool, version.Colored())
	for _, kv := range [][2]string{{"go", p.Go}, {"commit", p.GitCommit}, {"built", p.BuildDate}} {
		if kv[1] != "" {
			fmt.Fprintf(w, "%-7s %s\n", kv[0]+":", kv[1])
		}
	}
}

func valueOrUnknown(s string) string {
	return cmp.Or(strings.TrimSpace(s), "unknown")
}
