package driver

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kirrishima/FluentSettings/internal/observ"
)

type timingPayload struct {
	Path      string               `json:"path,omitempty"`
	Groups    int                  `json:"groups"`
	CacheHits int                  `json:"cache_hits"`
	Artifacts int                  `json:"artifacts"`
	TotalMS   float64              `json:"total_ms"`
	Slowest   string               `json:"slowest,omitempty"`
	Phases    []observ.PhaseReport `json:"phases"`
}

// WriteTimings prints the phase report of res for path as text or, with
// asJSON, as one JSON object per run.
func WriteTimings(w io.Writer, path string, res *Result, asJSON bool) error {
	if res == nil {
		return nil
	}
	r := res.Timings
	if !asJSON {
		_, err := fmt.Fprintf(w, "timings for %s (%d groups, %d cached):\n%s",
			path, res.Groups, res.CacheHits, r.String())
		return err
	}
	payload := timingPayload{
		Path:      path,
		Groups:    res.Groups,
		CacheHits: res.CacheHits,
		Artifacts: len(res.Artifacts),
		TotalMS:   r.TotalMS,
		Phases:    r.Phases,
	}
	if slow, ok := r.Slowest(); ok {
		payload.Slowest = slow.Name
	}
	if payload.Phases == nil {
		payload.Phases = []observ.PhaseReport{}
	}
	return json.NewEncoder(w).Encode(payload)
}
