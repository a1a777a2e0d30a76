// Package observ records how long each generator phase took and what it
// produced. The driver fills a Timer; --timings prints its Report.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Phase is one measured step of a run.
type Phase struct {
	Name string
	Dur  time.Duration
	Note string // что фаза произвела: "3 groups", "2 cached"
}

// Timer collects phases in execution order. Not safe for concurrent use:
// phases run one after another, parallelism lives inside a phase.
type Timer struct {
	phases []Phase
	now    func() time.Time
}

func NewTimer() *Timer {
	return &Timer{phases: make([]Phase, 0, 4), now: time.Now}
}

// Time runs fn as the phase name. The duration is recorded even when fn
// fails, so an aborted run still reports where the time went.
func (t *Timer) Time(name string, fn func() error) (time.Duration, error) {
	start := t.now()
	err := fn()
	d := t.now().Sub(start)
	t.phases = append(t.phases, Phase{Name: name, Dur: d})
	return d, err
}

// Note attaches a note to the last phase called name; unknown names are
// ignored.
func (t *Timer) Note(name, format string, args ...any) {
	for i := len(t.phases) - 1; i >= 0; i-- {
		if t.phases[i].Name == name {
			t.phases[i].Note = fmt.Sprintf(format, args...)
			return
		}
	}
}

// PhaseReport is the serialisable form of a Phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report is the outcome of a Timer.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	r := Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, p := range t.phases {
		total += p.Dur
		r.Phases[i] = PhaseReport{Name: p.Name, DurationMS: millis(p.Dur), Note: p.Note}
	}
	r.TotalMS = millis(total)
	return r
}

// Slowest returns the phase with the largest duration.
func (r Report) Slowest() (PhaseReport, bool) {
	if len(r.Phases) == 0 {
		return PhaseReport{}, false
	}
	best := r.Phases[0]
	for _, p := range r.Phases[1:] {
		if p.DurationMS > best.DurationMS {
			best = p
		}
	}
	return best, true
}

// String renders the report as aligned text:
//
//	generate      1.20 ms  3 groups
//	total         1.31 ms
func (r Report) String() string {
	var b strings.Builder
	for _, p := range r.Phases {
		fmt.Fprintf(&b, "  %-12s %8.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			b.WriteString("  " + p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-12s %8.2f ms\n", "total", r.TotalMS)
	return b.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
