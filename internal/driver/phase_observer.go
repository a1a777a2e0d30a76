package driver

import "time"

// Phases of Run, in execution order.
const (
	PhaseScan      = "scan"
	PhaseResolve   = "resolve"
	PhaseGenerate  = "generate" // validate + synth + render, per group
	PhaseBootstrap = "bootstrap"
)

// PhaseStatus tells whether an event opens or closes a phase.
type PhaseStatus uint8

const (
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

func (s PhaseStatus) String() string {
	if s == PhaseEnd {
		return "end"
	}
	return "start"
}

// PhaseEvent is sent to the observer around every phase. Elapsed and Err are
// set on PhaseEnd only; Err is the cancellation or bootstrap failure that
// aborts Run.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
	Err     error
}

// PhaseObserver is called synchronously from Run's goroutine.
type PhaseObserver func(PhaseEvent)
