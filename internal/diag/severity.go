package diag

import "strings"

// Severity orders diagnostics. Only errors suppress the output of a group.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityLabels = [...]string{
	SevInfo:    "info",
	SevWarning: "warning",
	SevError:   "error",
}

// Label is the lower-case name used by golden and short output.
func (s Severity) Label() string {
	if int(s) < len(severityLabels) {
		return severityLabels[s]
	}
	return "unknown"
}

// String is the upper-case name used by the pretty and JSON renderers.
func (s Severity) String() string {
	return strings.ToUpper(s.Label())
}

// Blocking reports whether a diagnostic of this severity invalidates its group.
func (s Severity) Blocking() bool {
	return s >= SevError
}
