package diag

import (
	"github.com/kirrishima/FluentSettings/internal/source"
)

// Note points at a secondary location that adds context to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is a located finding. Message is the rendered form of the code's
// template applied to Args, kept so consumers need not re-render it.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Args     []string
	Primary  source.Span
	Notes    []Note
}

// Spans returns the primary span followed by every note span.
func (d *Diagnostic) Spans() []source.Span {
	out := make([]source.Span, 0, 1+len(d.Notes))
	out = append(out, d.Primary)
	for _, n := range d.Notes {
		out = append(out, n.Span)
	}
	return out
}

func (d *Diagnostic) WithNote(sp source.Span, msg string) *Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
