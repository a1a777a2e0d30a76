package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/kirrishima/FluentSettings/internal/source"
)

// line is one rendered entry: a diagnostic or, when notes are included, one
// of its notes under the label "note".
type line struct {
	label string
	code  string
	path  string
	pos   source.LineCol
	msg   string
}

func (l line) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.label, l.code, l.path, l.pos.Line, l.pos.Col, l.msg)
}

func compareLines(a, b line) int {
	return cmp.Or(
		cmp.Compare(a.path, b.path),
		cmp.Compare(a.pos.Line, b.pos.Line),
		cmp.Compare(a.pos.Col, b.pos.Col),
		cmp.Compare(a.label, b.label),
		cmp.Compare(a.code, b.code),
		cmp.Compare(a.msg, b.msg),
	)
}

// FormatGoldenDiagnostics renders diags one per line as
// "<severity> <code> <path>:<line>:<col> <message>", sorted by position with
// paths relative to the file set's base directory. Entries whose file is not
// in fs are dropped. Test expectations are written in this form.
func FormatGoldenDiagnostics(diags []*Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return formatLines(diags, fs, includeNotes, "relative")
}

// FormatShortDiagnostics is the same layout with a caller-chosen path mode
// (see source.File.FormatPath).
func FormatShortDiagnostics(diags []*Diagnostic, fs *source.FileSet, includeNotes bool, pathMode string) string {
	return formatLines(diags, fs, includeNotes, pathMode)
}

func formatLines(diags []*Diagnostic, fs *source.FileSet, includeNotes bool, pathMode string) string {
	if fs == nil {
		return ""
	}
	var lines []line
	for _, d := range diags {
		if d == nil {
			continue
		}
		code := d.Code.ID()
		if l, ok := locate(fs, d.Primary, pathMode); ok {
			l.label, l.code, l.msg = d.Severity.Label(), code, oneLine(d.Message)
			lines = append(lines, l)
		}
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			if l, ok := locate(fs, n.Span, pathMode); ok {
				l.label, l.code, l.msg = "note", code, oneLine(n.Msg)
				lines = append(lines, l)
			}
		}
	}
	slices.SortStableFunc(lines, compareLines)

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

func locate(fs *source.FileSet, span source.Span, pathMode string) (line, bool) {
	f := fs.Get(span.File)
	if f == nil {
		return line{}, false
	}
	start, _ := fs.Resolve(span)
	p := filepath.ToSlash(f.FormatPath(pathMode, fs.BaseDir()))
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return line{path: p, pos: start}, true
}

// oneLine collapses line breaks so every entry stays on a single line.
func oneLine(msg string) string {
	msg = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(msg)
	return strings.TrimSpace(msg)
}
