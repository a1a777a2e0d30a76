package diagfmt

import (
	"encoding/json"
	"io"

	"github.com/kirrishima/FluentSettings/internal/diag"
	"github.com/kirrishima/FluentSettings/internal/source"
)

// Location is a span in machine-readable form. Line and column fields are
// only filled when JSONOpts.IncludePositions is set.
type Location struct {
	File    string `json:"file"`
	Start   uint32 `json:"start"`
	End     uint32 `json:"end"`
	Line    uint32 `json:"line,omitempty"`
	Col     uint32 `json:"col,omitempty"`
	EndLine uint32 `json:"end_line,omitempty"`
	EndCol  uint32 `json:"end_col,omitempty"`
}

type Note struct {
	Message  string   `json:"message"`
	Location Location `json:"location"`
}

// Entry is one diagnostic of a Report.
type Entry struct {
	Severity string   `json:"severity"`
	Code     string   `json:"code"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Args     []string `json:"args,omitempty"`
	Location Location `json:"location"`
	Notes    []Note   `json:"notes,omitempty"`
}

// Report is the document written by JSON.
type Report struct {
	Diagnostics []Entry `json:"diagnostics"`
	Count       int     `json:"count"`
	Errors      int     `json:"errors"`
	Warnings    int     `json:"warnings"`
	// сколько диагностик не попало в вывод из-за JSONOpts.Max
	Omitted int `json:"omitted,omitempty"`
}

type locator struct {
	fs        *source.FileSet
	mode      PathMode
	positions bool
}

func (l locator) at(span source.Span) Location {
	loc := Location{Start: span.Start, End: span.End}
	f := l.fs.Get(span.File)
	if f == nil {
		return loc
	}
	loc.File = formatPath(f, l.fs, l.mode)
	if l.positions {
		from, to := l.fs.Resolve(span)
		loc.Line, loc.Col = from.Line, from.Col
		loc.EndLine, loc.EndCol = to.Line, to.Col
	}
	return loc
}

// BuildReport collects the bag into a Report. Counters cover the whole bag,
// Diagnostics only the first opts.Max entries.
func BuildReport(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) Report {
	rep := Report{Diagnostics: []Entry{}}
	if bag == nil {
		return rep
	}
	loc := locator{fs: fs, mode: opts.PathMode, positions: opts.IncludePositions}

	for i, d := range bag.Items() {
		switch {
		case d.Severity.Blocking():
			rep.Errors++
		case d.Severity == diag.SevWarning:
			rep.Warnings++
		}
		if opts.Max > 0 && i >= opts.Max {
			rep.Omitted++
			continue
		}
		e := Entry{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			Args:     d.Args,
			Location: loc.at(d.Primary),
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				e.Notes = append(e.Notes, Note{Message: n.Msg, Location: loc.at(n.Span)})
			}
		}
		rep.Diagnostics = append(rep.Diagnostics, e)
	}
	rep.Count = len(rep.Diagnostics)
	return rep
}

// JSON writes BuildReport as indented JSON.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReport(bag, fs, opts))
}
