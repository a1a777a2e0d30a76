package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/kirrishima/FluentSettings/internal/diag"
	"github.com/kirrishima/FluentSettings/internal/source"
)

type palette struct {
	err, warn, info, note, loc, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		note:   mk(color.FgBlue, color.Bold),
		loc:    mk(color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgRed, color.Bold),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	sevColor := p.severity(d.Severity)
	loc := location(fs, d.Primary, opts.PathMode)
	msg := d.Message
	if opts.Width > 0 {
		// ширину считаем по тексту без escape-последовательностей цвета
		used := runewidth.StringWidth(fmt.Sprintf("%s: %s %s: ", loc, d.Severity, d.Code.ID()))
		msg = clip(msg, uint8(max(int(opts.Width)-used, 0))) // #nosec G115 -- bounded by Width
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.loc.Sprint(loc),
		sevColor.Sprint(d.Severity.String()),
		sevColor.Sprint(d.Code.ID()),
		msg,
	)
	snippet(w, fs, d.Primary, opts, p, p.caret)

	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), p.loc.Sprint(location(fs, n.Span, opts.PathMode)), n.Msg)
		snippet(w, fs, n.Span, opts, p, p.note)
	}
}

func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	f := fs.Get(sp.File)
	if f == nil {
		return "<unknown>"
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(f, fs, mode), start.Line, start.Col)
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	default:
		return f.FormatPath(mode.String(), "")
	}
}

// snippet печатает строку с подчёркиванием. Многострочные спаны
// подчёркиваются до конца первой строки.
func snippet(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts, p palette, caret *color.Color) {
	f := fs.Get(sp.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(sp)
	if start.Line == 0 {
		return
	}

	ctx := uint32(max(opts.Context, 0))
	first := uint32(1)
	if start.Line > ctx {
		first = start.Line - ctx
	}
	last := min(start.Line+ctx, uint32(len(f.LineIdx))+1) // #nosec G115
	gutterWidth := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := f.Line(ln)
		text = strings.ReplaceAll(text, "\t", "    ")
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, ln), clipLine(text, opts.Width))
		if ln != start.Line {
			continue
		}

		line := f.Line(ln)
		col := int(start.Col) - 1
		if col > len(line) {
			col = len(line)
		}
		endCol := len(line)
		if end.Line == start.Line {
			endCol = min(int(end.Col)-1, len(line))
		}
		prefix := strings.ReplaceAll(line[:col], "\t", "    ")
		marked := strings.ReplaceAll(line[col:max(endCol, col)], "\t", "    ")

		pad := runewidth.StringWidth(prefix)
		width := max(runewidth.StringWidth(marked), 1)
		underline := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", pad), caret.Sprint(underline))
	}
}

func clip(s string, width uint8) string {
	if runewidth.StringWidth(s) <= int(width) {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, int(width), "")
	}
	return runewidth.Truncate(s, int(width), "...")
}

func clipLine(s string, width uint8) string {
	if width == 0 {
		return s
	}
	return clip(s, width)
}
