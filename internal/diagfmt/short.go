package diagfmt

import (
	"io"

	"github.com/kirrishima/FluentSettings/internal/diag"
	"github.com/kirrishima/FluentSettings/internal/source"
)

// Short печатает по одной строке на диагностику:
// <severity> <code> <path>:<line>:<col> <message>
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode, withNotes bool) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	out := diag.FormatShortDiagnostics(bag.Items(), fs, withNotes, mode.String())
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}

// Write dispatches to the renderer selected by format.
func Write(w io.Writer, format Format, bag *diag.Bag, fs *source.FileSet, pretty PrettyOpts) error {
	switch format {
	case FormatJSON:
		return JSON(w, bag, fs, JSONOpts{
			IncludePositions: true,
			PathMode:         pretty.PathMode,
			IncludeNotes:     true,
		})
	case FormatShort:
		return Short(w, bag, fs, pretty.PathMode, pretty.ShowNotes)
	default:
		Pretty(w, bag, fs, pretty)
		return nil
	}
}
