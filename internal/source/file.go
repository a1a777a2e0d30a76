package source

import (
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

func (f *File) size() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("file %s too large: %w", f.Path, err))
	}
	return n
}

// LineCount is the number of lines, counting a trailing partial line.
func (f *File) LineCount() uint32 {
	return uint32(len(f.LineIdx)) + 1 // #nosec G115 -- bounded by size()
}

// LineStart returns the byte offset of the first byte of a 1-based line.
// Lines past the end map to the end of the content.
func (f *File) LineStart(line uint32) uint32 {
	switch {
	case line <= 1:
		return 0
	case line-2 < uint32(len(f.LineIdx)): // #nosec G115
		return f.LineIdx[line-2] + 1
	default:
		return f.size()
	}
}

// lineEnd is the offset of the '\n' closing line, or the content end.
func (f *File) lineEnd(line uint32) uint32 {
	if line >= 1 && line-1 < uint32(len(f.LineIdx)) { // #nosec G115
		return f.LineIdx[line-1]
	}
	return f.size()
}

// Offset converts a 1-based position back into a byte offset. Columns past
// the end of the line are clamped to the line end.
func (f *File) Offset(pos LineCol) uint32 {
	start := f.LineStart(pos.Line)
	if pos.Col <= 1 {
		return start
	}
	return min(start+pos.Col-1, f.lineEnd(pos.Line))
}

// Line returns the text of a 1-based line without its newline, or "" when
// the file has no such line.
func (f *File) Line(n uint32) string {
	if n == 0 || n > f.LineCount() {
		return ""
	}
	start, end := f.LineStart(n), f.lineEnd(n)
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}

// FormatPath renders the file path for output. mode is one of "absolute",
// "relative" (to baseDir, or the working directory when empty), "basename"
// or "auto"; anything else returns the stored path.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
	case "relative":
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
	case "basename":
		return filepath.Base(f.Path)
	case "auto":
		// длинные абсолютные пути сокращаем до имени файла
		if filepath.IsAbs(f.Path) && len(f.Path) >= 40 {
			return filepath.Base(f.Path)
		}
	}
	return f.Path
}
