package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("prefs.go", []byte("package prefs"), 0)
	id2 := fs.Add("prefs.go", []byte("package prefs // v2"), 0)
	if id1 == id2 {
		t.Fatalf("expected a new FileID for the second Add, got %d twice", id1)
	}

	latest, ok := fs.GetLatest("prefs.go")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d,%v; want %d,true", latest, ok, id2)
	}
	// старая версия остаётся доступной
	if got := string(fs.Get(id1).Content); got != "package prefs" {
		t.Errorf("first version content = %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Len = %d, want 2", fs.Len())
	}
}

func TestGetUnknownID(t *testing.T) {
	fs := NewFileSet()
	if f := fs.Get(42); f != nil {
		t.Fatalf("expected nil for unknown id, got %+v", f)
	}
	start, end := fs.Resolve(Span{File: 42})
	if start != (LineCol{}) || end != (LineCol{}) {
		t.Fatalf("expected zero positions for unknown file, got %v %v", start, end)
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.go", []byte("a\nb\n"))
	file := fs.Get(id)

	want := []uint32{1, 3}
	if len(file.LineIdx) != len(want) {
		t.Fatalf("LineIdx = %v, want %v", file.LineIdx, want)
	}
	for i := range want {
		if file.LineIdx[i] != want[i] {
			t.Errorf("LineIdx[%d] = %d, want %d", i, file.LineIdx[i], want[i])
		}
	}
	if !file.Flags.Has(FileVirtual) {
		t.Errorf("flags = %s, want virtual", file.Flags)
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("prefs.go", []byte("package prefs\n\ntype Prefs struct{}\n"))

	tests := []struct {
		name string
		off  uint32
		want LineCol
	}{
		{"file start", 0, LineCol{Line: 1, Col: 1}},
		{"newline of first line", 13, LineCol{Line: 1, Col: 14}},
		{"empty second line", 14, LineCol{Line: 2, Col: 1}},
		{"type keyword", 15, LineCol{Line: 3, Col: 1}},
		{"type name", 20, LineCol{Line: 3, Col: 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
			if start != tt.want {
				t.Fatalf("Resolve(%d) = %+v, want %+v", tt.off, start, tt.want)
			}
		})
	}
}

func TestResolveUTF8(t *testing.T) {
	fs := NewFileSet()
	// α занимает 2 байта, колонки считаются в байтах
	id := fs.AddVirtual("utf8.go", []byte("α\n"))

	start, end := fs.Resolve(Span{File: id, Start: 0, End: 1})
	if start != (LineCol{Line: 1, Col: 1}) {
		t.Errorf("start = %+v", start)
	}
	if end != (LineCol{Line: 1, Col: 2}) {
		t.Errorf("end = %+v", end)
	}
}

func TestOffsetRoundTrip(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("m.yaml", []byte("package: prefs\ntypes:\n  - name: Prefs\n"))
	file := fs.Get(id)

	for _, off := range []uint32{0, 9, 15, 24, 32} {
		pos, _ := fs.Resolve(Span{File: id, Start: off, End: off})
		if got := file.Offset(pos); got != off {
			t.Errorf("Offset(Resolve(%d)) = %d", off, got)
		}
	}
	// колонка за концом строки прижимается к концу строки
	if got := file.Offset(LineCol{Line: 1, Col: 99}); got != 14 {
		t.Errorf("clamped offset = %d, want 14", got)
	}
	if got := file.Line(3); got != "  - name: Prefs" {
		t.Errorf("Line(3) = %q", got)
	}
	if got := file.Line(9); got != "" {
		t.Errorf("Line(9) = %q, want empty", got)
	}
}

func TestLoadNormalizesBOMAndCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "decl.go")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa\r\nb\r\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := fs.Get(id)
	if string(file.Content) != "a\nb\n" {
		t.Errorf("content = %q", file.Content)
	}
	if got := file.Flags.String(); got != "bom|crlf" {
		t.Errorf("flags = %s, want bom|crlf", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "missing.go")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEdgeCases(t *testing.T) {
	fs := NewFileSet()

	if f := fs.Get(fs.AddVirtual("empty.go", nil)); len(f.LineIdx) != 0 {
		t.Errorf("empty file LineIdx = %v", f.LineIdx)
	}
	if f := fs.Get(fs.AddVirtual("one.go", []byte("hello"))); len(f.LineIdx) != 0 {
		t.Errorf("single line LineIdx = %v", f.LineIdx)
	}
	if f := fs.Get(fs.AddVirtual("nl.go", []byte("\n"))); len(f.LineIdx) != 1 || f.LineIdx[0] != 0 {
		t.Errorf("newline-only LineIdx = %v", f.LineIdx)
	}
}
