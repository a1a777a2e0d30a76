package source

import "strings"

// FileID indexes a File inside its FileSet. IDs are never reused.
type FileID uint32

// FileFlags records how a file got into the set and what loading changed.
type FileFlags uint8

const (
	FileVirtual        FileFlags = 1 << iota // из памяти: manifest-строка, тест
	FileHadBOM                               // UTF-8 BOM срезан при загрузке
	FileNormalizedCRLF                       // \r\n заменены на \n, смещения считаются по новому тексту
)

// Has reports whether all bits of mask are set.
func (f FileFlags) Has(mask FileFlags) bool { return f&mask == mask }

func (f FileFlags) String() string {
	var parts []string
	for _, fl := range []struct {
		bit  FileFlags
		name string
	}{{FileVirtual, "virtual"}, {FileHadBOM, "bom"}, {FileNormalizedCRLF, "crlf"}} {
		if f.Has(fl.bit) {
			parts = append(parts, fl.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// File is one loaded declaration source. Content is the normalized text that
// spans point into; Hash is its SHA-256 and feeds the cache salt.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // смещения всех '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based line and byte column.
type LineCol struct {
	Line uint32
	Col  uint32
}
