package source

import (
	"cmp"
	"fmt"
)

// Span is a half-open byte range [Start, End) inside one file of a FileSet.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool { return s.End <= s.Start }

// Len is zero for inverted spans.
func (s Span) Len() uint32 {
	if s.Empty() {
		return 0
	}
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Compare orders spans by file, then start, then end.
func (s Span) Compare(other Span) int {
	return cmp.Or(
		cmp.Compare(s.File, other.File),
		cmp.Compare(s.Start, other.Start),
		cmp.Compare(s.End, other.End),
	)
}
