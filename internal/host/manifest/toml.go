package manifest

import (
	"errors"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"github.com/kirrishima/FluentSettings/internal/diag"
	"github.com/kirrishima/FluentSettings/internal/source"
)

func decodeTOML(file *source.File, r diag.Reporter) (document, locator, bool) {
	var doc document
	text := string(file.Content)
	md, err := toml.Decode(text, &doc)
	if err != nil {
		sp := source.Span{File: file.ID}
		var pe toml.ParseError
		if errors.As(err, &pe) {
			sp.Start = toOffset(pe.Position.Start)
			sp.End = toOffset(pe.Position.Start + pe.Position.Len)
			invalid(r, sp, pe.Message)
		} else {
			invalid(r, sp, err.Error())
		}
		return document{}, nil, false
	}

	ok := true
	for _, key := range md.Undecoded() {
		invalid(r, source.Span{File: file.ID}, "unknown key "+key.String())
		ok = false
	}
	if !ok {
		return document{}, nil, false
	}
	return doc, newTextLocator(file, doc), true
}

// textLocator находит позиции последовательным поиском по тексту: у
// BurntSushi/toml нет позиций значений, а порядок записей в тексте совпадает
// с порядком в документе.
type textLocator struct {
	file        *source.File
	pkgSpan     source.Span
	types       []source.Span
	members     [][]source.Span
	annotations [][][]source.Span
}

func newTextLocator(file *source.File, doc document) *textLocator {
	l := &textLocator{file: file}
	text := string(file.Content)
	cur := 0

	find := func(candidates ...string) source.Span {
		best, bestLen := -1, 0
		for _, c := range candidates {
			if c == "" {
				continue
			}
			if i := strings.Index(text[cur:], c); i >= 0 && (best < 0 || i < best) {
				best, bestLen = i, len(c)
			}
		}
		if best < 0 {
			return source.Span{File: file.ID, Start: toOffset(cur), End: toOffset(cur)}
		}
		start := cur + best
		cur = start + bestLen
		return source.Span{File: file.ID, Start: toOffset(start), End: toOffset(cur)}
	}
	unquoted := func(sp source.Span, quoted bool) source.Span {
		if quoted && sp.Len() >= 2 {
			sp.Start++
			sp.End--
		}
		return sp
	}
	name := func(s string) source.Span {
		sp := find(`"`+s+`"`, `'`+s+`'`)
		return unquoted(sp, sp.Len() == uint32(len(s)+2)) // #nosec G115
	}

	l.pkgSpan = name(doc.Package)
	for _, te := range doc.Types {
		l.types = append(l.types, name(te.Name))
		var members []source.Span
		var anns [][]source.Span
		for _, me := range te.Members {
			members = append(members, name(me.Name))
			var spans []source.Span
			for _, a := range me.Annotations {
				spans = append(spans, find(strings.TrimSpace(a), "@"+directiveHead(a)))
			}
			anns = append(anns, spans)
		}
		l.members = append(l.members, members)
		l.annotations = append(l.annotations, anns)
	}
	return l
}

// directiveHead returns "target:Name" part of a directive text.
func directiveHead(text string) string {
	text = strings.TrimPrefix(strings.TrimSpace(text), "@")
	if i := strings.IndexAny(text, "{( \t"); i >= 0 {
		return text[:i]
	}
	return text
}

func (l *textLocator) pkg() source.Span { return l.pkgSpan }

func (l *textLocator) typeName(i int) source.Span {
	if i < len(l.types) {
		return l.types[i]
	}
	return source.Span{File: l.file.ID}
}

func (l *textLocator) memberName(i, j int) source.Span {
	if i < len(l.members) && j < len(l.members[i]) {
		return l.members[i][j]
	}
	return l.typeName(i)
}

func (l *textLocator) annotation(i, j, k int) source.Span {
	if i < len(l.annotations) && j < len(l.annotations[i]) && k < len(l.annotations[i][j]) {
		return l.annotations[i][j][k]
	}
	return l.memberName(i, j)
}

func toOffset(n int) uint32 {
	v, err := safecast.Conv[uint32](max(n, 0))
	if err != nil {
		return 0
	}
	return v
}
