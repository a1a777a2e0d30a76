package manifest

import (
	"bytes"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kirrishima/FluentSettings/internal/diag"
	"github.com/kirrishima/FluentSettings/internal/source"
)

var yamlLineRe = regexp.MustCompile(`line (\d+)`)

func decodeYAML(file *source.File, r diag.Reporter) (document, locator, bool) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(file.Content))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		invalid(r, yamlErrorSpan(file, err), err.Error())
		return document{}, nil, false
	}

	var root yaml.Node
	if err := yaml.Unmarshal(file.Content, &root); err != nil {
		invalid(r, yamlErrorSpan(file, err), err.Error())
		return document{}, nil, false
	}
	return doc, &nodeLocator{file: file, root: documentRoot(&root)}, true
}

func yamlErrorSpan(file *source.File, err error) source.Span {
	sp := source.Span{File: file.ID}
	if m := yamlLineRe.FindStringSubmatch(err.Error()); m != nil {
		if line, convErr := strconv.ParseUint(m[1], 10, 32); convErr == nil {
			sp.Start = file.LineStart(uint32(line))
			sp.End = sp.Start
		}
	}
	return sp
}

func documentRoot(n *yaml.Node) *yaml.Node {
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		return n.Content[0]
	}
	return n
}

// nodeLocator берёт позиции из узлов yaml.v3.
type nodeLocator struct {
	file *source.File
	root *yaml.Node
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func item(n *yaml.Node, i int) *yaml.Node {
	if n == nil || n.Kind != yaml.SequenceNode || i >= len(n.Content) {
		return nil
	}
	return n.Content[i]
}

func (l *nodeLocator) span(n *yaml.Node) source.Span {
	if n == nil || n.Line <= 0 {
		return source.Span{File: l.file.ID}
	}
	start := l.file.Offset(source.LineCol{Line: uint32(n.Line), Col: uint32(max(n.Column, 1))}) // #nosec G115
	if n.Kind == yaml.ScalarNode && n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
		start++
	}
	end := start
	if n.Kind == yaml.ScalarNode {
		end += toOffset(len(n.Value))
	}
	return source.Span{File: l.file.ID, Start: start, End: end}
}

func (l *nodeLocator) typeNode(i int) *yaml.Node {
	return item(mappingValue(l.root, "types"), i)
}

func (l *nodeLocator) memberNode(i, j int) *yaml.Node {
	return item(mappingValue(l.typeNode(i), "members"), j)
}

func (l *nodeLocator) pkg() source.Span {
	return l.span(mappingValue(l.root, "package"))
}

func (l *nodeLocator) typeName(i int) source.Span {
	if n := mappingValue(l.typeNode(i), "name"); n != nil {
		return l.span(n)
	}
	return l.span(l.typeNode(i))
}

func (l *nodeLocator) memberName(i, j int) source.Span {
	if n := mappingValue(l.memberNode(i, j), "name"); n != nil {
		return l.span(n)
	}
	return l.span(l.memberNode(i, j))
}

func (l *nodeLocator) annotation(i, j, k int) source.Span {
	if n := item(mappingValue(l.memberNode(i, j), "annotations"), k); n != nil {
		return l.span(n)
	}
	return l.memberName(i, j)
}
