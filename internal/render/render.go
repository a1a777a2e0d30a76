// Package render prints an ir.Unit as Go source. The output is passed
// through go/format, so it is gofmt-canonical and stable between runs.
package render

import (
	"fmt"
	"go/format"
	"strconv"
	"strings"

	"github.com/kirrishima/FluentSettings/internal/host"
	"github.com/kirrishima/FluentSettings/internal/ir"
)

// Emitter accumulates the text of one unit.
type Emitter struct {
	unit ir.Unit
	buf  strings.Builder
}

// Unit renders u. An error means the unit does not form valid Go, usually
// because a type spelling came from a manifest and does not parse.
func Unit(u ir.Unit) ([]byte, error) {
	e := &Emitter{unit: u}
	e.emitHeader()
	e.emitImports()
	e.emitHooks()
	e.emitAssertions()
	for _, a := range u.Accessors {
		e.emitGetter(a)
		e.emitSetter(a)
	}
	out, err := format.Source([]byte(e.buf.String()))
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", u.FileName, err)
	}
	return out, nil
}

// Header is the first line of every generated file.
func Header(generator, version string) string {
	if version == "" {
		return fmt.Sprintf("// Code generated by %s. DO NOT EDIT.", generator)
	}
	return fmt.Sprintf("// Code generated by %s %s. DO NOT EDIT.", generator, version)
}

// Quote spells a storage key as a Go string literal.
func Quote(key string) string {
	return strconv.QuoteToGraphic(key)
}

func (e *Emitter) emitHeader() {
	fmt.Fprintf(&e.buf, "%s\n\npackage %s\n", Header(e.unit.Generator, e.unit.Version), e.unit.Package)
}

func (e *Emitter) emitImports() {
	switch len(e.unit.Imports) {
	case 0:
		return
	case 1:
		fmt.Fprintf(&e.buf, "\nimport %s\n", importSpec(e.unit.Imports[0]))
	default:
		e.buf.WriteString("\nimport (\n")
		for _, imp := range e.unit.Imports {
			fmt.Fprintf(&e.buf, "\t%s\n", importSpec(imp))
		}
		e.buf.WriteString(")\n")
	}
}

func importSpec(imp host.Import) string {
	if imp.Name == "" {
		return strconv.Quote(imp.Path)
	}
	return imp.Name + " " + strconv.Quote(imp.Path)
}

func (e *Emitter) emitHooks() {
	for _, a := range e.unit.Accessors {
		fmt.Fprintf(&e.buf, "\n// %s is implemented by %s to veto changes of %s.\n", a.Changing.Interface, e.unit.Type, a.Name)
		fmt.Fprintf(&e.buf, "type %s interface {\n\t%s(oldValue, newValue %s, cancel *bool)\n}\n",
			a.Changing.Interface, a.Changing.Method, a.Type)
		fmt.Fprintf(&e.buf, "\n// %s is implemented by %s to observe stored changes of %s.\n", a.Changed.Interface, e.unit.Type, a.Name)
		fmt.Fprintf(&e.buf, "type %s interface {\n\t%s(newValue %s)\n}\n",
			a.Changed.Interface, a.Changed.Method, a.Type)
	}
}

// emitAssertions pins hooks the type already declares: a signature that
// drifts from the accessor type fails to compile instead of being skipped.
func (e *Emitter) emitAssertions() {
	if !e.unit.HasAssertions() {
		return
	}
	e.buf.WriteString("\n")
	for _, a := range e.unit.Accessors {
		for _, h := range []ir.Hook{a.Changing, a.Changed} {
			if h.Declared {
				fmt.Fprintf(&e.buf, "var _ %s = (*%s)(nil)\n", h.Interface, e.unit.Type)
			}
		}
	}
}

func (e *Emitter) emitGetter(a ir.Accessor) {
	key := Quote(a.Key)
	fmt.Fprintf(&e.buf, "\n// %s returns the setting stored under %s.\n", a.Name, key)
	if len(a.Annotations) > 0 {
		e.buf.WriteString("//\n")
		for _, an := range a.Annotations {
			fmt.Fprintf(&e.buf, "// @%s%s\n", an.FQN, an.Args)
		}
	}
	fmt.Fprintf(&e.buf, "func (%s *%s) %s() %s {\n", e.unit.Receiver, e.unit.Type, a.Name, a.Type)
	fmt.Fprintf(&e.buf, "\treturn getSetting[%s](%s.settingsBase(), %s)\n}\n", a.Type, e.unit.Receiver, key)
}

func (e *Emitter) emitSetter(a ir.Accessor) {
	r, key := e.unit.Receiver, Quote(a.Key)
	fmt.Fprintf(&e.buf, "\n// %s stores value under %s and reports the change.\n", a.Setter, key)
	fmt.Fprintf(&e.buf, "func (%s *%s) %s(value %s) {\n", r, e.unit.Type, a.Setter, a.Type)
	fmt.Fprintf(&e.buf, "\toldValue := getSetting[%s](%s.settingsBase(), %s)\n", a.Type, r, key)
	e.buf.WriteString("\tif settingEqual(oldValue, value) {\n\t\treturn\n\t}\n")
	fmt.Fprintf(&e.buf, "\tif hook, ok := any(%s).(%s); ok {\n", r, a.Changing.Interface)
	e.buf.WriteString("\t\tcancel := false\n")
	fmt.Fprintf(&e.buf, "\t\thook.%s(oldValue, value, &cancel)\n", a.Changing.Method)
	e.buf.WriteString("\t\tif cancel {\n\t\t\treturn\n\t\t}\n\t}\n")
	fmt.Fprintf(&e.buf, "\tif !setSetting(%s.settingsBase(), %s, value) {\n\t\treturn\n\t}\n", r, key)
	fmt.Fprintf(&e.buf, "\t%s.settingsBase().notifyChanged(%s)\n", r, strconv.Quote(a.Name))
	fmt.Fprintf(&e.buf, "\tif hook, ok := any(%s).(%s); ok {\n", r, a.Changed.Interface)
	fmt.Fprintf(&e.buf, "\t\thook.%s(value)\n\t}\n}\n", a.Changed.Method)
}
