// Package synth turns a validated group into an ir.Unit: one accessor pair
// per member plus the names of its hook interfaces.
package synth

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kirrishima/FluentSettings/internal/host"
	"github.com/kirrishima/FluentSettings/internal/ir"
	"github.com/kirrishima/FluentSettings/internal/sema"
)

const (
	DefaultGenerator = "fluentsettings"
	DefaultSuffix    = "_localsettings.gen.go"
)

// Options control naming of the produced unit.
type Options struct {
	Generator string
	Version   string
	Suffix    string // окончание имени файла
}

func (o Options) generator() string {
	if o.Generator == "" {
		return DefaultGenerator
	}
	return o.Generator
}

func (o Options) suffix() string {
	if o.Suffix == "" {
		return DefaultSuffix
	}
	return o.Suffix
}

// Build produces the unit for g. The group must already be valid; Build does
// not check keys or ancestry. h is asked for the members of the enclosing
// type so that hooks the type already declares get a static check.
func Build(h host.Host, g sema.Group, opts Options) ir.Unit {
	declared := make(map[string]bool)
	if h != nil {
		for _, m := range h.Members(g.Owner) {
			if m.Method {
				declared[m.Name] = true
			}
		}
	}

	typ := g.Owner.Name
	u := ir.Unit{
		FileName:  FileName(typ, opts.suffix()),
		Package:   g.Key.Namespace,
		Type:      typ,
		Receiver:  Receiver(typ),
		Generator: opts.generator(),
		Version:   opts.Version,
	}

	var imports []host.Import
	for _, c := range g.Members {
		imports = append(imports, c.Imports...)
		acc := ir.Accessor{
			Name:   c.Name,
			Setter: "Set" + c.Name,
			Type:   c.Type,
			Key:    c.EffectiveKey(),
			Changing: ir.Hook{
				Interface: HookInterface(typ, c.Name, "Changing"),
				Method:    "On" + c.Name + "Changing",
			},
			Changed: ir.Hook{
				Interface: HookInterface(typ, c.Name, "Changed"),
				Method:    "On" + c.Name + "Changed",
			},
		}
		acc.Changing.Declared = declared[acc.Changing.Method]
		acc.Changed.Declared = declared[acc.Changed.Method]
		for _, a := range c.Annotations {
			acc.Annotations = append(acc.Annotations, ir.Annotation{FQN: a.FQN, Args: a.Args})
		}
		u.Accessors = append(u.Accessors, acc)
	}
	u.Imports = ir.SortImports(imports)
	for _, imp := range u.Imports {
		// однобуквенный receiver не должен затенять пакет из типа
		if host.ImportName(imp) == u.Receiver {
			u.Receiver = "recv"
		}
	}
	return u
}

// FileName maps a type name to its generated file: HTTPPrefs -> http_prefs<suffix>.
func FileName(typ, suffix string) string {
	return snake(typ) + suffix
}

// Receiver is the lower-cased first letter of the type, "s" when the type
// does not start with a letter.
func Receiver(typ string) string {
	r, _ := utf8.DecodeRuneInString(typ)
	if r == utf8.RuneError || !unicode.IsLetter(r) {
		return "s"
	}
	return string(unicode.ToLower(r))
}

func snake(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			// граница слова: aB, или ABc (конец аббревиатуры)
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// HookInterface names the unexported interface of one hook event:
// (Prefs, Login, Changing) -> prefs_LoginChanging. A single "_" separates type
// and member and underscores inside either name are written as "_0", so two
// different (type, member) pairs never share a name in one package. Types
// that do not start with an upper-case letter get a leading "_".
func HookInterface(typ, member, event string) string {
	var b strings.Builder
	r, n := utf8.DecodeRuneInString(typ)
	if unicode.IsUpper(r) {
		b.WriteRune(unicode.ToLower(r))
		typ = typ[n:]
	} else {
		b.WriteByte('_')
	}
	b.WriteString(escapeUnderscores(typ))
	b.WriteByte('_')
	b.WriteString(escapeUnderscores(member))
	b.WriteString(event)
	return b.String()
}

func escapeUnderscores(s string) string {
	return strings.ReplaceAll(s, "_", "_0")
}
