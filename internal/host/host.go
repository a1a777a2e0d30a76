// Package host defines the capability interface through which the generator
// queries declarations, symbols and annotations, and an in-memory Table that
// implements it. Hosts (Go sources, manifests, tests) fill a Table; the
// generator stages only ever see the Host interface.
package host

import (
	"github.com/kirrishima/FluentSettings/internal/source"
)

// Import is one import of the file a declaration lives in.
// Name is the explicit import name, empty when the package name is used.
type Import struct {
	Name string `msgpack:"name"`
	Path string `msgpack:"path"`
}

// AnnotationSyntax is an annotation as written: `// @member:Name{Key: "x"}`.
type AnnotationSyntax struct {
	Target string      // "" или "member"
	Name   string      // как в исходнике: LocalSetting, validate.Required
	Args   string      // текст аргументов вместе со скобками, "" если нет
	Span   source.Span // весь комментарий
}

// Text renders the annotation back in directive form, without the "//".
func (a AnnotationSyntax) Text() string {
	s := "@"
	if a.Target != "" {
		s += a.Target + ":"
	}
	return s + a.Name + a.Args
}

// Declaration is the purely syntactic view of a member declaration.
type Declaration struct {
	ID          int
	Span        source.Span // имя члена
	Name        string
	Owner       string // тип-владелец, как написан у receiver
	Incomplete  bool   // тело поставляется отдельно (генератором)
	Annotations []AnnotationSyntax
}

// TypeSymbol identifies a type declaration.
type TypeSymbol struct {
	Namespace string
	Name      string
	Span      source.Span
}

// QualifiedName returns "<namespace>.<name>".
func (t TypeSymbol) QualifiedName() string {
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

func (t TypeSymbol) IsZero() bool {
	return t.Name == ""
}

// MemberSymbol is a bound member.
type MemberSymbol struct {
	Decl    int // Declaration.ID, -1 for members without declaration syntax
	Name    string
	Type    string   // spelling of the member type in its file
	Imports []Import // imports the Type spelling refers to
	Owner   TypeSymbol
	Span    source.Span
	Method  bool // false для полей структуры
}

// Host is what the generator needs from a toolchain.
type Host interface {
	// Namespace is the package the generated code is emitted into.
	Namespace() string
	// Declarations returns member declarations in source order.
	Declarations() []Declaration
	// Bind resolves a declaration to its symbol; false when it cannot be bound.
	Bind(d Declaration) (MemberSymbol, bool)
	// HasAnnotation reports whether m carries an annotation whose resolved
	// fully-qualified name is fqn.
	HasAnnotation(m MemberSymbol, fqn string) bool
	// NamedArgument returns the value of a named argument of the annotation fqn on m.
	NamedArgument(m MemberSymbol, fqn, name string) (string, bool)
	// ResolveAnnotation returns the fully-qualified name of an annotation
	// written on m; false when it does not resolve.
	ResolveAnnotation(m MemberSymbol, a AnnotationSyntax) (string, bool)
	// Ancestors returns every type t embeds, transitively, nearest first.
	Ancestors(t TypeSymbol) []TypeSymbol
	// Members returns every member declared on t.
	Members(t TypeSymbol) []MemberSymbol
}
