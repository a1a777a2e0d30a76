// Package sema binds scanned declarations to symbols (resolve.go) and groups
// the resulting candidates by enclosing type (group.go).
package sema

import (
	"github.com/kirrishima/FluentSettings/internal/host"
	"github.com/kirrishima/FluentSettings/internal/source"
)

// Annotation is an auxiliary annotation copied to the generated accessor.
type Annotation struct {
	FQN  string `msgpack:"fqn"`
	Args string `msgpack:"args"`
}

// Text renders the annotation as a directive body: "@fqn{args}".
func (a Annotation) Text() string {
	return "@" + a.FQN + a.Args
}

// Candidate is a member that will get an accessor, provided its group validates.
type Candidate struct {
	Span        source.Span     `msgpack:"span"`
	Name        string          `msgpack:"name"`
	Type        string          `msgpack:"type"`
	Imports     []host.Import   `msgpack:"imports"`
	Owner       host.TypeSymbol `msgpack:"owner"`
	Namespace   string          `msgpack:"ns"`
	Annotations []Annotation    `msgpack:"annotations"`
	Key         string          `msgpack:"key"` // явный ключ, "" если не задан
}

// EffectiveKey is the explicit key or, when none was given, the member name.
func (c Candidate) EffectiveKey() string {
	if c.Key != "" {
		return c.Key
	}
	return c.Name
}
