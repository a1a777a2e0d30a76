// Package ir is the intermediate form between synthesis and rendering: a
// Unit is one generated file, an Accessor one getter/setter pair with its
// hooks.
package ir

import (
	"sort"

	"github.com/kirrishima/FluentSettings/internal/host"
)

// Hook is an optional extension point: an unexported interface with a
// single method that the enclosing type may implement.
type Hook struct {
	Interface string // prefs_LoginChanging
	Method    string // OnLoginChanging
	Declared  bool   // тип объявляет метод: генерируется статическая проверка
}

// Annotation is re-attached to the getter as "// @<FQN><Args>".
type Annotation struct {
	FQN  string
	Args string
}

type Accessor struct {
	Name        string // Login
	Setter      string // SetLogin
	Type        string // string, time.Duration, []model.Form
	Key         string // эффективный ключ
	Annotations []Annotation
	Changing    Hook
	Changed     Hook
}

// Unit is one generated accessor file.
type Unit struct {
	FileName  string
	Package   string
	Type      string // Prefs
	Receiver  string // p
	Generator string // fluentsettings
	Version   string
	Imports   []host.Import
	Accessors []Accessor
}

// HasAssertions reports whether the unit carries static hook assertions.
func (u Unit) HasAssertions() bool {
	for _, a := range u.Accessors {
		if a.Changing.Declared || a.Changed.Declared {
			return true
		}
	}
	return false
}

// SortImports orders imports by path and drops duplicates.
func SortImports(imports []host.Import) []host.Import {
	seen := make(map[host.Import]bool, len(imports))
	out := make([]host.Import, 0, len(imports))
	for _, imp := range imports {
		if seen[imp] {
			continue
		}
		seen[imp] = true
		out = append(out, imp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Name < out[j].Name
	})
	return out
}
