// Package validate runs the per-group checks that gate synthesis. Every
// check always runs so that one pass reports all problems of a group.
package validate

import (
	"github.com/kirrishima/FluentSettings/internal/diag"
	"github.com/kirrishima/FluentSettings/internal/host"
	"github.com/kirrishima/FluentSettings/internal/sema"
	"github.com/kirrishima/FluentSettings/internal/source"
)

// DefaultBase is the type every enclosing type must embed.
const DefaultBase = "LocalSettingsBase"

type Options struct {
	// Base is the name of the required embedded type, declared in the
	// group's own package.
	Base string
}

func (o Options) base(ns string) (qualified, display string) {
	b := o.Base
	if b == "" {
		b = DefaultBase
	}
	return ns + "." + b, b
}

// Group runs every check and reports whether g may be synthesized.
func Group(h host.Host, g sema.Group, opts Options, r diag.Reporter) bool {
	keysOK := DuplicateKeys(g, r)
	baseOK := BaseType(h, g, opts, r)
	return keysOK && baseOK
}

// DuplicateKeys reports FS002 for each member whose effective key is shared
// with another member of the group.
func DuplicateKeys(g sema.Group, r diag.Reporter) bool {
	byKey := make(map[string][]int, len(g.Members))
	order := make([]string, 0, len(g.Members))
	for i, m := range g.Members {
		k := m.EffectiveKey()
		if _, ok := byKey[k]; !ok {
			order = append(order, k)
		}
		byKey[k] = append(byKey[k], i)
	}

	ok := true
	for _, k := range order {
		idx := byKey[k]
		if len(idx) < 2 {
			continue
		}
		ok = false
		names := make([]string, len(idx))
		for n, i := range idx {
			names[n] = g.Members[i].Name
		}
		for _, i := range idx {
			others := make([]source.Span, 0, len(idx)-1)
			for _, j := range idx {
				if j != i {
					others = append(others, g.Members[j].Span)
				}
			}
			diag.ReportDuplicateKey(r, g.Members[i].Span, k, names, others)
		}
	}
	return ok
}

// BaseType reports FS001 when the enclosing type does not embed the base
// type, directly or through other embedded types.
func BaseType(h host.Host, g sema.Group, opts Options, r diag.Reporter) bool {
	want, display := opts.base(g.Key.Namespace)
	for _, a := range h.Ancestors(g.Owner) {
		if a.QualifiedName() == want {
			return true
		}
	}
	diag.ReportMissingBaseType(r, g.Owner.Span, g.Owner.Name, display)
	return false
}
