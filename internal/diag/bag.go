package diag

import (
	"cmp"
	"slices"

	"github.com/kirrishima/FluentSettings/internal/source"
)

const bagLimit = 0xFFFF

// Bag collects the diagnostics of one run up to a fixed limit. Extra
// diagnostics are dropped silently; Add reports whether one was kept.
type Bag struct {
	items []*Diagnostic
	limit int
}

// NewBag returns a bag holding at most max diagnostics; max <= 0 means the
// largest supported limit.
func NewBag(max int) *Bag {
	if max <= 0 || max > bagLimit {
		max = bagLimit
	}
	return &Bag{items: make([]*Diagnostic, 0, min(max, 64)), limit: max}
}

func (b *Bag) Add(d *Diagnostic) bool {
	if d == nil || len(b.items) >= b.limit {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Len() int { return len(b.items) }

// Items возвращает внутренний срез, менять его нельзя.
func (b *Bag) Items() []*Diagnostic { return b.items }

func (b *Bag) HasErrors() bool {
	return slices.ContainsFunc(b.items, func(d *Diagnostic) bool { return d.Severity.Blocking() })
}

func (b *Bag) HasWarnings() bool {
	return slices.ContainsFunc(b.items, func(d *Diagnostic) bool { return d.Severity >= SevWarning })
}

// Count returns how many diagnostics carry the given code.
func (b *Bag) Count(code Code) int {
	n := 0
	for _, d := range b.items {
		if d.Code == code {
			n++
		}
	}
	return n
}

// Merge appends everything from other. The limit grows to fit so that
// diagnostics already accepted by a group are never lost.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.limit = min(max(b.limit, len(b.items)+len(other.items)), bagLimit)
	for _, d := range other.items {
		b.Add(d)
	}
}

// Sort orders by primary span, then errors before warnings, then code and
// message. The order is stable so equal diagnostics keep report order.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y *Diagnostic) int {
		return cmp.Or(
			x.Primary.Compare(y.Primary),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
			cmp.Compare(x.Message, y.Message),
		)
	})
}

// Dedup drops repeats of the same code and message at the same span,
// keeping the first.
func (b *Bag) Dedup() {
	type key struct {
		code Code
		at   source.Span
		msg  string
	}
	seen := make(map[key]struct{}, len(b.items))
	b.items = slices.DeleteFunc(b.items, func(d *Diagnostic) bool {
		k := key{d.Code, d.Primary, d.Message}
		if _, dup := seen[k]; dup {
			return true
		}
		seen[k] = struct{}{}
		return false
	})
}
