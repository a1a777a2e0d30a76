package diag

import "github.com/kirrishima/FluentSettings/internal/source"

// Reporter: минимальный контракт получения диагностик от фаз.
// Реализации: BagReporter (кладёт в Bag), Collector (буфер одной группы).
type Reporter interface {
	Report(d *Diagnostic)
}

// ReportBuilder accumulates diagnostic details before emitting to Reporter.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// NewReportBuilder constructs a builder bound to Reporter. The message is the
// code template applied to args.
func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, args ...string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		diag: Diagnostic{
			Severity: sev,
			Code:     code,
			Message:  code.Format(args...),
			Args:     args,
			Primary:  primary,
		},
	}
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, code Code, primary source.Span, args ...string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, args...)
}

// ReportWarning is a shortcut for SevWarning diagnostics.
func ReportWarning(r Reporter, code Code, primary source.Span, args ...string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, primary, args...)
}

// WithNote appends a note to diagnostic.
func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Notes = append(b.diag.Notes, Note{Span: sp, Msg: msg})
	return b
}

// Emit sends diagnostic to underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		d := b.diag
		b.reporter.Report(&d)
	}
	b.emitted = true
}

// Diagnostic returns accumulated diagnostic without emitting.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}

// BagReporter: адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d *Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// Collector buffers diagnostics of one unit of work (a group) so they can be
// committed together or dropped together.
type Collector struct {
	items []*Diagnostic
}

func (c *Collector) Report(d *Diagnostic) {
	if d != nil {
		c.items = append(c.items, d)
	}
}

// Items returns the buffered diagnostics in report order.
func (c *Collector) Items() []*Diagnostic {
	return c.items
}

// HasErrors reports whether any buffered diagnostic is an error.
func (c *Collector) HasErrors() bool {
	for _, d := range c.items {
		if d.Severity.Blocking() {
			return true
		}
	}
	return false
}

// FlushTo forwards every buffered diagnostic to r in order.
func (c *Collector) FlushTo(r Reporter) {
	if r == nil {
		return
	}
	for _, d := range c.items {
		r.Report(d)
	}
}
