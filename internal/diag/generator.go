package diag

import (
	"strings"

	"github.com/kirrishima/FluentSettings/internal/source"
)

// MissingBaseType builds FS001 at the enclosing type's declaration site.
func MissingBaseType(typeSpan source.Span, typeName, baseName string) *Diagnostic {
	return &Diagnostic{
		Severity: SevError,
		Code:     GenMissingBaseType,
		Message:  GenMissingBaseType.Format(typeName, baseName),
		Args:     []string{typeName, baseName},
		Primary:  typeSpan,
	}
}

// DuplicateKey builds FS002 for one colliding member. names lists every
// member sharing the key, others holds the spans of the members other than
// the one at span.
func DuplicateKey(span source.Span, key string, names []string, others []source.Span) *Diagnostic {
	list := strings.Join(names, ", ")
	d := &Diagnostic{
		Severity: SevError,
		Code:     GenDuplicateKey,
		Message:  GenDuplicateKey.Format(key, list),
		Args:     []string{key, list},
		Primary:  span,
	}
	for _, sp := range others {
		d.WithNote(sp, "key '"+key+"' is also used here")
	}
	return d
}

// InternalError builds FS099; cause is a short description of the failure.
func InternalError(typeSpan source.Span, typeName, cause string) *Diagnostic {
	return &Diagnostic{
		Severity: SevError,
		Code:     GenInternalError,
		Message:  GenInternalError.Format(typeName, cause),
		Args:     []string{typeName, cause},
		Primary:  typeSpan,
	}
}

func ReportMissingBaseType(r Reporter, typeSpan source.Span, typeName, baseName string) {
	if r != nil {
		r.Report(MissingBaseType(typeSpan, typeName, baseName))
	}
}

func ReportDuplicateKey(r Reporter, span source.Span, key string, names []string, others []source.Span) {
	if r != nil {
		r.Report(DuplicateKey(span, key, names, others))
	}
}

func ReportInternalError(r Reporter, typeSpan source.Span, typeName, cause string) {
	if r != nil {
		r.Report(InternalError(typeSpan, typeName, cause))
	}
}
