// Package scan is the syntactic filter in front of semantic resolution: it
// picks member declarations that still need a body and carry annotations.
// Nothing is bound here.
package scan

import (
	"github.com/kirrishima/FluentSettings/internal/host"
)

// IsCandidate reports whether d is incomplete and annotated.
func IsCandidate(d host.Declaration) bool {
	return d.Incomplete && len(d.Annotations) > 0
}

// Candidates returns the candidate declarations in host order.
func Candidates(decls []host.Declaration) []host.Declaration {
	out := make([]host.Declaration, 0, len(decls)/2+1)
	for _, d := range decls {
		if IsCandidate(d) {
			out = append(out, d)
		}
	}
	return out
}
