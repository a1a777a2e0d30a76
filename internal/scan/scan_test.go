package scan

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kirrishima/FluentSettings/internal/host"
)

func TestCandidates(t *testing.T) {
	ann := []host.AnnotationSyntax{{Name: "LocalSetting"}}
	decls := []host.Declaration{
		{ID: 0, Name: "Login", Incomplete: true, Annotations: ann},
		{ID: 1, Name: "Helper", Incomplete: false, Annotations: ann},
		{ID: 2, Name: "Bare", Incomplete: true},
		{ID: 3, Name: "Password", Incomplete: true, Annotations: []host.AnnotationSyntax{{Name: "Other"}}},
	}

	var got []string
	for _, d := range Candidates(decls) {
		got = append(got, d.Name)
	}
	// аннотация любая: активирующую проверяет resolver
	if diff := cmp.Diff([]string{"Login", "Password"}, got); diff != "" {
		t.Fatalf("candidates mismatch (-want +got):\n%s", diff)
	}
	if len(Candidates(nil)) != 0 {
		t.Fatalf("expected no candidates for nil input")
	}
}
