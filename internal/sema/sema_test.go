package sema

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/kirrishima/FluentSettings/internal/host"
	"github.com/kirrishima/FluentSettings/internal/scan"
	"github.com/kirrishima/FluentSettings/internal/source"
)

type member struct {
	owner, name, typ string
	anns             []host.AnnotationSyntax
}

func activation(args string) host.AnnotationSyntax {
	return host.AnnotationSyntax{Name: "LocalSetting", Args: args}
}

func newTable(members ...member) *host.Table {
	tbl := host.NewTable("prefs")
	tbl.AddImports(0, host.Import{Name: "v", Path: "example.com/validate"})
	tbl.AddType("Prefs", source.Span{}, "LocalSettingsBase")
	tbl.AddType("Form", source.Span{})
	for i, m := range members {
		tbl.AddDeclaration(host.Declaration{
			Span:        source.Span{Start: uint32(i * 10), End: uint32(i*10 + 5)},
			Name:        m.name,
			Owner:       m.owner,
			Incomplete:  true,
			Annotations: m.anns,
		}, m.typ, nil)
	}
	return tbl
}

func resolveAll(t *testing.T, h host.Host) []Candidate {
	t.Helper()
	cands, err := Resolve(context.Background(), h, scan.Candidates(h.Declarations()), ResolveOptions{})
	require.NoError(t, err)
	return cands
}

func TestResolveKeys(t *testing.T) {
	tbl := newTable(
		member{"Prefs", "Login", "string", []host.AnnotationSyntax{activation("")}},
		member{"Prefs", "Password", "string", []host.AnnotationSyntax{activation(`{Key: "PSWD"}`)}},
		member{"Prefs", "Theme", "string", []host.AnnotationSyntax{activation(`{Key: ""}`)}},
	)
	cands := resolveAll(t, tbl)
	require.Len(t, cands, 3)

	require.Equal(t, "", cands[0].Key)
	require.Equal(t, "Login", cands[0].EffectiveKey())
	require.Equal(t, "PSWD", cands[1].EffectiveKey())
	// пустой ключ равносилен отсутствию
	require.Equal(t, "Theme", cands[2].EffectiveKey())
	require.Equal(t, "prefs", cands[0].Namespace)
	require.Equal(t, "Prefs", cands[0].Owner.Name)
}

func TestResolveNormalizesExplicitKey(t *testing.T) {
	// NFD: "e" + U+0301
	tbl := newTable(member{"Prefs", "Cafe", "string", []host.AnnotationSyntax{activation("{Key: \"cafe\u0301\"}")}})
	cands := resolveAll(t, tbl)
	require.Len(t, cands, 1)
	require.Equal(t, "caf\u00e9", cands[0].Key)
}

func TestResolveDropsUnboundAndInactive(t *testing.T) {
	tbl := newTable(
		member{"Missing", "Orphan", "string", []host.AnnotationSyntax{activation("")}},
		member{"Prefs", "NoActivation", "string", []host.AnnotationSyntax{{Target: "member", Name: "v.Required"}}},
		member{"Prefs", "WrongNamespace", "string", []host.AnnotationSyntax{{Name: "other.LocalSetting"}}},
		member{"Prefs", "Login", "string", []host.AnnotationSyntax{activation("")}},
	)
	cands := resolveAll(t, tbl)
	require.Len(t, cands, 1)
	require.Equal(t, "Login", cands[0].Name)
}

func TestResolveCopiesMemberTargetedAnnotations(t *testing.T) {
	tbl := newTable(member{"Prefs", "Login", "string", []host.AnnotationSyntax{
		activation(""),
		{Target: "member", Name: "LocalSetting"},
		{Target: "member", Name: "prefs.LocalSetting", Args: "{}"},
		{Target: "member", Name: "v.Required"},
		{Name: "v.Untargeted"},
		{Target: "field", Name: "v.Field"},
		{Target: "member", Name: "Display", Args: `{Name: "Логин"}`},
		{Target: "member", Name: "nowhere.Thing"},
	}})
	cands := resolveAll(t, tbl)
	require.Len(t, cands, 1)

	want := []Annotation{
		{FQN: "example.com/validate.Required"},
		{FQN: "prefs.Display", Args: `{Name: "Логин"}`},
	}
	if diff := cmp.Diff(want, cands[0].Annotations); diff != "" {
		t.Fatalf("annotations mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, `@prefs.Display{Name: "Логин"}`, cands[0].Annotations[1].Text())
}

func TestResolveCustomActivation(t *testing.T) {
	tbl := newTable(
		member{"Prefs", "Login", "string", []host.AnnotationSyntax{{Name: "Setting"}}},
		member{"Prefs", "Other", "string", []host.AnnotationSyntax{activation("")}},
	)
	cands, err := Resolve(context.Background(), tbl, tbl.Declarations(), ResolveOptions{Activation: "Setting"})
	require.NoError(t, err)
	require.Len(t, cands, 1)
	require.Equal(t, "Login", cands[0].Name)
}

type panickyHost struct {
	*host.Table
	poison string
}

func (p panickyHost) Bind(d host.Declaration) (host.MemberSymbol, bool) {
	if d.Name == p.poison {
		panic("symbol table corrupted")
	}
	return p.Table.Bind(d)
}

func TestResolveContainsPanics(t *testing.T) {
	tbl := newTable(
		member{"Prefs", "Login", "string", []host.AnnotationSyntax{activation("")}},
		member{"Prefs", "Bad", "string", []host.AnnotationSyntax{activation("")}},
		member{"Prefs", "Theme", "string", []host.AnnotationSyntax{activation("")}},
	)
	cands := resolveAll(t, panickyHost{Table: tbl, poison: "Bad"})
	require.Equal(t, []string{"Login", "Theme"}, []string{cands[0].Name, cands[1].Name})
}

func TestResolveCancelled(t *testing.T) {
	tbl := newTable(member{"Prefs", "Login", "string", []host.AnnotationSyntax{activation("")}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cands, err := Resolve(ctx, tbl, tbl.Declarations(), ResolveOptions{})
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, cands)
}

func TestGroupByOwner(t *testing.T) {
	tbl := newTable(
		member{"Prefs", "Login", "string", []host.AnnotationSyntax{activation("")}},
		member{"Form", "Name", "string", []host.AnnotationSyntax{activation("")}},
		member{"Prefs", "Password", "string", []host.AnnotationSyntax{activation("")}},
	)
	groups := GroupByOwner(resolveAll(t, tbl))
	require.Len(t, groups, 2)

	require.Equal(t, GroupKey{Namespace: "prefs", Type: "Prefs"}, groups[0].Key)
	require.Equal(t, []string{"Login", "Password"}, groups[0].Names())
	require.Equal(t, "prefs.Form", groups[1].Key.String())
	require.Equal(t, []string{"Name"}, groups[1].Names())
	require.Empty(t, GroupByOwner(nil))
}
