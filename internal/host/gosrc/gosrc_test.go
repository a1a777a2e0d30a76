package gosrc

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kirrishima/FluentSettings/internal/diag"
	"github.com/kirrishima/FluentSettings/internal/host"
	"github.com/kirrishima/FluentSettings/internal/source"
)

const prefsGo = `package prefs

import "time"

type Common struct {
	LocalSettingsBase
}

type Prefs struct {
	*Common
	started time.Time
}

func (p *Prefs) OnLoginChanging(oldValue, newValue string, cancel *bool) {}
`

const prefsDecl = `//go:build fluentsettings

package prefs

import (
	"time"

	v "example.com/validate"
)

// @LocalSetting
func (p *Prefs) Login() string

// Password is stored under a short key.
//
// @LocalSetting{Key: "PSWD"}
// @member:v.Required
func (p *Prefs) Password() string

// @LocalSetting
func (p *Prefs) Timeout() time.Duration

// @LocalSetting{Key:
func (p *Prefs) Broken() int
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func TestLoadCollectsDeclarations(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"prefs.go":                   prefsGo,
		"prefs_decl.go":              prefsDecl,
		"prefs_test.go":              "package prefs_test\n",
		"prefs_localsettings.gen.go": GeneratedMarker + " dev. DO NOT EDIT.\n\npackage prefs\n\nfunc (p *Prefs) Login() string { return \"\" }\n",
		"tools.go":                   "//go:build ignore\n\npackage main\n",
		"notes.txt":                  "not go",
	})

	fs := source.NewFileSet()
	bag := diag.NewBag(10)
	tbl, err := Load(context.Background(), fs, dir, diag.BagReporter{Bag: bag})
	require.NoError(t, err)
	require.Equal(t, "prefs", tbl.Namespace())

	decls := tbl.Declarations()
	names := make([]string, 0, len(decls))
	for _, d := range decls {
		names = append(names, d.Name)
	}
	// prefs.go идёт раньше prefs_decl.go
	require.Equal(t, []string{"OnLoginChanging", "Login", "Password", "Timeout", "Broken"}, names)
	require.False(t, decls[0].Incomplete)
	require.True(t, decls[1].Incomplete)

	password := decls[2]
	require.Len(t, password.Annotations, 2)
	require.Equal(t, `{Key: "PSWD"}`, password.Annotations[0].Args)
	require.Equal(t, "member", password.Annotations[1].Target)

	m, ok := tbl.Bind(password)
	require.True(t, ok)
	require.Equal(t, "string", m.Type)
	require.True(t, tbl.HasAnnotation(m, "prefs.LocalSetting"))
	key, ok := tbl.NamedArgument(m, "prefs.LocalSetting", "Key")
	require.True(t, ok)
	require.Equal(t, "PSWD", key)
	fqn, ok := tbl.ResolveAnnotation(m, password.Annotations[1])
	require.True(t, ok)
	require.Equal(t, "example.com/validate.Required", fqn)

	timeout, ok := tbl.Bind(decls[3])
	require.True(t, ok)
	require.Equal(t, "time.Duration", timeout.Type)
	require.Equal(t, []host.Import{{Path: "time"}}, timeout.Imports)

	src := string(fs.Get(password.Span.File).Content)
	require.Equal(t, "Password", src[password.Span.Start:password.Span.End])

	// сломанная аннотация: предупреждение, декларация остаётся без неё
	require.Equal(t, 1, bag.Len())
	require.Equal(t, diag.HostBadAnnotation, bag.Items()[0].Code)
	require.Equal(t, diag.SevWarning, bag.Items()[0].Severity)
	require.Empty(t, decls[4].Annotations)
}

func TestLoadAncestors(t *testing.T) {
	dir := writeFiles(t, map[string]string{"prefs.go": prefsGo})
	tbl, err := Load(context.Background(), source.NewFileSet(), dir, nil)
	require.NoError(t, err)

	prefs, ok := tbl.Type("Prefs")
	require.True(t, ok)
	var got []string
	for _, a := range tbl.Ancestors(prefs) {
		got = append(got, a.QualifiedName())
	}
	require.Equal(t, []string{"prefs.Common", "prefs.LocalSettingsBase"}, got)

	var members []string
	var methods []bool
	for _, m := range tbl.Members(prefs) {
		members = append(members, m.Name)
		methods = append(methods, m.Method)
	}
	require.Equal(t, []string{"started", "OnLoginChanging"}, members)
	require.Equal(t, []bool{false, true}, methods)
}

func TestLoadReportsSyntaxErrors(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"ok.go":  "package prefs\n\ntype Prefs struct{}\n",
		"bad.go": "package prefs\n\nfunc (p *Prefs) Login( string\n",
	})
	bag := diag.NewBag(10)
	tbl, err := Load(context.Background(), source.NewFileSet(), dir, diag.BagReporter{Bag: bag})
	require.NoError(t, err)
	require.True(t, bag.HasErrors())
	require.Equal(t, diag.HostParseError, bag.Items()[0].Code)
	require.Empty(t, tbl.Declarations())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(context.Background(), source.NewFileSet(), writeFiles(t, nil), nil)
	require.True(t, errors.Is(err, ErrNoGoFiles))

	dir := writeFiles(t, map[string]string{
		"a.go": "package a\n",
		"b.go": "package b\n",
	})
	_, err = Load(context.Background(), source.NewFileSet(), dir, nil)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "found packages a and b"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Load(ctx, source.NewFileSet(), dir, nil)
	require.ErrorIs(t, err, context.Canceled)
}
