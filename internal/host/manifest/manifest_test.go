package manifest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kirrishima/FluentSettings/internal/diag"
	"github.com/kirrishima/FluentSettings/internal/host"
	"github.com/kirrishima/FluentSettings/internal/source"
)

const prefsTOML = `package = "prefs"

[[imports]]
path = "time"

[[imports]]
name = "v"
path = "example.com/validate"

[[types]]
name = "Prefs"
embeds = ["LocalSettingsBase"]

[[types.members]]
name = "Login"
type = "string"
annotations = ["@LocalSetting"]

[[types.members]]
name = "Password"
type = "string"
annotations = ['@LocalSetting{Key: "PSWD"}', "@member:v.Required"]

[[types.members]]
name = "Timeout"
type = "time.Duration"
annotations = ["@LocalSetting"]

[[types.members]]
name = "OnLoginChanged"
type = "func(string)"
incomplete = false
`

const prefsYAML = `package: prefs
imports:
  - path: time
  - name: v
    path: example.com/validate
types:
  - name: Prefs
    embeds: [LocalSettingsBase]
    members:
      - name: Login
        type: string
        annotations: ["@LocalSetting"]
      - name: Password
        type: string
        annotations:
          - '@LocalSetting{Key: "PSWD"}'
          - "@member:v.Required"
      - name: Timeout
        type: time.Duration
        annotations: ["@LocalSetting"]
      - name: OnLoginChanged
        type: func(string)
        incomplete: false
`

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoadFormats(t *testing.T) {
	for _, tc := range []struct{ name, content string }{
		{"prefs.toml", prefsTOML},
		{"prefs.yaml", prefsYAML},
	} {
		t.Run(tc.name, func(t *testing.T) {
			fs := source.NewFileSet()
			bag := diag.NewBag(10)
			tbl, err := Load(context.Background(), fs, writeManifest(t, tc.name, tc.content), diag.BagReporter{Bag: bag})
			require.NoError(t, err)
			require.Zero(t, bag.Len(), "unexpected diagnostics: %+v", bag.Items())
			require.Equal(t, "prefs", tbl.Namespace())

			decls := tbl.Declarations()
			require.Len(t, decls, 4)
			require.True(t, decls[0].Incomplete)
			require.False(t, decls[3].Incomplete)

			file := fs.Get(decls[1].Span.File)
			require.Equal(t, "Password", string(file.Content[decls[1].Span.Start:decls[1].Span.End]))
			ann := decls[1].Annotations[0]
			require.Equal(t, `@LocalSetting{Key: "PSWD"}`, string(file.Content[ann.Span.Start:ann.Span.End]))

			prefs, ok := tbl.Type("Prefs")
			require.True(t, ok)
			require.Equal(t, "Prefs", string(file.Content[prefs.Span.Start:prefs.Span.End]))

			m, ok := tbl.Bind(decls[1])
			require.True(t, ok)
			key, ok := tbl.NamedArgument(m, "prefs.LocalSetting", "Key")
			require.True(t, ok)
			require.Equal(t, "PSWD", key)
			fqn, ok := tbl.ResolveAnnotation(m, decls[1].Annotations[1])
			require.True(t, ok)
			require.Equal(t, "example.com/validate.Required", fqn)

			timeout, ok := tbl.Bind(decls[2])
			require.True(t, ok)
			require.Equal(t, []host.Import{{Path: "time"}}, timeout.Imports)

			anc := tbl.Ancestors(prefs)
			require.Len(t, anc, 1)
			require.Equal(t, "prefs.LocalSettingsBase", anc[0].QualifiedName())
		})
	}
}

func TestLoadStructuralErrors(t *testing.T) {
	const content = `package = "prefs"

[[types]]
name = "Prefs"

[[types.members]]
name = "Login"

[[types.members]]
name = "Bad Name"
type = "int"

[[types.members]]
name = "Theme"
type = "string"
annotations = ["@LocalSetting{"]

[[types]]
name = "Prefs"
`
	bag := diag.NewBag(10)
	tbl, err := Load(context.Background(), source.NewFileSet(), writeManifest(t, "m.toml", content), diag.BagReporter{Bag: bag})
	require.NoError(t, err)
	require.Equal(t, 3, bag.Count(diag.HostInvalidManifest))
	require.Equal(t, 1, bag.Count(diag.HostBadAnnotation))

	decls := tbl.Declarations()
	require.Len(t, decls, 1)
	require.Equal(t, "Theme", decls[0].Name)
	require.Empty(t, decls[0].Annotations)
}

func TestLoadRejectsUndecodable(t *testing.T) {
	cases := map[string]string{
		"syntax.toml":  "package = \n",
		"unknown.toml": "package = \"p\"\ncolour = \"red\"\n",
		"syntax.yaml":  "package: [\n",
		"unknown.yaml": "package: p\ncolour: red\n",
		"badpkg.toml":  "package = \"1p\"\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			bag := diag.NewBag(10)
			_, err := Load(context.Background(), source.NewFileSet(), writeManifest(t, name, content), diag.BagReporter{Bag: bag})
			require.True(t, errors.Is(err, ErrInvalidManifest), "err = %v", err)
			require.True(t, bag.HasErrors())
			require.Equal(t, diag.HostInvalidManifest, bag.Items()[0].Code)
		})
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load(context.Background(), source.NewFileSet(), writeManifest(t, "m.json", "{}"), nil)
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrInvalidManifest))
	require.True(t, IsManifest("a/b.YML"))
	require.False(t, IsManifest("a/b.go"))
}
