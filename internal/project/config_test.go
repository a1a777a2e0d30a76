package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
[generate]
output = "gen"
jobs = 4
cache = false

[diagnostics]
format = "short"
`)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	p, ok, err := Load(nested)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, filepath.Join(root, ConfigFile), p.Path)

	cfg := p.Config
	require.Equal(t, 4, cfg.Generate.Jobs)
	require.False(t, cfg.Generate.Cache)
	require.Equal(t, "short", cfg.Diagnostics.Format)
	// не заданные ключи остаются по умолчанию
	require.Equal(t, "LocalSetting", cfg.Generate.Activation)
	require.Equal(t, 100, cfg.Diagnostics.Max)

	require.Equal(t, filepath.Join(root, "gen"), p.OutputDir(nested))

	path, ok, err := FindConfig(nested)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, filepath.Join(root, ConfigFile), path)
}

func TestLoadMissing(t *testing.T) {
	p, ok, err := Load(t.TempDir())
	require.NoError(t, err)
	// выше временного каталога файла быть не должно
	if ok {
		t.Skipf("found %s above the temp dir", p.Path)
	}
	require.Nil(t, p)
	var none *Project
	require.Equal(t, "in", none.OutputDir("in"))
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{"syntax", "[generate\n", "failed to parse TOML"},
		{"unknown key", "[generate]\nouptut = \"x\"\n", "unknown keys: generate.ouptut"},
		{"activation", "[generate]\nactivation = \"Local Setting\"\n", "activation"},
		{"base", "[generate]\nbase = \"pkg.Base\"\n", "base"},
		{"suffix", "[generate]\nsuffix = \"_gen_test.go\"\n", "suffix"},
		{"jobs", "[generate]\njobs = -1\n", "jobs"},
		{"max", "[diagnostics]\nmax = -5\n", "max"},
		{"format", "[diagnostics]\nformat = \"xml\"\n", "format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := LoadConfig(path)
			require.Error(t, err)
			require.True(t, strings.Contains(err.Error(), tt.want), err.Error())
		})
	}
}

func TestDigest(t *testing.T) {
	a := Sum([]byte("a"))
	b := Sum([]byte("b"))
	require.False(t, a.IsZero())
	require.True(t, Digest{}.IsZero())
	require.NotEqual(t, Combine(a, b), Combine(b, a))
	require.Equal(t, Combine(a, b), Combine(a, b))
	require.Len(t, a.String(), 64)
}
