package bootstrap

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmitDefaults(t *testing.T) {
	units, err := Emit(Options{Package: "prefs", Version: "v1.2.3"})
	require.NoError(t, err)
	require.Len(t, units, 2)
	require.Equal(t, ActivationFile, units[0].FileName)
	require.Equal(t, BaseFile, units[1].FileName)

	for _, u := range units {
		src := string(u.Content)
		require.True(t, strings.HasPrefix(src, "// Code generated by fluentsettings v1.2.3. DO NOT EDIT.\n\npackage prefs\n"), u.FileName)
		_, err := parser.ParseFile(token.NewFileSet(), u.FileName, u.Content, parser.ParseComments)
		require.NoError(t, err, u.FileName)
	}

	require.Contains(t, string(units[0].Content), "type LocalSetting struct {\n\tKey string\n}\n")
	base := string(units[1].Content)
	require.Contains(t, base, "type LocalSettingsBase struct {")
	require.Contains(t, base, "\t\"github.com/kirrishima/FluentSettings/settings\"\n")
	require.Contains(t, base, "func getSetting[T any](b *LocalSettingsBase, key string) T {")
	require.Contains(t, base, "func setSetting[T any](b *LocalSettingsBase, key string, value T) bool {")
	require.Contains(t, base, "func getSettingOrDefault[T any](b *LocalSettingsBase, key string) T {")
	require.Contains(t, base, "func settingEqual(a, b any) bool {\n\treturn settings.Equal(a, b)\n}")
}

func TestEmitCustomNames(t *testing.T) {
	units, err := Emit(Options{
		Package:    "app",
		Activation: "Persisted",
		Base:       "SettingsBase",
		Runtime:    "example.com/rt/v2",
		Generator:  "gen",
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(units[0].Content), "// Code generated by gen. DO NOT EDIT.\n"))
	require.Contains(t, string(units[0].Content), "type Persisted struct {")
	require.Contains(t, string(units[0].Content), `// @Persisted{Key: "PSWD"}`)

	base := string(units[1].Content)
	require.Contains(t, base, "\tsettings \"example.com/rt/v2\"\n")
	require.Contains(t, base, "func (b *SettingsBase) settingsBase() *SettingsBase {")
	require.NotContains(t, base, "LocalSettingsBase")
}

func TestEmitIsStable(t *testing.T) {
	a, err := Emit(Options{Package: "prefs"})
	require.NoError(t, err)
	b, err := Emit(Options{Package: "prefs"})
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestEmitRequiresPackage(t *testing.T) {
	_, err := Emit(Options{})
	require.Error(t, err)
}
