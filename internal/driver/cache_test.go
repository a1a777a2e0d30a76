package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/kirrishima/FluentSettings/internal/diag"
	"github.com/kirrishima/FluentSettings/internal/project"
	"github.com/kirrishima/FluentSettings/internal/source"
)

func cachedFixture() *fixture {
	return newFixture().
		typ("Prefs", "LocalSettingsBase").
		typ("Bad").
		setting("Prefs", "Login", "string", "").
		setting("Bad", "X", "int", "")
}

func TestRunMemoryCache(t *testing.T) {
	cache := NewMemoryCache(4)
	first := run(t, cachedFixture().tbl, Options{Cache: cache})
	require.Zero(t, first.CacheHits)
	require.Equal(t, 2, cache.Len())

	second := run(t, cachedFixture().tbl, Options{Cache: cache})
	require.Equal(t, 2, second.CacheHits)
	require.Equal(t, first.Artifacts, second.Artifacts)
	require.Equal(t, codes(first.Bag), codes(second.Bag))

	// другая соль - другие ключи
	third := run(t, cachedFixture().tbl, Options{Cache: cache, Salt: project.Sum([]byte("edited"))})
	require.Zero(t, third.CacheHits)

	fourth := run(t, cachedFixture().tbl, Options{Cache: cache, Version: "v9"})
	require.Zero(t, fourth.CacheHits)
}

func TestRunDiskCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenDiskCache("fluentsettings")
	require.NoError(t, err)

	first := run(t, cachedFixture().tbl, Options{Cache: cache})
	require.Zero(t, first.CacheHits)

	reopened, err := OpenDiskCache("fluentsettings")
	require.NoError(t, err)
	second := run(t, cachedFixture().tbl, Options{Cache: reopened})
	require.Equal(t, 2, second.CacheHits)
	require.Equal(t, first.Artifacts, second.Artifacts)
	if diff := cmp.Diff(first.Bag.Items(), second.Bag.Items()); diff != "" {
		t.Fatalf("cached diagnostics differ (-first +second):\n%s", diff)
	}

	require.NoError(t, reopened.DropAll())
	_, err = os.Stat(reopened.Dir())
	require.True(t, os.IsNotExist(err))
	require.NoError(t, reopened.DropAll())
}

func TestDiskCacheEntries(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenDiskCache("fs-test")
	require.NoError(t, err)

	key := project.Sum([]byte("group"))
	var out CacheEntry
	ok, err := cache.Get(key, &out)
	require.NoError(t, err)
	require.False(t, ok)

	entry := &CacheEntry{
		Artifact: &Artifact{Name: "a.gen.go", Content: []byte("package a\n")},
		Diagnostics: []*diag.Diagnostic{
			diag.MissingBaseType(source.Span{File: 1, Start: 2, End: 3}, "Prefs", "LocalSettingsBase"),
		},
	}
	require.NoError(t, cache.Put(key, entry))
	ok, err = cache.Get(key, &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, diskCacheSchemaVersion, out.Schema)
	require.Equal(t, entry.Artifact, out.Artifact)
	require.Equal(t, entry.Diagnostics[0].Message, out.Diagnostics[0].Message)
	require.Equal(t, entry.Diagnostics[0].Primary, out.Diagnostics[0].Primary)

	entries, err := os.ReadDir(filepath.Dir(cache.pathFor(key)))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")

	// повреждённый файл - промах, файл удаляется
	require.NoError(t, os.WriteFile(cache.pathFor(key), []byte{0xc1}, 0o600))
	ok, err = cache.Get(key, &out)
	require.NoError(t, err)
	require.False(t, ok)
	_, err = os.Stat(cache.pathFor(key))
	require.True(t, os.IsNotExist(err))

	// запись другой схемы - тоже промах
	stale, err := msgpack.Marshal(&CacheEntry{Schema: diskCacheSchemaVersion - 1})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cache.pathFor(key), stale, 0o600))
	ok, err = cache.Get(key, &out)
	require.NoError(t, err)
	require.False(t, ok)

	var nilCache *DiskCache
	ok, err = nilCache.Get(key, &out)
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, nilCache.Put(key, entry))
}
