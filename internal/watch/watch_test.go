package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatcherBatchesChanges(t *testing.T) {
	dir := t.TempDir()
	w := New([]string{dir}, Options{
		Debounce: 50 * time.Millisecond,
		Match:    func(p string) bool { return strings.HasSuffix(p, ".go") },
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var batches [][]string
	got := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, changed []string) error {
			mu.Lock()
			batches = append(batches, changed)
			mu.Unlock()
			got <- struct{}{}
			return nil
		})
	}()

	// даём inotify время подписаться
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.go"), []byte("package p\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package p\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	select {
	case <-got:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	var all []string
	for _, b := range batches {
		all = append(all, b...)
	}
	require.Contains(t, all, filepath.Join(dir, "a.go"))
	require.NotContains(t, all, filepath.Join(dir, "notes.txt"))
}

func TestWatcherMissingDir(t *testing.T) {
	w := New([]string{filepath.Join(t.TempDir(), "missing")}, Options{})
	err := w.Run(context.Background(), func(context.Context, []string) error { return nil })
	require.Error(t, err)
}
