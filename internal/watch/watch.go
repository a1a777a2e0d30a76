// Package watch reruns a callback when files in a set of directories change.
// Rapid saves are batched: the callback sees every path that changed during
// the debounce window, once.
package watch

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/kirrishima/FluentSettings/internal/logging"
)

const DefaultDebounce = 200 * time.Millisecond

// Options configure a Watcher.
type Options struct {
	Debounce time.Duration
	// Match selects the paths that trigger the callback; nil matches all.
	Match func(path string) bool
}

// Watcher watches directories (not recursively).
type Watcher struct {
	dirs []string
	opts Options
}

func New(dirs []string, opts Options) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Watcher{dirs: append([]string(nil), dirs...), opts: opts}
}

// Run blocks until ctx is done. onChange errors are logged and do not stop
// the watcher; the returned error covers setup failures only.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, changed []string) error) error {
	log := logging.FromContext(ctx)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()
	for _, dir := range w.dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		log.Debug("watching", zap.String("dir", dir))
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.opts.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) || (w.opts.Match != nil && !w.opts.Match(event.Name)) {
				continue
			}
			log.Debug("file event", zap.String("path", event.Name), zap.Stringer("op", event.Op))
			pending[event.Name] = struct{}{}
			timer.Reset(w.opts.Debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)
			if err := onChange(ctx, changed); err != nil {
				log.Warn("rebuild failed", zap.Error(err))
			}
		}
	}
}

// relevant drops chmod-only events.
func relevant(e fsnotify.Event) bool {
	return e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
