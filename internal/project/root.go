package project

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ConfigFile is the project file name searched for by FindConfig.
const ConfigFile = "fluentsettings.toml"

// FindConfig returns the nearest fluentsettings.toml in startDir or one of
// its ancestors. ok is false when none exists up to the filesystem root.
func FindConfig(startDir string) (path string, ok bool, err error) {
	dir, err := filepath.Abs(cmp.Or(startDir, "."))
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for d := dir; ; d = filepath.Dir(d) {
		candidate := filepath.Join(d, ConfigFile)
		info, statErr := os.Stat(candidate)
		switch {
		case statErr == nil && !info.IsDir():
			return candidate, true, nil
		case statErr != nil && !errors.Is(statErr, fs.ErrNotExist):
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, statErr)
		}
		if filepath.Dir(d) == d {
			return "", false, nil
		}
	}
}

// AbsDir is the absolute directory that contains path. An explicit --config
// file makes that directory the project root.
func AbsDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Dir(abs), nil
}
