package driver

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/kirrishima/FluentSettings/internal/host/gosrc"
	"github.com/kirrishima/FluentSettings/internal/synth"
)

// WriteArtifacts writes every artifact into dir and returns the paths that
// changed. Files whose content is already up to date are left alone so that
// build tools and watchers do not see spurious writes.
func WriteArtifacts(dir string, arts []Artifact) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var written []string
	for _, a := range arts {
		path := filepath.Join(dir, a.Name)
		old, err := os.ReadFile(path)
		if err == nil && bytes.Equal(old, a.Content) {
			continue
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return written, err
		}
		if err == nil && !isGeneratedFile(old) {
			return written, fmt.Errorf("%s: refusing to overwrite a file not produced by fluentsettings", path)
		}
		if err := writeAtomic(path, a.Content); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// PruneStale removes accessor files an earlier run left in dir for types that
// no longer produce one: the type became invalid, lost its annotations or was
// renamed. A file is stale when its name ends in suffix, it carries the
// generated header, it declares the same package as arts and no artifact
// has its name. Returns the removed paths.
func PruneStale(dir, suffix string, arts []Artifact) ([]string, error) {
	if suffix == "" {
		suffix = synth.DefaultSuffix
	}
	pkg := artifactPackage(arts)
	if pkg == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var removed []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, suffix) {
			continue
		}
		if slices.ContainsFunc(arts, func(a Artifact) bool { return a.Name == name }) {
			continue
		}
		path := filepath.Join(dir, name)
		content, err := os.ReadFile(path)
		if err != nil {
			return removed, err
		}
		if !isGeneratedFile(content) || packageOf(content) != pkg {
			continue
		}
		if err := os.Remove(path); err != nil {
			return removed, err
		}
		removed = append(removed, path)
	}
	return removed, nil
}

func artifactPackage(arts []Artifact) string {
	for _, a := range arts {
		if pkg := packageOf(a.Content); pkg != "" {
			return pkg
		}
	}
	return ""
}

func packageOf(content []byte) string {
	f, err := parser.ParseFile(token.NewFileSet(), "", content, parser.PackageClauseOnly)
	if err != nil {
		return ""
	}
	return f.Name.Name
}

// CleanGenerated removes every generated Go file from dir and returns the
// removed paths.
func CleanGenerated(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var removed []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".go") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		ok, err := hasGeneratedHeader(path)
		if err != nil {
			return removed, err
		}
		if !ok {
			continue
		}
		if err := os.Remove(path); err != nil {
			return removed, err
		}
		removed = append(removed, path)
	}
	return removed, nil
}

func hasGeneratedHeader(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return false, sc.Err()
	}
	return isGeneratedFile(sc.Bytes()), nil
}

func isGeneratedFile(content []byte) bool {
	return bytes.HasPrefix(content, []byte(gosrc.GeneratedMarker))
}

func writeAtomic(path string, content []byte) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), ".fluentsettings-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()
	if _, err = f.Write(content); err != nil {
		return err
	}
	if err = f.Chmod(0o644); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
