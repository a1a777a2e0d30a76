package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kirrishima/FluentSettings/internal/diag"
	"github.com/kirrishima/FluentSettings/internal/diagfmt"
	"github.com/kirrishima/FluentSettings/internal/driver"
	"github.com/kirrishima/FluentSettings/internal/host"
	"github.com/kirrishima/FluentSettings/internal/host/gosrc"
	"github.com/kirrishima/FluentSettings/internal/host/manifest"
	"github.com/kirrishima/FluentSettings/internal/logging"
	"github.com/kirrishima/FluentSettings/internal/project"
	"github.com/kirrishima/FluentSettings/internal/source"
	"github.com/kirrishima/FluentSettings/internal/version"
)

const cacheApp = "fluentsettings"

// pass is one load-and-generate run over a package directory or manifest.
type pass struct {
	target   string
	inputDir string
	fs       *source.FileSet
	bag      *diag.Bag
	result   *driver.Result // nil, если хост сообщил об ошибках
}

// loadHost picks the host by target: manifests go through the manifest
// reader, everything else is a Go package directory.
func loadHost(ctx context.Context, fs *source.FileSet, target string, r diag.Reporter) (*host.Table, string, error) {
	if manifest.IsManifest(target) {
		t, err := manifest.Load(ctx, fs, target, r)
		return t, filepath.Dir(target), err
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil, "", err
	}
	if !info.IsDir() {
		return nil, "", fmt.Errorf("%s: not a directory or manifest (.toml, .yaml, .yml)", target)
	}
	t, err := gosrc.Load(ctx, fs, target, r)
	return t, target, err
}

// filesDigest covers every loaded file so that any edit changes cache keys.
func filesDigest(fs *source.FileSet) project.Digest {
	parts := make([]project.Digest, 0, 2*fs.Len())
	for i := range fs.Len() {
		f := fs.Get(source.FileID(i)) // #nosec G115 -- bounded by Len
		if f == nil {
			continue
		}
		parts = append(parts, project.Sum([]byte(f.Path)), project.Digest(f.Hash))
	}
	return project.Combine(project.Sum([]byte(version.Version)), parts...)
}

func driverOptions(s settings, cache driver.Cache, salt project.Digest) driver.Options {
	return driver.Options{
		Activation:     s.cfg.Generate.Activation,
		Base:           s.cfg.Generate.Base,
		Suffix:         s.cfg.Generate.Suffix,
		Generator:      "fluentsettings",
		Version:        version.Version,
		Jobs:           s.cfg.Generate.Jobs,
		MaxDiagnostics: s.maxDiag,
		Cache:          cache,
		Salt:           salt,
	}
}

// openCache returns the disk cache when caching is enabled. A cache that
// cannot be opened only costs speed, so it degrades to no cache.
func openCache(ctx context.Context, enabled bool) driver.Cache {
	if !enabled {
		return nil
	}
	c, err := driver.OpenDiskCache(cacheApp)
	if err != nil {
		logging.FromContext(ctx).Warn("disk cache disabled", zap.Error(err))
		return nil
	}
	return c
}

// runPass loads target and runs the generator. Host errors stop the pass
// before generation: the remaining declarations would be judged against a
// partial package.
func runPass(ctx context.Context, target string, s settings, cache driver.Cache) (*pass, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, err
	}
	wd, err := os.Getwd()
	if err != nil {
		wd = abs
	}
	p := &pass{
		target: target,
		fs:     source.NewFileSetWithBase(wd),
		bag:    diag.NewBag(s.maxDiag),
	}
	table, inputDir, err := loadHost(ctx, p.fs, abs, diag.BagReporter{Bag: p.bag})
	if err != nil {
		return nil, err
	}
	p.inputDir = inputDir
	if p.bag.HasErrors() {
		p.bag.Sort()
		return p, nil
	}

	res, err := driver.Run(ctx, table, driverOptions(s, cache, filesDigest(p.fs)))
	if err != nil {
		return nil, err
	}
	p.result = res
	p.bag.Merge(res.Bag)
	p.bag.Dedup()
	p.bag.Sort()
	return p, nil
}

// write stores the artifacts of p in outDir and removes accessor files of
// earlier runs that this pass no longer produces.
func (p *pass) write(outDir string, s settings) (written, removed []string, err error) {
	written, err = driver.WriteArtifacts(outDir, p.result.Artifacts)
	if err != nil {
		return written, nil, err
	}
	removed, err = driver.PruneStale(outDir, s.cfg.Generate.Suffix, p.result.Artifacts)
	return written, removed, err
}

// report prints the diagnostics of p. JSON goes to out, text to errOut.
func (p *pass) report(out, errOut io.Writer, s settings) error {
	if p.bag.Len() == 0 && s.format != diagfmt.FormatJSON {
		return nil
	}
	w := errOut
	if s.format == diagfmt.FormatJSON {
		w = out
	}
	return diagfmt.Write(w, s.format, p.bag, p.fs, s.pretty)
}

func (p *pass) timings(w io.Writer, s settings) error {
	if p.result == nil {
		return nil
	}
	return driver.WriteTimings(w, p.target, p.result, s.format == diagfmt.FormatJSON)
}
