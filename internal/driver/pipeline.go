package driver

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kirrishima/FluentSettings/internal/bootstrap"
	"github.com/kirrishima/FluentSettings/internal/diag"
	"github.com/kirrishima/FluentSettings/internal/host"
	"github.com/kirrishima/FluentSettings/internal/logging"
	"github.com/kirrishima/FluentSettings/internal/observ"
	"github.com/kirrishima/FluentSettings/internal/project"
	"github.com/kirrishima/FluentSettings/internal/render"
	"github.com/kirrishima/FluentSettings/internal/scan"
	"github.com/kirrishima/FluentSettings/internal/sema"
	"github.com/kirrishima/FluentSettings/internal/synth"
	"github.com/kirrishima/FluentSettings/internal/validate"
)

// Result of one generator pass.
type Result struct {
	// Artifacts sorted by file name: accessor units of valid groups and the
	// bootstrap files.
	Artifacts []Artifact
	// Bag holds the diagnostics of every group, sorted.
	Bag *diag.Bag

	Groups    int
	CacheHits int
	Timings   observ.Report
}

// groupResult is the slot a worker fills; индексы уникальны для каждой
// горутины, мьютекс не нужен.
type groupResult struct {
	entry CacheEntry
	hit   bool
}

// Run executes scan, resolve, group, validate, synthesize and bootstrap over
// h. Generator problems end up as diagnostics in Result.Bag; the returned
// error is reserved for cancellation and bootstrap failures. On error no
// partial result is returned.
func Run(ctx context.Context, h host.Host, opts Options) (*Result, error) {
	log := logging.FromContext(ctx)
	timer := observ.NewTimer()
	phase := func(name string, fn func() error) error {
		if opts.Observer != nil {
			opts.Observer(PhaseEvent{Name: name, Status: PhaseStart})
		}
		elapsed, err := timer.Time(name, fn)
		if opts.Observer != nil {
			opts.Observer(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: elapsed, Err: err})
		}
		log.Debug("phase done", zap.String("phase", name), zap.Duration("elapsed", elapsed), zap.Error(err))
		return err
	}

	var (
		decls  []host.Declaration
		groups []sema.Group
		slots  []groupResult
		boot   []bootstrap.Unit
	)
	_ = phase(PhaseScan, func() error {
		decls = scan.Candidates(h.Declarations())
		timer.Note(PhaseScan, "%d declarations", len(decls))
		return nil
	})
	if err := phase(PhaseResolve, func() error {
		cands, err := sema.Resolve(ctx, h, decls, sema.ResolveOptions{Activation: opts.Activation})
		if err != nil {
			return err
		}
		groups = sema.GroupByOwner(cands)
		timer.Note(PhaseResolve, "%d candidates, %d groups", len(cands), len(groups))
		return nil
	}); err != nil {
		return nil, err
	}
	if err := phase(PhaseGenerate, func() error {
		var err error
		slots, err = runGroups(ctx, h, groups, opts)
		return err
	}); err != nil {
		return nil, err
	}
	if err := phase(PhaseBootstrap, func() error {
		var err error
		boot, err = bootstrap.Emit(bootstrap.Options{
			Package:    h.Namespace(),
			Activation: opts.Activation,
			Base:       opts.Base,
			Runtime:    opts.Runtime,
			Generator:  opts.generator(),
			Version:    opts.Version,
		})
		return err
	}); err != nil {
		return nil, err
	}

	res := &Result{Bag: diag.NewBag(opts.MaxDiagnostics), Groups: len(groups)}
	for _, s := range slots {
		if s.hit {
			res.CacheHits++
		}
		if s.entry.Artifact != nil {
			res.Artifacts = append(res.Artifacts, *s.entry.Artifact)
		}
		for _, d := range s.entry.Diagnostics {
			res.Bag.Add(d)
		}
	}
	for _, u := range boot {
		res.Artifacts = append(res.Artifacts, Artifact{Name: u.FileName, Kind: ArtifactBootstrap, Content: u.Content})
	}
	if renamed := dedupeNames(res.Artifacts, opts.suffix()); len(renamed) > 0 {
		log.Info("file names of several types collide, tagged with owner hash", zap.Strings("files", renamed))
	}
	sort.SliceStable(res.Artifacts, func(i, j int) bool {
		return res.Artifacts[i].Name < res.Artifacts[j].Name
	})
	res.Bag.Sort()
	timer.Note(PhaseGenerate, "%d artifacts, %d cached", len(res.Artifacts)-len(boot), res.CacheHits)
	res.Timings = timer.Report()

	log.Debug("generation finished",
		zap.String("package", h.Namespace()),
		zap.Int("groups", res.Groups),
		zap.Int("artifacts", len(res.Artifacts)),
		zap.Int("diagnostics", res.Bag.Len()),
		zap.Int("cache_hits", res.CacheHits))
	return res, nil
}

// runGroups validates and synthesizes every group in parallel. A cancelled
// context aborts the whole run: groups that did not finish commit nothing.
func runGroups(ctx context.Context, h host.Host, groups []sema.Group, opts Options) ([]groupResult, error) {
	results := make([]groupResult, len(groups))
	if len(groups) == 0 {
		return results, ctx.Err()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(opts.jobs(), len(groups)))

	for i, grp := range groups {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			res := processGroup(gctx, h, grp, opts)
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// processGroup never panics: a panic in any stage becomes FS099 on the
// enclosing type and the group produces no artifact.
func processGroup(ctx context.Context, h host.Host, g sema.Group, opts Options) (res groupResult) {
	log := logging.FromContext(ctx).With(zap.String("type", g.Key.String()))
	defer func() {
		if r := recover(); r != nil {
			log.Error("group failed", zap.Any("panic", r))
			res = groupResult{entry: CacheEntry{
				Diagnostics: []*diag.Diagnostic{diag.InternalError(g.Owner.Span, g.Owner.Name, fmt.Sprint(r))},
			}}
		}
	}()

	var key project.Digest
	cacheable := opts.Cache != nil
	if cacheable {
		digest, err := groupDigest(h, g, opts)
		if err != nil {
			log.Debug("group digest failed", zap.Error(err))
			cacheable = false
		} else {
			key = digest
			var entry CacheEntry
			ok, err := opts.Cache.Get(digest, &entry)
			switch {
			case err != nil:
				log.Debug("cache read failed", zap.Error(err))
			case ok:
				log.Debug("cache hit")
				return groupResult{entry: entry, hit: true}
			}
		}
	}

	res.entry = generateGroup(h, g, opts)
	if cacheable {
		if err := opts.Cache.Put(key, &res.entry); err != nil {
			log.Warn("cache write failed", zap.Error(err))
		}
	}
	return res
}

func generateGroup(h host.Host, g sema.Group, opts Options) CacheEntry {
	var c diag.Collector
	if !validate.Group(h, g, validate.Options{Base: opts.Base}, &c) {
		return CacheEntry{Diagnostics: c.Items()}
	}
	unit := synth.Build(h, g, synth.Options{
		Generator: opts.generator(),
		Version:   opts.Version,
		Suffix:    opts.Suffix,
	})
	content, err := render.Unit(unit)
	if err != nil {
		c.Report(diag.InternalError(g.Owner.Span, g.Owner.Name, err.Error()))
		return CacheEntry{Diagnostics: c.Items()}
	}
	return CacheEntry{
		Artifact: &Artifact{
			Name:    unit.FileName,
			Kind:    ArtifactAccessors,
			Owner:   g.Key.String(),
			Content: content,
		},
		Diagnostics: c.Items(),
	}
}
