// Package manifest fills a host.Table from a declaration manifest, a TOML or
// YAML file that lists the package, its imports, types and members. It lets
// the generator run where no Go sources exist yet.
//
//	package = "prefs"
//
//	[[imports]]
//	path = "time"
//
//	[[types]]
//	name = "Prefs"
//	embeds = ["LocalSettingsBase"]
//
//	[[types.members]]
//	name = "Password"
//	type = "string"
//	annotations = ['@LocalSetting{Key: "PSWD"}']
package manifest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/kirrishima/FluentSettings/internal/diag"
	"github.com/kirrishima/FluentSettings/internal/host"
	"github.com/kirrishima/FluentSettings/internal/logging"
	"github.com/kirrishima/FluentSettings/internal/source"
)

// ErrInvalidManifest is returned when the manifest cannot be decoded at all;
// the details are reported as FS103 diagnostics.
var ErrInvalidManifest = errors.New("invalid manifest")

type document struct {
	Package string        `toml:"package" yaml:"package"`
	Imports []importEntry `toml:"imports" yaml:"imports"`
	Types   []typeEntry   `toml:"types" yaml:"types"`
}

type importEntry struct {
	Name string `toml:"name" yaml:"name"`
	Path string `toml:"path" yaml:"path"`
}

type typeEntry struct {
	Name    string        `toml:"name" yaml:"name"`
	Embeds  []string      `toml:"embeds" yaml:"embeds"`
	Members []memberEntry `toml:"members" yaml:"members"`
}

type memberEntry struct {
	Name        string   `toml:"name" yaml:"name"`
	Type        string   `toml:"type" yaml:"type"`
	Incomplete  *bool    `toml:"incomplete" yaml:"incomplete"` // по умолчанию true
	Annotations []string `toml:"annotations" yaml:"annotations"`
}

// locator maps manifest entries back to source spans.
type locator interface {
	pkg() source.Span
	typeName(i int) source.Span
	memberName(i, j int) source.Span
	annotation(i, j, k int) source.Span
}

// IsManifest reports whether path has a manifest extension.
func IsManifest(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads the manifest at path.
func Load(ctx context.Context, fs *source.FileSet, path string, r diag.Reporter) (*host.Table, error) {
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	file := fs.Get(id)

	var (
		doc document
		loc locator
		ok  bool
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		doc, loc, ok = decodeTOML(file, r)
	case ".yaml", ".yml":
		doc, loc, ok = decodeYAML(file, r)
	default:
		return nil, fmt.Errorf("%s: unsupported manifest format (want .toml, .yaml or .yml)", path)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrInvalidManifest)
	}
	if !host.IsIdent(doc.Package) {
		invalid(r, loc.pkg(), fmt.Sprintf("package name %q is not a Go identifier", doc.Package))
		return nil, fmt.Errorf("%s: %w", path, ErrInvalidManifest)
	}

	tbl := build(id, doc, loc, r)
	logging.FromContext(ctx).Debug("manifest loaded",
		zap.String("path", path),
		zap.String("package", doc.Package),
		zap.Int("types", len(doc.Types)))
	return tbl, nil
}

func build(id source.FileID, doc document, loc locator, r diag.Reporter) *host.Table {
	imports := make([]host.Import, 0, len(doc.Imports))
	for _, imp := range doc.Imports {
		if imp.Path == "" {
			invalid(r, source.Span{File: id}, "import without path")
			continue
		}
		imports = append(imports, host.Import{Name: imp.Name, Path: imp.Path})
	}

	tbl := host.NewTable(doc.Package)
	tbl.AddImports(id, imports...)

	seen := make(map[string]bool, len(doc.Types))
	for i, te := range doc.Types {
		typeSpan := loc.typeName(i)
		if !host.IsIdent(te.Name) {
			invalid(r, typeSpan, fmt.Sprintf("types[%d]: name %q is not a Go identifier", i, te.Name))
			continue
		}
		if seen[te.Name] {
			invalid(r, typeSpan, fmt.Sprintf("type %s is declared more than once", te.Name))
			continue
		}
		seen[te.Name] = true
		tbl.AddType(te.Name, typeSpan, te.Embeds...)

		for j, me := range te.Members {
			memberSpan := loc.memberName(i, j)
			if !host.IsIdent(me.Name) {
				invalid(r, memberSpan, fmt.Sprintf("%s.members[%d]: name %q is not a Go identifier", te.Name, j, me.Name))
				continue
			}
			if strings.TrimSpace(me.Type) == "" {
				invalid(r, memberSpan, fmt.Sprintf("member %s.%s has no type", te.Name, me.Name))
				continue
			}
			d := host.Declaration{
				Span:       memberSpan,
				Name:       me.Name,
				Owner:      te.Name,
				Incomplete: me.Incomplete == nil || *me.Incomplete,
			}
			for k, text := range me.Annotations {
				sp := loc.annotation(i, j, k)
				a, err := host.ParseDirective(text)
				if err != nil {
					diag.ReportWarning(r, diag.HostBadAnnotation, sp, strings.TrimSpace(text), err.Error()).Emit()
					continue
				}
				a.Span = sp
				d.Annotations = append(d.Annotations, a)
			}
			tbl.AddDeclaration(d, me.Type, host.ImportsFor(me.Type, imports))
		}
	}
	return tbl
}

func invalid(r diag.Reporter, sp source.Span, msg string) {
	diag.ReportError(r, diag.HostInvalidManifest, sp, msg).Emit()
}
