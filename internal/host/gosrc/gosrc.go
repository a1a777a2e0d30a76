// Package gosrc fills a host.Table from the Go files of one package
// directory. Build constraints are ignored so that declaration files hidden
// behind a build tag are seen. Files produced by the generator are skipped.
package gosrc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/parser"
	"go/scanner"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"go.uber.org/zap"

	"github.com/kirrishima/FluentSettings/internal/diag"
	"github.com/kirrishima/FluentSettings/internal/host"
	"github.com/kirrishima/FluentSettings/internal/logging"
	"github.com/kirrishima/FluentSettings/internal/source"
)

// GeneratedMarker prefixes the header of every file the generator writes.
const GeneratedMarker = "// Code generated by fluentsettings"

// ErrNoGoFiles is returned when a directory holds no loadable Go files.
var ErrNoGoFiles = errors.New("no Go files")

type parsedFile struct {
	id   source.FileID
	file *ast.File
	tok  *token.File
}

// Load parses the package in dir. Syntax errors are reported as FS101 and
// the offending file is skipped; malformed annotation directives are FS102
// warnings. The returned error covers I/O and package-level problems only.
func Load(ctx context.Context, fs *source.FileSet, dir string, r diag.Reporter) (*host.Table, error) {
	log := logging.FromContext(ctx)

	paths, err := goFiles(dir)
	if err != nil {
		return nil, err
	}

	tokFset := token.NewFileSet()
	files := make([]parsedFile, 0, len(paths))
	pkgName := ""
	for _, fp := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id, err := fs.Load(fp)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fp, err)
		}
		content := fs.Get(id).Content
		if isGenerated(content) {
			log.Debug("skipping generated file", zap.String("path", fp))
			continue
		}
		f, err := parser.ParseFile(tokFset, fp, content, parser.ParseComments)
		if err != nil {
			reportParseError(r, id, err)
			continue
		}
		if ignored(f) {
			continue
		}
		name := f.Name.Name
		switch {
		case pkgName == "":
			pkgName = name
		case name != pkgName:
			return nil, fmt.Errorf("%s: found packages %s and %s", dir, pkgName, name)
		}
		files = append(files, parsedFile{id: id, file: f, tok: tokFset.File(f.Pos())})
	}
	if pkgName == "" {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoGoFiles)
	}

	tbl := host.NewTable(pkgName)
	l := &loader{tbl: tbl, r: r}
	for _, pf := range files {
		l.collectTypes(pf)
	}
	for _, pf := range files {
		l.collectMethods(pf)
	}
	log.Debug("package loaded",
		zap.String("dir", dir),
		zap.String("package", pkgName),
		zap.Int("files", len(files)),
		zap.Int("declarations", len(tbl.Declarations())))
	return tbl, nil
}

// goFiles lists non-test .go files of dir in name order.
func goFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	sort.Strings(out)
	return out, nil
}

func isGenerated(content []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(content, " \t\n"), []byte(GeneratedMarker))
}

// ignored reports files excluded with `//go:build ignore`, the usual home of
// generator mains that live next to the package.
func ignored(f *ast.File) bool {
	for _, cg := range f.Comments {
		if cg.Pos() >= f.Package {
			break
		}
		for _, c := range cg.List {
			if !constraint.IsGoBuild(c.Text) {
				continue
			}
			expr, err := constraint.Parse(c.Text)
			if err != nil {
				continue
			}
			if tag, ok := expr.(*constraint.TagExpr); ok && tag.Tag == "ignore" {
				return true
			}
		}
	}
	return false
}

func reportParseError(r diag.Reporter, id source.FileID, err error) {
	var list scanner.ErrorList
	if !errors.As(err, &list) || len(list) == 0 {
		diag.ReportError(r, diag.HostParseError, source.Span{File: id}, err.Error()).Emit()
		return
	}
	// первых ошибок достаточно, остальные обычно следствие
	for i, e := range list {
		if i == 3 {
			break
		}
		off := offset(e.Pos.Offset)
		diag.ReportError(r, diag.HostParseError, source.Span{File: id, Start: off, End: off}, e.Msg).Emit()
	}
}

type loader struct {
	tbl *host.Table
	r   diag.Reporter
}

func (l *loader) span(pf parsedFile, from, to token.Pos) source.Span {
	return source.Span{
		File:  pf.id,
		Start: offset(pf.tok.Offset(from)),
		End:   offset(pf.tok.Offset(to)),
	}
}

func (l *loader) collectTypes(pf parsedFile) {
	imports := fileImports(pf.file)
	l.tbl.AddImports(pf.id, imports...)

	for _, decl := range pf.file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				continue
			}
			var embeds []string
			for _, field := range st.Fields.List {
				if len(field.Names) == 0 {
					embeds = append(embeds, types.ExprString(baseType(field.Type)))
				}
			}
			l.tbl.AddType(ts.Name.Name, l.span(pf, ts.Name.Pos(), ts.Name.End()), embeds...)
			for _, field := range st.Fields.List {
				for _, name := range field.Names {
					l.tbl.AddMember(ts.Name.Name, host.MemberSymbol{
						Name:    name.Name,
						Type:    types.ExprString(field.Type),
						Imports: host.ImportsFor(types.ExprString(field.Type), imports),
						Span:    l.span(pf, name.Pos(), name.End()),
					})
				}
			}
		}
	}
}

func (l *loader) collectMethods(pf parsedFile) {
	imports := fileImports(pf.file)
	for _, decl := range pf.file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Recv == nil || len(fd.Recv.List) != 1 {
			continue
		}
		owner := types.ExprString(baseType(fd.Recv.List[0].Type))
		d := host.Declaration{
			Span:        l.span(pf, fd.Name.Pos(), fd.Name.End()),
			Name:        fd.Name.Name,
			Owner:       owner,
			Incomplete:  fd.Body == nil,
			Annotations: l.annotations(pf, fd.Doc),
		}
		typ, typImports := "", []host.Import(nil)
		if res := accessorResult(fd.Type); res != nil {
			typ = types.ExprString(res)
			typImports = host.ImportsFor(typ, imports)
		} else if fd.Body != nil {
			// хуки и прочие методы: нужны только для Members
			sig := types.ExprString(fd.Type)
			l.tbl.AddMember(owner, host.MemberSymbol{
				Name:    fd.Name.Name,
				Type:    sig,
				Imports: host.ImportsFor(sig, imports),
				Span:    d.Span,
				Method:  true,
			})
		}
		l.tbl.AddDeclaration(d, typ, typImports)
	}
}

func (l *loader) annotations(pf parsedFile, doc *ast.CommentGroup) []host.AnnotationSyntax {
	if doc == nil {
		return nil
	}
	var out []host.AnnotationSyntax
	for _, c := range doc.List {
		text, ok := strings.CutPrefix(c.Text, "//")
		if !ok || !host.IsDirective(text) {
			continue
		}
		sp := l.span(pf, c.Pos(), c.End())
		a, err := host.ParseDirective(text)
		if err != nil {
			diag.ReportWarning(l.r, diag.HostBadAnnotation, sp, strings.TrimSpace(text), err.Error()).Emit()
			continue
		}
		a.Span = sp
		out = append(out, a)
	}
	return out
}

// accessorResult returns T for `func() T`, nil for any other shape.
func accessorResult(ft *ast.FuncType) ast.Expr {
	if ft.TypeParams != nil && len(ft.TypeParams.List) > 0 {
		return nil
	}
	if ft.Params != nil && len(ft.Params.List) > 0 {
		return nil
	}
	if ft.Results == nil || len(ft.Results.List) != 1 || len(ft.Results.List[0].Names) > 1 {
		return nil
	}
	return ft.Results.List[0].Type
}

// baseType strips pointers and type arguments: *Prefs[T] -> Prefs.
func baseType(e ast.Expr) ast.Expr {
	for {
		switch t := e.(type) {
		case *ast.StarExpr:
			e = t.X
		case *ast.ParenExpr:
			e = t.X
		case *ast.IndexExpr:
			e = t.X
		case *ast.IndexListExpr:
			e = t.X
		default:
			return e
		}
	}
}

func fileImports(f *ast.File) []host.Import {
	out := make([]host.Import, 0, len(f.Imports))
	for _, spec := range f.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		imp := host.Import{Path: p}
		if spec.Name != nil {
			imp.Name = spec.Name.Name
		}
		out = append(out, imp)
	}
	return out
}

func offset(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return 0
	}
	return v
}
