package host

import (
	"strings"
	"sync"

	"github.com/kirrishima/FluentSettings/internal/source"
)

type typeInfo struct {
	sym     TypeSymbol
	embeds  []string // как написаны: Base, *Base, pkg.Base
	members []MemberSymbol
}

type declRecord struct {
	decl    Declaration
	typ     string
	imports []Import
}

// Table is an in-memory Host. Hosts populate it while loading; afterwards it
// is only read and may be shared between goroutines.
type Table struct {
	mu     sync.RWMutex
	ns     string
	decls  []declRecord
	types  map[string]*typeInfo
	order  []string
	scopes map[source.FileID]map[string]string // имя импорта -> путь
}

var _ Host = (*Table)(nil)

func NewTable(namespace string) *Table {
	return &Table{
		ns:     namespace,
		types:  make(map[string]*typeInfo),
		scopes: make(map[source.FileID]map[string]string),
	}
}

func (t *Table) Namespace() string {
	return t.ns
}

// AddType registers a struct type with the types it embeds. Registering the
// same name twice merges the embeds.
func (t *Table) AddType(name string, span source.Span, embeds ...string) TypeSymbol {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ti, ok := t.types[name]; ok {
		ti.embeds = append(ti.embeds, embeds...)
		return ti.sym
	}
	sym := TypeSymbol{Namespace: t.ns, Name: name, Span: span}
	t.types[name] = &typeInfo{sym: sym, embeds: append([]string(nil), embeds...)}
	t.order = append(t.order, name)
	return sym
}

// Type looks a local type up by name.
func (t *Table) Type(name string) (TypeSymbol, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ti, ok := t.types[trimPointer(name)]
	if !ok {
		return TypeSymbol{}, false
	}
	return ti.sym, true
}

// Types returns every registered type in registration order.
func (t *Table) Types() []TypeSymbol {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]TypeSymbol, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.types[name].sym)
	}
	return out
}

// AddImports records the import scope of a file.
func (t *Table) AddImports(file source.FileID, imports ...Import) {
	t.mu.Lock()
	defer t.mu.Unlock()
	scope := t.scopes[file]
	if scope == nil {
		scope = make(map[string]string, len(imports))
		t.scopes[file] = scope
	}
	for _, imp := range imports {
		name := ImportName(imp)
		if name == "_" || name == "." {
			continue
		}
		scope[name] = imp.Path
	}
}

// AddMember registers a member that has no annotated declaration (plain
// methods and fields). Owner is filled from the registered type.
func (t *Table) AddMember(owner string, m MemberSymbol) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ti, ok := t.types[trimPointer(owner)]
	if !ok {
		ti = &typeInfo{sym: TypeSymbol{Namespace: t.ns, Name: trimPointer(owner)}}
		t.types[ti.sym.Name] = ti
		t.order = append(t.order, ti.sym.Name)
	}
	m.Decl = -1
	m.Owner = ti.sym
	ti.members = append(ti.members, m)
}

// AddDeclaration registers a member declaration together with the spelling
// of its type and the imports that spelling needs. The assigned ID is
// returned in the declaration.
func (t *Table) AddDeclaration(d Declaration, typ string, imports []Import) Declaration {
	t.mu.Lock()
	defer t.mu.Unlock()
	d.ID = len(t.decls)
	d.Owner = trimPointer(d.Owner)
	t.decls = append(t.decls, declRecord{decl: d, typ: typ, imports: imports})
	return d
}

func (t *Table) Declarations() []Declaration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Declaration, len(t.decls))
	for i, r := range t.decls {
		out[i] = r.decl
	}
	return out
}

func (t *Table) Bind(d Declaration) (MemberSymbol, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if d.ID < 0 || d.ID >= len(t.decls) {
		return MemberSymbol{}, false
	}
	r := t.decls[d.ID]
	ti, ok := t.types[r.decl.Owner]
	if !ok || r.typ == "" {
		return MemberSymbol{}, false
	}
	return MemberSymbol{
		Decl:    r.decl.ID,
		Name:    r.decl.Name,
		Type:    r.typ,
		Imports: r.imports,
		Owner:   ti.sym,
		Span:    r.decl.Span,
		Method:  true,
	}, true
}

func (t *Table) HasAnnotation(m MemberSymbol, fqn string) bool {
	_, ok := t.find(m, fqn)
	return ok
}

func (t *Table) NamedArgument(m MemberSymbol, fqn, name string) (string, bool) {
	a, ok := t.find(m, fqn)
	if !ok {
		return "", false
	}
	return namedArgument(a.Args, name)
}

// find returns the first annotation on m that applies to the member itself
// and resolves to fqn.
func (t *Table) find(m MemberSymbol, fqn string) (AnnotationSyntax, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if m.Decl < 0 || m.Decl >= len(t.decls) {
		return AnnotationSyntax{}, false
	}
	for _, a := range t.decls[m.Decl].decl.Annotations {
		if a.Target != "" && a.Target != TargetMember {
			continue
		}
		if got, ok := t.resolveLocked(m, a); ok && got == fqn {
			return a, true
		}
	}
	return AnnotationSyntax{}, false
}

func (t *Table) ResolveAnnotation(m MemberSymbol, a AnnotationSyntax) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.resolveLocked(m, a)
}

func (t *Table) resolveLocked(m MemberSymbol, a AnnotationSyntax) (string, bool) {
	if !isQualifiedIdent(a.Name) {
		return "", false
	}
	qual, name, dotted := strings.Cut(a.Name, ".")
	if !dotted {
		return t.ns + "." + a.Name, true
	}
	if qual == t.ns {
		return a.Name, true
	}
	if p, ok := t.scopes[a.Span.File][qual]; ok {
		return p + "." + name, true
	}
	if p, ok := t.scopes[m.Span.File][qual]; ok {
		return p + "." + name, true
	}
	return "", false
}

// Ancestors walks embedded types breadth-first. Embeds of types the table
// does not know (other packages, generated files) are reported but not
// walked further.
func (t *Table) Ancestors(ts TypeSymbol) []TypeSymbol {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []TypeSymbol
	seen := map[string]bool{ts.QualifiedName(): true}
	queue := []TypeSymbol{ts}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.Namespace != t.ns {
			continue
		}
		ti, ok := t.types[cur.Name]
		if !ok {
			continue
		}
		for _, e := range ti.embeds {
			anc := t.embedSymbol(ti, e)
			if seen[anc.QualifiedName()] {
				continue
			}
			seen[anc.QualifiedName()] = true
			out = append(out, anc)
			queue = append(queue, anc)
		}
	}
	return out
}

func (t *Table) embedSymbol(owner *typeInfo, spelling string) TypeSymbol {
	spelling = trimPointer(spelling)
	qual, name, dotted := strings.Cut(spelling, ".")
	if !dotted {
		if ti, ok := t.types[spelling]; ok {
			return ti.sym
		}
		return TypeSymbol{Namespace: t.ns, Name: spelling}
	}
	if p, ok := t.scopes[owner.sym.Span.File][qual]; ok {
		return TypeSymbol{Namespace: p, Name: name}
	}
	return TypeSymbol{Namespace: qual, Name: name}
}

// Members returns the members registered with AddMember followed by the
// bindable declarations owned by ts.
func (t *Table) Members(ts TypeSymbol) []MemberSymbol {
	t.mu.RLock()
	ti, ok := t.types[ts.Name]
	if !ok || ts.Namespace != t.ns {
		t.mu.RUnlock()
		return nil
	}
	out := append([]MemberSymbol(nil), ti.members...)
	decls := make([]Declaration, 0)
	for _, r := range t.decls {
		if r.decl.Owner == ts.Name {
			decls = append(decls, r.decl)
		}
	}
	t.mu.RUnlock()

	for _, d := range decls {
		if m, ok := t.Bind(d); ok {
			out = append(out, m)
		}
	}
	return out
}

func trimPointer(name string) string {
	return strings.TrimLeft(strings.TrimSpace(name), "*")
}
