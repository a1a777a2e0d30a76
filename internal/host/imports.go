package host

import (
	"go/ast"
	"go/parser"
	"path"
)

// ImportName is the identifier a file uses to refer to imp.
func ImportName(imp Import) string {
	if imp.Name != "" {
		return imp.Name
	}
	return path.Base(imp.Path)
}

// ImportsFor returns the imports that the type expression typ refers to
// through qualified identifiers, in first-use order. An unparsable typ needs
// no imports.
func ImportsFor(typ string, imports []Import) []Import {
	expr, err := parser.ParseExpr(typ)
	if err != nil {
		return nil
	}
	var out []Import
	seen := make(map[string]bool)
	ast.Inspect(expr, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		id, ok := sel.X.(*ast.Ident)
		if !ok || seen[id.Name] {
			return true
		}
		for _, imp := range imports {
			if ImportName(imp) == id.Name {
				seen[id.Name] = true
				out = append(out, imp)
				break
			}
		}
		return false
	})
	return out
}
