package host

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
	"unicode"
)

// TargetMember is the only annotation target the generator copies.
const TargetMember = "member"

var errNotDirective = errors.New("not an annotation directive")

// IsDirective reports whether a comment text (without "//") looks like an
// annotation directive.
func IsDirective(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "@")
}

// ParseDirective parses `@[target:]Name[args]`. Args must be a Go composite
// literal body `{...}` or a call argument list `(...)`.
func ParseDirective(text string) (AnnotationSyntax, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "@") {
		return AnnotationSyntax{}, errNotDirective
	}
	rest := text[1:]

	var a AnnotationSyntax
	if i := strings.IndexByte(rest, ':'); i > 0 && IsIdent(rest[:i]) {
		a.Target = rest[:i]
		rest = rest[i+1:]
	}

	end := strings.IndexAny(rest, "{( \t")
	if end < 0 {
		end = len(rest)
	}
	a.Name = rest[:end]
	if !isQualifiedIdent(a.Name) {
		return AnnotationSyntax{}, fmt.Errorf("invalid annotation name %q", a.Name)
	}
	args := strings.TrimSpace(rest[end:])
	if args == "" {
		return a, nil
	}
	if args[0] != '{' && args[0] != '(' {
		return AnnotationSyntax{}, fmt.Errorf("unexpected text %q after annotation name", args)
	}
	if _, err := parseArgs(args); err != nil {
		return AnnotationSyntax{}, err
	}
	a.Args = args
	return a, nil
}

// parseArgs проверяет, что аргументы являются корректным Go-выражением.
func parseArgs(args string) (ast.Expr, error) {
	expr, err := parser.ParseExpr("A" + args)
	if err != nil {
		return nil, fmt.Errorf("invalid arguments %s: %w", args, err)
	}
	switch expr.(type) {
	case *ast.CompositeLit, *ast.CallExpr:
		return expr, nil
	}
	return nil, fmt.Errorf("invalid arguments %s", args)
}

// namedArgument extracts `name: value` from composite-literal arguments.
// String literals are unquoted, anything else is returned as written.
func namedArgument(args, name string) (string, bool) {
	if args == "" || args[0] != '{' {
		return "", false
	}
	expr, err := parseArgs(args)
	if err != nil {
		return "", false
	}
	lit, ok := expr.(*ast.CompositeLit)
	if !ok {
		return "", false
	}
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}
		key, ok := kv.Key.(*ast.Ident)
		if !ok || key.Name != name {
			continue
		}
		if bl, ok := kv.Value.(*ast.BasicLit); ok {
			if bl.Kind == token.STRING {
				s, err := strconv.Unquote(bl.Value)
				if err != nil {
					return "", false
				}
				return s, true
			}
			return bl.Value, true
		}
		// "A" добавлен в начало, смещения сдвинуты на 1
		return args[int(kv.Value.Pos())-2 : int(kv.Value.End())-2], true
	}
	return "", false
}

// ShortName returns the last segment of a possibly qualified name.
func ShortName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// IsIdent reports whether s is a Go identifier.
func IsIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

func isQualifiedIdent(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return false
	}
	for _, p := range parts {
		if !IsIdent(p) {
			return false
		}
	}
	return true
}
