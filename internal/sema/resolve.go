package sema

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/kirrishima/FluentSettings/internal/host"
	"github.com/kirrishima/FluentSettings/internal/logging"
)

// DefaultActivation is the short name of the activation annotation.
const DefaultActivation = "LocalSetting"

// KeyArgument is the named argument of the activation annotation holding an
// explicit storage key.
const KeyArgument = "Key"

// ResolveOptions configures Resolve.
type ResolveOptions struct {
	Activation string // короткое имя, по умолчанию LocalSetting
}

func (o ResolveOptions) activation() string {
	if o.Activation == "" {
		return DefaultActivation
	}
	return o.Activation
}

// Resolve binds every scanned declaration and keeps those that carry the
// activation annotation. Unbindable declarations are dropped silently. The
// context is checked between declarations; on cancellation nothing is
// returned.
func Resolve(ctx context.Context, h host.Host, decls []host.Declaration, opts ResolveOptions) ([]Candidate, error) {
	log := logging.FromContext(ctx)
	activation := opts.activation()
	fqn := h.Namespace() + "." + activation

	out := make([]Candidate, 0, len(decls))
	for _, d := range decls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c, ok, err := resolveOne(h, d, fqn, activation)
		if err != nil {
			log.Debug("candidate dropped", zap.String("member", d.Name), zap.Error(err))
			continue
		}
		if !ok {
			log.Debug("candidate skipped", zap.String("member", d.Name), zap.String("owner", d.Owner))
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func resolveOne(h host.Host, d host.Declaration, fqn, activation string) (c Candidate, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			c, ok, err = Candidate{}, false, fmt.Errorf("panic while resolving %s: %v", d.Name, r)
		}
	}()

	m, bound := h.Bind(d)
	if !bound {
		return Candidate{}, false, nil
	}
	if !h.HasAnnotation(m, fqn) {
		return Candidate{}, false, nil
	}

	c = Candidate{
		Span:        m.Span,
		Name:        m.Name,
		Type:        m.Type,
		Imports:     m.Imports,
		Owner:       m.Owner,
		Namespace:   m.Owner.Namespace,
		Annotations: auxiliary(h, m, d.Annotations, activation),
	}
	if c.Namespace == "" {
		c.Namespace = h.Namespace()
	}
	if key, found := h.NamedArgument(m, fqn, KeyArgument); found && key != "" {
		c.Key = norm.NFC.String(key)
	}
	return c, true, nil
}

// auxiliary collects the member-targeted annotations other than activation,
// resolved to fully-qualified names with argument text kept verbatim.
func auxiliary(h host.Host, m host.MemberSymbol, anns []host.AnnotationSyntax, activation string) []Annotation {
	var out []Annotation
	for _, a := range anns {
		if a.Target != host.TargetMember {
			continue
		}
		if a.Name == activation || strings.HasSuffix(a.Name, "."+activation) {
			continue
		}
		fqn, ok := h.ResolveAnnotation(m, a)
		if !ok {
			continue
		}
		out = append(out, Annotation{FQN: fqn, Args: a.Args})
	}
	return out
}
