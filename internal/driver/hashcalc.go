package driver

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/kirrishima/FluentSettings/internal/host"
	"github.com/kirrishima/FluentSettings/internal/project"
	"github.com/kirrishima/FluentSettings/internal/sema"
)

// groupFacts is everything the outcome of a group depends on besides the
// source files, which Options.Salt covers.
type groupFacts struct {
	Schema    uint16              `msgpack:"schema"`
	Version   string              `msgpack:"version"`
	Generator string              `msgpack:"generator"`
	Base      string              `msgpack:"base"`
	Suffix    string              `msgpack:"suffix"`
	Group     sema.Group          `msgpack:"group"`
	Ancestors []host.TypeSymbol   `msgpack:"ancestors"`
	Members   []host.MemberSymbol `msgpack:"members"`
}

// groupDigest: H(salt || H(msgpack(facts))).
func groupDigest(h host.Host, g sema.Group, opts Options) (project.Digest, error) {
	facts := groupFacts{
		Schema:    diskCacheSchemaVersion,
		Version:   opts.Version,
		Generator: opts.generator(),
		Base:      opts.Base,
		Suffix:    opts.Suffix,
		Group:     g,
		Ancestors: h.Ancestors(g.Owner),
		Members:   h.Members(g.Owner),
	}
	data, err := msgpack.Marshal(&facts)
	if err != nil {
		return project.Digest{}, err
	}
	return project.Combine(opts.Salt, project.Sum(data)), nil
}
