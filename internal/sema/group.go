package sema

import (
	"github.com/kirrishima/FluentSettings/internal/host"
)

// GroupKey identifies the enclosing type of a group.
type GroupKey struct {
	Namespace string `msgpack:"ns"`
	Type      string `msgpack:"type"`
}

func (k GroupKey) String() string {
	return k.Namespace + "." + k.Type
}

// Group holds every candidate of one enclosing type, in encounter order. A
// group is validated and synthesized as a whole.
type Group struct {
	Key     GroupKey        `msgpack:"key"`
	Owner   host.TypeSymbol `msgpack:"owner"`
	Members []Candidate     `msgpack:"members"`
}

// Names returns the member names in encounter order.
func (g Group) Names() []string {
	out := make([]string, len(g.Members))
	for i, m := range g.Members {
		out[i] = m.Name
	}
	return out
}

// GroupByOwner partitions candidates by (namespace, type name). Groups come
// out in the order their first member was seen.
func GroupByOwner(cands []Candidate) []Group {
	index := make(map[GroupKey]int)
	var out []Group
	for _, c := range cands {
		key := GroupKey{Namespace: c.Namespace, Type: c.Owner.Name}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, Group{Key: key, Owner: c.Owner})
		}
		out[i].Members = append(out[i].Members, c)
	}
	return out
}
