package driver

import (
	"strings"

	"github.com/kirrishima/FluentSettings/internal/project"
)

// ArtifactKind tells accessor units from bootstrap files.
type ArtifactKind uint8

const (
	ArtifactAccessors ArtifactKind = iota
	ArtifactBootstrap
)

func (k ArtifactKind) String() string {
	switch k {
	case ArtifactAccessors:
		return "accessors"
	case ArtifactBootstrap:
		return "bootstrap"
	default:
		return "unknown"
	}
}

// Artifact is one generated file. Owner is the qualified enclosing type of
// accessor units and empty for bootstrap files.
type Artifact struct {
	Name    string       `msgpack:"name"`
	Kind    ArtifactKind `msgpack:"kind"`
	Owner   string       `msgpack:"owner"`
	Content []byte       `msgpack:"content"`
}

// dedupeNames renames accessor artifacts whose file name is also used by
// another artifact. Snake-casing folds HTTPPrefs and HttpPrefs into one file
// name, so each such artifact gets a tag derived from its owner before the
// suffix. Every artifact of a clashing name is renamed, which keeps the
// result independent of group order. Returns the new names.
func dedupeNames(arts []Artifact, suffix string) []string {
	uses := make(map[string]int, len(arts))
	for _, a := range arts {
		uses[a.Name]++
	}
	var renamed []string
	for i := range arts {
		a := &arts[i]
		if a.Kind != ArtifactAccessors || uses[a.Name] < 2 {
			continue
		}
		tag := project.Sum([]byte(a.Owner)).String()[:8]
		a.Name = strings.TrimSuffix(a.Name, suffix) + "_" + tag + suffix
		renamed = append(renamed, a.Name)
	}
	return renamed
}
