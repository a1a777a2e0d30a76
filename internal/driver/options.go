package driver

import (
	"runtime"

	"github.com/kirrishima/FluentSettings/internal/project"
	"github.com/kirrishima/FluentSettings/internal/synth"
)

// Options configure Run. Zero values take the defaults of the stages.
type Options struct {
	Activation string // короткое имя аннотации активации
	Base       string // обязательный встраиваемый тип
	Suffix     string // окончание имён файлов с аксессорами
	Runtime    string // импорт пакета settings в bootstrap
	Generator  string
	Version    string

	Jobs           int // 0 = GOMAXPROCS
	MaxDiagnostics int // 0 = без лимита

	// Cache memoizes validated and rendered groups; nil disables it.
	Cache Cache
	// Salt is mixed into every cache key. Callers set it to a digest of the
	// loaded files so that edits invalidate cached diagnostics and spans.
	Salt project.Digest

	Observer PhaseObserver
}

func (o Options) jobs() int {
	if o.Jobs <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Jobs
}

func (o Options) generator() string {
	if o.Generator == "" {
		return synth.DefaultGenerator
	}
	return o.Generator
}

func (o Options) suffix() string {
	if o.Suffix == "" {
		return synth.DefaultSuffix
	}
	return o.Suffix
}
