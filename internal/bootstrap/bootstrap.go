// Package bootstrap emits the two support files every target package needs:
// the activation annotation type and the settings base with its generic
// helpers. They do not depend on any declaration and are written on every
// pass.
package bootstrap

import (
	"bytes"
	"fmt"
	"go/format"
	"path"
	"text/template"

	"github.com/kirrishima/FluentSettings/internal/render"
)

const (
	DefaultActivation = "LocalSetting"
	DefaultBase       = "LocalSettingsBase"
	// RuntimeImport is the package generated code stores values through.
	RuntimeImport = "github.com/kirrishima/FluentSettings/settings"

	ActivationFile = "localsetting.gen.go"
	BaseFile       = "localsettingsbase.gen.go"
)

// Options name the emitted types. Zero values take the defaults.
type Options struct {
	Package    string
	Activation string
	Base       string
	Runtime    string
	Generator  string
	Version    string
}

// Unit is one emitted bootstrap file.
type Unit struct {
	FileName string
	Content  []byte
}

type templateData struct {
	Header     string
	Package    string
	Activation string
	Base       string
	Runtime    string
	Alias      bool // пакет рантайма называется не settings
}

var (
	activationTmpl = template.Must(template.New(ActivationFile).Parse(activationSource))
	baseTmpl       = template.Must(template.New(BaseFile).Parse(baseSource))
)

// Emit renders both files for opts.Package, activation file first.
func Emit(opts Options) ([]Unit, error) {
	if opts.Package == "" {
		return nil, fmt.Errorf("bootstrap: package name is empty")
	}
	data := templateData{
		Header:     render.Header(orDefault(opts.Generator, "fluentsettings"), opts.Version),
		Package:    opts.Package,
		Activation: orDefault(opts.Activation, DefaultActivation),
		Base:       orDefault(opts.Base, DefaultBase),
		Runtime:    orDefault(opts.Runtime, RuntimeImport),
	}
	data.Alias = path.Base(data.Runtime) != "settings"
	out := make([]Unit, 0, 2)
	for _, tmpl := range []*template.Template{activationTmpl, baseTmpl} {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("bootstrap %s: %w", tmpl.Name(), err)
		}
		src, err := format.Source(buf.Bytes())
		if err != nil {
			return nil, fmt.Errorf("bootstrap %s: %w", tmpl.Name(), err)
		}
		out = append(out, Unit{FileName: tmpl.Name(), Content: src})
	}
	return out, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

const activationSource = `{{.Header}}

package {{.Package}}

// {{.Activation}} marks a bodyless method as a persisted setting. The
// annotation is written as its composite literal in the method's doc comment:
//
//	// @{{.Activation}}{Key: "PSWD"}
//	func (p *Prefs) Password() string
//
// Key defaults to the method name.
type {{.Activation}} struct {
	Key string
}
`

const baseSource = `{{.Header}}

package {{.Package}}

import (
	"reflect"

	{{if .Alias}}settings {{end}}"{{.Runtime}}"
)

// {{.Base}} backs the generated accessors of every type that embeds it.
// Store must be set before the first write; Codec defaults to
// settings.JSONCodec. OnError receives write failures, in which case the
// store is left untouched and no change is reported.
type {{.Base}} struct {
	Store    settings.Store
	Codec    settings.Codec
	Notifier settings.Notifier
	OnError  func(key string, err error)
}

func (b *{{.Base}}) settingsBase() *{{.Base}} {
	return b
}

func (b *{{.Base}}) codec() settings.Codec {
	if b.Codec == nil {
		return settings.JSONCodec{}
	}
	return b.Codec
}

func (b *{{.Base}}) notifyChanged(name string) {
	if b.Notifier != nil {
		b.Notifier.NotifyChanged(name)
	}
}

func (b *{{.Base}}) reportError(key string, err error) {
	if b.OnError != nil {
		b.OnError(key, err)
	}
}

// getSetting returns the value stored under key. A missing key or a value
// that does not decode yields the zero value.
func getSetting[T any](b *{{.Base}}, key string) T {
	var zero T
	if b == nil || b.Store == nil {
		return zero
	}
	raw, ok := b.Store.TryGet(key)
	if !ok {
		return zero
	}
	if settings.IsDirect(reflect.TypeFor[T]()) {
		v, _ := settings.Coerce[T](raw)
		return v
	}
	data, ok := raw.(string)
	if !ok {
		return zero
	}
	var v T
	if err := b.codec().Unmarshal([]byte(data), &v); err != nil {
		return zero
	}
	return v
}

// getSettingOrDefault is kept for hand-written code of the base type that
// asks for a default explicitly. Generated accessors call getSetting; both
// return the zero value of T for a missing key.
func getSettingOrDefault[T any](b *{{.Base}}, key string) T {
	return getSetting[T](b, key)
}

// setSetting stores value under key and reports whether the store was
// written. Nil values remove the key; direct values are stored as they are,
// everything else as the codec's string encoding.
func setSetting[T any](b *{{.Base}}, key string, value T) bool {
	if b == nil {
		return false
	}
	if b.Store == nil {
		b.reportError(key, settings.ErrNoStore)
		return false
	}
	if settings.IsNil(value) {
		b.Store.Remove(key)
		return true
	}
	if settings.IsDirect(reflect.TypeFor[T]()) {
		b.Store.Set(key, value)
		return true
	}
	data, err := b.codec().Marshal(value)
	if err != nil {
		b.reportError(key, err)
		return false
	}
	b.Store.Set(key, string(data))
	return true
}

func settingEqual(a, b any) bool {
	return settings.Equal(a, b)
}
`
