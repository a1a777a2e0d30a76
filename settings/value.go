package settings

import (
	"math"
	"reflect"
	"time"

	"fortio.org/safecast"
)

var durationType = reflect.TypeFor[time.Duration]()

// IsDirect reports whether values of t are stored as they are instead of
// going through a Codec: booleans, integers, floats and strings, including
// named types such as time.Duration.
func IsDirect(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// IsNil reports whether v is nil or a nil pointer, map, slice, interface,
// channel or func. Writing such a value removes the key.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}

// Coerce converts a stored direct value to T. Stores that round-trip through
// a file hand back int64/float64 for every number, so numeric kinds convert
// into each other as long as the value fits. TOML writes time.Duration as
// its string form; that form is parsed back.
func Coerce[T any](raw any) (T, bool) {
	var zero T
	if v, ok := raw.(T); ok {
		return v, true
	}
	if raw == nil {
		return zero, false
	}
	dst := reflect.TypeFor[T]()
	src := reflect.ValueOf(raw)
	out := reflect.New(dst).Elem()

	switch dst.Kind() {
	case reflect.Bool:
		if src.Kind() != reflect.Bool {
			return zero, false
		}
		out.SetBool(src.Bool())
	case reflect.String:
		if src.Kind() != reflect.String {
			return zero, false
		}
		out.SetString(src.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if dst == durationType && src.Kind() == reflect.String {
			d, err := time.ParseDuration(src.String())
			if err != nil {
				return zero, false
			}
			out.SetInt(int64(d))
			break
		}
		n, ok := asInt(src)
		if !ok || out.OverflowInt(n) {
			return zero, false
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, ok := asUint(src)
		if !ok || out.OverflowUint(n) {
			return zero, false
		}
		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, ok := asFloat(src)
		if !ok || out.OverflowFloat(f) {
			return zero, false
		}
		out.SetFloat(f)
	default:
		return zero, false
	}
	return out.Interface().(T), true
}

func asInt(v reflect.Value) (int64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := safecast.Conv[int64](v.Uint())
		return n, err == nil
	}
	return 0, false
}

func asUint(v reflect.Value) (uint64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := safecast.Conv[uint64](v.Int())
		return n, err == nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint(), true
	}
	return 0, false
}

func asFloat(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), true
	}
	return 0, false
}

// Equal decides whether a write changes nothing: reflect.DeepEqual, except
// that two NaNs of the same float type are equal. Setting NaN twice is then a
// no-op like any other repeated value.
func Equal(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() || va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Float32, reflect.Float64:
		return math.IsNaN(va.Float()) && math.IsNaN(vb.Float())
	}
	return false
}
