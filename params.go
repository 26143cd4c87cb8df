package activestate

import (
	"fmt"
	"reflect"
)

// Params holds state parameter values keyed by parameter name.
type Params map[string]any

// Clone returns a shallow copy. A nil receiver yields an empty, non-nil map.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Matches reports whether every desired key in p matches the same key in current.
// Keys absent from p are ignored. A nil desired value matches anything.
func (p Params) Matches(current Params) bool {
	for key, want := range p {
		if want == nil {
			continue
		}
		got, ok := current[key]
		if !ok {
			return false
		}
		if !looseEqual(want, got) {
			return false
		}
	}
	return true
}

// looseEqual compares parameter values the way URL-derived values need to be compared:
// numbers by value regardless of kind, and numbers against their string form.
func looseEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	an, aNum := toNumber(a)
	bn, bNum := toNumber(b)
	switch {
	case aNum && bNum:
		return an.equal(bn)
	case aNum || bNum:
		as, aStr := a.(string)
		bs, bStr := b.(string)
		if aStr {
			return as == fmt.Sprint(b)
		}
		if bStr {
			return bs == fmt.Sprint(a)
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

// number holds a numeric parameter in its widest exact form.
type number struct {
	kind reflect.Kind // reflect.Int64, reflect.Uint64 or reflect.Float64
	i    int64
	u    uint64
	f    float64
}

func toNumber(v any) (number, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{kind: reflect.Int64, i: rv.Int()}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return number{kind: reflect.Uint64, u: rv.Uint()}, true
	case reflect.Float32, reflect.Float64:
		return number{kind: reflect.Float64, f: rv.Float()}, true
	}
	return number{}, false
}

// equal compares integers exactly and falls back to float64 only when a float is involved.
func (n number) equal(o number) bool {
	switch {
	case n.kind == reflect.Float64 || o.kind == reflect.Float64:
		return n.float() == o.float()
	case n.kind == reflect.Int64 && o.kind == reflect.Int64:
		return n.i == o.i
	case n.kind == reflect.Uint64 && o.kind == reflect.Uint64:
		return n.u == o.u
	case n.kind == reflect.Int64:
		return n.i >= 0 && uint64(n.i) == o.u
	default:
		return o.i >= 0 && uint64(o.i) == n.u
	}
}

func (n number) float() float64 {
	switch n.kind {
	case reflect.Int64:
		return float64(n.i)
	case reflect.Uint64:
		return float64(n.u)
	}
	return n.f
}
