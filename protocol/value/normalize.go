package value

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
)

// maxExactFloat is the largest magnitude below which every integral float64
// is exact.
const maxExactFloat = 1 << 53

// Normalize returns v in the canonical form shared by every value domain.
// Non-negative integers become uint64 and negative ones int64. Integral
// floats within the exact range are treated as integers and other numbers
// become float64. Slices become []any, string keyed maps become Map and
// other maps map[any]any, recursively. []byte and structs are kept as is.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil, bool, string, []byte:
		return v
	case uint64:
		return x
	case uint:
		return uint64(x)
	case uint8:
		return uint64(x)
	case uint16:
		return uint64(x)
	case uint32:
		return uint64(x)
	case int:
		return signed(int64(x))
	case int8:
		return signed(int64(x))
	case int16:
		return signed(int64(x))
	case int32:
		return signed(int64(x))
	case int64:
		return signed(x)
	case float32:
		return float(float64(x))
	case float64:
		return float(x)
	case json.Number:
		return number(x)
	case Map:
		return NormalizeMap(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Normalize(e)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			out := make(Map, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				out[iter.Key().String()] = Normalize(iter.Value().Interface())
			}
			return out
		}
		out := make(map[any]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[key(iter.Key().Interface())] = Normalize(iter.Value().Interface())
		}
		return out
	default:
		return v
	}
}

// NormalizeMap applies Normalize to every value of m. A nil map stays nil.
func NormalizeMap(m Map) Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for k, e := range m {
		out[k] = Normalize(e)
	}
	return out
}

func key(k any) any {
	n := Normalize(k)
	if n == nil || reflect.TypeOf(n).Comparable() {
		return n
	}
	return k
}

func signed(n int64) any {
	if n >= 0 {
		return uint64(n)
	}
	return n
}

func float(f float64) any {
	if f != math.Trunc(f) || math.Abs(f) >= maxExactFloat {
		return f
	}
	if f >= 0 {
		return uint64(f)
	}
	return int64(f)
}

func number(n json.Number) any {
	s := n.String()
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return u
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return float(f)
	}
	return s
}
