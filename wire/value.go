package wire

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/fxamacker/cbor/v2"
)

// AsMap returns v as a string-keyed map. A map[any]any qualifies only when
// every key is a string; *Map is accepted so encoder output can be inspected
// too.
func AsMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = e
		}
		return out, true
	case *Map:
		out := make(map[string]any, t.Len())
		for _, k := range t.keys {
			out[k] = t.values[k]
		}
		return out, true
	default:
		return nil, false
	}
}

func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func AsArray(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}

// AsUint returns v as a non-negative integer. Integral floats are accepted
// because both backends may legitimately carry them.
func AsUint(v any) (uint64, bool) {
	switch t := v.(type) {
	case uint64:
		return t, true
	case int64:
		if t < 0 {
			return 0, false
		}
		return uint64(t), true
	case int:
		if t < 0 {
			return 0, false
		}
		return uint64(t), true
	case uint32:
		return uint64(t), true
	case float64:
		if t < 0 || t != math.Trunc(t) || t > math.MaxUint64 {
			return 0, false
		}
		return uint64(t), true
	case json.Number:
		if u, err := strconv.ParseUint(string(t), 10, 64); err == nil {
			return u, true
		}
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return AsUint(f)
	default:
		return 0, false
	}
}

// AsFloat returns any numeric v as a float64.
func AsFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// TypeName names the wire type of v for error messages.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, uint64, int64, int, uint32, float64, float32:
		return "number"
	case []byte:
		return "byte string"
	case []any:
		return "array"
	case map[string]any, map[any]any, *Map:
		return "map"
	case cbor.Tag:
		return "tag"
	default:
		return fmt.Sprintf("%T", v)
	}
}
