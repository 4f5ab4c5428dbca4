package vcon

import (
	"fmt"
	"math"

	"xdao.co/vcon/wire"
)

// fields is the decode-side view of one flattened entity. Named fields are
// claimed as they are read; whatever is left unclaimed becomes the entity's
// extensions.
type fields struct {
	m       map[string]any
	claimed map[string]bool
	blank   keySet
}

// keySet records optional string fields that were present but empty, so
// they are written back instead of being dropped.
type keySet map[string]bool

func newFields(m map[string]any) *fields {
	return &fields{m: m, claimed: make(map[string]bool, len(m))}
}

// asFields checks that v is a map and wraps it.
func asFields(v any) (*fields, error) {
	m, ok := wire.AsMap(v)
	if !ok {
		return nil, &Error{Kind: KindDecode, Code: CodeType, RuleID: "VCON-FIELD-002", Message: fmt.Sprintf("expected map, got %s", wire.TypeName(v))}
	}
	return newFields(m), nil
}

func (f *fields) has(key string) bool {
	_, ok := f.m[key]
	return ok
}

// take reads key and claims it.
func (f *fields) take(key string) (any, bool) {
	v, ok := f.m[key]
	if ok {
		f.claimed[key] = true
	}
	return v, ok
}

// rest returns the unclaimed entries, or nil when there are none.
func (f *fields) rest() Extensions {
	var ext Extensions
	for k, v := range f.m {
		if f.claimed[k] {
			continue
		}
		if ext == nil {
			ext = make(Extensions)
		}
		ext[k] = v
	}
	return ext
}

func (f *fields) optString(key string) (string, error) {
	v, ok := f.take(key)
	if !ok {
		return "", nil
	}
	s, ok := wire.AsString(v)
	if !ok {
		return "", typeError(key, "string", v)
	}
	if s == "" {
		if f.blank == nil {
			f.blank = make(keySet)
		}
		f.blank[key] = true
	}
	return s, nil
}

func (f *fields) reqString(key string) (string, error) {
	if !f.has(key) {
		return "", missingField(key)
	}
	return f.optString(key)
}

func (f *fields) optDate(key string) (Date, error) {
	s, err := f.optString(key)
	if err != nil || !f.has(key) {
		return Date{}, err
	}
	d, err := ParseDate(s)
	if err != nil {
		return Date{}, atPath(err, key)
	}
	return d, nil
}

func (f *fields) reqDate(key string) (Date, error) {
	if !f.has(key) {
		return Date{}, missingField(key)
	}
	return f.optDate(key)
}

func (f *fields) optMediaType(key string) (MediaType, error) {
	s, err := f.optString(key)
	if err != nil || !f.has(key) {
		return MediaType{}, err
	}
	m, err := ParseMediaType(s)
	if err != nil {
		return MediaType{}, atPath(err, key)
	}
	return m, nil
}

func (f *fields) optUUID(key string) (UUID, error) {
	s, err := f.optString(key)
	if err != nil || !f.has(key) {
		return UUID{}, err
	}
	u, err := ParseUUID(s)
	if err != nil {
		return UUID{}, atPath(err, key)
	}
	return u, nil
}

func (f *fields) reqIndex(key string) (uint32, error) {
	v, ok := f.take(key)
	if !ok {
		return 0, missingField(key)
	}
	return asIndex(key, v)
}

func (f *fields) optIndex(key string) (*uint32, error) {
	v, ok := f.take(key)
	if !ok {
		return nil, nil
	}
	i, err := asIndex(key, v)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// reqIndexes reads a value that is either one index or a list of them.
func (f *fields) reqIndexes(key string) (Indexes, error) {
	v, ok := f.take(key)
	if !ok {
		return Indexes{}, missingField(key)
	}
	if list, ok := wire.AsArray(v); ok {
		out := Indexes{Values: make([]uint32, 0, len(list))}
		for i, e := range list {
			n, err := asIndex(fmt.Sprintf("%s[%d]", key, i), e)
			if err != nil {
				return Indexes{}, err
			}
			out.Values = append(out.Values, n)
		}
		return out, nil
	}
	n, err := asIndex(key, v)
	if err != nil {
		return Indexes{}, err
	}
	return Index(n), nil
}

func (f *fields) optArray(key string) ([]any, bool, error) {
	v, ok := f.take(key)
	if !ok {
		return nil, false, nil
	}
	a, ok := wire.AsArray(v)
	if !ok {
		return nil, false, typeError(key, "array", v)
	}
	return a, true, nil
}

func asIndex(path string, v any) (uint32, error) {
	n, ok := wire.AsUint(v)
	if !ok || n > math.MaxUint32 {
		return 0, typeError(path, "non-negative 32-bit integer", v)
	}
	return uint32(n), nil
}

func typeError(path, want string, got any) error {
	return &Error{
		Kind:    KindDecode,
		Code:    CodeType,
		RuleID:  "VCON-FIELD-002",
		Path:    path,
		Message: fmt.Sprintf("expected %s, got %s", want, wire.TypeName(got)),
	}
}

func missingField(key string) error {
	return &Error{Kind: KindDecode, Code: CodeMissingField, RuleID: "VCON-FIELD-001", Path: key, Message: "missing required field"}
}

func encodeMissing(key string) error {
	return &Error{Kind: KindEncode, Code: CodeMissingField, RuleID: "VCON-FIELD-001", Path: key, Message: "missing required field"}
}

// decodeList decodes every element of a list with fn, prefixing errors with
// key[i].
func decodeList[T any](key string, list []any, fn func(v any) (T, error)) ([]T, error) {
	out := make([]T, 0, len(list))
	for i, v := range list {
		e, err := fn(v)
		if err != nil {
			return nil, atPath(err, fmt.Sprintf("%s[%d]", key, i))
		}
		out = append(out, e)
	}
	return out, nil
}
