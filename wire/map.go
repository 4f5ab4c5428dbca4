package wire

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Map is an insertion-ordered string-keyed map.
//
// Entity encoders emit their fields into a Map so both backends write keys in
// the same fixed order: named fields first, extensions last. Setting an
// existing key replaces its value in place.
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap returns an empty Map with room for n entries.
func NewMap(n int) *Map {
	return &Map{keys: make([]string, 0, n), values: make(map[string]any, n)}
}

func (m *Map) Set(key string, v any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

func (m *Map) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *Map) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	return append([]string(nil), m.keys...)
}

func (m *Map) Len() int { return len(m.keys) }

// Merge appends every entry of other that m does not already hold.
func (m *Map) Merge(other *Map) {
	for _, k := range other.keys {
		if !m.Has(k) {
			m.Set(k, other.values[k])
		}
	}
}

// MarshalJSON writes the entries in insertion order without insignificant
// whitespace and without HTML escaping.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshalJSONValue(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := marshalJSONValue(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalCBOR writes a definite-length map whose entries keep insertion order.
// Keys and values use the package's deterministic encoding mode.
func (m *Map) MarshalCBOR() ([]byte, error) {
	out := appendHead(nil, cborMajorMap, uint64(len(m.keys)))
	for _, k := range m.keys {
		kb, err := encMode.Marshal(k)
		if err != nil {
			return nil, err
		}
		out = append(out, kb...)
		vb, err := encMode.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		out = append(out, vb...)
	}
	return out, nil
}

const cborMajorMap = 5

// appendHead appends a CBOR data item head (RFC 8949 §3) using the shortest
// argument encoding.
func appendHead(dst []byte, major byte, n uint64) []byte {
	mt := major << 5
	switch {
	case n < 24:
		return append(dst, mt|byte(n))
	case n <= math.MaxUint8:
		return append(dst, mt|24, byte(n))
	case n <= math.MaxUint16:
		return binary.BigEndian.AppendUint16(append(dst, mt|25), uint16(n))
	case n <= math.MaxUint32:
		return binary.BigEndian.AppendUint32(append(dst, mt|26), uint32(n))
	default:
		return binary.BigEndian.AppendUint64(append(dst, mt|27), n)
	}
}
