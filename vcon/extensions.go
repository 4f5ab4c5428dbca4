package vcon

import (
	"fmt"
	"sort"

	"xdao.co/vcon/compliance"
	"xdao.co/vcon/wire"
)

// Extensions holds the fields of an entity that its schema does not name.
// Values are kept exactly as the backend decoded them.
type Extensions map[string]any

// Keys returns the extension keys in sorted order.
func (e Extensions) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// mergeExtensions appends ext to m after the named fields, in sorted key
// order. A key that m already holds is a collision: named fields win and the
// extension entry is dropped, unless the codec is strict.
func (c *Codec) mergeExtensions(m *wire.Map, ext Extensions) error {
	for _, k := range ext.Keys() {
		if m.Has(k) {
			if c.mode == compliance.Strict {
				return &Error{
					Kind:    KindEncode,
					Code:    CodeExtensionCollision,
					RuleID:  "VCON-EXT-001",
					Path:    k,
					Message: fmt.Sprintf("extension %q collides with a named field", k),
				}
			}
			continue
		}
		m.Set(k, ext[k])
	}
	return nil
}
