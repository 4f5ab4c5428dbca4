package vcon

import "xdao.co/vcon/wire"

// Ref points at another vCon, either by UUID or by content (inline or hosted).
// Both may be set.
type Ref struct {
	UUID       UUID
	Content    Content
	Extensions Extensions
}

// RedactedRef is the "redacted" or "amended" link to the vCon this one was
// derived from. An empty object on the wire decodes to a RedactedRef whose
// IsEmpty reports true, and encodes back to an empty object.
type RedactedRef struct {
	Type       string
	UUID       UUID
	Content    Content
	Extensions Extensions

	blank keySet
}

func (r RedactedRef) IsEmpty() bool {
	return r.Type == "" && r.UUID.IsZero() && r.Content == nil && len(r.Extensions) == 0
}

func (c *Codec) decodeRef(v any) (Ref, error) {
	f, err := asFields(v)
	if err != nil {
		return Ref{}, err
	}
	var r Ref
	if r.UUID, err = f.optUUID("uuid"); err != nil {
		return Ref{}, err
	}
	if r.Content, err = c.decodeOptionalContent(f); err != nil {
		return Ref{}, err
	}
	if r.UUID.IsZero() && r.Content == nil {
		return Ref{}, &Error{Kind: KindDecode, Code: CodeMissingField, RuleID: "VCON-FIELD-001", Path: "uuid", Message: "group entry needs a uuid or content"}
	}
	r.Extensions = f.rest()
	return r, nil
}

func (c *Codec) decodeRedactedRef(v any) (RedactedRef, error) {
	f, err := asFields(v)
	if err != nil {
		return RedactedRef{}, err
	}
	var r RedactedRef
	if r.Type, err = f.optString("type"); err != nil {
		return RedactedRef{}, err
	}
	if r.UUID, err = f.optUUID("uuid"); err != nil {
		return RedactedRef{}, err
	}
	if r.Content, err = c.decodeOptionalContent(f); err != nil {
		return RedactedRef{}, err
	}
	r.Extensions = f.rest()
	r.blank = f.blank
	return r, nil
}

func (c *Codec) encodeRef(r Ref) (*wire.Map, error) {
	if r.UUID.IsZero() && r.Content == nil {
		return nil, encodeMissing("uuid")
	}
	m := wire.NewMap(4)
	if !r.UUID.IsZero() {
		m.Set("uuid", r.UUID.String())
	}
	if r.Content != nil {
		if err := c.encodeContent(r.Content, m); err != nil {
			return nil, err
		}
	}
	if err := c.mergeExtensions(m, r.Extensions); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *Codec) encodeRedactedRef(r RedactedRef) (*wire.Map, error) {
	m := wire.NewMap(5)
	setString(m, "type", r.Type, r.blank)
	if !r.UUID.IsZero() {
		m.Set("uuid", r.UUID.String())
	}
	if r.Content != nil {
		if err := c.encodeContent(r.Content, m); err != nil {
			return nil, err
		}
	}
	if err := c.mergeExtensions(m, r.Extensions); err != nil {
		return nil, err
	}
	return m, nil
}
