package vcon

import (
	"fmt"

	"xdao.co/vcon/wire"
)

// Vcon is a conversation container document.
//
// Nil slices are absent on the wire; empty non-nil slices are written as
// empty lists.
type Vcon struct {
	Version     Version
	UUID        UUID
	Subject     string
	CreatedAt   Date
	UpdatedAt   Date
	Redacted    *RedactedRef
	Amended     *RedactedRef
	Group       []Ref
	Parties     []Party
	Dialog      []Dialog
	Attachments []Attachment
	Analysis    []Analysis
	Extensions  Extensions

	blank keySet
}

func (c *Codec) decodeVcon(v any) (*Vcon, error) {
	f, err := asFields(v)
	if err != nil {
		return nil, err
	}
	doc := &Vcon{}

	rawVersion, err := f.reqString("vcon")
	if err != nil {
		return nil, err
	}
	if doc.Version, err = ParseVersion(rawVersion); err != nil {
		return nil, atPath(err, "vcon")
	}
	if !f.has("uuid") {
		return nil, missingField("uuid")
	}
	if doc.UUID, err = f.optUUID("uuid"); err != nil {
		return nil, err
	}
	if doc.Subject, err = f.optString("subject"); err != nil {
		return nil, err
	}
	if doc.CreatedAt, err = f.optDate("created_at"); err != nil {
		return nil, err
	}
	if doc.UpdatedAt, err = f.optDate("updated_at"); err != nil {
		return nil, err
	}
	for _, link := range []struct {
		key string
		p   **RedactedRef
	}{
		{"redacted", &doc.Redacted},
		{"amended", &doc.Amended},
	} {
		raw, ok := f.take(link.key)
		if !ok {
			continue
		}
		r, err := c.decodeRedactedRef(raw)
		if err != nil {
			return nil, atPath(err, link.key)
		}
		*link.p = &r
	}

	if doc.Group, err = decodeListField(f, "group", c.decodeRef); err != nil {
		return nil, err
	}
	if doc.Parties, err = decodeListField(f, "parties", c.decodeParty); err != nil {
		return nil, err
	}
	if doc.Dialog, err = decodeListField(f, "dialog", c.decodeDialog); err != nil {
		return nil, err
	}
	if doc.Attachments, err = decodeListField(f, "attachments", c.decodeAttachment); err != nil {
		return nil, err
	}
	if doc.Analysis, err = decodeListField(f, "analysis", c.decodeAnalysis); err != nil {
		return nil, err
	}
	doc.Extensions = f.rest()
	doc.blank = f.blank
	return doc, nil
}

// decodeListField decodes an optional list. An absent key yields nil.
func decodeListField[T any](f *fields, key string, fn func(v any) (T, error)) ([]T, error) {
	list, ok, err := f.optArray(key)
	if err != nil || !ok {
		return nil, err
	}
	return decodeList(key, list, fn)
}

func (c *Codec) encodeVcon(doc *Vcon) (*wire.Map, error) {
	if doc == nil {
		return nil, newError(KindEncode, CodeMissingField, "VCON-FIELD-001", "nil vcon")
	}
	if doc.UUID.IsZero() {
		return nil, encodeMissing("uuid")
	}
	m := wire.NewMap(13)
	version := doc.Version
	if version.IsZero() {
		version = DefaultVersion
	}
	m.Set("vcon", version.String())
	m.Set("uuid", doc.UUID.String())
	setString(m, "subject", doc.Subject, doc.blank)
	if !doc.CreatedAt.IsZero() {
		m.Set("created_at", doc.CreatedAt.String())
	}
	if !doc.UpdatedAt.IsZero() {
		m.Set("updated_at", doc.UpdatedAt.String())
	}
	for _, link := range []struct {
		key string
		r   *RedactedRef
	}{
		{"redacted", doc.Redacted},
		{"amended", doc.Amended},
	} {
		if link.r == nil {
			continue
		}
		rm, err := c.encodeRedactedRef(*link.r)
		if err != nil {
			return nil, atPath(err, link.key)
		}
		m.Set(link.key, rm)
	}

	if err := encodeListField(m, "group", doc.Group, c.encodeRef); err != nil {
		return nil, err
	}
	if err := encodeListField(m, "parties", doc.Parties, c.encodeParty); err != nil {
		return nil, err
	}
	if err := encodeListField(m, "dialog", doc.Dialog, c.encodeDialog); err != nil {
		return nil, err
	}
	if err := encodeListField(m, "attachments", doc.Attachments, c.encodeAttachment); err != nil {
		return nil, err
	}
	if err := encodeListField(m, "analysis", doc.Analysis, c.encodeAnalysis); err != nil {
		return nil, err
	}
	if err := c.mergeExtensions(m, doc.Extensions); err != nil {
		return nil, err
	}
	return m, nil
}

func encodeListField[T any](m *wire.Map, key string, list []T, fn func(T) (*wire.Map, error)) error {
	if list == nil {
		return nil
	}
	out := make([]any, 0, len(list))
	for i, e := range list {
		em, err := fn(e)
		if err != nil {
			return atPath(err, fmt.Sprintf("%s[%d]", key, i))
		}
		out = append(out, em)
	}
	m.Set(key, out)
	return nil
}
