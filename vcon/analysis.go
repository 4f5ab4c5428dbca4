package vcon

import "xdao.co/vcon/wire"

// Analysis is the output of a tool run over one or more dialogs, for example
// a transcript or a sentiment summary.
type Analysis struct {
	Type       string
	Dialog     Indexes
	MediaType  MediaType
	Filename   string
	Vendor     string
	Product    string
	Schema     string
	Content    Content
	Extensions Extensions

	blank keySet
}

func (c *Codec) decodeAnalysis(v any) (Analysis, error) {
	f, err := asFields(v)
	if err != nil {
		return Analysis{}, err
	}
	var a Analysis
	if a.Type, err = f.reqString("type"); err != nil {
		return Analysis{}, err
	}
	if a.Dialog, err = f.reqIndexes("dialog"); err != nil {
		return Analysis{}, err
	}
	if a.MediaType, err = f.optMediaType("mimetype"); err != nil {
		return Analysis{}, err
	}
	for _, sf := range []stringField{
		{"filename", &a.Filename},
		{"vendor", &a.Vendor},
		{"product", &a.Product},
		{"schema", &a.Schema},
	} {
		if *sf.p, err = f.optString(sf.key); err != nil {
			return Analysis{}, err
		}
	}
	if a.Content, err = c.decodeContent(f); err != nil {
		return Analysis{}, err
	}
	a.Extensions = f.rest()
	a.blank = f.blank
	return a, nil
}

func (c *Codec) encodeAnalysis(a Analysis) (*wire.Map, error) {
	if a.Dialog.Values == nil {
		return nil, encodeMissing("dialog")
	}
	m := wire.NewMap(9)
	m.Set("type", a.Type)
	m.Set("dialog", a.Dialog.wire())
	if !a.MediaType.IsZero() {
		m.Set("mimetype", a.MediaType.String())
	}
	setString(m, "filename", a.Filename, a.blank)
	setString(m, "vendor", a.Vendor, a.blank)
	setString(m, "product", a.Product, a.blank)
	setString(m, "schema", a.Schema, a.blank)
	if err := c.encodeContent(a.Content, m); err != nil {
		return nil, err
	}
	if err := c.mergeExtensions(m, a.Extensions); err != nil {
		return nil, err
	}
	return m, nil
}
