package vcon

import "xdao.co/vcon/wire"

// Attachment is a document exchanged during the conversation, such as a
// contract or an image, contributed by one party.
type Attachment struct {
	Type       string
	Start      Date
	Party      uint32
	MediaType  MediaType
	Filename   string
	Content    Content
	Extensions Extensions

	blank keySet
}

func (c *Codec) decodeAttachment(v any) (Attachment, error) {
	f, err := asFields(v)
	if err != nil {
		return Attachment{}, err
	}
	var a Attachment
	if a.Type, err = f.reqString("type"); err != nil {
		return Attachment{}, err
	}
	if a.Start, err = f.reqDate("start"); err != nil {
		return Attachment{}, err
	}
	if a.Party, err = f.reqIndex("party"); err != nil {
		return Attachment{}, err
	}
	if a.MediaType, err = f.optMediaType("mimetype"); err != nil {
		return Attachment{}, err
	}
	if a.Filename, err = f.optString("filename"); err != nil {
		return Attachment{}, err
	}
	if a.Content, err = c.decodeContent(f); err != nil {
		return Attachment{}, err
	}
	a.Extensions = f.rest()
	a.blank = f.blank
	return a, nil
}

func (c *Codec) encodeAttachment(a Attachment) (*wire.Map, error) {
	if a.Start.IsZero() {
		return nil, encodeMissing("start")
	}
	m := wire.NewMap(8)
	m.Set("type", a.Type)
	m.Set("start", a.Start.String())
	m.Set("party", uint64(a.Party))
	if !a.MediaType.IsZero() {
		m.Set("mimetype", a.MediaType.String())
	}
	setString(m, "filename", a.Filename, a.blank)
	if err := c.encodeContent(a.Content, m); err != nil {
		return nil, err
	}
	if err := c.mergeExtensions(m, a.Extensions); err != nil {
		return nil, err
	}
	return m, nil
}
