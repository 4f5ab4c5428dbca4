package vcon

import "xdao.co/vcon/wire"

// Party is one participant of the conversation. Dialog, attachment and event
// entries refer to parties by their index in Vcon.Parties.
type Party struct {
	Tel          string
	Str          string
	Mailto       string
	Name         string
	Validation   string
	GMLPos       string
	CivicAddress *CivicAddress
	UUID         UUID
	Role         string
	Extensions   Extensions

	blank keySet
}

// CivicAddress is a party's postal location, keyed by the RFC 5139 element
// names.
type CivicAddress struct {
	Country string
	A1      string
	A2      string
	A3      string
	A4      string
	A5      string
	A6      string
	PRD     string
	POD     string
	STS     string
	HNO     string
	HNS     string
	LMK     string
	LOC     string
	FLR     string
	NAM     string
	PC      string

	Extensions Extensions

	blank keySet
}

type stringField struct {
	key string
	p   *string
}

// stringFields lists the address elements in wire order.
func (a *CivicAddress) stringFields() []stringField {
	return []stringField{
		{"country", &a.Country},
		{"a1", &a.A1}, {"a2", &a.A2}, {"a3", &a.A3},
		{"a4", &a.A4}, {"a5", &a.A5}, {"a6", &a.A6},
		{"prd", &a.PRD}, {"pod", &a.POD}, {"sts", &a.STS},
		{"hno", &a.HNO}, {"hns", &a.HNS}, {"lmk", &a.LMK},
		{"loc", &a.LOC}, {"flr", &a.FLR}, {"nam", &a.NAM},
		{"pc", &a.PC},
	}
}

func (p *Party) leadingFields() []stringField {
	return []stringField{
		{"tel", &p.Tel}, {"str", &p.Str}, {"mailto", &p.Mailto},
		{"name", &p.Name}, {"validation", &p.Validation}, {"gmlpos", &p.GMLPos},
	}
}

func (c *Codec) decodeParty(v any) (Party, error) {
	f, err := asFields(v)
	if err != nil {
		return Party{}, err
	}
	var p Party
	for _, sf := range p.leadingFields() {
		if *sf.p, err = f.optString(sf.key); err != nil {
			return Party{}, err
		}
	}
	if raw, ok := f.take("civic_address"); ok {
		addr, err := decodeCivicAddress(raw)
		if err != nil {
			return Party{}, atPath(err, "civic_address")
		}
		p.CivicAddress = &addr
	}
	if p.UUID, err = f.optUUID("uuid"); err != nil {
		return Party{}, err
	}
	if p.Role, err = f.optString("role"); err != nil {
		return Party{}, err
	}
	p.Extensions = f.rest()
	p.blank = f.blank
	return p, nil
}

func decodeCivicAddress(v any) (CivicAddress, error) {
	f, err := asFields(v)
	if err != nil {
		return CivicAddress{}, err
	}
	var a CivicAddress
	for _, sf := range a.stringFields() {
		if *sf.p, err = f.optString(sf.key); err != nil {
			return CivicAddress{}, err
		}
	}
	a.Extensions = f.rest()
	a.blank = f.blank
	return a, nil
}

func (c *Codec) encodeParty(p Party) (*wire.Map, error) {
	m := wire.NewMap(10)
	for _, sf := range p.leadingFields() {
		setString(m, sf.key, *sf.p, p.blank)
	}
	if p.CivicAddress != nil {
		addr, err := c.encodeCivicAddress(*p.CivicAddress)
		if err != nil {
			return nil, atPath(err, "civic_address")
		}
		m.Set("civic_address", addr)
	}
	if !p.UUID.IsZero() {
		m.Set("uuid", p.UUID.String())
	}
	setString(m, "role", p.Role, p.blank)
	if err := c.mergeExtensions(m, p.Extensions); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *Codec) encodeCivicAddress(a CivicAddress) (*wire.Map, error) {
	m := wire.NewMap(4)
	for _, sf := range a.stringFields() {
		setString(m, sf.key, *sf.p, a.blank)
	}
	if err := c.mergeExtensions(m, a.Extensions); err != nil {
		return nil, err
	}
	return m, nil
}

// setString writes s under key unless it is empty and was not read as an
// empty string.
func setString(m *wire.Map, key, s string, blank keySet) {
	if s != "" || blank[key] {
		m.Set(key, s)
	}
}
