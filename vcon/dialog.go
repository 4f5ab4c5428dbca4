package vcon

import (
	"fmt"
	"math"

	"xdao.co/vcon/wire"
)

// DialogType is the "type" discriminator of a dialog entry.
type DialogType string

const (
	DialogRecording  DialogType = "recording"
	DialogText       DialogType = "text"
	DialogTransfer   DialogType = "transfer"
	DialogIncomplete DialogType = "incomplete"
)

// Indexes is a value that the wire carries either as one index or as a list
// of indexes. Scalar records which form was used so it can be written back
// the same way.
type Indexes struct {
	Values []uint32
	Scalar bool
}

// Index is the scalar form.
func Index(i uint32) Indexes { return Indexes{Values: []uint32{i}, Scalar: true} }

// IndexList is the list form.
func IndexList(idx ...uint32) Indexes { return Indexes{Values: append([]uint32{}, idx...)} }

func (x Indexes) wire() any {
	if x.Scalar && len(x.Values) == 1 {
		return uint64(x.Values[0])
	}
	out := make([]any, len(x.Values))
	for i, v := range x.Values {
		out[i] = uint64(v)
	}
	return out
}

// Dialog is one dialog entry. The fields common to every type live here;
// Detail holds the type-specific part.
type Dialog struct {
	Start        Date
	PartyHistory []PartyEvent
	Campaign     string
	Interaction  string
	Detail       DialogDetail
	Extensions   Extensions

	blank keySet
}

// Type returns the dialog's type, or "" when Detail is unset.
func (d Dialog) Type() DialogType {
	if d.Detail == nil {
		return ""
	}
	return d.Detail.Type()
}

// DialogDetail is one of *MediaDialog, *TransferDialog or *IncompleteDialog.
type DialogDetail interface {
	Type() DialogType
	isDialogDetail()
}

// MediaDialog is a recording or text dialog. Kind must be DialogRecording or
// DialogText.
type MediaDialog struct {
	Kind       DialogType
	Duration   *float64
	Parties    Indexes
	Originator *uint32
	MediaType  MediaType
	Filename   string
	Content    Content
}

// TransferDialog records a call transfer between dialogs.
type TransferDialog struct {
	Transferee     uint32
	Transferor     uint32
	TransferTarget uint32
	Original       uint32
	Consultation   *uint32
	TargetDialog   uint32
}

// IncompleteDialog is a dialog that never connected.
type IncompleteDialog struct {
	Disposition string
}

func (d *MediaDialog) Type() DialogType {
	if d == nil {
		return ""
	}
	return d.Kind
}
func (*TransferDialog) Type() DialogType   { return DialogTransfer }
func (*IncompleteDialog) Type() DialogType { return DialogIncomplete }

func (*MediaDialog) isDialogDetail()      {}
func (*TransferDialog) isDialogDetail()   {}
func (*IncompleteDialog) isDialogDetail() {}

func (c *Codec) decodeDialog(v any) (Dialog, error) {
	f, err := asFields(v)
	if err != nil {
		return Dialog{}, err
	}
	var d Dialog
	if d.Start, err = f.reqDate("start"); err != nil {
		return Dialog{}, err
	}
	if list, ok, err := f.optArray("party_history"); err != nil {
		return Dialog{}, err
	} else if ok {
		if d.PartyHistory, err = decodeList("party_history", list, c.decodePartyEvent); err != nil {
			return Dialog{}, err
		}
	}
	if d.Campaign, err = f.optString("campaign"); err != nil {
		return Dialog{}, err
	}
	if d.Interaction, err = f.optString("interaction"); err != nil {
		return Dialog{}, err
	}
	label, err := f.reqString("type")
	if err != nil {
		return Dialog{}, err
	}
	switch typ := DialogType(label); typ {
	case DialogRecording, DialogText:
		d.Detail, err = c.decodeMediaDialog(typ, f)
	case DialogTransfer:
		d.Detail, err = decodeTransferDialog(f)
	case DialogIncomplete:
		var disp string
		disp, err = f.reqString("disposition")
		d.Detail = &IncompleteDialog{Disposition: disp}
	default:
		return Dialog{}, &Error{Kind: KindDecode, Code: CodeUnknownVariant, RuleID: "VCON-DIALOG-001", Path: "type", Message: fmt.Sprintf("unknown dialog type %q", label)}
	}
	if err != nil {
		return Dialog{}, err
	}
	d.Extensions = f.rest()
	d.blank = f.blank
	return d, nil
}

func (c *Codec) decodeMediaDialog(typ DialogType, f *fields) (*MediaDialog, error) {
	md := &MediaDialog{Kind: typ}
	if raw, ok := f.take("duration"); ok {
		dur, ok := wire.AsFloat(raw)
		if !ok || dur < 0 || math.IsNaN(dur) || math.IsInf(dur, 0) {
			return nil, typeError("duration", "non-negative number", raw)
		}
		md.Duration = &dur
	}
	var err error
	if md.Parties, err = f.reqIndexes("parties"); err != nil {
		return nil, err
	}
	if md.Originator, err = f.optIndex("originator"); err != nil {
		return nil, err
	}
	if md.MediaType, err = f.optMediaType("mimetype"); err != nil {
		return nil, err
	}
	if md.Filename, err = f.optString("filename"); err != nil {
		return nil, err
	}
	if md.Content, err = c.decodeContent(f); err != nil {
		return nil, err
	}
	return md, nil
}

func decodeTransferDialog(f *fields) (*TransferDialog, error) {
	td := &TransferDialog{}
	for _, r := range []struct {
		key string
		p   *uint32
	}{
		{"transferee", &td.Transferee},
		{"transferor", &td.Transferor},
		{"transfer_target", &td.TransferTarget},
		{"original", &td.Original},
	} {
		n, err := f.reqIndex(r.key)
		if err != nil {
			return nil, err
		}
		*r.p = n
	}
	var err error
	if td.Consultation, err = f.optIndex("consultation"); err != nil {
		return nil, err
	}
	if td.TargetDialog, err = f.reqIndex("target_dialog"); err != nil {
		return nil, err
	}
	return td, nil
}

func (c *Codec) encodeDialog(d Dialog) (*wire.Map, error) {
	if d.Start.IsZero() {
		return nil, encodeMissing("start")
	}
	m := wire.NewMap(10)
	m.Set("start", d.Start.String())
	if d.PartyHistory != nil {
		events := make([]any, 0, len(d.PartyHistory))
		for i, e := range d.PartyHistory {
			em, err := c.encodePartyEvent(e)
			if err != nil {
				return nil, atPath(err, fmt.Sprintf("party_history[%d]", i))
			}
			events = append(events, em)
		}
		m.Set("party_history", events)
	}
	setString(m, "campaign", d.Campaign, d.blank)
	setString(m, "interaction", d.Interaction, d.blank)

	switch t := d.Detail.(type) {
	case *MediaDialog:
		if t == nil {
			return nil, encodeMissing("type")
		}
		if t.Kind != DialogRecording && t.Kind != DialogText {
			return nil, &Error{Kind: KindEncode, Code: CodeUnknownVariant, RuleID: "VCON-DIALOG-001", Path: "type", Message: fmt.Sprintf("media dialog kind %q is not recording or text", t.Kind)}
		}
		m.Set("type", string(t.Kind))
		if err := c.encodeMediaDialog(t, m, d.blank); err != nil {
			return nil, err
		}
	case *TransferDialog:
		if t == nil {
			return nil, encodeMissing("type")
		}
		m.Set("type", string(DialogTransfer))
		m.Set("transferee", uint64(t.Transferee))
		m.Set("transferor", uint64(t.Transferor))
		m.Set("transfer_target", uint64(t.TransferTarget))
		m.Set("original", uint64(t.Original))
		if t.Consultation != nil {
			m.Set("consultation", uint64(*t.Consultation))
		}
		m.Set("target_dialog", uint64(t.TargetDialog))
	case *IncompleteDialog:
		if t == nil {
			return nil, encodeMissing("type")
		}
		m.Set("type", string(DialogIncomplete))
		m.Set("disposition", t.Disposition)
	case nil:
		return nil, encodeMissing("type")
	default:
		return nil, newError(KindInternal, CodeUnknownVariant, "VCON-INTERNAL-001", fmt.Sprintf("unsupported dialog detail %T", d.Detail))
	}

	if err := c.mergeExtensions(m, d.Extensions); err != nil {
		return nil, err
	}
	return m, nil
}

// encodeMediaDialog shares the enclosing dialog's blank set because both
// read from the same flattened map.
func (c *Codec) encodeMediaDialog(md *MediaDialog, m *wire.Map, blank keySet) error {
	if md.Duration != nil {
		m.Set("duration", durationValue(*md.Duration))
	}
	if md.Parties.Values == nil {
		return encodeMissing("parties")
	}
	m.Set("parties", md.Parties.wire())
	if md.Originator != nil {
		m.Set("originator", uint64(*md.Originator))
	}
	if !md.MediaType.IsZero() {
		m.Set("mimetype", md.MediaType.String())
	}
	setString(m, "filename", md.Filename, blank)
	return c.encodeContent(md.Content, m)
}

// durationValue writes whole-second durations as integers.
func durationValue(d float64) any {
	if d >= 0 && d == math.Trunc(d) && d < 1<<53 {
		return uint64(d)
	}
	return d
}
