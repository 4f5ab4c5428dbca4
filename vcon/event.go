package vcon

import (
	"fmt"

	"xdao.co/vcon/wire"
)

// EventKind is what happened to a party during a dialog.
type EventKind string

const (
	EventJoin   EventKind = "join"
	EventDrop   EventKind = "drop"
	EventHold   EventKind = "hold"
	EventUnhold EventKind = "unhold"
	EventMute   EventKind = "mute"
	EventUnmute EventKind = "unmute"
)

func parseEventKind(s string) (EventKind, bool) {
	switch k := EventKind(s); k {
	case EventJoin, EventDrop, EventHold, EventUnhold, EventMute, EventUnmute:
		return k, true
	default:
		return "", false
	}
}

// PartyEvent is one entry of a dialog's party history.
type PartyEvent struct {
	Party      uint32
	Event      EventKind
	Time       Date
	Extensions Extensions
}

func (c *Codec) decodePartyEvent(v any) (PartyEvent, error) {
	f, err := asFields(v)
	if err != nil {
		return PartyEvent{}, err
	}
	var e PartyEvent
	if e.Party, err = f.reqIndex("party"); err != nil {
		return PartyEvent{}, err
	}
	label, err := f.reqString("event")
	if err != nil {
		return PartyEvent{}, err
	}
	kind, ok := parseEventKind(label)
	if !ok {
		return PartyEvent{}, &Error{Kind: KindDecode, Code: CodeUnknownVariant, RuleID: "VCON-EVENT-001", Path: "event", Message: fmt.Sprintf("unknown party event %q", label)}
	}
	e.Event = kind
	if e.Time, err = f.reqDate("time"); err != nil {
		return PartyEvent{}, err
	}
	e.Extensions = f.rest()
	return e, nil
}

func (c *Codec) encodePartyEvent(e PartyEvent) (*wire.Map, error) {
	if _, ok := parseEventKind(string(e.Event)); !ok {
		return nil, &Error{Kind: KindEncode, Code: CodeUnknownVariant, RuleID: "VCON-EVENT-001", Path: "event", Message: fmt.Sprintf("unknown party event %q", e.Event)}
	}
	if e.Time.IsZero() {
		return nil, encodeMissing("time")
	}
	m := wire.NewMap(3)
	m.Set("party", uint64(e.Party))
	m.Set("event", string(e.Event))
	m.Set("time", e.Time.String())
	if err := c.mergeExtensions(m, e.Extensions); err != nil {
		return nil, err
	}
	return m, nil
}
