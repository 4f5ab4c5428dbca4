// Package vcon implements the vCon conversation container: its document
// model and the codec that moves it to and from the wire.
//
// Most of the document is plain data. The interesting part is the polymorphic
// fields, whose variant is never named on the wire:
//
//   - content is Inline when "encoding" and "body" are present and a
//     Reference when "url", "alg" and "signature" are present;
//   - a signature's algorithm is implied by its decoded length and must agree
//     with the declared "alg";
//   - a base64url body is a plain string in JSON but a tag 21 byte string
//     holding the base64url text in CBOR.
//
// Every entity keeps the fields its schema does not name in an Extensions
// map, and writes them back after its named fields.
//
// A Codec is bound to one wire.Backend:
//
//	c := vcon.NewCodec(wire.JSON())
//	doc, err := c.Decode(data)
//
// Errors are *Error values carrying a Kind, a Code, a stable RuleID and the
// path of the offending field.
package vcon
