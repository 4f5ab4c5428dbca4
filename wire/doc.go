// Package wire defines the two physical encodings a vCon document can travel in.
//
// A Backend turns a tree of wire values into bytes and back. The tree is made of
// *Map (ordered, used for everything the encoder emits), map[string]any (what the
// decoders produce), []any, string, bool, nil, numbers and backend-native values:
//
//   - JSON: numbers decode as json.Number so extension values keep their exact
//     spelling; there is no byte-string type.
//   - CBOR: integers decode as uint64/int64, byte strings as []byte,
//     unregistered tags as cbor.Tag, and maps with a non-string key as
//     map[any]any.
//
// The only place where the data model needs a backend-specific shape is the body of
// a base64url inline content. Backend.Base64URLBody and Backend.Base64URLText own
// that difference so the vCon codecs never branch on the concrete backend.
//
// Exactly one backend is bound to a codec at construction time. Both are stateless
// and safe for concurrent use.
package wire
