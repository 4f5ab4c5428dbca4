package vcon

import (
	"errors"
	"strings"
)

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind, Code or RuleID rather than matching error
// strings. Use errors.As to extract *Error for structured handling.
type Kind string

const (
	KindParse      Kind = "Parse"
	KindDecode     Kind = "Decode"
	KindEncode     Kind = "Encode"
	KindValidation Kind = "Validation"
	KindInternal   Kind = "Internal"
)

// Code names the specific failure within a Kind.
type Code string

const (
	// Parse
	CodeFormat Code = "Format"
	CodeScheme Code = "Scheme"

	// Decode and Encode
	CodeEncoding           Code = "Encoding"
	CodeAlgMismatch        Code = "AlgMismatch"
	CodeUnsupportedLength  Code = "UnsupportedLength"
	CodeAmbiguousContent   Code = "AmbiguousContent"
	CodeUnimplemented      Code = "Unimplemented"
	CodeUnknownVariant     Code = "UnknownVariant"
	CodeMissingField       Code = "MissingField"
	CodeType               Code = "Type"
	CodeExtensionCollision Code = "ExtensionCollision"

	// Validation
	CodeRule Code = "Rule"
)

// Error is the library's structured error type.
//
// RuleID is a stable identifier (e.g. VCON-SIG-004, VCON-VAL-101) naming the
// violated invariant or validation rule. Path locates the offending field
// inside the document, e.g. "dialog[1].signature".
//
// Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	Code    Code
	RuleID  string
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, code Code, ruleID, msg string) error {
	return &Error{Kind: kind, Code: code, RuleID: ruleID, Message: msg}
}

func wrapError(kind Kind, code Code, ruleID, msg string, cause error) error {
	if cause == nil {
		return newError(kind, code, ruleID, msg)
	}
	return &Error{Kind: kind, Code: code, RuleID: ruleID, Message: msg, Cause: cause}
}

// atPath prefixes the location of a structured error with seg. Segments are
// joined with "." except for index segments such as "[2]".
func atPath(err error, seg string) error {
	var e *Error
	if err == nil || !errors.As(err, &e) {
		return err
	}
	out := *e
	switch {
	case out.Path == "":
		out.Path = seg
	case strings.HasPrefix(out.Path, "["):
		out.Path = seg + out.Path
	default:
		out.Path = seg + "." + out.Path
	}
	return &out
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// IsCode reports whether err is (or wraps) a *Error with the given Code.
func IsCode(err error, code Code) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}

// ErrorPath returns the field path of a structured error, or "".
func ErrorPath(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Path
}
