package compliance

import (
	"fmt"
	"strings"
)

// ComplianceMode selects how aggressively the codec rejects ambiguity.
//
// Strict mode prefers explicit failure over silent acceptance: content maps
// that mix inline and reference keys, and extensions that collide with named
// fields, are errors.
// Permissive mode applies the documented tie-breaks (inline content wins,
// named fields win) and keeps going.
type ComplianceMode int

const (
	Permissive ComplianceMode = iota
	Strict
)

func (m ComplianceMode) String() string {
	switch m {
	case Permissive:
		return "permissive"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("ComplianceMode(%d)", int(m))
	}
}

// Parse accepts "permissive" or "strict" in any case. The empty string is
// Permissive.
func Parse(s string) (ComplianceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "permissive":
		return Permissive, nil
	case "strict":
		return Strict, nil
	default:
		return Permissive, fmt.Errorf("compliance: unknown mode %q (want permissive or strict)", s)
	}
}
