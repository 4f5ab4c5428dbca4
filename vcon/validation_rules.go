package vcon

import "fmt"

// Rule is one named check over a decoded document. The ID is reported as
// the RuleID of every violation the check returns and must not change.
type Rule struct {
	ID    string
	Apply func(*Vcon) error
}

// ValidateRules runs rules in order and stops at the first violation.
func ValidateRules(doc *Vcon, rules []Rule) error {
	if errs := runRules(doc, rules, true); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// ValidateRulesAll runs every rule and returns the violations in rule order.
func ValidateRulesAll(doc *Vcon, rules []Rule) []error {
	return runRules(doc, rules, false)
}

func runRules(doc *Vcon, rules []Rule, firstOnly bool) []error {
	if doc == nil {
		return []error{newError(KindInternal, CodeRule, "VCON-INTERNAL-003", "cannot validate a nil vcon")}
	}
	var errs []error
	for _, r := range rules {
		var err error
		if r.Apply == nil {
			err = newError(KindInternal, CodeRule, "VCON-INTERNAL-002", fmt.Sprintf("rule %q has no check", r.ID))
		} else {
			err = r.Apply(doc)
		}
		if err == nil {
			continue
		}
		errs = append(errs, err)
		if firstOnly {
			break
		}
	}
	return errs
}
