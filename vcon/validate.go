package vcon

import "fmt"

// Stable rule IDs for cross-entity references.
const (
	RuleDialogParties       = "VCON-VAL-101"
	RuleDialogOriginator    = "VCON-VAL-102"
	RulePartyHistory        = "VCON-VAL-103"
	RuleTransferParties     = "VCON-VAL-104"
	RuleTransferDialogs     = "VCON-VAL-105"
	RuleAttachmentParty     = "VCON-VAL-106"
	RuleAnalysisDialogs     = "VCON-VAL-107"
	RuleUpdatedAfterCreated = "VCON-VAL-108"
)

// DefaultRules returns the rules Validate applies, in evaluation order.
//
// Decoding only checks that each entity is well formed on its own; these
// rules check that the indexes entities use to refer to each other resolve.
func DefaultRules() []Rule {
	return []Rule{
		{ID: RuleDialogParties, Apply: checkDialogParties},
		{ID: RuleDialogOriginator, Apply: checkDialogOriginator},
		{ID: RulePartyHistory, Apply: checkPartyHistory},
		{ID: RuleTransferParties, Apply: checkTransferParties},
		{ID: RuleTransferDialogs, Apply: checkTransferDialogs},
		{ID: RuleAttachmentParty, Apply: checkAttachmentParty},
		{ID: RuleAnalysisDialogs, Apply: checkAnalysisDialogs},
		{ID: RuleUpdatedAfterCreated, Apply: checkUpdatedAt},
	}
}

// Validate returns the first rule violation in doc, or nil.
func Validate(doc *Vcon) error {
	return ValidateRules(doc, DefaultRules())
}

// ValidateAll returns every rule violation in doc, in rule order.
func ValidateAll(doc *Vcon) []error {
	return ValidateRulesAll(doc, DefaultRules())
}

func ruleError(ruleID, path, format string, args ...any) error {
	return &Error{Kind: KindValidation, Code: CodeRule, RuleID: ruleID, Path: path, Message: fmt.Sprintf(format, args...)}
}

func checkIndex(ruleID, path, what string, i uint32, n int) error {
	if int64(i) >= int64(n) {
		return ruleError(ruleID, path, "%s index %d out of range (%d %ss)", what, i, n, what)
	}
	return nil
}

func mediaDialog(d Dialog) (*MediaDialog, bool) {
	md, ok := d.Detail.(*MediaDialog)
	return md, ok && md != nil
}

func checkDialogParties(v *Vcon) error {
	for i, d := range v.Dialog {
		md, ok := mediaDialog(d)
		if !ok {
			continue
		}
		for j, p := range md.Parties.Values {
			path := fmt.Sprintf("dialog[%d].parties", i)
			if !md.Parties.Scalar {
				path = fmt.Sprintf("%s[%d]", path, j)
			}
			if err := checkIndex(RuleDialogParties, path, "party", p, len(v.Parties)); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkDialogOriginator(v *Vcon) error {
	for i, d := range v.Dialog {
		md, ok := mediaDialog(d)
		if !ok || md.Originator == nil {
			continue
		}
		if err := checkIndex(RuleDialogOriginator, fmt.Sprintf("dialog[%d].originator", i), "party", *md.Originator, len(v.Parties)); err != nil {
			return err
		}
	}
	return nil
}

func checkPartyHistory(v *Vcon) error {
	for i, d := range v.Dialog {
		for j, e := range d.PartyHistory {
			if err := checkIndex(RulePartyHistory, fmt.Sprintf("dialog[%d].party_history[%d].party", i, j), "party", e.Party, len(v.Parties)); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkTransferParties(v *Vcon) error {
	for i, d := range v.Dialog {
		td, ok := d.Detail.(*TransferDialog)
		if !ok || td == nil {
			continue
		}
		for _, r := range []struct {
			key string
			idx uint32
		}{
			{"transferee", td.Transferee},
			{"transferor", td.Transferor},
			{"transfer_target", td.TransferTarget},
		} {
			if err := checkIndex(RuleTransferParties, fmt.Sprintf("dialog[%d].%s", i, r.key), "party", r.idx, len(v.Parties)); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkTransferDialogs(v *Vcon) error {
	for i, d := range v.Dialog {
		td, ok := d.Detail.(*TransferDialog)
		if !ok || td == nil {
			continue
		}
		refs := []struct {
			key string
			idx uint32
		}{
			{"original", td.Original},
			{"target_dialog", td.TargetDialog},
		}
		if td.Consultation != nil {
			refs = append(refs, struct {
				key string
				idx uint32
			}{"consultation", *td.Consultation})
		}
		for _, r := range refs {
			path := fmt.Sprintf("dialog[%d].%s", i, r.key)
			if err := checkIndex(RuleTransferDialogs, path, "dialog", r.idx, len(v.Dialog)); err != nil {
				return err
			}
			if int(r.idx) == i {
				return ruleError(RuleTransferDialogs, path, "transfer dialog refers to itself")
			}
		}
	}
	return nil
}

func checkAttachmentParty(v *Vcon) error {
	for i, a := range v.Attachments {
		if err := checkIndex(RuleAttachmentParty, fmt.Sprintf("attachments[%d].party", i), "party", a.Party, len(v.Parties)); err != nil {
			return err
		}
	}
	return nil
}

func checkAnalysisDialogs(v *Vcon) error {
	for i, a := range v.Analysis {
		for j, d := range a.Dialog.Values {
			path := fmt.Sprintf("analysis[%d].dialog", i)
			if !a.Dialog.Scalar {
				path = fmt.Sprintf("%s[%d]", path, j)
			}
			if err := checkIndex(RuleAnalysisDialogs, path, "dialog", d, len(v.Dialog)); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkUpdatedAt(v *Vcon) error {
	if v.CreatedAt.IsZero() || v.UpdatedAt.IsZero() {
		return nil
	}
	if v.UpdatedAt.Before(v.CreatedAt) {
		return ruleError(RuleUpdatedAfterCreated, "updated_at", "updated_at %s is before created_at %s", v.UpdatedAt, v.CreatedAt)
	}
	return nil
}
