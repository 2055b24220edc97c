package match

// Decision is the suggested resolution for an import candidate.
type Decision string

const (
	DecisionImport  Decision = "import"
	DecisionSkip    Decision = "skip"
	DecisionMerge   Decision = "merge_with_existing"
	DecisionPending Decision = "pending"
)

// skipConfidence is the 0-100 confidence at which a candidate is suggested
// for skipping even when the top conflict is not an exact duplicate.
const skipConfidence = 80

// SuggestDecision proposes the initial review decision for a candidate
// given its conflicts, ordered highest confidence first. A candidate with
// any conflict is never auto-imported, and merging is only ever a manual
// override.
func SuggestDecision(conflicts []ConflictInfo) Decision {
	if len(conflicts) == 0 {
		return DecisionImport
	}

	top := conflicts[0]
	if top.Type == ConflictExactDuplicate || top.Confidence >= skipConfidence {
		return DecisionSkip
	}

	return DecisionPending
}
