package importreview

import (
	"context"

	"github.com/calebmonroe/penny/internal/match"
)

// ReviewItem is the classification outcome for one import candidate: its
// conflicts ordered highest confidence first and the suggested decision.
// The decision may be overridden by the user before execution.
type ReviewItem struct {
	Candidate match.Record         `json:"candidate"`
	Conflicts []match.ConflictInfo `json:"conflicts"`
	Decision  match.Decision       `json:"decision"`
	Processed bool                 `json:"processed"`
}

// Summary aggregates one analysis pass. Counts are tallied from the same
// classification pass that produced the items, never recomputed, so the
// displayed totals cannot drift from the underlying data.
type Summary struct {
	TotalCandidates     int `json:"total_candidates"`
	CleanImports        int `json:"clean_imports"`
	ExactDuplicates     int `json:"exact_duplicates"`
	PotentialDuplicates int `json:"potential_duplicates"`
	TransferConflicts   int `json:"transfer_conflicts"`
	ManualConflicts     int `json:"manual_conflicts"`
	NeedsReview         int `json:"needs_review"`
}

// Plan is the full outcome of analyzing an import batch.
type Plan struct {
	Items   []ReviewItem `json:"items"`
	Summary Summary      `json:"summary"`
}

// Analyze classifies every candidate against the existing-transaction
// window and suggests an initial decision per candidate. The window and
// exclusion set are supplied by the caller, already scoped and loaded.
//
// Cancellation stops issuing further comparisons and discards the partial
// plan.
func Analyze(ctx context.Context, candidates, existing []match.Record, opts match.ClassifierOptions, exclusions match.ExclusionSet) (*Plan, error) {
	plan := &Plan{
		Items:   make([]ReviewItem, 0, len(candidates)),
		Summary: Summary{TotalCandidates: len(candidates)},
	}

	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		conflicts := match.ClassifyAgainst(candidate, existing, opts, exclusions)
		decision := match.SuggestDecision(conflicts)

		plan.Items = append(plan.Items, ReviewItem{
			Candidate: candidate,
			Conflicts: conflicts,
			Decision:  decision,
		})

		tally(&plan.Summary, conflicts, decision)
	}

	return plan, nil
}

func tally(summary *Summary, conflicts []match.ConflictInfo, decision match.Decision) {
	if len(conflicts) == 0 {
		summary.CleanImports++
	}

	if decision == match.DecisionPending {
		summary.NeedsReview++
	}

	var hasExact, hasPotential, hasTransfer, hasManual bool

	for _, c := range conflicts {
		switch c.Type {
		case match.ConflictExactDuplicate:
			hasExact = true
		case match.ConflictPotentialDuplicate:
			hasPotential = true
		case match.ConflictTransfer:
			hasTransfer = true
		case match.ConflictManualEntry:
			hasManual = true
		}
	}

	if hasExact {
		summary.ExactDuplicates++
	}

	// A candidate that is already an exact duplicate is not double-counted
	// as potential.
	if hasPotential && !hasExact {
		summary.PotentialDuplicates++
	}

	if hasTransfer {
		summary.TransferConflicts++
	}

	if hasManual {
		summary.ManualConflicts++
	}
}
