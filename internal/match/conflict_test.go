package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebmonroe/penny/internal/match"
)

func TestClassify_ExactDuplicateByExternalID(t *testing.T) {
	candidate := rec("-50.00", day, "Gas Station")
	candidate.ExternalID = "BANK_123"

	// Amount, date and description all diverge; the shared external ID
	// alone makes this an exact duplicate.
	existing := rec("200.00", day.AddDate(0, 0, 20), "Completely Different")
	existing.ExternalID = "BANK_123"

	info := match.Classify(candidate, existing, match.DefaultClassifierOptions())
	require.NotNil(t, info)

	assert.Equal(t, match.ConflictExactDuplicate, info.Type)
	assert.Equal(t, 95, info.Confidence)
	assert.Equal(t, 1.0, info.MatchScore)
	assert.Equal(t, match.SeverityHigh, info.Severity)
	assert.Contains(t, info.Reasons, match.ReasonSameExternalID)
}

func TestClassify_ExactDuplicateByReferenceNumber(t *testing.T) {
	candidate := rec("-50.00", day, "Gas Station")
	candidate.ReferenceNumber = "CHK-0042"

	existing := rec("-50.00", day, "Check 42")
	existing.ReferenceNumber = "CHK-0042"

	info := match.Classify(candidate, existing, match.DefaultClassifierOptions())
	require.NotNil(t, info)

	assert.Equal(t, match.ConflictExactDuplicate, info.Type)
	assert.Contains(t, info.Reasons, match.ReasonSameReferenceNumber)
}

func TestClassify_EmptyExternalIDsDoNotMatch(t *testing.T) {
	candidate := rec("-50.00", day, "Gas Station")
	existing := rec("120.00", day.AddDate(0, 0, 30), "Paycheck")

	info := match.Classify(candidate, existing, match.DefaultClassifierOptions())
	assert.Nil(t, info)
}

func TestClassify_ExactDuplicateBySignature(t *testing.T) {
	candidate := rec("-100.50", day, "Grocery Store Purchase")
	existing := rec("-100.50", day, "Grocery Store Purchase")

	info := match.Classify(candidate, existing, match.DefaultClassifierOptions())
	require.NotNil(t, info)

	assert.Equal(t, match.ConflictExactDuplicate, info.Type)
	assert.Contains(t, info.Reasons, match.ReasonSameAmountAndDate)
	assert.Contains(t, info.Reasons, match.ReasonSimilarDescription)
}

// A pair that satisfies both the exact-duplicate and potential-duplicate
// conditions must classify as exact: the rule order is total, not a score
// tie-break.
func TestClassify_PrecedenceExactOverPotential(t *testing.T) {
	candidate := rec("-25.00", day, "Coffee Shop")
	candidate.ExternalID = "TX-9"

	existing := rec("-25.00", day, "Coffee Shop")
	existing.ExternalID = "TX-9"

	info := match.Classify(candidate, existing, match.DefaultClassifierOptions())
	require.NotNil(t, info)
	assert.Equal(t, match.ConflictExactDuplicate, info.Type)
}

func TestClassify_TransferConflict(t *testing.T) {
	candidate := rec("-500.00", day, "Transfer to savings")

	existing := rec("500.00", day.AddDate(0, 0, 1), "Transfer from checking")
	existing.IsTransfer = true

	info := match.Classify(candidate, existing, match.DefaultClassifierOptions())
	require.NotNil(t, info)

	assert.Equal(t, match.ConflictTransfer, info.Type)
	assert.Equal(t, 85, info.Confidence)
	assert.Equal(t, 0.9, info.MatchScore)
	assert.Equal(t, match.SeverityHigh, info.Severity)
	assert.Equal(t, []match.Reason{match.ReasonTransferDestinationExists}, info.Reasons)
}

func TestClassify_TransferDetectionDisabled(t *testing.T) {
	candidate := rec("-500.00", day, "Transfer to savings")

	existing := rec("500.00", day, "Transfer from checking")
	existing.IsTransfer = true

	opts := match.DefaultClassifierOptions()
	opts.DetectTransfers = false

	info := match.Classify(candidate, existing, opts)
	if info != nil {
		assert.NotEqual(t, match.ConflictTransfer, info.Type)
	}
}

func TestClassify_TransferRequiresOppositeSigns(t *testing.T) {
	candidate := rec("-500.00", day, "Transfer out")

	existing := rec("-500.00", day, "Transfer out again")
	existing.IsTransfer = true

	info := match.Classify(candidate, existing, match.DefaultClassifierOptions())
	if info != nil {
		assert.NotEqual(t, match.ConflictTransfer, info.Type)
	}
}

func TestClassify_ManualEntryConflict(t *testing.T) {
	candidate := rec("-80.00", day, "IMPORTED ROW")

	existing := rec("-80.00", day.AddDate(0, 0, 2), "hand-entered groceries")
	existing.Source = match.SourceManual

	type testCase struct {
		name  string
		level match.DetectionLevel
		want  bool
	}

	// The date gap is two days: strict (1 day) misses it, moderate and
	// relaxed catch it.
	tests := []testCase{
		{name: "Strict", level: match.DetectionStrict, want: false},
		{name: "Moderate", level: match.DetectionModerate, want: true},
		{name: "Relaxed", level: match.DetectionRelaxed, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := match.DefaultClassifierOptions()
			opts.Level = tt.level

			info := match.Classify(candidate, existing, opts)

			if !tt.want {
				if info != nil {
					assert.NotEqual(t, match.ConflictManualEntry, info.Type)
				}

				return
			}

			require.NotNil(t, info)
			assert.Equal(t, match.ConflictManualEntry, info.Type)
			assert.Equal(t, 75, info.Confidence)
			assert.Equal(t, match.SeverityMedium, info.Severity)
			assert.Contains(t, info.Reasons, match.ReasonManualEntryMatch)
		})
	}
}

func TestClassify_PotentialDuplicate(t *testing.T) {
	candidate := rec("-50.00", day.AddDate(0, 0, -1), "Gas Station")
	existing := rec("-50.25", day.AddDate(0, 0, -1), "Gas Station ABC")

	info := match.Classify(candidate, existing, match.DefaultClassifierOptions())
	require.NotNil(t, info)

	assert.Equal(t, match.ConflictPotentialDuplicate, info.Type)
	assert.Greater(t, info.Confidence, 40)
	assert.LessOrEqual(t, info.Confidence, 70)
	assert.Contains(t, info.Reasons, match.ReasonSimilarAmountNearDate)
	assert.Contains(t, info.Reasons, match.ReasonSimilarDescription)
}

func TestClassify_UnrelatedPair(t *testing.T) {
	candidate := rec("-50.00", day, "Gas Station")
	existing := rec("1250.00", day.AddDate(0, 0, 60), "Salary")

	assert.Nil(t, match.Classify(candidate, existing, match.DefaultClassifierOptions()))
}

func TestClassify_SimilarDescriptionAloneIsNotEnough(t *testing.T) {
	candidate := rec("-50.00", day, "Gas Station")
	existing := rec("-950.00", day, "Gas Station")

	info := match.Classify(candidate, existing, match.DefaultClassifierOptions())
	assert.Nil(t, info)
}

func TestClassifyAgainst_OrderedByConfidence(t *testing.T) {
	candidate := rec("-50.00", day, "Gas Station")
	candidate.SourceID = "c1"

	exact := rec("-50.00", day, "Gas Station")
	exact.SourceID = "e1"

	fuzzy := rec("-50.25", day, "Gas Station ABC")
	fuzzy.SourceID = "e2"

	conflicts := match.ClassifyAgainst(candidate, []match.Record{fuzzy, exact},
		match.DefaultClassifierOptions(), match.NewExclusionSet(nil))

	require.Len(t, conflicts, 2)
	assert.Equal(t, match.ConflictExactDuplicate, conflicts[0].Type)
	assert.Equal(t, "e1", conflicts[0].Existing.SourceID)
	assert.Equal(t, match.ConflictPotentialDuplicate, conflicts[1].Type)
	assert.GreaterOrEqual(t, conflicts[0].Confidence, conflicts[1].Confidence)
}

func TestClassifyAgainst_ExclusionSuppressesPair(t *testing.T) {
	candidate := rec("-50.00", day, "Gas Station")
	candidate.SourceID = "5"

	existing := rec("-50.25", day, "Gas Station ABC")
	existing.SourceID = "9"

	opts := match.DefaultClassifierOptions()

	// Without the exclusion the pair is a potential duplicate.
	before := match.ClassifyAgainst(candidate, []match.Record{existing}, opts, match.NewExclusionSet(nil))
	require.Len(t, before, 1)

	exclusions := match.NewExclusionSet([][2]string{{"9", "5"}})

	after := match.ClassifyAgainst(candidate, []match.Record{existing}, opts, exclusions)
	assert.Empty(t, after)
}

func TestExclusionSet(t *testing.T) {
	s := match.NewExclusionSet([][2]string{{"a", "b"}})

	assert.True(t, s.Covers("a", "b"))
	assert.True(t, s.Covers("b", "a"))
	assert.False(t, s.Covers("a", "c"))
	assert.False(t, s.Covers("", ""))
	assert.Equal(t, 1, s.Len())

	s.Add("c", "d")
	assert.True(t, s.Covers("d", "c"))
}

func TestSuggestDecision(t *testing.T) {
	type testCase struct {
		name      string
		conflicts []match.ConflictInfo
		want      match.Decision
	}

	tests := []testCase{
		{
			name: "NoConflicts",
			want: match.DecisionImport,
		},
		{
			name: "TopIsExactDuplicate",
			conflicts: []match.ConflictInfo{
				{Type: match.ConflictExactDuplicate, Confidence: 95},
			},
			want: match.DecisionSkip,
		},
		{
			name: "HighConfidenceTransfer",
			conflicts: []match.ConflictInfo{
				{Type: match.ConflictTransfer, Confidence: 85},
			},
			want: match.DecisionSkip,
		},
		{
			name: "ConfidenceAtSkipBoundary",
			conflicts: []match.ConflictInfo{
				{Type: match.ConflictPotentialDuplicate, Confidence: 80},
			},
			want: match.DecisionSkip,
		},
		{
			name: "LowConfidenceNeverAutoImports",
			conflicts: []match.ConflictInfo{
				{Type: match.ConflictPotentialDuplicate, Confidence: 45},
			},
			want: match.DecisionPending,
		},
		{
			name: "ManualEntryConflictPends",
			conflicts: []match.ConflictInfo{
				{Type: match.ConflictManualEntry, Confidence: 75},
			},
			want: match.DecisionPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, match.SuggestDecision(tt.conflicts))
		})
	}
}
