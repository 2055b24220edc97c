package match

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// ConflictType classifies the relationship between an import candidate and
// an existing transaction.
type ConflictType string

const (
	ConflictExactDuplicate     ConflictType = "exact_duplicate"
	ConflictTransfer           ConflictType = "transfer_conflict"
	ConflictManualEntry        ConflictType = "manual_entry_conflict"
	ConflictPotentialDuplicate ConflictType = "potential_duplicate"
)

// Severity buckets a conflict for display. It is derived from the
// confidence alone, independent of the conflict type.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Reason is an enumerated code explaining what triggered a conflict.
type Reason string

const (
	ReasonSameExternalID            Reason = "same_external_id"
	ReasonSameReferenceNumber       Reason = "same_reference_number"
	ReasonSameAmountAndDate         Reason = "same_amount_and_date"
	ReasonSimilarAmountNearDate     Reason = "similar_amount_near_date"
	ReasonSimilarDescription        Reason = "similar_description"
	ReasonTransferDestinationExists Reason = "transfer_destination_exists"
	ReasonManualEntryMatch          Reason = "manual_entry_match"
)

// ConflictInfo describes one detected conflict between a candidate and an
// existing record. Derived per comparison; never persisted.
type ConflictInfo struct {
	Type       ConflictType `json:"type"`
	Severity   Severity     `json:"severity"`
	Confidence int          `json:"confidence"` // 0-100
	MatchScore float64      `json:"match_score"`
	Reasons    []Reason     `json:"reasons"`
	Existing   *Record      `json:"existing,omitempty"`
}

// DetectionLevel tunes how aggressively manual entries are flagged as
// conflicting with imported data.
type DetectionLevel string

const (
	DetectionStrict   DetectionLevel = "strict"
	DetectionModerate DetectionLevel = "moderate"
	DetectionRelaxed  DetectionLevel = "relaxed"
)

// ClassifierOptions parameterize conflict classification.
type ClassifierOptions struct {
	DetectTransfers   bool
	Level             DetectionLevel
	DateToleranceDays int
	AmountTolerance   decimal.Decimal
}

// DefaultClassifierOptions returns the options used by import review unless
// the caller overrides them.
func DefaultClassifierOptions() ClassifierOptions {
	return ClassifierOptions{
		DetectTransfers:   true,
		Level:             DetectionModerate,
		DateToleranceDays: DefaultDateToleranceDays,
		AmountTolerance:   DefaultAmountTolerance,
	}
}

func (o ClassifierOptions) manualEntryToleranceDays() int {
	switch o.Level {
	case DetectionStrict:
		return 1
	case DetectionRelaxed:
		return 3
	default:
		return 2
	}
}

// Fixed confidence constants. Tuned heuristics preserved as-is; behavior
// compatibility is the contract, not a derivation.
const (
	exactDuplicateConfidence   = 95
	transferConflictConfidence = 85
	manualEntryConfidence      = 75
	potentialDuplicateScale    = 70

	exactDescriptionThreshold     = 0.95
	potentialDescriptionThreshold = 0.7
)

// Classify evaluates the candidate against one existing record and returns
// the detected conflict, or nil when the pair is unrelated. The rule order
// is fixed and first match wins: exact duplicate, transfer conflict, manual
// entry conflict, potential duplicate.
func Classify(candidate, existing Record, opts ClassifierOptions) *ConflictInfo {
	if info := classifyExactDuplicate(candidate, existing); info != nil {
		return finish(info)
	}

	if opts.DetectTransfers {
		if info := classifyTransfer(candidate, existing); info != nil {
			return finish(info)
		}
	}

	if info := classifyManualEntry(candidate, existing, opts); info != nil {
		return finish(info)
	}

	if info := classifyPotentialDuplicate(candidate, existing, opts); info != nil {
		return finish(info)
	}

	return nil
}

// ClassifyAgainst evaluates the candidate against every record in existing,
// skipping pairs covered by the exclusion set, and returns the conflicts
// ordered by descending confidence. Only the ordered list survives; the
// all-pairs matrix is not retained.
func ClassifyAgainst(candidate Record, existing []Record, opts ClassifierOptions, exclusions ExclusionSet) []ConflictInfo {
	var conflicts []ConflictInfo

	for i := range existing {
		if exclusions.Covers(candidate.SourceID, existing[i].SourceID) {
			continue
		}

		info := Classify(candidate, existing[i], opts)
		if info == nil {
			continue
		}

		info.Existing = &existing[i]
		conflicts = append(conflicts, *info)
	}

	sort.SliceStable(conflicts, func(i, j int) bool {
		return conflicts[i].Confidence > conflicts[j].Confidence
	})

	return conflicts
}

func classifyExactDuplicate(candidate, existing Record) *ConflictInfo {
	var reasons []Reason

	if candidate.ExternalID != "" && candidate.ExternalID == existing.ExternalID {
		reasons = append(reasons, ReasonSameExternalID)
	}

	if candidate.ReferenceNumber != "" && candidate.ReferenceNumber == existing.ReferenceNumber {
		reasons = append(reasons, ReasonSameReferenceNumber)
	}

	if len(reasons) == 0 {
		if SameAmountAndDate(candidate, existing, 0) &&
			SimilarDescription(candidate.Description, existing.Description, exactDescriptionThreshold) {
			reasons = append(reasons, ReasonSameAmountAndDate, ReasonSimilarDescription)
		}
	}

	if len(reasons) == 0 {
		return nil
	}

	return &ConflictInfo{
		Type:       ConflictExactDuplicate,
		Confidence: exactDuplicateConfidence,
		MatchScore: 1.0,
		Reasons:    reasons,
	}
}

func classifyTransfer(candidate, existing Record) *ConflictInfo {
	if !existing.IsTransfer {
		return nil
	}

	// Opposite legs of a transfer cancel out: signs differ, magnitudes
	// agree within a cent, dates within one day.
	if candidate.Amount.Sign()*existing.Amount.Sign() != -1 {
		return nil
	}

	if candidate.Amount.Add(existing.Amount).Abs().GreaterThanOrEqual(DefaultAmountTolerance) {
		return nil
	}

	if DaysApart(candidate.Date, existing.Date) > 1 {
		return nil
	}

	return &ConflictInfo{
		Type:       ConflictTransfer,
		Confidence: transferConflictConfidence,
		MatchScore: 0.9,
		Reasons:    []Reason{ReasonTransferDestinationExists},
	}
}

func classifyManualEntry(candidate, existing Record, opts ClassifierOptions) *ConflictInfo {
	if existing.Source != SourceManual {
		return nil
	}

	if !SameAmountAndDate(candidate, existing, opts.manualEntryToleranceDays()) {
		return nil
	}

	return &ConflictInfo{
		Type:       ConflictManualEntry,
		Confidence: manualEntryConfidence,
		MatchScore: 1.0,
		Reasons:    []Reason{ReasonManualEntryMatch, ReasonSameAmountAndDate},
	}
}

func classifyPotentialDuplicate(candidate, existing Record, opts ClassifierOptions) *ConflictInfo {
	var (
		reasons []Reason
		fired   bool
	)

	if SimilarAmountNearDate(candidate, existing, opts.AmountTolerance, opts.DateToleranceDays) {
		reasons = append(reasons, ReasonSimilarAmountNearDate)
		fired = true
	}

	descSimilar := SimilarDescription(candidate.Description, existing.Description, potentialDescriptionThreshold)

	if SameAmountAndDate(candidate, existing, opts.DateToleranceDays) && descSimilar {
		reasons = append(reasons, ReasonSameAmountAndDate)
		fired = true
	}

	if !fired {
		return nil
	}

	if descSimilar {
		reasons = append(reasons, ReasonSimilarDescription)
	}

	score := Confidence(candidate, existing)

	return &ConflictInfo{
		Type:       ConflictPotentialDuplicate,
		Confidence: int(math.Round(score * potentialDuplicateScale)),
		MatchScore: score,
		Reasons:    reasons,
	}
}

// finish derives the severity and enforces the invariant that every
// classified conflict carries at least one reason code.
func finish(info *ConflictInfo) *ConflictInfo {
	if len(info.Reasons) == 0 {
		panic("match: conflict classified without reason codes")
	}

	info.Severity = severityFor(info.Confidence)

	return info
}

func severityFor(confidence int) Severity {
	switch {
	case confidence > 80:
		return SeverityHigh
	case confidence > 50:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
