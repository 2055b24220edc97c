package reconcile

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/calebmonroe/penny/internal/match"
)

// Options tune a matching run.
type Options struct {
	// MinConfidence is the floor below which a pairing is not proposed.
	MinConfidence float64

	// ExactThreshold separates exact from fuzzy matches.
	ExactThreshold float64
}

// DefaultOptions returns the standard thresholds: floor 0.5, exact at 0.95.
func DefaultOptions() Options {
	return Options{
		MinConfidence:  0.5,
		ExactThreshold: 0.95,
	}
}

// Pairing is one proposed ledger/bank pair from a matching run.
type Pairing struct {
	Ledger     match.Record
	Bank       match.Record
	Confidence float64
	Method     MatchMethod
	Analysis   match.Analysis
}

// Result buckets every input record of a run.
type Result struct {
	Matched       []Pairing
	UnmatchedBank []match.Record
	UnmatchedApp  []match.Record
}

// Run scores every bank line against every ledger transaction in the
// window and assigns pairs greedily in descending confidence order, so a
// ledger transaction is claimed at most once across the whole bank line
// set. Greedy-max assignment rather than optimal bipartite matching is a
// deliberate simplicity trade-off. Scoring is parallelized per bank line;
// the claim loop is sequential because claims must be visible to later
// assignments.
//
// Cancellation stops further comparisons and discards partial results; the
// caller persists nothing on error.
func Run(ctx context.Context, ledger, bank []match.Record, opts Options) (*Result, error) {
	scores := make([][]float64, len(bank))

	g, gctx := errgroup.WithContext(ctx)

	for i := range bank {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			row := make([]float64, len(ledger))
			for j := range ledger {
				row[j] = match.Confidence(ledger[j], bank[i])
			}

			scores[i] = row

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	type pair struct {
		bankIdx    int
		ledgerIdx  int
		confidence float64
	}

	var pairs []pair

	for i := range bank {
		for j := range ledger {
			if scores[i][j] >= opts.MinConfidence {
				pairs = append(pairs, pair{bankIdx: i, ledgerIdx: j, confidence: scores[i][j]})
			}
		}
	}

	// Descending by confidence; index order breaks ties so runs are
	// deterministic for equal scores.
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].confidence != pairs[b].confidence {
			return pairs[a].confidence > pairs[b].confidence
		}

		if pairs[a].bankIdx != pairs[b].bankIdx {
			return pairs[a].bankIdx < pairs[b].bankIdx
		}

		return pairs[a].ledgerIdx < pairs[b].ledgerIdx
	})

	var (
		result        Result
		claimedBank   = make(map[int]bool, len(bank))
		claimedLedger = make(map[int]bool, len(ledger))
	)

	for _, p := range pairs {
		if claimedBank[p.bankIdx] || claimedLedger[p.ledgerIdx] {
			continue
		}

		claimedBank[p.bankIdx] = true
		claimedLedger[p.ledgerIdx] = true

		method := MethodFuzzy
		if p.confidence >= opts.ExactThreshold {
			method = MethodExact
		}

		result.Matched = append(result.Matched, Pairing{
			Ledger:     ledger[p.ledgerIdx],
			Bank:       bank[p.bankIdx],
			Confidence: p.confidence,
			Method:     method,
			Analysis:   match.Analyze(ledger[p.ledgerIdx], bank[p.bankIdx]),
		})
	}

	for i := range bank {
		if !claimedBank[i] {
			result.UnmatchedBank = append(result.UnmatchedBank, bank[i])
		}
	}

	for j := range ledger {
		if !claimedLedger[j] {
			result.UnmatchedApp = append(result.UnmatchedApp, ledger[j])
		}
	}

	return &result, nil
}
