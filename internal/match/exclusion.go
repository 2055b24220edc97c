package match

// ExclusionSet holds user decisions that specific transaction pairs are not
// duplicates. Pairs are unordered: once a pair is excluded the classifier
// treats the existing record as absent from the comparison set for that
// candidate. The set is loaded by the caller and passed in; the engine
// never fetches it itself.
type ExclusionSet struct {
	pairs map[[2]string]struct{}
}

// NewExclusionSet builds a set from stored ID pairs.
func NewExclusionSet(pairs [][2]string) ExclusionSet {
	s := ExclusionSet{pairs: make(map[[2]string]struct{}, len(pairs))}
	for _, p := range pairs {
		s.Add(p[0], p[1])
	}

	return s
}

// Add records that a and b were judged not to be duplicates of each other.
func (s ExclusionSet) Add(a, b string) {
	s.pairs[orderPair(a, b)] = struct{}{}
}

// Covers reports whether the unordered pair (a, b) has been excluded.
// Records without a resolved ID are never covered.
func (s ExclusionSet) Covers(a, b string) bool {
	if a == "" || b == "" {
		return false
	}

	_, ok := s.pairs[orderPair(a, b)]

	return ok
}

// Len returns the number of excluded pairs.
func (s ExclusionSet) Len() int {
	return len(s.pairs)
}

func orderPair(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}

	return [2]string{a, b}
}
