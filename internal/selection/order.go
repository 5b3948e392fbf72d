package selection

import (
	"slices"
	"sort"
)

// Order returns a copy of cands sorted by first visible sample, with ties
// broken by last visible sample and then by input position.
func Order(cands []Candidate) []Candidate {
	out := slices.Clone(cands)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].End().Before(out[j].End())
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start().Before(out[j].Start())
	})
	return out
}
