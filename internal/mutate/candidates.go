package mutate

import (
	"bytes"

	"github.com/kostassolo/cfgfuzz/internal/doc"
)

// CandidateSet is the ordered, duplicate-free list of values a leaf may
// take. The first member is always the leaf's original value.
type CandidateSet []doc.Value

// Add appends v unless an equal value is already present.
func (s CandidateSet) Add(v doc.Value) CandidateSet {
	for _, existing := range s {
		if sameValue(existing, v) {
			return s
		}
	}
	return append(s, v)
}

// Mutable reports whether the set offers anything besides the original.
func (s CandidateSet) Mutable() bool {
	return len(s) > 1
}

// sameValue compares numbers by value and everything else by canonical form.
func sameValue(a, b doc.Value) bool {
	switch av := a.(type) {
	case doc.Number:
		bv, ok := b.(doc.Number)
		return ok && doc.NumericEqual(av, bv)
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	default:
		ac, aerr := doc.MarshalCanonical(a)
		bc, berr := doc.MarshalCanonical(b)
		return aerr == nil && berr == nil && bytes.Equal(ac, bc)
	}
}
