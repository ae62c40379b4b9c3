// Package expand fans a configuration document out into every combination
// of its leaves' candidate values.
//
// The walk is depth-first in document field order. At each leaf the
// transformer's CandidateSet is computed; a leaf with k > 1 candidates
// replaces every document in the working set with k copies, one per
// candidate, and the set is deduplicated by canonical hash before moving on.
//
// MEMORY: the working set is fully materialized. Its size is bounded only by
// the product of |CandidateSet| over all leaves, which grows exponentially
// with the number of mutable leaves: twenty boolean fields already give
// 2^20 documents. Documents share unchanged subtrees, but each variant still
// costs one path copy per mutated leaf. Set Expander.MaxDocuments to cap it.
package expand

import (
	"context"
	"fmt"
	"math"

	"github.com/kostassolo/cfgfuzz/internal/ctxlog"
	"github.com/kostassolo/cfgfuzz/internal/doc"
	"github.com/kostassolo/cfgfuzz/internal/mutate"
)

// Transformer computes the candidate values of one leaf.
type Transformer interface {
	Transform(ctx context.Context, path doc.Path, v doc.Value) mutate.CandidateSet
}

// Expander drives the combinatorial expansion.
type Expander struct {
	Transformer Transformer

	// MaxDocuments caps the working set. After each fan-out and dedup the
	// set is truncated to its first MaxDocuments members. Zero means no cap.
	MaxDocuments int
}

// Result is the outcome of one expansion.
type Result struct {
	// Documents is the deduplicated candidate set, in enumeration order.
	Documents []*doc.Object

	// Leaves counts every leaf visited.
	Leaves int

	// MutableLeaves counts leaves with more than one candidate.
	MutableLeaves int

	// Bound is the product of every leaf's candidate count, saturating at
	// math.MaxInt. len(Documents) never exceeds it.
	Bound int

	// Truncated is set when MaxDocuments dropped documents.
	Truncated bool
}

// Expand produces the full candidate document set for root. root itself is
// never modified. ctx is checked between leaves.
func (e *Expander) Expand(ctx context.Context, root *doc.Object) (*Result, error) {
	if e.Transformer == nil {
		return nil, fmt.Errorf("expand: no transformer")
	}
	logger := ctxlog.FromContext(ctx)

	res := &Result{
		Documents: []*doc.Object{root},
		Bound:     1,
	}

	err := root.Walk(func(leaf doc.Leaf) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		res.Leaves++

		candidates := e.Transformer.Transform(ctx, leaf.Path, leaf.Value)
		if len(candidates) == 0 {
			return fmt.Errorf("expand %q: transformer returned no candidates", leaf.Path.String())
		}
		res.Bound = saturatingMul(res.Bound, len(candidates))

		if !candidates.Mutable() {
			return e.setAll(res, leaf, candidates[0])
		}
		res.MutableLeaves++

		next := make([]*doc.Object, 0, saturatingMul(len(res.Documents), len(candidates)))
		for _, d := range res.Documents {
			for _, c := range candidates {
				variant, err := d.With(leaf.Path, c)
				if err != nil {
					return fmt.Errorf("expand %q: %w", leaf.Path.String(), err)
				}
				next = append(next, variant)
			}
		}

		deduped, err := Dedup(next)
		if err != nil {
			return fmt.Errorf("expand %q: %w", leaf.Path.String(), err)
		}

		if e.MaxDocuments > 0 && len(deduped) > e.MaxDocuments {
			logger.Warn("candidate set truncated",
				"path", leaf.Path.String(),
				"documents", len(deduped),
				"max", e.MaxDocuments,
			)
			deduped = deduped[:e.MaxDocuments]
			res.Truncated = true
		}

		logger.Debug("leaf expanded",
			"path", leaf.Path.String(),
			"type", doc.TypeName(leaf.Value),
			"candidates", len(candidates),
			"documents", len(deduped),
		)
		res.Documents = deduped
		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// setAll writes a single candidate into every document. With the
// transformer's original-first policy the candidate is the leaf's current
// value, so this only allocates when a transformer replaces a value outright.
func (e *Expander) setAll(res *Result, leaf doc.Leaf, v doc.Value) error {
	current, ok := res.Documents[0].Lookup(leaf.Path)
	if ok && sameLeaf(current, v) {
		return nil
	}
	for i, d := range res.Documents {
		updated, err := d.With(leaf.Path, v)
		if err != nil {
			return fmt.Errorf("expand %q: %w", leaf.Path.String(), err)
		}
		res.Documents[i] = updated
	}
	return nil
}

// sameLeaf reports whether a and b are the identical leaf value. Values at
// one path are identical across the working set until this leaf is
// visited, so checking the first document is enough.
func sameLeaf(a, b doc.Value) bool {
	switch av := a.(type) {
	case nil, bool, doc.Number, string:
		return a == b
	default:
		// arrays compare by canonical form
		ac, aerr := doc.MarshalCanonical(av)
		bc, berr := doc.MarshalCanonical(b)
		return aerr == nil && berr == nil && string(ac) == string(bc)
	}
}

func saturatingMul(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxInt/b {
		return math.MaxInt
	}
	return a * b
}
