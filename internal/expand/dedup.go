package expand

import (
	"fmt"

	"github.com/kostassolo/cfgfuzz/internal/doc"
)

// Dedup keeps the first document for each canonical hash, preserving order.
// Applying it to its own output is a no-op.
func Dedup(docs []*doc.Object) ([]*doc.Object, error) {
	seen := make(map[string]struct{}, len(docs))
	out := make([]*doc.Object, 0, len(docs))
	for i, d := range docs {
		h, err := doc.Hash(d)
		if err != nil {
			return nil, fmt.Errorf("dedup document %d: %w", i, err)
		}
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, d)
	}
	return out, nil
}
