package mutate

import (
	"context"

	"github.com/kostassolo/cfgfuzz/internal/ctxlog"
	"github.com/kostassolo/cfgfuzz/internal/doc"
	"github.com/kostassolo/cfgfuzz/internal/ruleset"
)

// Transformer computes the CandidateSet of a leaf from an ordered rule list.
type Transformer struct {
	Rules []Rule
}

// NewTransformer returns the standard rule list over tables. tables must
// have passed Validate.
//
// String rules run in the order hex color, font, boolean token, percentage;
// a string matching several of them gets the union of their proposals.
func NewTransformer(tables ruleset.Tables, rnd Rand) *Transformer {
	return &Transformer{
		Rules: []Rule{
			BooleanRule{},
			NumberRule{},
			HexColorRule{Codes: tables.ColorCodes(), Rand: rnd},
			NewFontRule(tables.Fonts, tables.AlternativeFonts, rnd),
			BoolTokenRule{Tokens: tables.Bidirectional()},
			PercentageRule{},
		},
	}
}

// Transform returns v followed by every distinct alternative the rules
// propose. Values no rule recognizes (null, arrays, plain strings) come back
// as the singleton {v}. A rule that fails is logged at debug level and
// contributes nothing.
func (t *Transformer) Transform(ctx context.Context, path doc.Path, v doc.Value) CandidateSet {
	set := CandidateSet{v}
	for _, rule := range t.Rules {
		alts, err := rule.Candidates(v)
		if err != nil {
			ctxlog.FromContext(ctx).Debug("rule failed, keeping original",
				"path", path.String(),
				"rule", rule.Name(),
				"error", err,
			)
			continue
		}
		for _, alt := range alts {
			set = set.Add(alt)
		}
	}
	return set
}
