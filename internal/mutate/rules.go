package mutate

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"golang.org/x/text/cases"

	"github.com/kostassolo/cfgfuzz/internal/doc"
)

// Rule proposes alternatives for a leaf value.
//
// Candidates returns (nil, nil) when the rule does not apply to v. A non-nil
// error means the rule applied but could not produce anything; callers keep
// the original value and move on.
type Rule interface {
	Name() string
	Candidates(v doc.Value) ([]doc.Value, error)
}

var (
	// ErrNoColorTable is returned by HexColorRule when it has no colors to draw from.
	ErrNoColorTable = errors.New("color table unavailable")

	// ErrNoAlternativeFonts is returned by FontRule when the replacement pool is empty.
	ErrNoAlternativeFonts = errors.New("no alternative fonts configured")
)

// BooleanRule negates booleans.
type BooleanRule struct{}

func (BooleanRule) Name() string { return "boolean" }

func (BooleanRule) Candidates(v doc.Value) ([]doc.Value, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, nil
	}
	return []doc.Value{!b}, nil
}

// NumberRule proposes, in order: v*2, v-1, -v, v+10%, v-10%, v+100%, v-100%.
//
// Integers keep integer arithmetic for the first three; the percentage steps
// always yield floats. Results equal in value collapse to the first one, so
// 10 yields 20, 9, -10, 11.0, 0.0.
type NumberRule struct{}

func (NumberRule) Name() string { return "number" }

// intSafe bounds integers whose double and negation cannot overflow.
const intSafe = 1 << 62

func (NumberRule) Candidates(v doc.Value) ([]doc.Value, error) {
	n, ok := v.(doc.Number)
	if !ok {
		return nil, nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, err
	}

	var out CandidateSet
	if i, ok := n.Int64(); ok && i > -intSafe && i < intSafe {
		out = out.Add(doc.IntNumber(i * 2))
		out = out.Add(doc.IntNumber(i - 1))
		out = out.Add(doc.IntNumber(-i))
	} else {
		out = addFloat(out, f*2)
		out = addFloat(out, f-1)
		out = addFloat(out, -f)
	}
	out = addFloat(out, f+f*0.1)
	out = addFloat(out, f-f*0.1)
	out = addFloat(out, f+f*1.0)
	out = addFloat(out, f-f*1.0)
	return out, nil
}

func addFloat(s CandidateSet, f float64) CandidateSet {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return s
	}
	return s.Add(doc.FloatNumber(f))
}

var percentPattern = regexp.MustCompile(`^-?\d+(\.\d+)?%$`)

// PercentageRule scales percentage strings such as "50%" by +-10% and
// +-100% of their magnitude: "55.0%", "45.0%", "100.0%", "0.0%".
type PercentageRule struct{}

func (PercentageRule) Name() string { return "percentage" }

func (PercentageRule) Candidates(v doc.Value) ([]doc.Value, error) {
	s, ok := v.(string)
	if !ok || !percentPattern.MatchString(s) {
		return nil, nil
	}
	m, err := strconv.ParseFloat(s[:len(s)-1], 64)
	if err != nil {
		return nil, fmt.Errorf("percentage %q: %w", s, err)
	}

	var out CandidateSet
	for _, f := range []float64{m + m*0.1, m - m*0.1, m + m*1.0, m - m*1.0} {
		if math.IsInf(f, 0) || math.IsNaN(f) {
			continue
		}
		out = out.Add(doc.FormatFloat(f) + "%")
	}
	return out, nil
}

var hexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// HexColorRule replaces "#rrggbb" strings with a randomly chosen named
// color's code. The draw may return the value it replaces.
type HexColorRule struct {
	Codes []string
	Rand  Rand
}

func (HexColorRule) Name() string { return "hex-color" }

func (r HexColorRule) Candidates(v doc.Value) ([]doc.Value, error) {
	s, ok := v.(string)
	if !ok || !hexPattern.MatchString(s) {
		return nil, nil
	}
	if len(r.Codes) == 0 || r.Rand == nil {
		return nil, ErrNoColorTable
	}
	return []doc.Value{r.Codes[r.Rand.IntN(len(r.Codes))]}, nil
}

// FontRule replaces a recognized font name with a random alternative.
// Matching is by Unicode case folding.
type FontRule struct {
	known        map[string]bool
	alternatives []string
	rand         Rand
	fold         cases.Caser
}

// NewFontRule builds a FontRule recognizing fonts and drawing from alternatives.
func NewFontRule(fonts, alternatives []string, rnd Rand) *FontRule {
	r := &FontRule{
		known:        make(map[string]bool, len(fonts)),
		alternatives: alternatives,
		rand:         rnd,
		fold:         cases.Fold(),
	}
	for _, f := range fonts {
		r.known[r.fold.String(f)] = true
	}
	return r
}

func (*FontRule) Name() string { return "font" }

func (r *FontRule) Candidates(v doc.Value) ([]doc.Value, error) {
	s, ok := v.(string)
	if !ok || !r.known[r.fold.String(s)] {
		return nil, nil
	}
	if len(r.alternatives) == 0 || r.rand == nil {
		return nil, ErrNoAlternativeFonts
	}
	return []doc.Value{r.alternatives[r.rand.IntN(len(r.alternatives))]}, nil
}

// BoolTokenRule swaps boolean-like tokens ("yes" <-> "no"). Matching is exact.
type BoolTokenRule struct {
	Tokens map[string]string
}

func (BoolTokenRule) Name() string { return "bool-token" }

func (r BoolTokenRule) Candidates(v doc.Value) ([]doc.Value, error) {
	s, ok := v.(string)
	if !ok {
		return nil, nil
	}
	opposite, ok := r.Tokens[s]
	if !ok {
		return nil, nil
	}
	return []doc.Value{opposite}, nil
}
