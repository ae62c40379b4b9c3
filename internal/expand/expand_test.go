package expand

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kostassolo/cfgfuzz/internal/doc"
	"github.com/kostassolo/cfgfuzz/internal/mutate"
	"github.com/kostassolo/cfgfuzz/internal/ruleset"
	"github.com/kostassolo/cfgfuzz/internal/testutil"
)

func newExpander(draws ...int) *Expander {
	tables := ruleset.Merge(ruleset.Default(), ruleset.Tables{
		Colors: map[string]string{"blue": "#0000ff", "red": "#ff0000"},
	})
	return &Expander{Transformer: mutate.NewTransformer(tables, testutil.NewSequenceRand(draws...))}
}

func mustParse(t *testing.T, s string) *doc.Object {
	t.Helper()
	obj, err := doc.Parse([]byte(s))
	require.NoError(t, err)
	return obj
}

func expand(t *testing.T, e *Expander, input string) *Result {
	t.Helper()
	res, err := e.Expand(context.Background(), mustParse(t, input))
	require.NoError(t, err)
	return res
}

func valuesAt(t *testing.T, docs []*doc.Object, path ...string) []doc.Value {
	t.Helper()
	out := make([]doc.Value, len(docs))
	for i, d := range docs {
		v, ok := d.Lookup(path)
		require.True(t, ok, "document %d has no %v", i, path)
		out[i] = v
	}
	return out
}

func canonicalLines(t *testing.T, docs []*doc.Object) []byte {
	t.Helper()
	var b strings.Builder
	for _, d := range docs {
		c, err := doc.MarshalCanonical(d)
		require.NoError(t, err)
		b.Write(c)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func TestExpandNumeric(t *testing.T) {
	res := expand(t, newExpander(), `{"volume": 10}`)

	assert.Equal(t, []doc.Value{
		doc.Number("10"), doc.Number("20"), doc.Number("9"), doc.Number("-10"), doc.Number("11.0"), doc.Number("0.0"),
	}, valuesAt(t, res.Documents, "volume"))
	assert.Equal(t, 1, res.MutableLeaves)
}

func TestExpandBoolean(t *testing.T) {
	res := expand(t, newExpander(), `{"enabled": true}`)

	assert.Equal(t, []doc.Value{true, false}, valuesAt(t, res.Documents, "enabled"))
}

func TestExpandHexColor(t *testing.T) {
	// draw 1 picks red out of (blue, red)
	res := expand(t, newExpander(1), `{"color": "#ff0000"}`)
	assert.Len(t, res.Documents, 1, "the draw collided with the original")

	res = expand(t, newExpander(0), `{"color": "#ff0000"}`)
	assert.Equal(t, []doc.Value{"#ff0000", "#0000ff"}, valuesAt(t, res.Documents, "color"))
}

func TestExpandPercentage(t *testing.T) {
	res := expand(t, newExpander(), `{"threshold": "50%"}`)

	assert.Equal(t, []doc.Value{"50%", "55.0%", "45.0%", "100.0%", "0.0%"}, valuesAt(t, res.Documents, "threshold"))
}

func TestExpandNestedOnlyMutatesMatchingLeaves(t *testing.T) {
	res := expand(t, newExpander(), `{"ui": {"enabled": true, "label": "Save"}}`)

	require.Len(t, res.Documents, 2)
	assert.Equal(t, []doc.Value{true, false}, valuesAt(t, res.Documents, "ui", "enabled"))
	assert.Equal(t, []doc.Value{"Save", "Save"}, valuesAt(t, res.Documents, "ui", "label"))
	assert.Equal(t, 2, res.Leaves)
	assert.Equal(t, 1, res.MutableLeaves)
}

func TestExpandCartesianOrder(t *testing.T) {
	res := expand(t, newExpander(), `{"a": true, "b": "yes"}`)

	require.Len(t, res.Documents, 4)
	assert.Equal(t, []doc.Value{true, true, false, false}, valuesAt(t, res.Documents, "a"))
	assert.Equal(t, []doc.Value{"yes", "no", "yes", "no"}, valuesAt(t, res.Documents, "b"))
	assert.Equal(t, 4, res.Bound)
}

func TestExpandGolden(t *testing.T) {
	res := expand(t, newExpander(), `{"ui": {"enabled": true, "label": "Save"}, "volume": 2, "mode": "on"}`)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "nested_expansion", canonicalLines(t, res.Documents))
}

func TestExpandEmptyDocument(t *testing.T) {
	root := mustParse(t, `{}`)
	res, err := newExpander().Expand(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, res.Documents, 1)
	assert.Same(t, root, res.Documents[0])
	assert.Equal(t, 0, res.Leaves)
	assert.Equal(t, 1, res.Bound)
}

func TestExpandNoMutableLeaves(t *testing.T) {
	root := mustParse(t, `{"label": "Save", "nothing": null, "list": [true, 1], "nested": {"empty": {}}}`)
	res, err := newExpander().Expand(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, res.Documents, 1)
	assert.Same(t, root, res.Documents[0])
	assert.Equal(t, 3, res.Leaves)
	assert.Equal(t, 0, res.MutableLeaves)
}

func TestExpandDoesNotModifyInput(t *testing.T) {
	input := `{"a": true, "n": {"b": 3, "c": "50%"}}`
	root := mustParse(t, input)
	before, err := doc.MarshalCanonical(root)
	require.NoError(t, err)

	_, err = newExpander().Expand(context.Background(), root)
	require.NoError(t, err)

	after, err := doc.MarshalCanonical(root)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestExpandPreservesShape(t *testing.T) {
	root := mustParse(t, `{"z": 1, "a": {"y": true, "x": {"w": "on"}}, "m": "#123456", "n": null}`)
	res, err := newExpander().Expand(context.Background(), root)
	require.NoError(t, err)

	want := root.Paths()
	for i, d := range res.Documents {
		if diff := cmp.Diff(want, d.Paths()); diff != "" {
			t.Fatalf("document %d changed shape (-want +got):\n%s", i, diff)
		}
	}
}

func TestExpandOutputIsUnique(t *testing.T) {
	res := expand(t, newExpander(), `{"a": 1, "b": 2.5, "c": "yes", "d": {"e": false, "f": "10%"}}`)

	again, err := Dedup(res.Documents)
	require.NoError(t, err)
	assert.Equal(t, res.Documents, again, "dedup of expander output must be a no-op")
}

func TestExpandCardinalityBound(t *testing.T) {
	res := expand(t, newExpander(), `{"a": 1, "b": true, "c": "Save", "d": "yes"}`)

	// 6 * 2 * 1 * 2
	assert.Equal(t, 24, res.Bound)
	assert.LessOrEqual(t, len(res.Documents), res.Bound)
	assert.GreaterOrEqual(t, len(res.Documents), 1)
	assert.Len(t, res.Documents, 24)
}

func TestExpandDeterministic(t *testing.T) {
	input := `{"a": 7, "b": {"c": true, "d": "-12.5%"}, "e": "off"}`

	first := expand(t, newExpander(), input)
	second := expand(t, newExpander(), input)

	assert.Equal(t, string(canonicalLines(t, first.Documents)), string(canonicalLines(t, second.Documents)))
}

func TestExpandMaxDocuments(t *testing.T) {
	e := newExpander()
	e.MaxDocuments = 5

	res := expand(t, e, `{"a": true, "b": true, "c": true}`)

	assert.Len(t, res.Documents, 5)
	assert.True(t, res.Truncated)
	assert.Equal(t, 8, res.Bound)
	assert.Equal(t, []doc.Value{true, true, true, true, false}, valuesAt(t, res.Documents, "a"))
}

func TestExpandMaxDocumentsNotReached(t *testing.T) {
	e := newExpander()
	e.MaxDocuments = 100

	res := expand(t, e, `{"a": true, "b": true}`)

	assert.Len(t, res.Documents, 4)
	assert.False(t, res.Truncated)
}

func TestExpandCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newExpander().Expand(ctx, mustParse(t, `{"a": true}`))
	assert.True(t, errors.Is(err, context.Canceled))
}

// stubTransformer returns scripted candidate sets per path.
type stubTransformer map[string]mutate.CandidateSet

func (s stubTransformer) Transform(_ context.Context, path doc.Path, v doc.Value) mutate.CandidateSet {
	if set, ok := s[path.String()]; ok {
		return set
	}
	return mutate.CandidateSet{v}
}

func TestExpandDeduplicatesRedundantBranches(t *testing.T) {
	e := &Expander{Transformer: stubTransformer{
		"a": {true, false, false},
		// NFC-equivalent strings are the same configuration
		"b": {"caf\u00e9", "cafe\u0301"},
	}}

	res := expand(t, e, `{"a": true, "b": "x"}`)

	require.Len(t, res.Documents, 2)
	assert.Equal(t, []doc.Value{true, false}, valuesAt(t, res.Documents, "a"))
	assert.Equal(t, 6, res.Bound)
}

func TestExpandSingleReplacementAppliesToAll(t *testing.T) {
	e := &Expander{Transformer: stubTransformer{
		"a": {true, false},
		"b": {"replaced"},
	}}

	res := expand(t, e, `{"a": true, "b": "x"}`)

	require.Len(t, res.Documents, 2)
	assert.Equal(t, []doc.Value{"replaced", "replaced"}, valuesAt(t, res.Documents, "b"))
	assert.Equal(t, 1, res.MutableLeaves)
}

func TestExpandEmptyCandidateSetIsAnError(t *testing.T) {
	e := &Expander{Transformer: stubTransformer{"a": {}}}

	_, err := e.Expand(context.Background(), mustParse(t, `{"a": 1}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestExpandWithoutTransformer(t *testing.T) {
	_, err := (&Expander{}).Expand(context.Background(), mustParse(t, `{"a": 1}`))
	require.Error(t, err)
}

func TestDedupKeepsFirstSeen(t *testing.T) {
	a := doc.NewObject(doc.F("x", doc.Number("1")), doc.F("y", true))
	b := doc.NewObject(doc.F("y", true), doc.F("x", doc.Number("1")))
	c := doc.NewObject(doc.F("x", doc.Number("2")), doc.F("y", true))

	out, err := Dedup([]*doc.Object{a, c, b, c})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Same(t, a, out[0])
	assert.Same(t, c, out[1])
}

func TestDedupEmpty(t *testing.T) {
	out, err := Dedup(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSaturatingMul(t *testing.T) {
	assert.Equal(t, 6, saturatingMul(2, 3))
	assert.Equal(t, 0, saturatingMul(0, 3))
	assert.Equal(t, int(^uint(0)>>1), saturatingMul(int(^uint(0)>>1), 2))
}

func FuzzExpand(f *testing.F) {
	for _, seed := range []string{
		`{"volume": 10}`,
		`{"ui": {"enabled": true, "label": "Save"}}`,
		`{"a": "50%", "b": "#FF0000", "c": "Arial", "d": "yes"}`,
		`{}`,
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		root, err := doc.Parse([]byte(input))
		if err != nil {
			return
		}
		if len(root.Leaves()) > 6 {
			return
		}

		e := &Expander{Transformer: mutate.NewTransformer(ruleset.Default(), mutate.NewRand(1)), MaxDocuments: 4096}
		res, err := e.Expand(context.Background(), root)
		require.NoError(t, err)

		require.NotEmpty(t, res.Documents)
		assert.LessOrEqual(t, len(res.Documents), res.Bound)
		for _, d := range res.Documents {
			assert.Equal(t, root.Paths(), d.Paths())
		}
		again, err := Dedup(res.Documents)
		require.NoError(t, err)
		assert.Len(t, again, len(res.Documents))
	})
}
