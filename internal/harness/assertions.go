package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kostassolo/cfgfuzz/internal/doc"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string

	// Documents is the full canonical set, for context.
	Documents []string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nDocuments:\n")
	for i, d := range e.Documents {
		fmt.Fprintf(&buf, "  [%d] %s\n", i+1, d)
	}

	return buf.String()
}

type execution struct {
	root   *doc.Object
	docs   []*doc.Object
	result *Result
}

func (x *execution) fail(typ, expected, actual string) error {
	return &AssertionError{
		Type:      typ,
		Expected:  expected,
		Actual:    actual,
		Documents: x.result.Documents,
	}
}

func (x *execution) check(a Assertion) error {
	switch a.Type {
	case AssertCount:
		if got := len(x.docs); got != *a.Count {
			return x.fail(a.Type, fmt.Sprintf("%d documents", *a.Count), fmt.Sprintf("%d documents", got))
		}
	case AssertValues:
		return x.checkValues(a)
	case AssertContains, AssertExcludes:
		want, err := canonicalDocument(a.Document)
		if err != nil {
			return err
		}
		found := slices.Contains(x.result.Documents, want)
		if a.Type == AssertContains && !found {
			return x.fail(a.Type, want, "not in set")
		}
		if a.Type == AssertExcludes && found {
			return x.fail(a.Type, "no "+want, "present in set")
		}
	case AssertShape:
		want := x.root.Paths()
		for i, d := range x.docs {
			if got := d.Paths(); !slices.Equal(want, got) {
				return x.fail(a.Type, strings.Join(want, ","), fmt.Sprintf("document %d has %s", i+1, strings.Join(got, ",")))
			}
		}
	case AssertUnique:
		seen := make(map[string]int, len(x.result.Documents))
		for i, c := range x.result.Documents {
			if j, dup := seen[c]; dup {
				return x.fail(a.Type, "distinct documents", fmt.Sprintf("documents %d and %d are equal", j+1, i+1))
			}
			seen[c] = i
		}
	case AssertTruncated:
		if x.result.Truncated != *a.Expect {
			return x.fail(a.Type, fmt.Sprint(*a.Expect), fmt.Sprint(x.result.Truncated))
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func (x *execution) checkValues(a Assertion) error {
	path := doc.Path(strings.Split(a.Path, "."))

	want := make([]string, len(a.Values))
	for i, lit := range a.Values {
		v, err := parseLiteral(lit)
		if err != nil {
			return err
		}
		c, err := doc.MarshalCanonical(v)
		if err != nil {
			return err
		}
		want[i] = string(c)
	}

	got := make([]string, len(x.docs))
	for i, d := range x.docs {
		v, ok := d.Lookup(path)
		if !ok {
			return x.fail(a.Type, "leaf "+a.Path, fmt.Sprintf("document %d has no such leaf", i+1))
		}
		c, err := doc.MarshalCanonical(v)
		if err != nil {
			return err
		}
		got[i] = string(c)
	}

	if !slices.Equal(want, got) {
		return x.fail(a.Type, "["+strings.Join(want, ", ")+"]", "["+strings.Join(got, ", ")+"]")
	}
	return nil
}

// parseLiteral decodes one JSON value of any kind.
func parseLiteral(lit string) (doc.Value, error) {
	wrapped, err := doc.Parse([]byte(`{"v":` + lit + `}`))
	if err != nil {
		return nil, fmt.Errorf("literal %q: %w", lit, err)
	}
	v, _ := wrapped.Get("v")
	return v, nil
}

func canonicalDocument(text string) (string, error) {
	d, err := doc.Parse([]byte(text))
	if err != nil {
		return "", err
	}
	c, err := doc.MarshalCanonical(d)
	if err != nil {
		return "", err
	}
	return string(c), nil
}
