package harness

import (
	"context"
	"fmt"

	"github.com/kostassolo/cfgfuzz/internal/doc"
	"github.com/kostassolo/cfgfuzz/internal/expand"
	"github.com/kostassolo/cfgfuzz/internal/mutate"
	"github.com/kostassolo/cfgfuzz/internal/ruleset"
	"github.com/kostassolo/cfgfuzz/internal/testutil"
)

// Run expands the scenario's input and evaluates its assertions.
//
// An error means the scenario could not be executed at all (bad rules,
// failed expansion). Assertion failures are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	root, err := doc.Parse([]byte(scenario.Input))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: input: %w", scenario.Name, err)
	}

	tables := ruleset.Default()
	if scenario.Rules != nil {
		tables = ruleset.Merge(tables, *scenario.Rules)
		if err := tables.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %s: rules: %w", scenario.Name, err)
		}
	}

	expander := &expand.Expander{
		Transformer:  mutate.NewTransformer(tables, testutil.NewSequenceRand(scenario.Draws...)),
		MaxDocuments: scenario.MaxDocuments,
	}
	expanded, err := expander.Expand(context.Background(), root)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult()
	result.Leaves = expanded.Leaves
	result.MutableLeaves = expanded.MutableLeaves
	result.Bound = expanded.Bound
	result.Truncated = expanded.Truncated
	for i, d := range expanded.Documents {
		c, err := doc.MarshalCanonical(d)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: document %d: %w", scenario.Name, i+1, err)
		}
		result.Documents = append(result.Documents, string(c))
	}

	run := &execution{root: root, docs: expanded.Documents, result: result}
	for i, assertion := range scenario.Assertions {
		if err := run.check(assertion); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}

	return result, nil
}
