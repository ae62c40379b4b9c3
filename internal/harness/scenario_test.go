package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_ValidFile(t *testing.T) {
	scenarioPath := filepath.Join(t.TempDir(), "test.yaml")

	content := `
name: test_scenario
description: "Test scenario for validation"
input: '{"volume": 10, "ui": {"font": "Arial"}}'
rules:
  alternative_fonts: ["Georgia"]
draws: [2, 0]
max_documents: 4
assertions:
  - type: count
    count: 4
  - type: values
    path: ui.font
    values: ['"Arial"', '"Georgia"']
`
	require.NoError(t, os.WriteFile(scenarioPath, []byte(content), 0644))

	scenario, err := LoadScenario(scenarioPath)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Test scenario for validation", scenario.Description)
	assert.Equal(t, `{"volume": 10, "ui": {"font": "Arial"}}`, scenario.Input)
	require.NotNil(t, scenario.Rules)
	assert.Equal(t, []string{"Georgia"}, scenario.Rules.AlternativeFonts)
	assert.Nil(t, scenario.Rules.Colors)
	assert.Equal(t, []int{2, 0}, scenario.Draws)
	assert.Equal(t, 4, scenario.MaxDocuments)
	require.Len(t, scenario.Assertions, 2)
	assert.Equal(t, 4, *scenario.Assertions[0].Count)
	assert.Equal(t, "ui.font", scenario.Assertions[1].Path)
	assert.Equal(t, []string{`"Arial"`, `"Georgia"`}, scenario.Assertions[1].Values)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name: "missing name",
			content: `
description: "d"
input: '{}'
assertions: [{type: unique}]
`,
			want: "name is required",
		},
		{
			name: "missing description",
			content: `
name: s
input: '{}'
assertions: [{type: unique}]
`,
			want: "description is required",
		},
		{
			name: "input not an object",
			content: `
name: s
description: d
input: '[1, 2]'
assertions: [{type: unique}]
`,
			want: "input",
		},
		{
			name: "input missing",
			content: `
name: s
description: d
assertions: [{type: unique}]
`,
			want: "input",
		},
		{
			name: "negative max documents",
			content: `
name: s
description: d
input: '{}'
max_documents: -1
assertions: [{type: unique}]
`,
			want: "max_documents must be non-negative",
		},
		{
			name: "negative draw",
			content: `
name: s
description: d
input: '{}'
draws: [0, -3]
assertions: [{type: unique}]
`,
			want: "draws[1]",
		},
		{
			name: "no assertions",
			content: `
name: s
description: d
input: '{}'
`,
			want: "assertions list is required",
		},
		{
			name: "assertion without type",
			content: `
name: s
description: d
input: '{}'
assertions: [{count: 1}]
`,
			want: "assertions[0]: type is required",
		},
		{
			name: "unknown assertion type",
			content: `
name: s
description: d
input: '{}'
assertions: [{type: unique}, {type: sorted}]
`,
			want: `assertions[1]: unknown assertion type "sorted"`,
		},
		{
			name: "count below one",
			content: `
name: s
description: d
input: '{}'
assertions: [{type: count, count: 0}]
`,
			want: "count must be at least 1",
		},
		{
			name: "values without path",
			content: `
name: s
description: d
input: '{}'
assertions: [{type: values, values: ["1"]}]
`,
			want: "path is required for values",
		},
		{
			name: "values without list",
			content: `
name: s
description: d
input: '{}'
assertions: [{type: values, path: a}]
`,
			want: "values list is required",
		},
		{
			name: "values with bad literal",
			content: `
name: s
description: d
input: '{}'
assertions: [{type: values, path: a, values: ["1", "nope"]}]
`,
			want: "assertions[0].values[1]",
		},
		{
			name: "contains with bad document",
			content: `
name: s
description: d
input: '{}'
assertions: [{type: contains, document: '{"a":'}]
`,
			want: "assertions[0]: document",
		},
		{
			name: "truncated without expect",
			content: `
name: s
description: d
input: '{}'
assertions: [{type: truncated}]
`,
			want: "expect is required for truncated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseScenario_UnknownField(t *testing.T) {
	content := `
name: s
description: d
input: '{}'
flow: []
assertions: [{type: unique}]
`
	_, err := ParseScenario([]byte(content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
	assert.Contains(t, err.Error(), "flow")
}

func TestParseScenario_UnknownRulesField(t *testing.T) {
	content := `
name: s
description: d
input: '{}'
rules:
  palettes: {}
assertions: [{type: unique}]
`
	_, err := ParseScenario([]byte(content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "palettes")
}

func TestParseScenario_MalformedYAML(t *testing.T) {
	_, err := ParseScenario([]byte("name: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}
