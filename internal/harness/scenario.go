package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kostassolo/cfgfuzz/internal/doc"
	"github.com/kostassolo/cfgfuzz/internal/ruleset"
)

// Scenario defines one expansion scenario.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Input is the JSON text of the document to expand. It is kept as text
	// so field order and number literals survive YAML decoding.
	Input string `yaml:"input"`

	// Rules overlays the default rule tables.
	Rules *ruleset.Tables `yaml:"rules,omitempty"`

	// Draws scripts the color and font rules' random choices.
	Draws []int `yaml:"draws,omitempty"`

	// MaxDocuments caps the expansion. Zero means no cap.
	MaxDocuments int `yaml:"max_documents,omitempty"`

	Assertions []Assertion `yaml:"assertions"`
}

// Assertion types.
const (
	AssertCount     = "count"
	AssertValues    = "values"
	AssertContains  = "contains"
	AssertExcludes  = "excludes"
	AssertShape     = "shape"
	AssertUnique    = "unique"
	AssertTruncated = "truncated"
)

// Assertion is a check over the expanded document set.
type Assertion struct {
	Type string `yaml:"type"`

	// Count is the expected document count for count.
	Count *int `yaml:"count,omitempty"`

	// Path is the dotted leaf path for values.
	Path string `yaml:"path,omitempty"`

	// Values are JSON literals expected at Path, one per document.
	Values []string `yaml:"values,omitempty"`

	// Document is the JSON text for contains and excludes.
	Document string `yaml:"document,omitempty"`

	// Expect is the expected flag for truncated.
	Expect *bool `yaml:"expect,omitempty"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if _, err := doc.Parse([]byte(s.Input)); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	if s.MaxDocuments < 0 {
		return fmt.Errorf("max_documents must be non-negative")
	}
	for i, d := range s.Draws {
		if d < 0 {
			return fmt.Errorf("draws[%d]: must be non-negative", i)
		}
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertCount:
		if a.Count == nil || *a.Count < 1 {
			return fmt.Errorf("assertions[%d]: count must be at least 1", index)
		}
	case AssertValues:
		if a.Path == "" {
			return fmt.Errorf("assertions[%d]: path is required for values", index)
		}
		if len(a.Values) == 0 {
			return fmt.Errorf("assertions[%d]: values list is required for values", index)
		}
		for j, lit := range a.Values {
			if _, err := parseLiteral(lit); err != nil {
				return fmt.Errorf("assertions[%d].values[%d]: %w", index, j, err)
			}
		}
	case AssertContains, AssertExcludes:
		if _, err := doc.Parse([]byte(a.Document)); err != nil {
			return fmt.Errorf("assertions[%d]: document: %w", index, err)
		}
	case AssertShape, AssertUnique:
	case AssertTruncated:
		if a.Expect == nil {
			return fmt.Errorf("assertions[%d]: expect is required for truncated", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
