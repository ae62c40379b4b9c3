// Package harness runs expansion scenarios described in YAML files.
//
// A scenario names an input document, optional rule tables and scripted
// random draws, and a list of assertions over the expanded document set.
//
// # Scenario Format
//
//	name: numeric_scale
//	description: "Numbers gain five alternatives"
//	input: '{"volume": 10}'
//	rules:                      # optional, merged over the defaults
//	  colors: {blue: "#0000ff"}
//	draws: [0, 1]               # optional, consumed by color and font rules
//	max_documents: 0            # optional cap
//	assertions:
//	  - type: count
//	    count: 6
//	  - type: values
//	    path: volume
//	    values: ["10", "20", "9", "-10", "11.0", "0.0"]
//
// # Assertion Types
//
//   - count: the set has exactly count documents
//   - values: the JSON values at path, in enumeration order
//   - contains / excludes: some / no document is canonically equal to document
//   - shape: every document has the input's leaf paths
//   - unique: no two documents share a canonical form
//   - truncated: whether max_documents dropped documents
//
// # Deterministic Testing
//
// Randomness comes from the scenario's draws, never from a seeded
// generator, so the canonical document list is stable and can be compared
// against testdata/golden/<name>.golden with RunWithGolden.
package harness
