package ruleset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// Load reads a rules file and merges it over the defaults. The format is
// chosen by extension. An empty path returns Default().
func Load(path string) (Tables, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("cannot read rules file: %w", err)
	}

	overlay, err := Parse(path, data)
	if err != nil {
		return Tables{}, err
	}

	tables := Merge(Default(), overlay)
	if err := tables.Validate(); err != nil {
		return Tables{}, fmt.Errorf("%s: %w", path, err)
	}
	return tables, nil
}

// Parse decodes rules file content. name is used for the format and for
// error positions; it need not exist on disk. The result is not merged with
// the defaults.
func Parse(name string, data []byte) (Tables, error) {
	var (
		t   Tables
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".cue":
		t, err = parseCUE(name, data)
	case ".hcl":
		t, err = parseHCL(name, data)
	case ".yaml", ".yml":
		t, err = parseYAML(data)
	case ".json", ".jsonc":
		t, err = parseJSONC(data)
	default:
		return Tables{}, fmt.Errorf("%w: %q (want .cue, .hcl, .yaml, .yml, .json or .jsonc)", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return Tables{}, fmt.Errorf("%w %s: %w", ErrInvalid, name, err)
	}
	return t, nil
}

func parseCUE(name string, data []byte) (Tables, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(name))
	if err := value.Err(); err != nil {
		return Tables{}, fmt.Errorf("compiling CUE: %w", err)
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return Tables{}, fmt.Errorf("CUE value is not concrete: %w", err)
	}

	var t Tables
	if err := value.Decode(&t); err != nil {
		return Tables{}, fmt.Errorf("decoding CUE: %w", err)
	}
	return t, nil
}

func parseHCL(name string, data []byte) (Tables, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, name)
	if diags.HasErrors() {
		return Tables{}, fmt.Errorf("parsing HCL: %w", diags)
	}

	var t Tables
	if diags := gohcl.DecodeBody(file.Body, nil, &t); diags.HasErrors() {
		return Tables{}, fmt.Errorf("decoding HCL: %w", diags)
	}
	return t, nil
}

func parseYAML(data []byte) (Tables, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var t Tables
	if err := dec.Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return Tables{}, nil
		}
		return Tables{}, fmt.Errorf("decoding YAML: %w", err)
	}
	return t, nil
}

func parseJSONC(data []byte) (Tables, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Tables{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()

	var t Tables
	if err := dec.Decode(&t); err != nil {
		return Tables{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return t, nil
}
