// Package ruleset holds the lookup tables that drive the string mutation
// rules: recognized font names, replacement fonts, boolean-like token pairs
// and the named color table.
//
// Tables start from built-in defaults. A rules file (.cue, .hcl, .yaml/.yml
// or .json/.jsonc) may replace any of the four tables; fields it omits keep
// their defaults.
package ruleset

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for a rules file with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported rules file format")

	// ErrInvalid is returned when a rules file decodes but fails validation.
	ErrInvalid = errors.New("invalid rules")
)

// Tables is the data the string rules consult.
type Tables struct {
	// Fonts are the font names a value must match, case-insensitively, for
	// the font rule to fire.
	Fonts []string `json:"fonts,omitempty" yaml:"fonts,omitempty" hcl:"fonts,optional"`

	// AlternativeFonts is the pool a replacement font is drawn from.
	AlternativeFonts []string `json:"alternative_fonts,omitempty" yaml:"alternative_fonts,omitempty" hcl:"alternative_fonts,optional"`

	// BoolTokens pairs boolean-like tokens. Each pair only needs one
	// direction; Bidirectional adds the reverse.
	BoolTokens map[string]string `json:"bool_tokens,omitempty" yaml:"bool_tokens,omitempty" hcl:"bool_tokens,optional"`

	// Colors maps color names to "#rrggbb" codes.
	Colors map[string]string `json:"colors,omitempty" yaml:"colors,omitempty" hcl:"colors,optional"`
}

var defaultFonts = []string{
	"arial",
	"helvetica",
	"verdana",
	"tahoma",
	"trebuchet ms",
	"times new roman",
	"georgia",
	"garamond",
	"courier new",
	"brush script mt",
	"comic sans ms",
	"impact",
	"open sans",
	"roboto",
	"lato",
	"segoe ui",
	"system-ui",
	"sans-serif",
	"serif",
	"monospace",
	"opendyslexic",
}

var defaultBoolTokens = map[string]string{
	"yes":     "no",
	"Yes":     "No",
	"YES":     "NO",
	"true":    "false",
	"True":    "False",
	"on":      "off",
	"On":      "Off",
	"enabled": "disabled",
	"enable":  "disable",
	"show":    "hide",
	"1":       "0",
}

// Default returns the built-in tables. The returned value owns its slices
// and maps.
func Default() Tables {
	return Tables{
		Fonts:            slices.Clone(defaultFonts),
		AlternativeFonts: slices.Clone(defaultFonts),
		BoolTokens:       maps.Clone(defaultBoolTokens),
		Colors:           maps.Clone(css3Colors),
	}
}

// Merge returns base with every table that overlay sets replacing base's.
func Merge(base, overlay Tables) Tables {
	if overlay.Fonts != nil {
		base.Fonts = overlay.Fonts
	}
	if overlay.AlternativeFonts != nil {
		base.AlternativeFonts = overlay.AlternativeFonts
	}
	if overlay.BoolTokens != nil {
		base.BoolTokens = overlay.BoolTokens
	}
	if overlay.Colors != nil {
		base.Colors = overlay.Colors
	}
	return base
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validate checks the tables for values the rules cannot use.
func (t Tables) Validate() error {
	for _, f := range t.Fonts {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("%w: empty font name", ErrInvalid)
		}
	}
	for _, f := range t.AlternativeFonts {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("%w: empty alternative font name", ErrInvalid)
		}
	}
	for name, code := range t.Colors {
		if !hexColor.MatchString(code) {
			return fmt.Errorf("%w: color %q: %q is not #rrggbb", ErrInvalid, name, code)
		}
	}
	if _, err := bidirectional(t.BoolTokens); err != nil {
		return err
	}
	return nil
}

// Bidirectional returns the token table with both directions of every
// pair. It panics on conflicting pairs; call Validate first.
func (t Tables) Bidirectional() map[string]string {
	out, err := bidirectional(t.BoolTokens)
	if err != nil {
		panic(err)
	}
	return out
}

func bidirectional(pairs map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(pairs)*2)
	add := func(from, to string) error {
		if prev, ok := out[from]; ok && prev != to {
			return fmt.Errorf("%w: token %q paired with both %q and %q", ErrInvalid, from, prev, to)
		}
		out[from] = to
		return nil
	}
	for _, k := range slices.Sorted(maps.Keys(pairs)) {
		v := pairs[k]
		if k == "" || v == "" {
			return nil, fmt.Errorf("%w: empty boolean token in pair %q/%q", ErrInvalid, k, v)
		}
		if k == v {
			return nil, fmt.Errorf("%w: token %q paired with itself", ErrInvalid, k)
		}
		if err := add(k, v); err != nil {
			return nil, err
		}
		if err := add(v, k); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ColorCodes returns one lowercase code per distinct color, ordered by the
// first color name (alphabetically) that uses it. The order is stable so a
// seeded random draw picks the same color on every run.
func (t Tables) ColorCodes() []string {
	seen := make(map[string]bool, len(t.Colors))
	var codes []string
	for _, name := range slices.Sorted(maps.Keys(t.Colors)) {
		code := strings.ToLower(t.Colors[name])
		if seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes
}
