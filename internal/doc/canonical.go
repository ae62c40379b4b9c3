package doc

import (
	"bytes"
	"fmt"
	"slices"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces the canonical serialization used for identity.
// Two documents are the same configuration iff their canonical forms match.
//
// Differences from MarshalIndent:
// 1. Object keys sorted by UTF-16 code units at every level (RFC 8785 order)
// 2. Strings and keys NFC normalized
// 3. No whitespace, no HTML escaping, U+2028/U+2029 left literal
// 4. Numbers are written as their literal text
func MarshalCanonical(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case *Object:
		buf.WriteByte('{')
		for i, name := range SortedKeys(val) {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := canonicalString(name)
			if err != nil {
				return fmt.Errorf("key %q: %w", name, err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeCanonical(buf, val.vals[name]); err != nil {
				return fmt.Errorf("value for key %q: %w", name, err)
			}
		}
		buf.WriteByte('}')
		return nil
	case []Value:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		return writeScalar(buf, v, canonicalString)
	}
}

// canonicalString NFC-normalizes s and encodes it with only the escapes JSON
// requires.
func canonicalString(s string) ([]byte, error) {
	b, err := marshalString(norm.NFC.String(s))
	if err != nil {
		return nil, err
	}
	return unescapeLineSeparators(b), nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes that
// encoding/json emits back into literal characters. Escape sequences are
// consumed pairwise so an escaped backslash followed by "u2028" is kept.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 >= len(data) {
			out = append(out, data[i])
			continue
		}
		if data[i+1] == 'u' && i+6 <= len(data) {
			switch string(data[i+2 : i+6]) {
			case "2028":
				out = append(out, "\u2028"...)
				i += 5
				continue
			case "2029":
				out = append(out, "\u2029"...)
				i += 5
				continue
			}
		}
		out = append(out, data[i], data[i+1])
		i++
	}
	return out
}

// SortedKeys returns the field names of o in canonical order.
func SortedKeys(o *Object) []string {
	keys := slices.Clone(o.keys)
	slices.SortFunc(keys, compareUTF16)
	return keys
}

// compareUTF16 orders strings by UTF-16 code units. This differs from Go's
// byte-wise order for characters above U+FFFF.
func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}
