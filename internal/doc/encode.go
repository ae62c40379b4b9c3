package doc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// MarshalIndent encodes v as indented JSON in document field order, the
// form written to output files. HTML characters are not escaped.
func MarshalIndent(v Value, indent string) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeIndent(&buf, v, indent, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeIndent(buf *bytes.Buffer, v Value, indent string, depth int) error {
	switch val := v.(type) {
	case *Object:
		if val.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteByte('{')
		for i, name := range val.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, indent, depth+1)
			key, err := marshalString(name)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteString(": ")
			if err := writeIndent(buf, val.vals[name], indent, depth+1); err != nil {
				return fmt.Errorf("field %q: %w", name, err)
			}
		}
		newline(buf, indent, depth)
		buf.WriteByte('}')
		return nil
	case []Value:
		if len(val) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, indent, depth+1)
			if err := writeIndent(buf, elem, indent, depth+1); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		newline(buf, indent, depth)
		buf.WriteByte(']')
		return nil
	default:
		return writeScalar(buf, v, marshalString)
	}
}

func newline(buf *bytes.Buffer, indent string, depth int) {
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(indent, depth))
}

// writeScalar writes a leaf value. enc controls how strings are rendered so
// the canonical encoder can normalize them.
func writeScalar(buf *bytes.Buffer, v Value, enc func(string) ([]byte, error)) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Number:
		if !json.Valid([]byte(val)) {
			return fmt.Errorf("invalid number literal %q", string(val))
		}
		buf.WriteString(string(val))
	case string:
		b, err := enc(val)
		if err != nil {
			return err
		}
		buf.Write(b)
	default:
		return fmt.Errorf("unsupported value type %T", v)
	}
	return nil
}

// marshalString encodes s as a JSON string without HTML escaping.
func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// ToAny converts v into plain Go values (map[string]any, []any, json.Number)
// suitable for encoding/json or comparison in tests. Field order is lost.
func ToAny(v Value) any {
	switch val := v.(type) {
	case *Object:
		m := make(map[string]any, val.Len())
		for _, name := range val.keys {
			m[name] = ToAny(val.vals[name])
		}
		return m
	case []Value:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = ToAny(elem)
		}
		return out
	case Number:
		return json.Number(val)
	default:
		return v
	}
}
