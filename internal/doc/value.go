package doc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is any node of a document: nil, bool, Number, string, []Value or *Object.
type Value = any

// Number is a JSON number kept as its literal text.
//
// Keeping the text preserves the int/float distinction of the input: 10 and
// 10.0 are different documents on disk even though they compare equal
// numerically (see NumericEqual).
type Number string

// IntNumber formats i as an integer Number.
func IntNumber(i int64) Number {
	return Number(strconv.FormatInt(i, 10))
}

// FloatNumber formats f in shortest round-trip form and always keeps a
// fractional part, so 11 renders as "11.0". f must be finite.
func FloatNumber(f float64) Number {
	return Number(FormatFloat(f))
}

// FormatFloat renders f the way FloatNumber does, without the Number type.
// Used for numbers embedded in strings such as "55.0%".
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Int64 returns the integer value when the literal is an integer that fits
// in int64.
func (n Number) Int64() (int64, bool) {
	if strings.ContainsAny(string(n), ".eE") {
		return 0, false
	}
	i, err := strconv.ParseInt(string(n), 10, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

// IsInt reports whether the literal is an int64-representable integer.
func (n Number) IsInt() bool {
	_, ok := n.Int64()
	return ok
}

// Float64 returns the numeric value of the literal.
func (n Number) Float64() (float64, error) {
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", string(n), err)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("number out of range: %q", string(n))
	}
	return f, nil
}

// NumericEqual reports whether two numbers have the same value regardless of
// their textual form.
func NumericEqual(a, b Number) bool {
	if a == b {
		return true
	}
	ai, aok := a.Int64()
	bi, bok := b.Int64()
	if aok && bok {
		return ai == bi
	}
	af, aerr := a.Float64()
	bf, berr := b.Float64()
	if aerr != nil || berr != nil {
		return false
	}
	return af == bf
}

// IsLeaf reports whether v is a leaf (anything but an *Object).
func IsLeaf(v Value) bool {
	_, ok := v.(*Object)
	return !ok
}

// TypeName returns a short name for the dynamic type of v, for logs.
func TypeName(v Value) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case Number:
		return "number"
	case string:
		return "string"
	case []Value:
		return "array"
	case *Object:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
