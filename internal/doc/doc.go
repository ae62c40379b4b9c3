// Package doc provides the configuration document model for cfgfuzz.
//
// A document is a tree of named fields. Interior nodes are *Object values and
// leaves are scalars: nil, bool, Number, string. Arrays are carried as opaque
// leaves ([]Value) and are never mutated.
//
// Objects are persistent. Once built they are never modified in place;
// With returns a new root that shares every untouched subtree with the old
// one. This lets the expander fan a document out into thousands of variants
// without deep copies and without aliasing between variants.
//
// Identity is defined by MarshalCanonical (keys sorted by UTF-16 code units,
// NFC-normalized strings, no HTML escaping) and Hash, never by field order.
package doc
