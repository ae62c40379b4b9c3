package doc

import (
	"fmt"
	"maps"
	"slices"
)

// Object is an ordered, immutable set of named fields.
//
// The zero value is not usable; build objects with NewObject and Set, or
// decode them with Parse.
type Object struct {
	keys []string
	vals map[string]Value
}

// Field is a name/value pair used to build objects in order.
type Field struct {
	Name  string
	Value Value
}

// F is shorthand for Field.
// Example: NewObject(F("volume", IntNumber(10)), F("enabled", true))
func F(name string, value Value) Field {
	return Field{Name: name, Value: value}
}

// NewObject builds an object from fields in the given order. A repeated name
// keeps its first position and its last value.
func NewObject(fields ...Field) *Object {
	o := &Object{
		keys: make([]string, 0, len(fields)),
		vals: make(map[string]Value, len(fields)),
	}
	for _, f := range fields {
		o.put(f.Name, f.Value)
	}
	return o
}

// put mutates o in place. Only valid while o is still being built.
func (o *Object) put(name string, v Value) {
	if _, ok := o.vals[name]; !ok {
		o.keys = append(o.keys, name)
	}
	o.vals[name] = v
}

// Len returns the number of fields.
func (o *Object) Len() int {
	return len(o.keys)
}

// Keys returns the field names in document order.
func (o *Object) Keys() []string {
	return slices.Clone(o.keys)
}

// Get returns the value of a direct field.
func (o *Object) Get(name string) (Value, bool) {
	v, ok := o.vals[name]
	return v, ok
}

// Set returns a copy of o with name set to v. A new name is appended after
// the existing fields. o itself is left untouched.
func (o *Object) Set(name string, v Value) *Object {
	out := &Object{
		keys: o.keys,
		vals: maps.Clone(o.vals),
	}
	if _, ok := o.vals[name]; !ok {
		out.keys = append(slices.Clip(o.keys), name)
	}
	out.vals[name] = v
	return out
}

// Lookup returns the value at path. The empty path returns o itself.
func (o *Object) Lookup(path Path) (Value, bool) {
	var cur Value = o
	for _, name := range path {
		obj, ok := cur.(*Object)
		if !ok {
			return nil, false
		}
		cur, ok = obj.vals[name]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// With returns a new root with the field at path replaced by v. Only the
// objects along path are copied; every other subtree is shared with o.
// The path must already exist: With never changes a document's shape.
func (o *Object) With(path Path, v Value) (*Object, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("with: %w: empty path", ErrPathNotFound)
	}
	name := path[0]
	cur, ok := o.vals[name]
	if !ok {
		return nil, fmt.Errorf("with %q: %w", path.String(), ErrPathNotFound)
	}
	if len(path) == 1 {
		return o.Set(name, v), nil
	}
	child, ok := cur.(*Object)
	if !ok {
		return nil, fmt.Errorf("with %q: %w: %q is a %s", path.String(), ErrPathNotFound, name, TypeName(cur))
	}
	updated, err := child.With(path[1:], v)
	if err != nil {
		return nil, err
	}
	return o.Set(name, updated), nil
}

// Leaf is a scalar field and its location.
type Leaf struct {
	Path  Path
	Value Value
}

// Walk visits every leaf depth-first in document order. Nested objects are
// descended into and never reported as leaves; an empty object contributes
// nothing. Walk stops at the first error returned by fn.
func (o *Object) Walk(fn func(Leaf) error) error {
	return o.walk(nil, fn)
}

func (o *Object) walk(prefix Path, fn func(Leaf) error) error {
	for _, name := range o.keys {
		path := prefix.Child(name)
		v := o.vals[name]
		if child, ok := v.(*Object); ok {
			if err := child.walk(path, fn); err != nil {
				return err
			}
			continue
		}
		if err := fn(Leaf{Path: path, Value: v}); err != nil {
			return err
		}
	}
	return nil
}

// Leaves returns every leaf in walk order.
func (o *Object) Leaves() []Leaf {
	var leaves []Leaf
	_ = o.Walk(func(l Leaf) error {
		leaves = append(leaves, l)
		return nil
	})
	return leaves
}

// Paths returns the dotted path of every leaf in walk order.
func (o *Object) Paths() []string {
	leaves := o.Leaves()
	out := make([]string, len(leaves))
	for i, l := range leaves {
		out[i] = l.Path.String()
	}
	return out
}
