package doc

import "strings"

// Path is the sequence of field names from the document root to a node.
type Path []string

// String joins the path with dots. The root path renders as "".
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Child returns a new path with name appended. The receiver is never shared
// with the result, so sibling paths built from the same parent are independent.
func (p Path) Child(name string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = name
	return out
}

// Equal reports whether two paths name the same node.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}
