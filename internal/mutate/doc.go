// Package mutate turns one leaf value into the set of values it may be
// replaced with.
//
// A Rule recognizes one semantic type (boolean, number, percentage string,
// hex color, font name, boolean-like token) and proposes alternatives. A
// Transformer runs every rule against a leaf, unions what they propose and
// always keeps the original value as the first candidate, so the size of a
// CandidateSet is 1 exactly when no rule had anything to offer.
//
// Rules that draw at random take a Rand. Production code seeds a
// math/rand/v2 generator; tests substitute a scripted sequence.
package mutate
