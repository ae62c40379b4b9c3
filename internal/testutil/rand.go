// Package testutil provides deterministic stand-ins for the random and
// time-dependent inputs of a run.
package testutil

import "sync"

// SequenceRand replays a scripted list of draws.
//
// Each IntN(n) call returns the next scripted value modulo n, wrapping back
// to the start when the script runs out. An empty script always draws 0.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequenceRand struct {
	mu    sync.Mutex
	draws []int
	pos   int
}

// NewSequenceRand creates a SequenceRand that yields draws in order.
func NewSequenceRand(draws ...int) *SequenceRand {
	return &SequenceRand{draws: draws}
}

// IntN returns the next scripted draw reduced into [0, n).
func (r *SequenceRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.draws) == 0 {
		r.pos++
		return 0
	}
	v := r.draws[r.pos%len(r.draws)]
	r.pos++
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Calls returns how many draws have been made.
func (r *SequenceRand) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pos
}

// Reset rewinds the script. After Reset, the next draw is the first one again.
func (r *SequenceRand) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pos = 0
}
