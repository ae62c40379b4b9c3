package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceRandReplaysScript(t *testing.T) {
	r := NewSequenceRand(3, 1, 4)

	assert.Equal(t, 3, r.IntN(10))
	assert.Equal(t, 1, r.IntN(10))
	assert.Equal(t, 4, r.IntN(10))
	assert.Equal(t, 3, r.IntN(10), "wraps around")
	assert.Equal(t, 4, r.Calls())
}

func TestSequenceRandReducesIntoRange(t *testing.T) {
	r := NewSequenceRand(7, -1)

	assert.Equal(t, 1, r.IntN(3))
	assert.Equal(t, 2, r.IntN(3))
}

func TestSequenceRandEmptyScript(t *testing.T) {
	r := NewSequenceRand()

	assert.Equal(t, 0, r.IntN(5))
	assert.Equal(t, 0, r.IntN(1))
	assert.Equal(t, 2, r.Calls())
}

func TestSequenceRandReset(t *testing.T) {
	r := NewSequenceRand(2, 5)
	r.IntN(10)
	r.IntN(10)

	r.Reset()

	assert.Equal(t, 0, r.Calls())
	assert.Equal(t, 2, r.IntN(10))
}

func TestSequenceRandConcurrent(t *testing.T) {
	r := NewSequenceRand(1, 2, 3)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.IntN(4)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000, r.Calls())
}

func TestFixedRunID(t *testing.T) {
	assert.Equal(t, "run-1", NewFixedRunID("run-1").Generate())
	assert.Equal(t, "test-run-default", NewFixedRunID("").Generate())
}
