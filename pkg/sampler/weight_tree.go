package sampler

import "math/bits"

// weightTree is a flat binary-indexed sum tree over a fixed-size weight pool.
// It supports point updates and locating the leaf that covers a given point
// on the cumulative weight axis, which is all weighted sampling needs.
type weightTree struct {
	nodes       []float64
	size        int // number of leaves actually in use
	alignedSize int // leaf capacity, rounded up to a power of two
}

func newWeightTree(weights []float64) *weightTree {
	alignedSize := 1 << bits.Len(uint(len(weights)))
	t := &weightTree{
		nodes:       make([]float64, 2*alignedSize),
		size:        len(weights),
		alignedSize: alignedSize,
	}
	for i, w := range weights {
		if w > 0 {
			t.nodes[alignedSize+i] = w
		}
	}
	for i := alignedSize - 1; i > 0; i-- {
		t.nodes[i] = t.nodes[2*i] + t.nodes[2*i+1]
	}
	return t
}

// Total returns the sum of all remaining weights.
func (t *weightTree) Total() float64 {
	return t.nodes[1]
}

// Remove zeroes out the weight at index so later draws cannot land on it.
func (t *weightTree) Remove(index int) {
	pos := t.alignedSize + index
	t.nodes[pos] = 0
	for pos > 1 {
		pos /= 2
		t.nodes[pos] = t.nodes[2*pos] + t.nodes[2*pos+1]
	}
}

// Find returns the index of the first leaf whose cumulative weight reaches
// value. The caller guarantees 0 <= value < Total().
func (t *weightTree) Find(value float64) int {
	pos := 1
	for pos < t.alignedSize {
		left := 2 * pos
		if value <= t.nodes[left] {
			pos = left
		} else {
			value -= t.nodes[left]
			pos = left + 1
		}
	}
	index := pos - t.alignedSize
	if index >= t.size {
		// Rounding pushed the walk into the zero-padded tail.
		index = t.size - 1
	}
	return index
}
