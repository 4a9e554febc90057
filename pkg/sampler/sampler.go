// Package sampler implements weighted random selection over a candidate pool:
// a single draw with replacement, and k distinct draws without replacement
// where the pool's weights are re-normalized after every removal.
package sampler

import (
	"errors"
	"fmt"
)

// Source supplies the randomness for a draw. *rand.Rand from math/rand/v2
// satisfies it; tests inject seeded or scripted sources to pin down exact
// output sequences.
type Source interface {
	Float64() float64
	IntN(n int) int
}

var (
	// ErrEmptyPool is returned when a draw is requested over no candidates.
	ErrEmptyPool = errors.New("sampler: candidate pool is empty")

	// ErrInsufficientCandidates is returned when a without-replacement draw
	// asks for more distinct items than the pool holds.
	ErrInsufficientCandidates = errors.New("sampler: not enough distinct candidates")
)

// One performs a single weighted draw with replacement and returns the index
// of the selected candidate. Non-positive weights contribute no probability
// mass. If floating-point accumulation leaves the draw value past the last
// cumulative sum, or if no weight is positive, the draw falls back to a
// uniform pick over the full pool, so a non-empty pool always selects.
func One(rng Source, weights []float64) (int, error) {
	if len(weights) == 0 {
		return 0, ErrEmptyPool
	}

	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return rng.IntN(len(weights)), nil
	}

	point := rng.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cumulative += w
		if point <= cumulative {
			return i, nil
		}
	}

	// Accumulation error left the point beyond the final sum.
	return rng.IntN(len(weights)), nil
}

// WithoutReplacement draws k distinct candidate indexes, each draw
// proportional to the weight remaining in the pool. Selected candidates are
// removed and the total weight recomputed before the next draw, so the result
// always contains exactly k distinct indexes in draw order.
func WithoutReplacement(rng Source, weights []float64, k int) ([]int, error) {
	if k < 1 {
		return nil, fmt.Errorf("sampler: invalid draw count %d", k)
	}
	if len(weights) == 0 {
		return nil, ErrEmptyPool
	}
	if k > len(weights) {
		return nil, ErrInsufficientCandidates
	}

	tree := newWeightTree(weights)
	picked := make([]bool, len(weights))
	selected := make([]int, 0, k)

	for len(selected) < k {
		var index int
		if total := tree.Total(); total > 0 {
			index = tree.Find(rng.Float64() * total)
			if picked[index] {
				// A boundary hit on a removed leaf; resolve uniformly below.
				index = uniformUnpicked(rng, picked, len(weights))
			}
		} else {
			// Every remaining candidate has zero weight.
			index = uniformUnpicked(rng, picked, len(weights))
		}
		picked[index] = true
		tree.Remove(index)
		selected = append(selected, index)
	}
	return selected, nil
}

// uniformUnpicked picks uniformly among the candidates not yet selected.
func uniformUnpicked(rng Source, picked []bool, n int) int {
	remaining := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if !picked[i] {
			remaining = append(remaining, i)
		}
	}
	return remaining[rng.IntN(len(remaining))]
}
