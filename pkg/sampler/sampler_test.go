package sampler

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

// scriptedSource replays a fixed sequence of values so tests can steer a draw
// onto an exact candidate.
type scriptedSource struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (s *scriptedSource) Float64() float64 {
	v := s.floats[s.fi]
	s.fi++
	return v
}

func (s *scriptedSource) IntN(n int) int {
	v := s.ints[s.ii]
	s.ii++
	return v % n
}

func TestOne(t *testing.T) {
	weights := []float64{60, 30, 10}

	t.Run("cumulative walk selects by weight band", func(t *testing.T) {
		// total = 100; points 0.10*100=10 -> index 0, 0.70*100=70 -> index 1,
		// 0.95*100=95 -> index 2.
		cases := []struct {
			point float64
			want  int
		}{
			{0.10, 0},
			{0.70, 1},
			{0.95, 2},
		}
		for _, c := range cases {
			src := &scriptedSource{floats: []float64{c.point}}
			got, err := One(src, weights)
			if err != nil {
				t.Fatalf("One returned error: %v", err)
			}
			if got != c.want {
				t.Errorf("point %f: expected index %d, got %d", c.point, c.want, got)
			}
		}
	})

	t.Run("empty pool fails", func(t *testing.T) {
		if _, err := One(&scriptedSource{}, nil); !errors.Is(err, ErrEmptyPool) {
			t.Fatalf("expected ErrEmptyPool, got %v", err)
		}
	})

	t.Run("all-zero weights fall back to uniform", func(t *testing.T) {
		src := &scriptedSource{ints: []int{2}}
		got, err := One(src, []float64{0, 0, 0})
		if err != nil {
			t.Fatalf("One returned error: %v", err)
		}
		if got != 2 {
			t.Errorf("expected uniform fallback to pick index 2, got %d", got)
		}
	})

	t.Run("non-positive weights carry no probability", func(t *testing.T) {
		src := &scriptedSource{floats: []float64{0.0}}
		got, err := One(src, []float64{0, -1, 5})
		if err != nil {
			t.Fatalf("One returned error: %v", err)
		}
		if got != 2 {
			t.Errorf("expected index 2 (only positive weight), got %d", got)
		}
	})
}

func TestOneDistribution(t *testing.T) {
	// With weights 60/30/10 the observed frequencies over 100k draws must sit
	// within 2 percentage points of the intended 60%/30%/10% split.
	weights := []float64{60, 30, 10}
	rng := rand.New(rand.NewPCG(42, 0))

	const draws = 100000
	counts := make([]int, len(weights))
	for i := 0; i < draws; i++ {
		index, err := One(rng, weights)
		if err != nil {
			t.Fatalf("draw %d failed: %v", i, err)
		}
		counts[index]++
	}

	expected := []float64{0.60, 0.30, 0.10}
	for i, c := range counts {
		observed := float64(c) / draws
		if math.Abs(observed-expected[i]) > 0.02 {
			t.Errorf("card %d: observed frequency %.4f, expected %.2f ±0.02", i, observed, expected[i])
		}
	}
}

func TestWithoutReplacement(t *testing.T) {
	t.Run("returns exactly k distinct indexes", func(t *testing.T) {
		weights := []float64{5, 1, 1, 1, 10}
		rng := rand.New(rand.NewPCG(7, 0))
		selected, err := WithoutReplacement(rng, weights, 5)
		if err != nil {
			t.Fatalf("WithoutReplacement returned error: %v", err)
		}
		if len(selected) != 5 {
			t.Fatalf("expected 5 winners, got %d", len(selected))
		}
		seen := make(map[int]bool)
		for _, idx := range selected {
			if seen[idx] {
				t.Fatalf("index %d selected twice", idx)
			}
			seen[idx] = true
		}
	})

	t.Run("weights renormalize after removal", func(t *testing.T) {
		// First draw: point 0.5*100=50 lands on index 0 (weight 90).
		// Remaining total is 10; second point 0.5*10=5 lands on index 1.
		src := &scriptedSource{floats: []float64{0.5, 0.5}}
		selected, err := WithoutReplacement(src, []float64{90, 6, 4}, 2)
		if err != nil {
			t.Fatalf("WithoutReplacement returned error: %v", err)
		}
		if selected[0] != 0 || selected[1] != 1 {
			t.Fatalf("expected draw order [0 1], got %v", selected)
		}
	})

	t.Run("k larger than pool fails", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(1, 0))
		if _, err := WithoutReplacement(rng, []float64{1, 1}, 5); !errors.Is(err, ErrInsufficientCandidates) {
			t.Fatalf("expected ErrInsufficientCandidates, got %v", err)
		}
	})

	t.Run("exhausts zero-weight pool uniformly", func(t *testing.T) {
		src := &scriptedSource{ints: []int{0, 0, 0}}
		selected, err := WithoutReplacement(src, []float64{0, 0, 0}, 3)
		if err != nil {
			t.Fatalf("WithoutReplacement returned error: %v", err)
		}
		if len(selected) != 3 {
			t.Fatalf("expected 3 selections, got %d", len(selected))
		}
	})
}

func TestWithoutReplacementDeterminism(t *testing.T) {
	weights := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	first, err := WithoutReplacement(rand.New(rand.NewPCG(99, 1)), weights, 4)
	if err != nil {
		t.Fatalf("first draw failed: %v", err)
	}
	second, err := WithoutReplacement(rand.New(rand.NewPCG(99, 1)), weights, 4)
	if err != nil {
		t.Fatalf("second draw failed: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("seeded draws diverged: %v vs %v", first, second)
		}
	}
}
