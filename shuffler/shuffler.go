// Package shuffler defines a tool for shuffling and sampling Tambola numbers in
// pseudo-random, seed-based ways.
package shuffler

import (
	"math/rand/v2"
	"slices"

	"github.com/Parkreiner/tambola"
)

// Shuffler provides methods for shuffling and sampling numbers using
// seed-based random logic. A Shuffler is not safe for concurrent use; the
// types that own one are expected to guard it with their own locks.
type Shuffler struct {
	rng *rand.Rand
}

// NewShuffler creates a new instance of a Shuffler. Two shufflers created with
// the same seed produce the exact same sequence of results.
func NewShuffler(rngSeed int64) *Shuffler {
	seed := uint64(rngSeed)
	return &Shuffler{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// ShuffleNumbers shuffles a slice of numbers in place using pseudo-random
// logic.
func (s *Shuffler) ShuffleNumbers(numbers []tambola.Number) {
	shuffle(s, numbers)
}

// ShuffleInts shuffles a slice of ints in place using pseudo-random logic.
func (s *Shuffler) ShuffleInts(values []int) {
	shuffle(s, values)
}

// Intn returns a uniform value in [0, n). Panics if n <= 0.
func (s *Shuffler) Intn(n int) int {
	return s.rng.IntN(n)
}

// IntInRange returns a uniform value in the inclusive range [lo, hi]
func (s *Shuffler) IntInRange(lo int, hi int) int {
	return lo + s.rng.IntN(hi-lo+1)
}

// Pick returns a uniformly chosen element from numbers, without modifying the
// slice. Returns false if the slice is empty.
func (s *Shuffler) Pick(numbers []tambola.Number) (tambola.Number, bool) {
	if len(numbers) == 0 {
		return tambola.Blank, false
	}
	return numbers[s.rng.IntN(len(numbers))], true
}

// Subset returns k distinct values chosen uniformly from [0, n), in
// ascending order. Every k-subset is equally likely.
func (s *Shuffler) Subset(n int, k int) []int {
	if k > n {
		k = n
	}
	positions := make([]int, n)
	for i := range positions {
		positions[i] = i
	}
	s.ShuffleInts(positions)

	chosen := positions[:k]
	slices.Sort(chosen)
	return chosen
}

func shuffle[T any](s *Shuffler, values []T) {
	for i := len(values) - 1; i >= 1; i-- {
		randomIndex := s.rng.IntN(i + 1)
		elementToSwap := values[i]
		values[i] = values[randomIndex]
		values[randomIndex] = elementToSwap
	}
}
