// Package dice provides the random source used by the breeding simulation.
//
// The grid engine only needs two capabilities: a uniform integer in [0, n) and an
// unbiased shuffle. [*rand.Rand] from math/rand/v2 satisfies [Source] directly, and
// [Scripted] replays fixed answers for deterministic tests.
package dice

import "math/rand/v2"

type Source interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// New returns an independent PCG stream. Runs of one batch share the seed and
// differ by stream so their draws are uncorrelated.
func New(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// Pick returns a uniformly chosen element, or false when items is empty.
// It consumes a draw only when there is something to choose from.
func Pick[T any](src Source, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[src.IntN(len(items))], true
}
