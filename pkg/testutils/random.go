package testutils

import (
	"math/rand/v2"
	"testing"
)

// NewRand returns a PRNG seeded with Seed and logs the seed so failures can be replayed.
func NewRand(t *testing.T) *rand.Rand {
	t.Helper()
	t.Logf("to reproduce: TEST_SEED=%d", Seed)
	return rand.New(rand.NewPCG(Seed, Seed)) //nolint:gosec // weak RNG is fine for tests
}

// RandMapKey returns a random key from a map. Panics if the map is empty.
func RandMapKey[K comparable, V any](r *rand.Rand, m map[K]V) K {
	idx := r.IntN(len(m))
	for k := range m {
		if idx == 0 {
			return k
		}
		idx--
	}
	panic("unreachable")
}

// WeightedOp is a constraint for operation types that use their value as the weight.
type WeightedOp interface {
	~uint8 | ~uint16 | ~uint32 | ~int
}

// RandWeightedOp returns a random operation from a slice, using each op's value as its weight.
func RandWeightedOp[T WeightedOp](r *rand.Rand, ops []T) T {
	var total int
	for _, op := range ops {
		total += int(op)
	}

	pick := r.IntN(total)
	for _, op := range ops {
		if pick < int(op) {
			return op
		}
		pick -= int(op)
	}
	panic("unreachable")
}

// RandMap builds a random ASCII map of the given size with exactly one start cell. Walls are placed
// with probability 1/4 and the border is always walled.
func RandMap(r *rand.Rand, rows, cols int) string {
	startRow, startCol := 1+r.IntN(rows-2), 1+r.IntN(cols-2)

	b := make([]byte, 0, rows*(cols+1))
	for row := range rows {
		for col := range cols {
			switch {
			case row == startRow && col == startCol:
				b = append(b, '@')
			case row == 0 || col == 0 || row == rows-1 || col == cols-1:
				b = append(b, 'w')
			case r.IntN(4) == 0:
				b = append(b, 'w')
			default:
				b = append(b, '.')
			}
		}
		b = append(b, '\n')
	}
	return string(b)
}
