// Package generate fills matrices with pseudo-random values drawn from a
// caller-supplied source.
package generate

import (
	"math/rand"

	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matrix"
)

// MaxValue is the exclusive upper bound of generated elements.
const MaxValue = 100

// Generator builds an r×c matrix from rng.
type Generator[T matrix.Number] func(rng *rand.Rand, r, c int) (*matrix.Mat[T], error)

// NewRand returns a source seeded with seed. Two sources with the same seed
// produce identical matrices.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Ints returns an r×c matrix of integers in [0, MaxValue).
func Ints(rng *rand.Rand, r, c int) (*matrix.Mat[int], error) {
	m, err := matrix.New[int](r, c)
	if err != nil {
		return nil, err
	}
	for i := range m.Data {
		m.Data[i] = rng.Intn(MaxValue)
	}
	return m, nil
}

// Floats returns an r×c matrix of float64 values in [0, MaxValue).
func Floats(rng *rand.Rand, r, c int) (*matrix.Mat[float64], error) {
	m, err := matrix.New[float64](r, c)
	if err != nil {
		return nil, err
	}
	for i := range m.Data {
		m.Data[i] = rng.Float64() * MaxValue
	}
	return m, nil
}
