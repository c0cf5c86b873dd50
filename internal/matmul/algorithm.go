package matmul

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matrix"
)

// ErrUnknownAlgorithm is returned for names ParseAlgorithm does not know.
var ErrUnknownAlgorithm = errors.New("matmul: unknown algorithm")

// Algorithm names one of the four entry points.
type Algorithm int

const (
	Naive Algorithm = iota
	Reordered
	NaiveParallel
	ReorderedParallel
)

var algorithmNames = [...]string{
	Naive:             "naive",
	Reordered:         "reordered",
	NaiveParallel:     "naive-parallel",
	ReorderedParallel: "reordered-parallel",
}

func (a Algorithm) String() string {
	if a < 0 || int(a) >= len(algorithmNames) {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
	return algorithmNames[a]
}

// Parallel reports whether a dispatches work to the pool.
func (a Algorithm) Parallel() bool { return a == NaiveParallel || a == ReorderedParallel }

// Pair returns the sequential and parallel algorithms sharing a's loop order.
func (a Algorithm) Pair() (seq, par Algorithm) {
	switch a {
	case Reordered, ReorderedParallel:
		return Reordered, ReorderedParallel
	default:
		return Naive, NaiveParallel
	}
}

// Algorithms lists every algorithm in declaration order.
func Algorithms() []Algorithm {
	return []Algorithm{Naive, Reordered, NaiveParallel, ReorderedParallel}
}

// ParseAlgorithm accepts the names printed by String, case-insensitively.
// "smart" is accepted as an alias of the reordered loop order.
func ParseAlgorithm(s string) (Algorithm, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.ReplaceAll(name, "_", "-")
	name = strings.Replace(name, "smart", "reordered", 1)
	for i, n := range algorithmNames {
		if n == name {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

func (a Algorithm) MarshalText() ([]byte, error) {
	if a < 0 || int(a) >= len(algorithmNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(a))
	}
	return []byte(algorithmNames[a]), nil
}

func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Func is the common signature of the four entry points.
type Func[T matrix.Number] func(A, B *matrix.Mat[T]) (*matrix.Mat[T], error)

// Lookup returns the entry point for alg.
func Lookup[T matrix.Number](alg Algorithm) (Func[T], error) {
	switch alg {
	case Naive:
		return Multiply[T], nil
	case Reordered:
		return MultiplyReordered[T], nil
	case NaiveParallel:
		return MultiplyParallel[T], nil
	case ReorderedParallel:
		return MultiplyReorderedParallel[T], nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownAlgorithm, alg)
}

// LookupN is Lookup with an explicit worker count for the parallel entry
// points. Sequential algorithms ignore workers.
func LookupN[T matrix.Number](alg Algorithm, workers int) (Func[T], error) {
	switch alg {
	case NaiveParallel:
		return func(A, B *matrix.Mat[T]) (*matrix.Mat[T], error) {
			return MultiplyParallelN(A, B, workers)
		}, nil
	case ReorderedParallel:
		return func(A, B *matrix.Mat[T]) (*matrix.Mat[T], error) {
			return MultiplyReorderedParallelN(A, B, workers)
		}, nil
	}
	return Lookup[T](alg)
}
