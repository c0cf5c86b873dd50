package matmul

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matrix"
)

const floatTol = 1e-7

func entryPoints[T matrix.Number]() map[string]Func[T] {
	return map[string]Func[T]{
		"naive":              Multiply[T],
		"reordered":          MultiplyReordered[T],
		"naive-parallel":     MultiplyParallel[T],
		"reordered-parallel": MultiplyReorderedParallel[T],
	}
}

func mustRows[T matrix.Number](t *testing.T, rows [][]T) *matrix.Mat[T] {
	t.Helper()
	m, err := matrix.FromRows(rows)
	require.NoError(t, err)
	return m
}

func randInts(rng *rand.Rand, r, c int) *matrix.Mat[int] {
	m := matrix.MustNew[int](r, c)
	for i := range m.Data {
		m.Data[i] = rng.Intn(100)
	}
	return m
}

func randFloats(rng *rand.Rand, r, c int) *matrix.Mat[float64] {
	m := matrix.MustNew[float64](r, c)
	for i := range m.Data {
		m.Data[i] = rng.Float64() * 100
	}
	return m
}

// reference uses a plain triple loop over At so it shares no code with the kernels.
func reference[T matrix.Number](A, B *matrix.Mat[T]) *matrix.Mat[T] {
	C := matrix.MustNew[T](A.R, B.C)
	for i := 0; i < A.R; i++ {
		for j := 0; j < B.C; j++ {
			var sum T
			for k := 0; k < A.C; k++ {
				sum += A.At(i, k) * B.At(k, j)
			}
			C.Set(i, j, sum)
		}
	}
	return C
}

func TestSquareInts(t *testing.T) {
	t.Parallel()
	A := mustRows(t, [][]int{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	B := mustRows(t, [][]int{{1, 0}, {1, 1}, {0, 1}})
	want := mustRows(t, [][]int{{3, 5}, {9, 11}, {15, 17}})

	for name, fn := range entryPoints[int]() {
		t.Run(name, func(t *testing.T) {
			got, err := fn(A, B)
			require.NoError(t, err)
			require.True(t, matrix.Equal(want, got), "got %v", got.Rows())
		})
	}
}

func TestRectangularInts(t *testing.T) {
	t.Parallel()
	A := mustRows(t, [][]int{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	B := mustRows(t, [][]int{{1, 0, 1, 2}, {1, 1, 3, 4}, {0, 1, 3, 1}})
	want := mustRows(t, [][]int{{3, 5, 16, 13}, {9, 11, 37, 34}, {15, 17, 58, 55}})

	for name, fn := range entryPoints[int]() {
		t.Run(name, func(t *testing.T) {
			got, err := fn(A, B)
			require.NoError(t, err)
			require.True(t, matrix.Equal(want, got), "got %v", got.Rows())
		})
	}
}

func TestDoublesWithinTolerance(t *testing.T) {
	t.Parallel()
	A := mustRows(t, [][]float64{{2.1, 3.2}, {4.4, 0.3}})
	B := mustRows(t, [][]float64{{0.2, 0.1}, {1.2, 0.21}})
	want := mustRows(t, [][]float64{{4.26, 0.882}, {1.24, 0.503}})

	for name, fn := range entryPoints[float64]() {
		t.Run(name, func(t *testing.T) {
			got, err := fn(A, B)
			require.NoError(t, err)
			require.True(t, matrix.ApproxEqual(want, got, floatTol),
				"max abs diff %g", matrix.MaxAbsDiff(want, got))
		})
	}
}

func TestEntryPointsAgreeInts(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(1))
	shapes := [][3]int{
		{1, 1, 1}, {1, 7, 1}, {7, 1, 7}, {5, 3, 9}, {9, 3, 5},
		{17, 31, 13}, {64, 64, 64}, {100, 3, 2}, {2, 3, 100},
	}
	for _, s := range shapes {
		t.Run(fmt.Sprintf("%dx%dx%d", s[0], s[1], s[2]), func(t *testing.T) {
			A := randInts(rng, s[0], s[1])
			B := randInts(rng, s[1], s[2])
			want := reference(A, B)
			for name, fn := range entryPoints[int]() {
				got, err := fn(A, B)
				require.NoError(t, err, name)
				require.Equal(t, s[0], got.R, name)
				require.Equal(t, s[2], got.C, name)
				require.True(t, matrix.Equal(want, got), name)
			}
		})
	}
}

func TestEntryPointsAgreeFloats(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(2))
	shapes := [][3]int{{3, 5, 7}, {40, 20, 10}, {10, 20, 40}, {33, 33, 33}}
	for _, s := range shapes {
		t.Run(fmt.Sprintf("%dx%dx%d", s[0], s[1], s[2]), func(t *testing.T) {
			// Small values keep the products well inside float64 precision.
			A := randFloats(rng, s[0], s[1])
			B := randFloats(rng, s[1], s[2])
			for i := range A.Data {
				A.Data[i] /= 100
			}
			for i := range B.Data {
				B.Data[i] /= 100
			}
			want := reference(A, B)
			for name, fn := range entryPoints[float64]() {
				got, err := fn(A, B)
				require.NoError(t, err, name)
				require.True(t, matrix.ApproxEqual(want, got, floatTol),
					"%s: max abs diff %g", name, matrix.MaxAbsDiff(want, got))
			}
		})
	}
}

func TestIdentity(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(3))
	A := randFloats(rng, 6, 4)
	left, err := matrix.Identity[float64](6)
	require.NoError(t, err)
	right, err := matrix.Identity[float64](4)
	require.NoError(t, err)

	for name, fn := range entryPoints[float64]() {
		got, err := fn(left, A)
		require.NoError(t, err, name)
		require.True(t, matrix.ApproxEqual(A, got, floatTol), name)

		got, err = fn(A, right)
		require.NoError(t, err, name)
		require.True(t, matrix.ApproxEqual(A, got, floatTol), name)
	}
}

func TestZeroDimensions(t *testing.T) {
	t.Parallel()
	for name, fn := range entryPoints[int]() {
		t.Run(name, func(t *testing.T) {
			got, err := fn(matrix.MustNew[int](0, 0), matrix.MustNew[int](0, 0))
			require.NoError(t, err)
			require.Equal(t, 0, got.R)
			require.Equal(t, 0, got.C)

			got, err = fn(matrix.MustNew[int](3, 0), matrix.MustNew[int](0, 4))
			require.NoError(t, err)
			require.Equal(t, 3, got.R)
			require.Equal(t, 4, got.C)
			for _, v := range got.Data {
				require.Zero(t, v)
			}

			got, err = fn(matrix.MustNew[int](0, 5), matrix.MustNew[int](5, 2))
			require.NoError(t, err)
			require.True(t, got.Empty())
		})
	}
}

func TestNilInput(t *testing.T) {
	t.Parallel()
	m := matrix.MustNew[float64](2, 2)
	for name, fn := range entryPoints[float64]() {
		t.Run(name, func(t *testing.T) {
			got, err := fn(nil, m)
			require.ErrorIs(t, err, matrix.ErrNilInput)
			require.Nil(t, got)

			got, err = fn(m, nil)
			require.ErrorIs(t, err, matrix.ErrNilInput)
			require.Nil(t, got)
		})
	}
}

func TestShapeMismatch(t *testing.T) {
	t.Parallel()
	A := matrix.MustNew[int](2, 3)
	B := matrix.MustNew[int](4, 2)
	for name, fn := range entryPoints[int]() {
		t.Run(name, func(t *testing.T) {
			got, err := fn(A, B)
			require.ErrorIs(t, err, matrix.ErrShapeMismatch)
			require.Nil(t, got)
		})
	}
}

func TestInputsNotMutated(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(4))
	A := randInts(rng, 12, 9)
	B := randInts(rng, 9, 15)
	aCopy := append([]int(nil), A.Data...)
	bCopy := append([]int(nil), B.Data...)

	for name, fn := range entryPoints[int]() {
		_, err := fn(A, B)
		require.NoError(t, err, name)
		require.Equal(t, aCopy, A.Data, name)
		require.Equal(t, bCopy, B.Data, name)
	}
}

type celsius float64

func TestNamedElementType(t *testing.T) {
	t.Parallel()
	A := mustRows(t, [][]celsius{{1.5, 2}, {0, 1}})
	B := mustRows(t, [][]celsius{{2, 0}, {1, 3}})
	want := mustRows(t, [][]celsius{{5, 6}, {1, 3}})
	for name, fn := range entryPoints[celsius]() {
		got, err := fn(A, B)
		require.NoError(t, err, name)
		require.True(t, matrix.Equal(want, got), name)
	}
}

func TestIntegerOverflowWraps(t *testing.T) {
	t.Parallel()
	A := mustRows(t, [][]int32{{1 << 30, 1 << 30}})
	B := mustRows(t, [][]int32{{2}, {2}})
	for name, fn := range entryPoints[int32]() {
		got, err := fn(A, B)
		require.NoError(t, err, name)
		// 2^31 + 2^31 wraps to 0 in int32.
		require.Equal(t, int32(0), got.At(0, 0), name)
	}
}
