package matmul

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matrix"
)

func TestParseAlgorithm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Algorithm
	}{
		{"naive", Naive},
		{"Reordered", Reordered},
		{" naive-parallel ", NaiveParallel},
		{"reordered_parallel", ReorderedParallel},
		{"smart", Reordered},
		{"smart-parallel", ReorderedParallel},
	}
	for _, tc := range tests {
		got, err := ParseAlgorithm(tc.input)
		require.NoError(t, err, tc.input)
		require.Equal(t, tc.want, got, tc.input)
	}

	_, err := ParseAlgorithm("strassen")
	require.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestAlgorithmStringRoundTrip(t *testing.T) {
	t.Parallel()
	for _, alg := range Algorithms() {
		got, err := ParseAlgorithm(alg.String())
		require.NoError(t, err)
		require.Equal(t, alg, got)
	}
	require.Equal(t, "Algorithm(9)", Algorithm(9).String())
}

func TestAlgorithmPair(t *testing.T) {
	t.Parallel()
	seq, par := NaiveParallel.Pair()
	require.Equal(t, Naive, seq)
	require.Equal(t, NaiveParallel, par)
	seq, par = Reordered.Pair()
	require.Equal(t, Reordered, seq)
	require.Equal(t, ReorderedParallel, par)
	require.False(t, Reordered.Parallel())
	require.True(t, ReorderedParallel.Parallel())
}

func TestLookup(t *testing.T) {
	t.Parallel()
	A, _ := matrix.FromRows([][]int{{1, 2}, {3, 4}})
	want, _ := matrix.FromRows([][]int{{7, 10}, {15, 22}})

	for _, alg := range Algorithms() {
		fn, err := Lookup[int](alg)
		require.NoError(t, err)
		got, err := fn(A, A)
		require.NoError(t, err)
		require.True(t, matrix.Equal(want, got), alg.String())

		fn, err = LookupN[int](alg, 2)
		require.NoError(t, err)
		got, err = fn(A, A)
		require.NoError(t, err)
		require.True(t, matrix.Equal(want, got), alg.String())
	}

	_, err := Lookup[int](Algorithm(42))
	require.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestAlgorithmText(t *testing.T) {
	t.Parallel()
	b, err := ReorderedParallel.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "reordered-parallel", string(b))

	var alg Algorithm
	require.NoError(t, alg.UnmarshalText([]byte("smart")))
	require.Equal(t, Reordered, alg)
	require.ErrorIs(t, alg.UnmarshalText([]byte("bogus")), ErrUnknownAlgorithm)

	_, err = Algorithm(-1).MarshalText()
	require.ErrorIs(t, err, ErrUnknownAlgorithm)
}
