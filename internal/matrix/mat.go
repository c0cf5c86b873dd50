// Package matrix holds the dense row-major container shared by the
// multiplication kernels, the generators and the document codecs.
package matrix

import "math"

// Number is the closed set of element types a Mat can hold. Arithmetic is
// resolved at compile time for each instantiation.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Mat represents a dense row-major matrix.
//
// R and C are the number of rows and columns. Stride is the number of elements
// between the starts of two consecutive rows and always equals C for matrices
// built by this package. Data holds the flattened values.
type Mat[T Number] struct {
	R, C   int
	Stride int
	Data   []T
}

// New allocates a zero-initialised r×c matrix.
func New[T Number](r, c int) (*Mat[T], error) {
	if r < 0 || c < 0 {
		return nil, ErrNegativeDim
	}
	n := r * c
	if r != 0 && n/r != c {
		return nil, ErrTooLarge
	}
	return &Mat[T]{
		R:      r,
		C:      c,
		Stride: c,
		Data:   make([]T, n),
	}, nil
}

// MustNew is New for dimensions already known to be valid.
func MustNew[T Number](r, c int) *Mat[T] {
	m, err := New[T](r, c)
	if err != nil {
		panic(err)
	}
	return m
}

// FromData wraps existing row-major data. The slice is not copied.
func FromData[T Number](r, c int, data []T) (*Mat[T], error) {
	if r < 0 || c < 0 {
		return nil, ErrNegativeDim
	}
	if r*c != len(data) {
		return nil, ErrDataLength
	}
	return &Mat[T]{R: r, C: c, Stride: c, Data: data}, nil
}

// FromRows copies a slice of rows into a new matrix. An empty slice gives a
// 0×0 matrix; rows of differing length are rejected.
func FromRows[T Number](rows [][]T) (*Mat[T], error) {
	if len(rows) == 0 {
		return MustNew[T](0, 0), nil
	}
	c := len(rows[0])
	m, err := New[T](len(rows), c)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != c {
			return nil, ErrRagged
		}
		copy(m.Data[i*m.Stride:], row)
	}
	return m, nil
}

// Identity returns the n×n identity matrix.
func Identity[T Number](n int) (*Mat[T], error) {
	m, err := New[T](n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		m.Data[i*m.Stride+i] = 1
	}
	return m, nil
}

// Shape returns (rows, cols).
func (m *Mat[T]) Shape() (int, int) { return m.R, m.C }

// Empty reports whether the matrix has no elements.
func (m *Mat[T]) Empty() bool { return m.R == 0 || m.C == 0 }

// At returns the element at (i, j). Out-of-range indices panic.
func (m *Mat[T]) At(i, j int) T {
	m.checkIndex(i, j)
	return m.Data[i*m.Stride+j]
}

// Set stores v at (i, j). Out-of-range indices panic.
func (m *Mat[T]) Set(i, j int, v T) {
	m.checkIndex(i, j)
	m.Data[i*m.Stride+j] = v
}

// Row returns a view of the i-th row. Writes to the slice update the matrix.
func (m *Mat[T]) Row(i int) []T {
	if i < 0 || i >= m.R {
		panic("row index out of range")
	}
	start := i * m.Stride
	return m.Data[start : start+m.C]
}

// Rows returns a deep copy of the matrix as a slice of rows.
func (m *Mat[T]) Rows() [][]T {
	out := make([][]T, m.R)
	for i := range out {
		out[i] = append([]T(nil), m.Row(i)...)
	}
	return out
}

func (m *Mat[T]) checkIndex(i, j int) {
	if i < 0 || i >= m.R || j < 0 || j >= m.C {
		panic("matrix index out of range")
	}
}

// Equal reports whether a and b have the same shape and identical elements.
func Equal[T Number](a, b *Mat[T]) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.R != b.R || a.C != b.C {
		return false
	}
	for i := 0; i < a.R; i++ {
		ra, rb := a.Row(i), b.Row(i)
		for j := range ra {
			if ra[j] != rb[j] {
				return false
			}
		}
	}
	return true
}

// ApproxEqual is Equal with an absolute tolerance per element.
func ApproxEqual[T Number](a, b *Mat[T], tol float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.R != b.R || a.C != b.C {
		return false
	}
	return MaxAbsDiff(a, b) <= tol
}

// MaxAbsDiff returns the largest absolute element-wise difference of two
// equally shaped matrices.
func MaxAbsDiff[T Number](a, b *Mat[T]) float64 {
	var maxAbs float64
	for i := 0; i < a.R; i++ {
		ra, rb := a.Row(i), b.Row(i)
		for j := range ra {
			d := math.Abs(float64(ra[j]) - float64(rb[j]))
			if d > maxAbs {
				maxAbs = d
			}
		}
	}
	return maxAbs
}
