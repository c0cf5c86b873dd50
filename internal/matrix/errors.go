package matrix

import (
	"errors"
	"fmt"
)

var (
	// ErrNilInput is returned when an operand is absent.
	ErrNilInput = errors.New("matrix: nil input")

	// ErrShapeMismatch is returned when the inner dimensions of a product
	// disagree. Concrete errors are *ShapeError values that unwrap to it.
	ErrShapeMismatch = errors.New("matrix: shape mismatch")

	ErrNegativeDim = errors.New("matrix: negative dimension")
	ErrTooLarge    = errors.New("matrix: too large")
	ErrDataLength  = errors.New("matrix: data length mismatch")
	ErrRagged      = errors.New("matrix: rows have differing lengths")
)

// ShapeError describes an A(r1×c1) × B(r2×c2) product where c1 != r2.
type ShapeError struct {
	Op           string
	ARows, ACols int
	BRows, BCols int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: cannot multiply %dx%d by %dx%d: %v",
		e.Op, e.ARows, e.ACols, e.BRows, e.BCols, ErrShapeMismatch)
}

func (e *ShapeError) Unwrap() error { return ErrShapeMismatch }

// CheckProduct validates operands of A×B. Absent operands are reported before
// shape problems.
func CheckProduct[T Number](op string, a, b *Mat[T]) error {
	if a == nil || b == nil {
		return fmt.Errorf("%s: %w", op, ErrNilInput)
	}
	if a.C != b.R {
		return &ShapeError{Op: op, ARows: a.R, ACols: a.C, BRows: b.R, BCols: b.C}
	}
	return nil
}
