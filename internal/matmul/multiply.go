// Package matmul multiplies dense matrices with two loop orders, each
// available sequentially or split across a bounded worker pool.
package matmul

import "github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matrix"

const (
	opMultiply                  = "Multiply"
	opMultiplyReordered         = "MultiplyReordered"
	opMultiplyParallel          = "MultiplyParallel"
	opMultiplyReorderedParallel = "MultiplyReorderedParallel"
)

// Multiply returns A×B computed with the i, j, k loop order.
//
// It fails with matrix.ErrNilInput if either operand is nil and with
// matrix.ErrShapeMismatch if A.C != B.R. Operands are never modified.
func Multiply[T matrix.Number](A, B *matrix.Mat[T]) (*matrix.Mat[T], error) {
	return multiplySeq(opMultiply, A, B, kernelNaive[T])
}

// MultiplyReordered returns A×B computed with the i, k, j loop order, which
// reads B row by row.
func MultiplyReordered[T matrix.Number](A, B *matrix.Mat[T]) (*matrix.Mat[T], error) {
	return multiplySeq(opMultiplyReordered, A, B, kernelReordered[T])
}

func multiplySeq[T matrix.Number](op string, A, B *matrix.Mat[T], kern kernel[T]) (*matrix.Mat[T], error) {
	if err := matrix.CheckProduct(op, A, B); err != nil {
		return nil, err
	}
	C, err := matrix.New[T](A.R, B.C)
	if err != nil {
		return nil, err
	}
	if C.Empty() {
		return C, nil
	}
	kern(C, A, B, 0, C.R, 0, C.C)
	return C, nil
}
