package matmul

import "github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matrix"

// kernel computes C[i][j] for i in [rs, re) and j in [cs, ce). C must be
// zeroed over that block. Kernels write nothing outside it, which is what
// lets disjoint blocks run concurrently without locks.
type kernel[T matrix.Number] func(C, A, B *matrix.Mat[T], rs, re, cs, ce int)

// kernelNaive iterates i, j, k. The innermost loop walks a column of B.
func kernelNaive[T matrix.Number](C, A, B *matrix.Mat[T], rs, re, cs, ce int) {
	k := A.C
	aStride := A.Stride
	bStride := B.Stride
	cStride := C.Stride
	aData := A.Data
	bData := B.Data
	cData := C.Data

	for i := rs; i < re; i++ {
		aRow := aData[i*aStride : i*aStride+k]
		cRow := cData[i*cStride+cs : i*cStride+ce]
		for j := range cRow {
			col := cs + j
			var sum T
			for kk, aik := range aRow {
				sum += aik * bData[kk*bStride+col]
			}
			cRow[j] = sum
		}
	}
}

// kernelReordered iterates i, k, j. The innermost loop walks a row of B and
// a row of C, both contiguous in memory.
func kernelReordered[T matrix.Number](C, A, B *matrix.Mat[T], rs, re, cs, ce int) {
	k := A.C
	aStride := A.Stride
	bStride := B.Stride
	cStride := C.Stride
	aData := A.Data
	bData := B.Data
	cData := C.Data
	width := ce - cs

	for i := rs; i < re; i++ {
		aRow := aData[i*aStride : i*aStride+k]
		cRow := cData[i*cStride+cs : i*cStride+ce]
		for kk, aik := range aRow {
			bOff := kk*bStride + cs
			bRow := bData[bOff : bOff+width]

			j := 0
			for ; j+3 < width; j += 4 {
				cRow[j+0] += aik * bRow[j+0]
				cRow[j+1] += aik * bRow[j+1]
				cRow[j+2] += aik * bRow[j+2]
				cRow[j+3] += aik * bRow[j+3]
			}
			for ; j < width; j++ {
				cRow[j] += aik * bRow[j]
			}
		}
	}
}
