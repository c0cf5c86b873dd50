package matmul

import (
	"runtime"

	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matrix"
)

// Chunk is the half-open index range [Lo, Hi).
type Chunk struct {
	Lo, Hi int
}

// Len returns the number of indices in the chunk.
func (c Chunk) Len() int { return c.Hi - c.Lo }

// Split divides [0, total) into exactly parts contiguous chunks of
// total/parts indices each. The last chunk also takes the remainder, so the
// chunk sizes always sum to total. Chunks may be empty when parts > total.
func Split(total, parts int) []Chunk {
	if parts < 1 {
		parts = 1
	}
	if total < 0 {
		total = 0
	}
	size := total / parts
	chunks := make([]Chunk, parts)
	for p := range chunks {
		lo := p * size
		hi := lo + size
		if p == parts-1 {
			hi = total
		}
		chunks[p] = Chunk{Lo: lo, Hi: hi}
	}
	return chunks
}

// MultiplyParallel is Multiply with the output split across GOMAXPROCS workers.
func MultiplyParallel[T matrix.Number](A, B *matrix.Mat[T]) (*matrix.Mat[T], error) {
	return multiplyPar(defaultPool, opMultiplyParallel, A, B, 0, kernelNaive[T])
}

// MultiplyReorderedParallel is MultiplyReordered with the output split across
// GOMAXPROCS workers.
func MultiplyReorderedParallel[T matrix.Number](A, B *matrix.Mat[T]) (*matrix.Mat[T], error) {
	return multiplyPar(defaultPool, opMultiplyReorderedParallel, A, B, 0, kernelReordered[T])
}

// MultiplyParallelN is MultiplyParallel with an explicit worker count.
// workers <= 0 selects GOMAXPROCS; larger values are capped by the pool size.
func MultiplyParallelN[T matrix.Number](A, B *matrix.Mat[T], workers int) (*matrix.Mat[T], error) {
	return multiplyPar(defaultPool, opMultiplyParallel, A, B, workers, kernelNaive[T])
}

// MultiplyReorderedParallelN is MultiplyReorderedParallel with an explicit
// worker count.
func MultiplyReorderedParallelN[T matrix.Number](A, B *matrix.Mat[T], workers int) (*matrix.Mat[T], error) {
	return multiplyPar(defaultPool, opMultiplyReorderedParallel, A, B, workers, kernelReordered[T])
}

// multiplyPar splits the larger output dimension: rows when C.R > C.C,
// columns otherwise. Both loop orders keep the shared dimension whole, so
// every output cell is written by exactly one chunk. Work runs on pool.
func multiplyPar[T matrix.Number](pool *workPool, op string, A, B *matrix.Mat[T], workers int, kern kernel[T]) (*matrix.Mat[T], error) {
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

	byRows := C.R > C.C
	total := C.C
	if byRows {
		total = C.R
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, total, pool.size)
	if workers <= 1 {
		kern(C, A, B, 0, C.R, 0, C.C)
		return C, nil
	}

	chunks := Split(total, workers)
	fns := make([]func(), 0, len(chunks))
	for _, ch := range chunks {
		if ch.Len() == 0 {
			continue
		}
		if byRows {
			fns = append(fns, func() { kern(C, A, B, ch.Lo, ch.Hi, 0, C.C) })
		} else {
			fns = append(fns, func() { kern(C, A, B, 0, C.R, ch.Lo, ch.Hi) })
		}
	}
	pool.run(fns)
	return C, nil
}
