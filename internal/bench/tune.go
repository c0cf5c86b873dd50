package bench

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/generate"
	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/logger"
	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matmul"
	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matrix"
	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matrixio"
)

// Shape keys tuned results: C is M×N, the shared dimension is K. Algorithm
// and DType are part of the key since loop order and element width change
// the best worker count.
type Shape struct {
	Algorithm matmul.Algorithm `json:"algorithm"`
	DType     matrixio.DType   `json:"dtype"`
	M         int              `json:"m"`
	K         int              `json:"k"`
	N         int              `json:"n"`
}

// Tuned is the best worker count seen for a shape. Score is multiply-adds
// per second.
type Tuned struct {
	Workers int     `json:"workers"`
	Score   float64 `json:"score"`
}

// SweepPoint is one measured worker count.
type SweepPoint struct {
	Workers int           `json:"workers"`
	Mean    time.Duration `json:"mean_ns"`
	Score   float64       `json:"score"`
}

// WorkerTuner remembers the fastest worker count per shape.
type WorkerTuner struct {
	mu    sync.RWMutex
	cache map[Shape]Tuned
}

func NewWorkerTuner() *WorkerTuner {
	return &WorkerTuner{
		cache: make(map[Shape]Tuned),
	}
}

// Lookup returns the cached result for shape, if any.
func (t *WorkerTuner) Lookup(shape Shape) (Tuned, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	tuned, ok := t.cache[shape]
	return tuned, ok
}

// Best scores base and its candidates with run and caches the winner. A
// cached shape is returned without running anything.
func (t *WorkerTuner) Best(shape Shape, base int, run func(workers int) float64) Tuned {
	if tuned, ok := t.Lookup(shape); ok {
		return tuned
	}

	best := Tuned{Workers: base, Score: run(base)}
	for _, w := range candidateWorkers(base, matmul.PoolSize()) {
		if w == base {
			continue
		}
		if score := run(w); score > best.Score {
			best = Tuned{Workers: w, Score: score}
		}
	}

	t.mu.Lock()
	t.cache[shape] = best
	t.mu.Unlock()
	return best
}

// Record stores tuned for shape unless a better score is already cached.
func (t *WorkerTuner) Record(shape Shape, tuned Tuned) Tuned {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cur, ok := t.cache[shape]; ok && cur.Score >= tuned.Score {
		return cur
	}
	t.cache[shape] = tuned
	return tuned
}

// candidateWorkers lists powers of two up to limit, plus base, half and
// double base, clamped to [1, limit].
func candidateWorkers(base, limit int) []int {
	if limit < 1 {
		limit = 1
	}
	out := []int{base, base / 2, base * 2}
	for w := 1; w <= limit; w *= 2 {
		out = append(out, w)
	}
	out = append(out, limit)
	out = lo.Map(out, func(w int, _ int) int { return min(max(w, 1), limit) })
	out = lo.Uniq(out)
	slices.Sort(out)
	return out
}

// Sweep times the parallel form of exp.Algorithm at each worker count on one
// pair of generated inputs, records the fastest in tuner, and returns every
// point measured. A nil or empty counts slice sweeps the default candidates.
func Sweep(ctx context.Context, exp Experiment, counts []int, tuner *WorkerTuner) ([]SweepPoint, Tuned, error) {
	if exp.Runs < 1 {
		exp.Runs = 1
	}
	dtype, err := matrixio.ParseDType(string(exp.DType))
	if err != nil {
		return nil, Tuned{}, err
	}
	exp.DType = dtype
	if len(counts) == 0 {
		counts = candidateWorkers(matmul.PoolSize(), matmul.PoolSize())
	}
	if tuner == nil {
		tuner = NewWorkerTuner()
	}
	log := logger.FromContext(ctx).With("sweep", exp.Algorithm.String())

	switch dtype {
	case matrixio.DTypeInt:
		return sweepTyped(ctx, log, exp, counts, tuner, generate.Ints)
	default:
		return sweepTyped(ctx, log, exp, counts, tuner, generate.Floats)
	}
}

func sweepTyped[T matrix.Number](
	ctx context.Context,
	log logger.Logger,
	exp Experiment,
	counts []int,
	tuner *WorkerTuner,
	gen generate.Generator[T],
) ([]SweepPoint, Tuned, error) {
	A, B, err := inputs(generate.NewRand(exp.Seed), exp, gen)
	if err != nil {
		return nil, Tuned{}, err
	}
	if err := matrix.CheckProduct("sweep", A, B); err != nil {
		return nil, Tuned{}, err
	}
	_, parAlg := exp.Algorithm.Pair()
	shape := Shape{Algorithm: parAlg, DType: exp.DType, M: A.R, K: A.C, N: B.C}
	flops := float64(shape.M) * float64(shape.K) * float64(shape.N)

	points := make([]SweepPoint, 0, len(counts))
	for _, w := range counts {
		fn, err := matmul.LookupN[T](parAlg, w)
		if err != nil {
			return nil, Tuned{}, err
		}
		runs, _, err := timeRuns(ctx, log, parAlg, fn, A, B, exp.Warmup, exp.Runs)
		if err != nil {
			return nil, Tuned{}, fmt.Errorf("workers %d: %w", w, err)
		}
		t := newTiming(parAlg, runs)
		points = append(points, SweepPoint{Workers: w, Mean: t.Mean, Score: score(flops, t.Mean)})
	}

	fastest := lo.MaxBy(points, func(a, b SweepPoint) bool { return a.Score > b.Score })
	best := tuner.Record(shape, Tuned{Workers: fastest.Workers, Score: fastest.Score})
	log.Info("sweep finished", "points", len(points), "best_workers", best.Workers)
	return points, best, nil
}

// tuneWorkers picks a worker count for A×B by timing one parallel run per
// candidate. Results are cached per shape, algorithm and dtype in tuner.
func tuneWorkers[T matrix.Number](
	log logger.Logger,
	tuner *WorkerTuner,
	alg matmul.Algorithm,
	dtype matrixio.DType,
	A, B *matrix.Mat[T],
) int {
	shape := Shape{Algorithm: alg, DType: dtype, M: A.R, K: A.C, N: B.C}
	flops := float64(shape.M) * float64(shape.K) * float64(shape.N)
	best := tuner.Best(shape, matmul.PoolSize(), func(workers int) float64 {
		fn, err := matmul.LookupN[T](alg, workers)
		if err != nil {
			return 0
		}
		start := time.Now()
		if _, err := fn(A, B); err != nil {
			return 0
		}
		return score(flops, time.Since(start))
	})
	log.Debug("tuned workers", "algorithm", alg, "dtype", dtype, "m", shape.M, "k", shape.K, "n", shape.N, "workers", best.Workers)
	return best.Workers
}

func score(flops float64, mean time.Duration) float64 {
	if mean <= 0 {
		return 0
	}
	return flops / mean.Seconds()
}
