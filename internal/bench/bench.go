// Package bench times a sequential entry point against its parallel
// counterpart on generated inputs and reports the speed-up.
package bench

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/generate"
	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/logger"
	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matmul"
	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matrix"
	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matrixio"
)

// ErrResultsDiffer is returned when the sequential and parallel products
// disagree beyond rounding.
var ErrResultsDiffer = errors.New("bench: sequential and parallel results differ")

// AutoWorkers as Experiment.Workers picks the worker count by timing the
// candidates first. The choice is cached per shape for the process.
const AutoWorkers = -1

var defaultTuner = NewWorkerTuner()

// Experiment describes one sequential-versus-parallel comparison. Algorithm
// selects the loop order; its sequential and parallel forms are both timed.
type Experiment struct {
	Name      string           `json:"name" yaml:"name"`
	DType     matrixio.DType   `json:"dtype" yaml:"dtype"`
	Algorithm matmul.Algorithm `json:"algorithm" yaml:"algorithm"`
	ARows     int              `json:"a_rows" yaml:"a_rows"`
	ACols     int              `json:"a_cols" yaml:"a_cols"`
	BRows     int              `json:"b_rows" yaml:"b_rows"`
	BCols     int              `json:"b_cols" yaml:"b_cols"`
	Seed      int64            `json:"seed" yaml:"seed"`
	Runs      int              `json:"runs" yaml:"runs"`
	Warmup    int              `json:"warmup" yaml:"warmup"`
	Workers   int              `json:"workers" yaml:"workers"`
}

// DefaultExperiments mirrors the classic demo: a square int product and a
// rectangular float product with each loop order.
func DefaultExperiments() []Experiment {
	return []Experiment{
		{Name: "ints", DType: matrixio.DTypeInt, Algorithm: matmul.Naive, ARows: 300, ACols: 300, BRows: 300, BCols: 300, Runs: 1},
		{Name: "doubles", DType: matrixio.DTypeFloat, Algorithm: matmul.Naive, ARows: 200, ACols: 100, BRows: 100, BCols: 200, Runs: 1},
		{Name: "doubles reordered", DType: matrixio.DTypeFloat, Algorithm: matmul.Reordered, ARows: 200, ACols: 100, BRows: 100, BCols: 200, Runs: 1},
	}
}

// Timing is the measurement of one entry point.
type Timing struct {
	Algorithm matmul.Algorithm `json:"algorithm"`
	Runs      []time.Duration  `json:"runs_ns"`
	Mean      time.Duration    `json:"mean_ns"`
	Min       time.Duration    `json:"min_ns"`
}

// MeanMillis is Mean in fractional milliseconds.
func (t Timing) MeanMillis() float64 { return float64(t.Mean) / float64(time.Millisecond) }

func newTiming(alg matmul.Algorithm, runs []time.Duration) Timing {
	t := Timing{Algorithm: alg, Runs: runs}
	if len(runs) > 0 {
		t.Mean = lo.Sum(runs) / time.Duration(len(runs))
		t.Min = lo.Min(runs)
	}
	return t
}

// Report is the outcome of one experiment.
type Report struct {
	ID         string     `json:"id"`
	Experiment Experiment `json:"experiment"`
	Host       Host       `json:"host"`
	StartedAt  time.Time  `json:"started_at"`
	Sequential Timing     `json:"sequential"`
	Parallel   Timing     `json:"parallel"`
	// Speedup is Sequential.Mean / Parallel.Mean; zero when the parallel
	// mean rounds to nothing.
	Speedup        float64 `json:"speedup"`
	SpeedupPercent float64 `json:"speedup_percent"`
	MaxAbsDiff     float64 `json:"max_abs_diff"`
}

// Run executes exp. Cancellation is honoured between runs, never inside a
// multiplication.
func Run(ctx context.Context, exp Experiment) (Report, error) {
	if exp.Runs < 1 {
		exp.Runs = 1
	}
	if exp.Warmup < 0 {
		exp.Warmup = 0
	}
	dtype, err := matrixio.ParseDType(string(exp.DType))
	if err != nil {
		return Report{}, err
	}
	exp.DType = dtype
	if exp.Name == "" {
		exp.Name = fmt.Sprintf("%s %s", exp.DType, exp.Algorithm)
	}

	log := logger.FromContext(ctx).With("experiment", exp.Name)
	rep := Report{
		ID:         "run_" + uuid.NewString(),
		Experiment: exp,
		Host:       CurrentHost(),
		StartedAt:  time.Now().UTC(),
	}

	switch dtype {
	case matrixio.DTypeInt:
		err = runTyped(ctx, log, &rep, generate.Ints)
	default:
		err = runTyped(ctx, log, &rep, generate.Floats)
	}
	if err != nil {
		return Report{}, err
	}

	if rep.Parallel.Mean > 0 {
		rep.Speedup = float64(rep.Sequential.Mean) / float64(rep.Parallel.Mean)
		rep.SpeedupPercent = (rep.Speedup - 1) * 100
	}
	log.Info("experiment finished",
		"sequential", rep.Sequential.Mean,
		"parallel", rep.Parallel.Mean,
		"speedup", fmt.Sprintf("%.2fx", rep.Speedup),
	)
	return rep, nil
}

// RunAll runs each experiment in order and stops at the first failure.
func RunAll(ctx context.Context, exps []Experiment) ([]Report, error) {
	reports := make([]Report, 0, len(exps))
	for _, exp := range exps {
		rep, err := Run(ctx, exp)
		if err != nil {
			return reports, fmt.Errorf("experiment %q: %w", exp.Name, err)
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

func runTyped[T matrix.Number](ctx context.Context, log logger.Logger, rep *Report, gen generate.Generator[T]) error {
	exp := rep.Experiment
	rng := generate.NewRand(exp.Seed)
	A, B, err := inputs(rng, exp, gen)
	if err != nil {
		return err
	}
	if err := matrix.CheckProduct("bench", A, B); err != nil {
		return err
	}

	seqAlg, parAlg := exp.Algorithm.Pair()
	if exp.Workers == AutoWorkers {
		exp.Workers = tuneWorkers(log, defaultTuner, parAlg, exp.DType, A, B)
		rep.Experiment.Workers = exp.Workers
	}
	seq, err := matmul.LookupN[T](seqAlg, exp.Workers)
	if err != nil {
		return err
	}
	par, err := matmul.LookupN[T](parAlg, exp.Workers)
	if err != nil {
		return err
	}

	seqRuns, seqOut, err := timeRuns(ctx, log, seqAlg, seq, A, B, exp.Warmup, exp.Runs)
	if err != nil {
		return err
	}
	parRuns, parOut, err := timeRuns(ctx, log, parAlg, par, A, B, exp.Warmup, exp.Runs)
	if err != nil {
		return err
	}

	rep.Sequential = newTiming(seqAlg, seqRuns)
	rep.Parallel = newTiming(parAlg, parRuns)
	rep.MaxAbsDiff = matrix.MaxAbsDiff(seqOut, parOut)
	if rep.MaxAbsDiff > tolerance(seqOut) {
		return fmt.Errorf("%w: max abs diff %g", ErrResultsDiffer, rep.MaxAbsDiff)
	}
	return nil
}

func inputs[T matrix.Number](rng *rand.Rand, exp Experiment, gen generate.Generator[T]) (*matrix.Mat[T], *matrix.Mat[T], error) {
	A, err := gen(rng, exp.ARows, exp.ACols)
	if err != nil {
		return nil, nil, fmt.Errorf("generate A: %w", err)
	}
	B, err := gen(rng, exp.BRows, exp.BCols)
	if err != nil {
		return nil, nil, fmt.Errorf("generate B: %w", err)
	}
	return A, B, nil
}

func timeRuns[T matrix.Number](
	ctx context.Context,
	log logger.Logger,
	alg matmul.Algorithm,
	fn matmul.Func[T],
	A, B *matrix.Mat[T],
	warmup, runs int,
) ([]time.Duration, *matrix.Mat[T], error) {
	var out *matrix.Mat[T]
	for i := range warmup {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		log.Debug("warmup run", "algorithm", alg, "run", i+1)
		if _, err := fn(A, B); err != nil {
			return nil, nil, err
		}
	}
	durations := make([]time.Duration, 0, runs)
	for i := range runs {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		start := time.Now()
		C, err := fn(A, B)
		elapsed := time.Since(start)
		if err != nil {
			return nil, nil, err
		}
		log.Debug("timed run", "algorithm", alg, "run", i+1, "elapsed", elapsed)
		durations = append(durations, elapsed)
		out = C
	}
	return durations, out, nil
}

// tolerance scales 1e-7 by the largest magnitude so large float products,
// whose rounding grows with their size, still compare cleanly.
func tolerance[T matrix.Number](m *matrix.Mat[T]) float64 {
	scale := 1.0
	for _, v := range m.Data {
		scale = math.Max(scale, math.Abs(float64(v)))
	}
	return 1e-7 * scale
}
