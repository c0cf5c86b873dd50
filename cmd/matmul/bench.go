package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/bench"
	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/logger"
	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matmul"
	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matrixio"
)

var shapeFlagNames = []string{"a-rows", "a-cols", "b-rows", "b-cols"}

func benchCmd() *cli.Command {
	var (
		dtype       string
		algorithm   string
		aRows       int64
		aCols       int64
		bRows       int64
		bCols       int64
		runs        int64
		warmup      int64
		seed        int64
		workers     int64
		format      string
		experiments string
		sweep       bool
	)

	flags := []cli.Flag{
		dtypeFlag(&dtype, string(matrixio.DTypeFloat)),
		algorithmFlag(&algorithm, matmul.Reordered.String()),
		&cli.Int64Flag{Name: "a-rows", Usage: "rows of A", Value: 200, Destination: &aRows},
		&cli.Int64Flag{Name: "a-cols", Usage: "columns of A", Value: 100, Destination: &aCols},
		&cli.Int64Flag{Name: "b-rows", Usage: "rows of B", Value: 100, Destination: &bRows},
		&cli.Int64Flag{Name: "b-cols", Usage: "columns of B", Value: 200, Destination: &bCols},
		&cli.Int64Flag{
			Name:        "runs",
			Usage:       "number of timed runs per entry point",
			Value:       1,
			Destination: &runs,
		},
		&cli.Int64Flag{
			Name:        "warmup",
			Usage:       "number of untimed warmup runs",
			Destination: &warmup,
		},
		&cli.Int64Flag{
			Name:        "seed",
			Usage:       "random seed for generated inputs (default: current time)",
			Destination: &seed,
		},
		&cli.Int64Flag{
			Name:        "workers",
			Aliases:     []string{"w"},
			Usage:       "worker count for the parallel form (0 = GOMAXPROCS, -1 = tune per shape)",
			Destination: &workers,
		},
		&cli.BoolFlag{
			Name:        "sweep",
			Usage:       "time the parallel form at several worker counts instead of comparing with sequential",
			Destination: &sweep,
		},
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"o"},
			Usage:       "report format (text, json)",
			Value:       "text",
			Destination: &format,
		},
		&cli.StringFlag{
			Name:        "experiments",
			Aliases:     []string{"f"},
			Usage:       "YAML file with a list of experiments",
			Destination: &experiments,
		},
	}

	return &cli.Command{
		Name:  "bench",
		Usage: "Time sequential against parallel multiplication and report the speed-up",
		Description: "Without shape flags or an experiments file, runs the default set: " +
			"a 300x300 int product and a 200x100 * 100x200 float product with each loop order.",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyBenchConfig(cmd, cfg, &workers, &seed, &runs, &warmup, &format)
			if !cmd.IsSet("seed") && cfg.Seed == nil {
				seed = time.Now().UnixNano()
			}

			var exps []bench.Experiment
			switch {
			case experiments != "":
				loaded, err := loadExperiments(experiments)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				exps = loaded
			case anySet(cmd, shapeFlagNames...) || cmd.IsSet("dtype") || cmd.IsSet("algorithm"):
				alg, err := matmul.ParseAlgorithm(algorithm)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				exps = []bench.Experiment{{
					DType:     matrixio.DType(dtype),
					Algorithm: alg,
					ARows:     int(aRows),
					ACols:     int(aCols),
					BRows:     int(bRows),
					BCols:     int(bCols),
				}}
			default:
				exps = bench.DefaultExperiments()
			}
			exps = withRunDefaults(exps, runSettings{
				runs:         int(runs),
				warmup:       int(warmup),
				workers:      int(workers),
				seed:         seed,
				forceRuns:    cmd.IsSet("runs") || cfg.Runs != nil,
				forceWarmup:  cmd.IsSet("warmup") || cfg.Warmup != nil,
				forceSeed:    cmd.IsSet("seed") || cfg.Seed != nil,
				forceWorkers: cmd.IsSet("workers") || cfg.Workers != nil,
			})

			log.Debug("running experiments", "count", len(exps), "seed", seed)
			if sweep {
				return runSweeps(ctx, os.Stdout, exps)
			}
			reports, err := bench.RunAll(ctx, exps)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			return writeReports(os.Stdout, reports, format)
		},
	}
}

// runSettings carries per-run values from flags and config. A forced value
// replaces what an experiment already has; otherwise it only fills zeros.
type runSettings struct {
	runs, warmup, workers int
	seed                  int64

	forceRuns, forceWarmup, forceSeed, forceWorkers bool
}

func withRunDefaults(exps []bench.Experiment, rs runSettings) []bench.Experiment {
	out := make([]bench.Experiment, len(exps))
	for i, e := range exps {
		if e.Runs == 0 || rs.forceRuns {
			e.Runs = rs.runs
		}
		if e.Warmup == 0 || rs.forceWarmup {
			e.Warmup = rs.warmup
		}
		if e.Seed == 0 || rs.forceSeed {
			e.Seed = rs.seed + int64(i)
		}
		if e.Workers == 0 || rs.forceWorkers {
			e.Workers = rs.workers
		}
		out[i] = e
	}
	return out
}

func runSweeps(ctx context.Context, w io.Writer, exps []bench.Experiment) error {
	tuner := bench.NewWorkerTuner()
	for _, exp := range exps {
		points, best, err := bench.Sweep(ctx, exp, nil, tuner)
		if err != nil {
			return cli.Exit(fmt.Sprintf("error: sweep %q: %v", exp.Name, err), 1)
		}
		if err := bench.WriteSweep(w, exp, points, best); err != nil {
			return err
		}
	}
	return nil
}

func anySet(cmd *cli.Command, names ...string) bool {
	for _, n := range names {
		if cmd.IsSet(n) {
			return true
		}
	}
	return false
}

func loadExperiments(path string) ([]bench.Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var exps []bench.Experiment
	if err := yaml.Unmarshal(data, &exps); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(exps) == 0 {
		return nil, fmt.Errorf("%s: no experiments", path)
	}
	return exps, nil
}

func writeReports(w io.Writer, reports []bench.Report, format string) error {
	switch format {
	case "json":
		return bench.WriteJSON(w, reports)
	case "text", "":
		return bench.WriteText(w, reports)
	}
	return cli.Exit(fmt.Sprintf("error: unknown report format %q", format), 1)
}
