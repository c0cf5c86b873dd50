package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/logger"
	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matmul"
	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matrix"
	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matrixio"
)

func multiplyCmd() *cli.Command {
	var (
		algorithm string
		dtype     string
		workers   int64
		format    string
		outPath   string
	)

	return &cli.Command{
		Name:      "multiply",
		Aliases:   []string{"mul"},
		Usage:     "Multiply two matrix documents (JSON or YAML) and print the product",
		ArgsUsage: "<a.json|a.yaml> <b.json|b.yaml>",
		Flags: []cli.Flag{
			algorithmFlag(&algorithm, matmul.ReorderedParallel.String()),
			dtypeFlag(&dtype, ""),
			workersFlag(&workers),
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"o"},
				Usage:       "output format (text, json, yaml)",
				Value:       "text",
				Destination: &format,
			},
			&cli.StringFlag{
				Name:        "out",
				Usage:       "write the product to this file instead of stdout",
				Destination: &outPath,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyMultiplyConfig(cmd, cfg, &workers, &format)

			if cmd.Args().Len() != 2 {
				return cli.Exit("error: multiply needs exactly two input files", 1)
			}
			alg, err := matmul.ParseAlgorithm(algorithm)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			docA, docB, err := loadOperands(ctx, cmd.Args().Get(0), cmd.Args().Get(1))
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			dt, err := resultDType(dtype, docA, docB)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			w := io.Writer(os.Stdout)
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: create output: %v", err), 1)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			start := time.Now()
			switch dt {
			case matrixio.DTypeInt:
				err = multiplyAndWrite(w, alg, int(workers), format, dt, docA, docB, matrixio.Document.Ints)
			default:
				err = multiplyAndWrite(w, alg, int(workers), format, dt, docA, docB, matrixio.Document.Floats)
			}
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			log.Debug("multiply finished", "algorithm", alg, "dtype", dt, "elapsed", time.Since(start))
			return nil
		},
	}
}

// loadOperands reads both documents concurrently.
func loadOperands(ctx context.Context, pathA, pathB string) (matrixio.Document, matrixio.Document, error) {
	var docA, docB matrixio.Document
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		docA, err = matrixio.ReadFile(pathA)
		return err
	})
	g.Go(func() error {
		var err error
		docB, err = matrixio.ReadFile(pathB)
		return err
	})
	if err := g.Wait(); err != nil {
		return matrixio.Document{}, matrixio.Document{}, err
	}
	return docA, docB, nil
}

// resultDType picks the element type: an explicit override, else int only
// when both operands are int.
func resultDType(override string, a, b matrixio.Document) (matrixio.DType, error) {
	if override != "" {
		return matrixio.ParseDType(override)
	}
	if a.DType == matrixio.DTypeInt && b.DType == matrixio.DTypeInt {
		return matrixio.DTypeInt, nil
	}
	return matrixio.DTypeFloat, nil
}

func multiplyAndWrite[T matrix.Number](
	w io.Writer,
	alg matmul.Algorithm,
	workers int,
	format string,
	dtype matrixio.DType,
	a, b matrixio.Document,
	convert func(matrixio.Document) (*matrix.Mat[T], error),
) error {
	A, err := convert(a)
	if err != nil {
		return fmt.Errorf("operand a: %w", err)
	}
	B, err := convert(b)
	if err != nil {
		return fmt.Errorf("operand b: %w", err)
	}
	fn, err := matmul.LookupN[T](alg, workers)
	if err != nil {
		return err
	}
	C, err := fn(A, B)
	if err != nil {
		return err
	}
	if format == "text" || format == "" {
		return matrix.Fprint(w, C)
	}
	f, err := matrixio.ParseFormat(format)
	if err != nil {
		return err
	}
	return matrixio.Encode(w, matrixio.FromMatrix(dtype, C), f)
}
