package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/generate"
	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matrix"
	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matrixio"
)

func generateCmd() *cli.Command {
	var (
		rows    int64
		cols    int64
		dtype   string
		seed    int64
		format  string
		outPath string
	)

	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Write a random matrix document with values in [0, 100)",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "rows", Aliases: []string{"r"}, Usage: "row count", Value: 3, Destination: &rows},
			&cli.Int64Flag{Name: "cols", Aliases: []string{"c"}, Usage: "column count", Value: 3, Destination: &cols},
			dtypeFlag(&dtype, string(matrixio.DTypeInt)),
			&cli.Int64Flag{
				Name:        "seed",
				Usage:       "random seed (default: current time)",
				Destination: &seed,
			},
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"o"},
				Usage:       "document format (json, yaml); defaults to the --out extension or json",
				Destination: &format,
			},
			&cli.StringFlag{
				Name:        "out",
				Usage:       "write to this file instead of stdout",
				Destination: &outPath,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if !cmd.IsSet("seed") {
				if cfg.Seed != nil {
					seed = *cfg.Seed
				} else {
					seed = time.Now().UnixNano()
				}
			}
			dt, err := matrixio.ParseDType(dtype)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			f, err := documentFormat(format, outPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			rng := generate.NewRand(seed)
			var doc matrixio.Document
			switch dt {
			case matrixio.DTypeInt:
				doc, err = generateDoc(rng, int(rows), int(cols), dt, generate.Ints)
			default:
				doc, err = generateDoc(rng, int(rows), int(cols), dt, generate.Floats)
			}
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			w := io.Writer(os.Stdout)
			if outPath != "" {
				out, err := os.Create(outPath)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: create output: %v", err), 1)
				}
				defer func() { _ = out.Close() }()
				w = out
			}
			return matrixio.Encode(w, doc, f)
		},
	}
}

func documentFormat(format, outPath string) (matrixio.Format, error) {
	if format != "" {
		return matrixio.ParseFormat(format)
	}
	if outPath != "" {
		return matrixio.FormatFromPath(outPath)
	}
	return matrixio.JSON, nil
}

func generateDoc[T matrix.Number](rng *rand.Rand, r, c int, dtype matrixio.DType, gen generate.Generator[T]) (matrixio.Document, error) {
	m, err := gen(rng, r, c)
	if err != nil {
		return matrixio.Document{}, err
	}
	return matrixio.FromMatrix(dtype, m), nil
}
