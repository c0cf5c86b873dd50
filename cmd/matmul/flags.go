package main

import (
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matmul"
)

var (
	logLevel  string
	logFormat string
	debug     bool

	// cfg is loaded once by the root command before any subcommand runs.
	cfg Config
)

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func algorithmFlag(dest *string, value string) cli.Flag {
	names := make([]string, 0, len(matmul.Algorithms()))
	for _, a := range matmul.Algorithms() {
		names = append(names, a.String())
	}
	return &cli.StringFlag{
		Name:        "algorithm",
		Aliases:     []string{"alg"},
		Usage:       "multiplication algorithm (" + strings.Join(names, ", ") + ")",
		Value:       value,
		Destination: dest,
	}
}

func workersFlag(dest *int64) cli.Flag {
	return &cli.Int64Flag{
		Name:        "workers",
		Aliases:     []string{"w"},
		Usage:       "worker count for parallel algorithms (0 = GOMAXPROCS)",
		Destination: dest,
	}
}

func dtypeFlag(dest *string, value string) cli.Flag {
	return &cli.StringFlag{
		Name:        "dtype",
		Usage:       "element type (int, float)",
		Value:       value,
		Destination: dest,
	}
}
