package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/logger"
)

func main() {
	app := &cli.Command{
		Name:  "matmul",
		Usage: "Dense matrix multiplication: sequential and parallel loop orders",
		Flags: loggingFlags(),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg = LoadConfig()
			applyLoggingConfig(cmd, cfg)
			log, err := newLogger(logLevel, logFormat, debug)
			if err != nil {
				return ctx, cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			return logger.WithContext(ctx, log), nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			benchCmd(),
			multiplyCmd(),
			generateCmd(),
			serveCmd(),
			versionCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(level, format string, debug bool) (logger.Logger, error) {
	f, err := logger.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	lvl := logger.ParseLevel(level)
	if debug {
		lvl = slog.LevelDebug
	}
	return logger.New(logger.Options{Level: lvl, Format: f}), nil
}
