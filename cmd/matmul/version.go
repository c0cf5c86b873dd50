package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matmul"
	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/version"
)

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			info := version.Resolve()
			fmt.Printf("version:    %s\n", info.Version)
			if info.Commit != "" {
				fmt.Printf("commit:     %s\n", info.Commit)
			}
			fmt.Printf("go:         %s\n", info.GoVersion)
			fmt.Printf("workers:    %d\n", matmul.PoolSize())
			return nil
		},
	}
}
