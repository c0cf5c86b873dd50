package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/bench"
	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matmul"
	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matrixio"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(envConfigPath, path)
	return path
}

func TestConfigPathHonoursEnv(t *testing.T) {
	path := writeConfig(t, "")
	if got := configPath(); got != path {
		t.Fatalf("configPath: got %q want %q", got, path)
	}
}

func TestLoadConfig(t *testing.T) {
	writeConfig(t, `
workers: 3
seed: 42
runs: 5
log_level: debug
output_format: json
server_address: 0.0.0.0:9000
`)
	cfg := LoadConfig()
	if cfg.Workers == nil || *cfg.Workers != 3 {
		t.Fatalf("workers: %v", cfg.Workers)
	}
	if cfg.Seed == nil || *cfg.Seed != 42 {
		t.Fatalf("seed: %v", cfg.Seed)
	}
	if cfg.Warmup != nil {
		t.Fatalf("warmup should be unset, got %d", *cfg.Warmup)
	}
	if cfg.LogLevel != "debug" || cfg.OutputFormat != "json" || cfg.ServerAddress != "0.0.0.0:9000" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadConfigMissingOrInvalid(t *testing.T) {
	t.Setenv(envConfigPath, filepath.Join(t.TempDir(), "missing.yaml"))
	if cfg := LoadConfig(); cfg.Workers != nil || cfg.LogLevel != "" {
		t.Fatalf("expected zero config, got %+v", cfg)
	}

	writeConfig(t, "workers: [not, a, number")
	if cfg := LoadConfig(); cfg.Workers != nil {
		t.Fatalf("expected zero config for invalid yaml, got %+v", cfg)
	}
}

func TestApplyBenchConfigFlagsWin(t *testing.T) {
	three, nine := int64(3), int64(9)
	conf := Config{Workers: &three, Runs: &nine, OutputFormat: "json"}

	var workers, seed, runs, warmup int64
	var format string
	cmd := &cli.Command{
		Name: "bench",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "workers", Destination: &workers},
			&cli.Int64Flag{Name: "seed", Destination: &seed},
			&cli.Int64Flag{Name: "runs", Value: 1, Destination: &runs},
			&cli.Int64Flag{Name: "warmup", Destination: &warmup},
			&cli.StringFlag{Name: "format", Value: "text", Destination: &format},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			applyBenchConfig(c, conf, &workers, &seed, &runs, &warmup, &format)
			return nil
		},
	}
	if err := cmd.Run(context.Background(), []string{"bench", "--runs", "2"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if workers != 3 {
		t.Fatalf("workers from config: got %d", workers)
	}
	if runs != 2 {
		t.Fatalf("explicit --runs should win: got %d", runs)
	}
	if format != "json" {
		t.Fatalf("format from config: got %q", format)
	}
}

func TestWithRunDefaults(t *testing.T) {
	exps := []bench.Experiment{
		{Name: "file", DType: matrixio.DTypeInt, Algorithm: matmul.Naive, Runs: 4, Seed: 11},
		{Name: "bare", DType: matrixio.DTypeFloat, Algorithm: matmul.Reordered},
	}
	got := withRunDefaults(exps, runSettings{runs: 2, warmup: 1, workers: 3, seed: 100})
	if got[0].Runs != 4 || got[0].Seed != 11 {
		t.Fatalf("file values should be kept: %+v", got[0])
	}
	if got[1].Runs != 2 || got[1].Seed != 101 || got[1].Warmup != 1 || got[1].Workers != 3 {
		t.Fatalf("defaults not applied: %+v", got[1])
	}

	forced := withRunDefaults(exps, runSettings{runs: 7, seed: 5, forceRuns: true, forceSeed: true})
	if forced[0].Runs != 7 || forced[0].Seed != 5 {
		t.Fatalf("forced values not applied: %+v", forced[0])
	}
	if exps[0].Runs != 4 {
		t.Fatal("input experiments were mutated")
	}
}

func TestLoadExperiments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exps.yaml")
	body := `
- name: square ints
  dtype: int
  algorithm: naive
  a_rows: 4
  a_cols: 4
  b_rows: 4
  b_cols: 4
- dtype: float
  algorithm: reordered
  a_rows: 2
  a_cols: 3
  b_rows: 3
  b_cols: 2
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	exps, err := loadExperiments(path)
	if err != nil {
		t.Fatalf("loadExperiments: %v", err)
	}
	if len(exps) != 2 || exps[0].Algorithm != matmul.Naive || exps[1].Algorithm != matmul.Reordered {
		t.Fatalf("unexpected experiments: %+v", exps)
	}

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(empty, []byte("[]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadExperiments(empty); err == nil {
		t.Fatal("expected error for empty experiments file")
	}
}

func TestResultDType(t *testing.T) {
	ints := matrixio.Document{DType: matrixio.DTypeInt}
	floats := matrixio.Document{DType: matrixio.DTypeFloat}
	if dt, _ := resultDType("", ints, ints); dt != matrixio.DTypeInt {
		t.Fatalf("int*int: got %s", dt)
	}
	if dt, _ := resultDType("", ints, floats); dt != matrixio.DTypeFloat {
		t.Fatalf("int*float: got %s", dt)
	}
	if dt, _ := resultDType("double", ints, ints); dt != matrixio.DTypeFloat {
		t.Fatalf("override: got %s", dt)
	}
	if _, err := resultDType("bogus", ints, ints); err == nil {
		t.Fatal("expected error for unknown dtype override")
	}
}
