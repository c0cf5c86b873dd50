package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const envConfigPath = "MATMUL_CONFIG"

// Config represents the matmul configuration file (~/.config/matmul/config.yaml).
// Numeric fields are pointers so "not set" is distinct from zero.
type Config struct {
	Workers *int64 `yaml:"workers"`
	Seed    *int64 `yaml:"seed"`
	Runs    *int64 `yaml:"runs"`
	Warmup  *int64 `yaml:"warmup"`

	// Output
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
	OutputFormat string `yaml:"output_format"`

	// Server
	ServerAddress string `yaml:"server_address"`
	MaxElements   *int64 `yaml:"max_elements"`
}

func configPath() string {
	if p := strings.TrimSpace(os.Getenv(envConfigPath)); p != "" {
		return filepath.Clean(p)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "matmul", "config.yaml")
}

// LoadConfig reads the config file. Returns a zero Config if the file doesn't exist.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyBenchConfig applies config file defaults to bench command variables
// when the corresponding CLI flag was not explicitly set.
func applyBenchConfig(c *cli.Command, cfg Config, workers, seed, runs, warmup *int64, format *string) {
	if cfg.Workers != nil && !c.IsSet("workers") {
		*workers = *cfg.Workers
	}
	if cfg.Seed != nil && !c.IsSet("seed") {
		*seed = *cfg.Seed
	}
	if cfg.Runs != nil && !c.IsSet("runs") {
		*runs = *cfg.Runs
	}
	if cfg.Warmup != nil && !c.IsSet("warmup") {
		*warmup = *cfg.Warmup
	}
	if cfg.OutputFormat != "" && !c.IsSet("format") {
		*format = cfg.OutputFormat
	}
}

func applyMultiplyConfig(c *cli.Command, cfg Config, workers *int64, format *string) {
	if cfg.Workers != nil && !c.IsSet("workers") {
		*workers = *cfg.Workers
	}
	if cfg.OutputFormat != "" && !c.IsSet("format") {
		*format = cfg.OutputFormat
	}
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, addr *string, workers, maxElements *int64) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.Workers != nil && !c.IsSet("workers") {
		*workers = *cfg.Workers
	}
	if cfg.MaxElements != nil && !c.IsSet("max-elements") {
		*maxElements = *cfg.MaxElements
	}
}
