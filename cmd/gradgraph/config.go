package main

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/born-ml/gradgraph/internal/parallel"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// cliConfig is the YAML file accepted by -config.
type cliConfig struct {
	LogLevel string `yaml:"log_level"`

	Autodiff struct {
		ReleaseValues *bool `yaml:"release_values"`
		Metrics       bool  `yaml:"metrics"`
	} `yaml:"autodiff"`

	Parallel parallel.Config `yaml:"parallel"`

	// Workers is the number of goroutines building graphs in the concurrency check.
	Workers int `yaml:"workers"`
}

func defaultCLIConfig() cliConfig {
	cfg := cliConfig{
		LogLevel: "info",
		Parallel: parallel.DefaultConfig(),
		Workers:  4,
	}
	return cfg
}

// releaseValues defaults to true when the file leaves it unset.
func (c cliConfig) releaseValues() bool {
	if c.Autodiff.ReleaseValues == nil {
		return true
	}
	return *c.Autodiff.ReleaseValues
}

func parseFlags(name string, args []string) (cliConfig, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	path := fs.String("config", "", "path to a YAML config file")
	if err := fs.Parse(args); err != nil {
		return cliConfig{}, err
	}

	cfg := defaultCLIConfig()
	if *path == "" {
		return cfg, nil
	}

	f, err := os.Open(*path)
	if err != nil {
		return cliConfig{}, errors.Wrap(err, "open config")
	}
	defer f.Close()

	return loadConfig(f)
}

func loadConfig(r io.Reader) (cliConfig, error) {
	cfg := defaultCLIConfig()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cliConfig{}, errors.Wrap(err, "decode config")
	}
	if cfg.Workers < 1 {
		return cliConfig{}, errors.Errorf("workers must be positive, got %d", cfg.Workers)
	}
	return cfg, nil
}

func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, errors.Wrapf(err, "log level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}
