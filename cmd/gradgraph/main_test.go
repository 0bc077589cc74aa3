package main

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradgraph/autodiff"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig(strings.NewReader(`
log_level: debug
autodiff:
  release_values: false
  metrics: true
parallel:
  enabled: true
  workers: 2
workers: 8
`))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.releaseValues())
	assert.True(t, cfg.Autodiff.Metrics)
	assert.Equal(t, 2, cfg.Parallel.NumWorkers)
	assert.Equal(t, 8, cfg.Workers)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.releaseValues())
	assert.Equal(t, 4, cfg.Workers)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := loadConfig(strings.NewReader("workers: 0\n"))
	assert.Error(t, err)

	_, err = loadConfig(strings.NewReader("workers: [\n"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger("warn", io.Discard)
	assert.NoError(t, err)

	_, err = newLogger("loud", io.Discard)
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, check(defaultCLIConfig(), logger, nil, &out))
	assert.Contains(t, out.String(), "ok   matmul-log")
	assert.Contains(t, out.String(), "ok   matmul-erf")
	assert.Contains(t, out.String(), "ok   concurrent")
}

func TestMetricsOutput(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := defaultCLIConfig()
	cfg.Autodiff.Metrics = true
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, check(cfg, logger, autodiff.NewMetrics(reg), io.Discard))

	var out bytes.Buffer
	require.NoError(t, writeMetrics(reg, &out))
	assert.Contains(t, out.String(), "gradgraph_backward_traversals_total 4")
	assert.Contains(t, out.String(), "gradgraph_backward_failures_total 0")
}
