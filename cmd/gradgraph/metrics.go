package main

import (
	"io"

	"github.com/born-ml/gradgraph/autodiff"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// runMetrics runs the check with metrics enabled and prints the collected
// series in the Prometheus text format.
func runMetrics(args []string, out io.Writer) error {
	cfg, err := parseFlags("metrics", args)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel, io.Discard)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	cfg.Autodiff.Metrics = true
	if err := check(cfg, logger, autodiff.NewMetrics(reg), io.Discard); err != nil {
		return err
	}
	return writeMetrics(reg, out)
}

func writeMetrics(g prometheus.Gatherer, out io.Writer) error {
	families, err := g.Gather()
	if err != nil {
		return errors.Wrap(err, "gather")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return errors.Wrap(err, "encode")
		}
	}
	return nil
}
