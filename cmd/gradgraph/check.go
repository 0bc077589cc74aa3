package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/born-ml/gradgraph/autodiff"
	"github.com/born-ml/gradgraph/backend/cpu"
	"github.com/born-ml/gradgraph/internal/parallel"
	"github.com/born-ml/gradgraph/tensor"
	"github.com/pkg/errors"
)

type adBackend = *autodiff.Backend[*cpu.Backend]

// tolerance is the absolute error allowed against reference gradients.
const tolerance = 1e-3

// scenario is a small graph with known input gradients.
type scenario struct {
	name  string
	build func(x1, x2 *tensor.Tensor[float64, adBackend]) *tensor.Tensor[float64, adBackend]
	want1 []float64
	want2 []float64
}

var scenarios = []scenario{
	{
		name: "matmul-log",
		build: func(x1, x2 *tensor.Tensor[float64, adBackend]) *tensor.Tensor[float64, adBackend] {
			return x1.MatMul(x2.Log()).MatMul(x2)
		},
		want1: []float64{60.2652, 72.3130, 60.2652, 72.3130},
		want2: []float64{22.8614, 24.5043, 24.5729, 26.8507},
	},
	{
		name: "matmul-erf",
		build: func(x1, x2 *tensor.Tensor[float64, adBackend]) *tensor.Tensor[float64, adBackend] {
			return x1.MatMul(x2.Erf()).MatMul(x2)
		},
		want1: []float64{32, 32, 32, 32},
		want2: []float64{8, 8, 8, 8},
	},
}

func newBackend(cfg cliConfig, logger *slog.Logger, metrics *autodiff.Metrics) adBackend {
	adCfg := autodiff.Config{
		ReleaseValues: cfg.releaseValues(),
		Logger:        logger,
	}
	if cfg.Autodiff.Metrics {
		adCfg.Metrics = metrics
	}
	return autodiff.NewWithConfig(cpu.NewWithConfig(cfg.Parallel), adCfg)
}

func runCheck(args []string, out io.Writer) error {
	cfg, err := parseFlags("check", args)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel, out)
	if err != nil {
		return err
	}
	return check(cfg, logger, nil, out)
}

// check runs every scenario plus the concurrency check and reports the first failure.
func check(cfg cliConfig, logger *slog.Logger, metrics *autodiff.Metrics, out io.Writer) error {
	backend := newBackend(cfg, logger, metrics)

	for _, sc := range scenarios {
		if err := runScenario(backend, sc); err != nil {
			logger.Error("scenario failed", "scenario", sc.name, "error", err)
			return errors.Wrap(err, sc.name)
		}
		fmt.Fprintf(out, "ok   %s\n", sc.name)
	}

	if err := checkConcurrent(cfg, backend); err != nil {
		logger.Error("concurrent check failed", "error", err)
		return errors.Wrap(err, "concurrent")
	}
	fmt.Fprintf(out, "ok   concurrent (%d workers)\n", cfg.Workers)
	return nil
}

func runScenario(backend adBackend, sc scenario) error {
	x1, err := tensor.FromSlice([]float64{0, 1, 3, 4}, tensor.Shape{2, 2}, backend)
	if err != nil {
		return err
	}
	x2, err := tensor.FromSlice([]float64{6, 7, 9, 10}, tensor.Shape{2, 2}, backend)
	if err != nil {
		return err
	}
	defer backend.Graph().Clear()

	y := sc.build(x1, x2)
	grads, err := backend.BackwardFrom(y.Raw(), tensor.OnesLike(y.Raw()))
	if err != nil {
		return err
	}

	if err := compare("x1", autodiff.Grad(x1, grads), sc.want1); err != nil {
		return err
	}
	return compare("x2", autodiff.Grad(x2, grads), sc.want2)
}

// checkConcurrent builds one graph per worker concurrently, sums the results and
// compares the shared weight gradient with a sequentially built graph.
func checkConcurrent(cfg cliConfig, backend adBackend) error {
	wData := []float64{0.1, 0.2, -0.3, 0.4, 0.5, -0.6}

	run := func(pc parallel.Config) ([]float64, error) {
		defer backend.Graph().Clear()

		w, err := tensor.FromSlice(wData, tensor.Shape{3, 2}, backend)
		if err != nil {
			return nil, err
		}
		losses := make([]*tensor.Tensor[float64, adBackend], cfg.Workers)
		tasks := make([]func(context.Context) error, cfg.Workers)
		for i := range tasks {
			tasks[i] = func(context.Context) error {
				v := float64(i+1) * 0.1
				x, err := tensor.FromSlice([]float64{v, -v, 2 * v, 0.5, 1, -1}, tensor.Shape{2, 3}, backend)
				if err != nil {
					return err
				}
				losses[i] = x.MatMul(w).Tanh().Sum()
				return nil
			}
		}
		if err := parallel.Go(context.Background(), pc, tasks...); err != nil {
			return nil, err
		}

		total := losses[0]
		for _, l := range losses[1:] {
			total = total.Add(l)
		}
		grads, err := backend.BackwardFrom(total.Raw(), tensor.OnesLike(total.Raw()))
		if err != nil {
			return nil, err
		}
		gw := autodiff.Grad(w, grads)
		if gw == nil {
			return nil, errors.New("weight has no gradient")
		}
		return gw.Data(), nil
	}

	concurrent, err := run(parallel.Config{Enabled: true, NumWorkers: cfg.Workers})
	if err != nil {
		return err
	}
	sequential, err := run(parallel.Config{})
	if err != nil {
		return err
	}
	return within("w", concurrent, sequential, 1e-9)
}

func compare(name string, got *tensor.Tensor[float64, adBackend], want []float64) error {
	if got == nil {
		return errors.Errorf("%s: no gradient", name)
	}
	return within(name, got.Data(), want, tolerance)
}

func within(name string, got, want []float64, tol float64) error {
	if len(got) != len(want) {
		return errors.Errorf("%s: got %d values, want %d", name, len(got), len(want))
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > tol {
			return errors.Errorf("%s[%d]: got %.6f, want %.6f", name, i, got[i], want[i])
		}
	}
	return nil
}
