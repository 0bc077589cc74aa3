// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation.
//
// Wrapping any backend with New records every operation into a dynamic
// graph. Backward walks that graph once, in reverse creation order, and
// returns a gradient container keyed by node.
//
// Example:
//
//	import (
//	    "github.com/born-ml/gradgraph/autodiff"
//	    "github.com/born-ml/gradgraph/backend/cpu"
//	    "github.com/born-ml/gradgraph/tensor"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//
//	    x, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)
//	    y := x.Mul(x).Sum()
//
//	    grads := autodiff.Backward(y)
//	    dx := autodiff.Grad(x, grads) // [2, 4, 6]
//	}
package autodiff

import (
	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/autodiff/graph"
	"github.com/born-ml/gradgraph/tensor"
	"github.com/prometheus/client_golang/prometheus"
)

// Backend is the autodiff-enabled backend.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// Config controls traversal behaviour.
type Config = autodiff.Config

// Graph tracks which tensors belong to which graph nodes.
type Graph = autodiff.Graph

// Grads is the gradient container returned by a backward pass.
type Grads = graph.Grads

// NodeID identifies a node in the graph.
type NodeID = graph.NodeID

// Metrics holds the Prometheus collectors updated by traversals.
type Metrics = graph.Metrics

// BackwardCapable is implemented by backends that can run a backward pass.
type BackwardCapable = autodiff.BackwardCapable

// ErrStructural is matched by errors.Is for every malformed-graph failure.
var ErrStructural = graph.ErrStructural

// New creates a new autodiff backend wrapping the given backend.
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// NewWithConfig creates an autodiff backend with explicit traversal settings.
func NewWithConfig[B tensor.Backend](backend B, cfg Config) *Backend[B] {
	return autodiff.NewWithConfig(backend, cfg)
}

// DefaultConfig returns the default traversal settings.
func DefaultConfig() Config {
	return autodiff.DefaultConfig()
}

// NewMetrics registers traversal collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return graph.NewMetrics(reg)
}

// Backward runs the backward pass from t, seeded with ones.
// It panics if the graph is malformed; use the backend's BackwardFrom to get an error instead.
// Recorded tensors stay in the backend's Graph until Graph().Clear or Graph().Prune.
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B]) *Grads {
	return autodiff.Backward(t)
}

// Grad returns the gradient of t, or nil if t did not contribute to the output.
func Grad[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], grads *Grads) *tensor.Tensor[T, B] {
	return autodiff.Grad(t, grads)
}

// IsStructural reports whether err describes a malformed graph.
func IsStructural(err error) bool {
	return graph.IsStructural(err)
}
