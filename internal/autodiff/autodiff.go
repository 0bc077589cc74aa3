// Package autodiff implements reverse-mode automatic differentiation using the
// decorator pattern.
//
// AutodiffBackend wraps any Backend implementation and records every
// operation it executes as a node of a dynamic graph. Forward evaluation is
// eager; the backward form of the graph is built lazily, once, the first time
// gradients are requested from a node.
//
// Architecture:
//   - Decorator pattern: AutodiffBackend[B] wraps any Backend implementation
//   - Graph: maps tensors to the forward nodes that produced them
//   - graph.Engine: walks nodes in descending creation order, each exactly once
//   - ops: one analytic gradient rule per primitive
//
// Usage:
//
//	backend := autodiff.New(cpu.New())
//
//	x, _ := tensor.FromSlice([]float32{2.0}, tensor.Shape{1}, backend)
//	y := x.Mul(x) // y = x²
//
//	grads := autodiff.Backward(y)
//	fmt.Println(autodiff.Grad(x, grads).Data()) // dy/dx = 2x = [4]
package autodiff

import (
	"github.com/born-ml/gradgraph/internal/autodiff/graph"
	"github.com/born-ml/gradgraph/internal/autodiff/ops"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Config controls recording and backward traversal.
type Config = graph.Config

// DefaultConfig releases node values as soon as a backward pass is done with
// them and records no metrics.
func DefaultConfig() Config {
	return graph.DefaultConfig()
}

// AutodiffBackend wraps a Backend and adds automatic differentiation.
// It implements the tensor.Backend interface and records operations in a Graph.
//
// Type parameter B must satisfy the tensor.Backend interface.
type AutodiffBackend[B tensor.Backend] struct {
	inner  B
	graph  *Graph
	engine *graph.Engine
}

var _ tensor.Backend = (*AutodiffBackend[tensor.Backend])(nil)

// New creates a new AutodiffBackend wrapping the given backend.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return NewWithConfig(backend, DefaultConfig())
}

// NewWithConfig creates an AutodiffBackend drawing node orders from the
// process-wide allocator.
func NewWithConfig[B tensor.Backend](backend B, cfg Config) *AutodiffBackend[B] {
	return NewWithAllocator(backend, cfg, graph.DefaultAllocator())
}

// NewWithAllocator creates an AutodiffBackend with its own order allocator.
// Tensors from backends with different allocators must not be combined.
func NewWithAllocator[B tensor.Backend](backend B, cfg Config, alloc *graph.Allocator) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{
		inner:  backend,
		graph:  NewGraph(alloc, cfg.Metrics),
		engine: graph.NewEngine(cfg),
	}
}

// Graph returns the recording registry for manual control.
// Useful for:
//   - Starting/stopping recording
//   - Clearing registered tensors between iterations
func (b *AutodiffBackend[B]) Graph() *Graph {
	return b.graph
}

// Inner returns the wrapped backend for direct access.
func (b *AutodiffBackend[B]) Inner() B {
	return b.inner
}

// Name returns the backend name.
func (b *AutodiffBackend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device.
func (b *AutodiffBackend[B]) Device() tensor.Device {
	return b.inner.Device()
}

// Add performs element-wise addition and records the operation.
func (b *AutodiffBackend[B]) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binary(b.inner.Add(x, y), x, y, ops.Add{})
}

// Sub performs element-wise subtraction and records the operation.
func (b *AutodiffBackend[B]) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binary(b.inner.Sub(x, y), x, y, ops.Sub{})
}

// Mul performs element-wise multiplication and records the operation.
func (b *AutodiffBackend[B]) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binary(b.inner.Mul(x, y), x, y, ops.Mul{})
}

// Div performs element-wise division and records the operation.
func (b *AutodiffBackend[B]) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binary(b.inner.Div(x, y), x, y, ops.Div{})
}

// MatMul performs matrix multiplication and records the operation.
func (b *AutodiffBackend[B]) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binary(b.inner.MatMul(x, y), x, y, ops.MatMul{})
}

// Reshape changes the tensor shape and records the operation.
func (b *AutodiffBackend[B]) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	return b.unary(b.inner.Reshape(t, newShape), t, ops.Reshape{})
}

// Transpose permutes dimensions and records the operation.
func (b *AutodiffBackend[B]) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	if len(axes) == 0 {
		axes = make([]int, len(t.Shape()))
		for i := range axes {
			axes[i] = len(axes) - 1 - i
		}
	}
	return b.unary(b.inner.Transpose(t, axes...), t, ops.Transpose{Axes: axes})
}

// MulScalar multiplies by a constant and records the operation.
func (b *AutodiffBackend[B]) MulScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return b.unary(b.inner.MulScalar(x, scalar), x, ops.MulScalar{Scalar: scalar})
}

// AddScalar adds a constant and records the operation.
func (b *AutodiffBackend[B]) AddScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return b.unary(b.inner.AddScalar(x, scalar), x, ops.AddScalar{})
}

// Neg negates and records the operation.
func (b *AutodiffBackend[B]) Neg(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary(b.inner.Neg(x), x, ops.Neg{})
}

// Exp computes e^x and records the operation.
func (b *AutodiffBackend[B]) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary(b.inner.Exp(x), x, ops.Exp{})
}

// Log computes the natural logarithm and records the operation.
func (b *AutodiffBackend[B]) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary(b.inner.Log(x), x, ops.Log{})
}

// Erf computes the error function and records the operation.
func (b *AutodiffBackend[B]) Erf(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary(b.inner.Erf(x), x, ops.Erf{})
}

// Tanh computes the hyperbolic tangent and records the operation.
func (b *AutodiffBackend[B]) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary(b.inner.Tanh(x), x, ops.Tanh{})
}

// ReLU computes max(0, x) and records the operation.
func (b *AutodiffBackend[B]) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary(b.inner.ReLU(x), x, ops.ReLU{})
}

// Powf raises to a constant power and records the operation.
func (b *AutodiffBackend[B]) Powf(x *tensor.RawTensor, exponent float64) *tensor.RawTensor {
	return b.unary(b.inner.Powf(x, exponent), x, ops.Powf{Exponent: exponent})
}

// Sum reduces to a scalar and records the operation.
func (b *AutodiffBackend[B]) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary(b.inner.Sum(x), x, ops.Sum{})
}

// SumDim sums along dim and records the operation.
func (b *AutodiffBackend[B]) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	if dim < 0 {
		dim += len(x.Shape())
	}
	return b.unary(b.inner.SumDim(x, dim, keepDim), x, ops.SumDim{Dim: dim, KeepDim: keepDim})
}

// Mean reduces to the mean and records the operation.
func (b *AutodiffBackend[B]) Mean(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary(b.inner.Mean(x), x, ops.Mean{})
}

// Softmax normalizes along dim and records the operation.
func (b *AutodiffBackend[B]) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	if dim < 0 {
		dim += len(x.Shape())
	}
	return b.unary(b.inner.Softmax(x, dim), x, ops.Softmax{Dim: dim})
}

// Cat concatenates along dim and records the operation.
func (b *AutodiffBackend[B]) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	result := b.inner.Cat(tensors, dim)
	if dim < 0 {
		dim += len(result.Shape())
	}
	sizes := make([]int, len(tensors))
	for i, t := range tensors {
		sizes[i] = t.Shape()[dim]
	}
	return b.nary(result, tensors, ops.Cat{Dim: dim, Sizes: sizes})
}

// Index selects a box and records the operation.
func (b *AutodiffBackend[B]) Index(x *tensor.RawTensor, ranges []tensor.Range) *tensor.RawTensor {
	ranges = append([]tensor.Range(nil), ranges...)
	return b.unary(b.inner.Index(x, ranges), x, ops.Index{Ranges: ranges})
}

// IndexAssign overwrites a box and records the operation.
func (b *AutodiffBackend[B]) IndexAssign(x *tensor.RawTensor, ranges []tensor.Range, values *tensor.RawTensor) *tensor.RawTensor {
	ranges = append([]tensor.Range(nil), ranges...)
	return b.binary(b.inner.IndexAssign(x, ranges, values), x, values, ops.IndexAssign{Ranges: ranges})
}

// MaskFill replaces masked elements and records the operation.
// The mask is captured by handle and never differentiated.
func (b *AutodiffBackend[B]) MaskFill(x, mask *tensor.RawTensor, value float64) *tensor.RawTensor {
	result := b.inner.MaskFill(x, mask, value)
	if !b.graph.IsRecording() {
		return result
	}
	return b.unary(result, x, ops.MaskFill{Mask: mask.Clone()})
}

func (b *AutodiffBackend[B]) unary(result, input *tensor.RawTensor, rule graph.UnaryRule) *tensor.RawTensor {
	if !b.graph.IsRecording() {
		return result
	}
	in := b.graph.Track(input)
	b.graph.record(result, graph.NewUnary(in, rule, b.inner))
	return result
}

func (b *AutodiffBackend[B]) binary(result, lhs, rhs *tensor.RawTensor, rule graph.BinaryRule) *tensor.RawTensor {
	if !b.graph.IsRecording() {
		return result
	}
	l := b.graph.Track(lhs)
	r := b.graph.Track(rhs)
	b.graph.record(result, graph.NewBinary(l, r, rule, b.inner))
	return result
}

func (b *AutodiffBackend[B]) nary(result *tensor.RawTensor, inputs []*tensor.RawTensor, rule graph.NaryRule) *tensor.RawTensor {
	if !b.graph.IsRecording() {
		return result
	}
	nodes := make([]*graph.ForwardNode, len(inputs))
	for i, in := range inputs {
		nodes[i] = b.graph.Track(in)
	}
	b.graph.record(result, graph.NewNary(nodes, rule, b.inner))
	return result
}
