// Package ops holds the analytic gradient rules for every differentiable
// primitive.
//
// Each rule implements graph.UnaryRule, graph.BinaryRule or graph.NaryRule
// and computes through tensor.Backend, so the same rules serve every backend.
// The one exception is the ReLU mask, which is built in host memory through
// RawTensor.AsFloat32/AsFloat64 and therefore needs host-readable values.
// Rules receive the upstream gradient of the operation's output together with
// the node states of its inputs and output, and return the contribution for
// each input. The engine does the accumulation.
//
// Supported rules:
//   - Add, Sub, Mul, Div: element-wise with broadcast reduction
//   - MatMul: d(A@B)/dA = grad@Bᵀ, d(A@B)/dB = Aᵀ@grad
//   - Neg, MulScalar, AddScalar
//   - Log: grad / x
//   - Exp: grad * exp(x)
//   - Erf: grad * 2/√π * exp(-x²)
//   - Tanh: grad * (1 - tanh²(x))
//   - Powf: grad * p * x^(p-1)
//   - ReLU: grad where x > 0
//   - Reshape, Transpose
//   - Sum, Mean, SumDim
//   - Softmax: y * (grad - sum(grad * y))
//   - Cat: grad sliced back per input
//   - Index, IndexAssign: grad scattered into or cut out of the box
//   - MaskFill: grad zeroed where the mask is set
package ops

import "github.com/born-ml/gradgraph/internal/autodiff/graph"

// Compile-time checks.
var (
	_ graph.BinaryRule = Add{}
	_ graph.BinaryRule = Sub{}
	_ graph.BinaryRule = Mul{}
	_ graph.BinaryRule = Div{}
	_ graph.BinaryRule = MatMul{}
	_ graph.BinaryRule = IndexAssign{}

	_ graph.UnaryRule = Neg{}
	_ graph.UnaryRule = MulScalar{}
	_ graph.UnaryRule = AddScalar{}
	_ graph.UnaryRule = Log{}
	_ graph.UnaryRule = Exp{}
	_ graph.UnaryRule = Erf{}
	_ graph.UnaryRule = Tanh{}
	_ graph.UnaryRule = Powf{}
	_ graph.UnaryRule = ReLU{}
	_ graph.UnaryRule = Reshape{}
	_ graph.UnaryRule = Transpose{}
	_ graph.UnaryRule = Sum{}
	_ graph.UnaryRule = Mean{}
	_ graph.UnaryRule = SumDim{}
	_ graph.UnaryRule = Softmax{}
	_ graph.UnaryRule = Index{}
	_ graph.UnaryRule = MaskFill{}

	_ graph.NaryRule = Cat{}
)
