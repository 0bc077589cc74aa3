package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff/graph"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// MatMul is the rule for C = A @ B.
//
//	dL/dA = dL/dC @ Bᵀ
//	dL/dB = Aᵀ @ dL/dC
type MatMul struct{}

// PartialLeft returns grad @ Bᵀ.
func (MatMul) PartialLeft(s graph.BinaryState) *tensor.RawTensor {
	b := s.Backend
	return b.MatMul(s.Grad, b.Transpose(s.Right.Value(), 1, 0))
}

// PartialRight returns Aᵀ @ grad.
func (MatMul) PartialRight(s graph.BinaryState) *tensor.RawTensor {
	b := s.Backend
	return b.MatMul(b.Transpose(s.Left.Value(), 1, 0), s.Grad)
}
