package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff/graph"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Mul is the rule for element-wise a * b.
//
//	d(a*b)/da = b
//	d(a*b)/db = a
type Mul struct{}

// PartialLeft returns grad * b.
func (Mul) PartialLeft(s graph.BinaryState) *tensor.RawTensor {
	g := s.Backend.Mul(s.Grad, s.Right.Value())
	return reduceBroadcast(g, s.Left.Value().Shape(), s.Backend)
}

// PartialRight returns grad * a.
func (Mul) PartialRight(s graph.BinaryState) *tensor.RawTensor {
	g := s.Backend.Mul(s.Grad, s.Left.Value())
	return reduceBroadcast(g, s.Right.Value().Shape(), s.Backend)
}
