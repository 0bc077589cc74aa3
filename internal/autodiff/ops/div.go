package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff/graph"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Div is the rule for element-wise a / b.
//
//	d(a/b)/da = 1/b
//	d(a/b)/db = -a/b²
type Div struct{}

// PartialLeft returns grad / b.
func (Div) PartialLeft(s graph.BinaryState) *tensor.RawTensor {
	g := s.Backend.Div(s.Grad, s.Right.Value())
	return reduceBroadcast(g, s.Left.Value().Shape(), s.Backend)
}

// PartialRight returns -grad * a / b².
func (Div) PartialRight(s graph.BinaryState) *tensor.RawTensor {
	b := s.Backend
	rhs := s.Right.Value()
	num := b.Mul(s.Grad, s.Left.Value())
	g := b.Neg(b.Div(num, b.Mul(rhs, rhs)))
	return reduceBroadcast(g, rhs.Shape(), b)
}
