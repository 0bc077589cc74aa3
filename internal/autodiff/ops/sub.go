package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff/graph"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Sub is the rule for a - b.
type Sub struct{}

// PartialLeft returns grad.
func (Sub) PartialLeft(s graph.BinaryState) *tensor.RawTensor {
	return reduceBroadcast(s.Grad, s.Left.Value().Shape(), s.Backend)
}

// PartialRight returns -grad.
func (Sub) PartialRight(s graph.BinaryState) *tensor.RawTensor {
	return reduceBroadcast(s.Backend.Neg(s.Grad), s.Right.Value().Shape(), s.Backend)
}
