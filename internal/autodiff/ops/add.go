package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff/graph"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Add is the rule for a + b. The gradient flows unchanged to both inputs,
// reduced along any broadcast dimensions.
type Add struct{}

// PartialLeft returns grad.
func (Add) PartialLeft(s graph.BinaryState) *tensor.RawTensor {
	return reduceBroadcast(s.Grad, s.Left.Value().Shape(), s.Backend)
}

// PartialRight returns grad.
func (Add) PartialRight(s graph.BinaryState) *tensor.RawTensor {
	return reduceBroadcast(s.Grad, s.Right.Value().Shape(), s.Backend)
}
