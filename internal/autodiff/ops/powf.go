package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff/graph"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Powf is the rule for y = x^Exponent.
type Powf struct {
	Exponent float64
}

// Partial returns grad * p * x^(p-1).
func (op Powf) Partial(s graph.UnaryState) *tensor.RawTensor {
	b := s.Backend
	d := b.MulScalar(b.Powf(s.Input.Value(), op.Exponent-1), op.Exponent)
	return b.Mul(s.Grad, d)
}
