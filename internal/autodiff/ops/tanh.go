package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff/graph"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Tanh is the rule for y = tanh(x): dy/dx = 1 - y².
type Tanh struct{}

// Partial returns grad * (1 - y²).
func (Tanh) Partial(s graph.UnaryState) *tensor.RawTensor {
	b := s.Backend
	y := s.Output.Value()
	d := b.AddScalar(b.Neg(b.Mul(y, y)), 1)
	return b.Mul(s.Grad, d)
}
