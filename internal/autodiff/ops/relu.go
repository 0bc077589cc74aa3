package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff/graph"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// ReLU is the rule for max(0, x). The gradient passes where x > 0; the
// subgradient at 0 is taken as 0.
type ReLU struct{}

// Partial returns grad masked by x > 0.
func (ReLU) Partial(s graph.UnaryState) *tensor.RawTensor {
	return s.Backend.Mul(s.Grad, positiveMask(s.Input.Value()))
}
