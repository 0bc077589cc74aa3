package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff/graph"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Exp is the rule for y = exp(x). Since dy/dx = y, the output is reused.
type Exp struct{}

// Partial returns grad * y.
func (Exp) Partial(s graph.UnaryState) *tensor.RawTensor {
	return s.Backend.Mul(s.Grad, s.Output.Value())
}
