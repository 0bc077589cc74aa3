package ops

import (
	"math"

	"github.com/born-ml/gradgraph/internal/autodiff/graph"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// twoOverSqrtPi is 2/√π, the scale of erf's derivative.
var twoOverSqrtPi = 2 / math.Sqrt(math.Pi)

// Erf is the rule for the Gauss error function.
//
//	d erf(x)/dx = 2/√π · exp(-x²)
type Erf struct{}

// Partial returns grad * 2/√π * exp(-x²).
func (Erf) Partial(s graph.UnaryState) *tensor.RawTensor {
	b := s.Backend
	x := s.Input.Value()
	d := b.MulScalar(b.Exp(b.Neg(b.Mul(x, x))), twoOverSqrtPi)
	return b.Mul(s.Grad, d)
}
