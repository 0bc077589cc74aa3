package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff/graph"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Neg is the rule for -x.
type Neg struct{}

// Partial returns -grad.
func (Neg) Partial(s graph.UnaryState) *tensor.RawTensor {
	return s.Backend.Neg(s.Grad)
}

// MulScalar is the rule for x * Scalar.
type MulScalar struct {
	Scalar float64
}

// Partial returns grad * Scalar.
func (op MulScalar) Partial(s graph.UnaryState) *tensor.RawTensor {
	return s.Backend.MulScalar(s.Grad, op.Scalar)
}

// AddScalar is the rule for x + c.
type AddScalar struct{}

// Partial returns grad.
func (AddScalar) Partial(s graph.UnaryState) *tensor.RawTensor {
	return s.Grad
}
