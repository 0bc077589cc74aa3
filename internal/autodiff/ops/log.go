package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff/graph"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Log is the rule for the natural logarithm.
//
//	∂L/∂x = ∂L/∂y / x
//
// Inputs are assumed positive.
type Log struct{}

// Partial returns grad / x.
func (Log) Partial(s graph.UnaryState) *tensor.RawTensor {
	return s.Backend.Div(s.Grad, s.Input.Value())
}
