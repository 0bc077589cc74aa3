package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff/graph"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Reshape is the rule for a reshape: the gradient is reshaped back.
//
// Without it a reshaped parameter (a bias broadcast as [1, C, 1, 1], say)
// would never receive its gradient.
type Reshape struct{}

// Partial returns grad in the input's shape.
func (Reshape) Partial(s graph.UnaryState) *tensor.RawTensor {
	return s.Backend.Reshape(s.Grad, s.Input.Value().Shape())
}
