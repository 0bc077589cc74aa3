package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff/graph"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Transpose is the rule for a dimension permutation. The gradient is permuted
// back with the inverse permutation.
type Transpose struct {
	Axes []int
}

// Partial returns grad permuted by the inverse of Axes.
func (op Transpose) Partial(s graph.UnaryState) *tensor.RawTensor {
	return s.Backend.Transpose(s.Grad, inversePermutation(op.Axes)...)
}
