package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff/graph"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// MaskFill is the rule for replacing the masked elements with a constant.
// Mask is not differentiated.
type MaskFill struct {
	Mask *tensor.RawTensor
}

// Partial passes grad through the unmasked elements.
func (op MaskFill) Partial(s graph.UnaryState) *tensor.RawTensor {
	return s.Backend.MaskFill(s.Grad, op.Mask, 0)
}
