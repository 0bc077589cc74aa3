package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff/graph"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Index is the rule for taking a box out of a tensor. Only the selected
// elements receive gradient.
type Index struct {
	Ranges []tensor.Range
}

// Partial scatters grad into zeros shaped like the input.
func (op Index) Partial(s graph.UnaryState) *tensor.RawTensor {
	return s.Backend.IndexAssign(tensor.ZerosLike(s.Input.Value()), op.Ranges, s.Grad)
}

// IndexAssign is the rule for overwriting a box of Left with Right.
// Overwritten elements of Left get no gradient; Right gets the box of grad.
type IndexAssign struct {
	Ranges []tensor.Range
}

// PartialLeft zeroes the overwritten box.
func (op IndexAssign) PartialLeft(s graph.BinaryState) *tensor.RawTensor {
	return s.Backend.IndexAssign(s.Grad, op.Ranges, tensor.ZerosLike(s.Right.Value()))
}

// PartialRight selects the overwritten box.
func (op IndexAssign) PartialRight(s graph.BinaryState) *tensor.RawTensor {
	return s.Backend.Index(s.Grad, op.Ranges)
}
