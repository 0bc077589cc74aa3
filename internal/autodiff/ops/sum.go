package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff/graph"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Sum is the rule for a full reduction: every input element receives grad.
type Sum struct{}

// Partial broadcasts the scalar grad to the input shape.
func (Sum) Partial(s graph.UnaryState) *tensor.RawTensor {
	return expand(s.Grad, s.Input.Value(), s.Backend)
}

// Mean is the rule for a full mean: every element receives grad / n.
type Mean struct{}

// Partial broadcasts grad / n to the input shape.
func (Mean) Partial(s graph.UnaryState) *tensor.RawTensor {
	x := s.Input.Value()
	g := s.Backend.MulScalar(s.Grad, 1/float64(x.NumElements()))
	return expand(g, x, s.Backend)
}

// SumDim is the rule for a sum along Dim.
type SumDim struct {
	Dim     int
	KeepDim bool
}

// Partial restores the reduced dimension and broadcasts grad along it.
func (op SumDim) Partial(s graph.UnaryState) *tensor.RawTensor {
	x := s.Input.Value()
	g := s.Grad
	if !op.KeepDim {
		kept := x.Shape().Clone()
		kept[op.Dim] = 1
		g = s.Backend.Reshape(g, kept)
	}
	return expand(g, x, s.Backend)
}
