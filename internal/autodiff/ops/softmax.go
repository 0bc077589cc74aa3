package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff/graph"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Softmax is the rule for softmax along Dim:
//
//	dx = y * (grad - sum(grad * y, Dim))
type Softmax struct {
	Dim int
}

// Partial uses the saved output y.
func (op Softmax) Partial(s graph.UnaryState) *tensor.RawTensor {
	y := s.Output.Value()
	dot := s.Backend.SumDim(s.Backend.Mul(s.Grad, y), op.Dim, true)
	return s.Backend.Mul(y, s.Backend.Sub(s.Grad, dot))
}
