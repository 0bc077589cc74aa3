package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff/graph"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Cat is the rule for concatenation along Dim. Sizes holds each input's
// extent along Dim, in input order.
type Cat struct {
	Dim   int
	Sizes []int
}

// Partials slices grad back into one piece per input.
func (op Cat) Partials(s graph.NaryState) []*tensor.RawTensor {
	out := make([]*tensor.RawTensor, len(op.Sizes))
	ranges := tensor.FullRanges(s.Grad.Shape())
	start := 0
	for i, size := range op.Sizes {
		ranges[op.Dim] = tensor.Range{Start: start, End: start + size}
		out[i] = s.Backend.Index(s.Grad, ranges)
		start += size
	}
	return out
}
