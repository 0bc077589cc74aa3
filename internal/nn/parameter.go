package nn

import (
	"github.com/google/uuid"

	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/autodiff/graph"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// GraphBackend is implemented by backends that record a graph
// (autodiff.AutodiffBackend).
type GraphBackend interface {
	Graph() *autodiff.Graph
}

// Parameter represents a trainable parameter in a neural network.
//
// The parameter keeps a stable ID for its whole lifetime. The graph node
// behind the tensor changes every iteration, so optimizer state is keyed by
// this ID instead.
//
// Example:
//
//	weight := nn.NewParameter("weight", weightTensor)
//	grads := autodiff.Backward(loss)
//	g := weight.Grad(grads)
type Parameter[B tensor.Backend] struct {
	id     graph.NodeID
	name   string
	tensor *tensor.Tensor[float32, B]
}

// NewParameter creates a new trainable parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{
		id:     uuid.New(),
		name:   name,
		tensor: t,
	}
}

// ID returns the parameter's stable identity.
func (p *Parameter[B]) ID() graph.NodeID {
	return p.id
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] {
	return p.tensor
}

// Grad returns the parameter's gradient held in grads.
//
// Returns nil if the parameter did not contribute to the differentiated
// output or if its backend records no graph.
func (p *Parameter[B]) Grad(grads *graph.Grads) *tensor.Tensor[float32, B] {
	raw := p.GradRaw(grads)
	if raw == nil {
		return nil
	}
	return tensor.New[float32, B](raw, p.tensor.Backend())
}

// GradRaw is Grad without the typed wrapper.
func (p *Parameter[B]) GradRaw(grads *graph.Grads) *tensor.RawTensor {
	gb, ok := any(p.tensor.Backend()).(GraphBackend)
	if !ok {
		return nil
	}
	return autodiff.GradRaw(gb.Graph(), p.tensor.Raw(), grads)
}
