package autodiff

import (
	"github.com/pkg/errors"

	"github.com/born-ml/gradgraph/internal/autodiff/graph"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// BackwardCapable is an interface for backends that support backward pass.
// AutodiffBackend implements this interface.
type BackwardCapable interface {
	tensor.Backend
	// Graph returns the registry that maps tensors to graph nodes.
	Graph() *Graph
	// BackwardFrom runs a backward pass from out seeded with seed.
	BackwardFrom(out, seed *tensor.RawTensor) (*graph.Grads, error)
}

// BackwardFrom propagates seed from out through the recorded graph.
//
// The backward graph rooted at out is built the first time it is requested
// and reused afterwards. A tensor that no recorded operation produced is
// treated as a leaf: its only gradient is the seed itself.
//
// Structural inconsistencies are returned as errors matching
// graph.ErrStructural.
func (b *AutodiffBackend[B]) BackwardFrom(out, seed *tensor.RawTensor) (*graph.Grads, error) {
	node := b.graph.Track(out)
	root, err := node.Backward()
	if err != nil {
		return nil, err
	}
	return b.engine.Run(root, seed, b.inner)
}

// Backward computes gradients of t with respect to every tensor that
// contributed to it.
//
// The seed is ones shaped like t. Panics on structural inconsistencies (for
// example a second pass over a graph whose values were already released).
//
// The backend's Graph keeps recorded tensors until Graph().Clear or
// Graph().Prune is called; loops should call one of them per iteration.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	x := tensor.Ones[float32](tensor.Shape{2}, backend)
//	y := x.Mul(x) // y = x²
//	grads := autodiff.Backward(y)
//	dx := autodiff.Grad(x, grads)
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B]) *graph.Grads {
	grads, err := t.Backend().BackwardFrom(t.Raw(), tensor.OnesLike(t.Raw()))
	if err != nil {
		panic(errors.Wrap(err, "backward"))
	}
	return grads
}

// Grad returns the gradient of t held in grads, or nil when t received none.
// Absence is normal: t may not lie on any path to the differentiated output.
func Grad[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], grads *graph.Grads) *tensor.Tensor[T, B] {
	raw := GradRaw(t.Backend().Graph(), t.Raw(), grads)
	if raw == nil {
		return nil
	}
	return tensor.New[T, B](raw, t.Backend())
}

// GradRaw is Grad for raw tensors.
func GradRaw(g *Graph, t *tensor.RawTensor, grads *graph.Grads) *tensor.RawTensor {
	node, ok := g.Node(t)
	if !ok {
		return nil
	}
	raw, ok := grads.Get(node.ID())
	if !ok {
		return nil
	}
	return raw
}
