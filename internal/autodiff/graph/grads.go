package graph

import (
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Grads maps node identities to gradients.
//
// A store belongs to a single backward pass and is not safe for concurrent
// mutation. After the pass it is handed to the caller, who may also stash
// auxiliary per-parameter tensors in it (see Register).
type Grads struct {
	backend tensor.Backend
	grads   map[NodeID]*tensor.RawTensor
}

// NewGrads returns an empty store that sums with backend.
func NewGrads(backend tensor.Backend) *Grads {
	return &Grads{
		backend: backend,
		grads:   make(map[NodeID]*tensor.RawTensor),
	}
}

// Accumulate adds delta to the gradient stored for id, inserting it if absent.
// Panics with a StructuralError if the shapes disagree.
func (g *Grads) Accumulate(id NodeID, delta *tensor.RawTensor) {
	existing, ok := g.grads[id]
	if !ok {
		g.grads[id] = delta
		return
	}
	if !existing.Shape().Equal(delta.Shape()) {
		panic(structural(id, "gradient shape %v does not match accumulated %v", delta.Shape(), existing.Shape()))
	}
	g.grads[id] = g.backend.Add(existing, delta)
}

// Get returns the gradient for id. ok is false when the node never received one.
func (g *Grads) Get(id NodeID) (*tensor.RawTensor, bool) {
	t, ok := g.grads[id]
	return t, ok
}

// Register stores t under id, replacing any existing entry.
func (g *Grads) Register(id NodeID, t *tensor.RawTensor) {
	g.grads[id] = t
}

// Remove deletes the entry for id.
func (g *Grads) Remove(id NodeID) {
	delete(g.grads, id)
}

// Len returns the number of entries.
func (g *Grads) Len() int {
	return len(g.grads)
}

// IDs returns the identities that hold an entry, in no particular order.
func (g *Grads) IDs() []NodeID {
	ids := make([]NodeID, 0, len(g.grads))
	for id := range g.grads {
		ids = append(ids, id)
	}
	return ids
}

// Backend returns the backend used for accumulation.
func (g *Grads) Backend() tensor.Backend {
	return g.backend
}

func (g *Grads) take(id NodeID) (*tensor.RawTensor, bool) {
	t, ok := g.grads[id]
	if ok {
		delete(g.grads, id)
	}
	return t, ok
}
