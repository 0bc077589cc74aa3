package autodiff

import (
	"sync"
	"sync/atomic"

	"github.com/born-ml/gradgraph/internal/autodiff/graph"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Graph records which forward node produced each tensor.
//
// It is safe for concurrent use: several goroutines may build independent or
// overlapping graphs on the same backend at the same time. Nodes are never
// mutated after they are registered.
//
// Every recorded tensor, and through it its backward graph, stays reachable
// from the registry until Clear or Prune. Training loops call one of them
// once per iteration.
//
// Usage:
//
//	g := backend.Graph()
//	g.StopRecording()  // inference only
//	g.StartRecording()
//	g.Clear()          // drop the previous iteration's nodes
type Graph struct {
	mu        sync.RWMutex
	nodes     map[*tensor.RawTensor]*graph.ForwardNode
	alloc     *graph.Allocator
	recording atomic.Bool
	metrics   *graph.Metrics
}

// NewGraph creates a recording registry drawing orders from alloc.
// metrics may be nil.
func NewGraph(alloc *graph.Allocator, metrics *graph.Metrics) *Graph {
	g := &Graph{
		nodes:   make(map[*tensor.RawTensor]*graph.ForwardNode),
		alloc:   alloc,
		metrics: metrics,
	}
	g.recording.Store(true)
	return g
}

// StartRecording enables operation recording.
func (g *Graph) StartRecording() {
	g.recording.Store(true)
}

// StopRecording disables operation recording.
func (g *Graph) StopRecording() {
	g.recording.Store(false)
}

// IsRecording reports whether operations are being recorded.
func (g *Graph) IsRecording() bool {
	return g.recording.Load()
}

// Allocator returns the allocator used for new nodes.
func (g *Graph) Allocator() *graph.Allocator {
	return g.alloc
}

// Track returns the node for raw, registering raw as a leaf if no operation
// produced it.
//
// A tensor keeps the same node, and so the same gradient key, until Clear or
// Prune forgets it. Backward passes never release leaves, so parameters can be
// reused across iterations and stores from earlier passes stay readable.
func (g *Graph) Track(raw *tensor.RawTensor) *graph.ForwardNode {
	g.mu.RLock()
	n, ok := g.nodes[raw]
	g.mu.RUnlock()
	if ok {
		return n
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if n, ok := g.nodes[raw]; ok {
		return n
	}
	n = graph.NewLeaf(g.alloc, raw)
	g.nodes[raw] = n
	g.countNode()
	return n
}

// Node returns the node registered for raw.
func (g *Graph) Node(raw *tensor.RawTensor) (*graph.ForwardNode, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[raw]
	return n, ok
}

// Len returns the number of registered tensors.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// Clear forgets every registered tensor.
// Nodes already referenced by live graphs are unaffected.
// Tensors used after Clear are tracked again as fresh leaves.
func (g *Graph) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	clear(g.nodes)
}

// record registers raw as produced by ops.
func (g *Graph) record(raw *tensor.RawTensor, ops graph.ForwardOps) *graph.ForwardNode {
	n := graph.NewNode(g.alloc, raw, ops)
	g.mu.Lock()
	g.nodes[raw] = n
	g.mu.Unlock()
	g.countNode()
	return n
}

func (g *Graph) countNode() {
	if g.metrics != nil {
		g.metrics.Nodes.Inc()
	}
}

// Prune forgets the recorded (non-leaf) tensors whose values were released by
// a backward pass and returns how many were dropped. Their graphs become
// collectable; leaves and values still shared with other terminals stay.
//
// A pruned tensor used again enters the graph as a fresh leaf, so gradients
// stop at it.
func (g *Graph) Prune() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for raw, node := range g.nodes {
		if !node.IsLeaf() && node.State().Released() {
			delete(g.nodes, raw)
			n++
		}
	}
	return n
}
