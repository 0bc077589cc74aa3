package graph

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/born-ml/gradgraph/internal/tensor"
)

// NodeID is the process-wide identity of a graph node.
type NodeID = uuid.UUID

// Allocator hands out node identities and creation orders.
//
// Orders are strictly increasing for every node built from the same
// allocator, including nodes built concurrently from many goroutines.
// Nodes that will be combined into one graph must share an allocator.
type Allocator struct {
	order atomic.Uint64
}

// NewAllocator returns an allocator whose first order is 1.
func NewAllocator() *Allocator {
	return &Allocator{}
}

var defaultAllocator = NewAllocator()

// DefaultAllocator returns the allocator shared by the whole process.
func DefaultAllocator() *Allocator {
	return defaultAllocator
}

// Next returns a fresh identity and the next creation order.
func (a *Allocator) Next() (NodeID, uint64) {
	return uuid.New(), a.order.Add(1)
}

// Last returns the most recently issued order (0 if none).
func (a *Allocator) Last() uint64 {
	return a.order.Load()
}

// NodeState holds the value a node produced.
//
// The state keeps its own handle on the value (a Clone sharing the buffer),
// so releasing the state never invalidates the caller's tensor. Reading a
// released state is a structural error.
type NodeState struct {
	id    NodeID
	value atomic.Pointer[tensor.RawTensor]
}

func newNodeState(id NodeID, value *tensor.RawTensor) *NodeState {
	s := &NodeState{id: id}
	s.value.Store(value.Clone())
	return s
}

// Value returns the held value. Panics with a StructuralError once released.
func (s *NodeState) Value() *tensor.RawTensor {
	v := s.value.Load()
	if v == nil {
		panic(structural(s.id, "value already released"))
	}
	return v
}

// Release drops the state's handle on its value.
func (s *NodeState) Release() {
	if v := s.value.Swap(nil); v != nil {
		v.Release()
	}
}

// Released reports whether the value has been released.
func (s *NodeState) Released() bool {
	return s.value.Load() == nil
}

// ForwardNode is one value recorded during forward evaluation.
// It is immutable once constructed and safe to share between goroutines.
type ForwardNode struct {
	id    NodeID
	order uint64
	state *NodeState
	ops   ForwardOps

	// consumers counts the recorded operations reading this node, one per
	// input slot; released counts those whose values have been released.
	consumers atomic.Int64
	released  atomic.Int64

	once     sync.Once
	backward *BackwardNode
	convErr  error
}

// NewLeaf records an input value that no operation produced.
func NewLeaf(alloc *Allocator, value *tensor.RawTensor) *ForwardNode {
	return NewNode(alloc, value, leafOps{})
}

// NewNode records a value produced by ops.
func NewNode(alloc *Allocator, value *tensor.RawTensor, ops ForwardOps) *ForwardNode {
	id, order := alloc.Next()
	return &ForwardNode{
		id:    id,
		order: order,
		state: newNodeState(id, value),
		ops:   ops,
	}
}

// ID returns the node identity.
func (n *ForwardNode) ID() NodeID {
	return n.id
}

// Order returns the creation order.
func (n *ForwardNode) Order() uint64 {
	return n.order
}

// State returns the node state.
func (n *ForwardNode) State() *NodeState {
	return n.state
}

// IsLeaf reports whether no operation produced this node.
func (n *ForwardNode) IsLeaf() bool {
	_, ok := n.ops.(leafOps)
	return ok
}

// Consumers returns how many recorded input slots read this node.
func (n *ForwardNode) Consumers() int64 {
	return n.consumers.Load()
}

// Backward returns the backward form of the graph rooted at n.
//
// The conversion runs the first time it is requested; later calls return the
// same BackwardNode (or the same error).
func (n *ForwardNode) Backward() (*BackwardNode, error) {
	n.once.Do(func() {
		n.backward, n.convErr = convertRoot(n)
	})
	return n.backward, n.convErr
}

// BackwardNode is the derivative-aware counterpart of a ForwardNode.
// It shares the forward node's identity, order and state.
type BackwardNode struct {
	id      NodeID
	order   uint64
	state   *NodeState
	ops     BackwardOps
	forward *ForwardNode
}

// ID returns the node identity.
func (n *BackwardNode) ID() NodeID {
	return n.id
}

// Order returns the creation order.
func (n *BackwardNode) Order() uint64 {
	return n.order
}

// State returns the node state.
func (n *BackwardNode) State() *NodeState {
	return n.state
}

// Step runs the node's local gradient rule against grads.
func (n *BackwardNode) Step(grads *Grads) {
	n.ops.Step(n, grads)
}

// Parents returns the nodes that produced this node's inputs.
func (n *BackwardNode) Parents() []*BackwardNode {
	return n.ops.Parents()
}

// RegisterGrad moves this node's accumulated gradient from src into dst,
// whether or not the node has parents. No-op when src holds none.
func (n *BackwardNode) RegisterGrad(src, dst *Grads) {
	if g, ok := src.take(n.id); ok {
		dst.Register(n.id, g)
	}
}

// release drops the node's value once every operation reading it has been
// released, and reports whether it did. Leaves are never released: they belong
// to the caller and may feed graphs not built yet.
//
// A released node is never reached again: its consumers kept it alive until
// they were released themselves, and new consumers fail at conversion. The
// counts are therefore exact across traversals.
func (n *BackwardNode) release() bool {
	f := n.forward
	if f.IsLeaf() || n.state.Released() || f.released.Load() < f.consumers.Load() {
		return false
	}
	n.state.Release()
	for _, parent := range n.Parents() {
		parent.forward.released.Add(1)
	}
	return true
}
