package graph

import "github.com/born-ml/gradgraph/internal/tensor"

// ForwardOps is the record an operation attaches to the node it produced.
//
// Implementations are immutable and may be shared between goroutines.
// ToBackward must not touch computed values beyond capturing node states.
type ForwardOps interface {
	ToBackward(c *Converter) BackwardOps
}

// BackwardOps is the backward form of a recorded operation.
type BackwardOps interface {
	// Step reads the gradient of out from grads, applies the local
	// derivative rule and accumulates the result into the input entries.
	Step(out *BackwardNode, grads *Grads)

	// Parents returns the nodes that produced the operation's inputs.
	Parents() []*BackwardNode
}

// UnaryState is the value bundle a unary rule sees.
type UnaryState struct {
	Input   *NodeState
	Output  *NodeState
	Grad    *tensor.RawTensor // gradient of the output
	Backend tensor.Backend
}

// BinaryState is the value bundle a binary rule sees.
type BinaryState struct {
	Left    *NodeState
	Right   *NodeState
	Output  *NodeState
	Grad    *tensor.RawTensor // gradient of the output
	Backend tensor.Backend
}

// NaryState is the value bundle a rule over a variable number of inputs sees.
type NaryState struct {
	Inputs  []*NodeState
	Output  *NodeState
	Grad    *tensor.RawTensor // gradient of the output
	Backend tensor.Backend
}

// UnaryRule computes the vector-Jacobian product of a one-input operation.
// Returning nil means no gradient flows to the input.
type UnaryRule interface {
	Partial(s UnaryState) *tensor.RawTensor
}

// BinaryRule computes the vector-Jacobian products of a two-input operation.
// Either side may return nil when that input is not differentiable.
type BinaryRule interface {
	PartialLeft(s BinaryState) *tensor.RawTensor
	PartialRight(s BinaryState) *tensor.RawTensor
}

// NaryRule computes the vector-Jacobian products of an operation over any
// number of inputs. Partials returns one entry per input, nil where no
// gradient flows.
type NaryRule interface {
	Partials(s NaryState) []*tensor.RawTensor
}

// leafOps marks an input node.
type leafOps struct{}

func (leafOps) ToBackward(*Converter) BackwardOps {
	return leafBackward{}
}

type leafBackward struct{}

func (leafBackward) Step(*BackwardNode, *Grads) {}

func (leafBackward) Parents() []*BackwardNode {
	return nil
}

// UnaryRecorded records a one-input operation.
type UnaryRecorded struct {
	input   *ForwardNode
	rule    UnaryRule
	backend tensor.Backend
}

// NewUnary records rule applied to input; backend evaluates the rule later.
func NewUnary(input *ForwardNode, rule UnaryRule, backend tensor.Backend) *UnaryRecorded {
	input.consumers.Add(1)
	return &UnaryRecorded{input: input, rule: rule, backend: backend}
}

// ToBackward converts the input and binds it to the rule.
func (r *UnaryRecorded) ToBackward(c *Converter) BackwardOps {
	return &unaryBackward{
		input:   c.Convert(r.input),
		rule:    r.rule,
		backend: r.backend,
	}
}

type unaryBackward struct {
	input   *BackwardNode
	rule    UnaryRule
	backend tensor.Backend
}

func (u *unaryBackward) Step(out *BackwardNode, grads *Grads) {
	g, ok := grads.Get(out.id)
	if !ok {
		return
	}
	delta := u.rule.Partial(UnaryState{
		Input:   u.input.state,
		Output:  out.state,
		Grad:    g,
		Backend: u.backend,
	})
	if delta != nil {
		grads.Accumulate(u.input.id, delta)
	}
}

func (u *unaryBackward) Parents() []*BackwardNode {
	return []*BackwardNode{u.input}
}

// BinaryRecorded records a two-input operation.
type BinaryRecorded struct {
	lhs, rhs *ForwardNode
	rule     BinaryRule
	backend  tensor.Backend
}

// NewBinary records rule applied to lhs and rhs.
func NewBinary(lhs, rhs *ForwardNode, rule BinaryRule, backend tensor.Backend) *BinaryRecorded {
	lhs.consumers.Add(1)
	rhs.consumers.Add(1)
	return &BinaryRecorded{lhs: lhs, rhs: rhs, rule: rule, backend: backend}
}

// ToBackward converts both inputs and binds them to the rule.
func (r *BinaryRecorded) ToBackward(c *Converter) BackwardOps {
	return &binaryBackward{
		lhs:     c.Convert(r.lhs),
		rhs:     c.Convert(r.rhs),
		rule:    r.rule,
		backend: r.backend,
	}
}

type binaryBackward struct {
	lhs, rhs *BackwardNode
	rule     BinaryRule
	backend  tensor.Backend
}

func (b *binaryBackward) Step(out *BackwardNode, grads *Grads) {
	g, ok := grads.Get(out.id)
	if !ok {
		return
	}
	state := BinaryState{
		Left:    b.lhs.state,
		Right:   b.rhs.state,
		Output:  out.state,
		Grad:    g,
		Backend: b.backend,
	}
	// Both partials are computed before accumulating so that x∘x reads
	// consistent inputs.
	left := b.rule.PartialLeft(state)
	right := b.rule.PartialRight(state)
	if left != nil {
		grads.Accumulate(b.lhs.id, left)
	}
	if right != nil {
		grads.Accumulate(b.rhs.id, right)
	}
}

func (b *binaryBackward) Parents() []*BackwardNode {
	return []*BackwardNode{b.lhs, b.rhs}
}

// NaryRecorded records an operation over a variable number of inputs.
type NaryRecorded struct {
	inputs  []*ForwardNode
	rule    NaryRule
	backend tensor.Backend
}

// NewNary records rule applied to inputs in order.
func NewNary(inputs []*ForwardNode, rule NaryRule, backend tensor.Backend) *NaryRecorded {
	for _, in := range inputs {
		in.consumers.Add(1)
	}
	return &NaryRecorded{inputs: inputs, rule: rule, backend: backend}
}

// ToBackward converts every input and binds them to the rule.
func (r *NaryRecorded) ToBackward(c *Converter) BackwardOps {
	inputs := make([]*BackwardNode, len(r.inputs))
	for i, in := range r.inputs {
		inputs[i] = c.Convert(in)
	}
	return &naryBackward{inputs: inputs, rule: r.rule, backend: r.backend}
}

type naryBackward struct {
	inputs  []*BackwardNode
	rule    NaryRule
	backend tensor.Backend
}

func (n *naryBackward) Step(out *BackwardNode, grads *Grads) {
	g, ok := grads.Get(out.id)
	if !ok {
		return
	}
	states := make([]*NodeState, len(n.inputs))
	for i, in := range n.inputs {
		states[i] = in.state
	}
	partials := n.rule.Partials(NaryState{
		Inputs:  states,
		Output:  out.state,
		Grad:    g,
		Backend: n.backend,
	})
	if len(partials) != len(n.inputs) {
		panic(structural(out.id, "rule returned %d partials for %d inputs", len(partials), len(n.inputs)))
	}
	for i, delta := range partials {
		if delta != nil {
			grads.Accumulate(n.inputs[i].id, delta)
		}
	}
}

func (n *naryBackward) Parents() []*BackwardNode {
	return n.inputs
}
