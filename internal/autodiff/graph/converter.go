package graph

// Converter turns forward nodes into backward nodes.
//
// Conversion is memoized by node id: a node reached along several paths is
// converted once and every visit gets the same *BackwardNode.
type Converter struct {
	cache map[NodeID]*BackwardNode
}

// NewConverter returns a converter with an empty cache.
func NewConverter() *Converter {
	return &Converter{cache: make(map[NodeID]*BackwardNode)}
}

// Convert returns the backward node for n, converting its inputs first.
// Panics with a StructuralError when n's value was already released.
func (c *Converter) Convert(n *ForwardNode) *BackwardNode {
	if b, ok := c.cache[n.id]; ok {
		return b
	}
	if n.state.Released() {
		panic(structural(n.id, "forward value released before conversion"))
	}

	b := &BackwardNode{
		id:      n.id,
		order:   n.order,
		state:   n.state,
		forward: n,
	}
	b.ops = n.ops.ToBackward(c)
	c.cache[n.id] = b
	return b
}

// Len returns the number of converted nodes.
func (c *Converter) Len() int {
	return len(c.cache)
}

// convertRoot converts the graph rooted at n, turning structural panics into errors.
func convertRoot(n *ForwardNode) (root *BackwardNode, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recoverStructural(r)
		}
	}()
	return NewConverter().Convert(n), nil
}

// recoverStructural converts a recovered StructuralError back into an error
// and re-panics anything else.
func recoverStructural(r any) error {
	if err, ok := r.(error); ok && IsStructural(err) {
		return err
	}
	panic(r)
}
