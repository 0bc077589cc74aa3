// Package graph implements the dynamic computation graph behind reverse-mode
// automatic differentiation.
//
// Forward evaluation produces ForwardNodes. Each node carries a strictly
// increasing creation order handed out by an Allocator, the value it holds,
// and the ForwardOps that produced it. Edges point from a node to the nodes
// its inputs came from, never the other way, so the graph is acyclic by
// construction.
//
// A backward pass first converts the forward graph into BackwardNodes (once,
// memoized by node id, see Converter) and then hands the root to an Engine.
// The engine pops nodes by descending creation order. A node is created after
// all of its inputs, so when it is popped every consumer of its output has
// already contributed to its gradient. Each node's step runs exactly once and
// writes input gradients into a Grads store, summing on fan-out.
//
//	alloc := graph.NewAllocator()
//	x := graph.NewLeaf(alloc, xRaw)
//	y := graph.NewNode(alloc, yRaw, graph.NewUnary(x, rule, backend))
//
//	root, err := y.Backward()
//	grads, err := graph.NewEngine(graph.DefaultConfig()).Run(root, tensor.OnesLike(yRaw), backend)
//	gx, ok := grads.Get(x.ID())
package graph
