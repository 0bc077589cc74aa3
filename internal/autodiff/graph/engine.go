package graph

import (
	"container/heap"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/born-ml/gradgraph/internal/tensor"
)

// Engine runs backward traversals.
//
// An Engine holds only configuration and may be shared; every Run owns its
// own queue, visited set and gradient stores and runs on the calling goroutine.
type Engine struct {
	cfg    Config
	logger *slog.Logger
}

// NewEngine creates an engine.
func NewEngine(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default().With(slog.String("component", "autodiff"))
	}
	return &Engine{cfg: cfg, logger: logger}
}

// Run propagates seed from root to every node reachable from it and returns
// the gradient store.
//
// Nodes are processed by descending creation order and each node's step runs
// exactly once. Structural failures abort the traversal and are returned as
// errors matching ErrStructural.
func (e *Engine) Run(root *BackwardNode, seed *tensor.RawTensor, backend tensor.Backend) (grads *Grads, err error) {
	start := time.Now()
	steps := 0
	if m := e.cfg.Metrics; m != nil {
		m.Traversals.Inc()
	}

	defer func() {
		if r := recover(); r != nil {
			err = recoverStructural(r)
		}
		if err != nil {
			grads = nil
			err = errors.Wrapf(err, "backward from node %s", root.id)
			e.logger.Error("backward aborted",
				slog.String("root", root.id.String()),
				slog.Int("steps", steps),
				slog.String("error", err.Error()))
			if m := e.cfg.Metrics; m != nil {
				m.Failures.Inc()
			}
			return
		}
		elapsed := time.Since(start)
		e.logger.Debug("backward complete",
			slog.String("root", root.id.String()),
			slog.Int("steps", steps),
			slog.Int("grads", grads.Len()),
			slog.Duration("duration", elapsed))
		if m := e.cfg.Metrics; m != nil {
			m.Steps.Add(float64(steps))
			m.Duration.Observe(elapsed.Seconds())
		}
	}()

	if root.state.Released() {
		return nil, structural(root.id, "graph already traversed and released")
	}
	if !seed.Shape().Equal(root.state.Value().Shape()) {
		return nil, structural(root.id, "seed shape %v does not match output %v",
			seed.Shape(), root.state.Value().Shape())
	}

	// work holds gradients still being accumulated; a node's entry moves to
	// grads once the node has stepped, since nothing writes to it afterwards.
	work := NewGrads(backend)
	grads = NewGrads(backend)
	work.Register(root.id, seed)

	pending := &nodeQueue{}
	heap.Push(pending, root)
	visited := make(map[NodeID]struct{})

	for pending.Len() > 0 {
		node := heap.Pop(pending).(*BackwardNode)
		if _, ok := visited[node.id]; ok {
			continue
		}

		node.Step(work)
		steps++

		for _, parent := range node.Parents() {
			if parent.order >= node.order {
				return nil, structural(parent.id, "parent order %d not below child %s order %d",
					parent.order, node.id, node.order)
			}
			if _, ok := visited[parent.id]; !ok {
				heap.Push(pending, parent)
			}
		}
		visited[node.id] = struct{}{}

		node.RegisterGrad(work, grads)
		if e.cfg.ReleaseValues {
			node.release()
		}
	}

	return grads, nil
}

// nodeQueue is a max-heap of backward nodes keyed by creation order.
type nodeQueue []*BackwardNode

func (q nodeQueue) Len() int           { return len(q) }
func (q nodeQueue) Less(i, j int) bool { return q[i].order > q[j].order }
func (q nodeQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x any) {
	*q = append(*q, x.(*BackwardNode))
}

func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return node
}
