package graph

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrStructural marks a violated graph invariant: a node whose value was
// already released, a gradient of the wrong shape, or a parent that was not
// created before its child. These are programming errors, not conditions to
// retry.
var ErrStructural = errors.New("autodiff: structural inconsistency")

// StructuralError identifies the node that broke a graph invariant.
type StructuralError struct {
	NodeID NodeID
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%v: node %s: %s", ErrStructural, e.NodeID, e.Reason)
}

// Is makes errors.Is(err, ErrStructural) hold for every StructuralError.
func (e *StructuralError) Is(target error) bool {
	return target == ErrStructural
}

// structural builds a StructuralError with a stack trace attached.
func structural(id NodeID, format string, args ...any) error {
	return errors.WithStack(&StructuralError{
		NodeID: id,
		Reason: fmt.Sprintf(format, args...),
	})
}

// IsStructural reports whether err (or anything it wraps) is a StructuralError.
func IsStructural(err error) bool {
	return errors.Is(err, ErrStructural)
}
