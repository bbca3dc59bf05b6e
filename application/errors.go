package application

import (
	"fmt"

	"github.com/felixgeelhaar/checklist-go/domain/workflow"
)

// StateTransitionError indicates a skill result could not be merged into
// agent state without violating a workflow invariant. The prior state is
// left untouched when this is returned.
type StateTransitionError struct {
	From   workflow.Phase
	To     workflow.Phase
	Reason string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("cannot transition %s -> %s: %s", e.From, e.To, e.Reason)
}
