package statemachine

import (
	"strings"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/checklist-go/domain/workflow"
)

// TransitionPayload carries the target phase and reason with an event.
type TransitionPayload struct {
	ToPhase workflow.Phase
	Reason  string
}

// guardLegalEdge validates the transition against the workflow table.
// Guards receive the context by value; our context is *Context, so the
// guard receives *Context directly.
func guardLegalEdge(ctx *Context, event statekit.Event) bool {
	if ctx == nil {
		return false
	}
	return workflow.CanTransition(ctx.Phase, phaseFromEvent(event))
}

// phaseFromEvent recovers the target phase from the payload or, failing
// that, from the event type naming convention.
func phaseFromEvent(event statekit.Event) workflow.Phase {
	if payload, ok := event.Payload.(TransitionPayload); ok && payload.ToPhase != "" {
		return payload.ToPhase
	}
	name := strings.TrimPrefix(string(event.Type), "TO_")
	return workflow.Phase(strings.ToLower(name))
}
