package statemachine

import (
	"time"

	"github.com/felixgeelhaar/statekit"
)

// recordTransition appends the edge to the context history and advances
// the tracked phase. Actions receive a pointer to the context; our
// context is *Context, so actions receive **Context.
func recordTransition(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	c := *ctx

	to := phaseFromEvent(event)
	var reason string
	if payload, ok := event.Payload.(TransitionPayload); ok {
		reason = payload.Reason
	}

	c.History = append(c.History, Transition{
		From:   c.Phase,
		To:     to,
		Reason: reason,
		At:     time.Now().UTC(),
	})
	c.Phase = to
}
