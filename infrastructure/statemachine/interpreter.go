package statemachine

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/checklist-go/domain/workflow"
)

// Interpreter wraps the statekit interpreter with workflow-specific
// helpers: phase-typed transitions and resume-from-snapshot.
type Interpreter struct {
	interp *statekit.Interpreter[*Context]
	ctx    *Context
}

// NewInterpreter creates an interpreter for the workflow statechart.
func NewInterpreter(machine *statekit.MachineConfig[*Context], ctx *Context) *Interpreter {
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **Context) {
		*c = ctx
	})
	return &Interpreter{interp: interp, ctx: ctx}
}

// Start enters the initial state.
func (i *Interpreter) Start() {
	i.interp.Start()
	i.ctx.Phase = workflow.Phase(i.interp.State().Value)
}

// Stop stops the interpreter.
func (i *Interpreter) Stop() {
	i.interp.Stop()
}

// Phase returns the current phase.
func (i *Interpreter) Phase() workflow.Phase {
	return workflow.Phase(i.interp.State().Value)
}

// Transition attempts to move to the target phase.
func (i *Interpreter) Transition(to workflow.Phase, reason string) error {
	from := i.ctx.Phase
	if !workflow.CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", workflow.ErrInvalidTransition, from, to)
	}

	i.interp.Send(statekit.Event{
		Type:    EventForTransition(to),
		Payload: TransitionPayload{ToPhase: to, Reason: reason},
	})

	if got := workflow.Phase(i.interp.State().Value); got != to {
		return fmt.Errorf("%w: machine settled in %s, expected %s", workflow.ErrInvalidTransition, got, to)
	}
	return nil
}

// History returns the transitions recorded so far.
func (i *Interpreter) History() []Transition {
	return i.ctx.History
}

// ResumeFrom restores the interpreter to a specific phase, used when
// picking up a persisted thread.
func (i *Interpreter) ResumeFrom(phase workflow.Phase) error {
	if !phase.IsValid() {
		return fmt.Errorf("%w: %q", workflow.ErrInvalidPhase, phase)
	}

	snapshot := statekit.Snapshot[*Context]{
		MachineID:    "checklist-workflow",
		CurrentState: stateID(phase),
		Context:      i.ctx,
		CreatedAt:    time.Now(),
	}
	if err := i.interp.Restore(snapshot); err != nil {
		return fmt.Errorf("restore phase: %w", err)
	}
	i.ctx.Phase = phase
	return nil
}
