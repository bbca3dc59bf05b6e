// Package statemachine provides the statekit statechart for the
// checklist workflow, mirroring the phase transition table.
package statemachine

import (
	"strings"
	"time"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/checklist-go/domain/workflow"
)

// Context carries the thread identity and transition history through
// the statechart.
type Context struct {
	ThreadID string
	Phase    workflow.Phase
	History  []Transition
}

// Transition is one recorded statechart edge.
type Transition struct {
	From   workflow.Phase
	To     workflow.Phase
	Reason string
	At     time.Time
}

// NewContext creates a machine context for a thread.
func NewContext(threadID string) *Context {
	return &Context{
		ThreadID: threadID,
		Phase:    workflow.PhaseWaitingForTaskInput,
	}
}

func stateID(p workflow.Phase) statekit.StateID {
	return statekit.StateID(p)
}

// EventForTransition returns the event type that targets a phase.
func EventForTransition(to workflow.Phase) statekit.EventType {
	return statekit.EventType("TO_" + strings.ToUpper(string(to)))
}

// Event type aliases, one per transition target.
var (
	evParse     = EventForTransition(workflow.PhaseParsingTask)
	evScope     = EventForTransition(workflow.PhaseScopingAndAssumptions)
	evDecide    = EventForTransition(workflow.PhaseDecidingResearch)
	evResearch  = EventForTransition(workflow.PhaseWebResearch)
	evSelect    = EventForTransition(workflow.PhaseSourceSelection)
	evExtract   = EventForTransition(workflow.PhaseExtractingSignals)
	evIntegrate = EventForTransition(workflow.PhaseIntegratingFindings)
	evOutline   = EventForTransition(workflow.PhaseOutlineSkeleton)
	evDraft     = EventForTransition(workflow.PhaseDraftingChecklist)
	evDeepen    = EventForTransition(workflow.PhaseDeepeningChecklist)
	evNormalize = EventForTransition(workflow.PhaseNormalizingChecklist)
	evJudge     = EventForTransition(workflow.PhaseSelfJudge)
	evGap       = EventForTransition(workflow.PhaseGapAnalysis)
	evFinalize  = EventForTransition(workflow.PhaseFinalizingChecklist)
	evEmit      = EventForTransition(workflow.PhaseEmittingChecklist)
	evWait      = EventForTransition(workflow.PhaseWaitingForTaskInput)
)

// NewWorkflowMachine builds the canonical checklist statechart. Every
// edge of the transition table appears here; branch points carry one
// event per successor.
func NewWorkflowMachine() (*statekit.MachineConfig[*Context], error) {
	return statekit.NewMachine[*Context]("checklist-workflow").
		WithInitial(stateID(workflow.PhaseWaitingForTaskInput)).
		WithContext(&Context{}).
		WithAction("recordTransition", recordTransition).
		WithGuard("legalEdge", guardLegalEdge).
		State(stateID(workflow.PhaseWaitingForTaskInput)).
		On(evParse).Target(stateID(workflow.PhaseParsingTask)).Guard("legalEdge").Do("recordTransition").
		Done().
		State(stateID(workflow.PhaseParsingTask)).
		On(evScope).Target(stateID(workflow.PhaseScopingAndAssumptions)).Guard("legalEdge").Do("recordTransition").
		Done().
		State(stateID(workflow.PhaseScopingAndAssumptions)).
		On(evDecide).Target(stateID(workflow.PhaseDecidingResearch)).Guard("legalEdge").Do("recordTransition").
		Done().
		State(stateID(workflow.PhaseDecidingResearch)).
		On(evResearch).Target(stateID(workflow.PhaseWebResearch)).Guard("legalEdge").Do("recordTransition").
		On(evOutline).Target(stateID(workflow.PhaseOutlineSkeleton)).Guard("legalEdge").Do("recordTransition").
		Done().
		State(stateID(workflow.PhaseWebResearch)).
		On(evSelect).Target(stateID(workflow.PhaseSourceSelection)).Guard("legalEdge").Do("recordTransition").
		Done().
		State(stateID(workflow.PhaseSourceSelection)).
		On(evExtract).Target(stateID(workflow.PhaseExtractingSignals)).Guard("legalEdge").Do("recordTransition").
		Done().
		State(stateID(workflow.PhaseExtractingSignals)).
		On(evIntegrate).Target(stateID(workflow.PhaseIntegratingFindings)).Guard("legalEdge").Do("recordTransition").
		Done().
		State(stateID(workflow.PhaseIntegratingFindings)).
		On(evOutline).Target(stateID(workflow.PhaseOutlineSkeleton)).Guard("legalEdge").Do("recordTransition").
		Done().
		State(stateID(workflow.PhaseOutlineSkeleton)).
		On(evDraft).Target(stateID(workflow.PhaseDraftingChecklist)).Guard("legalEdge").Do("recordTransition").
		Done().
		State(stateID(workflow.PhaseDraftingChecklist)).
		On(evDeepen).Target(stateID(workflow.PhaseDeepeningChecklist)).Guard("legalEdge").Do("recordTransition").
		Done().
		State(stateID(workflow.PhaseDeepeningChecklist)).
		On(evNormalize).Target(stateID(workflow.PhaseNormalizingChecklist)).Guard("legalEdge").Do("recordTransition").
		Done().
		State(stateID(workflow.PhaseNormalizingChecklist)).
		On(evJudge).Target(stateID(workflow.PhaseSelfJudge)).Guard("legalEdge").Do("recordTransition").
		Done().
		State(stateID(workflow.PhaseSelfJudge)).
		On(evFinalize).Target(stateID(workflow.PhaseFinalizingChecklist)).Guard("legalEdge").Do("recordTransition").
		On(evGap).Target(stateID(workflow.PhaseGapAnalysis)).Guard("legalEdge").Do("recordTransition").
		Done().
		State(stateID(workflow.PhaseGapAnalysis)).
		On(evDecide).Target(stateID(workflow.PhaseDecidingResearch)).Guard("legalEdge").Do("recordTransition").
		On(evDeepen).Target(stateID(workflow.PhaseDeepeningChecklist)).Guard("legalEdge").Do("recordTransition").
		On(evFinalize).Target(stateID(workflow.PhaseFinalizingChecklist)).Guard("legalEdge").Do("recordTransition").
		Done().
		State(stateID(workflow.PhaseFinalizingChecklist)).
		On(evEmit).Target(stateID(workflow.PhaseEmittingChecklist)).Guard("legalEdge").Do("recordTransition").
		Done().
		State(stateID(workflow.PhaseEmittingChecklist)).
		On(evWait).Target(stateID(workflow.PhaseWaitingForTaskInput)).Guard("legalEdge").Do("recordTransition").
		Done().
		Build()
}
