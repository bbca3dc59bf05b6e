package statemachine

import (
	"errors"
	"testing"

	"github.com/felixgeelhaar/checklist-go/domain/workflow"
)

func newStartedInterpreter(t *testing.T) *Interpreter {
	t.Helper()

	machine, err := NewWorkflowMachine()
	if err != nil {
		t.Fatalf("NewWorkflowMachine: %v", err)
	}
	interp := NewInterpreter(machine, NewContext("t1"))
	interp.Start()
	t.Cleanup(interp.Stop)
	return interp
}

func TestMachineStartsWaiting(t *testing.T) {
	t.Parallel()

	interp := newStartedInterpreter(t)
	if got := interp.Phase(); got != workflow.PhaseWaitingForTaskInput {
		t.Errorf("initial phase = %s", got)
	}
}

func TestMachineWalksDirectPath(t *testing.T) {
	t.Parallel()

	interp := newStartedInterpreter(t)

	path := []workflow.Phase{
		workflow.PhaseParsingTask,
		workflow.PhaseScopingAndAssumptions,
		workflow.PhaseDecidingResearch,
		workflow.PhaseOutlineSkeleton,
		workflow.PhaseDraftingChecklist,
		workflow.PhaseDeepeningChecklist,
		workflow.PhaseNormalizingChecklist,
		workflow.PhaseSelfJudge,
		workflow.PhaseFinalizingChecklist,
		workflow.PhaseEmittingChecklist,
		workflow.PhaseWaitingForTaskInput,
	}
	for _, to := range path {
		if err := interp.Transition(to, "walk"); err != nil {
			t.Fatalf("Transition(%s): %v", to, err)
		}
		if got := interp.Phase(); got != to {
			t.Fatalf("phase = %s, want %s", got, to)
		}
	}

	history := interp.History()
	if len(history) != len(path) {
		t.Errorf("history entries = %d, want %d", len(history), len(path))
	}
	if history[0].From != workflow.PhaseWaitingForTaskInput || history[0].To != workflow.PhaseParsingTask {
		t.Errorf("first transition = %+v", history[0])
	}
}

func TestMachineWalksResearchBranch(t *testing.T) {
	t.Parallel()

	interp := newStartedInterpreter(t)

	path := []workflow.Phase{
		workflow.PhaseParsingTask,
		workflow.PhaseScopingAndAssumptions,
		workflow.PhaseDecidingResearch,
		workflow.PhaseWebResearch,
		workflow.PhaseSourceSelection,
		workflow.PhaseExtractingSignals,
		workflow.PhaseIntegratingFindings,
		workflow.PhaseOutlineSkeleton,
	}
	for _, to := range path {
		if err := interp.Transition(to, "walk"); err != nil {
			t.Fatalf("Transition(%s): %v", to, err)
		}
	}
}

func TestMachineWalksGapRoutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		to   workflow.Phase
	}{
		{"back to research decision", workflow.PhaseDecidingResearch},
		{"back to deepening", workflow.PhaseDeepeningChecklist},
		{"forward to finalizing", workflow.PhaseFinalizingChecklist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			interp := newStartedInterpreter(t)
			if err := interp.ResumeFrom(workflow.PhaseGapAnalysis); err != nil {
				t.Fatalf("ResumeFrom: %v", err)
			}
			if err := interp.Transition(tt.to, "gap verdict"); err != nil {
				t.Fatalf("Transition(%s): %v", tt.to, err)
			}
			if got := interp.Phase(); got != tt.to {
				t.Errorf("phase = %s, want %s", got, tt.to)
			}
		})
	}
}

func TestMachineRejectsIllegalTransition(t *testing.T) {
	t.Parallel()

	interp := newStartedInterpreter(t)

	err := interp.Transition(workflow.PhaseEmittingChecklist, "skip ahead")
	if !errors.Is(err, workflow.ErrInvalidTransition) {
		t.Errorf("error = %v, want ErrInvalidTransition", err)
	}
	if got := interp.Phase(); got != workflow.PhaseWaitingForTaskInput {
		t.Errorf("phase moved to %s after rejected transition", got)
	}
}

func TestResumeFrom(t *testing.T) {
	t.Parallel()

	interp := newStartedInterpreter(t)

	if err := interp.ResumeFrom(workflow.PhaseSelfJudge); err != nil {
		t.Fatalf("ResumeFrom: %v", err)
	}
	if got := interp.Phase(); got != workflow.PhaseSelfJudge {
		t.Errorf("phase = %s, want self_judge", got)
	}
	if err := interp.Transition(workflow.PhaseGapAnalysis, "below threshold"); err != nil {
		t.Errorf("Transition after resume: %v", err)
	}

	if err := interp.ResumeFrom(workflow.Phase("bogus")); !errors.Is(err, workflow.ErrInvalidPhase) {
		t.Errorf("ResumeFrom(bogus) = %v, want ErrInvalidPhase", err)
	}
}

func TestEventForTransition(t *testing.T) {
	t.Parallel()

	if got := EventForTransition(workflow.PhaseSelfJudge); string(got) != "TO_SELF_JUDGE" {
		t.Errorf("event = %s", got)
	}
}
