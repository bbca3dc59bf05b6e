package application

import (
	"errors"
	"testing"

	"github.com/felixgeelhaar/checklist-go/domain/checklist"
	"github.com/felixgeelhaar/checklist-go/domain/memory"
	"github.com/felixgeelhaar/checklist-go/domain/workflow"
)

func stateInPhase(p workflow.Phase) *memory.AgentState {
	state := memory.New("t1")
	state.Workflow.Phase = p
	return state
}

func TestDecidePerPhase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		phase     workflow.Phase
		wantType  workflow.DecisionType
		wantSkill workflow.SkillID
		wantTool  workflow.ToolID
	}{
		{workflow.PhaseParsingTask, workflow.DecisionRunSkill, workflow.SkillParseTask, ""},
		{workflow.PhaseScopingAndAssumptions, workflow.DecisionRunSkill, workflow.SkillScopeAndAssume, ""},
		{workflow.PhaseDecidingResearch, workflow.DecisionRunSkill, workflow.SkillDecideResearch, ""},
		{workflow.PhaseWebResearch, workflow.DecisionInvokeTool, "", workflow.ToolTavilySearch},
		{workflow.PhaseSourceSelection, workflow.DecisionRunSkill, workflow.SkillSourceSelection, ""},
		{workflow.PhaseExtractingSignals, workflow.DecisionRunSkill, workflow.SkillExtractSignals, ""},
		{workflow.PhaseIntegratingFindings, workflow.DecisionRunSkill, workflow.SkillIntegrateFindings, ""},
		{workflow.PhaseOutlineSkeleton, workflow.DecisionRunSkill, workflow.SkillOutlineSkeleton, ""},
		{workflow.PhaseDraftingChecklist, workflow.DecisionRunSkill, workflow.SkillDraftChecklist, ""},
		{workflow.PhaseDeepeningChecklist, workflow.DecisionRunSkill, workflow.SkillDeepenChecklist, ""},
		{workflow.PhaseNormalizingChecklist, workflow.DecisionRunSkill, workflow.SkillNormalizeChecklist, ""},
		{workflow.PhaseSelfJudge, workflow.DecisionRunSkill, workflow.SkillSelfJudge, ""},
		{workflow.PhaseGapAnalysis, workflow.DecisionRunSkill, workflow.SkillGapAnalysis, ""},
		{workflow.PhaseFinalizingChecklist, workflow.DecisionRunSkill, workflow.SkillFinalizeChecklist, ""},
		{workflow.PhaseEmittingChecklist, workflow.DecisionRunSkill, workflow.SkillEmitChecklist, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			t.Parallel()

			decision, err := Decide(stateInPhase(tt.phase))
			if err != nil {
				t.Fatalf("Decide error: %v", err)
			}
			if decision.Type != tt.wantType {
				t.Errorf("type = %s, want %s", decision.Type, tt.wantType)
			}
			if decision.Skill != tt.wantSkill {
				t.Errorf("skill = %s, want %s", decision.Skill, tt.wantSkill)
			}
			if decision.Tool != tt.wantTool {
				t.Errorf("tool = %s, want %s", decision.Tool, tt.wantTool)
			}
		})
	}
}

func TestDecideWaiting(t *testing.T) {
	t.Parallel()

	empty := stateInPhase(workflow.PhaseWaitingForTaskInput)
	decision, err := Decide(empty)
	if err != nil {
		t.Fatalf("Decide error: %v", err)
	}
	if decision.Type != workflow.DecisionNoop {
		t.Errorf("waiting without input = %s, want noop", decision.Type)
	}

	withInput := stateInPhase(workflow.PhaseWaitingForTaskInput)
	withInput.Working.TaskInput = "plan a launch"
	decision, err = Decide(withInput)
	if err != nil {
		t.Fatalf("Decide error: %v", err)
	}
	if decision.Type != workflow.DecisionRunSkill || decision.Skill != workflow.SkillParseTask {
		t.Errorf("waiting with input = %+v, want parse skill", decision)
	}

	emitted := stateInPhase(workflow.PhaseWaitingForTaskInput)
	emitted.Workflow.Emitted = true
	emitted.Working.Final = &checklist.Package{Sections: []checklist.Section{{Name: "s"}}}
	decision, err = Decide(emitted)
	if err != nil {
		t.Fatalf("Decide error: %v", err)
	}
	if decision.Type != workflow.DecisionComplete {
		t.Errorf("waiting after emit = %s, want complete", decision.Type)
	}
}

func TestDecideIsDeterministic(t *testing.T) {
	t.Parallel()

	state := stateInPhase(workflow.PhaseDraftingChecklist)
	first, err := Decide(state)
	if err != nil {
		t.Fatalf("Decide error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Decide(state)
		if err != nil {
			t.Fatalf("Decide error: %v", err)
		}
		if again != first {
			t.Fatalf("Decide not deterministic: %+v vs %+v", again, first)
		}
	}
}

func TestDecideInvalidPhase(t *testing.T) {
	t.Parallel()

	_, err := Decide(stateInPhase(workflow.Phase("bogus")))
	if !errors.Is(err, workflow.ErrInvalidPhase) {
		t.Errorf("error = %v, want ErrInvalidPhase", err)
	}
}
