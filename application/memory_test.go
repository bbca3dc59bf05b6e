package application

import (
	"strings"
	"testing"

	"github.com/felixgeelhaar/checklist-go/domain/checklist"
	"github.com/felixgeelhaar/checklist-go/domain/research"
	"github.com/felixgeelhaar/checklist-go/domain/skill"
	"github.com/felixgeelhaar/checklist-go/domain/workflow"
)

func draftSectionsFixture() []checklist.Section {
	return []checklist.Section{
		{
			Name:      "Prep",
			Objective: "get ready",
			Items: []checklist.Item{
				{Identifier: "1.1", Title: "freeze main", Description: "stop merges"},
				{Identifier: "1.2", Title: "notify team", Description: "announce the window"},
			},
		},
	}
}

func TestApplyAdvancesPhases(t *testing.T) {
	t.Parallel()

	m := NewMemory(3)

	tests := []struct {
		name      string
		phase     workflow.Phase
		id        workflow.SkillID
		out       skill.Output
		wantPhase workflow.Phase
	}{
		{
			"parse to scoping",
			workflow.PhaseParsingTask,
			workflow.SkillParseTask,
			skill.TaskParsingOutput{Narration: "parsed", Goal: "launch the product"},
			workflow.PhaseScopingAndAssumptions,
		},
		{
			"scoping without questions to deciding",
			workflow.PhaseScopingAndAssumptions,
			workflow.SkillScopeAndAssume,
			skill.ScopingOutput{Narration: "scoped", Assumptions: []string{"team of three"}},
			workflow.PhaseDecidingResearch,
		},
		{
			"decide research positive",
			workflow.PhaseDecidingResearch,
			workflow.SkillDecideResearch,
			skill.ResearchDecisionOutput{Narration: "need data", NeedsResearch: true, Justification: "niche", ResearchQuestions: []string{"what changed?"}},
			workflow.PhaseWebResearch,
		},
		{
			"decide research negative skips to outline",
			workflow.PhaseDecidingResearch,
			workflow.SkillDecideResearch,
			skill.ResearchDecisionOutput{Narration: "known domain", Justification: "routine"},
			workflow.PhaseOutlineSkeleton,
		},
		{
			"draft to deepen",
			workflow.PhaseDraftingChecklist,
			workflow.SkillDraftChecklist,
			skill.SectionsOutput{Narration: "drafted", Sections: draftSectionsFixture()},
			workflow.PhaseDeepeningChecklist,
		},
		{
			"judge threshold met",
			workflow.PhaseSelfJudge,
			workflow.SkillSelfJudge,
			skill.SelfJudgeOutput{Narration: "good", Score: 0.9, ThresholdMet: true},
			workflow.PhaseFinalizingChecklist,
		},
		{
			"judge threshold missed",
			workflow.PhaseSelfJudge,
			workflow.SkillSelfJudge,
			skill.SelfJudgeOutput{Narration: "weak", Score: 0.4},
			workflow.PhaseGapAnalysis,
		},
		{
			"finalize to emitting",
			workflow.PhaseFinalizingChecklist,
			workflow.SkillFinalizeChecklist,
			skill.FinalizeOutput{Narration: "done", Sections: draftSectionsFixture(), Highlights: []string{"tight prep"}},
			workflow.PhaseEmittingChecklist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			prior := stateInPhase(tt.phase)
			next, err := m.Apply(prior, tt.id, tt.out)
			if err != nil {
				t.Fatalf("Apply error: %v", err)
			}
			if next.Workflow.Phase != tt.wantPhase {
				t.Errorf("phase = %s, want %s", next.Workflow.Phase, tt.wantPhase)
			}
			if next.Workflow.LastSkill != tt.id {
				t.Errorf("last skill = %s, want %s", next.Workflow.LastSkill, tt.id)
			}
			if len(next.Progress) != len(prior.Progress)+1 {
				t.Error("progress entry not appended")
			}
			if prior.Workflow.Phase != tt.phase {
				t.Error("Apply mutated the prior state")
			}
		})
	}
}

func TestApplyScopingHoldsForClarification(t *testing.T) {
	t.Parallel()

	m := NewMemory(3)
	prior := stateInPhase(workflow.PhaseScopingAndAssumptions)

	next, err := m.Apply(prior, workflow.SkillScopeAndAssume, skill.ScopingOutput{
		Narration:           "need details",
		ClarifyingQuestions: []string{"which environment?", "what deadline?"},
	})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if next.Workflow.Phase != workflow.PhaseScopingAndAssumptions {
		t.Errorf("phase = %s, should hold at scoping", next.Workflow.Phase)
	}
	if !next.Working.AwaitingClarification {
		t.Error("AwaitingClarification should be set")
	}
	if len(next.Working.ClarifyingQuestions) != 2 {
		t.Errorf("questions = %d, want 2", len(next.Working.ClarifyingQuestions))
	}
}

func TestApplyEmitRequiresFinalPackage(t *testing.T) {
	t.Parallel()

	m := NewMemory(3)
	prior := stateInPhase(workflow.PhaseEmittingChecklist)

	_, err := m.Apply(prior, workflow.SkillEmitChecklist, skill.EmitOutput{
		Narration: "done", FinalMessage: "here you go",
	})
	if err == nil {
		t.Fatal("emit without finalized package should fail")
	}
	if !strings.Contains(err.Error(), "no finalized checklist") {
		t.Errorf("unexpected error: %v", err)
	}
	if prior.Workflow.Emitted {
		t.Error("failed apply mutated prior state")
	}
}

func TestApplyEmitSetsCompletionState(t *testing.T) {
	t.Parallel()

	m := NewMemory(3)
	prior := stateInPhase(workflow.PhaseEmittingChecklist)
	prior.Working.Final = &checklist.Package{Sections: draftSectionsFixture()}

	next, err := m.Apply(prior, workflow.SkillEmitChecklist, skill.EmitOutput{
		Narration:    "shipped",
		FinalMessage: "your checklist is ready",
		CallToAction: "tell me when items are done",
	})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if next.Workflow.Phase != workflow.PhaseWaitingForTaskInput {
		t.Errorf("phase = %s, want waiting", next.Workflow.Phase)
	}
	if !next.Workflow.Emitted {
		t.Error("Emitted should be set")
	}
	if next.Working.FinalMessage != "your checklist is ready" {
		t.Errorf("final message = %q", next.Working.FinalMessage)
	}
	if next.Working.CallToAction == "" {
		t.Error("call to action should be kept")
	}
}

func TestApplyGapRouteForcedReadyAtRevisitBound(t *testing.T) {
	t.Parallel()

	m := NewMemory(2)
	state := stateInPhase(workflow.PhaseGapAnalysis)

	out := skill.GapAnalysisOutput{Narration: "more depth", Route: workflow.GapNeedsDepth, Reason: "shallow"}

	first, err := m.Apply(state, workflow.SkillGapAnalysis, out)
	if err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if first.Workflow.Phase != workflow.PhaseDeepeningChecklist {
		t.Errorf("first revisit phase = %s, want deepening", first.Workflow.Phase)
	}

	first.Workflow.Phase = workflow.PhaseGapAnalysis
	second, err := m.Apply(first, workflow.SkillGapAnalysis, out)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if second.Workflow.Phase != workflow.PhaseFinalizingChecklist {
		t.Errorf("bounded revisit phase = %s, want finalizing", second.Workflow.Phase)
	}
	if second.Workflow.GapRoute != workflow.GapReady {
		t.Errorf("route = %s, want forced ready", second.Workflow.GapRoute)
	}
}

func TestApplyGapNeedsResearchSetsFlag(t *testing.T) {
	t.Parallel()

	m := NewMemory(3)
	state := stateInPhase(workflow.PhaseGapAnalysis)

	next, err := m.Apply(state, workflow.SkillGapAnalysis, skill.GapAnalysisOutput{
		Narration: "missing data", Route: workflow.GapNeedsResearch, Reason: "no sources",
	})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if next.Workflow.Phase != workflow.PhaseDecidingResearch {
		t.Errorf("phase = %s, want deciding_research", next.Workflow.Phase)
	}
	if !next.Workflow.NeedsResearch {
		t.Error("NeedsResearch should be set on research route")
	}
	if next.Working.GapReason != "no sources" {
		t.Errorf("gap reason = %q", next.Working.GapReason)
	}
}

func TestApplyToolNormalizesSources(t *testing.T) {
	t.Parallel()

	m := NewMemory(3)
	prior := stateInPhase(workflow.PhaseWebResearch)

	result := research.SearchResult{
		Query: "launch checklist best practices",
		Items: []research.SearchItem{
			{Title: "Launch guide", Summary: "steps for launches", SourceURLs: []string{"https://example.com/a"}},
			{Findings: []string{"check dns", "warm caches"}},
		},
	}

	next, err := m.ApplyTool(prior, workflow.ToolTavilySearch, result)
	if err != nil {
		t.Fatalf("ApplyTool error: %v", err)
	}
	if next.Workflow.Phase != workflow.PhaseSourceSelection {
		t.Errorf("phase = %s, want source_selection", next.Workflow.Phase)
	}
	if !next.Workflow.ResearchCompleted {
		t.Error("ResearchCompleted should be set")
	}
	if len(next.Working.Sources) != 2 {
		t.Fatalf("sources = %d, want 2", len(next.Working.Sources))
	}
	if next.Working.Sources[1].Title != "Result 2" {
		t.Errorf("fallback title = %q, want Result 2", next.Working.Sources[1].Title)
	}
	if next.Working.Sources[1].Summary != "check dns warm caches" {
		t.Errorf("fallback summary = %q", next.Working.Sources[1].Summary)
	}
	if prior.Workflow.ResearchCompleted {
		t.Error("ApplyTool mutated prior state")
	}
}

func TestApplyToolOutsideResearchPhaseFails(t *testing.T) {
	t.Parallel()

	m := NewMemory(3)
	prior := stateInPhase(workflow.PhaseDraftingChecklist)

	_, err := m.ApplyTool(prior, workflow.ToolTavilySearch, research.SearchResult{})
	if err == nil {
		t.Fatal("tool result outside web_research should fail")
	}
	if prior.Workflow.Phase != workflow.PhaseDraftingChecklist {
		t.Error("failed ApplyTool mutated prior state")
	}
}

func TestIngestUserMessageModes(t *testing.T) {
	t.Parallel()

	m := NewMemory(3)

	t.Run("clarification answers resume scoping", func(t *testing.T) {
		t.Parallel()

		prior := stateInPhase(workflow.PhaseScopingAndAssumptions)
		prior.Working.AwaitingClarification = true
		prior.Working.ClarifyingQuestions = []string{"which region?"}

		next := m.IngestUserMessage(prior, "us-east only")
		if next.Working.AwaitingClarification {
			t.Error("clarification flag should clear")
		}
		if len(next.Working.ClarificationAnswers) != 1 {
			t.Errorf("answers = %d, want 1", len(next.Working.ClarificationAnswers))
		}
		if next.Workflow.Phase != workflow.PhaseScopingAndAssumptions {
			t.Errorf("phase = %s, should stay scoping", next.Workflow.Phase)
		}
	})

	t.Run("new task after emission resets working memory", func(t *testing.T) {
		t.Parallel()

		prior := stateInPhase(workflow.PhaseWaitingForTaskInput)
		prior.Workflow.Emitted = true
		prior.Working.Final = &checklist.Package{Sections: draftSectionsFixture()}
		prior.Working.FinalMessage = "old message"

		next := m.IngestUserMessage(prior, "now plan a conference talk")
		if next.Workflow.Emitted {
			t.Error("Emitted should reset for a new task")
		}
		if next.Working.Final != nil {
			t.Error("old final package should be cleared")
		}
		if next.Working.TaskInput != "now plan a conference talk" {
			t.Errorf("task input = %q", next.Working.TaskInput)
		}
		if next.Workflow.Phase != workflow.PhaseParsingTask {
			t.Errorf("phase = %s, want parsing_task", next.Workflow.Phase)
		}
	})

	t.Run("prior state untouched", func(t *testing.T) {
		t.Parallel()

		prior := stateInPhase(workflow.PhaseWaitingForTaskInput)
		_ = m.IngestUserMessage(prior, "a task")
		if prior.Working.TaskInput != "" || len(prior.Turns) != 0 {
			t.Error("IngestUserMessage mutated prior state")
		}
	})
}
