package application

import (
	"fmt"

	"github.com/felixgeelhaar/checklist-go/domain/memory"
	"github.com/felixgeelhaar/checklist-go/domain/workflow"
)

// Decide maps the current agent state to the next unit of work. It is a
// pure function of the state snapshot: no I/O, no mutation, and the same
// state always yields the same decision.
func Decide(state *memory.AgentState) (workflow.Decision, error) {
	phase := state.Workflow.Phase

	switch phase {
	case workflow.PhaseWaitingForTaskInput:
		if state.Workflow.Emitted {
			return workflow.Complete("checklist emitted, workflow finished"), nil
		}
		if state.Working.TaskInput == "" {
			return workflow.Noop("no task input to act on"), nil
		}
		return workflow.RunSkill(workflow.SkillParseTask, "new task input received"), nil

	case workflow.PhaseParsingTask:
		return workflow.RunSkill(workflow.SkillParseTask, "parse the task request"), nil

	case workflow.PhaseScopingAndAssumptions:
		return workflow.RunSkill(workflow.SkillScopeAndAssume, "establish scope and assumptions"), nil

	case workflow.PhaseDecidingResearch:
		return workflow.RunSkill(workflow.SkillDecideResearch, "decide whether research is needed"), nil

	case workflow.PhaseWebResearch:
		return workflow.InvokeTool(workflow.ToolTavilySearch, "gather web research"), nil

	case workflow.PhaseSourceSelection:
		return workflow.RunSkill(workflow.SkillSourceSelection, "select credible sources"), nil

	case workflow.PhaseExtractingSignals:
		return workflow.RunSkill(workflow.SkillExtractSignals, "extract signals from sources"), nil

	case workflow.PhaseIntegratingFindings:
		return workflow.RunSkill(workflow.SkillIntegrateFindings, "integrate research findings"), nil

	case workflow.PhaseOutlineSkeleton:
		return workflow.RunSkill(workflow.SkillOutlineSkeleton, "outline the checklist skeleton"), nil

	case workflow.PhaseDraftingChecklist:
		return workflow.RunSkill(workflow.SkillDraftChecklist, "draft checklist items"), nil

	case workflow.PhaseDeepeningChecklist:
		return workflow.RunSkill(workflow.SkillDeepenChecklist, "deepen checklist items"), nil

	case workflow.PhaseNormalizingChecklist:
		return workflow.RunSkill(workflow.SkillNormalizeChecklist, "normalize checklist structure"), nil

	case workflow.PhaseSelfJudge:
		return workflow.RunSkill(workflow.SkillSelfJudge, "judge checklist quality"), nil

	case workflow.PhaseGapAnalysis:
		return workflow.RunSkill(workflow.SkillGapAnalysis, "analyze quality gaps"), nil

	case workflow.PhaseFinalizingChecklist:
		return workflow.RunSkill(workflow.SkillFinalizeChecklist, "finalize the checklist package"), nil

	case workflow.PhaseEmittingChecklist:
		return workflow.RunSkill(workflow.SkillEmitChecklist, "emit the final checklist"), nil

	default:
		return workflow.Decision{}, fmt.Errorf("%w: %q", workflow.ErrInvalidPhase, phase)
	}
}
