// Package workflow provides the core domain model for the checklist
// workflow engine: phases, routing verdicts, decisions, and the
// transition table that binds them together.
package workflow

// Phase represents a step in the deterministic checklist workflow.
// Phases are identified by stable strings, not behavioral definitions.
type Phase string

// Canonical phases, in backbone order.
const (
	PhaseWaitingForTaskInput   Phase = "waiting_for_task_input"
	PhaseParsingTask           Phase = "parsing_task"
	PhaseScopingAndAssumptions Phase = "scoping_and_assumptions"
	PhaseDecidingResearch      Phase = "deciding_research"
	PhaseWebResearch           Phase = "web_research"
	PhaseSourceSelection       Phase = "source_selection"
	PhaseExtractingSignals     Phase = "extracting_signals"
	PhaseIntegratingFindings   Phase = "integrating_findings"
	PhaseOutlineSkeleton       Phase = "outline_checklist_skeleton"
	PhaseDraftingChecklist     Phase = "drafting_checklist"
	PhaseDeepeningChecklist    Phase = "deepening_checklist"
	PhaseNormalizingChecklist  Phase = "normalizing_checklist"
	PhaseSelfJudge             Phase = "self_judge"
	PhaseGapAnalysis           Phase = "gap_analysis"
	PhaseFinalizingChecklist   Phase = "finalizing_checklist"
	PhaseEmittingChecklist     Phase = "emitting_checklist"
)

// IsValid returns true if the phase is a recognized canonical phase.
func (p Phase) IsValid() bool {
	switch p {
	case PhaseWaitingForTaskInput, PhaseParsingTask, PhaseScopingAndAssumptions,
		PhaseDecidingResearch, PhaseWebResearch, PhaseSourceSelection,
		PhaseExtractingSignals, PhaseIntegratingFindings, PhaseOutlineSkeleton,
		PhaseDraftingChecklist, PhaseDeepeningChecklist, PhaseNormalizingChecklist,
		PhaseSelfJudge, PhaseGapAnalysis, PhaseFinalizingChecklist,
		PhaseEmittingChecklist:
		return true
	default:
		return false
	}
}

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// AllPhases returns all canonical phases in backbone order.
func AllPhases() []Phase {
	return []Phase{
		PhaseWaitingForTaskInput,
		PhaseParsingTask,
		PhaseScopingAndAssumptions,
		PhaseDecidingResearch,
		PhaseWebResearch,
		PhaseSourceSelection,
		PhaseExtractingSignals,
		PhaseIntegratingFindings,
		PhaseOutlineSkeleton,
		PhaseDraftingChecklist,
		PhaseDeepeningChecklist,
		PhaseNormalizingChecklist,
		PhaseSelfJudge,
		PhaseGapAnalysis,
		PhaseFinalizingChecklist,
		PhaseEmittingChecklist,
	}
}

// GapRoute is the remediation verdict produced by gap analysis.
type GapRoute string

const (
	GapNeedsResearch GapRoute = "needs_research"
	GapNeedsDepth    GapRoute = "needs_depth"
	GapReady         GapRoute = "ready"
)

// IsValid returns true if the route is a recognized verdict.
func (g GapRoute) IsValid() bool {
	switch g {
	case GapNeedsResearch, GapNeedsDepth, GapReady:
		return true
	default:
		return false
	}
}

// Route carries the routing hints a skill result may contribute to a
// transition. Zero value means "no hint": the linear backbone applies.
type Route struct {
	// NeedsResearch resolves the deciding_research branch.
	NeedsResearch bool

	// ThresholdMet resolves the self_judge branch.
	ThresholdMet bool

	// Gap resolves the gap_analysis fan-out.
	Gap GapRoute
}
