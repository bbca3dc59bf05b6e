package workflow

import "fmt"

// Next computes the single legal successor of a phase, resolving branch
// points with the routing hints in route. Every (phase, route) pair is
// matched explicitly; an unrecognized phase is an error, never a silent
// default.
func Next(p Phase, route Route) (Phase, error) {
	switch p {
	case PhaseWaitingForTaskInput:
		return PhaseParsingTask, nil
	case PhaseParsingTask:
		return PhaseScopingAndAssumptions, nil
	case PhaseScopingAndAssumptions:
		return PhaseDecidingResearch, nil
	case PhaseDecidingResearch:
		if route.NeedsResearch {
			return PhaseWebResearch, nil
		}
		return PhaseOutlineSkeleton, nil
	case PhaseWebResearch:
		return PhaseSourceSelection, nil
	case PhaseSourceSelection:
		return PhaseExtractingSignals, nil
	case PhaseExtractingSignals:
		return PhaseIntegratingFindings, nil
	case PhaseIntegratingFindings:
		return PhaseOutlineSkeleton, nil
	case PhaseOutlineSkeleton:
		return PhaseDraftingChecklist, nil
	case PhaseDraftingChecklist:
		return PhaseDeepeningChecklist, nil
	case PhaseDeepeningChecklist:
		return PhaseNormalizingChecklist, nil
	case PhaseNormalizingChecklist:
		return PhaseSelfJudge, nil
	case PhaseSelfJudge:
		if route.ThresholdMet {
			return PhaseFinalizingChecklist, nil
		}
		return PhaseGapAnalysis, nil
	case PhaseGapAnalysis:
		switch route.Gap {
		case GapNeedsResearch:
			return PhaseDecidingResearch, nil
		case GapNeedsDepth:
			return PhaseDeepeningChecklist, nil
		case GapReady:
			return PhaseFinalizingChecklist, nil
		default:
			return "", fmt.Errorf("%w: %q", ErrInvalidRoute, route.Gap)
		}
	case PhaseFinalizingChecklist:
		return PhaseEmittingChecklist, nil
	case PhaseEmittingChecklist:
		return PhaseWaitingForTaskInput, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPhase, p)
	}
}

// Successors returns every phase reachable from p in one transition.
func Successors(p Phase) []Phase {
	switch p {
	case PhaseWaitingForTaskInput:
		return []Phase{PhaseParsingTask}
	case PhaseParsingTask:
		return []Phase{PhaseScopingAndAssumptions}
	case PhaseScopingAndAssumptions:
		return []Phase{PhaseDecidingResearch}
	case PhaseDecidingResearch:
		return []Phase{PhaseWebResearch, PhaseOutlineSkeleton}
	case PhaseWebResearch:
		return []Phase{PhaseSourceSelection}
	case PhaseSourceSelection:
		return []Phase{PhaseExtractingSignals}
	case PhaseExtractingSignals:
		return []Phase{PhaseIntegratingFindings}
	case PhaseIntegratingFindings:
		return []Phase{PhaseOutlineSkeleton}
	case PhaseOutlineSkeleton:
		return []Phase{PhaseDraftingChecklist}
	case PhaseDraftingChecklist:
		return []Phase{PhaseDeepeningChecklist}
	case PhaseDeepeningChecklist:
		return []Phase{PhaseNormalizingChecklist}
	case PhaseNormalizingChecklist:
		return []Phase{PhaseSelfJudge}
	case PhaseSelfJudge:
		return []Phase{PhaseFinalizingChecklist, PhaseGapAnalysis}
	case PhaseGapAnalysis:
		return []Phase{PhaseDecidingResearch, PhaseDeepeningChecklist, PhaseFinalizingChecklist}
	case PhaseFinalizingChecklist:
		return []Phase{PhaseEmittingChecklist}
	case PhaseEmittingChecklist:
		return []Phase{PhaseWaitingForTaskInput}
	default:
		return nil
	}
}

// CanTransition reports whether from -> to is a legal edge in the
// transition graph.
func CanTransition(from, to Phase) bool {
	for _, next := range Successors(from) {
		if next == to {
			return true
		}
	}
	return false
}
