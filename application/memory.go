package application

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/checklist-go/domain/checklist"
	"github.com/felixgeelhaar/checklist-go/domain/memory"
	"github.com/felixgeelhaar/checklist-go/domain/research"
	"github.com/felixgeelhaar/checklist-go/domain/skill"
	"github.com/felixgeelhaar/checklist-go/domain/workflow"
)

// DefaultMaxRevisits bounds how many times gap analysis may route the
// workflow backwards before the verdict is forced to ready.
const DefaultMaxRevisits = 3

// Memory merges skill and tool results into agent state. Every Apply
// works on a deep copy: the prior snapshot is never mutated, so a failed
// merge leaves the caller holding unchanged state.
type Memory struct {
	MaxRevisits int
}

// NewMemory creates a state applier with the given revisit bound.
// Non-positive bounds fall back to the default.
func NewMemory(maxRevisits int) *Memory {
	if maxRevisits <= 0 {
		maxRevisits = DefaultMaxRevisits
	}
	return &Memory{MaxRevisits: maxRevisits}
}

// InitialState creates a fresh thread state and ingests the first user
// message when present.
func (m *Memory) InitialState(threadID, message string) *memory.AgentState {
	state := memory.New(threadID)
	if message != "" {
		state.AppendTurn(memory.RoleUser, message)
		state.Working.TaskInput = message
		state.Workflow.Phase = workflow.PhaseParsingTask
		state.RecordProgress(workflow.PhaseWaitingForTaskInput, workflow.PhaseParsingTask, "Received task input.")
	}
	return state
}

// IngestUserMessage folds a new user message into a copy of the prior
// state. Three cases apply: answers to pending clarification questions,
// a brand-new task after a completed one, or task input while waiting.
func (m *Memory) IngestUserMessage(prior *memory.AgentState, message string) *memory.AgentState {
	next := prior.Clone()
	next.AppendTurn(memory.RoleUser, message)

	if next.Working.AwaitingClarification {
		next.Working.ClarificationAnswers = append(next.Working.ClarificationAnswers, message)
		next.Working.AwaitingClarification = false
		return next
	}

	if next.Workflow.Phase == workflow.PhaseWaitingForTaskInput {
		if next.Workflow.Emitted {
			// A non-tracking message after emission starts a new task.
			next.Working = memory.WorkingMemory{}
			next.Workflow = memory.WorkflowState{
				Phase:    workflow.PhaseWaitingForTaskInput,
				Revisits: make(map[workflow.Phase]int),
			}
		}
		next.Working.TaskInput = message
		next.Workflow.Phase = workflow.PhaseParsingTask
		next.RecordProgress(workflow.PhaseWaitingForTaskInput, workflow.PhaseParsingTask, "Received task input.")
	}
	return next
}

// Apply merges a validated skill output into a copy of prior state,
// advances the phase, and records the transition. On any error the
// returned state is nil and prior remains valid.
func (m *Memory) Apply(prior *memory.AgentState, id workflow.SkillID, out skill.Output) (*memory.AgentState, error) {
	next := prior.Clone()
	from := next.Workflow.Phase

	route, summary, err := m.merge(next, id, out)
	if err != nil {
		return nil, err
	}

	// Scoping holds its phase while clarification questions are pending,
	// so the skill reruns with the answers once the user replies.
	if id == workflow.SkillScopeAndAssume && next.Working.AwaitingClarification {
		next.Workflow.LastSkill = id
		next.RecordProgress(from, from, "Paused for clarification.")
		if narration := narrationOf(out); narration != "" {
			next.AppendTurn(memory.RoleAssistant, narration)
		}
		return next, nil
	}

	to, err := workflow.Next(from, route)
	if err != nil {
		return nil, err
	}
	if !workflow.CanTransition(from, to) {
		return nil, &StateTransitionError{From: from, To: to, Reason: "not a legal edge"}
	}

	next.Workflow.Phase = to
	next.Workflow.LastSkill = id
	next.RecordProgress(from, to, summary)
	if narration := narrationOf(out); narration != "" {
		next.AppendTurn(memory.RoleAssistant, narration)
	}
	return next, nil
}

// ApplyTool merges a web research result: sources are normalized, the
// research flag is set, and the workflow advances to source selection.
func (m *Memory) ApplyTool(prior *memory.AgentState, id workflow.ToolID, result research.SearchResult) (*memory.AgentState, error) {
	if id != workflow.ToolTavilySearch {
		return nil, fmt.Errorf("unknown tool %q", id)
	}

	next := prior.Clone()
	from := next.Workflow.Phase
	if from != workflow.PhaseWebResearch {
		return nil, &StateTransitionError{
			From:   from,
			To:     workflow.PhaseSourceSelection,
			Reason: "tool result outside the web research phase",
		}
	}

	next.Working.Sources = research.SourcesFromResult(result)
	next.Workflow.ResearchCompleted = true
	next.Workflow.LastTool = id
	next.Workflow.Phase = workflow.PhaseSourceSelection
	next.RecordProgress(from, workflow.PhaseSourceSelection,
		fmt.Sprintf("Collected %d sources for %q.", len(next.Working.Sources), result.Query))
	return next, nil
}

// merge dispatches on the concrete output type. It mutates next in place
// and returns the routing hints plus a progress summary.
func (m *Memory) merge(next *memory.AgentState, id workflow.SkillID, out skill.Output) (workflow.Route, string, error) {
	switch o := out.(type) {
	case skill.TaskParsingOutput:
		next.Working.TaskOverview = &memory.TaskOverview{
			Goal:            o.Goal,
			Constraints:     o.Constraints,
			Audience:        o.Audience,
			SuccessCriteria: o.SuccessCriteria,
		}
		return workflow.Route{}, fmt.Sprintf("Parsed task: %s", o.Goal), nil

	case skill.ScopingOutput:
		next.Working.ScopeNotes = o.ScopeNotes
		next.Working.Assumptions = o.Assumptions
		next.Working.EdgeCases = o.EdgeCases
		next.Working.ClarifyingQuestions = o.ClarifyingQuestions
		next.Working.AwaitingClarification = len(o.ClarifyingQuestions) > 0
		return workflow.Route{}, fmt.Sprintf("Scoped task with %d assumptions.", len(o.Assumptions)), nil

	case skill.ResearchDecisionOutput:
		next.Workflow.NeedsResearch = o.NeedsResearch
		next.Working.ResearchQuestions = o.ResearchQuestions
		verb := "Skipping research"
		if o.NeedsResearch {
			verb = "Research needed"
		}
		return workflow.Route{NeedsResearch: o.NeedsResearch},
			fmt.Sprintf("%s: %s", verb, o.Justification), nil

	case skill.SourceSelectionOutput:
		next.Working.SelectedSources = o.SelectedSources
		return workflow.Route{}, fmt.Sprintf("Selected %d sources.", len(o.SelectedSources)), nil

	case skill.SignalExtractionOutput:
		next.Working.Signals = o.Signals
		return workflow.Route{}, fmt.Sprintf("Extracted %d signals.", len(o.Signals)), nil

	case skill.IntegrationOutput:
		next.Working.Insights = o.ActionableInsights
		return workflow.Route{}, fmt.Sprintf("Integrated %d insights.", len(o.ActionableInsights)), nil

	case skill.SectionsOutput:
		pkg := &checklist.Package{
			Sections: checklist.CloneSections(o.Sections),
			Notes:    o.Notes,
		}
		if pkg.ItemCount() == 0 && id != workflow.SkillOutlineSkeleton {
			return workflow.Route{}, "", &StateTransitionError{
				From:   next.Workflow.Phase,
				Reason: "checklist revision has no items",
			}
		}
		if id == workflow.SkillNormalizeChecklist {
			next.Working.Normalized = pkg
		} else {
			next.Working.Draft = pkg
		}
		return workflow.Route{},
			fmt.Sprintf("Revised checklist: %d sections, %d items.", len(pkg.Sections), pkg.ItemCount()), nil

	case skill.SelfJudgeOutput:
		score := o.Score
		next.Workflow.QualityScore = &score
		next.Working.Summary = judgeSummary(o)
		return workflow.Route{ThresholdMet: o.ThresholdMet},
			fmt.Sprintf("Judged quality at %.2f (threshold met: %t).", o.Score, o.ThresholdMet), nil

	case skill.GapAnalysisOutput:
		route := o.Route
		revisits := next.Revisit(workflow.PhaseGapAnalysis)
		if route != workflow.GapReady && revisits >= m.MaxRevisits {
			route = workflow.GapReady
		}
		next.Workflow.GapRoute = route
		next.Working.GapReason = o.Reason
		if route == workflow.GapNeedsResearch {
			next.Workflow.NeedsResearch = true
		}
		return workflow.Route{Gap: route},
			fmt.Sprintf("Gap analysis routed to %s: %s", route, o.Reason), nil

	case skill.FinalizeOutput:
		next.Working.Final = &checklist.Package{
			Sections: checklist.CloneSections(o.Sections),
			Notes:    o.HandoffNotes,
		}
		next.Working.Summary = strings.Join(o.Highlights, "\n")
		return workflow.Route{},
			fmt.Sprintf("Finalized checklist with %d items.", next.Working.Final.ItemCount()), nil

	case skill.EmitOutput:
		if next.Working.Final == nil {
			return workflow.Route{}, "", &StateTransitionError{
				From:   next.Workflow.Phase,
				To:     workflow.PhaseWaitingForTaskInput,
				Reason: "no finalized checklist to emit",
			}
		}
		next.Working.FinalMessage = o.FinalMessage
		next.Working.CallToAction = o.CallToAction
		next.Workflow.Emitted = true
		return workflow.Route{}, "Emitted final checklist.", nil

	default:
		return workflow.Route{}, "", fmt.Errorf("unhandled output type %T for skill %s", out, id)
	}
}

func judgeSummary(o skill.SelfJudgeOutput) string {
	lines := []string{fmt.Sprintf("Score: %.2f", o.Score)}
	for _, s := range o.Strengths {
		lines = append(lines, "Strength: "+s)
	}
	for _, g := range o.Gaps {
		lines = append(lines, "Gap: "+g)
	}
	return strings.Join(lines, "\n")
}

func narrationOf(out skill.Output) string {
	switch o := out.(type) {
	case skill.TaskParsingOutput:
		return o.Narration
	case skill.ScopingOutput:
		return o.Narration
	case skill.ResearchDecisionOutput:
		return o.Narration
	case skill.SourceSelectionOutput:
		return o.Narration
	case skill.SignalExtractionOutput:
		return o.Narration
	case skill.IntegrationOutput:
		return o.Narration
	case skill.SectionsOutput:
		return o.Narration
	case skill.SelfJudgeOutput:
		return o.Narration
	case skill.GapAnalysisOutput:
		return o.Narration
	case skill.FinalizeOutput:
		return o.Narration
	case skill.EmitOutput:
		return o.Narration
	default:
		return ""
	}
}
