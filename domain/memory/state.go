// Package memory provides the agent state aggregate: the full
// conversational and workflow snapshot that flows by value between the
// caller and the engine. Snapshots are immutable from the caller's point
// of view; every mutation goes through Clone first.
package memory

import (
	"time"

	"github.com/felixgeelhaar/checklist-go/domain/checklist"
	"github.com/felixgeelhaar/checklist-go/domain/research"
	"github.com/felixgeelhaar/checklist-go/domain/workflow"
)

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CoreMemory holds static persona and behavioral settings.
type CoreMemory struct {
	Persona string `json:"persona"`
	Tone    string `json:"tone"`
}

// SemanticMemory holds long-term preferences for checklist framing.
type SemanticMemory struct {
	OrganizationName  string   `json:"organization_name"`
	DomainPreferences []string `json:"domain_preferences,omitempty"`
}

// ConversationTurn is a single conversational exchange.
type ConversationTurn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ProgressEntry records one phase transition in the append-only progress log.
type ProgressEntry struct {
	From      workflow.Phase `json:"from"`
	To        workflow.Phase `json:"to"`
	Timestamp time.Time      `json:"timestamp"`
	Summary   string         `json:"summary"`
}

// TaskOverview is the structured summary of the task request.
type TaskOverview struct {
	Goal            string   `json:"goal"`
	Constraints     []string `json:"constraints,omitempty"`
	Audience        []string `json:"audience,omitempty"`
	SuccessCriteria []string `json:"success_criteria,omitempty"`
}

// WorkflowState holds routing flags and bookkeeping for the coordinator.
type WorkflowState struct {
	Phase             workflow.Phase         `json:"phase"`
	NeedsResearch     bool                   `json:"needs_research"`
	ResearchCompleted bool                   `json:"research_completed"`
	LastSkill         workflow.SkillID       `json:"last_skill,omitempty"`
	LastTool          workflow.ToolID        `json:"last_tool,omitempty"`
	QualityScore      *float64               `json:"quality_score,omitempty"`
	GapRoute          workflow.GapRoute      `json:"gap_route,omitempty"`
	Revisits          map[workflow.Phase]int `json:"revisits,omitempty"`

	// Emitted is set once the emit skill has produced output for the
	// current task; it gates the coordinator's COMPLETE decision.
	Emitted bool `json:"emitted"`
}

// WorkingMemory holds short-term data referenced throughout the workflow.
type WorkingMemory struct {
	TaskInput    string        `json:"task_input,omitempty"`
	TaskOverview *TaskOverview `json:"task_overview,omitempty"`

	ScopeNotes  []string `json:"scope_notes,omitempty"`
	Assumptions []string `json:"assumptions,omitempty"`
	EdgeCases   []string `json:"edge_cases,omitempty"`

	ClarifyingQuestions   []string `json:"clarifying_questions,omitempty"`
	ClarificationAnswers  []string `json:"clarification_answers,omitempty"`
	AwaitingClarification bool     `json:"awaiting_clarification"`

	ResearchQuestions []string           `json:"research_questions,omitempty"`
	Sources           []research.Source  `json:"sources,omitempty"`
	SelectedSources   []research.Source  `json:"selected_sources,omitempty"`
	Signals           []research.Signal  `json:"signals,omitempty"`
	Insights          []research.Insight `json:"insights,omitempty"`

	Draft      *checklist.Package `json:"draft,omitempty"`
	Normalized *checklist.Package `json:"normalized,omitempty"`
	Final      *checklist.Package `json:"final,omitempty"`

	Summary      string `json:"summary,omitempty"`
	GapReason    string `json:"gap_reason,omitempty"`
	FinalMessage string `json:"final_message,omitempty"`
	CallToAction string `json:"call_to_action,omitempty"`
}

// AgentState is the aggregate root for the full agent memory tree.
type AgentState struct {
	ThreadID string             `json:"thread_id"`
	Core     CoreMemory         `json:"core"`
	Semantic SemanticMemory     `json:"semantic"`
	Turns    []ConversationTurn `json:"turns"`
	Progress []ProgressEntry    `json:"progress"`
	Workflow WorkflowState      `json:"workflow"`
	Working  WorkingMemory      `json:"working"`
}

// New creates a fresh state for a thread, waiting for task input.
func New(threadID string) *AgentState {
	return &AgentState{
		ThreadID: threadID,
		Core: CoreMemory{
			Persona: "You are a systems-thinking checklist architect.",
			Tone:    "Direct, pragmatic, and encouraging.",
		},
		Semantic: SemanticMemory{
			OrganizationName: "Checklist Agent",
		},
		Workflow: WorkflowState{
			Phase:    workflow.PhaseWaitingForTaskInput,
			Revisits: make(map[workflow.Phase]int),
		},
	}
}

// Clone returns a deep copy of the state. The copy shares no mutable
// substructure with the original: slices, maps, and nested packages are
// all duplicated.
func (s *AgentState) Clone() *AgentState {
	if s == nil {
		return nil
	}

	out := &AgentState{
		ThreadID: s.ThreadID,
		Core:     s.Core,
		Semantic: SemanticMemory{
			OrganizationName:  s.Semantic.OrganizationName,
			DomainPreferences: cloneStrings(s.Semantic.DomainPreferences),
		},
		Turns:    make([]ConversationTurn, len(s.Turns)),
		Progress: make([]ProgressEntry, len(s.Progress)),
		Workflow: s.Workflow,
		Working:  s.Working,
	}
	copy(out.Turns, s.Turns)
	copy(out.Progress, s.Progress)

	if s.Workflow.QualityScore != nil {
		score := *s.Workflow.QualityScore
		out.Workflow.QualityScore = &score
	}
	out.Workflow.Revisits = make(map[workflow.Phase]int, len(s.Workflow.Revisits))
	for k, v := range s.Workflow.Revisits {
		out.Workflow.Revisits[k] = v
	}

	w := &out.Working
	if s.Working.TaskOverview != nil {
		overview := TaskOverview{
			Goal:            s.Working.TaskOverview.Goal,
			Constraints:     cloneStrings(s.Working.TaskOverview.Constraints),
			Audience:        cloneStrings(s.Working.TaskOverview.Audience),
			SuccessCriteria: cloneStrings(s.Working.TaskOverview.SuccessCriteria),
		}
		w.TaskOverview = &overview
	}
	w.ScopeNotes = cloneStrings(s.Working.ScopeNotes)
	w.Assumptions = cloneStrings(s.Working.Assumptions)
	w.EdgeCases = cloneStrings(s.Working.EdgeCases)
	w.ClarifyingQuestions = cloneStrings(s.Working.ClarifyingQuestions)
	w.ClarificationAnswers = cloneStrings(s.Working.ClarificationAnswers)
	w.ResearchQuestions = cloneStrings(s.Working.ResearchQuestions)
	w.Sources = cloneSources(s.Working.Sources)
	w.SelectedSources = cloneSources(s.Working.SelectedSources)
	w.Signals = cloneSignals(s.Working.Signals)
	w.Insights = cloneInsights(s.Working.Insights)
	w.Draft = s.Working.Draft.Clone()
	w.Normalized = s.Working.Normalized.Clone()
	w.Final = s.Working.Final.Clone()

	return out
}

// AppendTurn records a conversational exchange in the episodic log.
func (s *AgentState) AppendTurn(role, content string) {
	s.Turns = append(s.Turns, ConversationTurn{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
}

// RecordProgress appends a phase transition to the progress log.
func (s *AgentState) RecordProgress(from, to workflow.Phase, summary string) {
	s.Progress = append(s.Progress, ProgressEntry{
		From:      from,
		To:        to,
		Timestamp: time.Now().UTC(),
		Summary:   summary,
	})
}

// Revisit increments and returns the revisit counter for a phase.
func (s *AgentState) Revisit(p workflow.Phase) int {
	if s.Workflow.Revisits == nil {
		s.Workflow.Revisits = make(map[workflow.Phase]int)
	}
	s.Workflow.Revisits[p]++
	return s.Workflow.Revisits[p]
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneSources(in []research.Source) []research.Source {
	if in == nil {
		return nil
	}
	out := make([]research.Source, len(in))
	copy(out, in)
	return out
}

func cloneSignals(in []research.Signal) []research.Signal {
	if in == nil {
		return nil
	}
	out := make([]research.Signal, len(in))
	copy(out, in)
	return out
}

func cloneInsights(in []research.Insight) []research.Insight {
	if in == nil {
		return nil
	}
	out := make([]research.Insight, len(in))
	copy(out, in)
	return out
}
