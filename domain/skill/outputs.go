package skill

import (
	"fmt"

	"github.com/felixgeelhaar/checklist-go/domain/checklist"
	"github.com/felixgeelhaar/checklist-go/domain/research"
	"github.com/felixgeelhaar/checklist-go/domain/workflow"
)

// Output is the structured result of a skill invocation. Every output
// validates its own contract before the engine merges it into state.
type Output interface {
	Validate() error
}

// TaskParsingOutput is produced by the parse_task skill.
type TaskParsingOutput struct {
	Narration       string   `json:"narration"`
	Goal            string   `json:"goal"`
	Constraints     []string `json:"constraints"`
	Audience        []string `json:"audience"`
	SuccessCriteria []string `json:"success_criteria"`
}

func (o TaskParsingOutput) Validate() error {
	if o.Goal == "" {
		return fmt.Errorf("task parsing output missing goal")
	}
	return nil
}

// ScopingOutput is produced by the scope_and_assume skill.
type ScopingOutput struct {
	Narration           string   `json:"narration"`
	ScopeNotes          []string `json:"scope_notes"`
	Assumptions         []string `json:"assumptions"`
	EdgeCases           []string `json:"edge_cases"`
	ClarifyingQuestions []string `json:"clarifying_questions"`
}

func (o ScopingOutput) Validate() error {
	if len(o.ClarifyingQuestions) > 3 {
		return fmt.Errorf("scoping output has %d clarifying questions, max 3", len(o.ClarifyingQuestions))
	}
	return nil
}

// ResearchDecisionOutput is produced by the decide_research skill.
type ResearchDecisionOutput struct {
	Narration         string   `json:"narration"`
	NeedsResearch     bool     `json:"needs_research"`
	Justification     string   `json:"justification"`
	ResearchQuestions []string `json:"research_questions"`
}

func (o ResearchDecisionOutput) Validate() error {
	if o.NeedsResearch && len(o.ResearchQuestions) == 0 {
		return fmt.Errorf("research decision requires questions when research is needed")
	}
	return nil
}

// SourceSelectionOutput is produced by the source_selection skill.
type SourceSelectionOutput struct {
	Narration       string            `json:"narration"`
	SelectedSources []research.Source `json:"selected_sources"`
}

func (o SourceSelectionOutput) Validate() error {
	if len(o.SelectedSources) == 0 {
		return fmt.Errorf("source selection output has no sources")
	}
	return nil
}

// SignalExtractionOutput is produced by the extract_signals skill.
type SignalExtractionOutput struct {
	Narration string            `json:"narration"`
	Signals   []research.Signal `json:"signals"`
}

func (o SignalExtractionOutput) Validate() error {
	if len(o.Signals) == 0 {
		return fmt.Errorf("signal extraction output has no signals")
	}
	return nil
}

// IntegrationOutput is produced by the integrate_findings skill.
type IntegrationOutput struct {
	Narration          string             `json:"narration"`
	ActionableInsights []research.Insight `json:"actionable_insights"`
}

func (o IntegrationOutput) Validate() error {
	if len(o.ActionableInsights) == 0 {
		return fmt.Errorf("integration output has no insights")
	}
	return nil
}

// SectionsOutput is the shared shape for the four checklist-building
// skills: outline, draft, deepen, and normalize.
type SectionsOutput struct {
	Narration string              `json:"narration"`
	Sections  []checklist.Section `json:"sections"`
	Notes     []string            `json:"notes"`
}

func (o SectionsOutput) Validate() error {
	if len(o.Sections) == 0 {
		return fmt.Errorf("checklist output has no sections")
	}
	for _, s := range o.Sections {
		if s.Name == "" {
			return fmt.Errorf("checklist output has a section without a name")
		}
	}
	return nil
}

// SelfJudgeOutput is produced by the self_judge skill.
type SelfJudgeOutput struct {
	Narration    string   `json:"narration"`
	Score        float64  `json:"score"`
	ThresholdMet bool     `json:"threshold_met"`
	Strengths    []string `json:"strengths"`
	Gaps         []string `json:"gaps"`
}

func (o SelfJudgeOutput) Validate() error {
	if o.Score < 0 || o.Score > 1 {
		return fmt.Errorf("self judge score %.2f outside [0, 1]", o.Score)
	}
	return nil
}

// GapAnalysisOutput is produced by the gap_analysis skill.
type GapAnalysisOutput struct {
	Narration string            `json:"narration"`
	Route     workflow.GapRoute `json:"route"`
	Reason    string            `json:"reason"`
	NextFocus []string          `json:"next_focus"`
}

func (o GapAnalysisOutput) Validate() error {
	if !o.Route.IsValid() {
		return fmt.Errorf("gap analysis route %q is not a recognized verdict", o.Route)
	}
	return nil
}

// FinalizeOutput is produced by the finalize_checklist skill.
type FinalizeOutput struct {
	Narration    string              `json:"narration"`
	Sections     []checklist.Section `json:"sections"`
	Highlights   []string            `json:"highlights"`
	HandoffNotes []string            `json:"handoff_notes"`
}

func (o FinalizeOutput) Validate() error {
	if len(o.Sections) == 0 {
		return fmt.Errorf("finalize output has no sections")
	}
	return nil
}

// EmitOutput is produced by the emit_checklist skill.
type EmitOutput struct {
	Narration    string `json:"narration"`
	FinalMessage string `json:"final_message"`
	CallToAction string `json:"call_to_action"`
}

func (o EmitOutput) Validate() error {
	if o.FinalMessage == "" {
		return fmt.Errorf("emit output missing final message")
	}
	return nil
}
