// Package skill defines the closed set of declarative skills: each one
// binds a workflow skill identifier to its prompt template name, the
// inputs it reads from agent state, and the typed output it must return.
package skill

import (
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/checklist-go/domain/memory"
	"github.com/felixgeelhaar/checklist-go/domain/workflow"
)

// Inputs is the template data passed to a skill's prompt renderer.
type Inputs map[string]any

// Definition describes one registered skill.
type Definition struct {
	ID       workflow.SkillID
	Template string
	Inputs   func(*memory.AgentState) Inputs
	Decode   func(json.RawMessage) (Output, error)
}

var registry = map[workflow.SkillID]Definition{
	workflow.SkillParseTask: {
		ID:       workflow.SkillParseTask,
		Template: "parse_task",
		Inputs: func(s *memory.AgentState) Inputs {
			return baseInputs(s, Inputs{
				"task_input": s.Working.TaskInput,
			})
		},
		Decode: decode[TaskParsingOutput],
	},
	workflow.SkillScopeAndAssume: {
		ID:       workflow.SkillScopeAndAssume,
		Template: "scope_and_assume",
		Inputs: func(s *memory.AgentState) Inputs {
			return baseInputs(s, Inputs{
				"overview":              overviewInput(s),
				"clarification_answers": s.Working.ClarificationAnswers,
			})
		},
		Decode: decode[ScopingOutput],
	},
	workflow.SkillDecideResearch: {
		ID:       workflow.SkillDecideResearch,
		Template: "decide_research",
		Inputs: func(s *memory.AgentState) Inputs {
			return baseInputs(s, Inputs{
				"overview":    overviewInput(s),
				"scope_notes": s.Working.ScopeNotes,
				"assumptions": s.Working.Assumptions,
			})
		},
		Decode: decode[ResearchDecisionOutput],
	},
	workflow.SkillSourceSelection: {
		ID:       workflow.SkillSourceSelection,
		Template: "source_selection",
		Inputs: func(s *memory.AgentState) Inputs {
			return baseInputs(s, Inputs{
				"overview": overviewInput(s),
				"sources":  s.Working.Sources,
			})
		},
		Decode: decode[SourceSelectionOutput],
	},
	workflow.SkillExtractSignals: {
		ID:       workflow.SkillExtractSignals,
		Template: "extract_signals",
		Inputs: func(s *memory.AgentState) Inputs {
			return baseInputs(s, Inputs{
				"overview": overviewInput(s),
				"sources":  s.Working.SelectedSources,
			})
		},
		Decode: decode[SignalExtractionOutput],
	},
	workflow.SkillIntegrateFindings: {
		ID:       workflow.SkillIntegrateFindings,
		Template: "integrate_findings",
		Inputs: func(s *memory.AgentState) Inputs {
			return baseInputs(s, Inputs{
				"overview": overviewInput(s),
				"signals":  s.Working.Signals,
			})
		},
		Decode: decode[IntegrationOutput],
	},
	workflow.SkillOutlineSkeleton: {
		ID:       workflow.SkillOutlineSkeleton,
		Template: "outline_skeleton",
		Inputs: func(s *memory.AgentState) Inputs {
			return baseInputs(s, Inputs{
				"overview":    overviewInput(s),
				"scope_notes": s.Working.ScopeNotes,
				"assumptions": s.Working.Assumptions,
				"edge_cases":  s.Working.EdgeCases,
				"insights":    s.Working.Insights,
			})
		},
		Decode: decode[SectionsOutput],
	},
	workflow.SkillDraftChecklist: {
		ID:       workflow.SkillDraftChecklist,
		Template: "draft_checklist",
		Inputs: func(s *memory.AgentState) Inputs {
			return baseInputs(s, Inputs{
				"overview": overviewInput(s),
				"sections": draftSections(s),
				"insights": s.Working.Insights,
			})
		},
		Decode: decode[SectionsOutput],
	},
	workflow.SkillDeepenChecklist: {
		ID:       workflow.SkillDeepenChecklist,
		Template: "deepen_checklist",
		Inputs: func(s *memory.AgentState) Inputs {
			return baseInputs(s, Inputs{
				"overview":   overviewInput(s),
				"sections":   draftSections(s),
				"edge_cases": s.Working.EdgeCases,
				"gap_reason": s.Working.GapReason,
			})
		},
		Decode: decode[SectionsOutput],
	},
	workflow.SkillNormalizeChecklist: {
		ID:       workflow.SkillNormalizeChecklist,
		Template: "normalize_checklist",
		Inputs: func(s *memory.AgentState) Inputs {
			return baseInputs(s, Inputs{
				"overview": overviewInput(s),
				"sections": draftSections(s),
			})
		},
		Decode: decode[SectionsOutput],
	},
	workflow.SkillSelfJudge: {
		ID:       workflow.SkillSelfJudge,
		Template: "self_judge",
		Inputs: func(s *memory.AgentState) Inputs {
			return baseInputs(s, Inputs{
				"overview": overviewInput(s),
				"sections": normalizedSections(s),
			})
		},
		Decode: decode[SelfJudgeOutput],
	},
	workflow.SkillGapAnalysis: {
		ID:       workflow.SkillGapAnalysis,
		Template: "gap_analysis",
		Inputs: func(s *memory.AgentState) Inputs {
			return baseInputs(s, Inputs{
				"overview":           overviewInput(s),
				"sections":           normalizedSections(s),
				"quality_score":      scoreInput(s),
				"research_completed": s.Workflow.ResearchCompleted,
			})
		},
		Decode: decode[GapAnalysisOutput],
	},
	workflow.SkillFinalizeChecklist: {
		ID:       workflow.SkillFinalizeChecklist,
		Template: "finalize_checklist",
		Inputs: func(s *memory.AgentState) Inputs {
			return baseInputs(s, Inputs{
				"overview": overviewInput(s),
				"sections": normalizedSections(s),
			})
		},
		Decode: decode[FinalizeOutput],
	},
	workflow.SkillEmitChecklist: {
		ID:       workflow.SkillEmitChecklist,
		Template: "emit_checklist",
		Inputs: func(s *memory.AgentState) Inputs {
			return baseInputs(s, Inputs{
				"overview": overviewInput(s),
				"sections": finalSections(s),
				"summary":  s.Working.Summary,
			})
		},
		Decode: decode[EmitOutput],
	},
}

// Get returns the definition for a skill identifier.
func Get(id workflow.SkillID) (Definition, error) {
	def, ok := registry[id]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrNotRegistered, id)
	}
	return def, nil
}

// All returns every registered definition, keyed by skill identifier.
func All() map[workflow.SkillID]Definition {
	out := make(map[workflow.SkillID]Definition, len(registry))
	for id, def := range registry {
		out[id] = def
	}
	return out
}

// decode unmarshals raw skill output into the typed structure and runs
// its validation contract.
func decode[T Output](raw json.RawMessage) (Output, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func baseInputs(s *memory.AgentState, extra Inputs) Inputs {
	in := Inputs{
		"persona":      s.Core.Persona,
		"tone":         s.Core.Tone,
		"organization": s.Semantic.OrganizationName,
		"preferences":  s.Semantic.DomainPreferences,
	}
	for k, v := range extra {
		in[k] = v
	}
	return in
}

func overviewInput(s *memory.AgentState) memory.TaskOverview {
	if s.Working.TaskOverview == nil {
		return memory.TaskOverview{Goal: s.Working.TaskInput}
	}
	return *s.Working.TaskOverview
}

func draftSections(s *memory.AgentState) any {
	if s.Working.Draft == nil {
		return nil
	}
	return s.Working.Draft.Sections
}

func normalizedSections(s *memory.AgentState) any {
	if s.Working.Normalized != nil {
		return s.Working.Normalized.Sections
	}
	return draftSections(s)
}

func finalSections(s *memory.AgentState) any {
	if s.Working.Final != nil {
		return s.Working.Final.Sections
	}
	return normalizedSections(s)
}

func scoreInput(s *memory.AgentState) float64 {
	if s.Workflow.QualityScore == nil {
		return 0
	}
	return *s.Workflow.QualityScore
}
