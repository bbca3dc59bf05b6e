package workflow

// SkillID identifies a registered declarative skill. The set is closed:
// every skill is bound to exactly one phase's structured-output contract.
type SkillID string

const (
	SkillParseTask          SkillID = "parse_task"
	SkillScopeAndAssume     SkillID = "scope_and_assume"
	SkillDecideResearch     SkillID = "decide_research"
	SkillSourceSelection    SkillID = "source_selection"
	SkillExtractSignals     SkillID = "extract_signals"
	SkillIntegrateFindings  SkillID = "integrate_findings"
	SkillOutlineSkeleton    SkillID = "outline_skeleton"
	SkillDraftChecklist     SkillID = "draft_checklist"
	SkillDeepenChecklist    SkillID = "deepen_checklist"
	SkillNormalizeChecklist SkillID = "normalize_checklist"
	SkillSelfJudge          SkillID = "self_judge"
	SkillGapAnalysis        SkillID = "gap_analysis"
	SkillFinalizeChecklist  SkillID = "finalize_checklist"
	SkillEmitChecklist      SkillID = "emit_checklist"
)

// AllSkills returns every registered skill identifier.
func AllSkills() []SkillID {
	return []SkillID{
		SkillParseTask,
		SkillScopeAndAssume,
		SkillDecideResearch,
		SkillSourceSelection,
		SkillExtractSignals,
		SkillIntegrateFindings,
		SkillOutlineSkeleton,
		SkillDraftChecklist,
		SkillDeepenChecklist,
		SkillNormalizeChecklist,
		SkillSelfJudge,
		SkillGapAnalysis,
		SkillFinalizeChecklist,
		SkillEmitChecklist,
	}
}

// ToolID identifies an external non-reasoning capability.
type ToolID string

// ToolTavilySearch is the web research tool.
const ToolTavilySearch ToolID = "tavily_search"
