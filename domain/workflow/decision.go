package workflow

// DecisionType identifies the kind of action the coordinator selected.
type DecisionType string

const (
	DecisionRunSkill   DecisionType = "run_skill"   // Execute a declarative skill
	DecisionInvokeTool DecisionType = "invoke_tool" // Call an external tool
	DecisionComplete   DecisionType = "complete"    // Workflow finished for this task
	DecisionNoop       DecisionType = "noop"        // Nothing to do without more input
)

// Decision is the coordinator's output describing the next unit of work.
// Exactly one of Skill or Tool is set, depending on Type.
type Decision struct {
	Type   DecisionType
	Skill  SkillID
	Tool   ToolID
	Reason string
}

// RunSkill creates a decision to execute the named skill.
func RunSkill(id SkillID, reason string) Decision {
	return Decision{Type: DecisionRunSkill, Skill: id, Reason: reason}
}

// InvokeTool creates a decision to call the named tool.
func InvokeTool(id ToolID, reason string) Decision {
	return Decision{Type: DecisionInvokeTool, Tool: id, Reason: reason}
}

// Complete creates a decision signalling the workflow is finished.
func Complete(reason string) Decision {
	return Decision{Type: DecisionComplete, Reason: reason}
}

// Noop creates a decision signalling nothing can proceed without input.
func Noop(reason string) Decision {
	return Decision{Type: DecisionNoop, Reason: reason}
}

// IsTerminal returns true if the decision ends the current run call.
func (d Decision) IsTerminal() bool {
	return d.Type == DecisionComplete || d.Type == DecisionNoop
}
