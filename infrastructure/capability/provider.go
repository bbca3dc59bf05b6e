// Package capability provides the outbound boundary of the engine: the
// Provider interface plus the OpenRouter and Tavily implementations that
// back skills and tools with real services.
package capability

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/checklist-go/domain/research"
	"github.com/felixgeelhaar/checklist-go/domain/workflow"
)

// Provider executes skills and tools. Skill invocations return raw JSON
// for the skill registry to decode; tool invocations return the already
// normalized search result.
type Provider interface {
	InvokeSkill(ctx context.Context, id workflow.SkillID, prompt string) (json.RawMessage, error)
	InvokeTool(ctx context.Context, id workflow.ToolID, req research.SearchRequest) (research.SearchResult, error)
}

// ToolError indicates a tool returned output the engine could not use.
type ToolError struct {
	Tool workflow.ToolID
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s produced invalid output: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// ToolTimeoutError indicates a tool invocation exceeded its deadline.
type ToolTimeoutError struct {
	Tool workflow.ToolID
}

func (e *ToolTimeoutError) Error() string {
	return fmt.Sprintf("tool %s timed out", e.Tool)
}
