package skill

import (
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/checklist-go/domain/workflow"
)

// ErrNotRegistered indicates a skill identifier with no registered definition.
var ErrNotRegistered = errors.New("skill not registered")

// OutputError indicates a skill returned output that could not be decoded
// or failed its validation contract.
type OutputError struct {
	Skill workflow.SkillID
	Err   error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("skill %s produced invalid output: %v", e.Skill, e.Err)
}

func (e *OutputError) Unwrap() error {
	return e.Err
}

// TimeoutError indicates a skill invocation exceeded its deadline.
type TimeoutError struct {
	Skill   workflow.SkillID
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("skill %s timed out after %s", e.Skill, e.Timeout)
}
