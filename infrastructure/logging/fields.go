package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/checklist-go/domain/workflow"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// Common field constructors for workflow engine logging.

// ThreadID adds a thread ID field.
func ThreadID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("thread_id", id)
	}
}

// Phase adds a phase field.
func Phase(p workflow.Phase) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("phase", string(p))
	}
}

// FromPhase adds a from_phase field for transitions.
func FromPhase(p workflow.Phase) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("from_phase", string(p))
	}
}

// ToPhase adds a to_phase field for transitions.
func ToPhase(p workflow.Phase) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("to_phase", string(p))
	}
}

// Skill adds a skill field.
func Skill(id workflow.SkillID) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("skill", string(id))
	}
}

// Tool adds a tool field.
func Tool(id workflow.ToolID) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("tool", string(id))
	}
}

// Decision adds a decision type field.
func Decision(d workflow.DecisionType) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("decision", string(d))
	}
}

// Route adds a gap route field.
func Route(r workflow.GapRoute) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("route", string(r))
	}
}

// Iteration adds a loop iteration field.
func Iteration(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("iteration", n)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// Reason adds a reason field.
func Reason(reason string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("reason", reason)
	}
}

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

// Str adds a string field with custom key.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}

// Int adds an integer field with custom key.
func Int(key string, value int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int(key, value)
	}
}
