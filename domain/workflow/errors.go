package workflow

import "errors"

// Domain errors for the workflow model.
var (
	// ErrInvalidPhase indicates a phase value outside the known enumeration.
	ErrInvalidPhase = errors.New("invalid workflow phase")

	// ErrInvalidTransition indicates a phase transition that is not a legal edge.
	ErrInvalidTransition = errors.New("invalid phase transition")

	// ErrInvalidRoute indicates an unrecognized gap analysis verdict.
	ErrInvalidRoute = errors.New("invalid gap route")
)
