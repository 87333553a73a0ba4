package animation

import "time"

// Phase is one part of a breathing cycle.
type Phase int

const (
	PhaseInhale Phase = iota
	PhaseHold
	PhaseExhale
	PhaseRest
)

// String returns the prompt shown for the phase.
func (phase Phase) String() string {
	switch phase {
	case PhaseInhale:
		return "Breathe in"
	case PhaseHold:
		return "Hold"
	case PhaseExhale:
		return "Breathe out"
	case PhaseRest:
		return "Rest"
	default:
		return ""
	}
}

// Step is a phase held for a duration.
type Step struct {
	Phase    Phase
	Duration time.Duration
}

// Pattern is a repeating breathing cycle.
type Pattern []Step

// CycleDuration returns the length of one cycle.
func (pattern Pattern) CycleDuration() time.Duration {
	var total time.Duration
	for _, step := range pattern {
		total += step.Duration
	}
	return total
}
