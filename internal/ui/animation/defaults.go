package animation

import "time"

// BoxBreathing is four equal phases of four seconds.
func BoxBreathing() Pattern {
	return Pattern{
		{Phase: PhaseInhale, Duration: 4 * time.Second},
		{Phase: PhaseHold, Duration: 4 * time.Second},
		{Phase: PhaseExhale, Duration: 4 * time.Second},
		{Phase: PhaseRest, Duration: 4 * time.Second},
	}
}

// RelaxedBreathing favours a long exhale.
func RelaxedBreathing() Pattern {
	return Pattern{
		{Phase: PhaseInhale, Duration: 4 * time.Second},
		{Phase: PhaseHold, Duration: 2 * time.Second},
		{Phase: PhaseExhale, Duration: 6 * time.Second},
	}
}

// DefaultConfig returns the pacer defaults.
func DefaultConfig() Config {
	return Config{
		Pattern:        RelaxedBreathing(),
		PromptInterval: 20 * time.Second,
		PromptJitter: Range{
			Min: 0,
			Max: 3 * time.Second,
		},
	}
}
