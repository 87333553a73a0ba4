package model

import "fmt"

type description struct {
	normal    string
	lowEnergy string
}

var breakDescriptions = map[string]description{
	"Stretch Break": {
		normal:    "Stand up. Stretch your wrists, neck, and shoulders.\nRefill your water. Move around for a few minutes.",
		lowEnergy: "Even a small stretch helps. Stand if you can,\nor roll your shoulders and wrists where you are.",
	},
	"Movement & Mindfulness": {
		normal:    "Leave your desk. Walk outside, stretch, or sit\nsomewhere away from your screen. Screen-free time.",
		lowEnergy: "Step away from your screen for a while.\nNo pressure to 'do' anything specific.",
	},
	"Lunch": {
		normal:    "Full hour away from your workstation.\nEat a real meal, not at your desk.\nRest after eating if you need to.",
		lowEnergy: "Time to eat something. Away from the screen.\nRest after if you need to.",
	},
	"Active Recovery": {
		normal:    "Brief movement break.\nWalk, stretch, step outside for air.",
		lowEnergy: "Pause for a few minutes.\nEven standing and looking out a window counts.",
	},
	"Recovery Break": {
		normal:    "You've been going for hours.\nStep fully away. Snack, fresh air, anything not-work.",
		lowEnergy: "Your brain has done a lot today.\nTake some real time away.",
	},
	"Shutdown": {
		normal:    "Time to wrap up for the day.\nLog tomorrow's first task so you can let go.\nClear your desk. Hard disconnect.",
		lowEnergy: "You've done enough today.\nWrite one line about where to start tomorrow.\nThen stop.",
	},
}

// Describe returns the body text shown for a scheduled break.
func Describe(title string, lowEnergy bool) string {
	if desc, ok := breakDescriptions[title]; ok {
		if lowEnergy {
			return desc.lowEnergy
		}
		return desc.normal
	}
	if lowEnergy {
		return "Time for a break.\nTake it easy."
	}
	return fmt.Sprintf("Break: %s.\nStep away from your screen.", title)
}
