package model

// ExerciseCategory groups movement suggestions.
type ExerciseCategory string

const (
	ExerciseEye     ExerciseCategory = "eye"
	ExerciseStretch ExerciseCategory = "stretch"
	ExerciseMove    ExerciseCategory = "move"
)

var exercises = map[ExerciseCategory][]string{
	ExerciseEye: {
		"Blink rapidly 20 times to refresh your eyes",
		"Look at something 20+ feet away for 20 seconds",
		"Close your eyes and relax for 20 seconds",
		"Roll your eyes in circles, clockwise then counter-clockwise",
		"Focus on a near object, then a far object, 5 times",
		"Gently massage your temples and around your eyes",
		"Cup your palms over closed eyes for 20 seconds",
		"Look up, down, left, right and hold each for 3 seconds",
	},
	ExerciseStretch: {
		"Stand up and stretch your arms overhead",
		"Roll your shoulders backwards 10 times",
		"Tilt your head to each side, holding for 10 seconds",
		"Interlace fingers and push palms outward",
		"Stand and do a gentle standing forward fold",
		"Do 5 slow neck rolls in each direction",
		"Stretch your wrists: extend an arm, pull the fingers back gently",
		"Twist your torso left and right while seated",
		"Shrug shoulders up to ears, hold 5 seconds, release",
		"Clasp hands behind your back and open your chest",
		"Do 10 calf raises while standing",
		"March in place for 30 seconds",
		"Reach toward your toes",
		"Do a doorway chest stretch",
		"Reach one arm overhead and lean into a gentle side bend",
	},
	ExerciseMove: {
		"Walk to the window and look outside for a moment",
		"Get a glass of water and drink it",
		"Do 10 squats or chair squats",
		"Walk around your space for 2 minutes",
		"Do 10 wall push-ups",
		"Step outside for fresh air if possible",
		"Walk up and down stairs once",
		"Do some light jumping jacks",
		"Shake out your whole body for 30 seconds",
		"Take a short walk to another room and back",
	},
}

// Exercise returns suggestion pick(n) of a category, where pick returns an
// index in [0, n). Unknown categories fall back to stretches.
func Exercise(category ExerciseCategory, pick func(n int) int) string {
	list, ok := exercises[category]
	if !ok {
		list = exercises[ExerciseStretch]
	}
	return list[pick(len(list))%len(list)]
}

// Reminder is a short nudge shown between breaks.
type Reminder struct {
	Title string
	Body  string
}

// MiniReminders is the rotation of posture and comfort nudges.
var MiniReminders = []Reminder{
	{Title: "Time to hydrate", Body: "Take a sip of water"},
	{Title: "Posture check", Body: "Sit up straight, shoulders back"},
	{Title: "Blink break", Body: "Blink slowly 10 times"},
	{Title: "Deep breath", Body: "Take 3 slow, deep breaths"},
	{Title: "Foot check", Body: "Uncross legs, feet flat on floor"},
	{Title: "Hand stretch", Body: "Shake out your hands and fingers"},
	{Title: "Face relax", Body: "Unclench your jaw, relax your face"},
}

// HydrationReminder is sent every hydration interval.
var HydrationReminder = Reminder{Title: "Hydration", Body: "Time for a glass of water"}
