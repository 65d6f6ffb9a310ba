package worldtime

import "strings"

// ActivityClass buckets a turn by what the narration says happened, which
// bounds how much time it may plausibly consume.
type ActivityClass string

const (
	ActivityCombat   ActivityClass = "combat"
	ActivityDialogue ActivityClass = "dialogue"
	ActivityRoutine  ActivityClass = "routine"
	ActivityTravel   ActivityClass = "travel"
	ActivitySleep    ActivityClass = "sleep"
)

type activityBounds struct {
	min int64
	max int64
}

var boundsByActivity = map[ActivityClass]activityBounds{
	ActivityCombat:   {min: 1, max: 5},
	ActivityDialogue: {min: 5, max: 15},
	ActivityRoutine:  {min: 15, max: 45},
	ActivityTravel:   {min: 30, max: 90},
	ActivitySleep:    {min: 420, max: 480},
}

// ParseActivityClass falls back to routine on anything unrecognized.
func ParseActivityClass(raw string) ActivityClass {
	switch ActivityClass(strings.ToLower(strings.TrimSpace(raw))) {
	case ActivityCombat:
		return ActivityCombat
	case ActivityDialogue:
		return ActivityDialogue
	case ActivityRoutine:
		return ActivityRoutine
	case ActivityTravel:
		return ActivityTravel
	case ActivitySleep:
		return ActivitySleep
	default:
		return ActivityRoutine
	}
}

// ClampForActivity caps a proposed minute advance to the plausible window for
// the activity class. The sleep window applies only when an explicit sleep
// signal accompanies the advance; a sleep-class turn without the signal
// contributes zero minutes rather than guessing, so an upstream proposal that
// omits the field cannot silently drift the clock.
func ClampForActivity(class ActivityClass, proposed int64, sleepSignal bool) int64 {
	if class == ActivitySleep && !sleepSignal {
		return 0
	}
	bounds, ok := boundsByActivity[class]
	if !ok {
		bounds = boundsByActivity[ActivityRoutine]
	}
	if proposed < bounds.min {
		return bounds.min
	}
	if proposed > bounds.max {
		return bounds.max
	}
	return proposed
}
