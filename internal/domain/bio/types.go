package bio

// Metabolism values live on a 0-100 scale.
type Metabolism struct {
	Calories  float64 `json:"calories"`
	Hydration float64 `json:"hydration"`
	Stamina   float64 `json:"stamina"`
	Libido    float64 `json:"libido"`
}

// Pressures live on a 0-120 scale.
type Pressures struct {
	Bladder   float64 `json:"bladder"`
	Bowels    float64 `json:"bowels"`
	Lactation float64 `json:"lactation"`
	Seminal   float64 `json:"seminal"`
}

// Timestamps are absolute world-minutes, not wall time.
type Timestamps struct {
	LastSleepMinute  int64 `json:"last_sleep_minute"`
	LastMealMinute   int64 `json:"last_meal_minute"`
	LastClimaxMinute int64 `json:"last_climax_minute"`
}

// Modifiers are rate multipliers applied to the matching drain or
// accumulation rate. They are governed: global range first, then the
// per-field ceiling.
type Modifiers struct {
	Calories  float64 `json:"calories"`
	Hydration float64 `json:"hydration"`
	Stamina   float64 `json:"stamina"`
	Lactation float64 `json:"lactation"`
}

// State is the biological monitor carried on a character.
type State struct {
	Metabolism Metabolism `json:"metabolism"`
	Pressures  Pressures  `json:"pressures"`
	Timestamps Timestamps `json:"timestamps"`
	Modifiers  Modifiers  `json:"modifiers"`
}

// NewState seeds a healthy baseline with neutral modifiers.
func NewState() State {
	return State{
		Metabolism: Metabolism{Calories: 80, Hydration: 80, Stamina: 80, Libido: 20},
		Modifiers:  Modifiers{Calories: 1, Hydration: 1, Stamina: 1, Lactation: 1},
	}
}

// Ingestion carries the optional intake signals reported for a turn.
type Ingestion struct {
	Calories   float64  `json:"calories,omitempty"`
	Water      float64  `json:"water,omitempty"`
	SleepHours float64  `json:"sleep_hours,omitempty"`
	Relieved   []string `json:"relieved,omitempty"`
}
