package story

import (
	"strings"

	"taleward/internal/domain/dice"
	"taleward/internal/domain/faction"
	"taleward/internal/domain/names"
	"taleward/internal/domain/threat"
	"taleward/internal/domain/worldtime"
)

// SceneMode is a closed enum; anything unrecognized parses to Narrative.
type SceneMode int

const (
	ModeNarrative SceneMode = iota
	ModeCombat
	ModeDialogue
	ModeTravel
	ModeSleep
)

func (m SceneMode) String() string {
	switch m {
	case ModeNarrative:
		return "NARRATIVE"
	case ModeCombat:
		return "COMBAT"
	case ModeDialogue:
		return "DIALOGUE"
	case ModeTravel:
		return "TRAVEL"
	case ModeSleep:
		return "SLEEP"
	default:
		return "NARRATIVE"
	}
}

func ParseSceneMode(raw string) SceneMode {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "COMBAT":
		return ModeCombat
	case "DIALOGUE":
		return ModeDialogue
	case "TRAVEL":
		return ModeTravel
	case "SLEEP":
		return ModeSleep
	default:
		return ModeNarrative
	}
}

// ActivityClass maps a scene mode to the clock's activity bucket.
func (m SceneMode) ActivityClass() worldtime.ActivityClass {
	switch m {
	case ModeCombat:
		return worldtime.ActivityCombat
	case ModeDialogue:
		return worldtime.ActivityDialogue
	case ModeTravel:
		return worldtime.ActivityTravel
	case ModeSleep:
		return worldtime.ActivitySleep
	default:
		return worldtime.ActivityRoutine
	}
}

// Lighting is a closed enum defaulting to Dim.
type Lighting int

const (
	LightingDim Lighting = iota
	LightingBright
	LightingDark
)

func (l Lighting) String() string {
	switch l {
	case LightingBright:
		return "BRIGHT"
	case LightingDark:
		return "DARK"
	default:
		return "DIM"
	}
}

func ParseLighting(raw string) Lighting {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "BRIGHT":
		return LightingBright
	case "DARK":
		return LightingDark
	default:
		return LightingDim
	}
}

// KnownEntity is one NPC the session has established, with a ledger of past
// interactions.
type KnownEntity struct {
	Name         string   `json:"name"`
	Role         string   `json:"role,omitempty"`
	Location     string   `json:"location,omitempty"`
	Relationship int      `json:"relationship"` // tier, negative is hostile
	Interactions []string `json:"interactions,omitempty"`
}

// WorldState is the authoritative per-session world snapshot. The orchestrator
// owns it exclusively for the duration of one turn and publishes a new
// snapshot atomically at the end.
type WorldState struct {
	Clock           worldtime.Clock                 `json:"clock"`
	Mode            SceneMode                       `json:"mode"`
	Lighting        Lighting                        `json:"lighting"`
	Tension         int                             `json:"tension"` // 0-100
	Turn            int                             `json:"turn"`
	LastBargainTurn int                             `json:"last_bargain_turn,omitempty"`
	Entities        map[string]KnownEntity          `json:"entities"`
	Hooks           threat.Registry                 `json:"hooks"`
	Exposure        faction.Exposure                `json:"exposure"`
	Intel           map[string]faction.Intelligence `json:"intel"`
	Claims          []faction.Claim                 `json:"claims"`
	Threats         []threat.Threat                 `json:"threats"`
	RetiredThreats  []threat.Retired                `json:"retired_threats"`
	BannedNames     names.ReplacementMap            `json:"banned_names"`
	Cleared         []string                        `json:"cleared_conditions,omitempty"` // grace-buffered manual clears
	RollStats       dice.Stats                      `json:"roll_stats"`
	LastRequestID   int64                           `json:"last_request_id"`
	Version         int64                           `json:"version"`
}

// NewWorldState seeds an empty session world.
func NewWorldState() WorldState {
	return WorldState{
		Tension:        10,
		Turn:           0,
		Entities:       map[string]KnownEntity{},
		Hooks:          threat.Registry{},
		Exposure:       faction.Exposure{},
		Intel:          map[string]faction.Intelligence{},
		Claims:         []faction.Claim{},
		Threats:        []threat.Threat{},
		RetiredThreats: []threat.Retired{},
		BannedNames:    names.ReplacementMap{},
	}
}

// KnownEntityKeys is the lower-cased name set the threat gate checks
// citations against.
func (w WorldState) KnownEntityKeys() map[string]bool {
	out := make(map[string]bool, len(w.Entities))
	for name := range w.Entities {
		out[strings.ToLower(strings.TrimSpace(name))] = true
	}
	return out
}

// ClampTension keeps tension inside [0,100].
func ClampTension(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
