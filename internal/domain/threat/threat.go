package threat

import "strings"

// Status is the threat lifecycle: building -> imminent -> {triggered,
// expired}. The terminal states remove the threat from the active list.
type Status int

const (
	StatusBuilding Status = iota
	StatusImminent
	StatusTriggered
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusBuilding:
		return "building"
	case StatusImminent:
		return "imminent"
	case StatusTriggered:
		return "triggered"
	case StatusExpired:
		return "expired"
	default:
		return "building"
	}
}

func (s Status) Terminal() bool {
	return s == StatusTriggered || s == StatusExpired
}

// Category buckets a threat for its ETA floor: how many turns away a freshly
// admitted threat must start.
type Category string

const (
	CategoryAmbush        Category = "ambush"
	CategoryRaid          Category = "raid"
	CategorySocial        Category = "social"
	CategoryEnvironmental Category = "environmental"
	CategoryInvestigation Category = "investigation"
	CategoryLegal         Category = "legal"
)

var etaFloors = map[Category]int{
	CategoryAmbush:        1,
	CategoryRaid:          2,
	CategorySocial:        2,
	CategoryEnvironmental: 2,
	CategoryInvestigation: 3,
	CategoryLegal:         5,
}

const defaultETAFloor = 2

// ParseCategory keeps unknown categories as-is; they get the default floor.
func ParseCategory(raw string) Category {
	return Category(strings.ToLower(strings.TrimSpace(raw)))
}

// ETAFloor is the minimum turn distance for a fresh threat of this category.
func ETAFloor(c Category) int {
	if floor, ok := etaFloors[c]; ok {
		return floor
	}
	return defaultETAFloor
}

// OriginKind records which of the three admission proofs admitted a threat.
type OriginKind int

const (
	OriginHook OriginKind = iota
	OriginPlayerAction
	OriginExposure
)

func (o OriginKind) String() string {
	switch o {
	case OriginHook:
		return "dormant_hook"
	case OriginPlayerAction:
		return "player_action"
	case OriginExposure:
		return "faction_exposure"
	default:
		return "dormant_hook"
	}
}

// ActionCitation is the (b) proof: a specific player action naming an
// existing known entity, the action taken, and the turn it happened.
type ActionCitation struct {
	Entity string `json:"entity"`
	Action string `json:"action"`
	Turn   int    `json:"turn"`
}

// Threat is one admitted, active narrative threat.
type Threat struct {
	ID            string          `json:"id"`
	Description   string          `json:"description"`
	Category      Category        `json:"category"`
	Status        Status          `json:"status"`
	ETA           int             `json:"eta"`
	SourceFaction string          `json:"source_faction,omitempty"`
	Origin        OriginKind      `json:"origin"`
	OriginHookID  string          `json:"origin_hook_id,omitempty"`
	OriginAction  *ActionCitation `json:"origin_action,omitempty"`
	CreatedTurn   int             `json:"created_turn"`
	StalledTurns  int             `json:"stalled_turns,omitempty"`
	Names         []string        `json:"names,omitempty"`
}

// Retired is the tombstone kept after a threat reaches a terminal state. Its
// name snapshot backs the recreation guard.
type Retired struct {
	ID           string   `json:"id"`
	OriginHookID string   `json:"origin_hook_id,omitempty"`
	Status       Status   `json:"status"`
	Names        []string `json:"names,omitempty"`
	RetiredTurn  int      `json:"retired_turn"`
}
