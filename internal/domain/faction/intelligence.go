package faction

import (
	"fmt"
	"strings"
)

// ConfidenceTier is how certain a faction is about the player's location.
type ConfidenceTier int

const (
	ConfidenceNone ConfidenceTier = iota
	ConfidenceRumor
	ConfidenceReport
	ConfidenceConfirmed
)

func (c ConfidenceTier) String() string {
	switch c {
	case ConfidenceNone:
		return "none"
	case ConfidenceRumor:
		return "rumor"
	case ConfidenceReport:
		return "report"
	case ConfidenceConfirmed:
		return "confirmed"
	default:
		return "none"
	}
}

// ParseConfidenceTier defaults to none on anything unrecognized.
func ParseConfidenceTier(raw string) ConfidenceTier {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "rumor":
		return ConfidenceRumor
	case "report":
		return ConfidenceReport
	case "confirmed":
		return ConfidenceConfirmed
	default:
		return ConfidenceNone
	}
}

// Intelligence is one faction's knowledge of the player. It only changes via
// an explicit, sourced information event: a faction cannot just know things.
type Intelligence struct {
	Faction       string         `json:"faction"`
	KnownLocation string         `json:"known_location"`
	Confidence    ConfidenceTier `json:"confidence"`
	UpdatedTurn   int            `json:"updated_turn"`
	Source        string         `json:"source"`
}

// InfoEvent is a reported, sourced observation. Events without a source are
// rejected rather than applied.
type InfoEvent struct {
	Faction    string `json:"faction"`
	Location   string `json:"location"`
	Confidence string `json:"confidence"`
	Source     string `json:"source"`
}

// ApplyInfoEvent updates the intelligence map. Returns an audit line and
// whether the event was applied.
func ApplyInfoEvent(intel map[string]Intelligence, evt InfoEvent, turn int) (string, bool) {
	factionName := strings.TrimSpace(evt.Faction)
	if factionName == "" {
		return "intel event dropped: no faction named", false
	}
	if strings.TrimSpace(evt.Source) == "" {
		return fmt.Sprintf("intel event for %s dropped: unsourced (omniscience prevention)", factionName), false
	}
	record := Intelligence{
		Faction:       factionName,
		KnownLocation: strings.TrimSpace(evt.Location),
		Confidence:    ParseConfidenceTier(evt.Confidence),
		UpdatedTurn:   turn,
		Source:        strings.TrimSpace(evt.Source),
	}
	intel[factionName] = record
	return fmt.Sprintf("%s intel updated: %s (%s, via %s)", factionName, record.KnownLocation, record.Confidence, record.Source), true
}

// Exposure is the 0-100 accumulating score of how much a faction has
// concretely observed the player. Monotonic: it only rises.
type Exposure map[string]int

// Add raises a faction's exposure, capped at 100. Negative amounts are
// ignored to keep the score monotonic.
func (e Exposure) Add(faction string, amount int) int {
	faction = strings.TrimSpace(faction)
	if faction == "" || amount <= 0 {
		return e[faction]
	}
	next := e[faction] + amount
	if next > 100 {
		next = 100
	}
	e[faction] = next
	return next
}
