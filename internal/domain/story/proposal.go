package story

import (
	"strings"

	"taleward/internal/domain/bio"
	"taleward/internal/domain/character"
	"taleward/internal/domain/faction"
	"taleward/internal/domain/threat"
	"taleward/internal/domain/worldtime"
)

// TurnProposal is the narrator model's raw per-turn output. Every field is
// optional and untrusted; Normalize turns it into a TurnPlan without ever
// failing.
type TurnProposal struct {
	Narration      string    `json:"narration,omitempty"`
	SceneMode      string    `json:"scene_mode,omitempty"`
	Lighting       string    `json:"lighting,omitempty"`
	ActivityClass  string    `json:"activity_class,omitempty"`
	ElapsedMinutes FlexInt   `json:"elapsed_minutes,omitempty"`
	SleepSignal    bool      `json:"sleep_signal,omitempty"`
	SleepHours     FlexFloat `json:"sleep_hours,omitempty"`
	TensionDelta   FlexInt   `json:"tension_delta,omitempty"`
	Bargain        bool      `json:"bargain,omitempty"`

	Ingestion *IngestionProposal `json:"ingestion,omitempty"`
	Character *CharacterProposal `json:"character,omitempty"`

	NewEntities     []KnownEntity          `json:"new_entities,omitempty"`
	InfoEvents      []faction.InfoEvent    `json:"info_events,omitempty"`
	ExposureEvents  []ExposureEvent        `json:"exposure_events,omitempty"`
	ClaimEvents     []faction.ClaimEvent   `json:"claim_events,omitempty"`
	ThreatProposals []ThreatProposal       `json:"threat_proposals,omitempty"`
	ThreatReports   []ThreatReportProposal `json:"threat_reports,omitempty"`
	Roll            *RollProposal          `json:"roll,omitempty"`
	Lore            []LoreEntry            `json:"lore,omitempty"`
}

type IngestionProposal struct {
	Calories FlexFloat `json:"calories,omitempty"`
	Water    FlexFloat `json:"water,omitempty"`
	Relieved []string  `json:"relieved,omitempty"`
}

type CharacterProposal struct {
	AddConditions     []string             `json:"add_conditions,omitempty"`
	RemoveConditions  []string             `json:"remove_conditions,omitempty"`
	AddInventory      []string             `json:"add_inventory,omitempty"`
	RemoveInventory   []string             `json:"remove_inventory,omitempty"`
	TraumaDelta       FlexInt              `json:"trauma_delta,omitempty"`
	ModifierOverrides map[string]FlexFloat `json:"modifier_overrides,omitempty"`
	AddRelationships  []string             `json:"add_relationships,omitempty"`
	AddGoals          []string             `json:"add_goals,omitempty"`
}

type ExposureEvent struct {
	Faction string  `json:"faction"`
	Amount  FlexInt `json:"amount"`
	Reason  string  `json:"reason,omitempty"`
}

type ThreatProposal struct {
	Description   string                 `json:"description"`
	Category      string                 `json:"category,omitempty"`
	SourceFaction string                 `json:"source_faction,omitempty"`
	HookID        string                 `json:"hook_id,omitempty"`
	PlayerAction  *threat.ActionCitation `json:"player_action,omitempty"`
	ETA           FlexInt                `json:"eta,omitempty"`
	Names         []string               `json:"names,omitempty"`
}

type ThreatReportProposal struct {
	ThreatID string   `json:"threat_id"`
	ETA      *FlexInt `json:"eta,omitempty"`
	Status   string   `json:"status,omitempty"`
}

type RollProposal struct {
	Bonus        FlexInt `json:"bonus,omitempty"`
	Advantage    bool    `json:"advantage,omitempty"`
	Disadvantage bool    `json:"disadvantage,omitempty"`
}

// LoreEntry is queued for external approval, never written into state here.
type LoreEntry struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// TurnPlan is the defensively defaulted, typed form of a proposal. Building
// it never fails: unknown enums fall to their defaults, garbage numbers to
// zero, missing slices to empty.
type TurnPlan struct {
	Narration      string
	Mode           SceneMode
	Lighting       Lighting
	ElapsedMinutes int64
	SleepSignal    bool
	TensionDelta   int
	Bargain        bool

	Ingestion *bio.Ingestion
	Delta     character.Delta

	NewEntities     []KnownEntity
	InfoEvents      []faction.InfoEvent
	ExposureEvents  []ExposureEvent
	ClaimEvents     []faction.ClaimEvent
	ThreatProposals []threat.Proposal
	ThreatReports   []threat.Report
	Roll            *RollProposal
	Lore            []LoreEntry
}

// Normalize applies the malformed-input policy: defensive defaulting, never
// an error.
func (p TurnProposal) Normalize() TurnPlan {
	plan := TurnPlan{
		Narration:      p.Narration,
		Mode:           ParseSceneMode(p.SceneMode),
		Lighting:       ParseLighting(p.Lighting),
		ElapsedMinutes: int64(p.ElapsedMinutes),
		SleepSignal:    p.SleepSignal || p.SleepHours > 0,
		TensionDelta:   int(p.TensionDelta),
		Bargain:        p.Bargain,
		NewEntities:    p.NewEntities,
		InfoEvents:     p.InfoEvents,
		ExposureEvents: p.ExposureEvents,
		ClaimEvents:    p.ClaimEvents,
		Roll:           p.Roll,
		Lore:           p.Lore,
	}

	sleepHours := float64(p.SleepHours)
	if p.Ingestion != nil || plan.SleepSignal {
		ing := &bio.Ingestion{SleepHours: sleepHours}
		if plan.SleepSignal && ing.SleepHours <= 0 {
			ing.SleepHours = 8
		}
		if p.Ingestion != nil {
			ing.Calories = float64(p.Ingestion.Calories)
			ing.Water = float64(p.Ingestion.Water)
			ing.Relieved = p.Ingestion.Relieved
		}
		plan.Ingestion = ing
	}

	if c := p.Character; c != nil {
		plan.Delta = character.Delta{
			AddConditions:    c.AddConditions,
			RemoveConditions: c.RemoveConditions,
			AddInventory:     c.AddInventory,
			RemoveInventory:  c.RemoveInventory,
			TraumaDelta:      int(c.TraumaDelta),
			AddRelationships: c.AddRelationships,
			AddGoals:         c.AddGoals,
		}
		if len(c.ModifierOverrides) > 0 {
			plan.Delta.ModifierOverrides = make(map[string]float64, len(c.ModifierOverrides))
			for k, v := range c.ModifierOverrides {
				plan.Delta.ModifierOverrides[k] = float64(v)
			}
		}
	}

	for _, tp := range p.ThreatProposals {
		plan.ThreatProposals = append(plan.ThreatProposals, threat.Proposal{
			Description:   tp.Description,
			Category:      tp.Category,
			SourceFaction: tp.SourceFaction,
			HookID:        tp.HookID,
			PlayerAction:  tp.PlayerAction,
			ETA:           int(tp.ETA),
			Names:         tp.Names,
		})
	}

	for _, tr := range p.ThreatReports {
		if strings.TrimSpace(tr.ThreatID) == "" {
			continue
		}
		report := threat.Report{ThreatID: strings.TrimSpace(tr.ThreatID), Status: strings.ToLower(strings.TrimSpace(tr.Status))}
		if tr.ETA != nil {
			eta := int(*tr.ETA)
			report.ETA = &eta
		}
		plan.ThreatReports = append(plan.ThreatReports, report)
	}

	return plan
}

// ActivityElapsed picks the clock advance for the plan: the activity class
// caps the proposed minutes, and a sleep-class turn without a sleep signal
// contributes nothing.
func (p TurnPlan) ActivityElapsed(rawActivity string) int64 {
	class := p.Mode.ActivityClass()
	if strings.TrimSpace(rawActivity) != "" {
		class = worldtime.ParseActivityClass(rawActivity)
	}
	return worldtime.ClampForActivity(class, p.ElapsedMinutes, p.SleepSignal)
}
