package threat

import (
	"fmt"
	"strings"
)

// Proposal is the model's request to introduce a new threat. Untrusted: the
// gate assumes nothing about it.
type Proposal struct {
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	SourceFaction string          `json:"source_faction,omitempty"`
	HookID        string          `json:"hook_id,omitempty"`
	PlayerAction  *ActionCitation `json:"player_action,omitempty"`
	ETA           int             `json:"eta,omitempty"`
	Names         []string        `json:"names,omitempty"`
}

// Decision is one admission verdict, always carrying a reason so rejections
// are auditable.
type Decision struct {
	Admitted bool    `json:"admitted"`
	Reason   string  `json:"reason"`
	Threat   *Threat `json:"threat,omitempty"`
}

// Gate is the origin-admission rule set plus the lifecycle tunables.
type Gate struct {
	MaxActive         int
	ExposureThreshold int
	StallLimit        int
	HookCooldownBase  int
}

func DefaultGate() Gate {
	return Gate{
		MaxActive:         3,
		ExposureThreshold: 20,
		StallLimit:        3,
		HookCooldownBase:  2,
	}
}

// AdmitInput is the state the gate reads. Hooks is mutated on admission via
// a hook proof (activation, cooldown stamp, use counter).
type AdmitInput struct {
	Hooks         Registry
	Exposure      map[string]int
	KnownEntities map[string]bool
	Active        []Threat
	Retired       []Retired
	Turn          int
	NewID         func() string
}

// Admit applies the origin gate: a proposal is admitted only when exactly one
// of the three proofs holds. Anything else is rejected with a recorded
// reason and never persisted. Admission is idempotent for invalid proposals:
// resubmitting changes nothing.
func (g Gate) Admit(p Proposal, in AdmitInput) Decision {
	if len(in.Active) >= g.MaxActive {
		return Decision{Reason: fmt.Sprintf("rejected: %d threats already active (cap %d)", len(in.Active), g.MaxActive)}
	}
	if strings.TrimSpace(p.Description) == "" {
		return Decision{Reason: "rejected: empty threat description"}
	}
	if reason, recreates := g.recreatesRetired(p, in.Retired); recreates {
		return Decision{Reason: reason}
	}

	proofs := 0
	var origin OriginKind
	var hook Hook
	var hookReason string

	if strings.TrimSpace(p.HookID) != "" {
		found, ok := in.Hooks.Find(p.HookID)
		switch {
		case !ok:
			hookReason = fmt.Sprintf("hook %q not in registry", strings.TrimSpace(p.HookID))
		case found.Status != HookDormant:
			hookReason = fmt.Sprintf("hook %q already %s", found.ID, found.Status)
		case found.UnderCooldown(in.Turn):
			hookReason = fmt.Sprintf("hook %q under cooldown until turn %d", found.ID, found.CooldownUntilTurn)
		default:
			proofs++
			origin = OriginHook
			hook = found
		}
	}

	if c := p.PlayerAction; c != nil {
		switch {
		case strings.TrimSpace(c.Entity) == "" || strings.TrimSpace(c.Action) == "" || c.Turn <= 0:
			hookReason = joinReasons(hookReason, "player-action citation incomplete")
		case !in.KnownEntities[strings.ToLower(strings.TrimSpace(c.Entity))]:
			hookReason = joinReasons(hookReason, fmt.Sprintf("cited entity %q unknown", c.Entity))
		default:
			proofs++
			origin = OriginPlayerAction
		}
	}

	if faction := strings.TrimSpace(p.SourceFaction); faction != "" {
		if in.Exposure[faction] >= g.ExposureThreshold {
			proofs++
			origin = OriginExposure
		} else {
			hookReason = joinReasons(hookReason, fmt.Sprintf("faction %q exposure %d below %d", faction, in.Exposure[faction], g.ExposureThreshold))
		}
	}

	if proofs == 0 {
		reason := "rejected: no valid origin proof"
		if hookReason != "" {
			reason += " (" + hookReason + ")"
		}
		return Decision{Reason: reason}
	}
	if proofs > 1 {
		return Decision{Reason: fmt.Sprintf("rejected: %d origin proofs held, exactly one required", proofs)}
	}

	category := ParseCategory(p.Category)
	eta := p.ETA
	if floor := ETAFloor(category); eta < floor {
		eta = floor
	}

	admitted := Threat{
		ID:            in.NewID(),
		Description:   strings.TrimSpace(p.Description),
		Category:      category,
		Status:        StatusBuilding,
		ETA:           eta,
		SourceFaction: strings.TrimSpace(p.SourceFaction),
		Origin:        origin,
		CreatedTurn:   in.Turn,
		Names:         snapshotNames(p, in.KnownEntities),
	}
	if origin == OriginHook {
		admitted.OriginHookID = hook.ID
		hook.Status = HookActivated
		hook.LifetimeUses++
		hook.CooldownUntilTurn = in.Turn + g.HookCooldownBase + hook.LifetimeUses
		in.Hooks.Put(hook)
	}
	if origin == OriginPlayerAction {
		cited := *p.PlayerAction
		admitted.OriginAction = &cited
	}

	return Decision{
		Admitted: true,
		Reason:   fmt.Sprintf("admitted via %s, eta %d", origin, eta),
		Threat:   &admitted,
	}
}

// recreatesRetired rejects a proposal that reuses the name snapshot of an
// already-terminal threat while citing the same hook that sourced it. Names
// count whether they arrive in the proposal list or only inside the
// description, mirroring how the snapshot was taken.
func (g Gate) recreatesRetired(p Proposal, retired []Retired) (string, bool) {
	hookID := normalizeHookID(p.HookID)
	if hookID == "" {
		return "", false
	}
	proposalNames := map[string]bool{}
	for _, n := range p.Names {
		proposalNames[strings.ToLower(strings.TrimSpace(n))] = true
	}
	lowered := strings.ToLower(p.Description)
	for _, tomb := range retired {
		if normalizeHookID(tomb.OriginHookID) != hookID {
			continue
		}
		for _, n := range tomb.Names {
			key := strings.ToLower(strings.TrimSpace(n))
			if key == "" {
				continue
			}
			if proposalNames[key] || strings.Contains(lowered, key) {
				return fmt.Sprintf("rejected: recreates %s threat %s (name %q, same hook)", tomb.Status, tomb.ID, n), true
			}
		}
	}
	return "", false
}

func snapshotNames(p Proposal, known map[string]bool) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, n := range p.Names {
		n = strings.TrimSpace(n)
		if n == "" || seen[strings.ToLower(n)] {
			continue
		}
		seen[strings.ToLower(n)] = true
		out = append(out, n)
	}
	// Known entities mentioned in the description are part of the snapshot
	// even when the proposal forgets to list them.
	lowered := strings.ToLower(p.Description)
	for entity := range known {
		if seen[entity] || !strings.Contains(lowered, entity) {
			continue
		}
		seen[entity] = true
		out = append(out, entity)
	}
	return out
}

func joinReasons(a, b string) string {
	if a == "" {
		return b
	}
	return a + "; " + b
}
