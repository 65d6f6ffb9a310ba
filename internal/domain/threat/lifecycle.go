package threat

import "fmt"

// Report is the model's per-turn update for one active threat. Fields are
// optional; an absent ETA means the engine decrements on its own.
type Report struct {
	ThreatID string `json:"threat_id"`
	ETA      *int   `json:"eta,omitempty"`
	Status   string `json:"status,omitempty"`
}

// AdvanceResult is the complete replacement for the active list plus the
// turn's tombstones and audit lines.
type AdvanceResult struct {
	Active  []Threat
	Retired []Retired
	Audit   []string
}

// Advance moves every active threat one turn forward. Reported terminal
// states are honored; otherwise the ETA decrements toward 1 and the threat
// becomes imminent. A threat stuck at ETA=1 for more than the stall limit is
// force-resolved by a die roll rather than allowed to stall forever. A
// retiring threat releases its sourcing hook back to dormant, with a fresh
// cooldown stamped from the retirement turn so the hook's growing lifetime
// cost is paid before it can source again.
func (g Gate) Advance(active []Threat, reports []Report, hooks Registry, turn int, roll func() int) AdvanceResult {
	byID := map[string]Report{}
	for _, r := range reports {
		byID[r.ThreatID] = r
	}

	out := AdvanceResult{Active: make([]Threat, 0, len(active))}
	for _, t := range active {
		report, reported := byID[t.ID]

		if reported {
			switch report.Status {
			case "triggered":
				out.Retired = append(out.Retired, tombstone(t, StatusTriggered, turn))
				out.Audit = append(out.Audit, fmt.Sprintf("threat %s triggered: %s", t.ID, t.Description))
				g.releaseHook(hooks, t.OriginHookID, turn)
				continue
			case "expired":
				out.Retired = append(out.Retired, tombstone(t, StatusExpired, turn))
				out.Audit = append(out.Audit, fmt.Sprintf("threat %s expired: %s", t.ID, t.Description))
				g.releaseHook(hooks, t.OriginHookID, turn)
				continue
			}
			if report.ETA != nil && *report.ETA >= 1 {
				t.ETA = *report.ETA
			} else {
				t.ETA = decrementETA(t.ETA)
			}
		} else {
			t.ETA = decrementETA(t.ETA)
		}

		if t.ETA <= 1 {
			t.Status = StatusImminent
			t.StalledTurns++
		} else {
			t.Status = StatusBuilding
			t.StalledTurns = 0
		}

		if t.StalledTurns > g.StallLimit {
			if roll() >= 11 {
				out.Retired = append(out.Retired, tombstone(t, StatusTriggered, turn))
				out.Audit = append(out.Audit, fmt.Sprintf("threat %s force-triggered after %d stalled turns", t.ID, t.StalledTurns))
			} else {
				out.Retired = append(out.Retired, tombstone(t, StatusExpired, turn))
				out.Audit = append(out.Audit, fmt.Sprintf("threat %s force-expired after %d stalled turns", t.ID, t.StalledTurns))
			}
			g.releaseHook(hooks, t.OriginHookID, turn)
			continue
		}

		out.Active = append(out.Active, t)
	}
	return out
}

// releaseHook puts a hook back in the dormant pool once the threat it
// sourced is gone, cooling down from the retirement turn for longer each
// lifetime use.
func (g Gate) releaseHook(hooks Registry, hookID string, turn int) {
	if hooks == nil || hookID == "" {
		return
	}
	h, ok := hooks.Find(hookID)
	if !ok || h.Status != HookActivated {
		return
	}
	h.Status = HookDormant
	h.CooldownUntilTurn = turn + g.HookCooldownBase + h.LifetimeUses
	hooks.Put(h)
}

func tombstone(t Threat, status Status, turn int) Retired {
	return Retired{
		ID:           t.ID,
		OriginHookID: t.OriginHookID,
		Status:       status,
		Names:        t.Names,
		RetiredTurn:  turn,
	}
}

func decrementETA(eta int) int {
	if eta <= 1 {
		return 1
	}
	return eta - 1
}
