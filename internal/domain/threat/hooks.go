package threat

import "strings"

// HookStatus is the lifecycle of a dormant hook: it starts dormant and is
// consumed into "activated" when it sources a threat.
type HookStatus int

const (
	HookDormant HookStatus = iota
	HookActivated
)

func (s HookStatus) String() string {
	switch s {
	case HookDormant:
		return "dormant"
	case HookActivated:
		return "activated"
	default:
		return "dormant"
	}
}

// Hook is a latent, pre-authorized tension vector drawn from character
// background. Hooks are the cheapest valid origin for a threat, so their use
// is throttled: each sourcing stamps a cooldown that grows with lifetime use.
type Hook struct {
	ID                string     `json:"id"`
	Description       string     `json:"description"`
	Status            HookStatus `json:"status"`
	CooldownUntilTurn int        `json:"cooldown_until_turn,omitempty"`
	LifetimeUses      int        `json:"lifetime_uses,omitempty"`
}

// UnderCooldown reports whether the hook may not source a threat this turn.
func (h Hook) UnderCooldown(turn int) bool {
	return turn < h.CooldownUntilTurn
}

// Registry holds the session's dormant hooks keyed by id.
type Registry map[string]Hook

// Find is case- and whitespace-insensitive on the id.
func (r Registry) Find(id string) (Hook, bool) {
	h, ok := r[normalizeHookID(id)]
	return h, ok
}

func (r Registry) Put(h Hook) {
	r[normalizeHookID(h.ID)] = h
}

func normalizeHookID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
