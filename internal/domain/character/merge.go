package character

import (
	"fmt"
	"strings"

	"taleward/internal/domain/bio"
)

// Delta is the model's proposed character update. Every field is optional and
// untrusted; the merge clamps or drops anything out of bounds.
type Delta struct {
	AddConditions     []string           `json:"add_conditions,omitempty"`
	RemoveConditions  []string           `json:"remove_conditions,omitempty"`
	AddInventory      []string           `json:"add_inventory,omitempty"`
	RemoveInventory   []string           `json:"remove_inventory,omitempty"`
	TraumaDelta       int                `json:"trauma_delta,omitempty"`
	ModifierOverrides map[string]float64 `json:"modifier_overrides,omitempty"`
	AddRelationships  []string           `json:"add_relationships,omitempty"`
	AddGoals          []string           `json:"add_goals,omitempty"`
}

// MergeResult carries the next record plus audit lines for every clamp or
// rejection the merge performed.
type MergeResult struct {
	Character Character
	Audit     []string
}

// Merge applies a delta with set semantics: union for additions, difference
// for removals, duplicate-safe in both directions. Trauma is additive then
// clamped. Modifier overrides run through the same clamp-then-ceiling pipeline
// as the biological tick, which is the second of the two enforcement points.
func Merge(c Character, d Delta, tuning bio.Tuning) MergeResult {
	audit := []string{}
	next := c

	next.Conditions = addAll(next.Conditions, d.AddConditions)
	next.Conditions = removeAll(next.Conditions, d.RemoveConditions)
	next.Conditions = normalizeConditions(next.Conditions)

	next.Inventory = addAll(next.Inventory, d.AddInventory)
	next.Inventory = removeAll(next.Inventory, d.RemoveInventory)

	next.Relationships = addAll(next.Relationships, d.AddRelationships)
	next.Goals = addAll(next.Goals, d.AddGoals)

	if d.TraumaDelta != 0 {
		raw := next.Trauma + d.TraumaDelta
		next.Trauma = ClampTrauma(raw)
		if next.Trauma != raw {
			audit = append(audit, fmt.Sprintf("trauma %+d clamped to %d", d.TraumaDelta, next.Trauma))
		}
	}

	for name, value := range d.ModifierOverrides {
		field, ok := bio.ParseModifierField(name)
		if !ok {
			audit = append(audit, "dropped override for unknown modifier "+strings.TrimSpace(name))
			continue
		}
		clamped := tuning.ClampModifier(field, value)
		if clamped != value {
			audit = append(audit, fmt.Sprintf("%s modifier override %.2f clamped to %.2f", field, value, clamped))
		}
		setModifier(&next.Bio.Modifiers, field, clamped)
	}

	return MergeResult{Character: next, Audit: audit}
}

func setModifier(m *bio.Modifiers, field bio.ModifierField, value float64) {
	switch field {
	case bio.FieldCalories:
		m.Calories = value
	case bio.FieldHydration:
		m.Hydration = value
	case bio.FieldStamina:
		m.Stamina = value
	case bio.FieldLactation:
		m.Lactation = value
	}
}

var severityAdjectives = []string{"mild", "moderate", "severe", "critical", "extreme", "slight", "heavy", "light"}

// normalizeKey strips severity adjectives so "Mild Concussion" and "Severe
// Concussion" compare equal.
func normalizeKey(name string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if isSeverityAdjective(w) {
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 {
		return strings.Join(words, " ")
	}
	return strings.Join(kept, " ")
}

func isSeverityAdjective(word string) bool {
	for _, adj := range severityAdjectives {
		if word == adj {
			return true
		}
	}
	return false
}

// normalizeConditions deduplicates by normalized key, keeping the longer and
// therefore more descriptive spelling.
func normalizeConditions(conditions []string) []string {
	byKey := map[string]string{}
	order := []string{}
	for _, cond := range conditions {
		cond = strings.TrimSpace(cond)
		if cond == "" {
			continue
		}
		key := normalizeKey(cond)
		existing, seen := byKey[key]
		if !seen {
			byKey[key] = cond
			order = append(order, key)
			continue
		}
		if len(cond) > len(existing) {
			byKey[key] = cond
		}
	}
	out := make([]string, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key])
	}
	return out
}

func addAll(set []string, add []string) []string {
	out := append([]string{}, set...)
	for _, item := range add {
		item = strings.TrimSpace(item)
		if item == "" || containsFold(out, item) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func removeAll(set []string, remove []string) []string {
	if len(remove) == 0 {
		return set
	}
	drop := map[string]bool{}
	for _, item := range remove {
		drop[foldKey(item)] = true
	}
	out := make([]string, 0, len(set))
	for _, item := range set {
		if drop[foldKey(item)] {
			continue
		}
		out = append(out, item)
	}
	return out
}

func containsFold(set []string, item string) bool {
	key := foldKey(item)
	for _, s := range set {
		if foldKey(s) == key {
			return true
		}
	}
	return false
}

func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
