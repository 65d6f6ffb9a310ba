package bio

import "strings"

// ModifierField names one of the four governed rate multipliers.
type ModifierField string

const (
	FieldCalories  ModifierField = "calories"
	FieldHydration ModifierField = "hydration"
	FieldStamina   ModifierField = "stamina"
	FieldLactation ModifierField = "lactation"
)

// ParseModifierField reports false for anything that is not a governed field.
func ParseModifierField(raw string) (ModifierField, bool) {
	switch ModifierField(strings.ToLower(strings.TrimSpace(raw))) {
	case FieldCalories:
		return FieldCalories, true
	case FieldHydration:
		return FieldHydration, true
	case FieldStamina:
		return FieldStamina, true
	case FieldLactation:
		return FieldLactation, true
	default:
		return "", false
	}
}

// Ceiling returns the per-field upper bound, stricter than the global cap.
func (t Tuning) Ceiling(field ModifierField) float64 {
	switch field {
	case FieldStamina:
		return t.StaminaCeiling
	case FieldCalories:
		return t.CaloriesCeiling
	case FieldHydration:
		return t.HydrationCeiling
	case FieldLactation:
		return t.LactationCeiling
	default:
		return t.ModifierCap
	}
}

// ClampModifier applies the global range first, then the field ceiling. Every
// path a modifier value can enter by goes through here: the biological tick
// and the character delta merge both call it.
func (t Tuning) ClampModifier(field ModifierField, value float64) float64 {
	if value < t.ModifierFloor {
		value = t.ModifierFloor
	}
	if value > t.ModifierCap {
		value = t.ModifierCap
	}
	if ceiling := t.Ceiling(field); value > ceiling {
		value = ceiling
	}
	return value
}

// ClampAll runs every modifier through the clamp-then-ceiling pipeline.
func (t Tuning) ClampAll(m Modifiers) Modifiers {
	return Modifiers{
		Calories:  t.ClampModifier(FieldCalories, m.Calories),
		Hydration: t.ClampModifier(FieldHydration, m.Hydration),
		Stamina:   t.ClampModifier(FieldStamina, m.Stamina),
		Lactation: t.ClampModifier(FieldLactation, m.Lactation),
	}
}
