package story

import (
	"strings"

	"taleward/internal/domain/character"
	"taleward/internal/domain/names"
)

// Sanitize walks every string field of a loaded world and character and
// resolves banned names, extending the session's replacement map. It exists
// for legacy state that predates the current denylist: contamination is
// repaired on load, never a reason to refuse the state. The pass is
// idempotent, since replacements are never themselves denylisted.
func Sanitize(w WorldState, c character.Character, r *names.Resolver) (WorldState, character.Character, bool) {
	return sanitizeWith(w, c, r.Resolve)
}

// SanitizeKnown is the hot-path variant run on every turn load: it applies
// only replacements the session has already minted and never extends the
// map. Anything it cannot fix is left for the full Sanitize repair pass.
func SanitizeKnown(w WorldState, c character.Character, r *names.Resolver) (WorldState, character.Character, bool) {
	return sanitizeWith(w, c, r.ResolveKnown)
}

func sanitizeWith(w WorldState, c character.Character, resolve func(string, names.ReplacementMap) string) (WorldState, character.Character, bool) {
	if w.BannedNames == nil {
		w.BannedNames = names.ReplacementMap{}
	}
	changed := false
	clean := func(s string) string {
		next := resolve(s, w.BannedNames)
		if next != s {
			changed = true
		}
		return next
	}

	c.Name = clean(c.Name)
	c.Conditions = cleanAll(c.Conditions, clean)
	c.Inventory = cleanAll(c.Inventory, clean)
	c.Relationships = cleanAll(c.Relationships, clean)
	c.Goals = cleanAll(c.Goals, clean)

	entities := make(map[string]KnownEntity, len(w.Entities))
	for key, e := range w.Entities {
		e.Name = clean(e.Name)
		e.Role = clean(e.Role)
		e.Location = clean(e.Location)
		e.Interactions = cleanAll(e.Interactions, clean)
		cleanKey := clean(key)
		entities[strings.ToLower(cleanKey)] = e
	}
	w.Entities = entities

	for id, h := range w.Hooks {
		h.Description = clean(h.Description)
		w.Hooks[id] = h
	}
	for i := range w.Threats {
		w.Threats[i].Description = clean(w.Threats[i].Description)
		w.Threats[i].Names = cleanAll(w.Threats[i].Names, clean)
	}
	for i := range w.RetiredThreats {
		w.RetiredThreats[i].Names = cleanAll(w.RetiredThreats[i].Names, clean)
	}
	for key, intel := range w.Intel {
		intel.KnownLocation = clean(intel.KnownLocation)
		intel.Source = clean(intel.Source)
		w.Intel[key] = intel
	}
	for i := range w.Claims {
		w.Claims[i].Claimant = clean(w.Claims[i].Claimant)
		w.Claims[i].Subject = clean(w.Claims[i].Subject)
		w.Claims[i].Basis = clean(w.Claims[i].Basis)
		w.Claims[i].Resolver = clean(w.Claims[i].Resolver)
	}

	return w, c, changed
}

func cleanAll(in []string, clean func(string) string) []string {
	if len(in) == 0 {
		return in
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = clean(s)
	}
	return out
}
