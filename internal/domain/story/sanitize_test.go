package story

import (
	"strings"
	"testing"

	"taleward/internal/domain/character"
	"taleward/internal/domain/names"
	"taleward/internal/domain/threat"
)

func contaminatedState() (WorldState, character.Character) {
	w := NewWorldState()
	w.Entities["elara"] = KnownEntity{Name: "Elara", Role: "smuggler", Interactions: []string{"Elara sold you a map"}}
	w.Hooks.Put(threat.Hook{ID: "hook-1", Description: "Kael remembers the betrayal"})
	w.Threats = []threat.Threat{{ID: "t1", Description: "Kael hunts you", Names: []string{"Kael"}}}

	c := character.New("Wren")
	c.Goals = []string{"find Elara before dawn"}
	return w, c
}

func TestSanitizeCleansLegacyContamination(t *testing.T) {
	r := names.NewResolver(nil, nil)
	w, c := contaminatedState()

	w2, c2, changed := Sanitize(w, c, r)
	if !changed {
		t.Fatal("contaminated state reported clean")
	}
	for _, e := range w2.Entities {
		if strings.Contains(e.Name, "Elara") {
			t.Fatalf("entity name still contaminated: %q", e.Name)
		}
	}
	hook, _ := w2.Hooks.Find("hook-1")
	if strings.Contains(hook.Description, "Kael") {
		t.Fatalf("hook still contaminated: %q", hook.Description)
	}
	if strings.Contains(c2.Goals[0], "Elara") {
		t.Fatalf("goal still contaminated: %q", c2.Goals[0])
	}
	if len(w2.BannedNames) == 0 {
		t.Fatal("sanitize minted no mappings")
	}
}

func TestSanitizeKnownAppliesOnlyMintedMappings(t *testing.T) {
	r := names.NewResolver(nil, nil)
	w, c := contaminatedState()
	w.BannedNames = names.ReplacementMap{"elara": "Mira"}

	w2, c2, changed := SanitizeKnown(w, c, r)
	if !changed {
		t.Fatal("known mapping not applied")
	}
	if c2.Goals[0] != "find Mira before dawn" {
		t.Fatalf("goal = %q", c2.Goals[0])
	}
	if !strings.Contains(w2.Threats[0].Description, "Kael") {
		t.Fatalf("unmapped name rewritten: %q", w2.Threats[0].Description)
	}
	if _, ok := w2.BannedNames["kael"]; ok {
		t.Fatal("known-only pass minted a mapping")
	}
}

func TestSanitizeIsIdempotent(t *testing.T) {
	r := names.NewResolver(nil, nil)
	w, c := contaminatedState()

	w1, c1, _ := Sanitize(w, c, r)
	w2, c2, changed := Sanitize(w1, c1, r)
	if changed {
		t.Fatal("second sanitize reported changes")
	}
	if c1.Goals[0] != c2.Goals[0] {
		t.Fatalf("second pass altered goals: %q vs %q", c1.Goals[0], c2.Goals[0])
	}
	if len(w1.BannedNames) != len(w2.BannedNames) {
		t.Fatalf("second pass minted mappings: %v vs %v", w1.BannedNames, w2.BannedNames)
	}
	if w1.Threats[0].Description != w2.Threats[0].Description {
		t.Fatalf("threat description drifted: %q vs %q", w1.Threats[0].Description, w2.Threats[0].Description)
	}
}
