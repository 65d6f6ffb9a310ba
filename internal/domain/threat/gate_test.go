package threat

import (
	"fmt"
	"strings"
	"testing"
)

func testInput() AdmitInput {
	n := 0
	return AdmitInput{
		Hooks:         Registry{},
		Exposure:      map[string]int{},
		KnownEntities: map[string]bool{},
		Turn:          5,
		NewID: func() string {
			n++
			return fmt.Sprintf("threat-%d", n)
		},
	}
}

func TestOriginlessProposalNeverAdmitted(t *testing.T) {
	gate := DefaultGate()
	in := testInput()
	p := Proposal{Description: "Bandits close in", Category: "ambush"}

	for i := 0; i < 3; i++ {
		d := gate.Admit(p, in)
		if d.Admitted {
			t.Fatalf("attempt %d: originless proposal admitted", i)
		}
		if d.Threat != nil {
			t.Fatalf("rejection carried a threat: %+v", d.Threat)
		}
		if d.Reason == "" {
			t.Fatal("rejection without reason")
		}
	}
	if len(in.Active) != 0 {
		t.Fatalf("active list mutated: %v", in.Active)
	}
}

func TestUnknownHookIDRejected(t *testing.T) {
	gate := DefaultGate()
	in := testInput()
	d := gate.Admit(Proposal{Description: "The debt collector arrives", HookID: "hook-missing"}, in)
	if d.Admitted {
		t.Fatal("unknown hook admitted a threat")
	}
	if !strings.Contains(d.Reason, "not in registry") {
		t.Fatalf("reason = %q", d.Reason)
	}
}

func TestHookProofActivatesHookAndStampsCooldown(t *testing.T) {
	gate := DefaultGate()
	in := testInput()
	in.Hooks.Put(Hook{ID: "hook-debt", Description: "an old debt", Status: HookDormant})

	d := gate.Admit(Proposal{Description: "The debt collector arrives", Category: "legal", HookID: "Hook-Debt"}, in)
	if !d.Admitted {
		t.Fatalf("hook proof rejected: %s", d.Reason)
	}
	if d.Threat.ETA != 5 {
		t.Fatalf("eta = %d, want legal floor 5", d.Threat.ETA)
	}
	hook, _ := in.Hooks.Find("hook-debt")
	if hook.Status != HookActivated {
		t.Fatalf("hook status = %s, want activated", hook.Status)
	}
	if hook.LifetimeUses != 1 {
		t.Fatalf("lifetime uses = %d, want 1", hook.LifetimeUses)
	}
	if hook.CooldownUntilTurn != in.Turn+gate.HookCooldownBase+1 {
		t.Fatalf("cooldown until %d, want %d", hook.CooldownUntilTurn, in.Turn+gate.HookCooldownBase+1)
	}
}

func TestHookUnderCooldownCannotSource(t *testing.T) {
	gate := DefaultGate()
	in := testInput()
	in.Hooks.Put(Hook{ID: "hook-debt", Status: HookDormant, CooldownUntilTurn: in.Turn + 2})

	d := gate.Admit(Proposal{Description: "Again already", HookID: "hook-debt"}, in)
	if d.Admitted {
		t.Fatal("cooled-down hook sourced a threat")
	}
	if !strings.Contains(d.Reason, "cooldown") {
		t.Fatalf("reason = %q", d.Reason)
	}
}

func TestPlayerActionProofRequiresKnownEntity(t *testing.T) {
	gate := DefaultGate()
	in := testInput()
	cite := &ActionCitation{Entity: "Magistrate Orin", Action: "insulted publicly", Turn: 3}

	d := gate.Admit(Proposal{Description: "Orin plots revenge", PlayerAction: cite}, in)
	if d.Admitted {
		t.Fatal("citation of unknown entity admitted")
	}

	in.KnownEntities["magistrate orin"] = true
	d = gate.Admit(Proposal{Description: "Orin plots revenge", PlayerAction: cite}, in)
	if !d.Admitted {
		t.Fatalf("valid citation rejected: %s", d.Reason)
	}
	if d.Threat.Origin != OriginPlayerAction {
		t.Fatalf("origin = %s, want player_action", d.Threat.Origin)
	}
}

func TestExposureProofNeedsThreshold(t *testing.T) {
	gate := DefaultGate()
	in := testInput()
	in.Exposure["Iron Syndicate"] = 19

	d := gate.Admit(Proposal{Description: "Syndicate toughs shadow you", SourceFaction: "Iron Syndicate"}, in)
	if d.Admitted {
		t.Fatal("exposure 19 admitted a threat")
	}

	in.Exposure["Iron Syndicate"] = 20
	d = gate.Admit(Proposal{Description: "Syndicate toughs shadow you", SourceFaction: "Iron Syndicate"}, in)
	if !d.Admitted {
		t.Fatalf("exposure 20 rejected: %s", d.Reason)
	}
}

func TestExactlyOneProofRequired(t *testing.T) {
	gate := DefaultGate()
	in := testInput()
	in.Hooks.Put(Hook{ID: "hook-debt", Status: HookDormant})
	in.Exposure["Iron Syndicate"] = 50

	d := gate.Admit(Proposal{
		Description:   "Everything at once",
		HookID:        "hook-debt",
		SourceFaction: "Iron Syndicate",
	}, in)
	if d.Admitted {
		t.Fatal("two proofs admitted a threat")
	}
	if !strings.Contains(d.Reason, "exactly one") {
		t.Fatalf("reason = %q", d.Reason)
	}
}

func TestActiveCapOfThree(t *testing.T) {
	gate := DefaultGate()
	in := testInput()
	in.Exposure["Iron Syndicate"] = 50
	in.Active = []Threat{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	d := gate.Admit(Proposal{Description: "A fourth threat", SourceFaction: "Iron Syndicate"}, in)
	if d.Admitted {
		t.Fatal("fourth concurrent threat admitted")
	}
	if !strings.Contains(d.Reason, "cap") {
		t.Fatalf("reason = %q", d.Reason)
	}
}

func TestRecreationOfRetiredThreatRejected(t *testing.T) {
	gate := DefaultGate()
	in := testInput()
	in.Hooks.Put(Hook{ID: "hook-debt", Status: HookDormant})
	in.Retired = []Retired{{
		ID:           "threat-old",
		OriginHookID: "hook-debt",
		Status:       StatusTriggered,
		Names:        []string{"Collector Vash"},
	}}

	d := gate.Admit(Proposal{
		Description: "Vash returns for the debt",
		HookID:      "hook-debt",
		Names:       []string{"Collector Vash"},
	}, in)
	if d.Admitted {
		t.Fatal("retired threat recreated through its original hook")
	}
	if !strings.Contains(d.Reason, "recreates") {
		t.Fatalf("reason = %q", d.Reason)
	}
}

func TestRecreationCaughtInDescriptionOnly(t *testing.T) {
	gate := DefaultGate()
	in := testInput()
	in.Hooks.Put(Hook{ID: "hook-debt", Status: HookDormant})
	in.Retired = []Retired{{
		ID:           "threat-old",
		OriginHookID: "hook-debt",
		Status:       StatusTriggered,
		Names:        []string{"Collector Vash"},
	}}

	d := gate.Admit(Proposal{
		Description: "collector vash rides back into town for what she is owed",
		HookID:      "hook-debt",
	}, in)
	if d.Admitted {
		t.Fatal("retired name slipped past the gate inside the description")
	}
	if !strings.Contains(d.Reason, "recreates") {
		t.Fatalf("reason = %q", d.Reason)
	}
}

func TestETAFloorByCategory(t *testing.T) {
	cases := map[Category]int{
		CategoryAmbush:        1,
		CategoryRaid:          2,
		CategoryLegal:         5,
		CategoryInvestigation: 3,
		Category("weather"):   2,
	}
	for cat, want := range cases {
		if got := ETAFloor(cat); got != want {
			t.Fatalf("floor(%s) = %d, want %d", cat, got, want)
		}
	}
}
