package threat

import (
	"strings"
	"testing"
)

func TestAdvanceDecrementsAndPromotesToImminent(t *testing.T) {
	gate := DefaultGate()
	active := []Threat{{ID: "t1", Status: StatusBuilding, ETA: 3}}

	res := gate.Advance(active, nil, nil, 6, func() int { return 15 })
	if len(res.Active) != 1 || res.Active[0].ETA != 2 || res.Active[0].Status != StatusBuilding {
		t.Fatalf("after one turn: %+v", res.Active)
	}

	res = gate.Advance(res.Active, nil, nil, 7, func() int { return 15 })
	if res.Active[0].ETA != 1 || res.Active[0].Status != StatusImminent {
		t.Fatalf("after two turns: %+v", res.Active)
	}
}

func TestReportedTriggerRetiresThreat(t *testing.T) {
	gate := DefaultGate()
	active := []Threat{{ID: "t1", Status: StatusImminent, ETA: 1, Names: []string{"Vash"}}}

	res := gate.Advance(active, []Report{{ThreatID: "t1", Status: "triggered"}}, nil, 8, func() int { return 1 })
	if len(res.Active) != 0 {
		t.Fatalf("triggered threat still active: %+v", res.Active)
	}
	if len(res.Retired) != 1 || res.Retired[0].Status != StatusTriggered {
		t.Fatalf("retired = %+v", res.Retired)
	}
	if res.Retired[0].Names[0] != "Vash" {
		t.Fatalf("name snapshot lost: %+v", res.Retired[0])
	}
}

func TestStalledThreatForceResolves(t *testing.T) {
	gate := DefaultGate()
	active := []Threat{{ID: "t1", Status: StatusImminent, ETA: 1}}

	eta := 1
	var res AdvanceResult
	for turn := 0; turn <= gate.StallLimit+1; turn++ {
		res = gate.Advance(active, []Report{{ThreatID: "t1", ETA: &eta}}, nil, 10+turn, func() int { return 20 })
		if len(res.Active) == 0 {
			break
		}
		active = res.Active
	}
	if len(res.Active) != 0 {
		t.Fatalf("threat still active after stall limit: %+v", res.Active)
	}
	if len(res.Retired) != 1 || res.Retired[0].Status != StatusTriggered {
		t.Fatalf("retired = %+v", res.Retired)
	}
	if !strings.Contains(res.Audit[len(res.Audit)-1], "force-triggered") {
		t.Fatalf("audit = %v", res.Audit)
	}
}

func TestStalledThreatCanForceExpire(t *testing.T) {
	gate := Gate{MaxActive: 3, ExposureThreshold: 20, StallLimit: 0, HookCooldownBase: 2}
	active := []Threat{{ID: "t1", Status: StatusImminent, ETA: 1, StalledTurns: 1}}

	res := gate.Advance(active, nil, nil, 9, func() int { return 3 })
	if len(res.Retired) != 1 || res.Retired[0].Status != StatusExpired {
		t.Fatalf("retired = %+v", res.Retired)
	}
}

func TestRetiredThreatReleasesHookForReuse(t *testing.T) {
	gate := DefaultGate()
	hooks := Registry{}
	hooks.Put(Hook{ID: "debt-collector", Description: "old gambling debt"})

	first := gate.Admit(Proposal{Description: "collectors close in", HookID: "debt-collector"}, AdmitInput{
		Hooks: hooks,
		Turn:  1,
		NewID: func() string { return "t1" },
	})
	if !first.Admitted {
		t.Fatalf("first sourcing rejected: %s", first.Reason)
	}

	res := gate.Advance([]Threat{*first.Threat}, []Report{{ThreatID: "t1", Status: "triggered"}}, hooks, 4, func() int { return 1 })
	if len(res.Retired) != 1 {
		t.Fatalf("retired = %+v", res.Retired)
	}
	h, _ := hooks.Find("debt-collector")
	if h.Status != HookDormant {
		t.Fatalf("hook not released: %+v", h)
	}
	if h.CooldownUntilTurn != 4+gate.HookCooldownBase+1 {
		t.Fatalf("cooldown = %d, want %d", h.CooldownUntilTurn, 4+gate.HookCooldownBase+1)
	}

	// still cooling: a fresh distinct threat cannot source from it
	cooling := gate.Admit(Proposal{Description: "new muscle on the docks", HookID: "debt-collector"}, AdmitInput{
		Hooks: hooks,
		Turn:  h.CooldownUntilTurn - 1,
		NewID: func() string { return "t2" },
	})
	if cooling.Admitted {
		t.Fatalf("hook sourced while cooling down")
	}

	second := gate.Admit(Proposal{Description: "new muscle on the docks", HookID: "debt-collector"}, AdmitInput{
		Hooks: hooks,
		Turn:  h.CooldownUntilTurn,
		NewID: func() string { return "t3" },
	})
	if !second.Admitted {
		t.Fatalf("second sourcing rejected after cooldown: %s", second.Reason)
	}
	h, _ = hooks.Find("debt-collector")
	if h.LifetimeUses != 2 {
		t.Fatalf("lifetime uses = %d, want 2", h.LifetimeUses)
	}
}

func TestReportedETAOverridesDecrement(t *testing.T) {
	gate := DefaultGate()
	eta := 4
	active := []Threat{{ID: "t1", Status: StatusImminent, ETA: 1, StalledTurns: 2}}

	res := gate.Advance(active, []Report{{ThreatID: "t1", ETA: &eta}}, nil, 9, func() int { return 1 })
	if res.Active[0].ETA != 4 || res.Active[0].Status != StatusBuilding {
		t.Fatalf("active = %+v", res.Active)
	}
	if res.Active[0].StalledTurns != 0 {
		t.Fatalf("stall counter not reset: %+v", res.Active[0])
	}
}
