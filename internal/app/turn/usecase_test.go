package turn

import (
	"context"
	"errors"
	"testing"
	"time"

	"taleward/internal/app/ports"
	"taleward/internal/domain/bio"
	"taleward/internal/domain/character"
	"taleward/internal/domain/dice"
	"taleward/internal/domain/names"
	"taleward/internal/domain/story"
	"taleward/internal/domain/threat"
)

func newTestFixture() (UseCase, *stubStateRepo, *stubTurnRepo, *stubAuditRepo, *stubMetrics) {
	world := story.NewWorldState()
	world.Hooks.Put(threat.Hook{ID: "debt-collector", Description: "old gambling debt"})
	stateRepo := &stubStateRepo{bySession: map[string]ports.SessionState{
		"s-1": {
			SessionID: "s-1",
			World:     world,
			Character: character.New("Wren"),
			Version:   1,
		},
	}}
	turnRepo := &stubTurnRepo{byKey: map[string]ports.TurnExecutionRecord{}}
	auditRepo := &stubAuditRepo{}
	metrics := &stubMetrics{}

	uc := UseCase{
		TxManager: stubTxManager{},
		StateRepo: stateRepo,
		TurnRepo:  turnRepo,
		AuditRepo: auditRepo,
		Metrics:   metrics,
		Engine:    bio.NewEngine(bio.DefaultTuning()),
		Gate:      threat.DefaultGate(),
		Names:     names.NewResolver(nil, nil),
		Roller:    dice.NewRoller(42),
		NewID:     sequentialIDs("id"),
		Now:       func() time.Time { return time.Unix(1700000000, 0) },
	}
	return uc, stateRepo, turnRepo, auditRepo, metrics
}

func TestUseCase_FullTurnAdvancesClockAndBiology(t *testing.T) {
	uc, stateRepo, _, auditRepo, metrics := newTestFixture()

	out, err := uc.Execute(context.Background(), Request{
		SessionID:      "s-1",
		IdempotencyKey: "k-1",
		RequestID:      1,
		Proposal: story.TurnProposal{
			Narration:      "Wren crosses the market square.",
			SceneMode:      "TRAVEL",
			ElapsedMinutes: 60,
			TensionDelta:   5,
		},
	})
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if out.Bundle.World.Clock.TotalMinutes != 60 {
		t.Fatalf("expected 60 minutes elapsed, got %d", out.Bundle.World.Clock.TotalMinutes)
	}
	if out.Bundle.World.Turn != 1 {
		t.Fatalf("expected turn 1, got %d", out.Bundle.World.Turn)
	}
	if out.Bundle.World.Tension != 15 {
		t.Fatalf("expected tension 15, got %d", out.Bundle.World.Tension)
	}
	if got := out.Bundle.Character.Bio.Metabolism.Hydration; got >= 80 {
		t.Fatalf("expected hydration to drain below 80, got %v", got)
	}
	saved := stateRepo.bySession["s-1"]
	if saved.Version != 2 {
		t.Fatalf("expected version bump to 2, got %d", saved.Version)
	}
	if len(auditRepo.events) == 0 {
		t.Fatalf("expected audit events persisted")
	}
	if metrics.turns != 1 {
		t.Fatalf("expected 1 recorded turn, got %d", metrics.turns)
	}
}

func TestUseCase_IdempotentReplay(t *testing.T) {
	uc, stateRepo, _, _, metrics := newTestFixture()

	req := Request{
		SessionID:      "s-1",
		IdempotencyKey: "k-1",
		RequestID:      1,
		Proposal:       story.TurnProposal{ElapsedMinutes: 30},
	}
	first, err := uc.Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("first execute error: %v", err)
	}
	savesAfterFirst := stateRepo.saves

	second, err := uc.Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("second execute error: %v", err)
	}
	if !second.Replayed {
		t.Fatalf("expected replayed response")
	}
	if second.Bundle.World.Turn != first.Bundle.World.Turn {
		t.Fatalf("replay diverged: turn %d vs %d", second.Bundle.World.Turn, first.Bundle.World.Turn)
	}
	if stateRepo.saves != savesAfterFirst {
		t.Fatalf("replay must not save state again")
	}
	if metrics.turns != 2 {
		t.Fatalf("expected both calls counted, got %d", metrics.turns)
	}
}

func TestUseCase_StaleRequestLeavesStateUntouched(t *testing.T) {
	uc, stateRepo, _, _, _ := newTestFixture()

	if _, err := uc.Execute(context.Background(), Request{
		SessionID: "s-1", IdempotencyKey: "k-1", RequestID: 5,
		Proposal: story.TurnProposal{ElapsedMinutes: 30},
	}); err != nil {
		t.Fatalf("execute error: %v", err)
	}
	before := stateRepo.bySession["s-1"]

	out, err := uc.Execute(context.Background(), Request{
		SessionID: "s-1", IdempotencyKey: "k-2", RequestID: 3,
		Proposal: story.TurnProposal{ElapsedMinutes: 30},
	})
	if err != nil {
		t.Fatalf("stale execute error: %v", err)
	}
	if !out.Bundle.Stale {
		t.Fatalf("expected stale flag on out-of-order request")
	}
	after := stateRepo.bySession["s-1"]
	if after.Version != before.Version || after.World.Turn != before.World.Turn {
		t.Fatalf("stale request mutated state")
	}
}

func TestUseCase_HookThreatAdmittedAndOriginlessRejected(t *testing.T) {
	uc, _, _, _, metrics := newTestFixture()

	out, err := uc.Execute(context.Background(), Request{
		SessionID: "s-1", IdempotencyKey: "k-1", RequestID: 1,
		Proposal: story.TurnProposal{
			ThreatProposals: []story.ThreatProposal{
				{Description: "collectors close in", Category: "ambush", HookID: "debt-collector"},
				{Description: "a mysterious stranger glares"},
			},
		},
	})
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if len(out.Bundle.ThreatDecisions) != 2 {
		t.Fatalf("expected 2 decisions, got %d", len(out.Bundle.ThreatDecisions))
	}
	if !out.Bundle.ThreatDecisions[0].Admitted {
		t.Fatalf("hook-backed threat should be admitted: %s", out.Bundle.ThreatDecisions[0].Reason)
	}
	if out.Bundle.ThreatDecisions[1].Admitted {
		t.Fatalf("originless threat must be rejected")
	}
	if len(out.Bundle.World.Threats) != 1 {
		t.Fatalf("expected 1 active threat, got %d", len(out.Bundle.World.Threats))
	}
	hook, _ := out.Bundle.World.Hooks.Find("debt-collector")
	if hook.Status != threat.HookActivated {
		t.Fatalf("sourcing hook should be activated")
	}
	if metrics.admissions != 1 || metrics.rejections != 1 {
		t.Fatalf("expected 1 admission and 1 rejection, got %d/%d", metrics.admissions, metrics.rejections)
	}
}

func TestUseCase_BannedNameResolvedBeforeState(t *testing.T) {
	uc, _, _, _, _ := newTestFixture()

	out, err := uc.Execute(context.Background(), Request{
		SessionID: "s-1", IdempotencyKey: "k-1", RequestID: 1,
		Proposal: story.TurnProposal{
			Narration:   "Elara waits by the gate.",
			NewEntities: []story.KnownEntity{{Name: "Elara", Role: "smuggler"}},
		},
	})
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if got := out.Bundle.Narration; got == "Elara waits by the gate." {
		t.Fatalf("banned name survived in narration: %q", got)
	}
	if _, ok := out.Bundle.World.Entities["elara"]; ok {
		t.Fatalf("banned name survived as entity key")
	}
	replacement, ok := out.Bundle.World.BannedNames["elara"]
	if !ok || replacement == "" {
		t.Fatalf("expected a minted replacement in the session map")
	}
}

func TestUseCase_ClearedConditionGraceHoldsAcrossTurns(t *testing.T) {
	uc, stateRepo, _, _, _ := newTestFixture()
	seeded := stateRepo.bySession["s-1"]
	seeded.Character.Bio.Metabolism.Hydration = 22
	seeded.Character.Conditions = []string{"Severe Dehydration"}
	stateRepo.bySession["s-1"] = seeded

	out, err := uc.Execute(context.Background(), Request{
		SessionID: "s-1", IdempotencyKey: "k-1", RequestID: 1,
		Proposal: story.TurnProposal{
			SceneMode:      "COMBAT",
			ElapsedMinutes: 1,
			Character:      &story.CharacterProposal{RemoveConditions: []string{"Severe Dehydration"}},
		},
	})
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	for _, c := range out.Bundle.Character.Conditions {
		if c == "Severe Dehydration" {
			t.Fatalf("manually removed condition survived the turn")
		}
	}
	if got := stateRepo.bySession["s-1"].World.Cleared; len(got) != 1 || got[0] != "Severe Dehydration" {
		t.Fatalf("manual clear not persisted for grace, got %v", got)
	}

	// Next turn: hydration is still under the plain trigger of 25 but above
	// the graced one, so the condition must stay off.
	out, err = uc.Execute(context.Background(), Request{
		SessionID: "s-1", IdempotencyKey: "k-2", RequestID: 2,
		Proposal: story.TurnProposal{SceneMode: "COMBAT", ElapsedMinutes: 1},
	})
	if err != nil {
		t.Fatalf("second execute error: %v", err)
	}
	hydration := out.Bundle.Character.Bio.Metabolism.Hydration
	if hydration >= 25 || hydration <= 15 {
		t.Fatalf("hydration %v outside the band the grace check needs", hydration)
	}
	for _, c := range out.Bundle.Character.Conditions {
		if c == "Severe Dehydration" {
			t.Fatalf("grace buffer did not hold on the following turn")
		}
	}
}

func TestUseCase_LoadedStateCleanedWithKnownReplacementsOnly(t *testing.T) {
	uc, stateRepo, _, _, _ := newTestFixture()
	seeded := stateRepo.bySession["s-1"]
	seeded.World.BannedNames = names.ReplacementMap{"elara": "Mira"}
	seeded.Character.Relationships = []string{"owes Elara a favor"}
	seeded.Character.Goals = []string{"find Kael"}
	stateRepo.bySession["s-1"] = seeded

	out, err := uc.Execute(context.Background(), Request{
		SessionID: "s-1", IdempotencyKey: "k-1", RequestID: 1,
		Proposal: story.TurnProposal{ElapsedMinutes: 15},
	})
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if got := out.Bundle.Character.Relationships[0]; got != "owes Mira a favor" {
		t.Fatalf("known replacement not applied to loaded state: %q", got)
	}
	if got := out.Bundle.Character.Goals[0]; got != "find Kael" {
		t.Fatalf("load pass must not rewrite names without a known mapping: %q", got)
	}
	if _, ok := out.Bundle.World.BannedNames["kael"]; ok {
		t.Fatalf("load pass minted a replacement; minting belongs to proposal resolution")
	}
}

func TestMergeEntityKeepsRelationshipWhenOmitted(t *testing.T) {
	entities := map[string]story.KnownEntity{
		"garrick": {Name: "Garrick", Relationship: 2},
	}

	mergeEntity(entities, story.KnownEntity{Name: "Garrick", Location: "docks"})
	if got := entities["garrick"].Relationship; got != 2 {
		t.Fatalf("omitted relationship reset the tier to %d", got)
	}
	mergeEntity(entities, story.KnownEntity{Name: "Garrick", Relationship: -1})
	if got := entities["garrick"].Relationship; got != -1 {
		t.Fatalf("explicit relationship not applied, got %d", got)
	}
}

func TestUseCase_RollRecordedInStats(t *testing.T) {
	uc, _, _, _, _ := newTestFixture()

	out, err := uc.Execute(context.Background(), Request{
		SessionID: "s-1", IdempotencyKey: "k-1", RequestID: 1,
		Proposal: story.TurnProposal{Roll: &story.RollProposal{Bonus: 3}},
	})
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if out.Bundle.Roll == nil {
		t.Fatalf("expected a roll in the bundle")
	}
	if out.Bundle.Roll.Total != out.Bundle.Roll.Die+3 {
		t.Fatalf("roll total mismatch: %+v", out.Bundle.Roll)
	}
	if out.Bundle.World.RollStats.Count != 1 {
		t.Fatalf("expected roll stats count 1, got %d", out.Bundle.World.RollStats.Count)
	}
}

func TestUseCase_ConflictRecordedInMetrics(t *testing.T) {
	uc, stateRepo, _, _, metrics := newTestFixture()

	uc.StateRepo = &racingStateRepo{inner: stateRepo}

	_, err := uc.Execute(context.Background(), Request{
		SessionID: "s-1", IdempotencyKey: "k-1", RequestID: 1,
		Proposal: story.TurnProposal{ElapsedMinutes: 15},
	})
	if !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if metrics.conflicts != 1 {
		t.Fatalf("expected conflict metric, got %d", metrics.conflicts)
	}
}

// racingStateRepo simulates a concurrent writer bumping the version between
// load and save.
type racingStateRepo struct {
	inner *stubStateRepo
}

func (r *racingStateRepo) GetBySessionID(ctx context.Context, sessionID string) (ports.SessionState, error) {
	state, err := r.inner.GetBySessionID(ctx, sessionID)
	if err != nil {
		return ports.SessionState{}, err
	}
	raced := state
	raced.Version++
	r.inner.bySession[sessionID] = raced
	return state, nil
}

func (r *racingStateRepo) SaveWithVersion(ctx context.Context, state ports.SessionState, expectedVersion int64) error {
	return r.inner.SaveWithVersion(ctx, state, expectedVersion)
}
