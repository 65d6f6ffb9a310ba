package turn

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"taleward/internal/app/ports"
	"taleward/internal/domain/bio"
	"taleward/internal/domain/character"
	"taleward/internal/domain/dice"
	"taleward/internal/domain/faction"
	"taleward/internal/domain/names"
	"taleward/internal/domain/story"
	"taleward/internal/domain/threat"
)

var (
	ErrInvalidRequest = errors.New("invalid turn request")
)

// UseCase executes one narrator turn end to end. A turn either completes and
// publishes a new snapshot or leaves the previous snapshot untouched; there
// is no partial application.
type UseCase struct {
	TxManager ports.TxManager
	StateRepo ports.SessionStateRepository
	TurnRepo  ports.TurnExecutionRepository
	AuditRepo ports.AuditRepository
	Metrics   ports.TurnMetrics
	Engine    bio.Engine
	Gate      threat.Gate
	Names     *names.Resolver
	Roller    *dice.Roller
	NewID     func() string
	Now       func() time.Time
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	req.SessionID = strings.TrimSpace(req.SessionID)
	req.IdempotencyKey = strings.TrimSpace(req.IdempotencyKey)
	if req.SessionID == "" || req.IdempotencyKey == "" || req.RequestID <= 0 {
		return Response{}, ErrInvalidRequest
	}

	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	newID := u.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	roller := u.Roller
	if roller == nil {
		roller = dice.NewRoller(nowFn().UnixNano())
	}
	resolver := u.Names
	if resolver == nil {
		resolver = names.NewResolver(nil, nil)
	}

	var out Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		exec, err := u.TurnRepo.GetByIdempotencyKey(txCtx, req.SessionID, req.IdempotencyKey)
		if err == nil && exec != nil {
			out = Response{Bundle: exec.Bundle, Replayed: true}
			return nil
		}
		if err != nil && !errors.Is(err, ports.ErrNotFound) {
			return err
		}

		state, err := u.StateRepo.GetBySessionID(txCtx, req.SessionID)
		if err != nil {
			return err
		}
		world := state.World
		char := state.Character
		if world.BannedNames == nil {
			world.BannedNames = names.ReplacementMap{}
		}
		if world.Entities == nil {
			world.Entities = map[string]story.KnownEntity{}
		}
		if world.Intel == nil {
			world.Intel = map[string]faction.Intelligence{}
		}
		if world.Exposure == nil {
			world.Exposure = faction.Exposure{}
		}
		if world.Hooks == nil {
			world.Hooks = threat.Registry{}
		}

		if req.RequestID <= world.LastRequestID {
			out = Response{Bundle: ports.TurnBundle{World: world, Character: char, Stale: true}}
			return nil
		}

		turnNo := world.Turn + 1
		audit := auditLog{}

		var repaired bool
		world, char, repaired = story.SanitizeKnown(world, char, resolver)
		if repaired {
			audit.add("names", "known replacements applied to loaded state")
		}

		plan := req.Proposal.Normalize()
		u.resolvePlan(&plan, resolver, world.BannedNames, &audit)

		elapsed := plan.ActivityElapsed(req.Proposal.ActivityClass)
		if err := world.Clock.Advance(elapsed); err != nil {
			return err
		}
		world.Mode = plan.Mode
		world.Lighting = plan.Lighting

		cleared := mergeCleared(world.Cleared, req.ClearedConditions, plan.Delta.RemoveConditions)
		tick := u.Engine.Tick(bio.TickInput{
			State:      char.Bio,
			Elapsed:    elapsed,
			Tension:    world.Tension,
			Ingestion:  plan.Ingestion,
			Conditions: char.Conditions,
			Cleared:    cleared,
			Combat:     plan.Mode == story.ModeCombat,
			NowMinute:  world.Clock.TotalMinutes,
		})
		char.Bio = tick.State
		audit.addAll("bio", tick.Trace)
		world.Cleared = pruneCleared(cleared, tick.Added)

		delta := plan.Delta
		delta.AddConditions = append(delta.AddConditions, tick.Added...)
		delta.RemoveConditions = append(delta.RemoveConditions, tick.Removed...)
		delta.TraumaDelta += tick.TraumaDelta
		merged := character.Merge(char, delta, u.Engine.Tuning)
		char = merged.Character
		audit.addAll("merge", merged.Audit)

		for _, e := range plan.NewEntities {
			mergeEntity(world.Entities, e)
		}

		for _, evt := range plan.InfoEvents {
			line, _ := faction.ApplyInfoEvent(world.Intel, evt, turnNo)
			audit.add("intel", line)
		}
		for _, evt := range plan.ExposureEvents {
			if strings.TrimSpace(evt.Faction) == "" {
				continue
			}
			next := world.Exposure.Add(evt.Faction, int(evt.Amount))
			audit.addf("exposure", "%s exposure now %d (%s)", evt.Faction, next, evt.Reason)
		}
		for _, evt := range plan.ClaimEvents {
			outcome := faction.ApplyClaimEvent(world.Claims, evt, turnNo, newID)
			world.Claims = outcome.Claims
			audit.add("claim", outcome.Audit)
			if outcome.Inconsistency {
				audit.add("claim", "narrator inconsistency: resolved claim re-raised")
			}
		}

		d20 := func() int { return roller.Execute(0, false, false, nil).Die }
		adv := u.Gate.Advance(world.Threats, plan.ThreatReports, world.Hooks, turnNo, d20)
		world.Threats = adv.Active
		world.RetiredThreats = append(world.RetiredThreats, adv.Retired...)
		audit.addAll("threat", adv.Audit)

		decisions := make([]threat.Decision, 0, len(plan.ThreatProposals))
		for _, p := range plan.ThreatProposals {
			dec := u.Gate.Admit(p, threat.AdmitInput{
				Hooks:         world.Hooks,
				Exposure:      world.Exposure,
				KnownEntities: world.KnownEntityKeys(),
				Active:        world.Threats,
				Retired:       world.RetiredThreats,
				Turn:          turnNo,
				NewID:         newID,
			})
			decisions = append(decisions, dec)
			audit.add("threat", dec.Reason)
			if u.Metrics != nil {
				u.Metrics.RecordAdmission(dec.Admitted)
			}
			if dec.Admitted {
				world.Threats = append(world.Threats, *dec.Threat)
			}
		}

		var roll *dice.Roll
		if plan.Roll != nil {
			r := roller.Execute(int(plan.Roll.Bonus), plan.Roll.Advantage, plan.Roll.Disadvantage, &world.RollStats)
			roll = &r
			audit.addf("roll", "d20 %d%+d = %d (%s)", r.Die, r.Bonus, r.Total, r.OutcomeLabel)
		}

		world.Tension = story.ClampTension(world.Tension + plan.TensionDelta)
		if plan.Bargain {
			world.LastBargainTurn = turnNo
		}
		world.Turn = turnNo
		world.LastRequestID = req.RequestID
		world.Version = state.Version + 1

		bundle := ports.TurnBundle{
			World:           world,
			Character:       char,
			Narration:       plan.Narration,
			Roll:            roll,
			ThreatDecisions: decisions,
			AuditLines:      audit.lines(),
			QueuedLore:      plan.Lore,
		}

		next := ports.SessionState{
			SessionID: req.SessionID,
			World:     world,
			Character: char,
			Version:   state.Version + 1,
			UpdatedAt: nowFn(),
		}
		if err := u.StateRepo.SaveWithVersion(txCtx, next, state.Version); err != nil {
			return err
		}
		if err := u.AuditRepo.Append(txCtx, audit.events(newID, req.SessionID, turnNo, nowFn())); err != nil {
			return err
		}
		if err := u.TurnRepo.SaveExecution(txCtx, ports.TurnExecutionRecord{
			SessionID:      req.SessionID,
			IdempotencyKey: req.IdempotencyKey,
			RequestID:      req.RequestID,
			Bundle:         bundle,
			AppliedAt:      nowFn(),
		}); err != nil {
			return err
		}

		out = Response{Bundle: bundle}
		return nil
	})
	if err != nil {
		if u.Metrics != nil {
			if errors.Is(err, ports.ErrConflict) {
				u.Metrics.RecordConflict()
			} else {
				u.Metrics.RecordFailure()
			}
		}
		return Response{}, err
	}
	if u.Metrics != nil {
		u.Metrics.RecordTurn()
	}

	return out, nil
}

// resolvePlan runs banned-name resolution over every incoming string before
// any of it reaches state. Resolution may mint new replacements here; the
// session map is extended in place.
func (u UseCase) resolvePlan(plan *story.TurnPlan, r *names.Resolver, m names.ReplacementMap, audit *auditLog) {
	clean := func(s string) string {
		next := r.Resolve(s, m)
		if next != s {
			audit.addf("names", "banned name replaced in %q", s)
		}
		return next
	}

	plan.Narration = clean(plan.Narration)
	for i := range plan.NewEntities {
		plan.NewEntities[i].Name = clean(plan.NewEntities[i].Name)
		plan.NewEntities[i].Role = clean(plan.NewEntities[i].Role)
		plan.NewEntities[i].Location = clean(plan.NewEntities[i].Location)
		plan.NewEntities[i].Interactions = cleanAll(plan.NewEntities[i].Interactions, clean)
	}
	plan.Delta.AddConditions = cleanAll(plan.Delta.AddConditions, clean)
	plan.Delta.AddInventory = cleanAll(plan.Delta.AddInventory, clean)
	plan.Delta.AddRelationships = cleanAll(plan.Delta.AddRelationships, clean)
	plan.Delta.AddGoals = cleanAll(plan.Delta.AddGoals, clean)
	for i := range plan.InfoEvents {
		plan.InfoEvents[i].Location = clean(plan.InfoEvents[i].Location)
		plan.InfoEvents[i].Source = clean(plan.InfoEvents[i].Source)
	}
	for i := range plan.ThreatProposals {
		plan.ThreatProposals[i].Description = clean(plan.ThreatProposals[i].Description)
		plan.ThreatProposals[i].Names = cleanAll(plan.ThreatProposals[i].Names, clean)
	}
	for i := range plan.Lore {
		plan.Lore[i].Title = clean(plan.Lore[i].Title)
		plan.Lore[i].Body = clean(plan.Lore[i].Body)
	}
}

func cleanAll(in []string, clean func(string) string) []string {
	for i := range in {
		in[i] = clean(in[i])
	}
	return in
}

// mergeEntity folds a reported entity into the registry without losing the
// existing interaction ledger.
func mergeEntity(entities map[string]story.KnownEntity, e story.KnownEntity) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return
	}
	key := strings.ToLower(name)
	existing, ok := entities[key]
	if !ok {
		e.Name = name
		entities[key] = e
		return
	}
	if e.Role != "" {
		existing.Role = e.Role
	}
	if e.Location != "" {
		existing.Location = e.Location
	}
	if e.Relationship != 0 {
		existing.Relationship = e.Relationship
	}
	existing.Interactions = append(existing.Interactions, e.Interactions...)
	entities[key] = existing
}

// mergeCleared unions the session's grace list with this turn's manual
// clears, case-insensitive, keeping first-seen casing.
func mergeCleared(lists ...[]string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, list := range lists {
		for _, name := range list {
			name = strings.TrimSpace(name)
			key := strings.ToLower(name)
			if name == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, name)
		}
	}
	return out
}

// pruneCleared spends the grace of any condition that came back this turn.
func pruneCleared(cleared, readded []string) []string {
	if len(readded) == 0 {
		return cleared
	}
	back := map[string]bool{}
	for _, n := range readded {
		back[strings.ToLower(strings.TrimSpace(n))] = true
	}
	out := make([]string, 0, len(cleared))
	for _, n := range cleared {
		if back[strings.ToLower(n)] {
			continue
		}
		out = append(out, n)
	}
	return out
}
