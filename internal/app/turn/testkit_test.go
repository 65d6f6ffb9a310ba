package turn

import (
	"context"
	"fmt"

	"taleward/internal/app/ports"
)

type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubStateRepo struct {
	bySession map[string]ports.SessionState
	saves     int
}

func (r *stubStateRepo) GetBySessionID(_ context.Context, sessionID string) (ports.SessionState, error) {
	state, ok := r.bySession[sessionID]
	if !ok {
		return ports.SessionState{}, ports.ErrNotFound
	}
	return state, nil
}

func (r *stubStateRepo) SaveWithVersion(_ context.Context, state ports.SessionState, expectedVersion int64) error {
	current, ok := r.bySession[state.SessionID]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.bySession[state.SessionID] = state
		r.saves++
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.bySession[state.SessionID] = state
	r.saves++
	return nil
}

type stubTurnRepo struct {
	byKey map[string]ports.TurnExecutionRecord
}

func (r *stubTurnRepo) GetByIdempotencyKey(_ context.Context, sessionID, key string) (*ports.TurnExecutionRecord, error) {
	record, ok := r.byKey[sessionID+"|"+key]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copy := record
	return &copy, nil
}

func (r *stubTurnRepo) SaveExecution(_ context.Context, execution ports.TurnExecutionRecord) error {
	r.byKey[execution.SessionID+"|"+execution.IdempotencyKey] = execution
	return nil
}

type stubAuditRepo struct {
	events []ports.AuditEvent
}

func (r *stubAuditRepo) Append(_ context.Context, events []ports.AuditEvent) error {
	r.events = append(r.events, events...)
	return nil
}

func (r *stubAuditRepo) ListBySessionID(_ context.Context, sessionID string, limit int) ([]ports.AuditEvent, error) {
	out := []ports.AuditEvent{}
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].SessionID != sessionID {
			continue
		}
		out = append(out, r.events[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

type stubMetrics struct {
	turns      int
	conflicts  int
	failures   int
	admissions int
	rejections int
}

func (m *stubMetrics) RecordTurn()     { m.turns++ }
func (m *stubMetrics) RecordConflict() { m.conflicts++ }
func (m *stubMetrics) RecordFailure()  { m.failures++ }
func (m *stubMetrics) RecordAdmission(admitted bool) {
	if admitted {
		m.admissions++
	} else {
		m.rejections++
	}
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
