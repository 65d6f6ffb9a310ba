package memory

import (
	"context"

	"taleward/internal/app/ports"
)

type TurnExecutionRepo struct {
	store *Store
}

func NewTurnExecutionRepo(store *Store) TurnExecutionRepo {
	return TurnExecutionRepo{store: store}
}

func (r TurnExecutionRepo) GetByIdempotencyKey(_ context.Context, sessionID, key string) (*ports.TurnExecutionRecord, error) {
	rec, ok := r.store.execution[execKey(sessionID, key)]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copy := rec
	return &copy, nil
}

func (r TurnExecutionRepo) SaveExecution(_ context.Context, execution ports.TurnExecutionRecord) error {
	k := execKey(execution.SessionID, execution.IdempotencyKey)
	if _, exists := r.store.execution[k]; exists {
		return ports.ErrConflict
	}
	r.store.execution[k] = execution
	return nil
}
