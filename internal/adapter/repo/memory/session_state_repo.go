package memory

import (
	"context"

	"taleward/internal/app/ports"
)

type SessionStateRepo struct {
	store *Store
}

func NewSessionStateRepo(store *Store) SessionStateRepo {
	return SessionStateRepo{store: store}
}

func (r SessionStateRepo) GetBySessionID(_ context.Context, sessionID string) (ports.SessionState, error) {
	state, ok := r.store.state[sessionID]
	if !ok {
		return ports.SessionState{}, ports.ErrNotFound
	}
	return state, nil
}

func (r SessionStateRepo) SaveWithVersion(_ context.Context, state ports.SessionState, expectedVersion int64) error {
	current, ok := r.store.state[state.SessionID]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.store.state[state.SessionID] = state
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.state[state.SessionID] = state
	return nil
}
