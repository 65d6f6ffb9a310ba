package memory

import (
	"sync"

	"taleward/internal/app/ports"
)

// Store backs the in-memory adapters. All repos sharing one Store are
// serialized through the TxManager's lock, which is what makes a turn a
// critical section without a database.
type Store struct {
	mu        sync.RWMutex
	state     map[string]ports.SessionState
	execution map[string]ports.TurnExecutionRecord
	audit     map[string][]ports.AuditEvent
}

func NewStore() *Store {
	return &Store{
		state:     make(map[string]ports.SessionState),
		execution: make(map[string]ports.TurnExecutionRecord),
		audit:     make(map[string][]ports.AuditEvent),
	}
}

func execKey(sessionID, key string) string {
	return sessionID + "::" + key
}

func (s *Store) SeedState(state ports.SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[state.SessionID] = state
}
