package memory

import (
	"context"

	"taleward/internal/app/ports"
)

type AuditRepo struct {
	store *Store
}

func NewAuditRepo(store *Store) AuditRepo {
	return AuditRepo{store: store}
}

func (r AuditRepo) Append(_ context.Context, events []ports.AuditEvent) error {
	for _, e := range events {
		r.store.audit[e.SessionID] = append(r.store.audit[e.SessionID], e)
	}
	return nil
}

// ListBySessionID returns events most recent first.
func (r AuditRepo) ListBySessionID(_ context.Context, sessionID string, limit int) ([]ports.AuditEvent, error) {
	stream := r.store.audit[sessionID]
	out := make([]ports.AuditEvent, 0, len(stream))
	for i := len(stream) - 1; i >= 0; i-- {
		out = append(out, stream[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
