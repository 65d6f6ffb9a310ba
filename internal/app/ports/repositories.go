package ports

import (
	"context"
	"time"

	"taleward/internal/domain/character"
	"taleward/internal/domain/dice"
	"taleward/internal/domain/story"
	"taleward/internal/domain/threat"
)

// SessionState is the persisted aggregate: one row per session, replaced
// atomically with optimistic versioning.
type SessionState struct {
	SessionID string
	World     story.WorldState
	Character character.Character
	Version   int64
	UpdatedAt time.Time
}

// TurnBundle is the state-delta bundle a completed turn returns. Every field
// is a complete replacement for its counterpart; callers never merge partial
// patches.
type TurnBundle struct {
	World           story.WorldState    `json:"world"`
	Character       character.Character `json:"character"`
	Narration       string              `json:"narration,omitempty"`
	Roll            *dice.Roll          `json:"roll,omitempty"`
	ThreatDecisions []threat.Decision   `json:"threat_decisions"`
	AuditLines      []string            `json:"audit_lines"`
	QueuedLore      []story.LoreEntry   `json:"queued_lore,omitempty"`
	Stale           bool                `json:"stale,omitempty"`
}

// TurnExecutionRecord makes turn submission idempotent: resubmitting the same
// key replays the stored bundle instead of recomputing.
type TurnExecutionRecord struct {
	SessionID      string
	IdempotencyKey string
	RequestID      int64
	Bundle         TurnBundle
	AppliedAt      time.Time
}

// AuditEvent is one appended line of the session's audit stream.
type AuditEvent struct {
	ID         string
	SessionID  string
	Turn       int
	Kind       string
	Line       string
	OccurredAt time.Time
}

type SessionStateRepository interface {
	GetBySessionID(ctx context.Context, sessionID string) (SessionState, error)
	SaveWithVersion(ctx context.Context, state SessionState, expectedVersion int64) error
}

type TurnExecutionRepository interface {
	GetByIdempotencyKey(ctx context.Context, sessionID, key string) (*TurnExecutionRecord, error)
	SaveExecution(ctx context.Context, execution TurnExecutionRecord) error
}

type AuditRepository interface {
	Append(ctx context.Context, events []AuditEvent) error
	ListBySessionID(ctx context.Context, sessionID string, limit int) ([]AuditEvent, error)
}
