package model

import "time"

// SessionState holds the full world and character documents as jsonb; the
// engine always replaces them wholesale, so there is nothing to gain from
// relational decomposition.
type SessionState struct {
	SessionID string    `gorm:"column:session_id;primaryKey"`
	World     []byte    `gorm:"column:world;type:jsonb"`
	Character []byte    `gorm:"column:character;type:jsonb"`
	Version   int64     `gorm:"column:version"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SessionState) TableName() string { return "session_states" }

type TurnExecution struct {
	SessionID      string    `gorm:"column:session_id;primaryKey"`
	IdempotencyKey string    `gorm:"column:idempotency_key;primaryKey"`
	RequestID      int64     `gorm:"column:request_id"`
	Bundle         []byte    `gorm:"column:bundle;type:jsonb"`
	AppliedAt      time.Time `gorm:"column:applied_at"`
}

func (TurnExecution) TableName() string { return "turn_executions" }

type AuditEvent struct {
	ID         string    `gorm:"column:id;primaryKey"`
	SessionID  string    `gorm:"column:session_id;index"`
	Turn       int       `gorm:"column:turn"`
	Kind       string    `gorm:"column:kind"`
	Line       string    `gorm:"column:line"`
	OccurredAt time.Time `gorm:"column:occurred_at"`
}

func (AuditEvent) TableName() string { return "audit_events" }
