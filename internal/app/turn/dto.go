package turn

import (
	"taleward/internal/app/ports"
	"taleward/internal/domain/story"
)

// Request is one narrator turn submission. RequestID must be strictly greater
// than the session's last applied id; IdempotencyKey makes retries safe.
type Request struct {
	SessionID      string             `json:"session_id"`
	IdempotencyKey string             `json:"idempotency_key"`
	RequestID      int64              `json:"request_id"`
	Proposal       story.TurnProposal `json:"proposal"`
	// ClearedConditions are conditions the player removed by hand this turn.
	// They join the session's grace list before the biological step runs.
	ClearedConditions []string `json:"cleared_conditions,omitempty"`
}

type Response struct {
	Bundle   ports.TurnBundle `json:"bundle"`
	Replayed bool             `json:"replayed,omitempty"`
}
