package session

import (
	"taleward/internal/app/ports"
	"taleward/internal/domain/threat"
)

type CreateRequest struct {
	CharacterName string        `json:"character_name"`
	Hooks         []threat.Hook `json:"hooks,omitempty"`
}

type CreateResponse struct {
	SessionID string             `json:"session_id"`
	State     ports.SessionState `json:"state"`
}

type StatusRequest struct {
	SessionID string `json:"session_id"`
}

type StatusResponse struct {
	State ports.SessionState `json:"state"`
	// Repaired reports that loading found and fixed banned-name
	// contamination left by an older denylist.
	Repaired bool `json:"repaired,omitempty"`
}
