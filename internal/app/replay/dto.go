package replay

import "taleward/internal/app/ports"

type Request struct {
	SessionID string
	Limit     int
	Kind      string // optional: only events of this kind
	TurnFrom  int    // optional: inclusive lower bound
	TurnTo    int    // optional: inclusive upper bound
}

type Response struct {
	Events []ports.AuditEvent
}
