package replay

import (
	"context"
	"errors"
	"strings"

	"taleward/internal/app/ports"
)

var ErrInvalidRequest = errors.New("invalid replay request")

// UseCase lists a session's audit stream, most recent first. The stream is
// the per-turn record of every clamp, rejection, and threat decision the
// engine made.
type UseCase struct {
	Audit ports.AuditRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return Response{}, ErrInvalidRequest
	}
	events, err := u.Audit.ListBySessionID(ctx, req.SessionID, req.Limit)
	if err != nil {
		return Response{}, err
	}
	events = filter(events, req)
	return Response{Events: events}, nil
}

func filter(events []ports.AuditEvent, req Request) []ports.AuditEvent {
	kind := strings.ToLower(strings.TrimSpace(req.Kind))
	if kind == "" && req.TurnFrom <= 0 && req.TurnTo <= 0 {
		return events
	}
	out := make([]ports.AuditEvent, 0, len(events))
	for _, evt := range events {
		if kind != "" && strings.ToLower(evt.Kind) != kind {
			continue
		}
		if req.TurnFrom > 0 && evt.Turn < req.TurnFrom {
			continue
		}
		if req.TurnTo > 0 && evt.Turn > req.TurnTo {
			continue
		}
		out = append(out, evt)
	}
	return out
}
