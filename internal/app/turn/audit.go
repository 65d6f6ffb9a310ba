package turn

import (
	"fmt"
	"time"

	"taleward/internal/app/ports"
)

type auditEntry struct {
	kind string
	line string
}

// auditLog accumulates the turn's audit lines in pipeline order. Empty lines
// are dropped so callers can log unconditionally.
type auditLog struct {
	entries []auditEntry
}

func (a *auditLog) add(kind, line string) {
	if line == "" {
		return
	}
	a.entries = append(a.entries, auditEntry{kind: kind, line: line})
}

func (a *auditLog) addf(kind, format string, args ...any) {
	a.add(kind, fmt.Sprintf(format, args...))
}

func (a *auditLog) addAll(kind string, lines []string) {
	for _, line := range lines {
		a.add(kind, line)
	}
}

func (a *auditLog) lines() []string {
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.kind+": "+e.line)
	}
	return out
}

func (a *auditLog) events(newID func() string, sessionID string, turn int, at time.Time) []ports.AuditEvent {
	out := make([]ports.AuditEvent, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, ports.AuditEvent{
			ID:         newID(),
			SessionID:  sessionID,
			Turn:       turn,
			Kind:       e.kind,
			Line:       e.line,
			OccurredAt: at,
		})
	}
	return out
}
