package gormrepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taleward/internal/adapter/repo/gorm/model"
	"taleward/internal/app/ports"
)

type AuditRepo struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) AuditRepo {
	return AuditRepo{db: db}
}

func (r AuditRepo) Append(ctx context.Context, events []ports.AuditEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.AuditEvent, 0, len(events))
	for _, e := range events {
		rows = append(rows, model.AuditEvent{
			ID:         e.ID,
			SessionID:  e.SessionID,
			Turn:       e.Turn,
			Kind:       e.Kind,
			Line:       e.Line,
			OccurredAt: e.OccurredAt,
		})
	}
	return getDBFromCtx(ctx, r.db).Create(&rows).Error
}

func (r AuditRepo) ListBySessionID(ctx context.Context, sessionID string, limit int) ([]ports.AuditEvent, error) {
	rows := []model.AuditEvent{}
	query := getDBFromCtx(ctx, r.db).
		Where("session_id = ?", sessionID).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{
				{Column: clause.Column{Name: "occurred_at"}, Desc: true},
				{Column: clause.Column{Name: "id"}, Desc: true},
			},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]ports.AuditEvent, 0, len(rows))
	for _, row := range rows {
		out = append(out, ports.AuditEvent{
			ID:         row.ID,
			SessionID:  row.SessionID,
			Turn:       row.Turn,
			Kind:       row.Kind,
			Line:       row.Line,
			OccurredAt: row.OccurredAt,
		})
	}
	return out, nil
}
