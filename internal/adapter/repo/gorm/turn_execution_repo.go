package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"taleward/internal/adapter/repo/gorm/model"
	"taleward/internal/app/ports"
)

type TurnExecutionRepo struct {
	db *gorm.DB
}

func NewTurnExecutionRepo(db *gorm.DB) TurnExecutionRepo {
	return TurnExecutionRepo{db: db}
}

func (r TurnExecutionRepo) GetByIdempotencyKey(ctx context.Context, sessionID, key string) (*ports.TurnExecutionRecord, error) {
	var m model.TurnExecution
	err := getDBFromCtx(ctx, r.db).
		Where("session_id = ? AND idempotency_key = ?", sessionID, key).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}

	var bundle ports.TurnBundle
	if err := json.Unmarshal(m.Bundle, &bundle); err != nil {
		return nil, fmt.Errorf("decode bundle for %s/%s: %w", sessionID, key, err)
	}
	return &ports.TurnExecutionRecord{
		SessionID:      m.SessionID,
		IdempotencyKey: m.IdempotencyKey,
		RequestID:      m.RequestID,
		Bundle:         bundle,
		AppliedAt:      m.AppliedAt,
	}, nil
}

func (r TurnExecutionRepo) SaveExecution(ctx context.Context, execution ports.TurnExecutionRecord) error {
	doc, err := json.Marshal(execution.Bundle)
	if err != nil {
		return fmt.Errorf("encode bundle for %s/%s: %w", execution.SessionID, execution.IdempotencyKey, err)
	}
	m := model.TurnExecution{
		SessionID:      execution.SessionID,
		IdempotencyKey: execution.IdempotencyKey,
		RequestID:      execution.RequestID,
		Bundle:         doc,
		AppliedAt:      execution.AppliedAt,
	}
	return getDBFromCtx(ctx, r.db).Create(&m).Error
}
