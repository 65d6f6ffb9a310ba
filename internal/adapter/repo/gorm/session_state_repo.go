package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"taleward/internal/adapter/repo/gorm/model"
	"taleward/internal/app/ports"
	"taleward/internal/domain/character"
	"taleward/internal/domain/story"
)

type SessionStateRepo struct {
	db *gorm.DB
}

func NewSessionStateRepo(db *gorm.DB) SessionStateRepo {
	return SessionStateRepo{db: db}
}

func (r SessionStateRepo) GetBySessionID(ctx context.Context, sessionID string) (ports.SessionState, error) {
	var m model.SessionState
	if err := getDBFromCtx(ctx, r.db).Where("session_id = ?", sessionID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.SessionState{}, ports.ErrNotFound
		}
		return ports.SessionState{}, err
	}

	var world story.WorldState
	if err := json.Unmarshal(m.World, &world); err != nil {
		return ports.SessionState{}, fmt.Errorf("decode world for %s: %w", sessionID, err)
	}
	var char character.Character
	if err := json.Unmarshal(m.Character, &char); err != nil {
		return ports.SessionState{}, fmt.Errorf("decode character for %s: %w", sessionID, err)
	}
	return ports.SessionState{
		SessionID: m.SessionID,
		World:     world,
		Character: char,
		Version:   m.Version,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

func (r SessionStateRepo) SaveWithVersion(ctx context.Context, state ports.SessionState, expectedVersion int64) error {
	db := getDBFromCtx(ctx, r.db)

	worldDoc, err := json.Marshal(state.World)
	if err != nil {
		return fmt.Errorf("encode world for %s: %w", state.SessionID, err)
	}
	charDoc, err := json.Marshal(state.Character)
	if err != nil {
		return fmt.Errorf("encode character for %s: %w", state.SessionID, err)
	}

	if expectedVersion == 0 {
		m := model.SessionState{
			SessionID: state.SessionID,
			World:     worldDoc,
			Character: charDoc,
			Version:   state.Version,
			UpdatedAt: state.UpdatedAt,
		}
		return db.Create(&m).Error
	}

	res := db.Model(&model.SessionState{}).
		Where("session_id = ? AND version = ?", state.SessionID, expectedVersion).
		Updates(map[string]any{
			"world":      worldDoc,
			"character":  charDoc,
			"version":    state.Version,
			"updated_at": state.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}
