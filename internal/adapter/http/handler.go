package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"taleward/internal/app/ports"
	"taleward/internal/app/replay"
	"taleward/internal/app/session"
	"taleward/internal/app/turn"
	"taleward/internal/domain/story"
	"taleward/internal/domain/threat"
)

type Handler struct {
	SessionUC session.UseCase
	TurnUC    turn.UseCase
	ReplayUC  replay.UseCase
	KPI       kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	api := s.Group("/api")
	api.POST("/session/create", h.createSession)
	api.POST("/session/status", h.sessionStatus)
	api.POST("/turn", h.submitTurn)
	api.GET("/replay", h.replay)

	s.GET("/ops/kpi", h.kpi)
}

type createSessionRequest struct {
	CharacterName string        `json:"character_name"`
	Hooks         []threat.Hook `json:"hooks,omitempty"`
}

type sessionStatusRequest struct {
	SessionID string `json:"session_id"`
}

type turnRequest struct {
	SessionID      string             `json:"session_id"`
	IdempotencyKey string             `json:"idempotency_key"`
	RequestID      int64              `json:"request_id"`
	Proposal       story.TurnProposal `json:"proposal"`
}

func (h Handler) createSession(c context.Context, ctx *app.RequestContext) {
	var body createSessionRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.SessionUC.Create(c, session.CreateRequest{
		CharacterName: body.CharacterName,
		Hooks:         body.Hooks,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) sessionStatus(c context.Context, ctx *app.RequestContext) {
	var body sessionStatusRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.SessionUC.Status(c, session.StatusRequest{SessionID: body.SessionID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) submitTurn(c context.Context, ctx *app.RequestContext) {
	var body turnRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.TurnUC.Execute(c, turn.Request{
		SessionID:      body.SessionID,
		IdempotencyKey: body.IdempotencyKey,
		RequestID:      body.RequestID,
		Proposal:       body.Proposal,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) replay(c context.Context, ctx *app.RequestContext) {
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	turnFrom, _ := strconv.Atoi(string(ctx.Query("turn_from")))
	turnTo, _ := strconv.Atoi(string(ctx.Query("turn_to")))
	resp, err := h.ReplayUC.Execute(c, replay.Request{
		SessionID: string(ctx.Query("session_id")),
		Limit:     limit,
		Kind:      string(ctx.Query("kind")),
		TurnFrom:  turnFrom,
		TurnTo:    turnTo,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, turn.ErrInvalidRequest),
		errors.Is(err, session.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
