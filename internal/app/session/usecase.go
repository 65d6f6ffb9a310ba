package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"taleward/internal/app/ports"
	"taleward/internal/domain/character"
	"taleward/internal/domain/names"
	"taleward/internal/domain/story"
)

var ErrInvalidRequest = errors.New("invalid session request")

type UseCase struct {
	TxManager ports.TxManager
	StateRepo ports.SessionStateRepository
	Names     *names.Resolver
	NewID     func() string
	Now       func() time.Time
}

// Create seeds a fresh session: empty world, default biological state, the
// caller's dormant hooks. The character name goes through name resolution so
// a denylisted pick never reaches state.
func (u UseCase) Create(ctx context.Context, req CreateRequest) (CreateResponse, error) {
	name := strings.TrimSpace(req.CharacterName)
	if name == "" {
		return CreateResponse{}, ErrInvalidRequest
	}

	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	newID := u.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	resolver := u.resolver()

	world := story.NewWorldState()
	for _, h := range req.Hooks {
		if strings.TrimSpace(h.ID) == "" {
			continue
		}
		world.Hooks.Put(h)
	}

	state := ports.SessionState{
		SessionID: newID(),
		World:     world,
		Character: character.New(resolver.Resolve(name, world.BannedNames)),
		Version:   1,
		UpdatedAt: nowFn(),
	}
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		return u.StateRepo.SaveWithVersion(txCtx, state, 0)
	})
	if err != nil {
		return CreateResponse{}, err
	}
	return CreateResponse{SessionID: state.SessionID, State: state}, nil
}

// Status loads a session and deep-sanitizes it. Contaminated legacy state is
// repaired and persisted rather than refused.
func (u UseCase) Status(ctx context.Context, req StatusRequest) (StatusResponse, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return StatusResponse{}, ErrInvalidRequest
	}

	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	resolver := u.resolver()

	var out StatusResponse
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		state, err := u.StateRepo.GetBySessionID(txCtx, req.SessionID)
		if err != nil {
			return err
		}
		world, char, changed := story.Sanitize(state.World, state.Character, resolver)
		if changed {
			prev := state.Version
			state.World = world
			state.Character = char
			state.Version = prev + 1
			state.UpdatedAt = nowFn()
			if err := u.StateRepo.SaveWithVersion(txCtx, state, prev); err != nil {
				return err
			}
		}
		out = StatusResponse{State: state, Repaired: changed}
		return nil
	})
	if err != nil {
		return StatusResponse{}, err
	}
	return out, nil
}

func (u UseCase) resolver() *names.Resolver {
	if u.Names != nil {
		return u.Names
	}
	return names.NewResolver(nil, nil)
}
