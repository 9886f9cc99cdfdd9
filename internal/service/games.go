package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/ericogr/kids-games/internal/auth"
	"github.com/ericogr/kids-games/internal/constants"
	"github.com/ericogr/kids-games/internal/game"
	"github.com/ericogr/kids-games/internal/logging"
	"github.com/ericogr/kids-games/internal/storage"
)

const maxTitleRunes = 200

// Games is the generic entity editor for game entries.
type Games struct {
	repo   storage.Repository
	nonces NonceVerifier
}

func NewGames(repo storage.Repository, nonces NonceVerifier) *Games {
	return &Games{repo: repo, nonces: nonces}
}

func normalizeGameInput(title string, status game.Status) (string, game.Status, error) {
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) > maxTitleRunes {
		return "", "", invalid(constants.ErrTitleExceeds)
	}
	if status == "" {
		status = game.StatusDraft
	}
	if !status.Valid() {
		return "", "", invalid(constants.ErrInvalidStatus)
	}
	return title, status, nil
}

func (s *Games) authorize(actor auth.Principal, token string, gameID uint) error {
	if !auth.HasCapability(actor, auth.CapEditGame, gameID) {
		return ErrUnauthorized
	}
	if err := s.nonces.VerifyNonce(actor, constants.NonceActionEditGame, token); err != nil {
		return invalid("edit nonce")
	}
	return nil
}

// Create adds a new game. An empty status creates a draft.
func (s *Games) Create(ctx context.Context, actor auth.Principal, token, title string, status game.Status) (*game.Game, error) {
	if err := s.authorize(actor, token, 0); err != nil {
		return nil, err
	}
	title, status, err := normalizeGameInput(title, status)
	if err != nil {
		return nil, err
	}
	g := &game.Game{Title: title, Status: status}
	if err := s.repo.CreateGame(ctx, g); err != nil {
		return nil, hostErr("create game", err)
	}
	logging.Info("game created", logging.Fields{constants.LogFieldGameID: g.ID, constants.LogFieldActor: actor.String()})
	return g, nil
}

// Update changes title and status of an existing game.
func (s *Games) Update(ctx context.Context, actor auth.Principal, token string, id uint, title string, status game.Status) (*game.Game, error) {
	if err := s.authorize(actor, token, id); err != nil {
		return nil, err
	}
	g, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, g, title, status); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Games) apply(ctx context.Context, g *game.Game, title string, status game.Status) error {
	title, status, err := normalizeGameInput(title, status)
	if err != nil {
		return err
	}
	g.Title, g.Status = title, status
	if err := s.repo.UpdateGame(ctx, g); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return hostErr("update game", err)
	}
	return nil
}

// Delete removes the game and its metadata. A selection pointing at it is
// left alone and renders nothing from then on.
func (s *Games) Delete(ctx context.Context, actor auth.Principal, token string, id uint) error {
	if err := s.authorize(actor, token, id); err != nil {
		return err
	}
	if err := s.repo.DeleteGame(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return hostErr("delete game", err)
	}
	logging.Info("game deleted", logging.Fields{constants.LogFieldGameID: id, constants.LogFieldActor: actor.String()})
	return nil
}

func (s *Games) Get(ctx context.Context, id uint) (*game.Game, error) {
	g, err := s.repo.GetGameByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, hostErr("get game", err)
	}
	return g, nil
}

// List returns games with the given status, or all games for "".
func (s *Games) List(ctx context.Context, status game.Status) ([]game.Game, error) {
	games, err := s.repo.ListGames(ctx, status)
	if err != nil {
		return nil, hostErr("list games", err)
	}
	return games, nil
}
