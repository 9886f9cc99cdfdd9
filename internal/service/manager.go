package service

import (
	"context"
	"errors"

	"github.com/ericogr/kids-games/internal/auth"
	"github.com/ericogr/kids-games/internal/constants"
	"github.com/ericogr/kids-games/internal/game"
	"github.com/ericogr/kids-games/internal/logging"
	"github.com/ericogr/kids-games/internal/metrics"
	"github.com/ericogr/kids-games/internal/storage"
)

// Hooks are the events the HTTP adapters raise.
type Hooks interface {
	// OnSave applies one submission of the game edit screen.
	OnSave(ctx context.Context, req SaveRequest) error
	// OnRenderRequest returns the public fragment, or "".
	OnRenderRequest(ctx context.Context) string
}

// SaveRequest carries the parts of an edit-screen submission. Nil fields
// were not part of the form and are left untouched; each present part must
// carry its own anti-forgery token.
type SaveRequest struct {
	GameID uint
	Actor  auth.Principal

	Title     *string
	Status    *game.Status
	EditNonce string

	Embed      *string
	EmbedNonce string

	// ImageSet marks the image field as submitted; ImageID nil or 0 clears.
	ImageSet   bool
	ImageID    *uint
	ImageNonce string
}

// Card is one entry of the admin selection grid.
type Card struct {
	Game     game.Game
	ImageURL string
	Embed    string
	Active   bool
}

// Manager wires the components together and implements Hooks.
type Manager struct {
	Games    *Games
	Selector *Selector
	Embed    *EmbedField
	Images   *ImageReferences
	Renderer *Renderer
	Uploads  *Uploads
}

var _ Hooks = (*Manager)(nil)

func NewManager(repo storage.Repository, nonces NonceVerifier, lib MediaLibrary) *Manager {
	sel := NewSelector(repo, nonces)
	embed := NewEmbedField(repo, nonces)
	return &Manager{
		Games:    NewGames(repo, nonces),
		Selector: sel,
		Embed:    embed,
		Images:   NewImageReferences(repo, nonces, lib),
		Renderer: NewRenderer(sel, repo, embed),
		Uploads:  NewUploads(lib, nonces),
	}
}

// OnSave checks every submitted part before writing any of them, so a
// rejected token or capability leaves all stored data unchanged.
func (m *Manager) OnSave(ctx context.Context, req SaveRequest) error {
	var g *game.Game
	if req.Title != nil || req.Status != nil {
		if err := m.Games.authorize(req.Actor, req.EditNonce, req.GameID); err != nil {
			return record("game", err)
		}
		var err error
		if g, err = m.Games.Get(ctx, req.GameID); err != nil {
			return record("game", err)
		}
	}
	if req.Embed != nil {
		if err := m.Embed.Authorize(ctx, req.GameID, req.Actor, req.EmbedNonce); err != nil {
			return record("embed", err)
		}
	}
	if req.ImageSet {
		if err := m.Images.Authorize(ctx, req.GameID, req.Actor, req.ImageNonce); err != nil {
			return record("image", err)
		}
	}

	if g != nil {
		title, status := g.Title, g.Status
		if req.Title != nil {
			title = *req.Title
		}
		if req.Status != nil {
			status = *req.Status
		}
		if err := m.Games.apply(ctx, g, title, status); err != nil {
			return record("game", err)
		}
		record("game", nil)
	}
	if req.Embed != nil {
		if err := record("embed", m.Embed.write(ctx, req.GameID, *req.Embed)); err != nil {
			return err
		}
	}
	if req.ImageSet {
		if err := record("image", m.Images.write(ctx, req.GameID, req.ImageID)); err != nil {
			return err
		}
	}
	logging.Info("game saved", logging.Fields{constants.LogFieldGameID: req.GameID, constants.LogFieldActor: req.Actor.String()})
	return nil
}

func (m *Manager) OnRenderRequest(ctx context.Context) string {
	out, _ := m.Renderer.Render(ctx)
	return out
}

// Cards lists the published games for the selection grid.
func (m *Manager) Cards(ctx context.Context) ([]Card, error) {
	games, err := m.Games.List(ctx, game.StatusPublished)
	if err != nil {
		return nil, err
	}
	active, _, err := m.Selector.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	cards := make([]Card, 0, len(games))
	for _, g := range games {
		embed, err := m.Embed.Load(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		url, _ := m.Images.Resolve(ctx, g.ID)
		cards = append(cards, Card{Game: g, ImageURL: url, Embed: embed, Active: g.ID == active})
	}
	return cards, nil
}

func record(field string, err error) error {
	result := metrics.ResultOK
	switch {
	case err == nil:
	case errors.Is(err, ErrUnauthorized):
		result = metrics.ResultUnauthorized
	case errors.Is(err, ErrInvalidRequest):
		result = metrics.ResultInvalid
	default:
		result = metrics.ResultFailed
	}
	metrics.Save(field, result)
	return err
}
