package service

import (
	"context"
	"errors"

	"github.com/ericogr/kids-games/internal/auth"
	"github.com/ericogr/kids-games/internal/constants"
	"github.com/ericogr/kids-games/internal/storage"
)

// EmbedField stores the raw embed markup of each game. The text is kept
// verbatim: only holders of edit_game may write it.
type EmbedField struct {
	repo   storage.Repository
	nonces NonceVerifier
}

func NewEmbedField(repo storage.Repository, nonces NonceVerifier) *EmbedField {
	return &EmbedField{repo: repo, nonces: nonces}
}

// Authorize runs the capability, token and existence checks of Save without
// writing anything.
func (f *EmbedField) Authorize(ctx context.Context, gameID uint, actor auth.Principal, token string) error {
	if !auth.HasCapability(actor, auth.CapEditGame, gameID) {
		return ErrUnauthorized
	}
	if err := f.nonces.VerifyNonce(actor, constants.NonceActionSaveEmbed, token); err != nil {
		return invalid("embed nonce")
	}
	return requireGame(ctx, f.repo, gameID)
}

// Save stores raw unchanged. An empty string clears the embed.
func (f *EmbedField) Save(ctx context.Context, gameID uint, raw string, actor auth.Principal, token string) error {
	if err := f.Authorize(ctx, gameID, actor, token); err != nil {
		return record("embed", err)
	}
	return record("embed", f.write(ctx, gameID, raw))
}

func (f *EmbedField) write(ctx context.Context, gameID uint, raw string) error {
	if err := f.repo.SetMeta(ctx, gameID, constants.MetaEmbed, raw); err != nil {
		return hostErr("save embed", err)
	}
	return nil
}

// Load returns the stored embed, or "" when never set.
func (f *EmbedField) Load(ctx context.Context, gameID uint) (string, error) {
	v, _, err := f.repo.GetMeta(ctx, gameID, constants.MetaEmbed)
	if err != nil {
		return "", hostErr("load embed", err)
	}
	return v, nil
}

func requireGame(ctx context.Context, repo storage.Repository, id uint) error {
	if _, err := repo.GetGameByID(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return hostErr("get game", err)
	}
	return nil
}
