package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/ericogr/kids-games/internal/auth"
	"github.com/ericogr/kids-games/internal/constants"
	"github.com/ericogr/kids-games/internal/logging"
	"github.com/ericogr/kids-games/internal/media"
	"github.com/ericogr/kids-games/internal/storage"
)

// MediaResolver turns a media id into a displayable URL.
type MediaResolver interface {
	ResolveURL(ctx context.Context, id uint, size media.SizeClass) (string, error)
}

// ImageReferences associates an uploaded image with a game.
type ImageReferences struct {
	repo   storage.Repository
	nonces NonceVerifier
	media  MediaResolver
}

func NewImageReferences(repo storage.Repository, nonces NonceVerifier, resolver MediaResolver) *ImageReferences {
	return &ImageReferences{repo: repo, nonces: nonces, media: resolver}
}

// Authorize runs the capability, token and existence checks of Save.
func (r *ImageReferences) Authorize(ctx context.Context, gameID uint, actor auth.Principal, token string) error {
	if !auth.HasCapability(actor, auth.CapEditGame, gameID) {
		return ErrUnauthorized
	}
	if err := r.nonces.VerifyNonce(actor, constants.NonceActionSaveGameImage, token); err != nil {
		return invalid("image nonce")
	}
	return requireGame(ctx, r.repo, gameID)
}

// Save stores mediaID for the game; nil or 0 removes the association.
func (r *ImageReferences) Save(ctx context.Context, gameID uint, mediaID *uint, actor auth.Principal, token string) error {
	if err := r.Authorize(ctx, gameID, actor, token); err != nil {
		return record("image", err)
	}
	return record("image", r.write(ctx, gameID, mediaID))
}

func (r *ImageReferences) write(ctx context.Context, gameID uint, mediaID *uint) error {
	var err error
	if mediaID == nil || *mediaID == 0 {
		err = r.repo.DeleteMeta(ctx, gameID, constants.MetaGameImage)
	} else {
		err = r.repo.SetMeta(ctx, gameID, constants.MetaGameImage, strconv.FormatUint(uint64(*mediaID), 10))
	}
	if err != nil {
		return hostErr("save game image", err)
	}
	return nil
}

// MediaID returns the stored media id for the game, if any.
func (r *ImageReferences) MediaID(ctx context.Context, gameID uint) (uint, bool, error) {
	v, found, err := r.repo.GetMeta(ctx, gameID, constants.MetaGameImage)
	if err != nil {
		return 0, false, hostErr("load game image", err)
	}
	if !found {
		return 0, false, nil
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil || id == 0 {
		return 0, false, nil
	}
	return uint(id), true, nil
}

// Resolve returns the medium-size URL of the game's image. ok is false
// when there is no image or it can no longer be resolved.
func (r *ImageReferences) Resolve(ctx context.Context, gameID uint) (string, bool) {
	id, found, err := r.MediaID(ctx, gameID)
	if err != nil {
		logging.Warn("game image lookup failed", err, logging.Fields{constants.LogFieldGameID: gameID})
		return "", false
	}
	if !found {
		return "", false
	}
	url, err := r.media.ResolveURL(ctx, id, media.SizeMedium)
	if err != nil {
		if !errors.Is(err, media.ErrNotFound) {
			logging.Warn("game image resolve failed", err, logging.Fields{constants.LogFieldGameID: gameID, constants.LogFieldMediaID: id})
		}
		return "", false
	}
	return url, true
}
