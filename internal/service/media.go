package service

import (
	"context"
	"errors"

	"github.com/ericogr/kids-games/internal/auth"
	"github.com/ericogr/kids-games/internal/constants"
	"github.com/ericogr/kids-games/internal/game"
	"github.com/ericogr/kids-games/internal/media"
)

// MediaLibrary is the part of media.Library the admin surface needs.
type MediaLibrary interface {
	MediaResolver
	Upload(ctx context.Context, filename string, data []byte, uploadedBy string) (*game.MediaAsset, error)
	Delete(ctx context.Context, id uint) error
}

// Uploads gates the media library behind upload_files and a nonce.
type Uploads struct {
	lib    MediaLibrary
	nonces NonceVerifier
}

func NewUploads(lib MediaLibrary, nonces NonceVerifier) *Uploads {
	return &Uploads{lib: lib, nonces: nonces}
}

func (u *Uploads) authorize(actor auth.Principal, token string) error {
	if !auth.HasCapability(actor, auth.CapUploadFiles, 0) {
		return ErrUnauthorized
	}
	if err := u.nonces.VerifyNonce(actor, constants.NonceActionUploadMedia, token); err != nil {
		return invalid("upload nonce")
	}
	return nil
}

func mediaErr(op string, err error) error {
	switch {
	case errors.Is(err, media.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, media.ErrUnsupported), errors.Is(err, media.ErrTooLarge), errors.Is(err, media.ErrBadSize):
		return invalid(err.Error())
	default:
		return hostErr(op, err)
	}
}

// Upload stores an image and returns its record and medium-size URL.
func (u *Uploads) Upload(ctx context.Context, actor auth.Principal, token, filename string, data []byte) (*game.MediaAsset, string, error) {
	if err := u.authorize(actor, token); err != nil {
		return nil, "", err
	}
	a, err := u.lib.Upload(ctx, filename, data, actor.Email)
	if err != nil {
		return nil, "", mediaErr("upload media", err)
	}
	url, err := u.lib.ResolveURL(ctx, a.ID, media.SizeMedium)
	if err != nil {
		return nil, "", mediaErr("resolve media", err)
	}
	return a, url, nil
}

// Delete removes an uploaded image. Games still pointing at it resolve to
// no image.
func (u *Uploads) Delete(ctx context.Context, actor auth.Principal, token string, id uint) error {
	if err := u.authorize(actor, token); err != nil {
		return err
	}
	if err := u.lib.Delete(ctx, id); err != nil {
		return mediaErr("delete media", err)
	}
	return nil
}

// Resolve returns the URL of media id at size.
func (u *Uploads) Resolve(ctx context.Context, id uint, size media.SizeClass) (string, error) {
	url, err := u.lib.ResolveURL(ctx, id, size)
	if err != nil {
		return "", mediaErr("resolve media", err)
	}
	return url, nil
}
