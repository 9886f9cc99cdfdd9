package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"path"
	"strings"
	"time"

	"github.com/ericogr/kids-games/internal/constants"
	"github.com/ericogr/kids-games/internal/dedupe"
	"github.com/ericogr/kids-games/internal/game"
	"github.com/ericogr/kids-games/internal/imageutil"
	"github.com/ericogr/kids-games/internal/logging"
	"github.com/ericogr/kids-games/internal/metrics"
	"github.com/ericogr/kids-games/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("media not found")
	ErrUnsupported = errors.New("unsupported image format")
	ErrTooLarge    = errors.New("upload exceeds maximum size")
	ErrTooManyPx   = fmt.Errorf("%w: image dimensions exceed pixel limit", ErrTooLarge)
	ErrBadSize     = errors.New("unknown size class")
)

// SizeClass names a rendition of an uploaded image.
type SizeClass string

const (
	SizeThumbnail SizeClass = "thumbnail"
	SizeMedium    SizeClass = "medium"
	SizeFull      SizeClass = "full"
)

var sizeBounds = map[SizeClass][2]int{
	SizeThumbnail: {150, 150},
	SizeMedium:    {300, 300},
}

var contentTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
}

// ParseSize validates a size class name.
func ParseSize(s string) (SizeClass, error) {
	switch sc := SizeClass(strings.ToLower(strings.TrimSpace(s))); sc {
	case SizeThumbnail, SizeMedium, SizeFull:
		return sc, nil
	}
	return "", ErrBadSize
}

// DefaultMaxPixels bounds width*height of an upload.
const DefaultMaxPixels int64 = 40_000_000

// Library is the media subsystem: uploads, renditions and URL resolution.
type Library struct {
	repo      storage.Repository
	backend   Backend
	maxBytes  int64
	maxPixels int64
}

func NewLibrary(repo storage.Repository, backend Backend, maxBytes int64) *Library {
	return &Library{repo: repo, backend: backend, maxBytes: maxBytes, maxPixels: DefaultMaxPixels}
}

// SetMaxPixels changes the pixel limit. Values <= 0 are ignored.
func (l *Library) SetMaxPixels(n int64) {
	if n > 0 {
		l.maxPixels = n
	}
}

func originalKey(a *game.MediaAsset) string { return a.StorageKey + "/original" }

func renditionKey(a *game.MediaAsset, size SizeClass) string {
	return a.StorageKey + "/" + string(size) + ".png"
}

// Upload validates and stores an image and records it. uploadedBy is kept
// for display only.
func (l *Library) Upload(ctx context.Context, filename string, data []byte, uploadedBy string) (*game.MediaAsset, error) {
	if l.maxBytes > 0 && int64(len(data)) > l.maxBytes {
		return nil, ErrTooLarge
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnsupported
	}
	ct, ok := contentTypes[format]
	if !ok {
		return nil, ErrUnsupported
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, ErrUnsupported
	}
	if int64(cfg.Width)*int64(cfg.Height) > l.maxPixels {
		return nil, ErrTooManyPx
	}
	a := &game.MediaAsset{
		Filename:    path.Base(strings.ReplaceAll(filename, "\\", "/")),
		ContentType: ct,
		Width:       cfg.Width,
		Height:      cfg.Height,
		StorageKey:  "media/" + time.Now().UTC().Format("2006/01") + "/" + uuid.NewString(),
		UploadedBy:  uploadedBy,
	}
	if err := l.backend.Put(ctx, originalKey(a), ct, data); err != nil {
		return nil, fmt.Errorf("store original: %w", err)
	}
	if err := l.repo.CreateMedia(ctx, a); err != nil {
		if derr := l.backend.DeletePrefix(ctx, a.StorageKey+"/"); derr != nil {
			logging.Error("failed to clean up orphaned media", derr, logging.Fields{constants.LogFieldKey: a.StorageKey})
		}
		return nil, err
	}
	logging.Info("media uploaded", logging.Fields{constants.LogFieldMediaID: a.ID, constants.LogFieldActor: uploadedBy, "filename": a.Filename, "bytes": len(data)})
	return a, nil
}

// Get returns the media record.
func (l *Library) Get(ctx context.Context, id uint) (*game.MediaAsset, error) {
	a, err := l.repo.GetMediaByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	return a, err
}

// ResolveURL returns a displayable URL for the media at the requested size,
// generating the rendition first when it does not exist yet.
func (l *Library) ResolveURL(ctx context.Context, id uint, size SizeClass) (string, error) {
	if _, ok := sizeBounds[size]; !ok && size != SizeFull {
		return "", ErrBadSize
	}
	a, err := l.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if size == SizeFull {
		return l.backend.URL(ctx, originalKey(a))
	}
	key, err := l.ensureRendition(ctx, a, size)
	if err != nil {
		return "", err
	}
	return l.backend.URL(ctx, key)
}

func (l *Library) ensureRendition(ctx context.Context, a *game.MediaAsset, size SizeClass) (string, error) {
	key := renditionKey(a, size)
	if ok, err := l.backend.Exists(ctx, key); err != nil {
		return "", err
	} else if ok {
		return key, nil
	}

	flightKey := fmt.Sprintf("%d:%s", a.ID, size)
	_, err, _ := dedupe.RenditionGroup.Do(flightKey, func() (interface{}, error) {
		// Re-check in case another caller stored it while we were queued.
		if ok, err := l.backend.Exists(ctx, key); err == nil && ok {
			return nil, nil
		}
		orig, _, err := l.backend.Get(ctx, originalKey(a))
		if err != nil {
			return nil, err
		}
		b := sizeBounds[size]
		out, w, h, err := imageutil.FitPNG(orig, b[0], b[1])
		if err != nil {
			return nil, err
		}
		if err := l.backend.Put(ctx, key, constants.ContentTypePNG, out); err != nil {
			return nil, err
		}
		metrics.RenditionGenerated()
		logging.Info("media rendition generated", logging.Fields{constants.LogFieldMediaID: a.ID, constants.LogFieldSize: string(size), "width": w, "height": h})
		return nil, nil
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

// Delete removes the record and every stored rendition.
func (l *Library) Delete(ctx context.Context, id uint) error {
	a, err := l.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := l.repo.DeleteMedia(ctx, id); err != nil {
		return err
	}
	if err := l.backend.DeletePrefix(ctx, a.StorageKey+"/"); err != nil {
		logging.Error("failed to delete media objects", err, logging.Fields{constants.LogFieldMediaID: id})
	}
	return nil
}

// Open returns the bytes stored under key. It backs the /media route of the
// database backend.
func (l *Library) Open(ctx context.Context, key string) ([]byte, string, error) {
	return l.backend.Get(ctx, key)
}
