package media

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/ericogr/kids-games/internal/constants"
	"github.com/ericogr/kids-games/internal/storage"
)

// Backend stores media bytes under opaque keys and turns keys into URLs a
// browser can load.
type Backend interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, string, error)
	Exists(ctx context.Context, key string) (bool, error)
	URL(ctx context.Context, key string) (string, error)
	DeletePrefix(ctx context.Context, prefix string) error
}

// DBBackend keeps blobs in the application database and serves them from
// the /media route.
type DBBackend struct {
	blobs   storage.BlobRepository
	baseURL string
}

// NewDBBackend returns a backend whose URLs are rooted at baseURL (may be
// empty for same-origin relative URLs).
func NewDBBackend(blobs storage.BlobRepository, baseURL string) *DBBackend {
	return &DBBackend{blobs: blobs, baseURL: strings.TrimRight(baseURL, "/")}
}

func (b *DBBackend) Put(ctx context.Context, key, contentType string, data []byte) error {
	return b.blobs.PutBlob(ctx, key, contentType, data)
}

func (b *DBBackend) Get(ctx context.Context, key string) ([]byte, string, error) {
	blob, err := b.blobs.GetBlob(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	return blob.Data, blob.ContentType, nil
}

func (b *DBBackend) Exists(ctx context.Context, key string) (bool, error) {
	_, _, err := b.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (b *DBBackend) URL(_ context.Context, key string) (string, error) {
	parts := strings.Split(key, "/")
	for i := range parts {
		parts[i] = url.PathEscape(parts[i])
	}
	return b.baseURL + constants.RouteMedia + "/" + strings.Join(parts, "/"), nil
}

func (b *DBBackend) DeletePrefix(ctx context.Context, prefix string) error {
	return b.blobs.DeleteBlobsWithPrefix(ctx, prefix)
}
