package storage

import (
	"context"
	"errors"

	"github.com/ericogr/kids-games/internal/game"
)

// ErrNotFound is returned when a requested row does not exist (or was
// soft-deleted).
var ErrNotFound = errors.New("record not found")

// Repository is the entity store used by the services. It owns games and
// their metadata, the settings table, media records and users.
type Repository interface {
	CreateGame(ctx context.Context, g *game.Game) error
	GetGameByID(ctx context.Context, id uint) (*game.Game, error)
	// ListGames returns games ordered by title. An empty status lists all.
	ListGames(ctx context.Context, status game.Status) ([]game.Game, error)
	UpdateGame(ctx context.Context, g *game.Game) error
	// DeleteGame soft-deletes the game and removes its metadata rows.
	DeleteGame(ctx context.Context, id uint) error

	// GetMeta returns the stored value and whether a row exists.
	GetMeta(ctx context.Context, gameID uint, key string) (string, bool, error)
	SetMeta(ctx context.Context, gameID uint, key, value string) error
	DeleteMeta(ctx context.Context, gameID uint, key string) error

	GetSetting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key, value string) error

	CreateMedia(ctx context.Context, m *game.MediaAsset) error
	GetMediaByID(ctx context.Context, id uint) (*game.MediaAsset, error)
	DeleteMedia(ctx context.Context, id uint) error

	UpsertUser(ctx context.Context, email, name string, role game.Role) (*game.User, error)
	GetUserByEmail(ctx context.Context, email string) (*game.User, error)
}

// BlobRepository stores raw media bytes in the database.
type BlobRepository interface {
	PutBlob(ctx context.Context, key, contentType string, data []byte) error
	GetBlob(ctx context.Context, key string) (*game.MediaBlob, error)
	DeleteBlobsWithPrefix(ctx context.Context, prefix string) error
}
