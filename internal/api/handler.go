package api

import (
	"context"
	"time"

	"github.com/ericogr/kids-games/internal/auth"
	"github.com/ericogr/kids-games/internal/game"
	"github.com/ericogr/kids-games/internal/service"
)

// MediaOpener reads stored media objects for the /media route.
type MediaOpener interface {
	Open(ctx context.Context, key string) ([]byte, string, error)
}

// UserStore records who signed in.
type UserStore interface {
	UpsertUser(ctx context.Context, email, name string, role game.Role) (*game.User, error)
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options carries the settings the HTTP layer needs from the configuration.
type Options struct {
	AdminEmails        []string
	EditorEmails       []string
	SessionTTL         time.Duration
	MaxUploadBytes     int64
	GoogleClientID     string
	GoogleClientSecret string
	SecureCookie       bool
}

// Handler serves the public, auth and admin routes.
type Handler struct {
	mgr    *service.Manager
	signer *auth.Signer
	media  MediaOpener
	users  UserStore
	db     Pinger
	opts   Options

	// exchange trades an OAuth code for the signed-in email and name.
	exchange func(ctx context.Context, code string) (email, name string, err error)
}

func NewHandler(mgr *service.Manager, signer *auth.Signer, media MediaOpener, users UserStore, db Pinger, opts Options) *Handler {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 8 << 20
	}
	h := &Handler{mgr: mgr, signer: signer, media: media, users: users, db: db, opts: opts}
	h.exchange = h.googleExchange
	return h
}
