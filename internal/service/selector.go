package service

import (
	"context"
	"strconv"

	"github.com/ericogr/kids-games/internal/auth"
	"github.com/ericogr/kids-games/internal/constants"
	"github.com/ericogr/kids-games/internal/logging"
	"github.com/ericogr/kids-games/internal/storage"
)

// NonceVerifier checks anti-forgery tokens.
type NonceVerifier interface {
	VerifyNonce(p auth.Principal, action, token string) error
}

// Selector owns the single active-game pointer kept in the settings table.
type Selector struct {
	repo   storage.Repository
	nonces NonceVerifier
}

func NewSelector(repo storage.Repository, nonces NonceVerifier) *Selector {
	return &Selector{repo: repo, nonces: nonces}
}

// GetActive returns the selected game id. ok is false when nothing is
// selected or the stored value is not a positive id.
func (s *Selector) GetActive(ctx context.Context) (uint, bool, error) {
	v, found, err := s.repo.GetSetting(ctx, constants.OptionActiveGame)
	if err != nil {
		return 0, false, hostErr("get active game", err)
	}
	if !found || v == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil || id == 0 {
		return 0, false, nil
	}
	return uint(id), true, nil
}

// SetActive stores id as the active game; 0 clears the selection. The id
// is not checked against the store: a dangling selection renders nothing.
func (s *Selector) SetActive(ctx context.Context, id uint, actor auth.Principal) error {
	if !auth.HasCapability(actor, auth.CapManageOptions, 0) {
		return record("active_game", ErrUnauthorized)
	}
	v := ""
	if id != 0 {
		v = strconv.FormatUint(uint64(id), 10)
	}
	if err := s.repo.SetSetting(ctx, constants.OptionActiveGame, v); err != nil {
		return record("active_game", hostErr("set active game", err))
	}
	logging.Info("active game changed", logging.Fields{constants.LogFieldGameID: id, constants.LogFieldActor: actor.String()})
	return record("active_game", nil)
}

// SaveSettings is the settings-form submission: it verifies the form's
// anti-forgery token and then calls SetActive.
func (s *Selector) SaveSettings(ctx context.Context, id uint, actor auth.Principal, token string) error {
	if !auth.HasCapability(actor, auth.CapManageOptions, 0) {
		return record("active_game", ErrUnauthorized)
	}
	if err := s.nonces.VerifyNonce(actor, constants.NonceActionSettings, token); err != nil {
		return record("active_game", invalid("settings nonce"))
	}
	return s.SetActive(ctx, id, actor)
}
