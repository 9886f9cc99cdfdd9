package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ericogr/kids-games/internal/constants"
	"github.com/ericogr/kids-games/internal/game"
)

func TestEmbed_RoundTrip(t *testing.T) {
	m, repo, _ := newTestManager()
	ctx := context.Background()
	g := repo.addGame("A", game.StatusDraft)
	nonce := okNonce(constants.NonceActionSaveEmbed)

	for _, raw := range []string{
		`<iframe src="https://games.example/x" allowfullscreen></iframe>`,
		"<script>alert(1)</script>\n<div onclick=\"x()\">",
		"",
	} {
		if err := m.Embed.Save(ctx, g.ID, raw, editor, nonce); err != nil {
			t.Fatalf("Save(%q): %v", raw, err)
		}
		got, err := m.Embed.Load(ctx, g.ID)
		if err != nil || got != raw {
			t.Fatalf("Load: got %q err=%v, want %q", got, err, raw)
		}
	}
}

func TestEmbed_LoadUnset(t *testing.T) {
	m, repo, _ := newTestManager()
	g := repo.addGame("A", game.StatusDraft)
	got, err := m.Embed.Load(context.Background(), g.ID)
	if err != nil || got != "" {
		t.Fatalf("expected empty embed, got %q err=%v", got, err)
	}
}

func TestEmbed_RejectedSaveLeavesValue(t *testing.T) {
	m, repo, _ := newTestManager()
	ctx := context.Background()
	g := repo.addGame("A", game.StatusDraft)
	repo.meta[metaKey{g.ID, constants.MetaEmbed}] = "original"

	cases := []struct {
		name string
		err  error
		save func() error
	}{
		{"bad nonce", ErrInvalidRequest, func() error {
			return m.Embed.Save(ctx, g.ID, "changed", editor, "forged")
		}},
		{"nonce for other action", ErrInvalidRequest, func() error {
			return m.Embed.Save(ctx, g.ID, "changed", editor, okNonce(constants.NonceActionSaveGameImage))
		}},
		{"subscriber", ErrUnauthorized, func() error {
			return m.Embed.Save(ctx, g.ID, "changed", subscriber, okNonce(constants.NonceActionSaveEmbed))
		}},
		{"missing game", ErrNotFound, func() error {
			return m.Embed.Save(ctx, 99, "changed", editor, okNonce(constants.NonceActionSaveEmbed))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.save(); !errors.Is(err, tc.err) {
				t.Fatalf("expected %v, got %v", tc.err, err)
			}
			if v := repo.meta[metaKey{g.ID, constants.MetaEmbed}]; v != "original" {
				t.Fatalf("embed changed to %q", v)
			}
		})
	}
}

func TestEmbed_StoreFailure(t *testing.T) {
	m, repo, _ := newTestManager()
	g := repo.addGame("A", game.StatusDraft)
	repo.fail = true
	err := m.Embed.Save(context.Background(), g.ID, "x", editor, okNonce(constants.NonceActionSaveEmbed))
	if !errors.Is(err, ErrHostUnavailable) {
		t.Fatalf("expected ErrHostUnavailable, got %v", err)
	}
}
