package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ericogr/kids-games/internal/constants"
	"github.com/ericogr/kids-games/internal/game"
)

func uintPtr(v uint) *uint { return &v }

func TestImage_SaveResolveAndClear(t *testing.T) {
	m, repo, mm := newTestManager()
	ctx := context.Background()
	g := repo.addGame("A", game.StatusPublished)
	mm.urls[7] = "/media/seven"
	nonce := okNonce(constants.NonceActionSaveGameImage)

	if err := m.Images.Save(ctx, g.ID, uintPtr(7), editor, nonce); err != nil {
		t.Fatalf("Save: %v", err)
	}
	id, ok, err := m.Images.MediaID(ctx, g.ID)
	if err != nil || !ok || id != 7 {
		t.Fatalf("MediaID: got %d ok=%v err=%v", id, ok, err)
	}
	url, ok := m.Images.Resolve(ctx, g.ID)
	if !ok || url != "/media/seven?size=medium" {
		t.Fatalf("Resolve: got %q ok=%v", url, ok)
	}

	if err := m.Images.Save(ctx, g.ID, nil, editor, nonce); err != nil {
		t.Fatalf("Save(nil): %v", err)
	}
	if _, ok, _ := m.Images.MediaID(ctx, g.ID); ok {
		t.Fatalf("expected image to be cleared")
	}

	_ = m.Images.Save(ctx, g.ID, uintPtr(7), editor, nonce)
	if err := m.Images.Save(ctx, g.ID, uintPtr(0), editor, nonce); err != nil {
		t.Fatalf("Save(0): %v", err)
	}
	if _, ok := repo.meta[metaKey{g.ID, constants.MetaGameImage}]; ok {
		t.Fatalf("expected meta row to be removed for 0")
	}
}

func TestImage_ResolveDeletedMedia(t *testing.T) {
	m, repo, _ := newTestManager()
	g := repo.addGame("A", game.StatusPublished)
	repo.meta[metaKey{g.ID, constants.MetaGameImage}] = "55"
	if url, ok := m.Images.Resolve(context.Background(), g.ID); ok || url != "" {
		t.Fatalf("expected no image, got %q", url)
	}
}

func TestImage_ResolveNonNumeric(t *testing.T) {
	m, repo, _ := newTestManager()
	g := repo.addGame("A", game.StatusPublished)
	repo.meta[metaKey{g.ID, constants.MetaGameImage}] = "not-an-id"
	if _, ok, err := m.Images.MediaID(context.Background(), g.ID); ok || err != nil {
		t.Fatalf("expected no media id, got ok=%v err=%v", ok, err)
	}
}

func TestImage_InvalidNonceLeavesReference(t *testing.T) {
	m, repo, mm := newTestManager()
	ctx := context.Background()
	g := repo.addGame("A", game.StatusPublished)
	mm.urls[3] = "/media/three"
	repo.meta[metaKey{g.ID, constants.MetaGameImage}] = "3"

	err := m.Images.Save(ctx, g.ID, uintPtr(4), editor, okNonce(constants.NonceActionSaveEmbed))
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	err = m.Images.Save(ctx, g.ID, nil, subscriber, okNonce(constants.NonceActionSaveGameImage))
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if v := repo.meta[metaKey{g.ID, constants.MetaGameImage}]; v != "3" {
		t.Fatalf("reference changed to %q", v)
	}
}
