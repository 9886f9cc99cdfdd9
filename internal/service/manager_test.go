package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ericogr/kids-games/internal/constants"
	"github.com/ericogr/kids-games/internal/game"
)

func strPtr(s string) *string { return &s }

func TestManager_OnSaveWritesAllParts(t *testing.T) {
	m, repo, mm := newTestManager()
	ctx := context.Background()
	g := repo.addGame("Old", game.StatusDraft)
	mm.urls[2] = "/media/two"
	status := game.StatusPublished

	err := m.OnSave(ctx, SaveRequest{
		GameID:     g.ID,
		Actor:      editor,
		Title:      strPtr("New"),
		Status:     &status,
		EditNonce:  okNonce(constants.NonceActionEditGame),
		Embed:      strPtr("<iframe></iframe>"),
		EmbedNonce: okNonce(constants.NonceActionSaveEmbed),
		ImageSet:   true,
		ImageID:    uintPtr(2),
		ImageNonce: okNonce(constants.NonceActionSaveGameImage),
	})
	if err != nil {
		t.Fatalf("OnSave: %v", err)
	}
	if got := repo.games[g.ID]; got.Title != "New" || got.Status != game.StatusPublished {
		t.Fatalf("game not updated: %+v", got)
	}
	if v := repo.meta[metaKey{g.ID, constants.MetaEmbed}]; v != "<iframe></iframe>" {
		t.Fatalf("embed not saved: %q", v)
	}
	if v := repo.meta[metaKey{g.ID, constants.MetaGameImage}]; v != "2" {
		t.Fatalf("image not saved: %q", v)
	}
}

func TestManager_OnSaveRejectedPartWritesNothing(t *testing.T) {
	m, repo, _ := newTestManager()
	ctx := context.Background()
	g := repo.addGame("Old", game.StatusDraft)

	err := m.OnSave(ctx, SaveRequest{
		GameID:     g.ID,
		Actor:      editor,
		Title:      strPtr("New"),
		EditNonce:  okNonce(constants.NonceActionEditGame),
		Embed:      strPtr("<iframe></iframe>"),
		EmbedNonce: okNonce(constants.NonceActionSaveEmbed),
		ImageSet:   true,
		ImageID:    uintPtr(2),
		ImageNonce: "expired",
	})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if repo.writes != 0 {
		t.Fatalf("expected no writes, got %d", repo.writes)
	}
	if repo.games[g.ID].Title != "Old" {
		t.Fatalf("title was written")
	}
}

func TestManager_OnSaveUntouchedFields(t *testing.T) {
	m, repo, _ := newTestManager()
	ctx := context.Background()
	g := repo.addGame("Keep", game.StatusPublished)
	repo.meta[metaKey{g.ID, constants.MetaGameImage}] = "9"

	err := m.OnSave(ctx, SaveRequest{
		GameID:     g.ID,
		Actor:      editor,
		Embed:      strPtr("<b>x</b>"),
		EmbedNonce: okNonce(constants.NonceActionSaveEmbed),
	})
	if err != nil {
		t.Fatalf("OnSave: %v", err)
	}
	if repo.meta[metaKey{g.ID, constants.MetaGameImage}] != "9" {
		t.Fatalf("image should be untouched")
	}
	if repo.games[g.ID].Title != "Keep" {
		t.Fatalf("title should be untouched")
	}
}

func TestManager_OnSaveUnauthorized(t *testing.T) {
	m, repo, _ := newTestManager()
	g := repo.addGame("A", game.StatusDraft)
	err := m.OnSave(context.Background(), SaveRequest{
		GameID:     g.ID,
		Actor:      subscriber,
		Embed:      strPtr("x"),
		EmbedNonce: okNonce(constants.NonceActionSaveEmbed),
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if repo.writes != 0 {
		t.Fatalf("expected no writes")
	}
}

func TestManager_Cards(t *testing.T) {
	m, repo, mm := newTestManager()
	ctx := context.Background()
	a := repo.addGame("A", game.StatusPublished)
	repo.addGame("Draft", game.StatusDraft)
	b := repo.addGame("B", game.StatusPublished)
	mm.urls[1] = "/media/a"
	repo.meta[metaKey{a.ID, constants.MetaGameImage}] = "1"
	repo.meta[metaKey{b.ID, constants.MetaEmbed}] = "<iframe></iframe>"
	repo.settings[constants.OptionActiveGame] = "3"

	cards, err := m.Cards(ctx)
	if err != nil {
		t.Fatalf("Cards: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 published cards, got %d", len(cards))
	}
	if cards[0].ImageURL == "" || cards[0].Active {
		t.Fatalf("unexpected first card: %+v", cards[0])
	}
	if !cards[1].Active || cards[1].Embed != "<iframe></iframe>" || cards[1].ImageURL != "" {
		t.Fatalf("unexpected second card: %+v", cards[1])
	}
}
