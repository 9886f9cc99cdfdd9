package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ericogr/kids-games/internal/constants"
	"github.com/ericogr/kids-games/internal/game"
)

func TestGames_CreateUpdateDelete(t *testing.T) {
	m, repo, _ := newTestManager()
	ctx := context.Background()
	nonce := okNonce(constants.NonceActionEditGame)

	g, err := m.Games.Create(ctx, editor, nonce, "  Memory Match  ", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.Title != "Memory Match" || g.Status != game.StatusDraft {
		t.Fatalf("unexpected game: %+v", g)
	}

	g, err = m.Games.Update(ctx, editor, nonce, g.ID, "Memory", game.StatusPublished)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if stored := repo.games[g.ID]; stored.Title != "Memory" || !stored.Published() {
		t.Fatalf("update not stored: %+v", stored)
	}

	published, err := m.Games.List(ctx, game.StatusPublished)
	if err != nil || len(published) != 1 {
		t.Fatalf("List: got %d err=%v", len(published), err)
	}

	if err := m.Games.Delete(ctx, editor, nonce, g.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := m.Games.Get(ctx, g.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := m.Games.Delete(ctx, editor, nonce, g.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestGames_Validation(t *testing.T) {
	m, _, _ := newTestManager()
	ctx := context.Background()
	nonce := okNonce(constants.NonceActionEditGame)

	if _, err := m.Games.Create(ctx, editor, nonce, strings.Repeat("x", 201), ""); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected long title to be rejected, got %v", err)
	}
	if _, err := m.Games.Create(ctx, editor, nonce, strings.Repeat("é", 200), ""); err != nil {
		t.Fatalf("200 runes should be accepted: %v", err)
	}
	if _, err := m.Games.Create(ctx, editor, nonce, "A", "archived"); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected unknown status to be rejected, got %v", err)
	}
}

func TestGames_RequiresCapabilityAndNonce(t *testing.T) {
	m, repo, _ := newTestManager()
	ctx := context.Background()

	if _, err := m.Games.Create(ctx, subscriber, okNonce(constants.NonceActionEditGame), "A", ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := m.Games.Create(ctx, editor, "", "A", ""); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if repo.writes != 0 {
		t.Fatalf("expected no writes, got %d", repo.writes)
	}
}
