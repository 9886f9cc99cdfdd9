package service

import (
	"context"
	"testing"

	"github.com/ericogr/kids-games/internal/constants"
	"github.com/ericogr/kids-games/internal/game"
)

func TestRender_WrapsActiveEmbedVerbatim(t *testing.T) {
	m, repo, _ := newTestManager()
	ctx := context.Background()
	g := repo.addGame("Memory", game.StatusPublished)
	repo.meta[metaKey{g.ID, constants.MetaEmbed}] = "<iframe src=x></iframe>"
	repo.settings[constants.OptionActiveGame] = "1"

	got, ok := m.Renderer.Render(ctx)
	want := `<div class="kids-active-game"><iframe src=x></iframe></div>`
	if !ok || got != want {
		t.Fatalf("got %q (ok=%v), want %q", got, ok, want)
	}
	if m.OnRenderRequest(ctx) != want {
		t.Fatalf("OnRenderRequest should match Render")
	}
}

func TestRender_EmptyCases(t *testing.T) {
	cases := []struct {
		name  string
		setup func(r *mockRepo)
	}{
		{"nothing selected", func(r *mockRepo) {
			g := r.addGame("A", game.StatusPublished)
			r.meta[metaKey{g.ID, constants.MetaEmbed}] = "<iframe></iframe>"
		}},
		{"selection cleared", func(r *mockRepo) {
			g := r.addGame("A", game.StatusPublished)
			r.meta[metaKey{g.ID, constants.MetaEmbed}] = "<iframe></iframe>"
			r.settings[constants.OptionActiveGame] = ""
		}},
		{"game missing", func(r *mockRepo) {
			r.settings[constants.OptionActiveGame] = "42"
		}},
		{"embed empty", func(r *mockRepo) {
			g := r.addGame("A", game.StatusPublished)
			r.meta[metaKey{g.ID, constants.MetaEmbed}] = ""
			r.settings[constants.OptionActiveGame] = "1"
		}},
		{"embed never set", func(r *mockRepo) {
			r.addGame("A", game.StatusPublished)
			r.settings[constants.OptionActiveGame] = "1"
		}},
		{"game unpublished", func(r *mockRepo) {
			g := r.addGame("A", game.StatusDraft)
			r.meta[metaKey{g.ID, constants.MetaEmbed}] = "<iframe></iframe>"
			r.settings[constants.OptionActiveGame] = "1"
		}},
		{"garbage pointer", func(r *mockRepo) {
			r.settings[constants.OptionActiveGame] = "abc"
		}},
		{"store down", func(r *mockRepo) {
			g := r.addGame("A", game.StatusPublished)
			r.meta[metaKey{g.ID, constants.MetaEmbed}] = "<iframe></iframe>"
			r.settings[constants.OptionActiveGame] = "1"
			r.fail = true
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, repo, _ := newTestManager()
			tc.setup(repo)
			got, ok := m.Renderer.Render(context.Background())
			if ok || got != "" {
				t.Fatalf("expected empty output, got %q (ok=%v)", got, ok)
			}
		})
	}
}

func TestRender_DeleteAfterSelect(t *testing.T) {
	m, repo, _ := newTestManager()
	ctx := context.Background()
	g := repo.addGame("A", game.StatusPublished)
	repo.meta[metaKey{g.ID, constants.MetaEmbed}] = "<iframe></iframe>"
	if err := m.Selector.SetActive(ctx, g.ID, admin); err != nil {
		t.Fatal(err)
	}
	if out, _ := m.Renderer.Render(ctx); out == "" {
		t.Fatalf("expected output before delete")
	}
	if err := m.Games.Delete(ctx, admin, okNonce(constants.NonceActionEditGame), g.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if out, ok := m.Renderer.Render(ctx); ok || out != "" {
		t.Fatalf("expected empty output after delete, got %q", out)
	}
	// the pointer itself is left as it was
	if id, _, _ := m.Selector.GetActive(ctx); id != g.ID {
		t.Fatalf("expected dangling pointer %d, got %d", g.ID, id)
	}
}

func TestExpandPlacementTags(t *testing.T) {
	m, repo, _ := newTestManager()
	ctx := context.Background()
	g := repo.addGame("A", game.StatusPublished)
	repo.meta[metaKey{g.ID, constants.MetaEmbed}] = "<b>play</b>"
	repo.settings[constants.OptionActiveGame] = "1"

	in := "intro [kids_game_display] middle [kids_game_display /] end"
	want := `intro <div class="kids-active-game"><b>play</b></div> middle <div class="kids-active-game"><b>play</b></div> end`
	if got := m.Renderer.ExpandPlacementTags(ctx, in); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	plain := "no tags here [other_tag]"
	if got := m.Renderer.ExpandPlacementTags(ctx, plain); got != plain {
		t.Fatalf("content without tags changed: %q", got)
	}

	repo.settings[constants.OptionActiveGame] = ""
	if got := m.Renderer.ExpandPlacementTags(ctx, "a[kids_game_display]b"); got != "ab" {
		t.Fatalf("expected tag to expand to nothing, got %q", got)
	}
}

func TestExpandPlacementTags_EmbedWithDollarSigns(t *testing.T) {
	m, repo, _ := newTestManager()
	g := repo.addGame("A", game.StatusPublished)
	repo.meta[metaKey{g.ID, constants.MetaEmbed}] = "<p>$1 ${x}</p>"
	repo.settings[constants.OptionActiveGame] = "1"

	got := m.Renderer.ExpandPlacementTags(context.Background(), "[kids_game_display]")
	if got != `<div class="kids-active-game"><p>$1 ${x}</p></div>` {
		t.Fatalf("embed must be inserted literally, got %q", got)
	}
}

func TestWrap(t *testing.T) {
	if got := Wrap(""); got != `<div class="kids-active-game"></div>` {
		t.Fatalf("unexpected wrap: %q", got)
	}
}
