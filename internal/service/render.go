package service

import (
	"context"
	"errors"
	"regexp"

	"github.com/ericogr/kids-games/internal/constants"
	"github.com/ericogr/kids-games/internal/logging"
	"github.com/ericogr/kids-games/internal/metrics"
	"github.com/ericogr/kids-games/internal/storage"
)

const (
	wrapOpen  = `<div class="` + constants.ActiveGameClassName + `">`
	wrapClose = `</div>`
)

// Renderer produces the public fragment for the active game.
type Renderer struct {
	selector *Selector
	repo     storage.Repository
	embed    *EmbedField
}

func NewRenderer(selector *Selector, repo storage.Repository, embed *EmbedField) *Renderer {
	return &Renderer{selector: selector, repo: repo, embed: embed}
}

// Render returns the wrapped embed of the active game. Any missing piece or
// store failure yields ("", false); visitors never see an error.
func (r *Renderer) Render(ctx context.Context) (string, bool) {
	out, err := r.render(ctx)
	switch {
	case err != nil:
		metrics.Render(metrics.ResultError)
		logging.Warn("active game render degraded to empty", err, nil)
		return "", false
	case out == "":
		metrics.Render(metrics.ResultEmpty)
		return "", false
	default:
		metrics.Render(metrics.ResultRendered)
		return out, true
	}
}

func (r *Renderer) render(ctx context.Context) (string, error) {
	id, ok, err := r.selector.GetActive(ctx)
	if err != nil || !ok {
		return "", err
	}
	g, err := r.repo.GetGameByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	if !g.Published() {
		return "", nil
	}
	embed, err := r.embed.Load(ctx, id)
	if err != nil || embed == "" {
		return "", err
	}
	return Wrap(embed), nil
}

// Wrap places embed inside the public container without altering it.
func Wrap(embed string) string {
	return wrapOpen + embed + wrapClose
}

var placementTag = regexp.MustCompile(`\[` + constants.PlacementTag + `\s*/?\]`)

// ExpandPlacementTags replaces every placement tag in content with the
// render output (or nothing). Render runs at most once per call.
func (r *Renderer) ExpandPlacementTags(ctx context.Context, content string) string {
	if !placementTag.MatchString(content) {
		return content
	}
	out, _ := r.Render(ctx)
	return placementTag.ReplaceAllLiteralString(content, out)
}
