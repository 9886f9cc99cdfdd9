package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ericogr/kids-games/internal/auth"
	"github.com/ericogr/kids-games/internal/constants"
	"github.com/ericogr/kids-games/internal/game"
	"github.com/ericogr/kids-games/internal/logging"
	"github.com/ericogr/kids-games/internal/service"
	"github.com/gin-gonic/gin"
)

// page builds the data shared by every admin template.
func (h *Handler) page(c *gin.Context, title string, extra gin.H) gin.H {
	p := principal(c)
	data := gin.H{
		"Title":         title,
		"User":          p,
		"CanManage":     auth.HasCapability(p, auth.CapManageOptions, 0),
		"PlacementTag":  "[" + constants.PlacementTag + "]",
		"AdminPrefix":   constants.RouteAdminPrefix,
		"AdminAPI":      constants.RouteAdminAPIPrefix,
		"Notice":        c.Query("notice"),
		"NonceHeader":   constants.HeaderNonce,
		"FieldNames":    formFields,
		"StaticPrefix":  constants.RouteStatic,
		"LogoutRoute":   constants.RouteAuthLogout,
		"UploadsAction": constants.NonceActionUploadMedia,
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

var formFields = map[string]string{
	"Embed":          constants.FormEmbed,
	"EmbedNonce":     constants.FormEmbedNonce,
	"GameImage":      constants.FormGameImage,
	"GameImageNonce": constants.FormGameImageNonce,
	"ActiveGame":     constants.FormActiveGame,
	"SettingsNonce":  constants.FormSettingsNonce,
	"EditNonce":      constants.FormEditNonce,
	"Title":          constants.FormTitle,
	"Status":         constants.FormStatus,
}

// nonces mints one token per action for the current actor.
func (h *Handler) nonces(c *gin.Context, actions ...string) (map[string]string, error) {
	out := make(map[string]string, len(actions))
	for _, a := range actions {
		n, err := h.signer.CreateNonce(principal(c), a)
		if err != nil {
			return nil, err
		}
		out[a] = n
	}
	return out, nil
}

func (h *Handler) pageError(c *gin.Context, err error) {
	status, msg := statusFor(err, constants.ErrServiceUnavailable)
	if errors.Is(err, service.ErrInvalidRequest) && strings.Contains(err.Error(), "nonce") {
		msg = constants.ErrInvalidNonce
	}
	if status >= http.StatusInternalServerError {
		logging.Error("admin page failed", err, logging.Fields{constants.LogFieldPath: c.FullPath()})
	}
	c.HTML(status, "message.tmpl", h.page(c, "Error", gin.H{"Message": msg}))
}

func (h *Handler) redirect(c *gin.Context, path, notice string) {
	target := constants.RouteAdminPrefix + path
	if notice != "" {
		target += "?notice=" + notice
	}
	c.Redirect(http.StatusSeeOther, target)
}

// AdminGamesPage lists every game with edit and delete controls.
func (h *Handler) AdminGamesPage(c *gin.Context) {
	games, err := h.mgr.Games.List(c.Request.Context(), "")
	if err != nil {
		h.pageError(c, err)
		return
	}
	n, err := h.nonces(c, constants.NonceActionEditGame)
	if err != nil {
		h.pageError(c, err)
		return
	}
	c.HTML(http.StatusOK, "games.tmpl", h.page(c, "Kids Games", gin.H{
		"Games":     games,
		"EditNonce": n[constants.NonceActionEditGame],
	}))
}

type editForm struct {
	Game       game.Game
	IsNew      bool
	Embed      string
	ImageID    uint
	ImageURL   string
	Nonces     map[string]string
	Statuses   []game.Status
	FormAction string
}

func (h *Handler) renderEdit(c *gin.Context, g *game.Game) {
	n, err := h.nonces(c, constants.NonceActionEditGame, constants.NonceActionSaveEmbed,
		constants.NonceActionSaveGameImage, constants.NonceActionUploadMedia)
	if err != nil {
		h.pageError(c, err)
		return
	}
	f := editForm{
		Game:       game.Game{Status: game.StatusDraft},
		IsNew:      g == nil,
		Nonces:     n,
		Statuses:   []game.Status{game.StatusDraft, game.StatusPublished},
		FormAction: constants.RouteAdminPrefix + constants.RouteAdminGames,
	}
	if g != nil {
		ctx := c.Request.Context()
		f.Game = *g
		f.FormAction = constants.RouteAdminPrefix + constants.RouteAdminGames + "/" + strconv.FormatUint(uint64(g.ID), 10)
		if f.Embed, err = h.mgr.Embed.Load(ctx, g.ID); err != nil {
			h.pageError(c, err)
			return
		}
		if id, ok, err := h.mgr.Images.MediaID(ctx, g.ID); err == nil && ok {
			f.ImageID = id
			f.ImageURL, _ = h.mgr.Images.Resolve(ctx, g.ID)
		}
	}
	title := "Edit Game"
	if f.IsNew {
		title = "Add New Game"
	}
	c.HTML(http.StatusOK, "edit.tmpl", h.page(c, title, gin.H{"Form": f}))
}

func (h *Handler) AdminNewGamePage(c *gin.Context) {
	h.renderEdit(c, nil)
}

func (h *Handler) AdminEditGamePage(c *gin.Context) {
	id, ok := parseID(c.Param("gameID"))
	if !ok {
		h.pageError(c, service.ErrNotFound)
		return
	}
	g, err := h.mgr.Games.Get(c.Request.Context(), id)
	if err != nil {
		h.pageError(c, err)
		return
	}
	h.renderEdit(c, g)
}

// saveRequestFromForm collects the parts of the edit form that were
// submitted. Absent fields stay nil so they are not written.
func saveRequestFromForm(c *gin.Context, id uint) service.SaveRequest {
	req := service.SaveRequest{GameID: id, Actor: principal(c)}
	if v, ok := c.GetPostForm(constants.FormTitle); ok {
		req.Title = &v
	}
	if v, ok := c.GetPostForm(constants.FormStatus); ok {
		s := game.Status(v)
		req.Status = &s
	}
	req.EditNonce = c.PostForm(constants.FormEditNonce)
	if v, ok := c.GetPostForm(constants.FormEmbed); ok {
		req.Embed = &v
		req.EmbedNonce = c.PostForm(constants.FormEmbedNonce)
	}
	if v, ok := c.GetPostForm(constants.FormGameImage); ok {
		req.ImageSet = true
		req.ImageNonce = c.PostForm(constants.FormGameImageNonce)
		if n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64); err == nil && n > 0 {
			mid := uint(n)
			req.ImageID = &mid
		}
	}
	return req
}

// AdminCreateGame handles the "Add New Game" form: the entry is created
// first and the embed and image parts are then saved against it.
func (h *Handler) AdminCreateGame(c *gin.Context) {
	status := game.Status(c.PostForm(constants.FormStatus))
	g, err := h.mgr.Games.Create(c.Request.Context(), principal(c), c.PostForm(constants.FormEditNonce), c.PostForm(constants.FormTitle), status)
	if err != nil {
		h.pageError(c, err)
		return
	}
	req := saveRequestFromForm(c, g.ID)
	req.Title, req.Status = nil, nil
	if err := h.mgr.OnSave(c.Request.Context(), req); err != nil {
		h.pageError(c, err)
		return
	}
	h.redirect(c, constants.RouteAdminGames+"/"+strconv.FormatUint(uint64(g.ID), 10)+"/edit", "created")
}

// AdminSaveGame handles the edit form of an existing game.
func (h *Handler) AdminSaveGame(c *gin.Context) {
	id, ok := parseID(c.Param("gameID"))
	if !ok {
		h.pageError(c, service.ErrNotFound)
		return
	}
	if err := h.mgr.OnSave(c.Request.Context(), saveRequestFromForm(c, id)); err != nil {
		h.pageError(c, err)
		return
	}
	h.redirect(c, constants.RouteAdminGames+"/"+strconv.FormatUint(uint64(id), 10)+"/edit", "updated")
}

func (h *Handler) AdminDeleteGame(c *gin.Context) {
	id, ok := parseID(c.Param("gameID"))
	if !ok {
		h.pageError(c, service.ErrNotFound)
		return
	}
	if err := h.mgr.Games.Delete(c.Request.Context(), principal(c), c.PostForm(constants.FormEditNonce), id); err != nil {
		h.pageError(c, err)
		return
	}
	h.redirect(c, constants.RouteAdminGames, "deleted")
}

// AdminSettingsPage shows the selection grid of published games.
func (h *Handler) AdminSettingsPage(c *gin.Context) {
	if !auth.HasCapability(principal(c), auth.CapManageOptions, 0) {
		h.pageError(c, service.ErrUnauthorized)
		return
	}
	cards, err := h.mgr.Cards(c.Request.Context())
	if err != nil {
		h.pageError(c, err)
		return
	}
	n, err := h.nonces(c, constants.NonceActionSettings)
	if err != nil {
		h.pageError(c, err)
		return
	}
	c.HTML(http.StatusOK, "settings.tmpl", h.page(c, "Kids Games Settings", gin.H{
		"Cards":         cards,
		"SettingsNonce": n[constants.NonceActionSettings],
	}))
}

// AdminSaveSettings stores the selected radio; no selection clears it.
func (h *Handler) AdminSaveSettings(c *gin.Context) {
	var id uint
	if v := strings.TrimSpace(c.PostForm(constants.FormActiveGame)); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			h.pageError(c, service.ErrInvalidRequest)
			return
		}
		id = uint(n)
	}
	if err := h.mgr.Selector.SaveSettings(c.Request.Context(), id, principal(c), c.PostForm(constants.FormSettingsNonce)); err != nil {
		h.pageError(c, err)
		return
	}
	h.redirect(c, constants.RouteAdminSettings, "settings-updated")
}

func (h *Handler) AdminInstructionsPage(c *gin.Context) {
	c.HTML(http.StatusOK, "instructions.tmpl", h.page(c, "Kids Games Instructions", nil))
}
