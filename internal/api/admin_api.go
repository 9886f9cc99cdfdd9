package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/ericogr/kids-games/internal/constants"
	"github.com/ericogr/kids-games/internal/game"
	"github.com/ericogr/kids-games/internal/media"
	"github.com/ericogr/kids-games/internal/service"
	"github.com/gin-gonic/gin"
)

// nonceActions are the actions a client may request a token for.
var nonceActions = map[string]bool{
	constants.NonceActionSaveEmbed:     true,
	constants.NonceActionSaveGameImage: true,
	constants.NonceActionSettings:      true,
	constants.NonceActionEditGame:      true,
	constants.NonceActionUploadMedia:   true,
}

func nonceFrom(c *gin.Context) string {
	return c.GetHeader(constants.HeaderNonce)
}

func gameIDParam(c *gin.Context) (uint, bool) {
	id, ok := parseID(c.Param("gameID"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidGameID})
	}
	return id, ok
}

// IssueNonce returns an anti-forgery token bound to the caller and action.
func (h *Handler) IssueNonce(c *gin.Context) {
	action := c.Query("action")
	if !nonceActions[action] {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrNonceActionRequired})
		return
	}
	token, err := h.signer.CreateNonce(principal(c), action)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest, constants.JSONKeyDetails: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"action": action, "nonce": token})
}

type gameRequest struct {
	Title  string      `json:"title"`
	Status game.Status `json:"status"`
}

// gameView renders a game with its embed and image fields.
func (h *Handler) gameView(c *gin.Context, g *game.Game) (interface{}, error) {
	v, err := MarshalSnakeModel(g)
	if err != nil {
		return nil, err
	}
	out, _ := v.(map[string]interface{})
	embed, err := h.mgr.Embed.Load(c.Request.Context(), g.ID)
	if err != nil {
		return nil, err
	}
	out["embed"] = embed
	out["image_id"] = nil
	out["image_url"] = nil
	if id, ok, err := h.mgr.Images.MediaID(c.Request.Context(), g.ID); err == nil && ok {
		out["image_id"] = id
		if url, ok := h.mgr.Images.Resolve(c.Request.Context(), g.ID); ok {
			out["image_url"] = url
		}
	}
	return out, nil
}

// ListGames returns every game, optionally filtered by ?status=.
func (h *Handler) ListGames(c *gin.Context) {
	status := game.Status(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidStatus})
		return
	}
	games, err := h.mgr.Games.List(c.Request.Context(), status)
	if err != nil {
		writeError(c, err, constants.ErrFailedFetchGames)
		return
	}
	out, err := MarshalSnakeModel(games)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchGames})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetGame(c *gin.Context) {
	id, ok := gameIDParam(c)
	if !ok {
		return
	}
	g, err := h.mgr.Games.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, constants.ErrFailedFetchGames)
		return
	}
	out, err := h.gameView(c, g)
	if err != nil {
		writeError(c, err, constants.ErrFailedFetchGames)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) CreateGame(c *gin.Context) {
	var req gameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	g, err := h.mgr.Games.Create(c.Request.Context(), principal(c), nonceFrom(c), req.Title, req.Status)
	if err != nil {
		writeError(c, err, constants.ErrFailedCreateGame)
		return
	}
	out, err := h.gameView(c, g)
	if err != nil {
		writeError(c, err, constants.ErrFailedCreateGame)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *Handler) UpdateGame(c *gin.Context) {
	id, ok := gameIDParam(c)
	if !ok {
		return
	}
	var req gameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	g, err := h.mgr.Games.Update(c.Request.Context(), principal(c), nonceFrom(c), id, req.Title, req.Status)
	if err != nil {
		writeError(c, err, constants.ErrFailedUpdateGame)
		return
	}
	out, err := h.gameView(c, g)
	if err != nil {
		writeError(c, err, constants.ErrFailedUpdateGame)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) DeleteGame(c *gin.Context) {
	id, ok := gameIDParam(c)
	if !ok {
		return
	}
	if err := h.mgr.Games.Delete(c.Request.Context(), principal(c), nonceFrom(c), id); err != nil {
		writeError(c, err, constants.ErrFailedDeleteGame)
		return
	}
	c.Status(http.StatusNoContent)
}

type embedRequest struct {
	Embed *string `json:"embed"`
}

// SaveEmbed stores the raw embed markup; an empty string clears it.
func (h *Handler) SaveEmbed(c *gin.Context) {
	id, ok := gameIDParam(c)
	if !ok {
		return
	}
	var req embedRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Embed == nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if err := h.mgr.Embed.Save(c.Request.Context(), id, *req.Embed, principal(c), nonceFrom(c)); err != nil {
		writeError(c, err, constants.ErrFailedSaveEmbed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"game_id": id, "embed": *req.Embed})
}

type imageRequest struct {
	MediaID *uint `json:"media_id"`
}

// SaveImage sets or clears (null or 0) the game's image reference.
func (h *Handler) SaveImage(c *gin.Context) {
	id, ok := gameIDParam(c)
	if !ok {
		return
	}
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if err := h.mgr.Images.Save(c.Request.Context(), id, req.MediaID, principal(c), nonceFrom(c)); err != nil {
		writeError(c, err, constants.ErrFailedSaveImage)
		return
	}
	body := gin.H{"game_id": id, "image_id": nil, "image_url": nil}
	if url, ok := h.mgr.Images.Resolve(c.Request.Context(), id); ok {
		body["image_id"] = *req.MediaID
		body["image_url"] = url
	}
	c.JSON(http.StatusOK, body)
}

type activeGameRequest struct {
	GameID *uint `json:"game_id"`
}

// SetActiveGame saves the selection; null or 0 clears it.
func (h *Handler) SetActiveGame(c *gin.Context) {
	var req activeGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	var id uint
	if req.GameID != nil {
		id = *req.GameID
	}
	if err := h.mgr.Selector.SaveSettings(c.Request.Context(), id, principal(c), nonceFrom(c)); err != nil {
		writeError(c, err, constants.ErrFailedSaveSettings)
		return
	}
	h.GetActiveGame(c)
}

// UploadMedia accepts a multipart "file" field holding a PNG, JPEG or GIF.
func (h *Handler) UploadMedia(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadBytes+(1<<20))
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrMissingUpload})
		return
	}
	if fh.Size > h.opts.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{constants.JSONKeyError: media.ErrTooLarge.Error()})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrMissingUpload})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrMissingUpload})
		return
	}

	nonce := nonceFrom(c)
	if nonce == "" {
		nonce = c.PostForm("nonce")
	}
	asset, url, err := h.mgr.Uploads.Upload(c.Request.Context(), principal(c), nonce, fh.Filename, data)
	if err != nil {
		writeError(c, err, constants.ErrFailedUploadMedia)
		return
	}
	out, err := MarshalSnakeModel(asset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedUploadMedia})
		return
	}
	body, _ := out.(map[string]interface{})
	body["url"] = url
	c.JSON(http.StatusCreated, body)
}

// GetMedia resolves the URL of an upload at ?size= (default medium).
func (h *Handler) GetMedia(c *gin.Context) {
	id, ok := parseID(c.Param("mediaID"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidMediaID})
		return
	}
	size := media.SizeMedium
	if s := c.Query("size"); s != "" {
		parsed, err := media.ParseSize(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest, constants.JSONKeyDetails: err.Error()})
			return
		}
		size = parsed
	}
	url, err := h.mgr.Uploads.Resolve(c.Request.Context(), id, size)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrMediaNotFound})
			return
		}
		writeError(c, err, constants.ErrServiceUnavailable)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "size": size, "url": url})
}

func (h *Handler) DeleteMedia(c *gin.Context) {
	id, ok := parseID(c.Param("mediaID"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidMediaID})
		return
	}
	if err := h.mgr.Uploads.Delete(c.Request.Context(), principal(c), nonceFrom(c), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrMediaNotFound})
			return
		}
		writeError(c, err, constants.ErrFailedUploadMedia)
		return
	}
	c.Status(http.StatusNoContent)
}
