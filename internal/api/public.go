package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ericogr/kids-games/internal/constants"
	"github.com/ericogr/kids-games/internal/logging"
	"github.com/ericogr/kids-games/internal/media"
	"github.com/gin-gonic/gin"
)

const mediaKeyPrefix = "media/"

// EmbedActive returns the active game fragment as HTML, or 204 when there
// is nothing to show.
func (h *Handler) EmbedActive(c *gin.Context) {
	out := h.mgr.OnRenderRequest(c.Request.Context())
	c.Header(constants.CacheControlHeader, constants.CacheControlNoCache)
	if out == "" {
		c.Status(http.StatusNoContent)
		return
	}
	c.Data(http.StatusOK, constants.ContentTypeHTML, []byte(out))
}

type renderRequest struct {
	Content string `json:"content"`
}

// RenderContent expands placement tags in the posted page content.
func (h *Handler) RenderContent(c *gin.Context) {
	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	c.JSON(http.StatusOK, gin.H{"html": h.mgr.Renderer.ExpandPlacementTags(c.Request.Context(), req.Content)})
}

// GetActiveGame reports the selected game id, or null.
func (h *Handler) GetActiveGame(c *gin.Context) {
	id, ok, err := h.mgr.Selector.GetActive(c.Request.Context())
	if err != nil {
		writeError(c, err, constants.ErrServiceUnavailable)
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"game_id": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"game_id": id})
}

// ServeMedia streams a stored media object. Only keys under media/ are
// reachable.
func (h *Handler) ServeMedia(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if !strings.HasPrefix(key, mediaKeyPrefix) || strings.Contains(key, "..") {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrMediaNotFound})
		return
	}
	data, contentType, err := h.media.Open(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, media.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrMediaNotFound})
			return
		}
		logging.Error("failed to read media", err, logging.Fields{constants.LogFieldKey: key})
		c.JSON(http.StatusServiceUnavailable, gin.H{constants.JSONKeyError: constants.ErrServiceUnavailable})
		return
	}
	c.Header(constants.CacheControlHeader, constants.CacheControlPublic)
	c.Data(http.StatusOK, contentType, data)
}

// Health pings the database when one is configured.
func (h *Handler) Health(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			logging.Warn("health check failed", err, nil)
			c.JSON(http.StatusServiceUnavailable, gin.H{constants.JSONKeyStatus: "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: "ok"})
}
