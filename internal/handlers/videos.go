package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// bearer resolves the caller's access token for upstream endpoints that need
// it, bootstrapping a cold manager the same way Me does.
func (h HandlerSet) bearer(c *gin.Context) (string, bool) {
	m, _ := h.manager(c)

	if !m.IsAuthenticated() {
		if err := m.Bootstrap(c.Request.Context()); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "not authenticated"}})
			return "", false
		}
	}
	return m.AccessToken(), true
}

func (h HandlerSet) VideoFeed(c *gin.Context) {
	query := c.Request.URL.Query()
	h.section(c, "video-feed", h.cfg.Cache.DefaultTTL, func(ctx context.Context) ([]byte, error) {
		return h.content.VideoFeed(ctx, query)
	})
}

func (h HandlerSet) VideoSearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "q is required"}})
		return
	}

	payload, err := h.content.VideoSearch(c.Request.Context(), query, intQuery(c, "limit"))
	if err != nil {
		h.upstreamError(c, "video-search", err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

func (h HandlerSet) VideoByID(c *gin.Context) {
	id := c.Param("id")
	h.section(c, "video:"+id, h.cfg.Cache.DefaultTTL, func(ctx context.Context) ([]byte, error) {
		return h.content.Video(ctx, id)
	})
}

func (h HandlerSet) VideoBookmarks(c *gin.Context) {
	token, ok := h.bearer(c)
	if !ok {
		return
	}

	payload, err := h.content.VideoBookmarks(c.Request.Context(), token)
	if err != nil {
		h.upstreamError(c, "video-bookmarks", err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

func (h HandlerSet) VideoAddBookmark(c *gin.Context) {
	var req struct {
		VideoID string `json:"video_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": err.Error()}})
		return
	}

	token, ok := h.bearer(c)
	if !ok {
		return
	}

	payload, err := h.content.AddVideoBookmark(c.Request.Context(), token, req.VideoID)
	if err != nil {
		h.upstreamError(c, "video-bookmarks", err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

func (h HandlerSet) VideoRemoveBookmark(c *gin.Context) {
	token, ok := h.bearer(c)
	if !ok {
		return
	}

	payload, err := h.content.RemoveVideoBookmark(c.Request.Context(), token, c.Param("id"))
	if err != nil {
		h.upstreamError(c, "video-bookmarks", err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

func (h HandlerSet) VideoHistory(c *gin.Context) {
	token, ok := h.bearer(c)
	if !ok {
		return
	}

	payload, err := h.content.VideoHistory(c.Request.Context(), token)
	if err != nil {
		h.upstreamError(c, "video-history", err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

func (h HandlerSet) VideoRecordHistory(c *gin.Context) {
	var req struct {
		VideoID  string  `json:"video_id" binding:"required"`
		Progress float64 `json:"progress"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": err.Error()}})
		return
	}

	token, ok := h.bearer(c)
	if !ok {
		return
	}

	payload, err := h.content.RecordVideoHistory(c.Request.Context(), token, req.VideoID, req.Progress)
	if err != nil {
		h.upstreamError(c, "video-history", err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}
