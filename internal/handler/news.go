package handler

import (
	"github.com/gin-gonic/gin"

	"polylens/internal/news"
)

type NewsHandler struct {
	Feed *news.Feed
}

func (h *NewsHandler) Register(r *gin.Engine) {
	r.GET("/api/news", h.listNews)
}

func (h *NewsHandler) listNews(c *gin.Context) {
	items := h.Feed.Items()
	Ok(c, items, map[string]any{"count": len(items)})
}
