package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"polylens/internal/market"
)

type MarketHandler struct {
	Service      *market.Service
	Logger       *zap.Logger
	DefaultLimit int
	MaxLimit     int
}

func (h *MarketHandler) Register(r *gin.Engine) {
	group := r.Group("/api/markets")
	group.GET("", h.listMarkets)
	group.GET("/:conditionId", h.getMarket)
	group.GET("/:conditionId/history", h.getHistory)
}

func (h *MarketHandler) limit(c *gin.Context) int {
	limit := h.DefaultLimit
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if h.MaxLimit > 0 && limit > h.MaxLimit {
		limit = h.MaxLimit
	}
	return limit
}

func (h *MarketHandler) listMarkets(c *gin.Context) {
	items := h.Service.ActiveMarkets(c.Request.Context(), h.limit(c))
	Ok(c, items, map[string]any{"count": len(items)})
}

func (h *MarketHandler) getMarket(c *gin.Context) {
	conditionID := strings.TrimSpace(c.Param("conditionId"))
	detail, err := h.Service.MarketByConditionID(c.Request.Context(), conditionID)
	if err != nil {
		h.Logger.Warn("market lookup failed", zap.String("condition_id", conditionID), zap.Error(err))
		Error(c, http.StatusBadGateway, "upstream market lookup failed", nil)
		return
	}
	if detail == nil {
		Error(c, http.StatusNotFound, "market not found", nil)
		return
	}
	Ok(c, detail, nil)
}

func (h *MarketHandler) getHistory(c *gin.Context) {
	conditionID := strings.TrimSpace(c.Param("conditionId"))
	points, err := h.Service.PriceHistory(c.Request.Context(), conditionID)
	if err != nil {
		h.Logger.Warn("price history failed", zap.String("condition_id", conditionID), zap.Error(err))
		Error(c, http.StatusBadGateway, "upstream price history failed", nil)
		return
	}
	if points == nil {
		points = []market.PricePoint{}
	}
	Ok(c, points, map[string]any{"count": len(points)})
}
