package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"polylens/internal/ai"
)

// Analyzer is the slice of the AI client the analysis endpoint needs.
type Analyzer interface {
	AnalyzeHeadline(ctx context.Context, text string) (*ai.Analysis, error)
	Advise(ctx context.Context, message string, cc ai.ChatContext) (string, error)
}

type AnalyzeHandler struct {
	AI     Analyzer
	Logger *zap.Logger
}

func (h *AnalyzeHandler) Register(r *gin.Engine) {
	// The dashboard UI calls the bare path; /api is the canonical one.
	r.POST("/analyze-news", h.analyze)
	r.POST("/api/analyze-news", h.analyze)
}

type analyzeRequest struct {
	Text    string         `json:"text"`
	IsChat  bool           `json:"isChat"`
	Message string         `json:"message"`
	Context ai.ChatContext `json:"context"`
}

// analyze responds with the raw shapes the dashboard expects rather
// than the wrapped envelope used elsewhere.
func (h *AnalyzeHandler) analyze(c *gin.Context) {
	if h.AI == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI service is not configured."})
		return
	}
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text or chat message is required for analysis."})
		return
	}

	if req.IsChat {
		message := strings.TrimSpace(req.Message)
		if message == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Text or chat message is required for analysis."})
			return
		}
		reply, err := h.AI.Advise(c.Request.Context(), message, req.Context)
		if err != nil {
			h.Logger.Warn("advisory request failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze text using AI."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"reply": reply})
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text or chat message is required for analysis."})
		return
	}
	analysis, err := h.AI.AnalyzeHeadline(c.Request.Context(), text)
	if err != nil {
		h.Logger.Warn("headline analysis failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze text using AI."})
		return
	}
	c.JSON(http.StatusOK, analysis)
}
