package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"polylens/internal/ai"
)

// ChatStreamer is the slice of the AI client the chat relay needs.
type ChatStreamer interface {
	StreamMarketChat(ctx context.Context, message string, history []ai.Turn, mc ai.MarketContext, emit func(string) error) error
}

type ChatHandler struct {
	AI     ChatStreamer
	Logger *zap.Logger
}

func (h *ChatHandler) Register(r *gin.Engine) {
	r.POST("/market-chat", h.chat)
	r.POST("/api/market-chat", h.chat)
}

type chatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type chatRequest struct {
	Message       string           `json:"message"`
	History       []chatTurn       `json:"history"`
	MarketContext ai.MarketContext `json:"marketContext"`
}

// interruptMarker is written into the body when the upstream stream
// dies after chunks have already been sent; the 200 status line has
// left the building by then.
const interruptMarker = "\n[analysis interrupted]"

func (h *ChatHandler) chat(c *gin.Context) {
	if h.AI == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI service is not configured."})
		return
	}
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required."})
		return
	}

	history := make([]ai.Turn, 0, len(req.History))
	for _, turn := range req.History {
		role := ai.RoleAssistant
		if turn.Role == ai.RoleUser {
			role = ai.RoleUser
		}
		history = append(history, ai.Turn{Role: role, Text: turn.Text})
	}

	// Headers go out with the first chunk so a setup failure can still
	// surface as a JSON error.
	started := false
	writeHeaders := func() {
		c.Header("Content-Type", "text/plain; charset=utf-8")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Cache-Control", "no-cache")
		c.Status(http.StatusOK)
	}

	emit := func(chunk string) error {
		if !started {
			writeHeaders()
			started = true
		}
		if _, err := c.Writer.WriteString(chunk); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	}

	ctx := c.Request.Context()
	err := h.AI.StreamMarketChat(ctx, strings.TrimSpace(req.Message), history, req.MarketContext, emit)
	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return
		}
		if !started {
			h.Logger.Warn("chat stream failed before first chunk", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate AI response."})
			return
		}
		h.Logger.Warn("chat stream interrupted", zap.Error(err))
		c.Writer.WriteString(interruptMarker)
		c.Writer.Flush()
		return
	}
	if !started {
		// Empty but successful response still gets the stream headers.
		writeHeaders()
	}
}
