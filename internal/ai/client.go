package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Config selects and parameterizes the model provider.
type Config struct {
	Provider  string
	APIKey    string
	BaseURL   string
	Model     string // analysis and advisory calls
	ChatModel string // streaming market chat
	MaxTokens int
}

// Client wraps a Provider with the prompt construction and response
// parsing the dashboard endpoints need.
type Client struct {
	provider Provider
	cfg      Config
	logger   *zap.Logger
}

func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	var provider Provider
	switch cfg.Provider {
	case "", "openai":
		provider = NewOpenAIProvider(cfg.APIKey, cfg.BaseURL)
	case "anthropic":
		provider = NewAnthropicProvider(cfg.APIKey)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	return &Client{provider: provider, cfg: cfg, logger: logger}, nil
}

// Models often wrap JSON answers in a markdown fence even when told not to.
var fenceRe = regexp.MustCompile("```json\n?|\n?```")

func stripFences(s string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(s, ""))
}

func parseAnalysis(raw string) (*Analysis, error) {
	cleaned := stripFences(raw)
	var a Analysis
	if err := json.Unmarshal([]byte(cleaned), &a); err != nil {
		return nil, fmt.Errorf("parse analysis response: %w", err)
	}
	switch a.Sentiment {
	case "Positive", "Negative", "Neutral":
	default:
		return nil, fmt.Errorf("unexpected sentiment %q", a.Sentiment)
	}
	if a.ImpactScore < 1 || a.ImpactScore > 10 {
		return nil, fmt.Errorf("impact score %d out of range", a.ImpactScore)
	}
	return &a, nil
}

// AnalyzeHeadline runs structured sentiment analysis over a news headline.
func (c *Client) AnalyzeHeadline(ctx context.Context, text string) (*Analysis, error) {
	raw, err := c.provider.Generate(ctx, Request{
		Prompt:    sentimentPrompt(text),
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	analysis, err := parseAnalysis(raw)
	if err != nil {
		c.logger.Warn("unparseable analysis response", zap.Error(err), zap.String("raw", raw))
		return nil, err
	}
	return analysis, nil
}

// Advise answers a one-shot trading question grounded in chart context.
func (c *Client) Advise(ctx context.Context, message string, cc ChatContext) (string, error) {
	raw, err := c.provider.Generate(ctx, Request{
		Prompt:    advisoryPrompt(message, cc),
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

// StreamMarketChat relays a multi-turn market conversation, pushing
// response text to emit as it arrives.
func (c *Client) StreamMarketChat(ctx context.Context, message string, history []Turn, mc MarketContext, emit func(string) error) error {
	return c.provider.Stream(ctx, Request{
		System:    chatSystemInstruction(mc),
		Turns:     history,
		Prompt:    message,
		Model:     c.cfg.ChatModel,
		MaxTokens: c.cfg.MaxTokens,
	}, emit)
}
