// Package ai wraps the LLM backend: headline sentiment scoring, one-shot
// advisory replies, and the streaming market-chat relay.
package ai

import (
	"context"
	"errors"

	"polylens/internal/market"
)

// ErrMissingAPIKey is the configuration error reported when no model
// credential was provided. It is detected at construction, before any
// network call is attempted.
var ErrMissingAPIKey = errors.New("llm api key is not configured")

// Analysis is the constrained JSON contract the sentiment prompt demands
// from the model.
type Analysis struct {
	Sentiment      string `json:"sentiment"`
	ImpactScore    int    `json:"impact_score"`
	Reasoning      string `json:"reasoning"`
	SuggestedTrade string `json:"suggested_trade"`
}

// Turn is one prior message in a chat conversation.
type Turn struct {
	Role string
	Text string
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Request is the provider-neutral generation request.
type Request struct {
	System    string
	Turns     []Turn
	Prompt    string
	Model     string
	MaxTokens int
}

// Provider is a chat-completion backend. Stream must forward each chunk of
// generated text through emit as it arrives and stop pulling as soon as
// emit returns an error or ctx is done.
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
	Stream(ctx context.Context, req Request, emit func(string) error) error
}

// ChatContext is the ambient context for the advisory (news drawer) chat.
type ChatContext struct {
	Price       string `json:"price"`
	News        string `json:"news"`
	ImpactScore int    `json:"impactScore"`
}

// MarketContext is the ambient context for the per-market chat panel.
type MarketContext struct {
	Title        string              `json:"title"`
	Probability  string              `json:"probability"`
	Headlines    []string            `json:"headlines"`
	PriceHistory []market.PricePoint `json:"priceHistory"`
}
