package ai

import (
	"strings"
	"testing"

	"polylens/internal/market"
)

func TestSentimentPromptContainsContract(t *testing.T) {
	p := sentimentPrompt("Poll shows tightening race")
	for _, want := range []string{
		"Polymarket Quant Analyst",
		`"impact_score"`,
		`"suggested_trade"`,
		`"Poll shows tightening race"`,
	} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestAdvisoryPromptDefaults(t *testing.T) {
	p := advisoryPrompt("thoughts?", ChatContext{})
	if !strings.Contains(p, "Market Price: Unknown") {
		t.Fatalf("missing price default:\n%s", p)
	}
	if !strings.Contains(p, "Recent AI Impact Score (if any): N/A/10") {
		t.Fatalf("missing impact default:\n%s", p)
	}

	p = advisoryPrompt("thoughts?", ChatContext{Price: "62.0", News: "Debate tonight", ImpactScore: 7})
	if !strings.Contains(p, "Market Price: 62.0") || !strings.Contains(p, "7/10") {
		t.Fatalf("context not rendered:\n%s", p)
	}
}

func TestChatSystemInstruction(t *testing.T) {
	mc := MarketContext{
		Title:       "Will X win PA?",
		Probability: "62.0",
		Headlines:   []string{"first headline", "second headline"},
		PriceHistory: []market.PricePoint{
			{Time: "Feb 18", Price: 58.0},
			{Time: "Feb 19", Price: 60.5},
			{Time: "Feb 20", Price: 62.0},
		},
	}
	s := chatSystemInstruction(mc)
	for _, want := range []string{
		"PolyLens AI",
		`"Will X win PA?"`,
		"62.0%",
		"1. first headline",
		"2. second headline",
		"rising",
		"Feb 20: 62.0%",
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("system instruction missing %q:\n%s", want, s)
		}
	}
}

func TestChatSystemInstructionDefaults(t *testing.T) {
	s := chatSystemInstruction(MarketContext{})
	if !strings.Contains(s, `"Unknown Market"`) {
		t.Fatalf("missing title default:\n%s", s)
	}
	if !strings.Contains(s, "N/A%") {
		t.Fatalf("missing probability sentinel:\n%s", s)
	}
	if !strings.Contains(s, "Recent News Headlines: None available.") {
		t.Fatalf("missing headline default:\n%s", s)
	}
	if strings.Contains(s, "Recent Price Trend") {
		t.Fatalf("trend block must be absent without history:\n%s", s)
	}
}

func TestTrendSummary(t *testing.T) {
	if got := trendSummary(nil); got != "" {
		t.Fatalf("expected empty summary for no points, got %q", got)
	}
	if got := trendSummary([]market.PricePoint{{Time: "Feb 20", Price: 50}}); got != "" {
		t.Fatalf("expected empty summary for one point, got %q", got)
	}

	rising := []market.PricePoint{
		{Time: "Feb 18", Price: 50.0},
		{Time: "Feb 19", Price: 53.0},
		{Time: "Feb 20", Price: 55.0},
	}
	s := trendSummary(rising)
	if !strings.Contains(s, "rising") || !strings.Contains(s, "+5.0 pts") {
		t.Fatalf("unexpected rising summary: %q", s)
	}
	if !strings.Contains(s, "range 50.0% - 55.0%") {
		t.Fatalf("missing range: %q", s)
	}

	falling := []market.PricePoint{
		{Time: "Feb 19", Price: 55.0},
		{Time: "Feb 20", Price: 50.0},
	}
	if s := trendSummary(falling); !strings.Contains(s, "falling") {
		t.Fatalf("unexpected falling summary: %q", s)
	}

	stable := []market.PricePoint{
		{Time: "Feb 19", Price: 50.0},
		{Time: "Feb 20", Price: 50.4},
	}
	if s := trendSummary(stable); !strings.Contains(s, "stable") {
		t.Fatalf("unexpected stable summary: %q", s)
	}
}

func TestTrendSummaryWindow(t *testing.T) {
	points := make([]market.PricePoint, 0, 15)
	for i := 0; i < 15; i++ {
		points = append(points, market.PricePoint{Time: "Feb 20", Price: float64(40 + i)})
	}
	s := trendSummary(points)
	if !strings.Contains(s, "over last 10 samples") {
		t.Fatalf("window not applied: %q", s)
	}
	// First five samples fall outside the window.
	if strings.Contains(s, "Feb 20: 40.0%") {
		t.Fatalf("out-of-window sample leaked: %q", s)
	}
	if !strings.Contains(s, "Feb 20: 45.0%") {
		t.Fatalf("window head missing: %q", s)
	}
}
