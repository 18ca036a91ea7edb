package ai

import (
	"fmt"
	"strings"

	"polylens/internal/market"
)

const trendWindow = 10

// trendStableBand is the first-vs-last delta, in percentage points, below
// which the trend reads as stable.
const trendStableBand = 0.5

func sentimentPrompt(text string) string {
	return fmt.Sprintf(`System Instruction: You are a Polymarket Quant Analyst.
Your job is to analyze news headlines or short content and determine their potential impact on active political and financial markets.
You must respond with a perfectly valid JSON object in the following format:
{
  "sentiment": "Positive" | "Negative" | "Neutral",
  "impact_score": <number between 1 and 10>,
  "reasoning": "<short 1-2 sentence explanation of why this impacts the market>",
  "suggested_trade": "Yes" | "No" | "Wait"
}
Do not include any other text or markdown block backticks outside the JSON. Return only the JSON object.

News to analyze: %q`, text)
}

func advisoryPrompt(message string, cc ChatContext) string {
	price := cc.Price
	if price == "" {
		price = "Unknown"
	}
	news := cc.News
	if news == "" {
		news = "None"
	}
	impact := "N/A"
	if cc.ImpactScore > 0 {
		impact = fmt.Sprintf("%d", cc.ImpactScore)
	}
	return fmt.Sprintf(`System Instruction: You are a Polymarket Quant Analyst consulting with a user.
Context about current market:
Market Price: %s
Related News Headline: %q
Recent AI Impact Score (if any): %s/10

User Message: %q

Respond to the user directly, advising them on trading strategies, context, or market implications. Keep your answer brief, insightful, plain text (no markdown json blocks), as if advising a client on a Bloomberg chat terminal.`,
		price, news, impact, message)
}

func chatSystemInstruction(mc MarketContext) string {
	title := mc.Title
	if title == "" {
		title = "Unknown Market"
	}
	probability := mc.Probability
	if probability == "" {
		probability = market.ProbabilityUnavailable
	}

	var headlineBlock strings.Builder
	if len(mc.Headlines) > 0 {
		headlineBlock.WriteString("\nRecent News Headlines:")
		for i, h := range mc.Headlines {
			headlineBlock.WriteString(fmt.Sprintf("\n  %d. %s", i+1, h))
		}
	} else {
		headlineBlock.WriteString("\nRecent News Headlines: None available.")
	}

	trendBlock := ""
	if trend := trendSummary(mc.PriceHistory); trend != "" {
		trendBlock = "\n" + trend
	}

	return fmt.Sprintf(`You are PolyLens AI, an expert Prediction Market Analyst specializing in Polymarket.
You are currently helping a user analyze the following specific market:

Market Question: %q
Current Market Probability (Yes): %s%%%s%s

Your role:
- Provide neutral, data-driven insights grounded in the context above.
- Explain probability movements, risks, and catalysts concisely.
- Reference the specific market question and probability in your answers.
- Never give financial advice or recommendations to buy/sell.
- Keep responses concise (2-4 paragraphs max) and use plain text, no markdown tables.
- If asked something unrelated to prediction markets or this specific market, gently redirect.`,
		title, probability, headlineBlock.String(), trendBlock)
}

// trendSummary condenses the tail of the price history into a textual trend
// the model can reason about: direction from first-vs-last of the last ten
// samples, the delta, the observed range, and the sampled points themselves.
func trendSummary(points []market.PricePoint) string {
	if len(points) < 2 {
		return ""
	}
	tail := points
	if len(tail) > trendWindow {
		tail = tail[len(tail)-trendWindow:]
	}

	first := tail[0].Price
	last := tail[len(tail)-1].Price
	delta := last - first
	direction := "stable"
	switch {
	case delta > trendStableBand:
		direction = "rising"
	case delta < -trendStableBand:
		direction = "falling"
	}

	min, max := tail[0].Price, tail[0].Price
	samples := make([]string, 0, len(tail))
	for _, p := range tail {
		if p.Price < min {
			min = p.Price
		}
		if p.Price > max {
			max = p.Price
		}
		samples = append(samples, fmt.Sprintf("%s: %.1f%%", p.Time, p.Price))
	}

	return fmt.Sprintf("Recent Price Trend: %s (%+.1f pts over last %d samples), range %.1f%% - %.1f%%.\nSampled Points: %s",
		direction, delta, len(tail), min, max, strings.Join(samples, "; "))
}
