package market

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"polylens/internal/client/polymarket/gamma"
)

// ProbabilityUnavailable is returned whenever a probability cannot be
// derived from the upstream outcome-price field.
const ProbabilityUnavailable = "N/A"

const zeroVolume = "$0"

var validCategories = []string{"Politics", "Crypto", "Sports", "Pop Culture"}

// CategoryFromTags returns the first tag whose label contains one of the
// known category names, case-insensitively; "Other" when nothing matches.
func CategoryFromTags(tags []gamma.Tag) string {
	for _, tag := range tags {
		label := strings.ToLower(tag.Label)
		for _, cat := range validCategories {
			if strings.Contains(label, strings.ToLower(cat)) {
				return cat
			}
		}
	}
	return "Other"
}

// ProbabilityFromPrices derives the display probability from the
// JSON-encoded outcome-price string. The first entry is the primary ("Yes")
// outcome price in [0,1]; it renders as a percentage with one decimal.
// Missing, malformed or empty input yields the sentinel, never an error.
func ProbabilityFromPrices(outcomePrices string) string {
	if outcomePrices == "" {
		return ProbabilityUnavailable
	}
	var prices []string
	if err := json.Unmarshal([]byte(outcomePrices), &prices); err != nil {
		return ProbabilityUnavailable
	}
	if len(prices) == 0 {
		return ProbabilityUnavailable
	}
	return percentString(prices[0])
}

func percentString(price string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(price))
	if err != nil {
		return ProbabilityUnavailable
	}
	return d.Mul(decimal.NewFromInt(100)).Round(1).StringFixed(1)
}

// FormatVolume renders a raw USD volume as a compact currency string in the
// style of Intl.NumberFormat's compact notation: "$1.2M", "$543.2K", "$999".
// Zero, negative or non-finite input formats as "$0".
func FormatVolume(vol float64) string {
	if vol <= 0 || math.IsNaN(vol) || math.IsInf(vol, 0) {
		return zeroVolume
	}
	d := decimal.NewFromFloat(vol)
	switch {
	case vol >= 1e9:
		return "$" + d.Div(decimal.NewFromInt(1_000_000_000)).Round(1).String() + "B"
	case vol >= 1e6:
		return "$" + d.Div(decimal.NewFromInt(1_000_000)).Round(1).String() + "M"
	case vol >= 1e3:
		return "$" + d.Div(decimal.NewFromInt(1_000)).Round(1).String() + "K"
	default:
		return "$" + d.Round(1).String()
	}
}

// pickPrimaryMarket selects the representative market for an event: the one
// with the greatest parsed volume, ties resolving to the first encountered.
// One market per event keeps near-duplicate outcomes out of the grid.
func pickPrimaryMarket(markets []gamma.Market) *gamma.Market {
	var best *gamma.Market
	for i := range markets {
		if best == nil || float64(markets[i].Volume) > float64(best.Volume) {
			best = &markets[i]
		}
	}
	return best
}

// NormalizeEvents flattens Gamma event objects into display summaries. Any
// per-item parse failure degrades that single record to safe defaults; the
// rest of the batch is unaffected.
func NormalizeEvents(events []gamma.Event) []MarketSummary {
	out := make([]MarketSummary, 0, len(events))
	for i := range events {
		ev := &events[i]
		m := pickPrimaryMarket(ev.Markets)
		if m == nil {
			continue
		}
		title := ev.Title
		if title == "" {
			title = m.Question
		}
		if title == "" {
			title = "Unknown Market"
		}
		vol := float64(m.Volume)
		if vol == 0 {
			vol = float64(ev.Volume)
		}
		image := ev.Image
		if image == "" {
			image = m.Image
		}
		slug := m.Slug
		if slug == "" {
			slug = ev.Slug
		}
		endDate := m.EndDateISO
		if endDate == "" {
			endDate = ev.EndDate
		}
		out = append(out, MarketSummary{
			ID:          m.ConditionID,
			ConditionID: m.ConditionID,
			Title:       title,
			Question:    m.Question,
			Category:    CategoryFromTags(ev.Tags),
			Probability: ProbabilityFromPrices(m.OutcomePrices),
			Volume:      FormatVolume(vol),
			Volume24hr:  FormatVolume(float64(ev.Volume24hr)),
			Image:       image,
			Slug:        slug,
			EndDate:     endDate,
		})
	}
	return out
}
