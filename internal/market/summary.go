// Package market shapes heterogeneous upstream market data into the
// display-ready records the dashboard consumes.
package market

// MarketSummary is a denormalized projection of one upstream market,
// rebuilt fresh on every poll. Sentiment stays empty until a headline has
// actually been analyzed; it is never guessed here.
type MarketSummary struct {
	ID          string `json:"id"`
	ConditionID string `json:"conditionId,omitempty"`
	Title       string `json:"title"`
	Question    string `json:"question,omitempty"`
	Category    string `json:"category"`
	Probability string `json:"probability"`
	Volume      string `json:"volume"`
	Volume24hr  string `json:"volume24hr"`
	Image       string `json:"image,omitempty"`
	Slug        string `json:"slug,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Sentiment   string `json:"sentiment,omitempty"`
}

// MarketDetail extends the summary with per-outcome data for the market page.
type MarketDetail struct {
	MarketSummary
	Outcomes      []string `json:"outcomes"`
	OutcomePrices []string `json:"outcomePrices"`
	ClobTokenIDs  string   `json:"clobTokenIds,omitempty"`
}

// PricePoint is one chart sample; Price is the probability as a percentage
// rounded to one decimal.
type PricePoint struct {
	Time  string  `json:"time"`
	Price float64 `json:"price"`
}
