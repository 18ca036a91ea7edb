package market

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"polylens/internal/client/polymarket/clob"
	"polylens/internal/client/polymarket/gamma"
)

// CLOB history request shape used by the dashboard chart: one-day window
// sampled at hourly fidelity.
const (
	historyInterval = "1d"
	historyFidelity = 60
)

type Service struct {
	Gamma  *gamma.Client
	Clob   *clob.Client
	Logger *zap.Logger
}

// ActiveMarkets fetches the currently active events ordered by 24h volume
// and normalizes them. Upstream failure is recoverable: the caller gets an
// empty slice and the incident is logged.
func (s *Service) ActiveMarkets(ctx context.Context, limit int) []MarketSummary {
	active, closed, archived := true, false, false
	events, err := s.Gamma.Events(ctx, gamma.EventsQuery{
		Active:   &active,
		Closed:   &closed,
		Archived: &archived,
		Limit:    limit,
		Order:    "volume24hr",
		Dir:      "desc",
	})
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("gamma events fetch failed", zap.Error(err))
		}
		return []MarketSummary{}
	}
	return NormalizeEvents(events)
}

// MarketByConditionID returns the detail view for one market, or (nil, nil)
// when the condition id is unknown upstream.
func (s *Service) MarketByConditionID(ctx context.Context, conditionID string) (*MarketDetail, error) {
	markets, err := s.Gamma.MarketsByConditionID(ctx, conditionID)
	if err != nil {
		return nil, err
	}
	if len(markets) == 0 {
		return nil, nil
	}
	m := &markets[0]

	title := m.Question
	if title == "" {
		title = "Unknown Market"
	}

	// Each string-encoded field decodes independently; one bad field must
	// not take down the others.
	outcomes, err := m.ParseOutcomes()
	if err != nil && s.Logger != nil {
		s.Logger.Warn("bad outcomes field", zap.String("condition_id", conditionID), zap.Error(err))
	}
	rawPrices, err := m.ParseOutcomePrices()
	if err != nil && s.Logger != nil {
		s.Logger.Warn("bad outcome prices field", zap.String("condition_id", conditionID), zap.Error(err))
	}
	prices := make([]string, 0, len(rawPrices))
	for _, p := range rawPrices {
		prices = append(prices, percentString(p))
	}

	return &MarketDetail{
		MarketSummary: MarketSummary{
			ID:          m.ConditionID,
			ConditionID: m.ConditionID,
			Title:       title,
			Question:    m.Question,
			Probability: ProbabilityFromPrices(m.OutcomePrices),
			Volume:      FormatVolume(float64(m.Volume)),
			Volume24hr:  FormatVolume(float64(m.Volume24hr)),
			Image:       m.Image,
			Slug:        m.Slug,
			EndDate:     m.EndDateISO,
		},
		Outcomes:      outcomes,
		OutcomePrices: prices,
		ClobTokenIDs:  m.ClobTokenIds,
	}, nil
}

// PriceHistory resolves a condition id to its primary outcome token and
// fetches that token's tick series.
//
// A missing market or empty token list is a valid "no data" outcome and
// returns (nil, nil). An HTTP failure at either hop aborts the resolution
// with an error; partial data is never synthesized, and there are no
// retries.
func (s *Service) PriceHistory(ctx context.Context, conditionID string) ([]PricePoint, error) {
	markets, err := s.Gamma.MarketsByConditionID(ctx, conditionID)
	if err != nil {
		return nil, err
	}
	if len(markets) == 0 {
		if s.Logger != nil {
			s.Logger.Debug("no market for condition id", zap.String("condition_id", conditionID))
		}
		return nil, nil
	}
	tokens, err := markets[0].ParseTokenIDs()
	if err != nil || len(tokens) == 0 {
		if s.Logger != nil {
			s.Logger.Debug("no outcome tokens for condition id",
				zap.String("condition_id", conditionID), zap.Error(err))
		}
		return nil, nil
	}

	ticks, err := s.Clob.PriceHistory(ctx, tokens[0], historyInterval, historyFidelity)
	if err != nil {
		return nil, err
	}

	hundred := decimal.NewFromInt(100)
	points := make([]PricePoint, 0, len(ticks))
	for _, tick := range ticks {
		points = append(points, PricePoint{
			Time:  tick.TS.Format("Jan 2"),
			Price: tick.Price.Mul(hundred).Round(1).InexactFloat64(),
		})
	}
	return points, nil
}
