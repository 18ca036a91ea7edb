package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"polylens/internal/client/polymarket/clob"
	"polylens/internal/client/polymarket/gamma"
)

func newTestService(t *testing.T, gammaHandler, clobHandler http.HandlerFunc) (*Service, func()) {
	t.Helper()
	gammaSrv := httptest.NewServer(gammaHandler)
	clobSrv := httptest.NewServer(clobHandler)
	svc := &Service{
		Gamma:  gamma.NewClient(gammaSrv.Client(), gammaSrv.URL),
		Clob:   clob.NewClient(clobSrv.Client(), clobSrv.URL),
		Logger: zap.NewNop(),
	}
	return svc, func() {
		gammaSrv.Close()
		clobSrv.Close()
	}
}

func TestActiveMarketsQueryAndNormalize(t *testing.T) {
	var gotQuery map[string]string
	svc, cleanup := newTestService(t,
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/events" {
				t.Fatalf("unexpected path %q", r.URL.Path)
			}
			q := r.URL.Query()
			gotQuery = map[string]string{
				"active":   q.Get("active"),
				"closed":   q.Get("closed"),
				"archived": q.Get("archived"),
				"limit":    q.Get("limit"),
				"order":    q.Get("order"),
				"dir":      q.Get("dir"),
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[
				{
					"title": "Fed cuts rates in March?",
					"volume24hr": "120000",
					"tags": [{"label": "Crypto"}],
					"markets": [
						{"conditionId": "0xabc", "question": "Fed cuts rates in March?", "volume": "2500000", "outcomePrices": "[\"0.34\", \"0.66\"]"}
					]
				}
			]`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			t.Fatalf("clob should not be called")
		})
	defer cleanup()

	items := svc.ActiveMarkets(context.Background(), 25)
	if len(items) != 1 {
		t.Fatalf("expected 1 market, got %d", len(items))
	}
	want := map[string]string{
		"active": "true", "closed": "false", "archived": "false",
		"limit": "25", "order": "volume24hr", "dir": "desc",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Fatalf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}
	if items[0].Probability != "34.0" {
		t.Fatalf("unexpected probability %q", items[0].Probability)
	}
	if items[0].Volume != "$2.5M" {
		t.Fatalf("unexpected volume %q", items[0].Volume)
	}
}

func TestActiveMarketsUpstreamFailure(t *testing.T) {
	svc, cleanup := newTestService(t,
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
		func(w http.ResponseWriter, r *http.Request) {})
	defer cleanup()

	items := svc.ActiveMarkets(context.Background(), 10)
	if items == nil {
		t.Fatalf("expected empty slice, got nil")
	}
	if len(items) != 0 {
		t.Fatalf("expected no markets, got %d", len(items))
	}
}

func TestMarketByConditionID(t *testing.T) {
	svc, cleanup := newTestService(t,
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/markets" {
				t.Fatalf("unexpected path %q", r.URL.Path)
			}
			if got := r.URL.Query().Get("condition_id"); got != "0xabc" {
				t.Fatalf("condition_id = %q", got)
			}
			w.Write([]byte(`[
				{
					"conditionId": "0xabc",
					"question": "Will X happen?",
					"volume": 1500,
					"outcomes": "[\"Yes\", \"No\"]",
					"outcomePrices": "[\"0.72\", \"0.28\"]",
					"clobTokenIds": "[\"111\", \"222\"]"
				}
			]`))
		},
		func(w http.ResponseWriter, r *http.Request) {})
	defer cleanup()

	detail, err := svc.MarketByConditionID(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail == nil {
		t.Fatalf("expected detail, got nil")
	}
	if detail.Title != "Will X happen?" || detail.Probability != "72.0" {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	if len(detail.Outcomes) != 2 || detail.Outcomes[0] != "Yes" {
		t.Fatalf("unexpected outcomes: %v", detail.Outcomes)
	}
	if len(detail.OutcomePrices) != 2 || detail.OutcomePrices[0] != "72.0" || detail.OutcomePrices[1] != "28.0" {
		t.Fatalf("unexpected outcome prices: %v", detail.OutcomePrices)
	}
}

func TestMarketByConditionIDNotFound(t *testing.T) {
	svc, cleanup := newTestService(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		},
		func(w http.ResponseWriter, r *http.Request) {})
	defer cleanup()

	detail, err := svc.MarketByConditionID(context.Background(), "0xmissing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail != nil {
		t.Fatalf("expected nil detail for unknown market, got %+v", detail)
	}
}

func TestPriceHistoryRoundTrip(t *testing.T) {
	base := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)
	var clobQuery map[string]string
	svc, cleanup := newTestService(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"conditionId": "0xabc", "clobTokenIds": "[\"111\", \"222\"]"}]`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/prices-history" {
				t.Fatalf("unexpected path %q", r.URL.Path)
			}
			q := r.URL.Query()
			clobQuery = map[string]string{
				"market":   q.Get("market"),
				"interval": q.Get("interval"),
				"fidelity": q.Get("fidelity"),
			}
			w.Write([]byte(`{"history": [
				{"t": 1771588800, "p": "0.551"},
				{"t": 1771592400, "p": 0.562},
				{"t": 1771596000, "p": "0.5489"}
			]}`))
		})
	defer cleanup()

	points, err := svc.PriceHistory(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clobQuery["market"] != "111" {
		t.Fatalf("expected primary token 111, clob saw %q", clobQuery["market"])
	}
	if clobQuery["interval"] != "1d" || clobQuery["fidelity"] != "60" {
		t.Fatalf("unexpected history params: %v", clobQuery)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	wantPrices := []float64{55.1, 56.2, 54.9}
	for i, want := range wantPrices {
		if points[i].Price != want {
			t.Fatalf("point %d price = %v, want %v", i, points[i].Price, want)
		}
	}
	if points[0].Time != base.Format("Jan 2") {
		t.Fatalf("unexpected time label %q", points[0].Time)
	}
}

func TestPriceHistoryNoData(t *testing.T) {
	svc, cleanup := newTestService(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			t.Fatalf("clob should not be called without a market")
		})
	defer cleanup()

	points, err := svc.PriceHistory(context.Background(), "0xmissing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if points != nil {
		t.Fatalf("expected nil points for unknown market, got %v", points)
	}
}

func TestPriceHistoryClobFailure(t *testing.T) {
	svc, cleanup := newTestService(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"conditionId": "0xabc", "clobTokenIds": "[\"111\"]"}]`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unavailable", http.StatusInternalServerError)
		})
	defer cleanup()

	if _, err := svc.PriceHistory(context.Background(), "0xabc"); err == nil {
		t.Fatalf("expected error when clob fails")
	}
}
