package gamma

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEventsQueryValues(t *testing.T) {
	active, closed := true, false
	q := EventsQuery{Active: &active, Closed: &closed, Limit: 20, Order: "volume24hr", Dir: "desc"}
	v := q.values()
	if v.Get("active") != "true" || v.Get("closed") != "false" {
		t.Fatalf("unexpected bool params: %v", v)
	}
	if v.Get("archived") != "" {
		t.Fatalf("nil filter must be omitted, got %q", v.Get("archived"))
	}
	if v.Get("limit") != "20" || v.Get("order") != "volume24hr" || v.Get("dir") != "desc" {
		t.Fatalf("unexpected params: %v", v)
	}
}

func TestEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/events" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Fatalf("accept header = %q", got)
		}
		w.Write([]byte(`[{"id": "1", "title": "A"}, {"id": "2", "title": "B"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL)
	events, err := c.Events(context.Background(), EventsQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 || events[1].Title != "B" {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestEventsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL)
	_, err := c.Events(context.Background(), EventsQuery{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusTooManyRequests {
		t.Fatalf("status = %d", apiErr.Status)
	}
}

func TestMarketsByConditionIDRequiresID(t *testing.T) {
	c := NewClient(http.DefaultClient, "")
	if _, err := c.MarketsByConditionID(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty condition id")
	}
}

func TestHostTrailingSlashTrimmed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/markets" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL+"/")
	if _, err := c.MarketsByConditionID(context.Background(), "0xabc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
