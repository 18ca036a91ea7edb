// Package gamma provides a client for the Polymarket Gamma REST API.
package gamma

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

type Client struct {
	host       string
	httpClient *http.Client
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.Status, e.Body)
}

func NewClient(httpClient *http.Client, host string) *Client {
	if host == "" {
		host = "https://gamma-api.polymarket.com"
	}
	host = strings.TrimRight(host, "/")
	return &Client{
		host:       host,
		httpClient: httpClient,
	}
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	fullURL := c.host + path
	if len(query) > 0 {
		fullURL = fullURL + "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// EventsQuery mirrors the /events filter parameters the dashboard uses.
type EventsQuery struct {
	Active   *bool
	Closed   *bool
	Archived *bool
	Limit    int
	Order    string
	Dir      string
}

func (q EventsQuery) values() url.Values {
	v := url.Values{}
	if q.Active != nil {
		v.Set("active", strconv.FormatBool(*q.Active))
	}
	if q.Closed != nil {
		v.Set("closed", strconv.FormatBool(*q.Closed))
	}
	if q.Archived != nil {
		v.Set("archived", strconv.FormatBool(*q.Archived))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Order != "" {
		v.Set("order", q.Order)
	}
	if q.Dir != "" {
		v.Set("dir", q.Dir)
	}
	return v
}

// Events fetches event objects with their nested market arrays.
func (c *Client) Events(ctx context.Context, query EventsQuery) ([]Event, error) {
	body, err := c.doRequest(ctx, "/events", query.values())
	if err != nil {
		return nil, err
	}
	var events []Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("unexpected events payload: %w", err)
	}
	return events, nil
}

// MarketsByConditionID looks up markets by their condition identifier.
// Gamma answers with an array; an empty array means the market is unknown.
func (c *Client) MarketsByConditionID(ctx context.Context, conditionID string) ([]Market, error) {
	if conditionID == "" {
		return nil, fmt.Errorf("condition_id is required")
	}
	query := url.Values{}
	query.Set("condition_id", conditionID)
	body, err := c.doRequest(ctx, "/markets", query)
	if err != nil {
		return nil, err
	}
	var markets []Market
	if err := json.Unmarshal(body, &markets); err != nil {
		return nil, fmt.Errorf("unexpected markets payload: %w", err)
	}
	return markets, nil
}
