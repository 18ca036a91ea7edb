package clob

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Decimal accepts both string and numeric JSON encodings; the CLOB API is
// not consistent across endpoints.
type Decimal struct {
	decimal.Decimal
}

func (d *Decimal) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		d.Decimal = decimal.Zero
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		val, err := decimal.NewFromString(s)
		if err != nil {
			return err
		}
		d.Decimal = val
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		d.Decimal = decimal.NewFromFloat(f)
		return nil
	}
	return fmt.Errorf("invalid decimal: %s", string(b))
}

// Tick is one sample of the traded probability for an outcome token.
type Tick struct {
	TS    time.Time
	Price decimal.Decimal
}

func parsePriceHistory(body []byte) ([]Tick, error) {
	var raw struct {
		History []struct {
			T json.RawMessage `json:"t"`
			P Decimal         `json:"p"`
		} `json:"history"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("unknown price history format: %w", err)
	}
	ticks := make([]Tick, 0, len(raw.History))
	for _, item := range raw.History {
		ts, err := parseTimeRaw(item.T)
		if err != nil {
			continue
		}
		ticks = append(ticks, Tick{TS: ts, Price: item.P.Decimal})
	}
	return ticks, nil
}

func parseTimeRaw(b json.RawMessage) (time.Time, error) {
	var i int64
	if err := json.Unmarshal(b, &i); err == nil {
		return unixToTime(i), nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		return unixToTime(int64(f)), nil
	}
	return time.Time{}, fmt.Errorf("invalid time: %s", string(b))
}

func unixToTime(v int64) time.Time {
	if v > 1_000_000_000_000 {
		return time.UnixMilli(v).UTC()
	}
	return time.Unix(v, 0).UTC()
}
