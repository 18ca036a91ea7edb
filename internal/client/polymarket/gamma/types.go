package gamma

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Number tolerates Gamma's mixed numeric encodings: volumes arrive
// either as JSON numbers or as numeric strings depending on the endpoint.
// Anything unparseable decodes to zero rather than failing the batch.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*n = Number(f)
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
			*n = Number(f)
		} else {
			*n = 0
		}
		return nil
	}
	*n = 0
	return nil
}

// Tag labels an event; the dashboard derives its category from these.
type Tag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

// Event groups one or more related markets under a shared title.
type Event struct {
	ID         string   `json:"id"`
	Slug       string   `json:"slug"`
	Title      string   `json:"title"`
	Image      string   `json:"image"`
	EndDate    string   `json:"endDate"`
	Volume     Number   `json:"volume"`
	Volume24hr Number   `json:"volume24hr"`
	Tags       []Tag    `json:"tags,omitempty"`
	Markets    []Market `json:"markets,omitempty"`
}

// Market is a single question within an event.
//
// Outcomes, OutcomePrices and ClobTokenIds are JSON arrays delivered as
// strings inside the JSON document; they require a second decode pass via
// the Parse helpers below.
type Market struct {
	ID          string `json:"id"`
	Question    string `json:"question"`
	ConditionID string `json:"conditionId"`
	Slug        string `json:"slug"`
	Image       string `json:"image"`
	EndDateISO  string `json:"endDateIso"`
	Volume      Number `json:"volume"`
	Volume24hr  Number `json:"volume24hr"`

	Outcomes      string `json:"outcomes"`
	OutcomePrices string `json:"outcomePrices"`
	ClobTokenIds  string `json:"clobTokenIds"`
}

// ParseTokenIDs decodes the ClobTokenIds string field. Token order follows
// outcome order, so the first token is the primary ("Yes") outcome.
func (m *Market) ParseTokenIDs() ([]string, error) {
	if m.ClobTokenIds == "" {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(m.ClobTokenIds), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// ParseOutcomes decodes the Outcomes string field.
func (m *Market) ParseOutcomes() ([]string, error) {
	if m.Outcomes == "" {
		return nil, nil
	}
	var outcomes []string
	if err := json.Unmarshal([]byte(m.Outcomes), &outcomes); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// ParseOutcomePrices decodes the OutcomePrices string field. Prices stay as
// strings; callers decide how to interpret them numerically.
func (m *Market) ParseOutcomePrices() ([]string, error) {
	if m.OutcomePrices == "" {
		return nil, nil
	}
	var prices []string
	if err := json.Unmarshal([]byte(m.OutcomePrices), &prices); err != nil {
		return nil, err
	}
	return prices, nil
}
