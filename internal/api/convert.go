package api

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/rickgao/price-tracker/internal/model"
)

// ParseSimplePrice extracts one coin's entry from a /simple/price body.
//
//	{"bitcoin": {"usd": 64000.1, "usd_24h_change": -1.2}}
//
// The usd field is required. A missing or non-numeric change becomes 0.
func ParseSimplePrice(body []byte, coinID string) (SimplePrice, error) {
	if !gjson.ValidBytes(body) {
		return SimplePrice{}, fmt.Errorf("%w: invalid json", ErrMalformedResponse)
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return SimplePrice{}, fmt.Errorf("%w: expected object", ErrMalformedResponse)
	}

	// Map lookup avoids gjson path syntax on ids like "tether-gold".
	entry, ok := root.Map()[coinID]
	if !ok || !entry.IsObject() {
		return SimplePrice{}, fmt.Errorf("%w: price data missing for %q", ErrMalformedResponse, coinID)
	}

	usd := entry.Get(VsCurrency)
	if usd.Type != gjson.Number {
		return SimplePrice{}, fmt.Errorf("%w: missing usd price for %q", ErrMalformedResponse, coinID)
	}

	var change float64
	if ch := entry.Get(VsCurrency + "_24h_change"); ch.Type == gjson.Number {
		change = ch.Num
	}

	return SimplePrice{USD: usd.Num, Change24h: change}, nil
}

// ParseMarketChart converts the "prices" array of a /market_chart body.
//
//	{"prices": [[1705321845000, 64000.1], ...]}
//
// A missing or non-array "prices" fails the parse. Individual entries that
// are not [integer, number, ...] are dropped; the rest keep their order.
func ParseMarketChart(body []byte) ([]model.HistoryPoint, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformedResponse)
	}

	prices := gjson.GetBytes(body, "prices")
	if !prices.IsArray() {
		return nil, fmt.Errorf("%w: missing history prices", ErrMalformedResponse)
	}

	points := make([]model.HistoryPoint, 0, len(prices.Array()))
	prices.ForEach(func(_, entry gjson.Result) bool {
		if p, ok := toHistoryPoint(entry); ok {
			points = append(points, p)
		}
		return true
	})

	return points, nil
}

func toHistoryPoint(entry gjson.Result) (model.HistoryPoint, bool) {
	if !entry.IsArray() {
		return model.HistoryPoint{}, false
	}

	pair := entry.Array()
	if len(pair) < 2 {
		return model.HistoryPoint{}, false
	}

	if pair[0].Type != gjson.Number || pair[1].Type != gjson.Number {
		return model.HistoryPoint{}, false
	}

	// Timestamps must be integral; keep the raw digits rather than the float.
	ts, err := strconv.ParseInt(pair[0].Raw, 10, 64)
	if err != nil {
		return model.HistoryPoint{}, false
	}

	return model.HistoryPoint{Timestamp: ts, Value: pair[1].Num}, true
}
