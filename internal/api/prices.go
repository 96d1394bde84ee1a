package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rickgao/price-tracker/internal/model"
)

// GetSimplePrice fetches the spot USD price and 24h change for one coin.
func (c *Client) GetSimplePrice(ctx context.Context, coinID string) (SimplePrice, error) {
	query := url.Values{}
	query.Set("ids", coinID)
	query.Set("vs_currencies", VsCurrency)
	query.Set("include_24hr_change", "true")

	body, err := c.get(ctx, "/simple/price", query)
	if err != nil {
		return SimplePrice{}, fmt.Errorf("get simple price: %w", err)
	}

	price, err := ParseSimplePrice(body, coinID)
	if err != nil {
		return SimplePrice{}, fmt.Errorf("get simple price: %w", err)
	}

	return price, nil
}

// GetMarketChart fetches the price series for the last `days` days.
func (c *Client) GetMarketChart(ctx context.Context, coinID string, days int) ([]model.HistoryPoint, error) {
	query := url.Values{}
	query.Set("vs_currency", VsCurrency)
	query.Set("days", strconv.Itoa(days))

	body, err := c.get(ctx, "/coins/"+url.PathEscape(coinID)+"/market_chart", query)
	if err != nil {
		return nil, fmt.Errorf("get market chart: %w", err)
	}

	points, err := ParseMarketChart(body)
	if err != nil {
		return nil, fmt.Errorf("get market chart: %w", err)
	}

	return points, nil
}
