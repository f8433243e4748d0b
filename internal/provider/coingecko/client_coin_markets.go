package coingecko

import (
	"context"
	"encoding/json"
	"io"
	"maps"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// CoinMarket is one element of the /coins/markets response. Only the fields
// the snapshot job reads are decoded.
type CoinMarket struct {
	ID                  string              `json:"id"`
	Symbol              string              `json:"symbol"`
	Name                string              `json:"name"`
	CurrentPrice        decimal.NullDecimal `json:"current_price"`
	PriceChangePct24h   decimal.NullDecimal `json:"price_change_percentage_24h"`
	Change1hInCurrency  decimal.NullDecimal `json:"price_change_percentage_1h_in_currency"`
	Change24hInCurrency decimal.NullDecimal `json:"price_change_percentage_24h_in_currency"`
	Change7dInCurrency  decimal.NullDecimal `json:"price_change_percentage_7d_in_currency"`
	Change30dInCurrency decimal.NullDecimal `json:"price_change_percentage_30d_in_currency"`
	LastUpdated         string              `json:"last_updated"`
}

// InCurrency returns the change for a window such as "7d".
func (m CoinMarket) InCurrency(window string) decimal.NullDecimal {
	switch window {
	case "1h":
		return m.Change1hInCurrency
	case "24h":
		return m.Change24hInCurrency
	case "7d":
		return m.Change7dInCurrency
	case "30d":
		return m.Change30dInCurrency
	}
	return decimal.NullDecimal{}
}

// GetCoinMarkets retrieves market data for ids quoted in vs, with the given
// percentage-change windows, in a single request.
func (c *Client) GetCoinMarkets(ctx context.Context, vs string, ids []string, windows []string) ([]CoinMarket, error) {
	if strings.TrimSpace(vs) == "" {
		return nil, errors.New("coingecko: empty vs currency")
	}

	query := maps.Clone(c.query)
	query.Set("vs_currency", vs)
	query.Set("ids", strings.Join(ids, ","))
	if len(windows) > 0 {
		query.Set("price_change_percentage", strings.Join(windows, ","))
	}
	query.Set("precision", "full")

	url := c.baseURL + "/coins/markets?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "performing request for vs=%s", vs)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusBadRequest:
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		return nil, errors.Errorf("bad request for vs=%s: %s", vs, string(b))

	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, errors.Errorf("unauthorized (status %d)", res.StatusCode)

	case http.StatusTooManyRequests:
		return nil, errors.New("rate limited")

	default:
		return nil, errors.Errorf("unexpected status code: %d", res.StatusCode)
	}

	var markets []CoinMarket
	if err := json.NewDecoder(res.Body).Decode(&markets); err != nil {
		return nil, errors.Wrapf(err, "decoding markets response for vs=%s", vs)
	}
	return markets, nil
}
