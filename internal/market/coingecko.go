// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package market

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultCoinGeckoURL is the public CoinGecko API base URL.
const DefaultCoinGeckoURL = "https://api.coingecko.com"

// CoinGeckoClient looks up spot prices from the CoinGecko public API.
// Price lookup is two calls: the coin list maps a ticker to CoinGecko's
// internal coin id, then the simple-price endpoint returns the USD price
// keyed by that id.
type CoinGeckoClient struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewCoinGeckoClient creates a client against the public API.
func NewCoinGeckoClient(baseURL string, log zerolog.Logger) *CoinGeckoClient {
	if baseURL == "" {
		baseURL = DefaultCoinGeckoURL
	}
	return &CoinGeckoClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("component", "coingecko").Logger(),
	}
}

// coinListEntry is one row of the /api/v3/coins/list response.
type coinListEntry struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// FetchPrice returns the current USD spot price for a ticker symbol.
// Failures are returned as a tagged result, never raised: a dead price feed
// still leaves market data and news to inform the answer.
func (c *CoinGeckoClient) FetchPrice(ctx context.Context, symbol string) PriceResult {
	coinID, fail := c.lookupCoinID(ctx, symbol)
	if fail != nil {
		c.log.Warn().Str("symbol", symbol).Str("kind", fail.Kind.String()).Msg(fail.Message)
		return PriceResult{Failure: fail}
	}

	u := c.baseURL + "/api/v3/simple/price?" + url.Values{
		"ids":           {coinID},
		"vs_currencies": {"usd"},
	}.Encode()

	body, fail := c.get(ctx, u)
	if fail != nil {
		c.log.Warn().Str("symbol", symbol).Str("kind", fail.Kind.String()).Msg(fail.Message)
		return PriceResult{Failure: fail}
	}

	var prices map[string]map[string]float64
	if err := json.Unmarshal(body, &prices); err != nil {
		return PriceResult{Failure: newFailure(FailParse, "decoding price response: %v", err)}
	}

	usd, ok := prices[coinID]["usd"]
	if !ok {
		return PriceResult{Failure: newFailure(FailNotFound, "no USD price for %s", symbol)}
	}

	return PriceResult{Price: &PriceInfo{
		Symbol:   strings.ToUpper(symbol),
		PriceUSD: usd,
	}}
}

// lookupCoinID maps a ticker symbol to CoinGecko's internal coin id via the
// full coin list. The first coin whose symbol matches wins.
func (c *CoinGeckoClient) lookupCoinID(ctx context.Context, symbol string) (string, *Failure) {
	body, fail := c.get(ctx, c.baseURL+"/api/v3/coins/list")
	if fail != nil {
		return "", fail
	}

	var coins []coinListEntry
	if err := json.Unmarshal(body, &coins); err != nil {
		return "", newFailure(FailParse, "decoding coin list: %v", err)
	}

	want := strings.ToLower(symbol)
	for _, coin := range coins {
		if strings.ToLower(coin.Symbol) == want {
			return coin.ID, nil
		}
	}

	return "", newFailure(FailNotFound, "no CoinGecko id for symbol %s", symbol)
}

// get performs a GET and returns the body, tagging transport and status
// failures as network errors.
func (c *CoinGeckoClient) get(ctx context.Context, u string) ([]byte, *Failure) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, newFailure(FailNetwork, "building request: %v", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newFailure(FailNetwork, "fetching %s: %v", u, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newFailure(FailNetwork, "reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, newFailure(FailNetwork, "unexpected status %d from CoinGecko", resp.StatusCode)
	}

	return body, nil
}
