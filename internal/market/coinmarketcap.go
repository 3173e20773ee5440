// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package market

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultCoinMarketCapURL is the CoinMarketCap Pro API base URL.
const DefaultCoinMarketCapURL = "https://pro-api.coinmarketcap.com"

// apiKeyHeader is the CoinMarketCap authentication header.
const apiKeyHeader = "X-CMC_PRO_API_KEY"

// ErrNoDirectoryMatch is returned by LookupSymbol when the currency directory
// contains no entry with the given name or symbol.
var ErrNoDirectoryMatch = errors.New("no directory entry matches")

// CMCClient fetches market capitalization, rank, and directory listings from
// the CoinMarketCap Pro API.
type CMCClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewCMCClient creates a client with the given API key.
func NewCMCClient(baseURL, apiKey string, log zerolog.Logger) *CMCClient {
	if baseURL == "" {
		baseURL = DefaultCoinMarketCapURL
	}
	return &CMCClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("component", "coinmarketcap").Logger(),
	}
}

// quotesResponse is the shape of /v1/cryptocurrency/quotes/latest.
type quotesResponse struct {
	Data map[string]struct {
		CMCRank int `json:"cmc_rank"`
		Quote   map[string]struct {
			MarketCap float64 `json:"market_cap"`
		} `json:"quote"`
	} `json:"data"`
	Status struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
}

// FetchQuote returns market capitalization and global rank for a symbol.
// Any fetch or parse failure becomes a tagged result rather than a raised
// fault.
func (c *CMCClient) FetchQuote(ctx context.Context, symbol string) MarketResult {
	symbol = strings.ToUpper(symbol)

	u := c.baseURL + "/v1/cryptocurrency/quotes/latest?" + url.Values{
		"symbol":  {symbol},
		"convert": {"USD"},
	}.Encode()

	body, fail := c.get(ctx, u)
	if fail != nil {
		c.log.Warn().Str("symbol", symbol).Str("kind", fail.Kind.String()).Msg(fail.Message)
		return MarketResult{Failure: fail}
	}

	var quotes quotesResponse
	if err := json.Unmarshal(body, &quotes); err != nil {
		return MarketResult{Failure: newFailure(FailParse, "decoding quotes response: %v", err)}
	}
	if quotes.Status.ErrorCode != 0 {
		return MarketResult{Failure: newFailure(FailNotFound, "CoinMarketCap: %s", quotes.Status.ErrorMessage)}
	}

	entry, ok := quotes.Data[symbol]
	if !ok {
		return MarketResult{Failure: newFailure(FailNotFound, "no quote data for %s", symbol)}
	}
	usd, ok := entry.Quote["USD"]
	if !ok {
		return MarketResult{Failure: newFailure(FailParse, "quote for %s has no USD conversion", symbol)}
	}

	return MarketResult{Data: &MarketData{
		Symbol:    symbol,
		MarketCap: usd.MarketCap,
		Rank:      entry.CMCRank,
	}}
}

// mapResponse is the shape of /v1/cryptocurrency/map.
type mapResponse struct {
	Data []struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"data"`
}

// LookupSymbol scans the CoinMarketCap currency directory for an entry whose
// name or symbol equals the query, case-insensitively. It is the optional
// third resolution stage, used only when the static table misses.
func (c *CMCClient) LookupSymbol(ctx context.Context, name string) (string, error) {
	u := c.baseURL + "/v1/cryptocurrency/map?" + url.Values{
		"listing_status": {"active"},
	}.Encode()

	body, fail := c.get(ctx, u)
	if fail != nil {
		return "", errors.New(fail.Message)
	}

	var listing mapResponse
	if err := json.Unmarshal(body, &listing); err != nil {
		return "", err
	}

	want := strings.ToLower(name)
	for _, entry := range listing.Data {
		if strings.ToLower(entry.Name) == want || strings.ToLower(entry.Symbol) == want {
			return entry.Symbol, nil
		}
	}

	return "", ErrNoDirectoryMatch
}

// get performs an authenticated GET against the Pro API.
func (c *CMCClient) get(ctx context.Context, u string) ([]byte, *Failure) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, newFailure(FailNetwork, "building request: %v", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)

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
		return nil, newFailure(FailNetwork, "unexpected status %d from CoinMarketCap", resp.StatusCode)
	}

	return body, nil
}
