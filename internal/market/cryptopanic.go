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

// DefaultCryptoPanicURL is the CryptoPanic API base URL.
const DefaultCryptoPanicURL = "https://cryptopanic.com"

// DefaultNewsLimit is how many news items a lookup returns at most.
const DefaultNewsLimit = 5

// CryptoPanicClient fetches recent news headlines filtered by currency.
type CryptoPanicClient struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewCryptoPanicClient creates a client with the given auth token.
func NewCryptoPanicClient(baseURL, authToken string, log zerolog.Logger) *CryptoPanicClient {
	if baseURL == "" {
		baseURL = DefaultCryptoPanicURL
	}
	return &CryptoPanicClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		authToken: authToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("component", "cryptopanic").Logger(),
	}
}

// postsResponse is the shape of /api/v1/posts/.
type postsResponse struct {
	Results []struct {
		Title  string `json:"title"`
		URL    string `json:"url"`
		Source struct {
			Title string `json:"title"`
		} `json:"source"`
	} `json:"results"`
}

// FetchNews returns up to limit recent news items for a symbol.
// On any failure the result carries a tagged failure; callers that render it
// see a single-element error list, matching the feed's legacy contract.
func (c *CryptoPanicClient) FetchNews(ctx context.Context, symbol string, limit int) NewsResult {
	if limit <= 0 {
		limit = DefaultNewsLimit
	}

	u := c.baseURL + "/api/v1/posts/?" + url.Values{
		"auth_token": {c.authToken},
		"currencies": {symbol},
		"kind":       {"news"},
		"public":     {"true"},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return NewsResult{Failure: newFailure(FailNetwork, "building request: %v", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Str("symbol", symbol).Err(err).Msg("news fetch failed")
		return NewsResult{Failure: newFailure(FailNetwork, "fetching news: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewsResult{Failure: newFailure(FailNetwork, "reading response body: %v", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return NewsResult{Failure: newFailure(FailNetwork, "unexpected status %d from CryptoPanic", resp.StatusCode)}
	}

	var posts postsResponse
	if err := json.Unmarshal(body, &posts); err != nil {
		return NewsResult{Failure: newFailure(FailParse, "decoding news response: %v", err)}
	}

	items := make([]NewsItem, 0, limit)
	for _, post := range posts.Results {
		if len(items) == limit {
			break
		}
		items = append(items, NewsItem{
			Title:  post.Title,
			URL:    post.URL,
			Source: post.Source.Title,
		})
	}

	return NewsResult{Items: items}
}
