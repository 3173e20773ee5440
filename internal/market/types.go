// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package market fetches live price, market-cap, and news data for a resolved
// ticker symbol from external services.
//
// Every lookup returns a tagged result instead of an error: a failure in one
// feed must not abort the whole turn, and callers need to distinguish failure
// causes (network, parse, not-found) without matching on message text.
package market

import "fmt"

// =============================================================================
// TAGGED RESULTS
// =============================================================================

// FailureKind names the cause of a failed lookup.
type FailureKind int

const (
	FailNetwork FailureKind = iota // transport-level failure
	FailParse                      // response received but not decodable
	FailNotFound                   // service responded, symbol unknown to it
)

// String returns the kind's name for logs and rendered context.
func (k FailureKind) String() string {
	switch k {
	case FailNetwork:
		return "network"
	case FailParse:
		return "parse"
	case FailNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// Failure describes a failed lookup. It is embedded verbatim into the
// assembled context, so the message should read as prose.
type Failure struct {
	Kind    FailureKind
	Message string
}

func (f *Failure) String() string {
	return fmt.Sprintf("error (%s): %s", f.Kind, f.Message)
}

func newFailure(kind FailureKind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// =============================================================================
// DATA BUNDLES
// =============================================================================

// PriceInfo is the spot price of a symbol in USD.
type PriceInfo struct {
	Symbol   string  `json:"symbol"`
	PriceUSD float64 `json:"price_usd"`
}

// MarketData is the market capitalization and global rank of a symbol.
type MarketData struct {
	Symbol    string  `json:"symbol"`
	MarketCap float64 `json:"market_cap"`
	Rank      int     `json:"rank"`
}

// NewsItem is one recent headline for a symbol.
type NewsItem struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source"`
}

// PriceResult is the tagged outcome of a price lookup.
type PriceResult struct {
	Price   *PriceInfo
	Failure *Failure
}

// OK reports whether the lookup produced a payload.
func (r PriceResult) OK() bool { return r.Failure == nil }

// MarketResult is the tagged outcome of a market snapshot lookup.
type MarketResult struct {
	Data    *MarketData
	Failure *Failure
}

// OK reports whether the lookup produced a payload.
func (r MarketResult) OK() bool { return r.Failure == nil }

// NewsResult is the tagged outcome of a news lookup.
type NewsResult struct {
	Items   []NewsItem
	Failure *Failure
}

// OK reports whether the lookup produced a payload.
func (r NewsResult) OK() bool { return r.Failure == nil }

// Snapshot bundles the three lookups for one resolved symbol.
type Snapshot struct {
	Symbol string
	Price  PriceResult
	Market MarketResult
	News   NewsResult
}
