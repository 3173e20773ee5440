// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package market

import (
	"context"

	"github.com/rs/zerolog"
)

// Gateway bundles the three external data feeds behind one snapshot call.
type Gateway struct {
	price     *CoinGeckoClient
	marketCap *CMCClient
	news      *CryptoPanicClient
	newsLimit int
	log       zerolog.Logger
}

// GatewayConfig holds construction options for the gateway.
type GatewayConfig struct {
	// CoinGeckoURL overrides the public CoinGecko base URL (tests).
	CoinGeckoURL string

	// CoinMarketCapURL overrides the Pro API base URL (tests).
	CoinMarketCapURL string

	// CoinMarketCapKey is the X-CMC_PRO_API_KEY value.
	CoinMarketCapKey string

	// CryptoPanicURL overrides the CryptoPanic base URL (tests).
	CryptoPanicURL string

	// CryptoPanicToken is the auth_token query value.
	CryptoPanicToken string

	// NewsLimit caps news items per query (default: 5).
	NewsLimit int
}

// NewGateway creates a gateway over the three public services.
func NewGateway(cfg GatewayConfig, log zerolog.Logger) *Gateway {
	limit := cfg.NewsLimit
	if limit <= 0 {
		limit = DefaultNewsLimit
	}
	return &Gateway{
		price:     NewCoinGeckoClient(cfg.CoinGeckoURL, log),
		marketCap: NewCMCClient(cfg.CoinMarketCapURL, cfg.CoinMarketCapKey, log),
		news:      NewCryptoPanicClient(cfg.CryptoPanicURL, cfg.CryptoPanicToken, log),
		newsLimit: limit,
		log:       log.With().Str("component", "market_gateway").Logger(),
	}
}

// Directory returns the CoinMarketCap client for name-directory lookups.
func (g *Gateway) Directory() *CMCClient {
	return g.marketCap
}

// Snapshot runs the three lookups sequentially and returns the bundle. Each
// feed fails independently; a dead news feed still leaves price and market
// data to inform the answer.
func (g *Gateway) Snapshot(ctx context.Context, symbol string) *Snapshot {
	snap := &Snapshot{
		Symbol: symbol,
		Price:  g.price.FetchPrice(ctx, symbol),
		Market: g.marketCap.FetchQuote(ctx, symbol),
		News:   g.news.FetchNews(ctx, symbol, g.newsLimit),
	}

	g.log.Debug().
		Str("symbol", symbol).
		Bool("price_ok", snap.Price.OK()).
		Bool("market_ok", snap.Market.OK()).
		Bool("news_ok", snap.News.OK()).
		Msg("snapshot complete")

	return snap
}
