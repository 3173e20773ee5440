// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assistant wires the query pipeline together: resolve a symbol from
// free text, fetch live market data, assemble the model context, run the
// answer chain, and record the turn.
package assistant

import (
	"fmt"
	"strings"

	"github.com/jeranaias/coinassist-tui/internal/market"
)

// BuildContext flattens one market snapshot into the text block handed to the
// model. Failed lookups are rendered through their failure message rather than
// omitted, so the model can tell the user what was unavailable.
func BuildContext(snap market.Snapshot) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Symbol: %s\n", snap.Symbol)

	sb.WriteString("\nPrice Info:\n")
	if snap.Price.OK() {
		fmt.Fprintf(&sb, "Price (%s): $%.2f\n", snap.Price.Price.Symbol, snap.Price.Price.PriceUSD)
	} else {
		sb.WriteString(snap.Price.Failure.String() + "\n")
	}

	sb.WriteString("\nMarket Data:\n")
	if snap.Market.OK() {
		fmt.Fprintf(&sb, "Market Cap: $%.0f, Rank: #%d\n", snap.Market.Data.MarketCap, snap.Market.Data.Rank)
	} else {
		sb.WriteString(snap.Market.Failure.String() + "\n")
	}

	sb.WriteString("\nLatest News:\n")
	switch {
	case !snap.News.OK():
		sb.WriteString(snap.News.Failure.String() + "\n")
	case len(snap.News.Items) == 0:
		sb.WriteString("no recent news\n")
	default:
		for _, item := range snap.News.Items {
			fmt.Fprintf(&sb, "- %s (%s) %s\n", item.Title, item.Source, item.URL)
		}
	}

	return sb.String()
}
