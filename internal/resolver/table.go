// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package resolver

// Entry is one row of the static currency table.
type Entry struct {
	Symbol string // short uppercase ticker, unique across the table
	Name   string // display name
}

// defaultEntries is the static table of supported cryptocurrencies.
// Iteration order matters for substring resolution: earlier entries win when a
// query matches more than one row. The order below is roughly by market cap and
// is otherwise arbitrary.
var defaultEntries = []Entry{
	{"BTC", "Bitcoin"},
	{"ETH", "Ethereum"},
	{"USDT", "Tether"},
	{"BNB", "BNB"},
	{"SOL", "Solana"},
	{"XRP", "XRP"},
	{"USDC", "USD Coin"},
	{"ADA", "Cardano"},
	{"DOGE", "Dogecoin"},
	{"TRX", "TRON"},
	{"AVAX", "Avalanche"},
	{"LINK", "Chainlink"},
	{"DOT", "Polkadot"},
	{"MATIC", "Polygon"},
	{"TON", "Toncoin"},
	{"ICP", "Internet Computer"},
	{"SHIB", "Shiba Inu"},
	{"LTC", "Litecoin"},
	{"BCH", "Bitcoin Cash"},
	{"UNI", "Uniswap"},
	{"NEAR", "NEAR Protocol"},
	{"APT", "Aptos"},
	{"XLM", "Stellar"},
	{"OKB", "OKB"},
	{"ETC", "Ethereum Classic"},
	{"ATOM", "Cosmos"},
	{"XMR", "Monero"},
	{"FIL", "Filecoin"},
	{"HBAR", "Hedera"},
	{"ARB", "Arbitrum"},
	{"VET", "VeChain"},
	{"IMX", "Immutable"},
	{"OP", "Optimism"},
	{"MKR", "Maker"},
	{"GRT", "The Graph"},
	{"INJ", "Injective"},
	{"RNDR", "Render"},
	{"AAVE", "Aave"},
	{"ALGO", "Algorand"},
	{"QNT", "Quant"},
	{"EGLD", "MultiversX"},
	{"SAND", "The Sandbox"},
	{"MANA", "Decentraland"},
	{"XTZ", "Tezos"},
	{"THETA", "Theta Network"},
	{"FTM", "Fantom"},
	{"EOS", "EOS"},
	{"RUNE", "THORChain"},
	{"FLOW", "Flow"},
	{"KAVA", "Kava"},
}
