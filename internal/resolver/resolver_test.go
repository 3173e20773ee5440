// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package resolver

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func newTestResolver() *Resolver {
	return New(zerolog.Nop())
}

// =============================================================================
// SUBSTRING STAGE TESTS
// =============================================================================

func TestResolve_TickerSubstring(t *testing.T) {
	r := newTestResolver()

	tests := []struct {
		query string
		want  string
	}{
		{"what is the price of btc today", "BTC"},
		{"ETH market cap?", "ETH"},
		{"how is doge doing", "DOGE"},
		{"tell me about xmr", "XMR"},
	}

	for _, tt := range tests {
		got, err := r.Resolve(tt.query)
		if err != nil {
			t.Errorf("Resolve(%q) error = %v, want %q", tt.query, err, tt.want)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestResolve_NameSubstring(t *testing.T) {
	r := newTestResolver()

	tests := []struct {
		query string
		want  string
	}{
		{"what's the market cap of solana?", "SOL"},
		{"latest news about cardano", "ADA"},
		{"is shiba inu up or down", "SHIB"},
		{"chainlink rank please", "LINK"},
	}

	for _, tt := range tests {
		got, err := r.Resolve(tt.query)
		if err != nil {
			t.Errorf("Resolve(%q) error = %v, want %q", tt.query, err, tt.want)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestResolve_Deterministic(t *testing.T) {
	r := newTestResolver()

	for i := 0; i < 10; i++ {
		got, err := r.Resolve("price of litecoin")
		if err != nil || got != "LTC" {
			t.Fatalf("Resolve iteration %d = %q, %v; want LTC", i, got, err)
		}
	}
}

func TestResolve_FirstMatchWins(t *testing.T) {
	// "bitcoin cash" contains both "bitcoin" (BTC) and "bitcoin cash" (BCH).
	// BTC appears earlier in the table, so the substring stage returns BTC.
	// This tie-break is table order, documented as arbitrary.
	r := newTestResolver()

	got, err := r.Resolve("bitcoin cash news")
	if err != nil {
		t.Fatalf("Resolve error = %v", err)
	}
	if got != "BTC" {
		t.Errorf("Resolve = %q, want BTC (first table entry wins)", got)
	}
}

// =============================================================================
// FUZZY STAGE TESTS
// =============================================================================

func TestResolve_FuzzyTypo(t *testing.T) {
	r := newTestResolver()

	// None of these contain a ticker or name as a substring, so they can only
	// resolve through the fuzzy stage.
	tests := []struct {
		query string
		want  string
	}{
		{"bitcon", "BTC"},   // dropped letter, similarity 6/7 vs "bitcoin"
		{"cardanno", "ADA"}, // doubled letter vs "cardano"
		{"polkadto", "DOT"}, // transposed letters vs "polkadot"
		{"monreo", "XMR"},   // transposed letters vs "monero"
	}

	for _, tt := range tests {
		got, err := r.Resolve(tt.query)
		if err != nil {
			t.Errorf("Resolve(%q) error = %v, want %q", tt.query, err, tt.want)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestResolve_BelowCutoff(t *testing.T) {
	r := newTestResolver()

	_, err := r.Resolve("asdkjasd")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve(nonsense) error = %v, want ErrNotFound", err)
	}
}

func TestResolve_Empty(t *testing.T) {
	r := newTestResolver()

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := r.Resolve(q)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Resolve(%q) error = %v, want ErrNotFound", q, err)
		}
	}
}

// =============================================================================
// SIMILARITY TESTS
// =============================================================================

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		min  float64
		max  float64
	}{
		{"bitcoin", "bitcoin", 1.0, 1.0},
		{"bitcon", "bitcoin", 0.85, 0.86}, // 1 - 1/7
		{"abc", "xyz", 0.0, 0.0},
		{"", "", 0.0, 1.0}, // identical empties count as 1
	}

	for _, tt := range tests {
		got := similarity(tt.a, tt.b)
		if got < tt.min || got > tt.max {
			t.Errorf("similarity(%q, %q) = %v, want in [%v, %v]", tt.a, tt.b, got, tt.min, tt.max)
		}
	}
}

// =============================================================================
// TABLE TESTS
// =============================================================================

func TestTable_UniqueSymbols(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range defaultEntries {
		if seen[e.Symbol] {
			t.Errorf("duplicate symbol %q in currency table", e.Symbol)
		}
		seen[e.Symbol] = true
	}
}

func TestLookup(t *testing.T) {
	r := newTestResolver()

	e, ok := r.Lookup("btc")
	if !ok || e.Name != "Bitcoin" {
		t.Errorf("Lookup(btc) = %+v, %v; want Bitcoin entry", e, ok)
	}

	if _, ok := r.Lookup("NOPE"); ok {
		t.Error("Lookup(NOPE) should not succeed")
	}
}
