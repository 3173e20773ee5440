// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package resolver maps free-text user queries to canonical ticker symbols.
//
// Resolution runs in two explicit stages over the same static table:
//
//  1. Substring scan: the lowercased query is scanned for any known ticker or
//     full name; the first table entry that appears wins.
//  2. Fuzzy match: the whole query is compared against every name and ticker
//     using normalized Levenshtein similarity; the single best match at or
//     above the cutoff wins.
//
// Neither stage touches the network, so an unresolvable query costs nothing.
package resolver

import (
	"errors"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog"
)

// DefaultCutoff is the minimum normalized similarity (0-1) the fuzzy stage
// accepts. Matches the behavior of difflib-style close matching.
const DefaultCutoff = 0.6

// ErrNotFound is returned when neither stage resolves the query.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = errors.New("cryptocurrency not recognized")

// =============================================================================
// RESOLVER
// =============================================================================

// Resolver resolves free-text queries against the static currency table.
type Resolver struct {
	entries []Entry
	cutoff  float64
	log     zerolog.Logger
}

// New creates a resolver over the built-in currency table.
func New(log zerolog.Logger) *Resolver {
	return NewWithEntries(defaultEntries, log)
}

// NewWithEntries creates a resolver over a custom table. Entries are scanned
// in slice order; when a query substring-matches more than one entry the first
// wins, which is an arbitrary but documented tie-break.
func NewWithEntries(entries []Entry, log zerolog.Logger) *Resolver {
	return &Resolver{
		entries: entries,
		cutoff:  DefaultCutoff,
		log:     log.With().Str("component", "resolver").Logger(),
	}
}

// Entries returns the currency table.
func (r *Resolver) Entries() []Entry {
	return r.entries
}

// Lookup returns the table entry for a ticker symbol, if present.
func (r *Resolver) Lookup(symbol string) (Entry, bool) {
	symbol = strings.ToUpper(symbol)
	for _, e := range r.entries {
		if e.Symbol == symbol {
			return e, true
		}
	}
	return Entry{}, false
}

// Resolve maps a free-text query to a ticker symbol.
// Returns ErrNotFound when neither the substring stage nor the fuzzy stage
// produces a match.
func (r *Resolver) Resolve(query string) (string, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", ErrNotFound
	}

	if sym, ok := r.resolveSubstring(q); ok {
		r.log.Debug().Str("query", query).Str("symbol", sym).Str("stage", "substring").Msg("resolved")
		return sym, nil
	}

	if sym, ok := r.resolveFuzzy(q); ok {
		r.log.Debug().Str("query", query).Str("symbol", sym).Str("stage", "fuzzy").Msg("resolved")
		return sym, nil
	}

	r.log.Debug().Str("query", query).Msg("unresolved")
	return "", ErrNotFound
}

// =============================================================================
// STAGE 1: SUBSTRING SCAN
// =============================================================================

// resolveSubstring returns the first table entry whose ticker or full name
// appears in the lowercased query.
func (r *Resolver) resolveSubstring(q string) (string, bool) {
	for _, e := range r.entries {
		if strings.Contains(q, strings.ToLower(e.Symbol)) {
			return e.Symbol, true
		}
		if strings.Contains(q, strings.ToLower(e.Name)) {
			return e.Symbol, true
		}
	}
	return "", false
}

// =============================================================================
// STAGE 2: FUZZY MATCH
// =============================================================================

// resolveFuzzy compares the whole query against every name and ticker and
// returns the single best match at or above the cutoff.
func (r *Resolver) resolveFuzzy(q string) (string, bool) {
	bestSym := ""
	bestScore := 0.0

	for _, e := range r.entries {
		for _, cand := range []string{strings.ToLower(e.Name), strings.ToLower(e.Symbol)} {
			score := similarity(q, cand)
			if score > bestScore {
				bestScore = score
				bestSym = e.Symbol
			}
		}
	}

	if bestScore >= r.cutoff {
		return bestSym, true
	}
	return "", false
}

// similarity returns a normalized edit-distance similarity in [0, 1]:
// 1 means identical, 0 means nothing in common.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
