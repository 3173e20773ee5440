// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeranaias/coinassist-tui/internal/history"
	"github.com/jeranaias/coinassist-tui/internal/market"
	"github.com/jeranaias/coinassist-tui/internal/rag"
	"github.com/jeranaias/coinassist-tui/internal/resolver"
	"github.com/jeranaias/coinassist-tui/internal/vectorstore"
)

// placeholderDoc seeds an empty retrieval index so the chain always has a
// store to query against.
const placeholderDoc = "This is a placeholder document used to initialize the vector store."

// ErrEmptyQuery is returned by Ask for blank input.
var ErrEmptyQuery = errors.New("empty query")

// =============================================================================
// DEPENDENCY INTERFACES
// =============================================================================

// SymbolResolver maps free text to a ticker symbol.
type SymbolResolver interface {
	Resolve(query string) (string, error)
}

// DataGateway fetches the live market snapshot for a symbol.
type DataGateway interface {
	Snapshot(ctx context.Context, symbol string) *market.Snapshot
}

// Answerer runs one retrieval-augmented completion.
type Answerer interface {
	Answer(ctx context.Context, liveContext, question string) (*rag.Result, error)
}

// HistoryRecorder persists answered turns.
type HistoryRecorder interface {
	AppendAt(question, answer, timestamp string) bool
	Load() []history.Turn
}

// =============================================================================
// SESSION
// =============================================================================

// Message is one entry of the in-memory conversation transcript.
type Message struct {
	Role    string
	Content string
}

// Reply is the outcome of one successful Ask.
type Reply struct {
	Symbol  string
	Answer  string
	Sources []vectorstore.Passage
}

// Session holds everything one conversation needs. Create it once per user
// session and Close it on teardown. Not safe for concurrent Ask calls.
type Session struct {
	resolver SymbolResolver
	gateway  DataGateway
	answerer Answerer
	history  HistoryRecorder
	store    *vectorstore.Store
	messages []Message
	log      zerolog.Logger
	now      func() time.Time
}

// Deps are the collaborators a Session is built from.
type Deps struct {
	Resolver SymbolResolver
	Gateway  DataGateway
	Answerer Answerer
	History  HistoryRecorder

	// Store is optional; when set it is closed with the session.
	Store *vectorstore.Store
}

// NewSession wires a session from already-constructed collaborators.
func NewSession(deps Deps, log zerolog.Logger) *Session {
	return &Session{
		resolver: deps.Resolver,
		gateway:  deps.Gateway,
		answerer: deps.Answerer,
		history:  deps.History,
		store:    deps.Store,
		log:      log.With().Str("component", "session").Logger(),
		now:      time.Now,
	}
}

// OpenStore loads the persisted retrieval index at dir, seeding it with a
// single placeholder chunk when none exists yet.
func OpenStore(ctx context.Context, dir string, embedder vectorstore.Embedder, model string, log zerolog.Logger) (*vectorstore.Store, error) {
	store, err := vectorstore.Load(ctx, dir, embedder, model, log)
	if err == nil {
		return store, nil
	}
	if !errors.Is(err, vectorstore.ErrNotFound) {
		return nil, err
	}
	log.Info().Str("dir", dir).Msg("no retrieval index found, seeding placeholder")
	return vectorstore.Build(ctx, dir, embedder, model, []vectorstore.Document{{Content: placeholderDoc}}, log)
}

// Ask runs one full turn: resolve, fetch, assemble, answer, record. Errors are
// returned for the UI to render; the session stays usable afterwards.
func (s *Session) Ask(ctx context.Context, query string) (*Reply, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	s.messages = append(s.messages, Message{Role: "user", Content: query})

	symbol, err := s.resolver.Resolve(query)
	if err != nil {
		if errors.Is(err, resolver.ErrNotFound) {
			return nil, fmt.Errorf("cryptocurrency not recognized, try a different name: %w", err)
		}
		return nil, err
	}
	s.log.Debug().Str("symbol", symbol).Msg("resolved")

	snap := s.gateway.Snapshot(ctx, symbol)
	liveContext := BuildContext(*snap)

	result, err := s.answerer.Answer(ctx, liveContext, query)
	if err != nil {
		return nil, err
	}

	s.messages = append(s.messages, Message{Role: "assistant", Content: result.Answer})

	ts := s.now().Format(history.TimestampLayout)
	if !s.history.AppendAt(query, result.Answer, ts) {
		s.log.Warn().Msg("failed to record turn in history")
	}

	return &Reply{
		Symbol:  symbol,
		Answer:  result.Answer,
		Sources: result.Sources,
	}, nil
}

// Messages returns the in-memory transcript of this session.
func (s *Session) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// History returns the persisted turns across all sessions.
func (s *Session) History() []history.Turn {
	return s.history.Load()
}

// Close releases the retrieval index.
func (s *Session) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
