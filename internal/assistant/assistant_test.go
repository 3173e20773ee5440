// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeranaias/coinassist-tui/internal/history"
	"github.com/jeranaias/coinassist-tui/internal/market"
	"github.com/jeranaias/coinassist-tui/internal/rag"
	"github.com/jeranaias/coinassist-tui/internal/resolver"
	"github.com/jeranaias/coinassist-tui/internal/vectorstore"
)

// =============================================================================
// CONTEXT ASSEMBLY
// =============================================================================

func okSnapshot() market.Snapshot {
	return market.Snapshot{
		Symbol: "BTC",
		Price: market.PriceResult{Price: &market.PriceInfo{Symbol: "BTC", PriceUSD: 50000}},
		Market: market.MarketResult{Data: &market.MarketData{Symbol: "BTC", MarketCap: 980000000000, Rank: 1}},
		News: market.NewsResult{Items: []market.NewsItem{
			{Title: "BTC hits new high", URL: "https://example.com/1", Source: "CoinDesk"},
			{Title: "Miners expand capacity", URL: "https://example.com/2", Source: "The Block"},
		}},
	}
}

func TestBuildContext_AllFieldsPresent(t *testing.T) {
	got := BuildContext(okSnapshot())

	for _, want := range []string{
		"Symbol: BTC",
		"Price (BTC): $50000.00",
		"Market Cap: $980000000000, Rank: #1",
		"- BTC hits new high (CoinDesk) https://example.com/1",
		"- Miners expand capacity (The Block) https://example.com/2",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("context missing %q:\n%s", want, got)
		}
	}
}

func TestBuildContext_FailuresRenderedVerbatim(t *testing.T) {
	snap := market.Snapshot{
		Symbol: "XMR",
		Price:  market.PriceResult{Failure: &market.Failure{Kind: market.FailNetwork, Message: "connection refused"}},
		Market: market.MarketResult{Failure: &market.Failure{Kind: market.FailNotFound, Message: "no quote for XMR"}},
		News:   market.NewsResult{Failure: &market.Failure{Kind: market.FailParse, Message: "unexpected payload"}},
	}
	got := BuildContext(snap)

	for _, want := range []string{
		"error (network): connection refused",
		"error (not-found): no quote for XMR",
		"error (parse): unexpected payload",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("context missing failure marker %q:\n%s", want, got)
		}
	}
}

func TestBuildContext_EmptyNews(t *testing.T) {
	snap := okSnapshot()
	snap.News = market.NewsResult{Items: []market.NewsItem{}}
	if !strings.Contains(BuildContext(snap), "no recent news") {
		t.Error("empty news list should be stated explicitly")
	}
}

// =============================================================================
// SESSION FAKES
// =============================================================================

type fakeGateway struct {
	snap  market.Snapshot
	calls int
}

func (f *fakeGateway) Snapshot(_ context.Context, symbol string) *market.Snapshot {
	f.calls++
	s := f.snap
	s.Symbol = symbol
	return &s
}

type fakeAnswerer struct {
	result      *rag.Result
	err         error
	lastContext string
	lastQuery   string
}

func (f *fakeAnswerer) Answer(_ context.Context, liveContext, question string) (*rag.Result, error) {
	f.lastContext = liveContext
	f.lastQuery = question
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeHistory struct {
	turns []history.Turn
	fail  bool
}

func (f *fakeHistory) AppendAt(q, a, ts string) bool {
	if f.fail {
		return false
	}
	f.turns = append(f.turns, history.Turn{Timestamp: ts, Question: q, Answer: a})
	return true
}

func (f *fakeHistory) Load() []history.Turn { return f.turns }

func newTestSession(gw *fakeGateway, ans *fakeAnswerer, hist *fakeHistory) *Session {
	s := NewSession(Deps{
		Resolver: resolver.New(zerolog.Nop()),
		Gateway:  gw,
		Answerer: ans,
		History:  hist,
	}, zerolog.Nop())
	s.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

// =============================================================================
// SESSION PIPELINE
// =============================================================================

func TestAsk_FullTurn(t *testing.T) {
	gw := &fakeGateway{snap: okSnapshot()}
	ans := &fakeAnswerer{result: &rag.Result{
		Answer:  "Bitcoin trades at $50,000.",
		Sources: []vectorstore.Passage{{ID: "p1", Content: "btc background"}},
	}}
	hist := &fakeHistory{}
	s := newTestSession(gw, ans, hist)

	reply, err := s.Ask(context.Background(), "what is the bitcoin price?")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if reply.Symbol != "BTC" {
		t.Errorf("symbol = %q, want BTC", reply.Symbol)
	}
	if reply.Answer != "Bitcoin trades at $50,000." {
		t.Errorf("unexpected answer %q", reply.Answer)
	}
	if len(reply.Sources) != 1 {
		t.Errorf("sources = %d, want 1", len(reply.Sources))
	}
	if !strings.Contains(ans.lastContext, "Symbol: BTC") {
		t.Error("live context was not assembled from the snapshot")
	}
	if ans.lastQuery != "what is the bitcoin price?" {
		t.Errorf("question not forwarded: %q", ans.lastQuery)
	}
	if len(hist.turns) != 1 || hist.turns[0].Timestamp != "2025-03-01 12:00:00" {
		t.Errorf("history not recorded: %+v", hist.turns)
	}

	msgs := s.Messages()
	if len(msgs) != 2 || msgs[0].Role != "user" || msgs[1].Role != "assistant" {
		t.Errorf("unexpected transcript: %+v", msgs)
	}
}

func TestAsk_UnresolvedSkipsNetwork(t *testing.T) {
	gw := &fakeGateway{snap: okSnapshot()}
	ans := &fakeAnswerer{}
	s := newTestSession(gw, ans, &fakeHistory{})

	_, err := s.Ask(context.Background(), "tell me about the weather")
	if err == nil {
		t.Fatal("expected error for unresolvable query")
	}
	if !errors.Is(err, resolver.ErrNotFound) {
		t.Errorf("error should wrap resolver.ErrNotFound, got %v", err)
	}
	if gw.calls != 0 {
		t.Errorf("gateway called %d times for unresolved query, want 0", gw.calls)
	}
}

func TestAsk_EmptyQuery(t *testing.T) {
	s := newTestSession(&fakeGateway{}, &fakeAnswerer{}, &fakeHistory{})
	if _, err := s.Ask(context.Background(), "   "); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("err = %v, want ErrEmptyQuery", err)
	}
}

func TestAsk_GenerationErrorKeepsSessionUsable(t *testing.T) {
	gw := &fakeGateway{snap: okSnapshot()}
	ans := &fakeAnswerer{err: errors.New("model crashed")}
	hist := &fakeHistory{}
	s := newTestSession(gw, ans, hist)

	if _, err := s.Ask(context.Background(), "bitcoin?"); err == nil {
		t.Fatal("expected generation error")
	}
	if len(hist.turns) != 0 {
		t.Error("failed turn must not be recorded")
	}

	ans.err = nil
	ans.result = &rag.Result{Answer: "recovered"}
	if _, err := s.Ask(context.Background(), "bitcoin?"); err != nil {
		t.Fatalf("session unusable after error: %v", err)
	}
}

func TestAsk_HistoryFailureDoesNotFailTurn(t *testing.T) {
	gw := &fakeGateway{snap: okSnapshot()}
	ans := &fakeAnswerer{result: &rag.Result{Answer: "ok"}}
	s := newTestSession(gw, ans, &fakeHistory{fail: true})

	if _, err := s.Ask(context.Background(), "bitcoin?"); err != nil {
		t.Fatalf("history failure must not fail the turn: %v", err)
	}
}
