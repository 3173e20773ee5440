// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package rag implements the retrieval-augmented answer chain: retrieve
// relevant passages from the vector store, combine them with the live market
// context and the user's question into one prompt, and run a single chat
// completion against Ollama.
package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jeranaias/coinassist-tui/internal/ollama"
	"github.com/jeranaias/coinassist-tui/internal/vectorstore"
)

// promptTemplate is the fixed instruction wrapped around every question.
// The model is told to answer only from the provided context and to admit
// ignorance rather than guess.
const promptTemplate = `You are a knowledgeable AI assistant specialized in cryptocurrency.
Answer the user's question using the provided context.
If the answer is not in the context, say "I don't know."
Avoid guessing and do not provide unrelated information.

REFERENCE PASSAGES:
%s

LIVE DATA:
%s

QUESTION:
%s

ANSWER:`

// =============================================================================
// INTERFACES
// =============================================================================

// ChatModel is the completion side of the Ollama client.
type ChatModel interface {
	Chat(ctx context.Context, model string, messages []ollama.Message) (*ollama.ChatResponse, error)
	ModelExists(ctx context.Context, model string) bool
}

// Retriever is the query side of the vector store.
type Retriever interface {
	Query(ctx context.Context, question string, k, fetchK int) ([]vectorstore.Passage, error)
}

// =============================================================================
// CHAIN
// =============================================================================

// Chain is a question-answering chain bound to one chat model and one
// retriever. Construct it once per session.
type Chain struct {
	chatModel ChatModel
	retriever Retriever
	model     string
	log       zerolog.Logger
}

// Result is one answered question with the passages that informed it.
type Result struct {
	Answer  string
	Sources []vectorstore.Passage
}

// NewChain creates a chain on the requested model. If that model is not
// available it falls back once to fallbackModel before giving up; generation
// errors after construction always propagate to the caller.
func NewChain(ctx context.Context, chatModel ChatModel, retriever Retriever, model, fallbackModel string, log zerolog.Logger) (*Chain, error) {
	clog := log.With().Str("component", "qa_chain").Logger()

	if !chatModel.ModelExists(ctx, model) {
		if fallbackModel == "" || fallbackModel == model {
			return nil, fmt.Errorf("model %q is not available", model)
		}
		clog.Warn().Str("model", model).Str("fallback", fallbackModel).Msg("model unavailable, falling back")
		if !chatModel.ModelExists(ctx, fallbackModel) {
			return nil, fmt.Errorf("neither model %q nor fallback %q is available", model, fallbackModel)
		}
		model = fallbackModel
	}

	return &Chain{
		chatModel: chatModel,
		retriever: retriever,
		model:     model,
		log:       clog,
	}, nil
}

// Model returns the model the chain settled on.
func (c *Chain) Model() string { return c.model }

// Answer retrieves passages for the question, assembles the prompt around the
// live context, and runs one completion.
func (c *Chain) Answer(ctx context.Context, liveContext, question string) (*Result, error) {
	passages, err := c.retriever.Query(ctx, question, vectorstore.DefaultK, vectorstore.DefaultFetchK)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	prompt := fmt.Sprintf(promptTemplate, renderPassages(passages), liveContext, question)

	resp, err := c.chatModel.Chat(ctx, c.model, []ollama.Message{ollama.NewUserMessage(prompt)})
	if err != nil {
		return nil, fmt.Errorf("completion failed: %w", err)
	}

	c.log.Debug().
		Str("model", c.model).
		Int("passages", len(passages)).
		Int("eval_count", resp.EvalCount).
		Msg("answered")

	return &Result{
		Answer:  strings.TrimSpace(resp.Message.Content),
		Sources: passages,
	}, nil
}

// renderPassages flattens retrieved passages into the prompt.
func renderPassages(passages []vectorstore.Passage) string {
	if len(passages) == 0 {
		return "(none)"
	}
	var sb strings.Builder
	for i, p := range passages {
		if i > 0 {
			sb.WriteString("\n---\n")
		}
		sb.WriteString(p.Content)
	}
	return sb.String()
}
