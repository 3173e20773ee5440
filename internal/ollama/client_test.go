// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(url string) *Client {
	return NewClientWithConfig(&ClientConfig{BaseURL: url, DefaultModel: "llama3"})
}

// =============================================================================
// HEALTH CHECK TESTS
// =============================================================================

func TestCheckRunning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Ollama is running"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if err := c.CheckRunning(context.Background()); err != nil {
		t.Errorf("CheckRunning error = %v", err)
	}
}

func TestCheckRunning_Down(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := newTestClient(srv.URL)
	err := c.CheckRunning(context.Background())
	if !IsNotRunning(err) {
		t.Errorf("CheckRunning error = %v, want not-running", err)
	}
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q, want /api/chat", r.URL.Path)
		}

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Stream {
			t.Error("Stream should be false")
		}
		if req.Model != "llama3" {
			t.Errorf("Model = %q, want llama3 (default)", req.Model)
		}

		json.NewEncoder(w).Encode(ChatResponse{
			Model:   req.Model,
			Message: NewAssistantMessage("hello back"),
			Done:    true,
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	resp, err := c.Chat(context.Background(), "", []Message{NewUserMessage("hello")})
	if err != nil {
		t.Fatalf("Chat error = %v", err)
	}
	if resp.Message.Content != "hello back" {
		t.Errorf("Content = %q, want %q", resp.Message.Content, "hello back")
	}
}

func TestChat_ModelNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Chat(context.Background(), "missing:7b", []Message{NewUserMessage("hi")})
	if !IsModelNotFound(err) {
		t.Errorf("Chat error = %v, want model-not-found", err)
	}
}

func TestChat_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(APIError{Error: "out of memory"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Chat(context.Background(), "llama3", []Message{NewUserMessage("hi")})
	if err == nil || err.Error() != "out of memory" {
		t.Errorf("Chat error = %v, want API error message", err)
	}
}

// =============================================================================
// EMBEDDING TESTS
// =============================================================================

func TestGenerateEmbedding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("path = %q, want /api/embeddings", r.URL.Path)
		}

		var req EmbeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Model != "nomic-embed-text" {
			t.Errorf("Model = %q, want nomic-embed-text", req.Model)
		}

		json.NewEncoder(w).Encode(EmbeddingResponse{Embedding: []float64{0.1, 0.2, 0.3}})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	vec, err := c.GenerateEmbedding(context.Background(), "nomic-embed-text", "some text")
	if err != nil {
		t.Fatalf("GenerateEmbedding error = %v", err)
	}
	if len(vec) != 3 || vec[0] != 0.1 {
		t.Errorf("Embedding = %v, want [0.1 0.2 0.3]", vec)
	}
}

// =============================================================================
// MODEL LIST TESTS
// =============================================================================

func TestModelExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ListModelsResponse{
			Models: []ModelInfo{{Name: "llama3"}, {Name: "mistral"}},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if !c.ModelExists(context.Background(), "llama3") {
		t.Error("ModelExists(llama3) = false, want true")
	}
	if c.ModelExists(context.Background(), "gemma:7b") {
		t.Error("ModelExists(gemma:7b) = true, want false")
	}
}
