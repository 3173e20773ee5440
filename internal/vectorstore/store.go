// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package vectorstore provides a persisted nearest-neighbor store over
// reference text chunks.
//
// A store is a named on-disk directory containing a SQLite database. Build
// embeds every chunk and rebuilds the database in one transaction; Load
// reopens an existing store read-only and validates that the configured
// embedding model matches the one recorded at build time. Query embeds the
// question and returns the top-k passages selected by maximal marginal
// relevance, which trades pure similarity against diversity to avoid
// returning near-duplicate chunks.
package vectorstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
	"gonum.org/v1/gonum/floats"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNotFound      = errors.New("vector store not found")
	ErrNoDocuments   = errors.New("no documents to index")
	ErrModelMismatch = errors.New("embedding model mismatch")
)

// =============================================================================
// TYPES
// =============================================================================

// Retrieval defaults: k results selected by MMR out of a fetchK candidate
// pool, balancing relevance and diversity evenly.
const (
	DefaultK      = 5
	DefaultFetchK = 10
	mmrLambda     = 0.5
)

// storeFile is the database file inside the store directory.
const storeFile = "store.db"

// Document is one text chunk to index.
type Document struct {
	Content string
}

// Passage is one retrieved chunk with its relevance score.
type Passage struct {
	ID      string
	Content string
	Score   float64 // cosine similarity to the query, in [-1, 1]
}

// Embedder turns text into an embedding vector. *ollama.Client satisfies it.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, model string, text string) ([]float64, error)
}

// =============================================================================
// STORE
// =============================================================================

// Store is an open vector store bound to the embedding model used to build it.
type Store struct {
	db       *sql.DB
	dir      string
	model    string
	embedder Embedder
	log      zerolog.Logger
}

// Dir returns the store's directory.
func (s *Store) Dir() string { return s.dir }

// Model returns the embedding model the store was built with.
func (s *Store) Model() string { return s.model }

// Close releases the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// openDB opens the store database with the pragmas we always run with.
func openDB(dir string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", filepath.Join(dir, storeFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	return db, nil
}

// =============================================================================
// BUILD
// =============================================================================

// Build creates (or fully rebuilds) a store at dir from the given documents,
// embedding each one with the given model. The whole rebuild runs in one
// transaction: readers see either the old index or the new one.
func Build(ctx context.Context, dir string, embedder Embedder, model string, docs []Document, log zerolog.Logger) (*Store, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := openDB(dir)
	if err != nil {
		return nil, err
	}

	s := &Store{
		db:       db,
		dir:      dir,
		model:    model,
		embedder: embedder,
		log:      log.With().Str("component", "vectorstore").Logger(),
	}

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Embed before opening the transaction; embedding is the slow part and
	// holding the write lock across network calls buys nothing.
	type embedded struct {
		doc Document
		vec []float64
	}
	chunks := make([]embedded, 0, len(docs))
	for _, doc := range docs {
		vec, err := embedder.GenerateEmbedding(ctx, model, doc.Content)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to embed chunk: %w", err)
		}
		chunks = append(chunks, embedded{doc: doc, vec: vec})
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to clear chunks: %w", err)
	}

	now := time.Now().Unix()
	for _, chunk := range chunks {
		blob, err := msgpack.Marshal(chunk.vec)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to encode embedding: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO chunks (id, content, embedding, created_at)
			VALUES (?, ?, ?, ?)
		`, uuid.NewString(), chunk.doc.Content, blob, now)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to insert chunk: %w", err)
		}
	}

	for key, value := range map[string]string{
		metaEmbeddingModel: model,
		metaBuiltAt:        fmt.Sprintf("%d", now),
	} {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO metadata (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, value)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to write metadata: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.log.Info().Str("dir", dir).Str("model", model).Int("chunks", len(chunks)).Msg("vector store built")
	return s, nil
}

// =============================================================================
// LOAD
// =============================================================================

// Load reopens an existing store. Fails with ErrNotFound when dir does not
// exist, and with ErrModelMismatch when the configured embedding model is not
// the one the store was built with — querying with a different model would
// silently return garbage similarities.
func Load(ctx context.Context, dir string, embedder Embedder, model string, log zerolog.Logger) (*Store, error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := os.Stat(filepath.Join(dir, storeFile)); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	db, err := openDB(dir)
	if err != nil {
		return nil, err
	}

	var builtWith string
	err = db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = ?", metaEmbeddingModel).Scan(&builtWith)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to read store metadata: %w", err)
	}
	if builtWith != model {
		db.Close()
		return nil, fmt.Errorf("%w: store built with %q, configured %q", ErrModelMismatch, builtWith, model)
	}

	return &Store{
		db:       db,
		dir:      dir,
		model:    model,
		embedder: embedder,
		log:      log.With().Str("component", "vectorstore").Logger(),
	}, nil
}

// =============================================================================
// QUERY
// =============================================================================

// Query returns the k passages most relevant to the question, selected by
// maximal marginal relevance from a pool of fetchK cosine-ranked candidates.
func (s *Store) Query(ctx context.Context, question string, k, fetchK int) ([]Passage, error) {
	if k <= 0 {
		k = DefaultK
	}
	if fetchK <= 0 {
		fetchK = DefaultFetchK
	}
	if fetchK < k {
		fetchK = k
	}

	queryVec, err := s.embedder.GenerateEmbedding(ctx, s.model, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	candidates, err := s.rankAll(ctx, queryVec, fetchK)
	if err != nil {
		return nil, err
	}

	selected := selectMMR(candidates, k, mmrLambda)

	passages := make([]Passage, 0, len(selected))
	for _, c := range selected {
		passages = append(passages, Passage{ID: c.id, Content: c.content, Score: c.score})
	}
	return passages, nil
}

// Count returns the number of indexed chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// candidate is an internal ranked chunk that keeps its vector for the MMR
// diversity term.
type candidate struct {
	id      string
	content string
	vec     []float64
	score   float64
}

// rankAll scores every chunk against the query vector and returns the top
// fetchK by cosine similarity. The corpus is small (reference documents, not
// a web index), so a full scan is the honest implementation.
func (s *Store) rankAll(ctx context.Context, queryVec []float64, fetchK int) ([]candidate, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, content, embedding FROM chunks")
	if err != nil {
		return nil, fmt.Errorf("failed to scan chunks: %w", err)
	}
	defer rows.Close()

	var candidates []candidate
	for rows.Next() {
		var (
			id, content string
			blob        []byte
		)
		if err := rows.Scan(&id, &content, &blob); err != nil {
			return nil, err
		}

		var vec []float64
		if err := msgpack.Unmarshal(blob, &vec); err != nil {
			return nil, fmt.Errorf("failed to decode embedding for chunk %s: %w", id, err)
		}

		candidates = append(candidates, candidate{
			id:      id,
			content: content,
			vec:     vec,
			score:   cosine(queryVec, vec),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > fetchK {
		candidates = candidates[:fetchK]
	}
	return candidates, nil
}

// cosine returns the cosine similarity of two vectors, 0 when either has no
// magnitude or the dimensions disagree.
func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	na := math.Sqrt(floats.Dot(a, a))
	nb := math.Sqrt(floats.Dot(b, b))
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}
