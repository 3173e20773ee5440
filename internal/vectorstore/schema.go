// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package vectorstore

// Schema is the DDL for the vector store database.
//
// chunks holds one row per indexed text chunk. Embeddings are msgpack-encoded
// []float64 blobs; chunks are immutable after build (the only update path is
// a bulk rebuild inside one transaction).
//
// metadata records build-time facts about the store, most importantly the
// embedding model name, which Load validates against the configured model.
const Schema = `
CREATE TABLE IF NOT EXISTS chunks (
	id         TEXT PRIMARY KEY,
	content    TEXT NOT NULL,
	embedding  BLOB NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS metadata (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Metadata keys.
const (
	metaEmbeddingModel = "embedding_model"
	metaBuiltAt        = "built_at"
)
