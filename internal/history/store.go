// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history persists the question/answer log as a CSV file.
//
// The log is a plain tabular file with a header row and one row per turn:
// timestamp, question, answer. Appending reloads the existing file, adds one
// row preserving order, and rewrites the whole file atomically. Persistence
// errors degrade to empty/false results; they never crash the interaction.
package history

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeranaias/coinassist-tui/internal/util"
)

// TimestampLayout is the wire format of a turn's timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// ErrUnsupportedFormat is returned by Export for formats other than csv/json.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// csvHeader is the header row of the persisted log.
var csvHeader = []string{"timestamp", "question", "answer"}

// Turn is one question/answer pair. Turns are never mutated once appended;
// insertion order is chronological and significant.
type Turn struct {
	Timestamp string `json:"timestamp"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
}

// =============================================================================
// STORE
// =============================================================================

// Store reads and writes the chat history log.
type Store struct {
	path string
	log  zerolog.Logger
}

// NewStore creates a store over the given CSV file path. The file is created
// lazily on first append.
func NewStore(path string, log zerolog.Logger) *Store {
	return &Store{
		path: path,
		log:  log.With().Str("component", "history").Logger(),
	}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// =============================================================================
// APPEND
// =============================================================================

// Append records a turn stamped with the current time. Returns false when the
// log cannot be written; the failure is logged, not raised.
func (s *Store) Append(question, answer string) bool {
	return s.AppendAt(question, answer, time.Now().Format(TimestampLayout))
}

// AppendAt records a turn with an explicit timestamp.
func (s *Store) AppendAt(question, answer, timestamp string) bool {
	turns := s.Load()
	turns = append(turns, Turn{Timestamp: timestamp, Question: question, Answer: answer})

	if err := s.write(turns); err != nil {
		s.log.Error().Err(err).Msg("failed to write chat history")
		return false
	}
	return true
}

// write serializes all turns and replaces the log atomically.
func (s *Store) write(turns []Turn) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, turn := range turns {
		if err := w.Write([]string{turn.Timestamp, turn.Question, turn.Answer}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	return util.AtomicWriteFile(s.path, buf.Bytes(), 0644)
}

// =============================================================================
// LOAD
// =============================================================================

// Load returns all persisted turns in insertion order. A missing log is an
// empty history, not a fault; a corrupted log is logged and treated the same.
func (s *Store) Load() []Turn {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Error().Err(err).Msg("failed to read chat history")
		}
		return []Turn{}
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to parse chat history")
		return []Turn{}
	}

	turns := make([]Turn, 0, len(records))
	for i, rec := range records {
		if i == 0 || len(rec) != 3 {
			continue // header row, or a row we cannot interpret
		}
		turns = append(turns, Turn{Timestamp: rec[0], Question: rec[1], Answer: rec[2]})
	}
	return turns
}

// =============================================================================
// CLEAR
// =============================================================================

// Clear deletes the persisted log. Returns true if a log was removed, false
// if none existed or the removal failed.
func (s *Store) Clear() bool {
	if err := os.Remove(s.path); err != nil {
		if !os.IsNotExist(err) {
			s.log.Error().Err(err).Msg("failed to clear chat history")
		}
		return false
	}
	return true
}
