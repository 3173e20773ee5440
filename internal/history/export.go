// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
)

// =============================================================================
// EXPORT
// =============================================================================

// Exporter serializes a sequence of turns into one output format.
type Exporter interface {
	// Export converts the turns to the target format.
	Export(turns []Turn) (string, error)

	// FileExtension returns the appropriate file extension (e.g. ".csv").
	FileExtension() string
}

// Export serializes the current history in the named format.
// Supported formats are "csv" (tabular, header row) and "json" (structured
// record list). Anything else fails with ErrUnsupportedFormat.
func (s *Store) Export(format string) (string, error) {
	exporter, err := ExporterFor(format)
	if err != nil {
		return "", err
	}
	return exporter.Export(s.Load())
}

// ExporterFor maps a format name to its exporter.
func ExporterFor(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "csv":
		return csvExporter{}, nil
	case "json":
		return jsonExporter{}, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// =============================================================================
// CSV
// =============================================================================

type csvExporter struct{}

func (csvExporter) Export(turns []Turn) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, turn := range turns {
		if err := w.Write([]string{turn.Timestamp, turn.Question, turn.Answer}); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (csvExporter) FileExtension() string { return ".csv" }

// =============================================================================
// JSON
// =============================================================================

type jsonExporter struct{}

func (jsonExporter) Export(turns []Turn) (string, error) {
	data, err := json.MarshalIndent(turns, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (jsonExporter) FileExtension() string { return ".json" }
