// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the coinassist TUI.
package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/coinassist-tui/internal/assistant"
	"github.com/jeranaias/coinassist-tui/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady    State = iota // Ready for input
	StateThinking              // A turn is in flight
)

// entry is one rendered line group in the transcript.
type entry struct {
	role    string // "user", "assistant", "error"
	content string
	note    string // source summary under an answer
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	state State
	theme *styles.Theme

	width  int
	height int
	ready  bool

	session *assistant.Session

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	entries     []entry
	showHistory bool

	ctx context.Context
}

// New creates the chat model around an assembled session.
func New(ctx context.Context, session *assistant.Session) Model {
	input := textinput.New()
	input.Placeholder = "Ask something like: what's the market cap of Solana?"
	input.Prompt = ""
	input.CharLimit = 500
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		state:   StateReady,
		theme:   styles.NewTheme(80, 24),
		session: session,
		input:   input,
		spinner: sp,
		ctx:     ctx,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// renderMarkdown renders an answer with glamour, falling back to plain text.
func (m *Model) renderMarkdown(text string) string {
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
