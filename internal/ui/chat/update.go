// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.Resize(msg.Width, msg.Height)
		m.input.Width = msg.Width - 6

		vpHeight := msg.Height - chromeHeight
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}

		// Glamour wraps to the viewport width.
		if r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(msg.Width-4),
		); err == nil {
			m.renderer = r
		}
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.showHistory {
				m.showHistory = false
				return m, nil
			}
			return m, tea.Quit

		case "ctrl+h":
			m.showHistory = !m.showHistory
			return m, nil

		case "enter":
			if m.state != StateReady || m.showHistory {
				return m, nil
			}
			query := strings.TrimSpace(m.input.Value())
			if query == "" {
				return m, nil
			}
			m.entries = append(m.entries, entry{role: "user", content: query})
			m.input.Reset()
			m.state = StateThinking
			m.refreshViewport()
			return m, tea.Batch(m.spinner.Tick, askCmd(m.ctx, m.session, query))
		}

	case replyMsg:
		m.state = StateReady
		m.entries = append(m.entries, entry{
			role:    "assistant",
			content: msg.reply.Answer,
			note:    sourceSummary(msg.reply),
		})
		m.refreshViewport()
		return m, nil

	case turnErrMsg:
		m.state = StateReady
		m.entries = append(m.entries, entry{role: "error", content: msg.err.Error()})
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		if m.state == StateThinking {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if !m.showHistory {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)

		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// refreshViewport re-renders the transcript and pins the view to the bottom.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderEntries())
	m.viewport.GotoBottom()
}
