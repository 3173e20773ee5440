// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/coinassist-tui/internal/util"
)

// chromeHeight is the vertical space taken by header, input box, and status
// bar around the transcript viewport.
const chromeHeight = 7

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Starting..."
	}

	if m.showHistory {
		return m.historyView()
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.inputView())
	b.WriteString("\n")
	b.WriteString(m.statusView())
	return b.String()
}

func (m Model) headerView() string {
	title := m.theme.HeaderTitle.Render("coinassist")
	sub := m.theme.ShortcutDesc.Render("  crypto questions, answered from live data")
	return m.theme.Header.Width(m.width).Render(title + sub)
}

func (m Model) inputView() string {
	prompt := m.theme.InputPrompt.Render("> ")
	return m.theme.InputContainer.Width(m.width - 2).Render(prompt + m.input.View())
}

func (m Model) statusView() string {
	if m.state == StateThinking {
		return m.theme.StatusBar.Render(m.theme.Spinner.Render(m.spinner.View()) + " fetching data...")
	}
	parts := []string{
		m.theme.ShortcutKey.Render("enter") + m.theme.ShortcutDesc.Render(" ask"),
		m.theme.ShortcutKey.Render("ctrl+h") + m.theme.ShortcutDesc.Render(" history"),
		m.theme.ShortcutKey.Render("esc") + m.theme.ShortcutDesc.Render(" quit"),
	}
	return m.theme.StatusBar.Render(strings.Join(parts, "  "))
}

// renderEntries formats the transcript for the viewport.
func (m *Model) renderEntries() string {
	if len(m.entries) == 0 {
		return m.theme.ShortcutDesc.Render("\n  Ask about any of the top 50 cryptocurrencies.\n")
	}

	var b strings.Builder
	for i, e := range m.entries {
		if i > 0 {
			b.WriteString("\n")
		}
		switch e.role {
		case "user":
			b.WriteString(m.theme.UserLabel.Render("You") + "\n")
			b.WriteString(e.content + "\n")
		case "assistant":
			b.WriteString(m.theme.AssistantLabel.Render("Assistant") + "\n")
			b.WriteString(m.renderMarkdown(e.content) + "\n")
			if e.note != "" {
				b.WriteString(m.theme.SourceNote.Render(e.note) + "\n")
			}
		case "error":
			b.WriteString(m.theme.ErrorLabel.Render("Error: ") + m.theme.ErrorText.Render(e.content) + "\n")
		}
	}
	return b.String()
}

// historyView renders the persisted turns as a full-screen overlay.
func (m Model) historyView() string {
	turns := m.session.History()

	var b strings.Builder
	b.WriteString(m.theme.OverlayTitle.Render("Chat History") + "\n\n")
	if len(turns) == 0 {
		b.WriteString(m.theme.ShortcutDesc.Render("No history recorded.") + "\n")
	}
	for _, turn := range turns {
		b.WriteString(m.theme.OverlayTimestamp.Render(turn.Timestamp) + "\n")
		b.WriteString(fmt.Sprintf("Q: %s\n", util.TruncateRunes(turn.Question, 120)))
		b.WriteString(fmt.Sprintf("A: %s\n\n", util.TruncateRunes(turn.Answer, 240)))
	}
	b.WriteString(m.theme.ShortcutKey.Render("esc") + m.theme.ShortcutDesc.Render(" close"))

	box := m.theme.OverlayBox.Width(m.width - 4).Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
