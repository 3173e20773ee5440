// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the coinassist TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette colors, adaptive for light and dark terminals.
var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFD700"}
	colorUser   = lipgloss.AdaptiveColor{Light: "#0550AE", Dark: "#58A6FF"}
	colorBot    = lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#3FB950"}
	colorError  = lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#F85149"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#6E7781", Dark: "#8B949E"}
	colorBorder = lipgloss.AdaptiveColor{Light: "#D0D7DE", Dark: "#30363D"}
)

// Theme holds all the styled components for the application.
type Theme struct {
	Width  int
	Height int

	// Header
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style

	// Message labels
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	ErrorLabel     lipgloss.Style
	ErrorText      lipgloss.Style
	SourceNote     lipgloss.Style

	// Input area
	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style

	// Status bar
	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Spinner      lipgloss.Style

	// History overlay
	OverlayBox       lipgloss.Style
	OverlayTitle     lipgloss.Style
	OverlayTimestamp lipgloss.Style
}

// NewTheme builds the theme for the given terminal dimensions.
func NewTheme(width, height int) *Theme {
	t := &Theme{Width: width, Height: height}

	t.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(colorBorder).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	t.UserLabel = lipgloss.NewStyle().Bold(true).Foreground(colorUser)
	t.AssistantLabel = lipgloss.NewStyle().Bold(true).Foreground(colorBot)
	t.ErrorLabel = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	t.ErrorText = lipgloss.NewStyle().Foreground(colorError)
	t.SourceNote = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	t.StatusBar = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)
	t.ShortcutKey = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(colorMuted)
	t.Spinner = lipgloss.NewStyle().Foreground(colorAccent)

	t.OverlayBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(colorAccent).
		Padding(1, 2)
	t.OverlayTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	t.OverlayTimestamp = lipgloss.NewStyle().Foreground(colorMuted)

	return t
}

// Resize updates the stored dimensions.
func (t *Theme) Resize(width, height int) {
	t.Width = width
	t.Height = height
}
