// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/coinassist-tui/internal/assistant"
)

// replyMsg delivers a finished turn back to the update loop.
type replyMsg struct {
	reply *assistant.Reply
}

// turnErrMsg delivers a failed turn. The session stays usable.
type turnErrMsg struct {
	err error
}

// askCmd runs one turn in the background.
func askCmd(ctx context.Context, session *assistant.Session, query string) tea.Cmd {
	return func() tea.Msg {
		reply, err := session.Ask(ctx, query)
		if err != nil {
			return turnErrMsg{err: err}
		}
		return replyMsg{reply: reply}
	}
}

// sourceSummary condenses retrieval scores for the status note.
func sourceSummary(reply *assistant.Reply) string {
	if len(reply.Sources) == 0 {
		return ""
	}
	return fmt.Sprintf("%s · %d passages", reply.Symbol, len(reply.Sources))
}
