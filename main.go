// coinassist TUI - a conversational assistant for the top 50 cryptocurrencies.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/coinassist-tui/internal/cli"
	"github.com/jeranaias/coinassist-tui/internal/logging"
	"github.com/jeranaias/coinassist-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		os.Exit(runTUI(args))
	case cli.CmdAsk:
		os.Exit(cli.HandleAsk(args))
	case cli.CmdHistory:
		os.Exit(cli.HandleHistory(args))
	case cli.CmdIndex:
		os.Exit(cli.HandleIndex(args))
	case cli.CmdVersion:
		cli.HandleVersion()
	case cli.CmdHelp:
		cli.HandleHelp()
	}
}

// runTUI assembles the session and hands the terminal to Bubble Tea.
func runTUI(args cli.Args) int {
	cfg, err := cli.LoadConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Bubble Tea owns stderr while running, so logs go to a file.
	logPath, err := cfg.LogPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	logFile, err := logging.OpenFile(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open log file: %v\n", err)
		return 1
	}
	defer logFile.Close()
	log := logging.New(logFile, cfg.Log.Level)

	ctx := context.Background()
	session, err := cli.BuildSession(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer session.Close()

	program := tea.NewProgram(chat.New(ctx, session), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Error().Err(err).Msg("tui exited with error")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
