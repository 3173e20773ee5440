// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for coinassist.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdHistory
	CmdIndex
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Verbose bool
	Model   string

	// Command-specific
	Query      string
	Subcommand string
	Format     string
	Files      []string

	// Raw args remaining after flag parsing
	Raw []string
}

const usageText = `coinassist - conversational crypto assistant

Ask questions about the top 50 cryptocurrencies. Answers combine live
market data (price, market cap, news) with a local retrieval index,
generated by a local Ollama model.

USAGE:
  coinassist                       Launch interactive chat TUI
  coinassist tui                   Same as above
  coinassist ask <question>        One-shot question, prints answer + sources
  coinassist history list          Print recorded turns
  coinassist history export <fmt>  Export history as csv or json to stdout
  coinassist history clear         Delete recorded history
  coinassist index build <file..>  Build the retrieval index from text files
  coinassist index stats           Show retrieval index stats
  coinassist version               Show version information
  coinassist help                  Show this help

GLOBAL FLAGS:
  -m, --model <name>   Override the answer model for this run
  -v, --verbose        Debug logging

CONFIGURATION:
  ~/.coinassist/config.toml        Models, Ollama URL, paths, log level
  COINMARKETCAP_API_KEY            Market cap + rank lookups (env / .env)
  CRYPTOPANIC_API_KEY              News lookups (env / .env)

EXAMPLES:
  coinassist ask "what is the market cap of solana?"
  coinassist history export json > history.json
  coinassist index build notes/*.txt
`

// Parse parses os.Args into a command and its arguments.
func Parse() (Command, Args) {
	return parse(os.Args[1:])
}

func parse(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, args

	case "ask":
		args.Query = strings.TrimSpace(strings.Join(remaining, " "))
		return CmdAsk, args

	case "history":
		if len(remaining) > 0 {
			args.Subcommand = strings.ToLower(remaining[0])
			if args.Subcommand == "export" && len(remaining) > 1 {
				args.Format = strings.ToLower(remaining[1])
			}
		} else {
			args.Subcommand = "list"
		}
		return CmdHistory, args

	case "index":
		if len(remaining) > 0 {
			args.Subcommand = strings.ToLower(remaining[0])
			args.Files = remaining[1:]
		} else {
			args.Subcommand = "stats"
		}
		return CmdIndex, args

	case "version", "--version":
		return CmdVersion, args

	case "help", "-h", "--help":
		return CmdHelp, args

	default:
		// Bare question: treat the whole argv as an ask query.
		args.Query = strings.TrimSpace(strings.Join(append([]string{cmd}, remaining...), " "))
		return CmdAsk, args
	}
}

func parseGlobalFlags(argv []string) ([]string, Args) {
	var args Args
	var remaining []string

	for i := 0; i < len(argv); i++ {
		switch argv[i] {
		case "-v", "--verbose":
			args.Verbose = true
		case "-m", "--model":
			if i+1 < len(argv) {
				i++
				args.Model = argv[i]
			}
		default:
			remaining = append(remaining, argv[i])
		}
	}
	return remaining, args
}

// HandleVersion prints version information.
func HandleVersion() {
	fmt.Printf("coinassist %s\n", Version)
	fmt.Printf("  commit:  %s\n", GitCommit)
	fmt.Printf("  built:   %s\n", BuildDate)
	fmt.Printf("  runtime: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// HandleHelp prints usage.
func HandleHelp() {
	fmt.Print(usageText)
}
