// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"reflect"
	"testing"
)

func TestParse_NoArgsIsTUI(t *testing.T) {
	cmd, _ := parse(nil)
	if cmd != CmdTUI {
		t.Errorf("cmd = %v, want CmdTUI", cmd)
	}
}

func TestParse_Ask(t *testing.T) {
	cmd, args := parse([]string{"ask", "what", "is", "bitcoin?"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v, want CmdAsk", cmd)
	}
	if args.Query != "what is bitcoin?" {
		t.Errorf("query = %q", args.Query)
	}
}

func TestParse_BareQuestionIsAsk(t *testing.T) {
	cmd, args := parse([]string{"what", "is", "solana?"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v, want CmdAsk", cmd)
	}
	if args.Query != "what is solana?" {
		t.Errorf("query = %q", args.Query)
	}
}

func TestParse_HistorySubcommands(t *testing.T) {
	cmd, args := parse([]string{"history"})
	if cmd != CmdHistory || args.Subcommand != "list" {
		t.Errorf("bare history: cmd=%v sub=%q", cmd, args.Subcommand)
	}

	cmd, args = parse([]string{"history", "export", "JSON"})
	if cmd != CmdHistory || args.Subcommand != "export" || args.Format != "json" {
		t.Errorf("history export: cmd=%v sub=%q fmt=%q", cmd, args.Subcommand, args.Format)
	}

	cmd, args = parse([]string{"history", "clear"})
	if cmd != CmdHistory || args.Subcommand != "clear" {
		t.Errorf("history clear: cmd=%v sub=%q", cmd, args.Subcommand)
	}
}

func TestParse_IndexBuild(t *testing.T) {
	cmd, args := parse([]string{"index", "build", "a.txt", "b.txt"})
	if cmd != CmdIndex || args.Subcommand != "build" {
		t.Fatalf("cmd=%v sub=%q", cmd, args.Subcommand)
	}
	if !reflect.DeepEqual(args.Files, []string{"a.txt", "b.txt"}) {
		t.Errorf("files = %v", args.Files)
	}
}

func TestParse_GlobalFlags(t *testing.T) {
	cmd, args := parse([]string{"-v", "--model", "mistral", "ask", "btc?"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v, want CmdAsk", cmd)
	}
	if !args.Verbose {
		t.Error("verbose flag lost")
	}
	if args.Model != "mistral" {
		t.Errorf("model = %q", args.Model)
	}
	if args.Query != "btc?" {
		t.Errorf("query = %q", args.Query)
	}
}

func TestParse_Version(t *testing.T) {
	for _, argv := range [][]string{{"version"}, {"--version"}} {
		if cmd, _ := parse(argv); cmd != CmdVersion {
			t.Errorf("parse(%v) = %v, want CmdVersion", argv, cmd)
		}
	}
}

func TestParse_Help(t *testing.T) {
	for _, argv := range [][]string{{"help"}, {"--help"}, {"-h"}} {
		if cmd, _ := parse(argv); cmd != CmdHelp {
			t.Errorf("parse(%v) = %v, want CmdHelp", argv, cmd)
		}
	}
}
