// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// handlers.go - command handlers wiring config into the assistant pipeline.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeranaias/coinassist-tui/internal/assistant"
	"github.com/jeranaias/coinassist-tui/internal/config"
	"github.com/jeranaias/coinassist-tui/internal/history"
	"github.com/jeranaias/coinassist-tui/internal/logging"
	"github.com/jeranaias/coinassist-tui/internal/market"
	"github.com/jeranaias/coinassist-tui/internal/ollama"
	"github.com/jeranaias/coinassist-tui/internal/rag"
	"github.com/jeranaias/coinassist-tui/internal/resolver"
	"github.com/jeranaias/coinassist-tui/internal/vectorstore"
)

// LoadConfig loads the configuration, applying CLI overrides.
func LoadConfig(args Args) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if args.Model != "" {
		cfg.Models.Chat = args.Model
	}
	if args.Verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// BuildSession constructs the full pipeline from config: Ollama client,
// market gateway, retrieval index (seeded if absent), answer chain, history.
func BuildSession(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*assistant.Session, error) {
	client := ollama.NewClientWithConfig(&ollama.ClientConfig{
		BaseURL:      cfg.Ollama.URL,
		DefaultModel: cfg.Models.Chat,
	})
	if err := client.CheckRunning(ctx); err != nil {
		return nil, fmt.Errorf("ollama is not reachable at %s: %w", cfg.Ollama.URL, err)
	}

	gateway := market.NewGateway(market.GatewayConfig{
		CoinMarketCapKey: cfg.Keys.CoinMarketCap,
		CryptoPanicToken: cfg.Keys.CryptoPanic,
		NewsLimit:        cfg.Market.NewsLimit,
	}, log)

	var res assistant.SymbolResolver = resolver.New(log)
	if cfg.Market.UseDirectory {
		res = resolver.NewDirectoryResolver(resolver.New(log), gateway.Directory(), log)
	}

	storeDir, err := cfg.StoreDir()
	if err != nil {
		return nil, err
	}
	store, err := assistant.OpenStore(ctx, storeDir, client, cfg.Models.Embedding, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open retrieval index: %w", err)
	}

	chain, err := rag.NewChain(ctx, client, store, cfg.Models.Chat, cfg.Models.Fallback, log)
	if err != nil {
		store.Close()
		return nil, err
	}

	histPath, err := cfg.HistoryPath()
	if err != nil {
		store.Close()
		return nil, err
	}

	return assistant.NewSession(assistant.Deps{
		Resolver: res,
		Gateway:  gateway,
		Answerer: chain,
		History:  history.NewStore(histPath, log),
		Store:    store,
	}, log), nil
}

// HandleAsk runs one question end to end and prints the answer.
func HandleAsk(args Args) int {
	if args.Query == "" {
		fmt.Fprintln(os.Stderr, "Usage: coinassist ask <question>")
		return 1
	}

	cfg, err := LoadConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	log := logging.NewConsole(cfg.Log.Level)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	session, err := BuildSession(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer session.Close()

	reply, err := session.Ask(ctx, args.Query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Println(reply.Answer)
	if len(reply.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, p := range reply.Sources {
			fmt.Printf("  [%.2f] %s\n", p.Score, firstLine(p.Content))
		}
	}
	return 0
}

// HandleHistory serves the history subcommands: list, export, clear.
func HandleHistory(args Args) int {
	cfg, err := LoadConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	log := logging.NewConsole(cfg.Log.Level)

	histPath, err := cfg.HistoryPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	store := history.NewStore(histPath, log)

	switch args.Subcommand {
	case "list":
		turns := store.Load()
		if len(turns) == 0 {
			fmt.Println("No history recorded.")
			return 0
		}
		for _, turn := range turns {
			fmt.Printf("[%s]\nQ: %s\nA: %s\n\n", turn.Timestamp, turn.Question, turn.Answer)
		}
		return 0

	case "export":
		if args.Format == "" {
			fmt.Fprintln(os.Stderr, "Usage: coinassist history export <csv|json>")
			return 1
		}
		out, err := store.Export(args.Format)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Print(out)
		return 0

	case "clear":
		if store.Clear() {
			fmt.Println("History cleared.")
			return 0
		}
		fmt.Fprintln(os.Stderr, "Error: failed to clear history")
		return 1

	default:
		fmt.Fprintf(os.Stderr, "Unknown history subcommand %q (want list, export, or clear)\n", args.Subcommand)
		return 1
	}
}

// HandleIndex serves the index subcommands: build, stats.
func HandleIndex(args Args) int {
	cfg, err := LoadConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	log := logging.NewConsole(cfg.Log.Level)

	storeDir, err := cfg.StoreDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	client := ollama.NewClientWithConfig(&ollama.ClientConfig{BaseURL: cfg.Ollama.URL})

	switch args.Subcommand {
	case "build":
		if len(args.Files) == 0 {
			fmt.Fprintln(os.Stderr, "Usage: coinassist index build <file...>")
			return 1
		}
		var docs []vectorstore.Document
		for _, path := range args.Files {
			data, err := os.ReadFile(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return 1
			}
			docs = append(docs, vectorstore.Document{Content: string(data)})
		}
		store, err := vectorstore.Build(ctx, storeDir, client, cfg.Models.Embedding, docs, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer store.Close()
		count, _ := store.Count(ctx)
		fmt.Printf("Indexed %d chunks into %s\n", count, storeDir)
		return 0

	case "stats":
		store, err := vectorstore.Load(ctx, storeDir, client, cfg.Models.Embedding, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer store.Close()
		count, err := store.Count(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Printf("Index:  %s\n", storeDir)
		fmt.Printf("Chunks: %d\n", count)
		fmt.Printf("Model:  %s\n", store.Model())
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown index subcommand %q (want build or stats)\n", args.Subcommand)
		return 1
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
