// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/recall"
	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/core"
)

func main() {
	app := &cli.App{
		Name:  "recall",
		Usage: "Hybrid search over an agent memory store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
				Value:   "./recall_db",
			},
			&cli.StringFlag{
				Name:  "embedding-host",
				Usage: "Embedding service host URL",
				Value: "http://localhost:11434/v1",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name",
				Value: "nomic-embed-text",
			},
			&cli.IntFlag{
				Name:  "dimension",
				Usage: "Embedding dimension",
				Value: core.DefaultEmbeddingDimension,
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "seed",
				Usage:     "Load documents from a JSON file into the store",
				ArgsUsage: "<documents.json>",
				Action:    seedCommand,
			},
			{
				Name:      "search",
				Usage:     "Search the store",
				ArgsUsage: "<query text>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Search mode (semantic, pattern, fulltext, hybrid)",
						Value: "hybrid",
					},
					&cli.StringFlag{
						Name:  "regex",
						Usage: "Regex pattern for pattern mode",
					},
					&cli.BoolFlag{
						Name:  "fuzzy",
						Usage: "Fuzzy match the query text in pattern mode",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   core.DefaultLimit,
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Minimum score for a result to be kept",
					},
					&cli.StringFlag{
						Name:  "user",
						Usage: "Restrict results to documents owned by this user",
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Show engine statistics for the store",
				Action: statsCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openService(c *cli.Context) (*recall.Service, error) {
	config := ai.DefaultConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithDimension(c.Int("dimension")),
	)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return recall.Open(c.String("db"),
		recall.WithAIConfig(config),
		recall.WithDimension(c.Int("dimension")),
	)
}

func seedCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected a single JSON file argument")
	}

	data, err := os.ReadFile(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to read documents file: %w", err)
	}
	var docs []*core.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return fmt.Errorf("failed to parse documents file: %w", err)
	}

	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	if err := service.AddDocuments(context.Background(), docs...); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	service.Wait()

	fmt.Fprintf(os.Stderr, "Seeded %d documents into %s\n", len(docs), c.String("db"))
	return nil
}

func searchCommand(c *cli.Context) error {
	text := strings.Join(c.Args().Slice(), " ")
	if text == "" && c.String("regex") == "" {
		return fmt.Errorf("query text or --regex is required")
	}

	query, err := buildQuery(c, text)
	if err != nil {
		return err
	}

	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	opts := core.SearchOptions{
		Limit:     c.Int("limit"),
		Threshold: c.Float64("threshold"),
		UserID:    c.String("user"),
	}
	result, err := service.Search(context.Background(), query, opts)
	if err != nil {
		return err
	}

	fmt.Printf("Found %d hits in %s\n", result.Total, result.Took)
	for i, hit := range result.Results {
		doc, getErr := service.GetDocument(context.Background(), hit.DocumentID)
		title := hit.DocumentID
		if getErr == nil && doc.Title != "" {
			title = doc.Title
		}
		fmt.Printf("%d: '%s' (%s)[%0.3f]\n", i, title, hit.DocumentID, hit.Score)
	}
	for _, b := range result.Breakdown {
		if b.Err != nil {
			fmt.Fprintf(os.Stderr, "source %s failed: %v\n", b.Source, b.Err)
		}
	}
	return nil
}

func buildQuery(c *cli.Context, text string) (core.Query, error) {
	switch mode := c.String("mode"); mode {
	case "semantic":
		return core.SemanticQuery{Text: text}, nil
	case "pattern":
		if regex := c.String("regex"); regex != "" {
			return core.PatternQuery{Kind: core.PatternRegex, Pattern: regex}, nil
		}
		if c.Bool("fuzzy") {
			return core.PatternQuery{Kind: core.PatternFuzzy, Text: text}, nil
		}
		return core.PatternQuery{Kind: core.PatternLiteral, Text: text}, nil
	case "fulltext":
		return core.FulltextQuery{Text: text}, nil
	case "hybrid":
		subqueries := []core.Subquery{
			{Query: core.SemanticQuery{Text: text}, Weight: 0.7},
			{Query: core.FulltextQuery{Text: text}, Weight: 0.3},
		}
		if regex := c.String("regex"); regex != "" {
			subqueries = append(subqueries, core.Subquery{
				Query:  core.PatternQuery{Kind: core.PatternRegex, Pattern: regex},
				Weight: 0.5,
			})
		}
		return core.HybridQuery{Subqueries: subqueries}, nil
	default:
		return nil, fmt.Errorf("invalid mode %q: must be one of semantic, pattern, fulltext, hybrid", mode)
	}
}

func statsCommand(c *cli.Context) error {
	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	semStats := service.SemanticEngine().Stats()
	patStats := service.PatternEngine().Stats()

	fmt.Printf("semantic: %d queries, avg latency %s\n", semStats.Queries, semStats.AvgLatency)
	fmt.Printf("pattern:  %d queries, avg latency %s, cache hits %d\n",
		patStats.Queries, patStats.AvgLatency, patStats.CacheHits)
	for kind, count := range patStats.PerKind {
		fmt.Printf("  %s: %d\n", kind, count)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
