// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litsearch/internal/catalog"
	"github.com/pdiddy/litsearch/internal/embed"
	"github.com/pdiddy/litsearch/internal/engine"
	"github.com/pdiddy/litsearch/internal/retrieval"
	"github.com/pdiddy/litsearch/internal/store"
	"github.com/pdiddy/litsearch/internal/vecindex"
	"github.com/pdiddy/litsearch/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the article corpus with a natural-language query",
	Long: `Search parses a natural-language query for temporal, author, geographic,
and institutional filters, retrieves semantic candidates from the routed
embedding index, then filters and ranks through the relational store.

Without a configured embedding API key, search degrades to relational
text search over titles, abstracts, and keywords.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	rawQuery := strings.Join(args, " ")

	st, err := store.Open(storeConfig())
	if err != nil {
		return err
	}
	defer st.Close()

	embedder, err := embed.New(embeddingConfig())
	if err != nil {
		return err
	}

	registry := vecindex.NewRegistry(indexConfig().Dir, os.Stderr)
	router := retrieval.NewRouter(embedder, registry, os.Stderr)
	cat := catalog.New(st, os.Stderr)

	searchCfg := searchConfig()
	limit, _ := cmd.Flags().GetInt("max-results")
	if limit <= 0 {
		limit = searchCfg.MaxResults
	}

	eng := engine.New(st, cat, router, os.Stderr, searchCfg.CandidateK)
	results, err := eng.Search(context.Background(), rawQuery, limit)
	if errors.Is(err, engine.ErrEmptyQuery) {
		return fmt.Errorf("query is empty: provide search terms")
	}
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	return formatSearchOutput(results, format)
}

func formatSearchOutput(results []types.ArticleResult, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(results)
	case "table", "":
	default:
		return fmt.Errorf("unsupported format %q: use table, json, or yaml", format)
	}

	if len(results) == 0 {
		fmt.Println("No articles found matching your query.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-6s  %-60s  %-10s  %s\n",
		"Rank", "Score", "Title", "Date", "Authors")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for i, r := range results {
		title := r.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		authors := r.Authors
		if len(authors) > 30 {
			authors = authors[:27] + "..."
		}
		date := r.CoverDate
		if len(date) > 10 {
			date = date[:10]
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-6.2f  %-60s  %-10s  %s\n",
			i+1, r.Relevance, title, date, authors)
	}

	fmt.Fprintf(os.Stdout, "\n%d results (%s search)\n", len(results), results[0].SearchType)
	return nil
}

func init() {
	searchCmd.Flags().Int("max-results", 0, "maximum results (0 = use config default)")
	searchCmd.Flags().String("format", "table", "output format: table, json, or yaml")

	rootCmd.AddCommand(searchCmd)
}
