// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litsearch/internal/embed"
	"github.com/pdiddy/litsearch/internal/indexer"
	"github.com/pdiddy/litsearch/internal/store"
	"github.com/pdiddy/litsearch/internal/vecindex"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the embedding indexes from the article store",
	Long: `Index reads every article with an abstract from the store, composes the
per-index embedding texts (content, metadata, institution, full), embeds
them in batches, and writes the vector/id file pairs the search path
loads.

Requires an embedding API key in .secrets/openai-api-key or the
embedding.api_key config setting.`,
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	idxCfg := indexConfig()
	if err := os.MkdirAll(idxCfg.Dir, 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	st, err := store.Open(storeConfig())
	if err != nil {
		return err
	}
	defer st.Close()

	sources, err := st.ArticlesForIndexing(context.Background())
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no articles with abstracts in the store: run store populate first")
	}

	embedder, err := embed.New(embeddingConfig())
	if err != nil {
		return err
	}

	registry := vecindex.NewRegistry(idxCfg.Dir, os.Stderr)
	builder := indexer.NewBuilder(embedder, registry, idxCfg, os.Stdout)

	only, _ := cmd.Flags().GetString("only")
	if only != "" {
		return builder.Build(context.Background(), only, sources)
	}
	return builder.BuildAll(context.Background(), sources)
}

func init() {
	indexCmd.Flags().String("only", "", "build a single index: content, metadata, institution, or full")

	rootCmd.AddCommand(indexCmd)
}
