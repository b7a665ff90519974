// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package indexer builds the four specialized embedding indexes from the
// article store: content (title + abstract), metadata (content + keywords +
// authors), institution (affiliations + countries + title), and full
// (everything combined).
package indexer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/litsearch/internal/embed"
	"github.com/pdiddy/litsearch/internal/store"
	"github.com/pdiddy/litsearch/internal/vecindex"
	"github.com/pdiddy/litsearch/pkg/types"
)

const (
	defaultBatchSize = 32

	// embedConcurrency bounds parallel embedding API calls per index build.
	embedConcurrency = 4
)

// Builder turns article rows into index file pairs.
type Builder struct {
	embedder  embed.Service
	registry  *vecindex.Registry
	batchSize int
	progress  io.Writer
}

// NewBuilder constructs a Builder. The registry supplies the output file
// paths so the builder and the search path always agree on layout.
func NewBuilder(embedder embed.Service, registry *vecindex.Registry, cfg types.IndexConfig, progress io.Writer) *Builder {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	return &Builder{embedder: embedder, registry: registry, batchSize: batch, progress: progress}
}

// BuildAll builds every named index from the given article sources.
func (b *Builder) BuildAll(ctx context.Context, sources []store.IndexSource) error {
	for _, name := range vecindex.Names {
		if err := b.Build(ctx, name, sources); err != nil {
			return fmt.Errorf("building %s index: %w", name, err)
		}
	}
	return nil
}

// Build composes the per-article text for one index kind, embeds it in
// batches, L2-normalizes the vectors, and writes the vector/id file pair.
// Articles whose composed text is empty are skipped.
func (b *Builder) Build(ctx context.Context, name string, sources []store.IndexSource) error {
	texts := make([]string, 0, len(sources))
	ids := make([]string, 0, len(sources))
	for _, src := range sources {
		text := composeText(name, src)
		if text == "" {
			continue
		}
		texts = append(texts, text)
		ids = append(ids, src.ScopusID)
	}
	if len(texts) == 0 {
		return fmt.Errorf("no indexable articles")
	}

	fmt.Fprintf(b.progress, "embedding %d texts for %s index\n", len(texts), name)

	vectors, err := b.embedAll(ctx, texts)
	if err != nil {
		return err
	}

	dim := b.embedder.Dim()
	flat := make([]float32, 0, len(vectors)*dim)
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("embedding %d has dimension %d, want %d", i, len(v), dim)
		}
		vecindex.Normalize(v)
		flat = append(flat, v...)
	}

	if err := vecindex.WriteFiles(b.registry.VectorPath(name), b.registry.IDsPath(name), dim, flat, ids); err != nil {
		return err
	}
	fmt.Fprintf(b.progress, "wrote %s index (%d vectors)\n", name, len(ids))
	return nil
}

// embedAll embeds texts in fixed-size batches with bounded concurrency,
// preserving order.
func (b *Builder) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)

	for start := 0; start < len(texts); start += b.batchSize {
		start := start
		end := start + b.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		g.Go(func() error {
			batch, err := b.embedder.EmbedBatch(gctx, texts[start:end])
			if err != nil {
				return err
			}
			if len(batch) != end-start {
				return fmt.Errorf("embedder returned %d vectors for %d texts", len(batch), end-start)
			}
			copy(vectors[start:end], batch)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

// composeText builds the embedding text for one article and index kind.
func composeText(name string, src store.IndexSource) string {
	var sb strings.Builder

	switch name {
	case "content":
		if src.Title != "" {
			sb.WriteString(src.Title + ". ")
		}
		sb.WriteString(src.Abstract)

	case "metadata":
		if src.Title != "" {
			sb.WriteString(src.Title + ". ")
		}
		if src.Abstract != "" {
			sb.WriteString(src.Abstract + ". ")
		}
		if src.Keywords != "" {
			sb.WriteString("Keywords: " + src.Keywords + ". ")
		}
		if src.Authors != "" {
			sb.WriteString("Authors: " + src.Authors + ". ")
		}

	case "institution":
		if src.Institutions != "" {
			sb.WriteString("Institutions: " + src.Institutions + ". ")
		}
		if src.Countries != "" {
			sb.WriteString("Countries: " + src.Countries + ". ")
		}
		if src.Title != "" {
			sb.WriteString("Title: " + src.Title)
		}

	case "full":
		if src.Title != "" {
			sb.WriteString(src.Title + ". ")
		}
		if src.Abstract != "" {
			sb.WriteString(src.Abstract + ". ")
		}
		if src.Keywords != "" {
			sb.WriteString("Keywords: " + src.Keywords + ". ")
		}
		if src.Authors != "" {
			sb.WriteString("Authors: " + src.Authors + ". ")
		}
		if src.Institutions != "" {
			sb.WriteString("Institutions: " + src.Institutions + ". ")
		}
		if src.Countries != "" {
			sb.WriteString("Countries: " + src.Countries + ". ")
		}
	}

	return strings.TrimSpace(sb.String())
}
