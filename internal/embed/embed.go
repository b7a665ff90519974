// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embed provides the text embedding service used for query routing
// and index building. The production implementation wraps an OpenAI-compatible
// embedding endpoint; when no API key is configured a noop service is
// returned so the rest of the pipeline degrades to database search.
package embed

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/embedding/openai"
	"github.com/cloudwego/eino/components/embedding"

	"github.com/pdiddy/litsearch/pkg/types"
)

// Service turns text into embedding vectors.
type Service interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	ModelName() string
	Dim() int
}

type openaiAdapter struct {
	cfg   types.EmbeddingConfig
	inner embedding.Embedder
}

// New constructs the embedding service from configuration. An empty API key
// yields a noop service whose calls always fail; callers treat that failure
// as "semantic search unavailable".
func New(cfg types.EmbeddingConfig) (Service, error) {
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.Dim == 0 {
		cfg.Dim = 1536
	}

	if cfg.APIKey == "" {
		return &noopService{cfg: cfg}, nil
	}

	inner, err := openai.NewEmbedder(context.Background(), &openai.EmbeddingConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating embedding client: %w", err)
	}
	return &openaiAdapter{cfg: cfg, inner: inner}, nil
}

func (a *openaiAdapter) ModelName() string { return a.cfg.Model }
func (a *openaiAdapter) Dim() int          { return a.cfg.Dim }

func (a *openaiAdapter) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("query text is empty")
	}
	vecs, err := a.inner.EmbedStrings(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	return toFloat32(vecs[0]), nil
}

func (a *openaiAdapter) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts to embed")
	}
	vecs64, err := a.inner.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding batch: %w", err)
	}
	vecs32 := make([][]float32, len(vecs64))
	for i, v := range vecs64 {
		vecs32[i] = toFloat32(v)
	}
	return vecs32, nil
}

// noopService stands in when no API key is configured.
type noopService struct {
	cfg types.EmbeddingConfig
}

func (n *noopService) ModelName() string { return n.cfg.Model }
func (n *noopService) Dim() int          { return n.cfg.Dim }

func (n *noopService) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("embedder not configured (missing API key)")
}

func (n *noopService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, fmt.Errorf("embedder not configured (missing API key)")
}

func toFloat32(v []float64) []float32 {
	ret := make([]float32, len(v))
	for i, val := range v {
		ret[i] = float32(val)
	}
	return ret
}
