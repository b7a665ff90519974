// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieval routes parsed queries to the appropriate embedding index
// and produces ranked semantic candidates for the hybrid search path.
package retrieval

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/litsearch/internal/embed"
	"github.com/pdiddy/litsearch/internal/query"
	"github.com/pdiddy/litsearch/internal/vecindex"
)

// Candidate is one semantic retrieval result: an article identifier with its
// cosine similarity to the query.
type Candidate struct {
	ArticleID string
	Score     float64
}

// policyRule maps a class of intents to the index best suited to answer it.
// Rules are evaluated in order; the first match wins.
type policyRule struct {
	name    string
	matches func(in query.Intent) bool
	index   string
}

var routingPolicy = []policyRule{
	{
		name: "institutional",
		matches: func(in query.Intent) bool {
			return in.SearchType == query.TypeInstitutional || in.SearchType == query.TypeGeographic
		},
		index: "institution",
	},
	{
		name: "metadata",
		matches: func(in query.Intent) bool {
			return in.SearchType == query.TypeAuthor ||
				strings.Contains(strings.ToLower(in.Semantic), "keyword")
		},
		index: "metadata",
	},
	{
		name: "content",
		matches: func(in query.Intent) bool {
			return in.SearchType == query.TypeSemantic && wordCount(in.Semantic) <= 5
		},
		index: "content",
	},
}

// fallbackIndex answers intents no rule claims: long or mixed queries that
// benefit from the full composite text.
const fallbackIndex = "full"

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// selectIndex applies the routing policy to the intent.
func selectIndex(in query.Intent) string {
	for _, rule := range routingPolicy {
		if rule.matches(in) {
			return rule.index
		}
	}
	return fallbackIndex
}

// Router embeds the residual query text and searches the selected index.
type Router struct {
	embedder embed.Service
	registry *vecindex.Registry
	warn     io.Writer
}

// NewRouter returns a Router over the given embedder and index registry.
// Degradation warnings are written to warn.
func NewRouter(embedder embed.Service, registry *vecindex.Registry, warn io.Writer) *Router {
	return &Router{embedder: embedder, registry: registry, warn: warn}
}

// Search embeds the intent's residual text and returns up to k candidates
// from the routed index. Any unavailability (embedder not configured, index
// missing) degrades to an empty candidate set with a warning, never an
// error; the engine falls back to relational search.
func (r *Router) Search(ctx context.Context, in query.Intent, k int) []Candidate {
	vec, err := r.embedder.EmbedQuery(ctx, in.Semantic)
	if err != nil {
		fmt.Fprintf(r.warn, "warning: semantic search unavailable: %v\n", err)
		return nil
	}
	vecindex.Normalize(vec)

	name := selectIndex(in)
	ix, err := r.registry.Get(name)
	if err != nil && name != vecindex.DefaultName {
		ix, err = r.registry.Get(vecindex.DefaultName)
	}
	if err != nil {
		fmt.Fprintf(r.warn, "warning: no usable index for query: %v\n", err)
		return nil
	}

	hits := ix.Search(vec, k)
	candidates := make([]Candidate, len(hits))
	for i, h := range hits {
		candidates[i] = Candidate{ArticleID: h.ArticleID, Score: h.Score}
	}
	return candidates
}
