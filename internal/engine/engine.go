// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine runs the hybrid search pipeline: parse the query into an
// intent, retrieve semantic candidates from the routed embedding index,
// filter and join through the article store, then score and rank.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdiddy/litsearch/internal/catalog"
	"github.com/pdiddy/litsearch/internal/query"
	"github.com/pdiddy/litsearch/internal/retrieval"
	"github.com/pdiddy/litsearch/internal/store"
	"github.com/pdiddy/litsearch/pkg/types"
)

// ErrEmptyQuery is returned when the query is empty after trimming.
var ErrEmptyQuery = errors.New("query is empty")

// defaultCandidateK bounds the semantic candidate set handed to the SQL
// filter stage.
const defaultCandidateK = 50

// SemanticSearcher produces ranked article candidates for an intent. An
// unavailable searcher returns an empty set, never an error.
type SemanticSearcher interface {
	Search(ctx context.Context, in query.Intent, k int) []retrieval.Candidate
}

// ArticleQuerier is the store read path the engine depends on.
type ArticleQuerier interface {
	QueryArticles(ctx context.Context, f store.ArticleFilter) ([]store.ArticleRow, error)
}

// Engine wires the query parser, semantic router, and article store into one
// search pipeline.
type Engine struct {
	store      ArticleQuerier
	catalog    *catalog.Catalog
	router     SemanticSearcher
	warn       io.Writer
	candidateK int
}

// New returns an Engine over the given collaborators. candidateK bounds the
// semantic candidate set; zero selects the default.
func New(st ArticleQuerier, cat *catalog.Catalog, router SemanticSearcher, warn io.Writer, candidateK int) *Engine {
	if candidateK <= 0 {
		candidateK = defaultCandidateK
	}
	return &Engine{store: st, catalog: cat, router: router, warn: warn, candidateK: candidateK}
}

// Search runs the full pipeline for rawQuery and returns up to topK results
// ordered by relevance, best first. An empty query returns ErrEmptyQuery; a
// store failure is returned as an error, distinct from an empty result set.
func (e *Engine) Search(ctx context.Context, rawQuery string, topK int) ([]types.ArticleResult, error) {
	rawQuery = strings.TrimSpace(rawQuery)
	if rawQuery == "" {
		return nil, ErrEmptyQuery
	}

	ents := e.catalog.Entities(ctx)
	in := query.Parse(rawQuery, ents)

	// Semantic retrieval needs at least two residual words; shorter
	// residuals go straight to relational text search.
	var candidates []retrieval.Candidate
	if len(strings.Fields(in.Semantic)) >= 2 {
		candidates = e.router.Search(ctx, in, e.candidateK)
	}

	filter := store.ArticleFilter{
		Year:        in.Year,
		Author:      in.Author,
		Country:     in.Country,
		Institution: in.Institution,
		Limit:       topK,
	}
	if len(candidates) > 0 {
		filter.CandidateIDs = make([]string, len(candidates))
		for i, c := range candidates {
			filter.CandidateIDs[i] = c.ArticleID
		}
	} else {
		filter.TextQuery = in.Semantic
	}

	rows, err := e.store.QueryArticles(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("searching articles: %w", err)
	}

	semanticScores := make(map[string]float64, len(candidates))
	for _, c := range candidates {
		semanticScores[c.ArticleID] = c.Score
	}

	results := make([]types.ArticleResult, 0, len(rows))
	for _, row := range rows {
		// Heuristic scoring matches on the query as entered, not the
		// residual: filter spans stripped by the parser still count
		// against substring presence.
		score := semanticScores[row.ScopusID]
		if score == 0 {
			score = textRelevance(rawQuery, row)
		}
		results = append(results, types.ArticleResult{
			ScopusID:        row.ScopusID,
			Title:           row.Title,
			Abstract:        row.Abstract,
			CoverDate:       row.CoverDate,
			PublicationName: row.PublicationName,
			DOI:             row.DOI,
			Keywords:        row.Keywords,
			Authors:         row.Authors,
			Countries:       row.Countries,
			Institutions:    row.Institutions,
			Relevance:       score,
			SearchType:      string(in.SearchType),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})
	return results, nil
}
