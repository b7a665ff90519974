// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/litsearch/internal/catalog"
	"github.com/pdiddy/litsearch/internal/query"
	"github.com/pdiddy/litsearch/internal/retrieval"
	"github.com/pdiddy/litsearch/internal/store"
	"github.com/pdiddy/litsearch/pkg/types"
)

// fakeRouter returns a fixed candidate set and records the intent it saw.
type fakeRouter struct {
	candidates []retrieval.Candidate
	gotIntent  query.Intent
	calls      int
}

func (f *fakeRouter) Search(ctx context.Context, in query.Intent, k int) []retrieval.Candidate {
	f.calls++
	f.gotIntent = in
	return f.candidates
}

type failingStore struct{}

func (failingStore) QueryArticles(ctx context.Context, f store.ArticleFilter) ([]store.ArticleRow, error) {
	return nil, errors.New("disk I/O error")
}

func newTestEngine(t *testing.T, router SemanticSearcher) (*Engine, *store.Store) {
	t.Helper()

	s, err := store.Open(types.StoreConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	require.NoError(t, s.InitSchema(ctx))

	var out bytes.Buffer
	_, err = s.Populate(ctx, engineFixtures(), &out)
	require.NoError(t, err)

	cat := catalog.New(s, &out)
	return New(s, cat, router, &out, 0), s
}

func engineFixtures() []types.ArticleRecord {
	return []types.ArticleRecord{
		{
			ScopusID:  "2-s2.0-101",
			Title:     "Graph neural networks for drug discovery",
			Abstract:  "We survey message passing architectures.",
			CoverDate: "2022-05-01",
			Keywords:  "graphs, drugs",
			Authors: []types.AuthorRecord{
				{ScopusAuthorID: "a-1", FullName: "Garcia M.", AffiliationIDs: []string{"f-1"}},
			},
			Affiliations: []types.AffiliationRecord{
				{ScopusAffiliationID: "f-1", InstitutionName: "Max Planck Institute", Country: "Germany"},
			},
		},
		{
			ScopusID:  "2-s2.0-102",
			Title:     "Battery degradation modeling",
			Abstract:  "Lithium-ion capacity fade under cycling.",
			CoverDate: "2021-11-20",
			Keywords:  "battery, lithium",
			Authors: []types.AuthorRecord{
				{ScopusAuthorID: "a-2", FullName: "Smith J.", AffiliationIDs: []string{"f-2"}},
			},
			Affiliations: []types.AffiliationRecord{
				{ScopusAffiliationID: "f-2", InstitutionName: "Stanford University", Country: "United States"},
			},
		},
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	eng, _ := newTestEngine(t, &fakeRouter{})

	_, err := eng.Search(context.Background(), "   ", 10)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSearchSemanticCandidates(t *testing.T) {
	router := &fakeRouter{candidates: []retrieval.Candidate{
		{ArticleID: "2-s2.0-101", Score: 0.87},
	}}
	eng, _ := newTestEngine(t, router)

	results, err := eng.Search(context.Background(), "drug discovery with graphs", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "2-s2.0-101", results[0].ScopusID)
	assert.InDelta(t, 0.87, results[0].Relevance, 1e-9)
	assert.Equal(t, "semantic", results[0].SearchType)
	assert.Equal(t, 1, router.calls)
}

func TestSearchDatabaseFallback(t *testing.T) {
	// No semantic candidates: the engine falls back to relational text
	// search and the heuristic score.
	eng, _ := newTestEngine(t, &fakeRouter{})

	results, err := eng.Search(context.Background(), "battery degradation", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "2-s2.0-102", results[0].ScopusID)
	// Title match only: 0.8.
	assert.InDelta(t, 0.8, results[0].Relevance, 1e-9)
}

func TestSearchShortQuerySkipsSemanticRetrieval(t *testing.T) {
	router := &fakeRouter{}
	eng, _ := newTestEngine(t, router)

	results, err := eng.Search(context.Background(), "battery", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "database", results[0].SearchType)
	assert.Equal(t, 0, router.calls, "single-word residuals must not hit the vector index")
}

func TestSearchYearFilter(t *testing.T) {
	eng, _ := newTestEngine(t, &fakeRouter{})

	results, err := eng.Search(context.Background(), "battery degradation from 2021", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "2-s2.0-102", results[0].ScopusID)
	assert.Equal(t, "temporal", results[0].SearchType)

	// Same query against a year with no matching articles.
	results, err = eng.Search(context.Background(), "battery degradation from 2019", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchHeuristicScoresQueryAsEntered(t *testing.T) {
	eng, _ := newTestEngine(t, &fakeRouter{})
	ctx := context.Background()

	// The year tag is stripped before the SQL text fallback runs, but the
	// heuristic still matches on the full query string: "battery
	// degradation from 2021" is not a substring of any article field, so
	// the row is found by the residual yet scores zero.
	results, err := eng.Search(ctx, "battery degradation from 2021", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 0.0, results[0].Relevance, 1e-9)

	// With no filter tag the entered query equals the residual and the
	// title match scores normally.
	results, err = eng.Search(ctx, "battery degradation", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 0.8, results[0].Relevance, 1e-9)
}

func TestSearchAuthorFilter(t *testing.T) {
	eng, _ := newTestEngine(t, &fakeRouter{})

	results, err := eng.Search(context.Background(), "capacity fade by Smith", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "2-s2.0-102", results[0].ScopusID)
	assert.Equal(t, "author", results[0].SearchType)
}

func TestSearchRanksSemanticAboveWeakTextMatches(t *testing.T) {
	router := &fakeRouter{candidates: []retrieval.Candidate{
		{ArticleID: "2-s2.0-101", Score: 0.91},
		{ArticleID: "2-s2.0-102", Score: 0.42},
	}}
	eng, _ := newTestEngine(t, router)

	results, err := eng.Search(context.Background(), "energy storage research", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "2-s2.0-101", results[0].ScopusID)
	assert.Equal(t, "2-s2.0-102", results[1].ScopusID)
	assert.Greater(t, results[0].Relevance, results[1].Relevance)
}

func TestSearchStoreFailure(t *testing.T) {
	var out bytes.Buffer
	s, err := store.Open(types.StoreConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.InitSchema(context.Background()))

	cat := catalog.New(s, &out)
	eng := New(failingStore{}, cat, &fakeRouter{}, &out, 0)

	_, err = eng.Search(context.Background(), "anything here", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
}

func TestTextRelevanceCap(t *testing.T) {
	row := store.ArticleRow{
		Title:        "machine learning",
		Abstract:     "machine learning everywhere",
		Keywords:     "machine learning",
		Countries:    "machine learning",
		Institutions: "machine learning",
		Authors:      "machine learning",
	}
	assert.Equal(t, 0.95, textRelevance("machine learning", row))
}

func TestTextRelevanceAbstractPrefixOnly(t *testing.T) {
	deep := make([]byte, 250)
	for i := range deep {
		deep[i] = 'x'
	}
	row := store.ArticleRow{Abstract: string(deep) + " quantum"}
	assert.Equal(t, 0.0, textRelevance("quantum", row))

	row = store.ArticleRow{Abstract: "quantum " + string(deep)}
	assert.InDelta(t, 0.6, textRelevance("quantum", row), 1e-9)
}
