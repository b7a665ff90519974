// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"strings"

	"github.com/pdiddy/litsearch/internal/store"
)

// abstractPrefixLen is how much of the abstract counts toward the text
// relevance heuristic; matches deep in the abstract are weak signals.
const abstractPrefixLen = 200

// textRelevance scores a database-matched row against the query text as
// entered. Each field the query appears in adds a fixed weight, with entity
// fields weighted above free text, and the total capped below any plausible
// semantic similarity of 1.0.
func textRelevance(queryText string, row store.ArticleRow) float64 {
	q := strings.ToLower(queryText)
	if q == "" {
		return 0
	}

	var score float64
	if strings.Contains(strings.ToLower(row.Title), q) {
		score += 0.8
	}
	if strings.Contains(prefix(strings.ToLower(row.Abstract), abstractPrefixLen), q) {
		score += 0.6
	}
	if strings.Contains(strings.ToLower(row.Keywords), q) {
		score += 0.7
	}
	if strings.Contains(strings.ToLower(row.Countries), q) {
		score += 0.9
	}
	if strings.Contains(strings.ToLower(row.Institutions), q) {
		score += 0.85
	}
	if strings.Contains(strings.ToLower(row.Authors), q) {
		score += 0.9
	}

	if score > 0.95 {
		score = 0.95
	}
	return score
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
