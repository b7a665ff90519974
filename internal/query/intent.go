// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query parses raw natural-language queries into a structured search
// intent: a residual semantic query plus optional year, author, country, and
// institution filters.
package query

import (
	"regexp"
	"strings"

	"github.com/pdiddy/litsearch/internal/catalog"
)

// Type classifies a query's dominant filter dimension.
type Type string

const (
	TypeSemantic      Type = "semantic"
	TypeTemporal      Type = "temporal"
	TypeAuthor        Type = "author"
	TypeGeographic    Type = "geographic"
	TypeInstitutional Type = "institutional"

	// TypeDatabase marks queries whose residual semantic text is too short
	// for vector search; the engine relies on relational text search instead.
	TypeDatabase Type = "database"
)

// Intent is the parsed form of one query. Filters are additive: every
// detector that fires records its filter, and the detectors run in a fixed
// order (temporal, author, geographic, institutional), so the last detector
// that fires owns SearchType. This mirrors the long-standing behavior of the
// search UI and is relied on by the retrieval router's index selection.
type Intent struct {
	// Semantic is the residual query text after filter spans are removed,
	// whitespace-normalized.
	Semantic string

	Year        string
	Author      string
	Country     string
	Institution string

	SearchType Type
}

// detector inspects the intent's residual text and, on a successful match,
// records its filter, trims the matched span, and overwrites SearchType.
type detector func(in *Intent, ents catalog.Entities)

var detectors = []detector{
	detectTemporal,
	detectAuthor,
	detectGeographic,
	detectInstitutional,
}

// Parse runs the detector pipeline over raw and returns the structured
// intent. Entity-based detectors (author, geographic, institutional) are
// skipped when the corresponding catalog set is empty.
func Parse(raw string, ents catalog.Entities) Intent {
	in := Intent{
		Semantic:   strings.TrimSpace(raw),
		SearchType: TypeSemantic,
	}

	for _, d := range detectors {
		d(&in, ents)
	}

	in.Semantic = strings.Join(strings.Fields(in.Semantic), " ")

	// Residual under two words cannot carry a useful embedding; without a
	// specific filter tag, route the query to relational text search.
	if in.SearchType == TypeSemantic && wordCount(in.Semantic) < 2 {
		in.SearchType = TypeDatabase
	}
	return in
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// removeSpan deletes s[start:end], leaving a single space so neighbouring
// words do not merge. Final whitespace normalization happens in Parse.
func removeSpan(s string, start, end int) string {
	return s[:start] + " " + s[end:]
}

// --- temporal ---

var yearPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:from|in|during|year|published)\s+(\d{4})\b`),
	regexp.MustCompile(`(?i)\b(\d{4})\s+(?:articles|papers|publications|research|studies)\b`),
	regexp.MustCompile(`(?i)\b(?:since|after)\s+(\d{4})\b`),
	regexp.MustCompile(`\b(\d{4})\s*[-–]\s*(\d{4})\b`),
	regexp.MustCompile(`\b(\d{4})\b`),
}

func detectTemporal(in *Intent, _ catalog.Entities) {
	for _, p := range yearPatterns {
		m := p.FindStringSubmatchIndex(in.Semantic)
		if m == nil {
			continue
		}
		in.Year = in.Semantic[m[2]:m[3]]
		in.Semantic = removeSpan(in.Semantic, m[0], m[1])
		in.SearchType = TypeTemporal
		return
	}
}

// --- author ---

// Author patterns stay case-sensitive: the capitalization of proper names is
// the main signal separating "by Smith" from ordinary words.
var authorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:by|author|from)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\b`),
	regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\s+(?:et\s+al\.?|and\s+colleagues)\b`),
	regexp.MustCompile(`\b(?:authored by|written by|research by)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\b`),
	regexp.MustCompile(`\b([A-Z][a-z]+)\s+(?:papers|articles|publications|research)\b`),
}

func detectAuthor(in *Intent, ents catalog.Entities) {
	if len(ents.Authors) == 0 {
		return
	}
	for _, p := range authorPatterns {
		m := p.FindStringSubmatchIndex(in.Semantic)
		if m == nil {
			continue
		}
		candidate := in.Semantic[m[2]:m[3]]

		// Accept the candidate only if it matches a known author name;
		// this suppresses false positives from capitalized non-names.
		if !knownAuthor(candidate, ents.Authors) {
			continue
		}

		in.Author = candidate
		in.Semantic = removeSpan(in.Semantic, m[0], m[1])
		in.SearchType = TypeAuthor
		return
	}
}

func knownAuthor(candidate string, authors []string) bool {
	lower := strings.ToLower(candidate)
	for _, a := range authors {
		if strings.Contains(strings.ToLower(a), lower) {
			return true
		}
	}
	return false
}

// --- geographic ---

func detectGeographic(in *Intent, ents catalog.Entities) {
	if len(ents.Countries) == 0 {
		return
	}

	alt := quoteAlternation(ents.Countries)
	patterns := []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:from|in)\s+(` + alt + `)\b`),
		regexp.MustCompile(`(?i)\b(` + alt + `)\s+(?:papers|articles|research|publications|studies)\b`),
		regexp.MustCompile(`(?i)\b(?:research from|studies from|papers from)\s+(` + alt + `)\b`),
	}

	for _, p := range patterns {
		m := p.FindStringSubmatchIndex(in.Semantic)
		if m == nil {
			continue
		}
		in.Country = strings.ToLower(in.Semantic[m[2]:m[3]])
		in.Semantic = removeSpan(in.Semantic, m[0], m[1])
		in.SearchType = TypeGeographic
		return
	}
}

func quoteAlternation(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = regexp.QuoteMeta(v)
	}
	return strings.Join(quoted, "|")
}

// --- institutional ---

// detectInstitutional does approximate word-level matching: any institution
// word longer than three characters that overlaps a query token, confirmed
// by a cue-word pattern, counts as a match. The filter holds the matched
// word, not the full institution name.
func detectInstitutional(in *Intent, ents catalog.Entities) {
	if len(ents.Institutions) == 0 {
		return
	}

	queryWords := strings.Fields(strings.ToLower(in.Semantic))

	for _, institution := range ents.Institutions {
		for _, instWord := range strings.Fields(institution) {
			if len(instWord) <= 3 {
				continue
			}
			if !overlapsAny(instWord, queryWords) {
				continue
			}
			if !confirmInstitution(in.Semantic, instWord) {
				continue
			}

			in.Institution = instWord
			q := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(instWord))
			in.Semantic = q.ReplaceAllString(in.Semantic, " ")
			in.SearchType = TypeInstitutional
			return
		}
	}
}

func overlapsAny(instWord string, queryWords []string) bool {
	for _, qw := range queryWords {
		if strings.Contains(qw, instWord) || strings.Contains(instWord, qw) {
			return true
		}
	}
	return false
}

func confirmInstitution(text, word string) bool {
	q := regexp.QuoteMeta(word)
	cues := []string{
		`(?i)\b(?:from|at)\s+.*?` + q,
		`(?i)` + q + `.*?\s+(?:papers|research|publications|studies)\b`,
		`(?i)\b(?:research from|studies from|papers from)\s+.*?` + q,
	}
	for _, cue := range cues {
		if regexp.MustCompile(cue).MatchString(text) {
			return true
		}
	}
	return false
}
