// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// ArticleFilter describes one hybrid article query. All filter fields are
// substring matches combined conjunctively; CandidateIDs restricts the scan
// to the semantic candidate set, and TextQuery is the disjunctive
// title/abstract/keywords fallback used when no candidates exist.
type ArticleFilter struct {
	Year        string
	Author      string
	Country     string
	Institution string

	CandidateIDs []string
	TextQuery    string

	Limit int
}

// ArticleRow is one grouped row from the article join: the article's own
// columns plus semicolon-joined author, country, and institution lists.
type ArticleRow struct {
	ScopusID        string
	Title           string
	Abstract        string
	CoverDate       string
	PublicationName string
	DOI             string
	Keywords        string
	Authors         string
	Countries       string
	Institutions    string
}

// QueryArticles runs the grouped left-outer join over articles, authors, and
// affiliations, applying the filter conjunctively, ordered by cover date
// descending and capped at f.Limit.
func (s *Store) QueryArticles(ctx context.Context, f ArticleFilter) ([]ArticleRow, error) {
	var (
		qb   strings.Builder
		args []any
	)

	qb.WriteString(
		`SELECT A.scopus_id, A.title, A.abstract, A.cover_date,
			A.publication_name, A.doi, A.keywords,
			GROUP_CONCAT(Auth.full_name, '; ') AS authors_list,
			GROUP_CONCAT(Aff.country, '; ') AS countries_list,
			GROUP_CONCAT(Aff.institution_name, '; ') AS institutions_list
		FROM articles AS A
		LEFT JOIN article_authors AS AA ON A.scopus_id = AA.article_scopus_id
		LEFT JOIN authors AS Auth ON AA.author_id = Auth.author_id
		LEFT JOIN author_affiliations AS AuthAff ON Auth.author_id = AuthAff.author_id
		LEFT JOIN affiliations AS Aff ON AuthAff.affiliation_id = Aff.affiliation_id
		WHERE 1=1`)

	if f.Year != "" {
		qb.WriteString(` AND A.cover_date LIKE ?`)
		args = append(args, "%"+f.Year+"%")
	}
	if f.Author != "" {
		qb.WriteString(` AND Auth.full_name LIKE ?`)
		args = append(args, "%"+f.Author+"%")
	}
	if f.Country != "" {
		qb.WriteString(` AND Aff.country LIKE ?`)
		args = append(args, "%"+f.Country+"%")
	}
	if f.Institution != "" {
		qb.WriteString(` AND Aff.institution_name LIKE ?`)
		args = append(args, "%"+f.Institution+"%")
	}

	if len(f.CandidateIDs) > 0 {
		qb.WriteString(` AND A.scopus_id IN (` + placeholders(len(f.CandidateIDs)) + `)`)
		for _, id := range f.CandidateIDs {
			args = append(args, id)
		}
	} else if f.TextQuery != "" {
		qb.WriteString(` AND (A.title LIKE ? OR A.abstract LIKE ? OR A.keywords LIKE ?)`)
		term := "%" + f.TextQuery + "%"
		args = append(args, term, term, term)
	}

	qb.WriteString(`
		GROUP BY A.scopus_id, A.title, A.abstract, A.cover_date, A.publication_name, A.doi, A.keywords
		ORDER BY A.cover_date DESC
		LIMIT ?`)
	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var results []ArticleRow
	for rows.Next() {
		var r ArticleRow
		var title, abstract, coverDate, pubName, doi, kw sql.NullString
		var authorsList, countriesList, institutionsList sql.NullString
		if err := rows.Scan(
			&r.ScopusID, &title, &abstract, &coverDate, &pubName, &doi, &kw,
			&authorsList, &countriesList, &institutionsList,
		); err != nil {
			return nil, fmt.Errorf("scanning article row: %w", err)
		}
		r.Title = title.String
		r.Abstract = abstract.String
		r.CoverDate = coverDate.String
		r.PublicationName = pubName.String
		r.DOI = doi.String
		r.Keywords = kw.String
		r.Authors = authorsList.String
		r.Countries = countriesList.String
		r.Institutions = institutionsList.String
		results = append(results, r)
	}
	return results, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// DistinctCountries returns the distinct non-empty, lowercased, trimmed
// affiliation countries in sorted order.
func (s *Store) DistinctCountries(ctx context.Context) ([]string, error) {
	return s.distinctStrings(ctx,
		`SELECT DISTINCT LOWER(TRIM(country)) AS country
		 FROM affiliations
		 WHERE country IS NOT NULL AND country != ''
		 ORDER BY country`)
}

// DistinctInstitutions returns the distinct non-empty, lowercased, trimmed
// institution names in sorted order.
func (s *Store) DistinctInstitutions(ctx context.Context) ([]string, error) {
	return s.distinctStrings(ctx,
		`SELECT DISTINCT LOWER(TRIM(institution_name)) AS institution
		 FROM affiliations
		 WHERE institution_name IS NOT NULL AND institution_name != ''
		 ORDER BY institution`)
}

// DistinctAuthors returns the distinct non-empty, trimmed author full names
// in sorted order. Case is preserved so proper-name matching can stay
// case-sensitive in the query parser.
func (s *Store) DistinctAuthors(ctx context.Context) ([]string, error) {
	return s.distinctStrings(ctx,
		`SELECT DISTINCT TRIM(full_name) AS author_name
		 FROM authors
		 WHERE full_name IS NOT NULL AND full_name != ''
		 ORDER BY author_name`)
}

func (s *Store) distinctStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying distinct values: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning value: %w", err)
		}
		if v.String != "" {
			values = append(values, v.String)
		}
	}
	return values, rows.Err()
}

// IndexSource is the text material for one article used when building
// embedding indexes.
type IndexSource struct {
	ScopusID     string
	Title        string
	Abstract     string
	CoverDate    string
	Keywords     string
	Authors      string
	Institutions string
	Countries    string
}

// ArticlesForIndexing returns all articles that have a non-empty abstract,
// with their aggregated author, institution, and country lists, ordered by
// Scopus ID for stable index builds.
func (s *Store) ArticlesForIndexing(ctx context.Context) ([]IndexSource, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT A.scopus_id, A.title, A.abstract, A.cover_date, A.keywords,
			GROUP_CONCAT(Auth.full_name, '; ') AS authors_list,
			GROUP_CONCAT(Aff.institution_name, '; ') AS institutions_list,
			GROUP_CONCAT(Aff.country, '; ') AS countries_list
		FROM articles AS A
		LEFT JOIN article_authors AS AA ON A.scopus_id = AA.article_scopus_id
		LEFT JOIN authors AS Auth ON AA.author_id = Auth.author_id
		LEFT JOIN author_affiliations AS AuthAff ON Auth.author_id = AuthAff.author_id
		LEFT JOIN affiliations AS Aff ON AuthAff.affiliation_id = Aff.affiliation_id
		WHERE A.abstract IS NOT NULL AND A.abstract != ''
		GROUP BY A.scopus_id, A.title, A.abstract, A.cover_date, A.keywords
		ORDER BY A.scopus_id`)
	if err != nil {
		return nil, fmt.Errorf("querying articles for indexing: %w", err)
	}
	defer rows.Close()

	var sources []IndexSource
	for rows.Next() {
		var src IndexSource
		var title, abstract, coverDate, kw sql.NullString
		var authors, institutions, countries sql.NullString
		if err := rows.Scan(&src.ScopusID, &title, &abstract, &coverDate, &kw,
			&authors, &institutions, &countries); err != nil {
			return nil, fmt.Errorf("scanning index source: %w", err)
		}
		src.Title = title.String
		src.Abstract = abstract.String
		src.CoverDate = coverDate.String
		src.Keywords = kw.String
		src.Authors = authors.String
		src.Institutions = institutions.String
		src.Countries = countries.String
		sources = append(sources, src)
	}
	return sources, rows.Err()
}
