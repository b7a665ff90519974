// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store manages the Scopus article database: schema creation, bulk
// population from acquisition records, and the read-only queries the search
// path runs against articles, authors, and affiliations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/litsearch/pkg/types"
)

// Store wraps the SQLite article database. One Store is constructed at
// startup and shared; database/sql checks connections out per call, so
// sequential queries never hold a handle between requests.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the article database at cfg.Path.
func Open(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = "scopus.db"
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// InitSchema drops any existing tables and creates the five-table schema:
// articles, authors, affiliations, and the two many-to-many join tables.
func (s *Store) InitSchema(ctx context.Context) error {
	statements := []string{
		`DROP TABLE IF EXISTS article_authors`,
		`DROP TABLE IF EXISTS author_affiliations`,
		`DROP TABLE IF EXISTS authors`,
		`DROP TABLE IF EXISTS affiliations`,
		`DROP TABLE IF EXISTS articles`,
		`CREATE TABLE articles (
			scopus_id TEXT PRIMARY KEY,
			title TEXT,
			abstract TEXT,
			cover_date TEXT,
			publication_name TEXT,
			doi TEXT,
			keywords TEXT,
			subject_area TEXT
		)`,
		`CREATE TABLE authors (
			author_id INTEGER PRIMARY KEY AUTOINCREMENT,
			scopus_author_id TEXT UNIQUE,
			full_name TEXT,
			orcid TEXT
		)`,
		`CREATE TABLE affiliations (
			affiliation_id INTEGER PRIMARY KEY AUTOINCREMENT,
			scopus_affiliation_id TEXT UNIQUE,
			institution_name TEXT,
			country TEXT
		)`,
		`CREATE TABLE article_authors (
			article_scopus_id TEXT,
			author_id INTEGER,
			PRIMARY KEY (article_scopus_id, author_id),
			FOREIGN KEY (article_scopus_id) REFERENCES articles(scopus_id) ON DELETE CASCADE,
			FOREIGN KEY (author_id) REFERENCES authors(author_id) ON DELETE CASCADE
		)`,
		`CREATE TABLE author_affiliations (
			author_id INTEGER,
			affiliation_id INTEGER,
			PRIMARY KEY (author_id, affiliation_id),
			FOREIGN KEY (author_id) REFERENCES authors(author_id) ON DELETE CASCADE,
			FOREIGN KEY (affiliation_id) REFERENCES affiliations(affiliation_id) ON DELETE CASCADE
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// PopulateSummary holds counts from a population run.
type PopulateSummary struct {
	Articles     int
	Authors      int
	Affiliations int
	Skipped      int
}

// Populate loads acquisition records into the store inside one transaction.
// Authors and affiliations are deduplicated on their Scopus identifiers;
// records without a Scopus article ID are skipped.
func (s *Store) Populate(ctx context.Context, records []types.ArticleRecord, w io.Writer) (PopulateSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PopulateSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var summary PopulateSummary

	// Affiliation and author rows are shared across articles; map the
	// Scopus identifiers to the local AUTOINCREMENT keys as we go.
	affilIDs := make(map[string]int64)
	authorIDs := make(map[string]int64)

	for _, rec := range records {
		if rec.ScopusID == "" {
			summary.Skipped++
			continue
		}

		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO articles
				(scopus_id, title, abstract, cover_date, publication_name, doi, keywords, subject_area)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ScopusID, rec.Title, rec.Abstract, rec.CoverDate,
			rec.PublicationName, rec.DOI, rec.Keywords, rec.SubjectArea,
		)
		if err != nil {
			return summary, fmt.Errorf("inserting article %s: %w", rec.ScopusID, err)
		}
		summary.Articles++

		for _, aff := range rec.Affiliations {
			if aff.ScopusAffiliationID == "" {
				continue
			}
			if _, ok := affilIDs[aff.ScopusAffiliationID]; ok {
				continue
			}
			id, err := upsertAffiliation(ctx, tx, aff)
			if err != nil {
				return summary, fmt.Errorf("inserting affiliation for %s: %w", rec.ScopusID, err)
			}
			affilIDs[aff.ScopusAffiliationID] = id
			summary.Affiliations++
		}

		for _, auth := range rec.Authors {
			key := auth.ScopusAuthorID
			if key == "" {
				key = auth.FullName
			}
			if key == "" {
				continue
			}

			id, ok := authorIDs[key]
			if !ok {
				id, err = upsertAuthor(ctx, tx, auth)
				if err != nil {
					return summary, fmt.Errorf("inserting author for %s: %w", rec.ScopusID, err)
				}
				authorIDs[key] = id
				summary.Authors++
			}

			_, err = tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO article_authors (article_scopus_id, author_id) VALUES (?, ?)`,
				rec.ScopusID, id,
			)
			if err != nil {
				return summary, fmt.Errorf("linking author to %s: %w", rec.ScopusID, err)
			}

			for _, affID := range auth.AffiliationIDs {
				localAff, ok := affilIDs[affID]
				if !ok {
					continue
				}
				_, err = tx.ExecContext(ctx,
					`INSERT OR IGNORE INTO author_affiliations (author_id, affiliation_id) VALUES (?, ?)`,
					id, localAff,
				)
				if err != nil {
					return summary, fmt.Errorf("linking affiliation for %s: %w", rec.ScopusID, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing population: %w", err)
	}

	fmt.Fprintf(w, "populated %d articles, %d authors, %d affiliations (%d skipped)\n",
		summary.Articles, summary.Authors, summary.Affiliations, summary.Skipped)
	return summary, nil
}

func upsertAffiliation(ctx context.Context, tx *sql.Tx, aff types.AffiliationRecord) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT affiliation_id FROM affiliations WHERE scopus_affiliation_id = ?`,
		aff.ScopusAffiliationID,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO affiliations (scopus_affiliation_id, institution_name, country) VALUES (?, ?, ?)`,
		aff.ScopusAffiliationID, aff.InstitutionName, aff.Country,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func upsertAuthor(ctx context.Context, tx *sql.Tx, auth types.AuthorRecord) (int64, error) {
	if auth.ScopusAuthorID != "" {
		var id int64
		err := tx.QueryRowContext(ctx,
			`SELECT author_id FROM authors WHERE scopus_author_id = ?`,
			auth.ScopusAuthorID,
		).Scan(&id)
		if err == nil {
			return id, nil
		}
		if err != sql.ErrNoRows {
			return 0, err
		}
	}

	scopusID := sql.NullString{String: auth.ScopusAuthorID, Valid: auth.ScopusAuthorID != ""}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO authors (scopus_author_id, full_name, orcid) VALUES (?, ?, ?)`,
		scopusID, auth.FullName, auth.ORCID,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
