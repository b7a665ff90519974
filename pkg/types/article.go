// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the litsearch pipeline.
package types

// ArticleResult is one ranked entry returned by a search. Authors, countries,
// and institutions are semicolon-joined lists aggregated across the article's
// authorship and affiliation relations.
type ArticleResult struct {
	// ScopusID is the article's opaque identifier (primary key in the store).
	ScopusID string `json:"scopus_id" yaml:"scopus_id"`

	// Title is the article title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the article abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// CoverDate is the publication date string; its first four characters
	// are the publication year.
	CoverDate string `json:"cover_date" yaml:"cover_date"`

	// PublicationName is the venue the article appeared in.
	PublicationName string `json:"publication_name" yaml:"publication_name"`

	// DOI is the article's DOI, if known.
	DOI string `json:"doi" yaml:"doi"`

	// Keywords is the free-text keyword string.
	Keywords string `json:"keywords" yaml:"keywords"`

	// Authors is the semicolon-joined author name list.
	Authors string `json:"authors" yaml:"authors"`

	// Countries is the semicolon-joined affiliation country list.
	Countries string `json:"countries" yaml:"countries"`

	// Institutions is the semicolon-joined institution name list.
	Institutions string `json:"institutions" yaml:"institutions"`

	// Relevance is a score in [0, 1]: cosine similarity for semantic hits,
	// or a substring-match heuristic capped at 0.95 for relational hits.
	Relevance float64 `json:"relevance" yaml:"relevance"`

	// SearchType is the intent classification the query parser assigned
	// (semantic, temporal, author, geographic, institutional, database).
	SearchType string `json:"search_type" yaml:"search_type"`
}

// ArticleRecord is a raw article as acquired from the Scopus API, before
// population into the relational store.
type ArticleRecord struct {
	ScopusID        string              `json:"scopus_id" yaml:"scopus_id"`
	Title           string              `json:"title" yaml:"title"`
	Abstract        string              `json:"abstract" yaml:"abstract"`
	CoverDate       string              `json:"cover_date" yaml:"cover_date"`
	PublicationYear string              `json:"publication_year" yaml:"publication_year"`
	PublicationName string              `json:"publication_name" yaml:"publication_name"`
	DOI             string              `json:"doi" yaml:"doi"`
	Keywords        string              `json:"keywords" yaml:"keywords"`
	SubjectArea     string              `json:"subject_area" yaml:"subject_area"`
	Authors         []AuthorRecord      `json:"authors" yaml:"authors"`
	Affiliations    []AffiliationRecord `json:"affiliations" yaml:"affiliations"`
}

// AuthorRecord is one author entry from a Scopus abstract response.
type AuthorRecord struct {
	// ScopusAuthorID is Scopus's author identifier (may be empty).
	ScopusAuthorID string `json:"author_id" yaml:"author_id"`

	// FullName is the author's indexed display name.
	FullName string `json:"preferred_name" yaml:"preferred_name"`

	// ORCID is the persistent researcher identifier, if available.
	ORCID string `json:"orcid" yaml:"orcid"`

	// AffiliationIDs lists the Scopus affiliation IDs this author is
	// linked to within the article record.
	AffiliationIDs []string `json:"affiliation_ids" yaml:"affiliation_ids"`
}

// AffiliationRecord is one affiliation entry from a Scopus abstract response.
type AffiliationRecord struct {
	ScopusAffiliationID string `json:"affiliation_id" yaml:"affiliation_id"`
	InstitutionName     string `json:"institution_name" yaml:"institution_name"`
	Country             string `json:"country" yaml:"country"`
}
