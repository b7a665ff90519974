// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// StoreConfig holds settings for the relational article store.
type StoreConfig struct {
	// Path is the SQLite database file (default "scopus.db").
	Path string `json:"path" yaml:"path"`
}

// EmbeddingConfig holds settings for the embedding model used to encode
// queries and index texts.
type EmbeddingConfig struct {
	// BaseURL overrides the OpenAI-compatible endpoint (optional).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// APIKey authenticates against the embedding API. When empty the
	// embedder is disabled and search degrades to relational text search.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Model is the embedding model identifier (default "text-embedding-3-small").
	Model string `json:"model" yaml:"model"`

	// Dim is the embedding dimension (default 1536).
	Dim int `json:"dim" yaml:"dim"`
}

// IndexConfig holds settings for the embedding index files.
type IndexConfig struct {
	// Dir is the directory holding the vector/id file pairs (default "index").
	Dir string `json:"dir" yaml:"dir"`

	// BatchSize is the number of texts embedded per API call when
	// building indexes (default 32).
	BatchSize int `json:"batch_size" yaml:"batch_size"`
}

// SearchConfig holds settings for the hybrid search path.
type SearchConfig struct {
	// MaxResults caps the number of results returned (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// CandidateK is how many nearest neighbours the vector search
	// retrieves before relational filtering (default 50).
	CandidateK int `json:"candidate_k" yaml:"candidate_k"`
}

// ScopusConfig holds settings for the Scopus acquisition stage.
type ScopusConfig struct {
	// APIKey is the Elsevier API key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// InstToken is the Elsevier institutional token (optional).
	InstToken string `json:"inst_token,omitempty" yaml:"inst_token,omitempty"`

	// Timeout is the HTTP request timeout (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// RequestsPerSecond throttles calls to the Scopus API (default 2).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// PageSize is the number of entries requested per search page
	// (Scopus caps this at 25).
	PageSize int `json:"page_size" yaml:"page_size"`

	// Years lists the publication years to extract.
	Years []int `json:"years" yaml:"years"`

	// ArticlesPerYear is the per-year extraction target.
	ArticlesPerYear int `json:"articles_per_year" yaml:"articles_per_year"`

	// OutputFile is where the raw acquisition JSON is written
	// (default "scopus_raw_data.json").
	OutputFile string `json:"output_file" yaml:"output_file"`
}
