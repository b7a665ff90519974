// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scopus acquires article records from the Elsevier Scopus API:
// year-by-year paginated search plus per-article abstract enrichment for
// full abstracts, keywords, authors, and affiliations.
package scopus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/litsearch/internal/httputil"
	"github.com/pdiddy/litsearch/pkg/types"
)

// API endpoints. Declared as vars so tests can substitute httptest servers.
var (
	searchAPIBase   = "https://api.elsevier.com/content/search/scopus"
	abstractAPIBase = "https://api.elsevier.com/content/abstract/scopus_id/"
)

// subjectAreas are the Scopus subject-area abbreviations the extraction
// covers.
var subjectAreas = []string{
	"COMP", "MEDI", "ENGI", "MATH", "PHYS", "CHEM", "BIOC", "EART",
	"ENVI", "MATE", "ENER", "AGRI", "NEUR", "PHAR", "SOCI",
}

// Client talks to the Scopus search and abstract APIs with rate limiting and
// retry on HTTP 429.
type Client struct {
	cfg      types.ScopusConfig
	client   *http.Client
	limiter  *rate.Limiter
	progress io.Writer
}

// NewClient constructs a Client from configuration. Progress messages go to
// progress.
func NewClient(cfg types.ScopusConfig, progress io.Writer) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = 2
	}
	if cfg.PageSize <= 0 || cfg.PageSize > 25 {
		cfg.PageSize = 25
	}
	return &Client{
		cfg:      cfg,
		client:   &http.Client{Timeout: cfg.Timeout},
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		progress: progress,
	}
}

// buildYearQuery composes the Scopus advanced query for one publication year
// across all covered subject areas.
func buildYearQuery(year int) string {
	parts := make([]string, len(subjectAreas))
	for i, area := range subjectAreas {
		parts[i] = fmt.Sprintf("SUBJAREA(%s)", area)
	}
	return fmt.Sprintf("(%s) AND (PUBYEAR = %d)", strings.Join(parts, " OR "), year)
}

// ExtractYears extracts up to ArticlesPerYear records for each configured
// year. Abstract enrichment failures are tolerated per article; search
// failures abort the extraction.
func (c *Client) ExtractYears(ctx context.Context) ([]types.ArticleRecord, error) {
	var all []types.ArticleRecord
	for _, year := range c.cfg.Years {
		fmt.Fprintf(c.progress, "extracting articles from %d\n", year)
		records, err := c.extractYear(ctx, year)
		if err != nil {
			return all, fmt.Errorf("extracting year %d: %w", year, err)
		}
		fmt.Fprintf(c.progress, "%d: collected %d articles\n", year, len(records))
		all = append(all, records...)
	}
	return all, nil
}

func (c *Client) extractYear(ctx context.Context, year int) ([]types.ArticleRecord, error) {
	query := buildYearQuery(year)
	var records []types.ArticleRecord

	for start := 0; len(records) < c.cfg.ArticlesPerYear; start += c.cfg.PageSize {
		page, err := c.searchPage(ctx, query, start)
		if err != nil {
			return records, err
		}
		entries := page.SearchResults.Entry
		if len(entries) == 0 {
			break
		}

		for _, entry := range entries {
			if len(records) >= c.cfg.ArticlesPerYear {
				break
			}
			if entry.EID == "" {
				continue
			}

			rec := types.ArticleRecord{
				ScopusID:        entry.EID,
				Title:           entry.Title,
				Abstract:        entry.Description,
				CoverDate:       entry.CoverDate,
				PublicationYear: strconv.Itoa(year),
				PublicationName: entry.PublicationName,
				DOI:             entry.DOI,
				Keywords:        entry.AuthKeywords,
			}

			if err := c.enrich(ctx, &rec); err != nil {
				fmt.Fprintf(c.progress, "abstract retrieval failed for %s: %v\n", entry.EID, err)
			}
			records = append(records, rec)
		}
	}
	return records, nil
}

func (c *Client) searchPage(ctx context.Context, query string, start int) (*searchResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("count", strconv.Itoa(c.cfg.PageSize))
	params.Set("view", "COMPLETE")
	params.Set("start", strconv.Itoa(start))

	var page searchResponse
	if err := c.getJSON(ctx, searchAPIBase+"?"+params.Encode(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// enrich fills in the full abstract, keywords, authors, and affiliations
// from the abstract retrieval API.
func (c *Client) enrich(ctx context.Context, rec *types.ArticleRecord) error {
	lookupID := strings.TrimPrefix(rec.ScopusID, "2-s2.0-")

	var resp abstractResponse
	if err := c.getJSON(ctx, abstractAPIBase+lookupID+"?view=FULL", &resp); err != nil {
		return err
	}

	retrieval := resp.Retrieval
	if retrieval.CoreData.Description != "" {
		rec.Abstract = retrieval.CoreData.Description
	}
	if kw := retrieval.CoreData.AuthKeywords.Join(); kw != "" {
		rec.Keywords = kw
	}

	for _, a := range retrieval.Authors.Author {
		affIDs := make([]string, 0, len(a.Affiliation.items))
		for _, aff := range a.Affiliation.items {
			if aff.ID != "" {
				affIDs = append(affIDs, aff.ID)
			}
		}
		rec.Authors = append(rec.Authors, types.AuthorRecord{
			ScopusAuthorID: a.AUID,
			FullName:       a.IndexedName,
			ORCID:          a.ORCID,
			AffiliationIDs: affIDs,
		})
	}

	for _, aff := range retrieval.Affiliation.items {
		rec.Affiliations = append(rec.Affiliations, types.AffiliationRecord{
			ScopusAffiliationID: aff.ID,
			InstitutionName:     aff.Name,
			Country:             aff.Country,
		})
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-ELS-APIKey", c.cfg.APIKey)
	if c.cfg.InstToken != "" {
		req.Header.Set("X-ELS-Insttoken", c.cfg.InstToken)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, c.client, req, 0)
	if err != nil {
		return fmt.Errorf("Scopus API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Scopus API returned HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing Scopus response: %w", err)
	}
	return nil
}

// SaveRecords writes the acquisition records as pretty-printed JSON.
func SaveRecords(path string, records []types.ArticleRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}
	return nil
}

// LoadRecords reads an acquisition JSON file back into records.
func LoadRecords(path string) ([]types.ArticleRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}
	var records []types.ArticleRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing records: %w", err)
	}
	return records, nil
}
