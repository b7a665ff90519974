// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scopus

import (
	"encoding/json"
	"strings"
)

// Wire types for the Scopus JSON payloads. Several fields arrive as either a
// single object or a list depending on cardinality; those use listOrOne to
// normalize.

type searchResponse struct {
	SearchResults struct {
		TotalResults string        `json:"opensearch:totalResults"`
		Entry        []searchEntry `json:"entry"`
	} `json:"search-results"`
}

type searchEntry struct {
	EID             string `json:"eid"`
	Title           string `json:"dc:title"`
	Description     string `json:"dc:description"`
	CoverDate       string `json:"prism:coverDate"`
	PublicationName string `json:"prism:publicationName"`
	DOI             string `json:"prism:doi"`
	AuthKeywords    string `json:"authkeywords"`
}

type abstractResponse struct {
	Retrieval struct {
		CoreData struct {
			Description  string       `json:"dc:description"`
			AuthKeywords authKeywords `json:"authkeywords"`
		} `json:"coredata"`
		Authors struct {
			Author []abstractAuthor `json:"author"`
		} `json:"authors"`
		Affiliation affiliationList `json:"affiliation"`
	} `json:"abstracts-retrieval-response"`
}

type abstractAuthor struct {
	AUID        string          `json:"@auid"`
	IndexedName string          `json:"ce:indexed-name"`
	ORCID       string          `json:"orcid"`
	Affiliation affiliationList `json:"affiliation"`
}

type affiliationEntry struct {
	ID      string `json:"@id"`
	Name    string `json:"affilname"`
	Country string `json:"affiliation-country"`
}

// affiliationList accepts either a single affiliation object or a list.
type affiliationList struct {
	items []affiliationEntry
}

func (l *affiliationList) UnmarshalJSON(data []byte) error {
	var many []affiliationEntry
	if err := json.Unmarshal(data, &many); err == nil {
		l.items = many
		return nil
	}
	var one affiliationEntry
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	l.items = []affiliationEntry{one}
	return nil
}

// authKeywords accepts the three shapes Scopus uses for author keywords: a
// plain string, or an object whose author-keyword member is a single keyword
// or a list of keywords.
type authKeywords struct {
	keywords []string
}

func (k *authKeywords) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		if plain != "" {
			k.keywords = []string{plain}
		}
		return nil
	}

	var wrapped struct {
		AuthorKeyword json.RawMessage `json:"author-keyword"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	if len(wrapped.AuthorKeyword) == 0 {
		return nil
	}

	type keywordEntry struct {
		Value string `json:"$"`
	}
	var many []keywordEntry
	if err := json.Unmarshal(wrapped.AuthorKeyword, &many); err == nil {
		for _, kw := range many {
			if kw.Value != "" {
				k.keywords = append(k.keywords, kw.Value)
			}
		}
		return nil
	}
	var one keywordEntry
	if err := json.Unmarshal(wrapped.AuthorKeyword, &one); err != nil {
		return err
	}
	if one.Value != "" {
		k.keywords = []string{one.Value}
	}
	return nil
}

// Join returns the keywords as one comma-separated string.
func (k authKeywords) Join() string {
	return strings.Join(k.keywords, ", ")
}
