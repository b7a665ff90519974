// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog caches the distinct countries, institutions, and author
// names known to the article store, for query intent detection.
package catalog

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// EntitySource is the read side of the store the catalog loads from.
type EntitySource interface {
	DistinctCountries(ctx context.Context) ([]string, error)
	DistinctInstitutions(ctx context.Context) ([]string, error)
	DistinctAuthors(ctx context.Context) ([]string, error)
}

// Entities holds the three cached entity sets. Countries and institutions
// are lowercased; author names keep their original case.
type Entities struct {
	Countries    []string
	Institutions []string
	Authors      []string
}

// Catalog lazily loads the entity sets once per process. A load failure
// caches empty sets so pattern-based intent detection keeps working while
// entity-based detection silently finds nothing.
type Catalog struct {
	source EntitySource
	warn   io.Writer

	once     sync.Once
	entities Entities
}

// New returns a Catalog backed by source. Warnings about load failures are
// written to warn.
func New(source EntitySource, warn io.Writer) *Catalog {
	return &Catalog{source: source, warn: warn}
}

// Entities returns the cached entity sets, loading them from the store on
// the first call. Subsequent calls never touch the store again.
func (c *Catalog) Entities(ctx context.Context) Entities {
	c.once.Do(func() {
		countries, err := c.source.DistinctCountries(ctx)
		if err != nil {
			fmt.Fprintf(c.warn, "warning: loading countries: %v\n", err)
			return
		}
		institutions, err := c.source.DistinctInstitutions(ctx)
		if err != nil {
			fmt.Fprintf(c.warn, "warning: loading institutions: %v\n", err)
			return
		}
		authors, err := c.source.DistinctAuthors(ctx)
		if err != nil {
			fmt.Fprintf(c.warn, "warning: loading authors: %v\n", err)
			return
		}
		c.entities = Entities{
			Countries:    countries,
			Institutions: institutions,
			Authors:      authors,
		}
	})
	return c.entities
}
