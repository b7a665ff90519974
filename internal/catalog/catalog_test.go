// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSource struct {
	calls int
	err   error
}

func (f *fakeSource) DistinctCountries(ctx context.Context) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []string{"china", "germany"}, nil
}

func (f *fakeSource) DistinctInstitutions(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []string{"stanford university"}, nil
}

func (f *fakeSource) DistinctAuthors(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []string{"John Smith"}, nil
}

func TestEntitiesLoadsOnce(t *testing.T) {
	src := &fakeSource{}
	var warn bytes.Buffer
	c := New(src, &warn)

	first := c.Entities(context.Background())
	second := c.Entities(context.Background())

	assert.Equal(t, []string{"china", "germany"}, first.Countries)
	assert.Equal(t, []string{"stanford university"}, first.Institutions)
	assert.Equal(t, []string{"John Smith"}, first.Authors)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.calls, "store should be queried exactly once")
	assert.Empty(t, warn.String())
}

func TestEntitiesLoadFailureCachesEmptySets(t *testing.T) {
	src := &fakeSource{err: errors.New("database locked")}
	var warn bytes.Buffer
	c := New(src, &warn)

	ents := c.Entities(context.Background())

	assert.Empty(t, ents.Countries)
	assert.Empty(t, ents.Institutions)
	assert.Empty(t, ents.Authors)
	assert.Contains(t, warn.String(), "database locked")

	// The failure is cached too; the store is not retried.
	c.Entities(context.Background())
	assert.Equal(t, 1, src.calls)
}
