// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vecindex

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchRanksByInnerProduct(t *testing.T) {
	// Three unit vectors in 2D at increasing angles from the x axis.
	ix := New("content", 2, []float32{
		1, 0,
		0.8, 0.6,
		0, 1,
	}, []string{"a", "b", "c"})

	hits := ix.Search([]float32{1, 0}, 2)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].ArticleID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	assert.Equal(t, "b", hits[1].ArticleID)
	assert.InDelta(t, 0.8, hits[1].Score, 1e-6)
}

func TestSearchSkipsVectorsWithoutIDs(t *testing.T) {
	// Two vectors but only one id: the orphan vector must never surface.
	ix := New("content", 2, []float32{
		0, 1,
		1, 0,
	}, []string{"a"})

	hits := ix.Search([]float32{1, 0}, 5)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].ArticleID)
}

func TestSearchRejectsWrongDimension(t *testing.T) {
	ix := New("content", 2, []float32{1, 0}, []string{"a"})
	assert.Nil(t, ix.Search([]float32{1, 0, 0}, 5))
}

func TestNormalize(t *testing.T) {
	v := []float32{3, 4}
	Normalize(v)
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)

	zero := []float32{0, 0}
	Normalize(zero)
	assert.Equal(t, []float32{0, 0}, zero)

	unit := math.Sqrt(float64(v[0]*v[0] + v[1]*v[1]))
	assert.InDelta(t, 1.0, unit, 1e-6)
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	vecPath := filepath.Join(dir, "content_index.bin")
	idsPath := filepath.Join(dir, "content_ids.json")

	vectors := []float32{1, 0, 0, 0.6, 0.8, 0}
	ids := []string{"x", "y"}
	require.NoError(t, WriteFiles(vecPath, idsPath, 3, vectors, ids))

	ix, err := ReadFiles("content", vecPath, idsPath)
	require.NoError(t, err)
	assert.Equal(t, 3, ix.Dim())
	assert.Equal(t, 2, ix.Count())

	hits := ix.Search([]float32{0, 1, 0}, 1)
	require.Len(t, hits, 1)
	assert.Equal(t, "y", hits[0].ArticleID)
}

func TestWriteFilesRejectsMismatchedCounts(t *testing.T) {
	dir := t.TempDir()
	err := WriteFiles(filepath.Join(dir, "v.bin"), filepath.Join(dir, "i.json"),
		2, []float32{1, 0, 0, 1}, []string{"only-one"})
	assert.ErrorContains(t, err, "does not match id count")
}

func TestReadFilesDetectsCorruptPair(t *testing.T) {
	dir := t.TempDir()
	vecPath := filepath.Join(dir, "full_index.bin")
	idsPath := filepath.Join(dir, "full_ids.json")

	require.NoError(t, WriteFiles(vecPath, idsPath, 2, []float32{1, 0}, []string{"a"}))

	// Overwrite the id file with an extra entry.
	require.NoError(t, os.WriteFile(idsPath, []byte(`["a","b"]`), 0o644))

	_, err := ReadFiles("full", vecPath, idsPath)
	assert.ErrorContains(t, err, "corrupt")
}

func TestRegistryLoadsAndCaches(t *testing.T) {
	dir := t.TempDir()
	var warn bytes.Buffer
	r := NewRegistry(dir, &warn)

	require.NoError(t, WriteFiles(r.VectorPath("content"), r.IDsPath("content"),
		2, []float32{1, 0}, []string{"a"}))

	ix, err := r.Get("content")
	require.NoError(t, err)
	assert.Equal(t, 1, ix.Count())

	again, err := r.Get("content")
	require.NoError(t, err)
	assert.Same(t, ix, again)
}

func TestRegistryMissingIndex(t *testing.T) {
	var warn bytes.Buffer
	r := NewRegistry(t.TempDir(), &warn)

	_, err := r.Get("metadata")
	assert.Error(t, err)
	assert.Contains(t, warn.String(), "metadata")

	_, err = r.Get("nonsense")
	assert.ErrorContains(t, err, "unknown index")
}
