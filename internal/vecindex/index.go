// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vecindex stores and searches the flat embedding indexes. Each
// named index is a pair of files: a binary little-endian float32 vector file
// and a JSON array of article identifiers, positionally parallel to the
// vectors. Vectors are L2-normalized at build time, so inner product equals
// cosine similarity.
package vecindex

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
)

// Index file header: magic, dimension, vector count, then count*dim
// little-endian float32 values.
var fileMagic = [4]byte{'L', 'S', 'I', 'X'}

// Hit is one nearest-neighbour result.
type Hit struct {
	ArticleID string
	Score     float64
}

// Index is a flat inner-product index over fixed-dimension vectors with a
// parallel article-identifier list.
type Index struct {
	name    string
	dim     int
	vectors []float32 // count * dim, row-major
	ids     []string
}

// New builds an in-memory index. The vector count and id count may disagree;
// Search bound-checks positions against the id list, so the mismatch can
// never produce an out-of-range lookup. Loaders are expected to diagnose the
// mismatch loudly before handing the index out.
func New(name string, dim int, vectors []float32, ids []string) *Index {
	return &Index{name: name, dim: dim, vectors: vectors, ids: ids}
}

// Name returns the index name.
func (ix *Index) Name() string { return ix.name }

// Dim returns the vector dimension.
func (ix *Index) Dim() int { return ix.dim }

// Count returns the number of stored vectors.
func (ix *Index) Count() int {
	if ix.dim == 0 {
		return 0
	}
	return len(ix.vectors) / ix.dim
}

// Search returns up to k article identifiers nearest to query by inner
// product, best first. Positions beyond the id list are skipped. A query of
// the wrong dimension returns nil.
func (ix *Index) Search(query []float32, k int) []Hit {
	if len(query) != ix.dim || ix.dim == 0 || k <= 0 {
		return nil
	}

	count := ix.Count()
	hits := make([]Hit, 0, count)
	for pos := 0; pos < count; pos++ {
		if pos >= len(ix.ids) {
			// Vector without a matching identifier: index and id list
			// are desynchronized. Skip rather than fail the query.
			continue
		}
		row := ix.vectors[pos*ix.dim : (pos+1)*ix.dim]
		hits = append(hits, Hit{ArticleID: ix.ids[pos], Score: dot(query, row)})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Normalize scales v to unit length in place. Zero vectors are left as-is.
func Normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
}

// WriteFiles writes the vector file and the parallel id file for one index.
// Vectors are stored row-major as little-endian float32.
func WriteFiles(vecPath, idsPath string, dim int, vectors []float32, ids []string) error {
	if dim <= 0 || len(vectors)%dim != 0 {
		return fmt.Errorf("vector data length %d is not a multiple of dimension %d", len(vectors), dim)
	}
	count := len(vectors) / dim
	if count != len(ids) {
		return fmt.Errorf("vector count %d does not match id count %d", count, len(ids))
	}

	f, err := os.Create(vecPath)
	if err != nil {
		return fmt.Errorf("creating vector file: %w", err)
	}
	defer f.Close()

	header := struct {
		Magic [4]byte
		Dim   uint32
		Count uint32
	}{fileMagic, uint32(dim), uint32(count)}
	if err := binary.Write(f, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("writing vector header: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, vectors); err != nil {
		return fmt.Errorf("writing vector data: %w", err)
	}

	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encoding id list: %w", err)
	}
	if err := os.WriteFile(idsPath, data, 0o644); err != nil {
		return fmt.Errorf("writing id file: %w", err)
	}
	return nil
}

// ReadFiles loads one index from its vector/id file pair. A count mismatch
// between the two files is reported as an error: it indicates a corrupt
// build, not a recoverable query-time condition.
func ReadFiles(name, vecPath, idsPath string) (*Index, error) {
	f, err := os.Open(vecPath)
	if err != nil {
		return nil, fmt.Errorf("opening vector file: %w", err)
	}
	defer f.Close()

	var header struct {
		Magic [4]byte
		Dim   uint32
		Count uint32
	}
	if err := binary.Read(f, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("reading vector header: %w", err)
	}
	if header.Magic != fileMagic {
		return nil, fmt.Errorf("%s is not a vector index file", vecPath)
	}

	vectors := make([]float32, int(header.Dim)*int(header.Count))
	if err := binary.Read(f, binary.LittleEndian, vectors); err != nil {
		return nil, fmt.Errorf("reading vector data: %w", err)
	}

	data, err := os.ReadFile(idsPath)
	if err != nil {
		return nil, fmt.Errorf("reading id file: %w", err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("parsing id file: %w", err)
	}

	if int(header.Count) != len(ids) {
		return nil, fmt.Errorf("index %s is corrupt: %d vectors but %d ids", name, header.Count, len(ids))
	}

	return New(name, int(header.Dim), vectors, ids), nil
}
