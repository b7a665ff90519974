// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vecindex

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Names lists the specialized indexes the builder produces and the registry
// serves, in build order.
var Names = []string{"content", "metadata", "institution", "full"}

// DefaultName is the index the router falls back to when a specialized index
// is unavailable.
const DefaultName = "content"

// Registry lazily loads named indexes from a directory and caches them.
// Loads are deduplicated so concurrent first requests for the same index hit
// disk once; failures are not cached, so a missing index can appear later
// without a restart.
type Registry struct {
	dir  string
	warn io.Writer

	group singleflight.Group

	mu    sync.RWMutex
	cache map[string]*Index
}

// NewRegistry returns a Registry serving indexes from dir. Load failures are
// reported once per attempt on warn.
func NewRegistry(dir string, warn io.Writer) *Registry {
	return &Registry{
		dir:   dir,
		warn:  warn,
		cache: make(map[string]*Index),
	}
}

// VectorPath returns the vector file path for the named index.
func (r *Registry) VectorPath(name string) string {
	return filepath.Join(r.dir, name+"_index.bin")
}

// IDsPath returns the id file path for the named index.
func (r *Registry) IDsPath(name string) string {
	return filepath.Join(r.dir, name+"_ids.json")
}

// Get returns the named index, loading it from disk on first use. It returns
// an error when the name is unknown or the index files cannot be loaded.
func (r *Registry) Get(name string) (*Index, error) {
	if !knownName(name) {
		return nil, fmt.Errorf("unknown index %q", name)
	}

	r.mu.RLock()
	ix, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return ix, nil
	}

	v, err, _ := r.group.Do(name, func() (any, error) {
		r.mu.RLock()
		ix, ok := r.cache[name]
		r.mu.RUnlock()
		if ok {
			return ix, nil
		}

		ix, err := ReadFiles(name, r.VectorPath(name), r.IDsPath(name))
		if err != nil {
			fmt.Fprintf(r.warn, "warning: loading index %s: %v\n", name, err)
			return nil, err
		}

		r.mu.Lock()
		r.cache[name] = ix
		r.mu.Unlock()
		return ix, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Index), nil
}

func knownName(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}
