package index

import (
	"context"
	"sync"
	"sync/atomic"

	"polyi/internal/ai"
	"polyi/internal/model"
)

// Store holds the process-wide index reference. Readers load the current
// snapshot lock-free; rebuilds are serialized by a mutex, build into a fresh
// Index and publish it with a single atomic swap, so concurrent readers see
// either the fully-old or fully-new index, never a partial one.
type Store struct {
	mu      sync.Mutex
	current atomic.Pointer[Index]
}

func NewStore() *Store { return &Store{} }

// Ready reports whether a built index is available.
func (s *Store) Ready() bool { return s.current.Load() != nil }

// Current returns the active snapshot, nil before the first successful build.
func (s *Store) Current() *Index { return s.current.Load() }

// Rebuild builds a new index from docs and swaps it in. On failure the
// previous snapshot stays active.
func (s *Store) Rebuild(ctx context.Context, docs []model.Document, embedder ai.Embedder, opts BuildOptions) (*Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ix, err := Build(ctx, docs, embedder, opts)
	if err != nil {
		return nil, err
	}
	s.current.Store(ix)
	return ix, nil
}

// Search runs a top-k query against the current snapshot. Retrieval is
// best-effort: with no index built yet it returns an empty result, not an
// error.
func (s *Store) Search(ctx context.Context, query string, k int) ([]model.RetrievedDocument, error) {
	ix := s.current.Load()
	if ix == nil {
		return nil, nil
	}
	return ix.Search(ctx, query, k)
}
