package ai

import (
	"context"
	"hash/fnv"
	"strings"
)

// DefaultHashingDim matches the fixed dimension of the fallback embedding.
const DefaultHashingDim = 512

// HashingEmbedder is the embedding fallback used when no embedding model is
// configured: each lowercased whitespace token is FNV-hashed into a fixed
// number of buckets and counted. Deterministic across processes, so a query
// embedded later lands in the same buckets as the indexed corpus.
type HashingEmbedder struct {
	dim int
}

func NewHashingEmbedder(dim int) *HashingEmbedder {
	if dim <= 0 {
		dim = DefaultHashingDim
	}
	return &HashingEmbedder{dim: dim}
}

func (h *HashingEmbedder) Model() string { return "hashing-fallback" }

func (h *HashingEmbedder) Dimension() int { return h.dim }

func (h *HashingEmbedder) Encode(_ context.Context, texts []string) ([][]float64, error) {
	vecs := make([][]float64, len(texts))
	for i, text := range texts {
		v := make([]float64, h.dim)
		for _, token := range strings.Fields(strings.ToLower(text)) {
			f := fnv.New64a()
			f.Write([]byte(token))
			v[f.Sum64()%uint64(h.dim)]++
		}
		vecs[i] = v
	}
	return vecs, nil
}
