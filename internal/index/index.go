// Package index builds and searches the in-process embedding index: chunk
// the corpus, embed it, optionally reduce dimensionality, L2-normalize and
// answer top-k inner-product queries over the normalized matrix.
package index

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"polyi/internal/ai"
	"polyi/internal/model"
	"polyi/internal/pkg/textproc"
)

// ErrEmptyCorpus is returned when no document yields any chunk; the index
// stays unbuilt and the caller decides whether to fall back to a default
// corpus.
var ErrEmptyCorpus = errors.New("no chunks extracted from documents")

const normEpsilon = 1e-10

// BuildOptions configures a single index build.
type BuildOptions struct {
	ChunkSize    int // max tokens per chunk
	ChunkOverlap int // overlapping tokens between windows
	TargetDim    int // 0 disables reduction
	BatchSize    int // embedding API batch size
}

func (o BuildOptions) withDefaults() BuildOptions {
	if o.ChunkSize <= 0 {
		o.ChunkSize = 800
	}
	if o.ChunkOverlap < 0 {
		o.ChunkOverlap = 0
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 10
	}
	return o
}

// Index is an immutable snapshot: parallel chunk and vector collections plus
// the reduction transform fit at build time. Safe for unbounded concurrent
// readers; a rebuild produces a fresh Index and swaps it in via Store.
type Index struct {
	chunks   []model.Chunk
	vectors  *mat.Dense // len(chunks) x dim, rows L2-normalized
	dim      int
	pca      *PCA // nil when reduction was skipped
	embedder ai.Embedder
}

// Build normalizes, chunks and dedupes every document, embeds the combined
// corpus in batches, optionally fits the reduction transform, and normalizes
// all vectors for inner-product search.
func Build(ctx context.Context, docs []model.Document, embedder ai.Embedder, opts BuildOptions) (*Index, error) {
	opts = opts.withDefaults()

	var chunks []model.Chunk
	for _, doc := range docs {
		texts := textproc.Dedupe(textproc.Chunk(textproc.Normalize(doc.Text), opts.ChunkSize, opts.ChunkOverlap))
		for seq, text := range texts {
			chunks = append(chunks, model.Chunk{
				Text:    text,
				File:    doc.File,
				Page:    doc.Page,
				Section: doc.Section,
				Seq:     seq,
				Length:  len(text),
			})
		}
	}
	if len(chunks) == 0 {
		return nil, ErrEmptyCorpus
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := encodeBatched(ctx, embedder, texts, opts.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("embed corpus failed: %w", err)
	}

	dim := len(vectors[0])
	matrix := mat.NewDense(len(vectors), dim, nil)
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("embedding dimension mismatch at chunk %d: got %d, want %d", i, len(v), dim)
		}
		matrix.SetRow(i, v)
	}

	var pca *PCA
	// Reduction needs more observations than output dimensions; the effective
	// output dimension is capped at samples-1.
	if opts.TargetDim > 0 && opts.TargetDim < dim && len(chunks) > opts.TargetDim {
		effective := opts.TargetDim
		if effective > len(chunks)-1 {
			effective = len(chunks) - 1
		}
		if effective > 1 {
			fitted, err := FitPCA(matrix, effective)
			if err != nil {
				return nil, fmt.Errorf("fit reduction transform failed: %w", err)
			}
			reduced, err := fitted.TransformAll(matrix)
			if err != nil {
				return nil, fmt.Errorf("apply reduction transform failed: %w", err)
			}
			matrix = reduced
			dim = effective
			pca = fitted
		}
	}

	normalizeRows(matrix)

	return &Index{
		chunks:   chunks,
		vectors:  matrix,
		dim:      dim,
		pca:      pca,
		embedder: embedder,
	}, nil
}

func encodeBatched(ctx context.Context, embedder ai.Embedder, texts []string, batchSize int) ([][]float64, error) {
	var vectors [][]float64
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := embedder.Encode(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(vectors), len(texts))
	}
	return vectors, nil
}

func normalizeRows(m *mat.Dense) {
	n, d := m.Dims()
	for i := 0; i < n; i++ {
		row := m.RawRowView(i)
		var sum float64
		for _, v := range row {
			sum += v * v
		}
		norm := math.Sqrt(sum) + normEpsilon
		for j := 0; j < d; j++ {
			row[j] /= norm
		}
	}
}

// Len returns the number of indexed chunks.
func (ix *Index) Len() int { return len(ix.chunks) }

// Dimension returns the vector dimension after any reduction.
func (ix *Index) Dimension() int { return ix.dim }

// Reduced reports whether a reduction transform was fit at build time.
func (ix *Index) Reduced() bool { return ix.pca != nil }

// Search embeds the query with the same capability and transform used at
// build time and returns the top k chunks by cosine similarity, ties broken
// by insertion order. Read-only; safe for concurrent callers.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]model.RetrievedDocument, error) {
	if k <= 0 || ix.Len() == 0 {
		return nil, nil
	}

	encoded, err := ix.embedder.Encode(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query failed: %w", err)
	}
	if len(encoded) != 1 {
		return nil, fmt.Errorf("embed query returned %d vectors", len(encoded))
	}
	q := encoded[0]
	if ix.pca != nil {
		q, err = ix.pca.Transform(q)
		if err != nil {
			return nil, fmt.Errorf("reduce query vector failed: %w", err)
		}
	}
	if len(q) != ix.dim {
		return nil, fmt.Errorf("query dimension %d does not match index dimension %d", len(q), ix.dim)
	}

	var sum float64
	for _, v := range q {
		sum += v * v
	}
	norm := math.Sqrt(sum) + normEpsilon
	for i := range q {
		q[i] /= norm
	}

	scores := mat.NewVecDense(ix.Len(), nil)
	scores.MulVec(ix.vectors, mat.NewVecDense(len(q), q))

	order := make([]int, ix.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores.AtVec(order[a]) > scores.AtVec(order[b])
	})

	if k > len(order) {
		k = len(order)
	}
	results := make([]model.RetrievedDocument, 0, k)
	for _, idx := range order[:k] {
		results = append(results, model.RetrievedDocument{
			Content:  ix.chunks[idx].Text,
			Metadata: ix.chunks[idx].Meta(),
			Score:    scores.AtVec(idx),
		})
	}
	return results, nil
}
