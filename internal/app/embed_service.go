package app

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"polyi/internal/ai"
	"polyi/internal/index"
	"polyi/internal/pkg/textproc"
)

// DefaultReduceDim is the reduction target applied when a request does not
// pick one.
const DefaultReduceDim = 256

// EmbedInput is one /embed request: texts plus the cleaning, chunking and
// reduction switches.
type EmbedInput struct {
	Texts     []string
	Clean     bool
	Chunk     bool
	MaxLen    int
	Overlap   int
	ReduceDim int
}

// EmbedChunkMeta ties an output chunk back to its input text.
type EmbedChunkMeta struct {
	SourceIndex int `json:"source_index"`
	TextLength  int `json:"text_length"`
}

// EmbedResult is the /embed response payload.
type EmbedResult struct {
	Embeddings [][]float64      `json:"embeddings"`
	Dimension  int              `json:"dimension"`
	Model      string           `json:"model"`
	Chunks     []string         `json:"chunks"`
	Metadata   []EmbedChunkMeta `json:"metadata"`
}

// EmbedService exposes the embedding pipeline directly: clean, chunk, dedupe,
// embed, optionally reduce. Unlike the index builder it fits a reduction per
// request and does not normalize, since callers get the raw vectors.
type EmbedService struct {
	embedder ai.Embedder
}

func NewEmbedService(embedder ai.Embedder) *EmbedService {
	return &EmbedService{embedder: embedder}
}

// Generate embeds the input texts. Inputs that clean and chunk down to
// nothing yield an empty result with dimension 0, not an error.
func (s *EmbedService) Generate(ctx context.Context, in EmbedInput) (*EmbedResult, error) {
	if in.MaxLen <= 0 {
		in.MaxLen = 600
	}
	if in.Overlap < 0 {
		in.Overlap = 0
	}

	var chunks []string
	var metadata []EmbedChunkMeta
	for idx, raw := range in.Texts {
		text := raw
		if in.Clean {
			text = textproc.Normalize(text)
		}
		var pieces []string
		if in.Chunk {
			pieces = textproc.Chunk(text, in.MaxLen, in.Overlap)
		} else if text != "" {
			pieces = []string{text}
		}
		for _, piece := range textproc.Dedupe(pieces) {
			chunks = append(chunks, piece)
			metadata = append(metadata, EmbedChunkMeta{SourceIndex: idx, TextLength: len(piece)})
		}
	}

	result := &EmbedResult{
		Embeddings: [][]float64{},
		Model:      s.embedder.Model(),
		Chunks:     []string{},
		Metadata:   []EmbedChunkMeta{},
	}
	if len(chunks) == 0 {
		return result, nil
	}

	vectors, err := s.embedder.Encode(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embed texts failed: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(vectors), len(chunks))
	}

	dim := len(vectors[0])
	if in.ReduceDim > 0 && reducible(len(vectors), dim, in.ReduceDim) {
		matrix := mat.NewDense(len(vectors), dim, nil)
		for i, v := range vectors {
			matrix.SetRow(i, v)
		}
		pca, err := index.FitPCA(matrix, in.ReduceDim)
		if err != nil {
			return nil, fmt.Errorf("fit reduction failed: %w", err)
		}
		reduced, err := pca.TransformAll(matrix)
		if err != nil {
			return nil, fmt.Errorf("apply reduction failed: %w", err)
		}
		dim = in.ReduceDim
		for i := range vectors {
			row := make([]float64, dim)
			mat.Row(row, i, reduced)
			vectors[i] = row
		}
	}

	result.Embeddings = vectors
	result.Dimension = dim
	result.Chunks = chunks
	result.Metadata = metadata
	return result, nil
}

// reducible mirrors the index builder's precondition: reduction only makes
// sense below the natural dimension and with more samples than components.
func reducible(samples, dim, target int) bool {
	return target < dim && target < samples
}
