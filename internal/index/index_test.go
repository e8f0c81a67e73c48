package index

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polyi/internal/ai"
	"polyi/internal/model"
)

func testDocs() []model.Document {
	return []model.Document{
		{Text: "주차장은 분당구청 주차장을 이용하세요. 한 시간 무료입니다.", File: "manual.pdf", Page: 1},
		{Text: "점심 식사는 구내식당에서 6500원에 가능합니다.", File: "manual.pdf", Page: 2},
		{Text: "훈련수당은 출석률 80퍼센트 이상일 때 지급됩니다.", File: "manual.pdf", Page: 3},
	}
}

func TestBuildEmptyCorpus(t *testing.T) {
	embedder := ai.NewHashingEmbedder(64)

	_, err := Build(context.Background(), nil, embedder, BuildOptions{})
	assert.ErrorIs(t, err, ErrEmptyCorpus)

	_, err = Build(context.Background(), []model.Document{{Text: "   "}}, embedder, BuildOptions{})
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestBuildNormalizesVectors(t *testing.T) {
	embedder := ai.NewHashingEmbedder(64)
	ix, err := Build(context.Background(), testDocs(), embedder, BuildOptions{ChunkSize: 50, ChunkOverlap: 5})
	require.NoError(t, err)

	require.Equal(t, 3, ix.Len())
	assert.Equal(t, 64, ix.Dimension())
	assert.False(t, ix.Reduced())

	n, _ := ix.vectors.Dims()
	for i := 0; i < n; i++ {
		var sum float64
		for _, v := range ix.vectors.RawRowView(i) {
			sum += v * v
		}
		assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-6)
	}
}

func TestBuildAppliesReduction(t *testing.T) {
	embedder := ai.NewHashingEmbedder(64)
	docs := make([]model.Document, 0, 20)
	for i := 0; i < 20; i++ {
		docs = append(docs, model.Document{
			Text: fmt.Sprintf("문서 번호 %d 내용 sample text item%d topic%d", i, i, i%5),
			File: "corpus.pdf",
			Page: i + 1,
		})
	}

	ix, err := Build(context.Background(), docs, embedder, BuildOptions{ChunkSize: 50, ChunkOverlap: 5, TargetDim: 8})
	require.NoError(t, err)

	assert.True(t, ix.Reduced())
	assert.Equal(t, 8, ix.Dimension())

	// reduced vectors are still unit-norm
	n, _ := ix.vectors.Dims()
	for i := 0; i < n; i++ {
		var sum float64
		for _, v := range ix.vectors.RawRowView(i) {
			sum += v * v
		}
		assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-6)
	}
}

func TestBuildSkipsReductionWithFewSamples(t *testing.T) {
	embedder := ai.NewHashingEmbedder(64)
	// 3 samples cannot support a 32-dimensional projection
	ix, err := Build(context.Background(), testDocs(), embedder, BuildOptions{ChunkSize: 50, ChunkOverlap: 5, TargetDim: 32})
	require.NoError(t, err)

	assert.False(t, ix.Reduced())
	assert.Equal(t, 64, ix.Dimension())
}

func TestSearchRanksMatchingChunkFirst(t *testing.T) {
	embedder := ai.NewHashingEmbedder(256)
	ix, err := Build(context.Background(), testDocs(), embedder, BuildOptions{ChunkSize: 50, ChunkOverlap: 5})
	require.NoError(t, err)

	results, err := ix.Search(context.Background(), "구내식당 점심 식사", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 2, results[0].Metadata.Page)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearchDeterministic(t *testing.T) {
	embedder := ai.NewHashingEmbedder(128)
	ix, err := Build(context.Background(), testDocs(), embedder, BuildOptions{ChunkSize: 50, ChunkOverlap: 5})
	require.NoError(t, err)

	first, err := ix.Search(context.Background(), "주차", 3)
	require.NoError(t, err)
	second, err := ix.Search(context.Background(), "주차", 3)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSearchCapsK(t *testing.T) {
	embedder := ai.NewHashingEmbedder(64)
	ix, err := Build(context.Background(), testDocs(), embedder, BuildOptions{ChunkSize: 50, ChunkOverlap: 5})
	require.NoError(t, err)

	results, err := ix.Search(context.Background(), "주차", 10)
	require.NoError(t, err)
	assert.Len(t, results, 3)

	results, err = ix.Search(context.Background(), "주차", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchWithReductionUsesSameTransform(t *testing.T) {
	embedder := ai.NewHashingEmbedder(64)
	docs := make([]model.Document, 0, 20)
	for i := 0; i < 20; i++ {
		docs = append(docs, model.Document{
			Text: fmt.Sprintf("항목 %d 고유한 단어 word%d", i, i),
			File: "corpus.pdf",
			Page: i + 1,
		})
	}
	ix, err := Build(context.Background(), docs, embedder, BuildOptions{ChunkSize: 50, ChunkOverlap: 5, TargetDim: 8})
	require.NoError(t, err)
	require.True(t, ix.Reduced())

	// an indexed chunk queried verbatim should rank itself first
	results, err := ix.Search(context.Background(), "항목 7 고유한 단어 word7", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 8, results[0].Metadata.Page)
}

func TestStoreLifecycle(t *testing.T) {
	embedder := ai.NewHashingEmbedder(64)
	store := NewStore()
	ctx := context.Background()

	assert.False(t, store.Ready())
	results, err := store.Search(ctx, "주차", 3)
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = store.Rebuild(ctx, testDocs(), embedder, BuildOptions{ChunkSize: 50, ChunkOverlap: 5})
	require.NoError(t, err)
	assert.True(t, store.Ready())

	results, err = store.Search(ctx, "주차", 3)
	require.NoError(t, err)
	assert.NotEmpty(t, results)
}

func TestStoreFailedRebuildKeepsSnapshot(t *testing.T) {
	embedder := ai.NewHashingEmbedder(64)
	store := NewStore()
	ctx := context.Background()

	_, err := store.Rebuild(ctx, testDocs(), embedder, BuildOptions{ChunkSize: 50, ChunkOverlap: 5})
	require.NoError(t, err)
	prev := store.Current()

	_, err = store.Rebuild(ctx, nil, embedder, BuildOptions{})
	assert.ErrorIs(t, err, ErrEmptyCorpus)
	assert.Same(t, prev, store.Current())
}
