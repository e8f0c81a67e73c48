package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashingEmbedderDeterministic(t *testing.T) {
	e := NewHashingEmbedder(128)
	ctx := context.Background()

	a, err := e.Encode(ctx, []string{"주차장 안내", "hello world"})
	require.NoError(t, err)
	b, err := e.Encode(ctx, []string{"주차장 안내", "hello world"})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestHashingEmbedderDimension(t *testing.T) {
	e := NewHashingEmbedder(0)
	assert.Equal(t, DefaultHashingDim, e.Dimension())

	vecs, err := e.Encode(context.Background(), []string{"one two three"})
	require.NoError(t, err)
	require.Len(t, vecs, 1)
	assert.Len(t, vecs[0], DefaultHashingDim)
}

func TestHashingEmbedderCountsTokens(t *testing.T) {
	e := NewHashingEmbedder(64)
	vecs, err := e.Encode(context.Background(), []string{"a a a"})
	require.NoError(t, err)

	var total float64
	for _, v := range vecs[0] {
		total += v
	}
	assert.Equal(t, 3.0, total)
}

func TestHashingEmbedderEmptyText(t *testing.T) {
	e := NewHashingEmbedder(32)
	vecs, err := e.Encode(context.Background(), []string{""})
	require.NoError(t, err)
	require.Len(t, vecs, 1)
	for _, v := range vecs[0] {
		assert.Zero(t, v)
	}
}
