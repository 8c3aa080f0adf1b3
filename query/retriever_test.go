package query

import (
	"context"
	"testing"

	"github.com/poiesic/ragline/store"
	"github.com/poiesic/ragline/store/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRetriever_Validation(t *testing.T) {
	_, err := NewRetriever(nil, 10, 0.5, nil)
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewRetriever(mock.NewMockStore(), 10, 1.5, nil)
	assert.ErrorIs(t, err, ErrWeightOutOfRange)
}

func TestRetriever_PassesConfiguredOptions(t *testing.T) {
	st := mock.NewMockStore()
	var seen store.RetrieveOptions
	st.RetrieveFunc = func(ctx context.Context, opts store.RetrieveOptions) ([]store.Chunk, error) {
		seen = opts
		return []store.Chunk{{ID: "c1", Content: "passage"}}, nil
	}

	r, err := NewRetriever(st, 7, 0.3, nil)
	require.NoError(t, err)

	chunks, err := r.Retrieve(context.Background(), []string{"ds-1", "ds-2"}, "what is it?")
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.Equal(t, "what is it?", seen.Question)
	assert.Equal(t, []string{"ds-1", "ds-2"}, seen.DatasetIDs)
	assert.Equal(t, 7, seen.TopK)
	assert.InDelta(t, 0.3, seen.VectorSimilarityWeight, 1e-9)
}

func TestRetriever_WeightOverride(t *testing.T) {
	st := mock.NewMockStore()
	var seen float64
	st.RetrieveFunc = func(ctx context.Context, opts store.RetrieveOptions) ([]store.Chunk, error) {
		seen = opts.VectorSimilarityWeight
		return nil, nil
	}

	r, err := NewRetriever(st, 10, 0.5, nil)
	require.NoError(t, err)

	_, err = r.RetrieveWithWeight(context.Background(), []string{"ds-1"}, "q", 0.9)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, seen, 1e-9)

	_, err = r.RetrieveWithWeight(context.Background(), []string{"ds-1"}, "q", 1.2)
	assert.ErrorIs(t, err, ErrWeightOutOfRange)
}

func TestRetriever_EmptyQuestion(t *testing.T) {
	r, err := NewRetriever(mock.NewMockStore(), 10, 0.5, nil)
	require.NoError(t, err)
	_, err = r.Retrieve(context.Background(), []string{"ds-1"}, "")
	assert.ErrorIs(t, err, ErrQuestionRequired)
}
