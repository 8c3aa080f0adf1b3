package query

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/ragline/store"
	"github.com/poiesic/ragline/store/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newWeightedStore returns a mock whose retrieval content depends on the
// vector weight, so the scoring model can tell the weights apart.
func newWeightedStore(goodWeight float64) *mock.MockStore {
	st := mock.NewMockStore()
	st.RetrieveFunc = func(ctx context.Context, opts store.RetrieveOptions) ([]store.Chunk, error) {
		content := "irrelevant filler"
		if opts.VectorSimilarityWeight == goodWeight {
			content = "exactly what was asked"
		}
		return []store.Chunk{
			{ID: "c1", Content: content, DocumentName: "a.txt"},
			{ID: "c2", Content: content, DocumentName: "a.txt"},
		}, nil
	}
	return st
}

func newRelevanceModel() *fakeModel {
	return &fakeModel{
		GenerateFunc: func(call int, prompt string) (string, error) {
			if strings.Contains(prompt, "exactly what was asked") {
				return "0.9", nil
			}
			return "0.2", nil
		},
	}
}

func newTestGridSearch(t *testing.T, st store.Store, model *fakeModel, workers int) *GridSearch {
	t.Helper()
	retriever, err := NewRetriever(st, 10, 0.5, nil)
	require.NoError(t, err)
	evaluator, err := NewEvaluator(model, nil)
	require.NoError(t, err)
	g, err := NewGridSearch(retriever, evaluator, workers, 2, nil)
	require.NoError(t, err)
	return g
}

func TestGridSearch_FindsBestWeight(t *testing.T) {
	g := newTestGridSearch(t, newWeightedStore(0.7), newRelevanceModel(), 2)

	weights := []float64{0.1, 0.4, 0.7, 0.9}
	results, best, err := g.Run(context.Background(), []string{"ds-1"}, "test query", weights)
	require.NoError(t, err)

	require.Len(t, results, 4)
	assert.InDelta(t, 0.7, best.Weight, 1e-9)
	assert.InDelta(t, 0.9, best.Score, 1e-9)
	for i, result := range results {
		assert.InDelta(t, weights[i], result.Weight, 1e-9,
			"results keep the input weight order")
		assert.Equal(t, 2, result.Chunks)
	}
}

func TestGridSearch_TieKeepsEarliestWeight(t *testing.T) {
	// Every weight retrieves the same content, so all scores tie.
	g := newTestGridSearch(t, newWeightedStore(-1), newRelevanceModel(), 2)

	_, best, err := g.Run(context.Background(), []string{"ds-1"}, "test query", []float64{0.2, 0.5, 0.8})
	require.NoError(t, err)
	assert.InDelta(t, 0.2, best.Weight, 1e-9)
}

func TestGridSearch_RetrievalFailureScoresZero(t *testing.T) {
	st := mock.NewMockStore()
	st.RetrieveFunc = func(ctx context.Context, opts store.RetrieveOptions) ([]store.Chunk, error) {
		if opts.VectorSimilarityWeight == 0.5 {
			return nil, errors.New("retrieval backend down")
		}
		return []store.Chunk{{ID: "c1", Content: "exactly what was asked"}}, nil
	}
	g := newTestGridSearch(t, st, newRelevanceModel(), 1)

	results, best, err := g.Run(context.Background(), []string{"ds-1"}, "test query", []float64{0.5, 0.9})
	require.NoError(t, err)

	assert.Zero(t, results[0].Score)
	assert.Zero(t, results[0].Chunks)
	assert.InDelta(t, 0.9, best.Weight, 1e-9)
}

func TestGridSearch_EmptyRetrievalScoresZero(t *testing.T) {
	st := mock.NewMockStore()
	st.RetrieveFunc = func(ctx context.Context, opts store.RetrieveOptions) ([]store.Chunk, error) {
		return nil, nil
	}
	g := newTestGridSearch(t, st, newRelevanceModel(), 1)

	results, _, err := g.Run(context.Background(), []string{"ds-1"}, "test query", []float64{0.5})
	require.NoError(t, err)
	assert.Zero(t, results[0].Score)
}

func TestGridSearch_Validation(t *testing.T) {
	g := newTestGridSearch(t, mock.NewMockStore(), newRelevanceModel(), 1)

	_, _, err := g.Run(context.Background(), nil, "", []float64{0.5})
	assert.ErrorIs(t, err, ErrQuestionRequired)

	_, _, err = g.Run(context.Background(), nil, "q", nil)
	assert.ErrorIs(t, err, ErrNoWeights)

	_, err2 := NewGridSearch(nil, nil, 1, 1, nil)
	assert.ErrorIs(t, err2, ErrRetrieverRequired)
}
