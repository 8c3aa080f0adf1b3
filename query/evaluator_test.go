package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScoringModel(response string, err error) *fakeModel {
	return &fakeModel{
		GenerateFunc: func(call int, prompt string) (string, error) {
			return response, err
		},
	}
}

func TestNewEvaluator_RequiresModel(t *testing.T) {
	_, err := NewEvaluator(nil, nil)
	assert.ErrorIs(t, err, ErrModelRequired)
}

func TestEvaluator_Score(t *testing.T) {
	cases := []struct {
		name     string
		response string
		want     float64
	}{
		{"bare number", "0.8", 0.8},
		{"number with prose", "Relevance: 0.75 out of 1", 0.75},
		{"integer one", "1", 1.0},
		{"zero", "0.0", 0.0},
		{"above range clamps", "2.5", 1.0},
		{"no number scores zero", "highly relevant", 0.0},
		{"empty response", "", 0.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := NewEvaluator(newScoringModel(tc.response, nil), nil)
			require.NoError(t, err)
			got := e.Score(context.Background(), "query", "passage")
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestEvaluator_ModelErrorScoresZero(t *testing.T) {
	e, err := NewEvaluator(newScoringModel("", errors.New("timeout")), nil)
	require.NoError(t, err)
	assert.Zero(t, e.Score(context.Background(), "query", "passage"))
}

func TestEvaluator_PromptCarriesQueryAndPassage(t *testing.T) {
	var seen string
	model := &fakeModel{
		GenerateFunc: func(call int, prompt string) (string, error) {
			seen = prompt
			return "0.5", nil
		},
	}
	e, err := NewEvaluator(model, nil)
	require.NoError(t, err)

	e.Score(context.Background(), "the query text", "the passage text")
	assert.Contains(t, seen, "the query text")
	assert.Contains(t, seen, "the passage text")
}
