// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package query

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// WeightResult is the evaluation outcome for one vector weight.
type WeightResult struct {
	Weight float64
	// Score is the mean relevance of the top evaluated chunks, 0.0-1.0.
	Score float64
	// Chunks is how many chunks the weight retrieved.
	Chunks int
}

// GridSearch sweeps vector weights against a test query and scores each
// weight's retrieval with the evaluator. Weights run concurrently on a
// worker pool; the sweep only reads from the store, so it does not
// contend with ingestion's one-at-a-time policy.
type GridSearch struct {
	retriever *Retriever
	evaluator *Evaluator
	workers   int
	topN      int
	logger    *slog.Logger
}

// NewGridSearch creates a grid search. topN caps how many chunks per
// weight are scored; workers below 1 fall back to 1. A nil logger uses
// slog.Default().
func NewGridSearch(retriever *Retriever, evaluator *Evaluator, workers, topN int, logger *slog.Logger) (*GridSearch, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if evaluator == nil {
		return nil, ErrEvaluatorRequired
	}
	if workers < 1 {
		workers = 1
	}
	if topN < 1 {
		topN = 3
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GridSearch{
		retriever: retriever,
		evaluator: evaluator,
		workers:   workers,
		topN:      topN,
		logger:    logger.With("component", "gridsearch"),
	}, nil
}

// Run evaluates every weight against q and returns all results plus the
// best one. Ties keep the earliest weight in the input order, so callers
// get deterministic output from a deterministic store.
func (g *GridSearch) Run(ctx context.Context, datasetIDs []string, q string, weights []float64) ([]WeightResult, WeightResult, error) {
	if q == "" {
		return nil, WeightResult{}, ErrQuestionRequired
	}
	if len(weights) == 0 {
		return nil, WeightResult{}, ErrNoWeights
	}

	pool, err := ants.NewPool(g.workers)
	if err != nil {
		return nil, WeightResult{}, err
	}
	defer pool.Release()

	results := make([]WeightResult, len(weights))
	var wg sync.WaitGroup
	for i, weight := range weights {
		wg.Add(1)
		i, weight := i, weight
		submitErr := pool.Submit(func() {
			defer wg.Done()
			results[i] = g.evaluateWeight(ctx, datasetIDs, q, weight)
		})
		if submitErr != nil {
			wg.Done()
			results[i] = WeightResult{Weight: weight}
		}
	}
	wg.Wait()

	best := results[0]
	for _, result := range results[1:] {
		if result.Score > best.Score {
			best = result
		}
	}

	g.logger.Info("grid search complete",
		"weights", len(weights), "best_weight", best.Weight, "best_score", best.Score)
	return results, best, nil
}

func (g *GridSearch) evaluateWeight(ctx context.Context, datasetIDs []string, q string, weight float64) WeightResult {
	result := WeightResult{Weight: weight}

	chunks, err := g.retriever.RetrieveWithWeight(ctx, datasetIDs, q, weight)
	if err != nil {
		g.logger.Warn("retrieval failed for weight", "weight", weight, "err", err)
		return result
	}
	result.Chunks = len(chunks)
	if len(chunks) == 0 {
		return result
	}

	n := g.topN
	if n > len(chunks) {
		n = len(chunks)
	}

	var total float64
	for _, chunk := range chunks[:n] {
		total += g.evaluator.Score(ctx, q, chunk.Content)
	}
	result.Score = total / float64(n)

	g.logger.Debug("evaluated weight",
		"weight", weight, "chunks", result.Chunks, "score", result.Score)
	return result
}
