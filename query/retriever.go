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

	"github.com/poiesic/ragline/store"
)

// Retriever runs hybrid retrieval queries against the remote store with
// a configured top-k and vector weight.
type Retriever struct {
	store        store.Store
	topK         int
	vectorWeight float64
	logger       *slog.Logger
}

// NewRetriever creates a retriever over st. A topK below 1 falls back
// to 10. A nil logger uses slog.Default().
func NewRetriever(st store.Store, topK int, vectorWeight float64, logger *slog.Logger) (*Retriever, error) {
	if st == nil {
		return nil, ErrStoreRequired
	}
	if vectorWeight < 0 || vectorWeight > 1 {
		return nil, ErrWeightOutOfRange
	}
	if topK < 1 {
		topK = 10
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		store:        st,
		topK:         topK,
		vectorWeight: vectorWeight,
		logger:       logger,
	}, nil
}

// Retrieve returns the chunks most similar to question across the given
// datasets, using the retriever's configured vector weight.
func (r *Retriever) Retrieve(ctx context.Context, datasetIDs []string, question string) ([]store.Chunk, error) {
	return r.RetrieveWithWeight(ctx, datasetIDs, question, r.vectorWeight)
}

// RetrieveWithWeight is Retrieve with an explicit vector weight. The grid
// search uses it to sweep weights without rebuilding the retriever.
func (r *Retriever) RetrieveWithWeight(ctx context.Context, datasetIDs []string, question string, weight float64) ([]store.Chunk, error) {
	if question == "" {
		return nil, ErrQuestionRequired
	}
	if weight < 0 || weight > 1 {
		return nil, ErrWeightOutOfRange
	}

	chunks, err := r.store.Retrieve(ctx, store.RetrieveOptions{
		Question:               question,
		DatasetIDs:             datasetIDs,
		VectorSimilarityWeight: weight,
		TopK:                   r.topK,
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("retrieved chunks",
		"question", question, "weight", weight, "count", len(chunks))
	return chunks, nil
}
