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


package ragflow

import (
	"context"
	"errors"
	"net/http"

	"github.com/poiesic/ragline/store"
)

type retrievalRequest struct {
	Question               string   `json:"question"`
	DatasetIDs             []string `json:"dataset_ids"`
	VectorSimilarityWeight float64  `json:"vector_similarity_weight"`
	TopK                   int      `json:"top_k"`
	PageSize               int      `json:"page_size"`
}

type chunkPayload struct {
	ID               string  `json:"id"`
	Content          string  `json:"content"`
	DocumentID       string  `json:"document_id"`
	DocumentKeyword  string  `json:"document_keyword"`
	Similarity       float64 `json:"similarity"`
	VectorSimilarity float64 `json:"vector_similarity"`
	TermSimilarity   float64 `json:"term_similarity"`
}

type retrievalData struct {
	Chunks []chunkPayload `json:"chunks"`
	Total  int            `json:"total"`
}

// Retrieve runs a similarity query across the given datasets.
func (c *Client) Retrieve(ctx context.Context, opts store.RetrieveOptions) ([]store.Chunk, error) {
	if opts.Question == "" {
		return nil, errors.New("question required")
	}
	if len(opts.DatasetIDs) == 0 {
		return nil, errors.New("at least one dataset id required")
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = 10
	}

	req := retrievalRequest{
		Question:               opts.Question,
		DatasetIDs:             opts.DatasetIDs,
		VectorSimilarityWeight: opts.VectorSimilarityWeight,
		TopK:                   topK,
		PageSize:               topK,
	}

	var data retrievalData
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/retrieval", req, &data); err != nil {
		return nil, err
	}

	chunks := make([]store.Chunk, 0, len(data.Chunks))
	for _, ch := range data.Chunks {
		chunks = append(chunks, store.Chunk{
			ID:               ch.ID,
			Content:          ch.Content,
			DocumentID:       ch.DocumentID,
			DocumentName:     ch.DocumentKeyword,
			Similarity:       ch.Similarity,
			VectorSimilarity: ch.VectorSimilarity,
			TermSimilarity:   ch.TermSimilarity,
		})
	}

	c.logger.Debug("retrieved chunks",
		"question", opts.Question,
		"weight", opts.VectorSimilarityWeight,
		"count", len(chunks))
	return chunks, nil
}
