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
	"net/http"
	"net/url"

	"github.com/poiesic/ragline/store"
)

type datasetPayload struct {
	ID             string               `json:"id,omitempty"`
	Name           string               `json:"name"`
	EmbeddingModel string               `json:"embedding_model,omitempty"`
	ChunkMethod    string               `json:"chunk_method,omitempty"`
	ParserConfig   *parserConfigPayload `json:"parser_config,omitempty"`
}

type parserConfigPayload struct {
	ChunkTokenNum   int           `json:"chunk_token_num"`
	Delimiter       string        `json:"delimiter"`
	HTML4Excel      bool          `json:"html4excel"`
	LayoutRecognize string        `json:"layout_recognize"`
	Raptor          raptorPayload `json:"raptor"`
}

type raptorPayload struct {
	UseRaptor  bool    `json:"use_raptor"`
	Prompt     string  `json:"prompt"`
	MaxToken   int     `json:"max_token"`
	Threshold  float64 `json:"threshold"`
	MaxCluster int     `json:"max_cluster"`
	RandomSeed int     `json:"random_seed"`
}

func toParserConfigPayload(pc store.ParserConfig) *parserConfigPayload {
	return &parserConfigPayload{
		ChunkTokenNum:   pc.ChunkTokenNum,
		Delimiter:       pc.Delimiter,
		HTML4Excel:      pc.HTML4Excel,
		LayoutRecognize: pc.LayoutRecognize,
		Raptor: raptorPayload{
			UseRaptor:  pc.Raptor.UseRaptor,
			Prompt:     pc.Raptor.Prompt,
			MaxToken:   pc.Raptor.MaxToken,
			Threshold:  pc.Raptor.Threshold,
			MaxCluster: pc.Raptor.MaxCluster,
			RandomSeed: pc.Raptor.RandomSeed,
		},
	}
}

func (p datasetPayload) toDataset() *store.Dataset {
	ds := &store.Dataset{
		ID:             p.ID,
		Name:           p.Name,
		EmbeddingModel: p.EmbeddingModel,
		ChunkMethod:    p.ChunkMethod,
	}
	if p.ParserConfig != nil {
		ds.ParserConfig = store.ParserConfig{
			ChunkTokenNum:   p.ParserConfig.ChunkTokenNum,
			Delimiter:       p.ParserConfig.Delimiter,
			HTML4Excel:      p.ParserConfig.HTML4Excel,
			LayoutRecognize: p.ParserConfig.LayoutRecognize,
			Raptor: store.RaptorConfig{
				UseRaptor:  p.ParserConfig.Raptor.UseRaptor,
				Prompt:     p.ParserConfig.Raptor.Prompt,
				MaxToken:   p.ParserConfig.Raptor.MaxToken,
				Threshold:  p.ParserConfig.Raptor.Threshold,
				MaxCluster: p.ParserConfig.Raptor.MaxCluster,
				RandomSeed: p.ParserConfig.Raptor.RandomSeed,
			},
		}
	}
	return ds
}

// FindOrCreateDataset looks up a dataset by exact name and creates it with
// the default parser configuration when no match exists. A failed listing
// is logged and treated as "not found" so that creation is still attempted.
func (c *Client) FindOrCreateDataset(ctx context.Context, name, embeddingModel string) (*store.Dataset, error) {
	if name == "" {
		return nil, store.ErrDatasetNameRequired
	}

	var listed []datasetPayload
	err := c.doJSON(ctx, http.MethodGet, "/api/v1/datasets?name="+url.QueryEscape(name), nil, &listed)
	if err != nil {
		c.logger.Warn("listing datasets failed, will attempt creation", "name", name, "err", err)
	}
	for _, d := range listed {
		if d.Name == name {
			c.logger.Info("found dataset", "name", name, "id", d.ID)
			return d.toDataset(), nil
		}
	}

	create := datasetPayload{
		Name:         name,
		ChunkMethod:  "naive",
		ParserConfig: toParserConfigPayload(store.DefaultParserConfig()),
	}
	if embeddingModel != "" {
		create.EmbeddingModel = embeddingModel
	} else {
		c.logger.Info("no embedding model specified, store default will be used", "name", name)
	}

	var created datasetPayload
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/datasets", create, &created); err != nil {
		return nil, err
	}

	c.logger.Info("created dataset", "name", created.Name, "id", created.ID)
	return created.toDataset(), nil
}
