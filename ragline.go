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


package ragline

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/poiesic/ragline/config"
	"github.com/poiesic/ragline/ingest"
	"github.com/poiesic/ragline/query"
	"github.com/poiesic/ragline/report"
	"github.com/poiesic/ragline/store"
	"github.com/poiesic/ragline/store/ragflow"
	"github.com/tmc/langchaingo/llms"
)

// Client wires the configuration to a remote store and hands out the
// pipeline, query, and report components built on it.
type Client struct {
	store  store.Store
	config *config.Config
	logger *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*clientOptions)

type clientOptions struct {
	store  store.Store
	logger *slog.Logger
}

// WithStore substitutes the remote store implementation. Used by tests
// and by callers targeting a non-RAGFlow backend.
func WithStore(st store.Store) ClientOption {
	return func(o *clientOptions) {
		o.store = st
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ClientOption {
	return func(o *clientOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewClient validates cfg and connects it to a RAGFlow store, unless
// WithStore supplies one.
func NewClient(cfg *config.Config, opts ...ClientOption) (*Client, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	options := &clientOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	st := options.store
	if st == nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		client, err := ragflow.New(cfg.RAGFlow.APIKey, cfg.RAGFlow.BaseURL,
			ragflow.WithLogger(options.logger),
			ragflow.WithTimeout(cfg.RAGFlow.Timeout()))
		if err != nil {
			return nil, err
		}
		st = client
	}

	return &Client{
		store:  st,
		config: cfg,
		logger: options.logger,
	}, nil
}

// Store returns the underlying remote store.
func (c *Client) Store() store.Store {
	return c.store
}

// DatasetName derives the dataset name for a folder: the configured
// prefix plus the folder's base name with spaces collapsed to
// underscores. The same folder always maps to the same dataset.
func (c *Client) DatasetName(folder string) string {
	base := filepath.Base(filepath.Clean(folder))
	base = strings.ReplaceAll(base, " ", "_")
	return c.config.Upload.DatasetPrefix + base
}

// Dataset resolves the dataset for a folder, creating it remotely when
// it does not exist yet.
func (c *Client) Dataset(ctx context.Context, folder string) (*store.Dataset, error) {
	return c.store.FindOrCreateDataset(ctx, c.DatasetName(folder), c.config.Upload.EmbeddingModel)
}

// NewPipeline builds an ingestion pipeline from the configuration.
func (c *Client) NewPipeline(opts ...ingest.Option) (*ingest.Pipeline, error) {
	policy, err := ingest.ParsePolicy(c.config.Upload.DuplicateHandling)
	if err != nil {
		return nil, err
	}

	pipelineConfig := &ingest.Config{
		Policy:            policy,
		AllowedExtensions: c.config.Upload.AllowedExtensions,
		GracePeriod:       ingest.DefaultGracePeriod,
		MaxFailures:       c.config.Upload.ParseRetryCount,
		PollInterval:      c.config.Upload.ParseRetryInterval(),
		MaxElapsed:        c.config.Upload.ParseMaxElapsed(),
	}
	opts = append([]ingest.Option{ingest.WithLogger(c.logger)}, opts...)
	return ingest.NewPipeline(c.store, pipelineConfig, opts...)
}

// NewRetriever builds a retriever with the configured top-k and default
// vector weight.
func (c *Client) NewRetriever() (*query.Retriever, error) {
	return query.NewRetriever(c.store,
		c.config.Retrieval.TopK,
		c.config.Retrieval.DefaultVectorWeight,
		c.logger)
}

// NewGenerator builds an answer generator over the given model. Passing
// nil connects to the configured Ollama host.
func (c *Client) NewGenerator(model llms.Model) (*query.Generator, error) {
	if model == nil {
		var err error
		model, err = query.NewOllamaModel(c.config.Generation.Host, c.config.Generation.Model)
		if err != nil {
			return nil, err
		}
	}
	return query.NewGenerator(model, c.config.Generation.Temperature, c.logger)
}

// NewGridSearch builds a vector-weight grid search over the given judge
// model. Passing nil connects to the configured Ollama host.
func (c *Client) NewGridSearch(model llms.Model) (*query.GridSearch, error) {
	retriever, err := query.NewRetriever(c.store,
		c.config.GridSearch.TopKRetrieval,
		c.config.Retrieval.DefaultVectorWeight,
		c.logger)
	if err != nil {
		return nil, err
	}

	if model == nil {
		model, err = query.NewOllamaModel(c.config.Generation.Host, c.config.Generation.Model)
		if err != nil {
			return nil, err
		}
	}
	evaluator, err := query.NewEvaluator(model, c.logger)
	if err != nil {
		return nil, err
	}

	return query.NewGridSearch(retriever, evaluator,
		c.config.GridSearch.Workers,
		c.config.GridSearch.TopNChunksForEval,
		c.logger)
}

// NewReportWriter builds the run-log writer at the configured path.
func (c *Client) NewReportWriter() (*report.Writer, error) {
	return report.NewWriter(c.config.Report.Path, c.logger)
}
