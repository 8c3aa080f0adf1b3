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


package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// RAGFlowConfig holds the connection settings for the remote store.
// Durations are plain seconds so the YAML stays numeric.
type RAGFlowConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the HTTP timeout as a duration.
func (c RAGFlowConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// UploadConfig holds the document ingestion settings.
type UploadConfig struct {
	Enabled                   bool     `yaml:"enabled"`
	FolderPath                string   `yaml:"folder_path"`
	DatasetPrefix             string   `yaml:"dataset_prefix"`
	EmbeddingModel            string   `yaml:"embedding_model"`
	DuplicateHandling         string   `yaml:"duplicate_handling"`
	AllowedExtensions         []string `yaml:"allowed_extensions"`
	ParseRetryCount           int      `yaml:"parse_retry_count"`
	ParseRetryIntervalSeconds int      `yaml:"parse_retry_interval_seconds"`
	ParseMaxElapsedSeconds    int      `yaml:"parse_max_elapsed_seconds"`
}

// ParseRetryInterval returns the poll interval as a duration.
func (c UploadConfig) ParseRetryInterval() time.Duration {
	return time.Duration(c.ParseRetryIntervalSeconds) * time.Second
}

// ParseMaxElapsed returns the per-document polling bound as a duration.
// Zero disables the bound.
func (c UploadConfig) ParseMaxElapsed() time.Duration {
	return time.Duration(c.ParseMaxElapsedSeconds) * time.Second
}

// RetrievalConfig holds the chunk retrieval settings.
type RetrievalConfig struct {
	TopK                int     `yaml:"top_k"`
	DefaultVectorWeight float64 `yaml:"default_vector_weight"`
}

// GridSearchConfig holds the vector-weight sweep settings.
type GridSearchConfig struct {
	Enabled             bool      `yaml:"enabled"`
	TestQuery           string    `yaml:"test_query"`
	VectorWeightsToTest []float64 `yaml:"vector_weights_to_test"`
	TopNChunksForEval   int       `yaml:"top_n_chunks_for_eval"`
	TopKRetrieval       int       `yaml:"top_k_retrieval"`
	Workers             int       `yaml:"workers"`
}

// GenerationConfig holds the answer generation settings.
type GenerationConfig struct {
	Enabled     bool     `yaml:"enabled"`
	Host        string   `yaml:"host"`
	Model       string   `yaml:"model"`
	Temperature float64  `yaml:"temperature"`
	Queries     []string `yaml:"queries"`
}

// ReportConfig holds the run-log export settings.
type ReportConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Config is the top-level application configuration.
type Config struct {
	RAGFlow    RAGFlowConfig    `yaml:"ragflow"`
	Upload     UploadConfig     `yaml:"document_upload"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	GridSearch GridSearchConfig `yaml:"grid_search"`
	Generation GenerationConfig `yaml:"generation"`
	Report     ReportConfig     `yaml:"report"`
}

// Default returns a Config with every tunable at its default. Credentials
// and paths are left empty and must come from the file or the caller.
func Default() *Config {
	return &Config{
		RAGFlow: RAGFlowConfig{
			BaseURL:        "http://localhost:9380",
			TimeoutSeconds: 60,
		},
		Upload: UploadConfig{
			Enabled:                   true,
			DatasetPrefix:             "rag_",
			DuplicateHandling:         "skip_name",
			AllowedExtensions:         []string{".txt", ".pdf", ".md", ".docx", ".doc"},
			ParseRetryCount:           10,
			ParseRetryIntervalSeconds: 5,
			ParseMaxElapsedSeconds:    1800,
		},
		Retrieval: RetrievalConfig{
			TopK:                10,
			DefaultVectorWeight: 0.5,
		},
		GridSearch: GridSearchConfig{
			VectorWeightsToTest: []float64{0.1, 0.3, 0.5, 0.7, 0.9},
			TopNChunksForEval:   3,
			TopKRetrieval:       10,
			Workers:             4,
		},
		Generation: GenerationConfig{
			Host:        "http://localhost:11434",
			Model:       "llama3",
			Temperature: 0.1,
		},
		Report: ReportConfig{
			Enabled: true,
			Path:    "ragline_runs.xlsx",
		},
	}
}

// Load reads the YAML file at path over the defaults. Fields absent from
// the file keep their default values.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the parts of the configuration that would otherwise
// fail deep inside a run.
func (c *Config) Validate() error {
	if c.RAGFlow.APIKey == "" {
		return ErrAPIKeyRequired
	}
	if c.RAGFlow.BaseURL == "" {
		return ErrBaseURLRequired
	}
	if c.Upload.Enabled && c.Upload.FolderPath == "" {
		return ErrFolderPathRequired
	}
	if c.Upload.ParseRetryCount < 1 {
		return ErrInvalidRetryCount
	}
	if c.Upload.ParseRetryIntervalSeconds <= 0 {
		return ErrInvalidRetryInterval
	}
	if c.GridSearch.Enabled {
		if c.GridSearch.TestQuery == "" {
			return ErrTestQueryRequired
		}
		if len(c.GridSearch.VectorWeightsToTest) == 0 {
			return ErrNoWeights
		}
		for _, w := range c.GridSearch.VectorWeightsToTest {
			if w < 0 || w > 1 {
				return fmt.Errorf("%w: %v", ErrWeightOutOfRange, w)
			}
		}
	}
	if c.Generation.Enabled && len(c.Generation.Queries) == 0 {
		return ErrNoQueries
	}
	return nil
}
