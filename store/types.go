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


package store

// Dataset is a named remote collection that documents are ingested into.
// Datasets are created lazily on first reference by name and are never
// deleted by this library.
type Dataset struct {
	ID             string
	Name           string
	EmbeddingModel string
	ChunkMethod    string
	ParserConfig   ParserConfig
}

// ParserConfig controls how the remote store chunks and parses documents
// in a dataset. It is only sent when a dataset is created.
type ParserConfig struct {
	ChunkTokenNum   int
	Delimiter       string
	HTML4Excel      bool
	LayoutRecognize string
	Raptor          RaptorConfig
}

// RaptorConfig holds the hierarchical-summarization settings of a dataset
// parser. Disabled by default.
type RaptorConfig struct {
	UseRaptor  bool
	Prompt     string
	MaxToken   int
	Threshold  float64
	MaxCluster int
	RandomSeed int
}

// DefaultParserConfig returns the parser configuration used when a dataset
// has to be created. It chunks on small token windows with a mixed
// Latin/CJK delimiter set and leaves hierarchical summarization off.
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		ChunkTokenNum:   128,
		Delimiter:       "\\n!?;。；！？",
		HTML4Excel:      false,
		LayoutRecognize: "DeepDOC",
		Raptor: RaptorConfig{
			UseRaptor:  false,
			Prompt:     "Summarize the following paragraphs. Be careful with numbers, do not make things up. Paragraphs as following:\n{cluster_content}\nThe above is the content you need to summarize.",
			MaxToken:   256,
			Threshold:  0.10,
			MaxCluster: 64,
			RandomSeed: 0,
		},
	}
}

// RunStatus is the remote store's parsing state for one document. The
// vocabulary is owned by the store; this library only classifies values
// into the three classes below and otherwise treats them as opaque.
type RunStatus string

// Status values observed from RAGFlow-style stores. Other values may
// appear and are classified as still-in-progress.
const (
	RunUnstart RunStatus = "UNSTART"
	RunRunning RunStatus = "RUNNING"
	RunDone    RunStatus = "DONE"
	RunFail    RunStatus = "FAIL"
	RunCancel  RunStatus = "CANCEL"
)

// Done reports whether the status is a terminal success.
func (s RunStatus) Done() bool {
	switch s {
	case RunDone, "success":
		return true
	}
	return false
}

// Failed reports whether the status is a reported failure. A single
// failure observation is not necessarily terminal; see ingest.Poller.
func (s RunStatus) Failed() bool {
	switch s {
	case RunFail, "failed", "error":
		return true
	}
	return false
}

// Document is one ingested file as known to the remote store. The ID is
// assigned by the store on upload and, once assigned, never changes for
// the lifetime of a pipeline run.
type Document struct {
	ID       string
	Name     string
	Run      RunStatus
	Progress float64
	// ProgressMsg is informational only and may be empty.
	ProgressMsg string
}

// ListOptions narrows a document listing. ID takes precedence over
// Keywords; zero Page/PageSize fall back to the implementation defaults.
type ListOptions struct {
	// ID selects a single document by its store identifier.
	ID string
	// Keywords matches documents whose display name contains the value.
	Keywords string
	Page     int
	PageSize int
}

// Chunk is one retrieved passage with its similarity scores.
type Chunk struct {
	ID               string
	Content          string
	DocumentID       string
	DocumentName     string
	Similarity       float64
	VectorSimilarity float64
	TermSimilarity   float64
}

// RetrieveOptions parameterizes a retrieval query across datasets.
type RetrieveOptions struct {
	Question   string
	DatasetIDs []string
	// VectorSimilarityWeight balances vector vs term similarity, 0.0-1.0.
	VectorSimilarityWeight float64
	TopK                   int
}
