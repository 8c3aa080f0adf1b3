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


package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/poiesic/ragline/store"
)

// MockStore is a test double for store.Store. It keeps datasets and
// documents in memory so that uploads become visible to subsequent
// listings, and records every call so tests can assert on call counts
// and ordering. Custom behavior is injected via function fields.
type MockStore struct {
	// FindOrCreateDatasetFunc is called by FindOrCreateDataset if set.
	FindOrCreateDatasetFunc func(ctx context.Context, name, embeddingModel string) (*store.Dataset, error)

	// UploadFunc is called by Upload if set.
	UploadFunc func(ctx context.Context, dataset *store.Dataset, displayName string, blob []byte) error

	// ListDocumentsFunc is called by ListDocuments if set.
	ListDocumentsFunc func(ctx context.Context, dataset *store.Dataset, opts store.ListOptions) ([]store.Document, error)

	// DeleteDocumentFunc is called by DeleteDocument if set.
	DeleteDocumentFunc func(ctx context.Context, dataset *store.Dataset, id string) error

	// TriggerParseFunc is called by TriggerParse if set.
	TriggerParseFunc func(ctx context.Context, dataset *store.Dataset, documentIDs []string) error

	// RetrieveFunc is called by Retrieve if set.
	RetrieveFunc func(ctx context.Context, opts store.RetrieveOptions) ([]store.Chunk, error)

	mu       sync.Mutex
	datasets map[string]*store.Dataset
	docs     map[string][]store.Document
	seq      int
	calls    []string
}

var _ store.Store = (*MockStore)(nil)

// NewMockStore creates a mock store with empty in-memory state.
func NewMockStore() *MockStore {
	return &MockStore{
		datasets: make(map[string]*store.Dataset),
		docs:     make(map[string][]store.Document),
	}
}

// FindOrCreateDataset returns the named dataset, creating it on first use.
func (m *MockStore) FindOrCreateDataset(ctx context.Context, name, embeddingModel string) (*store.Dataset, error) {
	m.record(fmt.Sprintf("FindOrCreateDataset(%s)", name))

	if m.FindOrCreateDatasetFunc != nil {
		return m.FindOrCreateDatasetFunc(ctx, name, embeddingModel)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ds, ok := m.datasets[name]; ok {
		return ds, nil
	}
	m.seq++
	ds := &store.Dataset{
		ID:             fmt.Sprintf("ds-%d", m.seq),
		Name:           name,
		EmbeddingModel: embeddingModel,
		ChunkMethod:    "naive",
		ParserConfig:   store.DefaultParserConfig(),
	}
	m.datasets[name] = ds
	return ds, nil
}

// Upload stores a new document under the display name with a generated id
// and status UNSTART.
func (m *MockStore) Upload(ctx context.Context, dataset *store.Dataset, displayName string, blob []byte) error {
	m.record(fmt.Sprintf("Upload(%s)", displayName))

	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, dataset, displayName, blob)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.docs[dataset.ID] = append(m.docs[dataset.ID], store.Document{
		ID:   fmt.Sprintf("doc-%d", m.seq),
		Name: displayName,
		Run:  store.RunUnstart,
	})
	return nil
}

// ListDocuments filters the in-memory documents by id or keyword substring.
func (m *MockStore) ListDocuments(ctx context.Context, dataset *store.Dataset, opts store.ListOptions) ([]store.Document, error) {
	switch {
	case opts.ID != "":
		m.record(fmt.Sprintf("ListDocuments(id=%s)", opts.ID))
	case opts.Keywords != "":
		m.record(fmt.Sprintf("ListDocuments(keywords=%s)", opts.Keywords))
	default:
		m.record("ListDocuments()")
	}

	if m.ListDocumentsFunc != nil {
		return m.ListDocumentsFunc(ctx, dataset, opts)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.Document
	for _, doc := range m.docs[dataset.ID] {
		if opts.ID != "" {
			if doc.ID == opts.ID {
				out = append(out, doc)
			}
			continue
		}
		if opts.Keywords == "" || strings.Contains(doc.Name, opts.Keywords) {
			out = append(out, doc)
		}
	}
	return out, nil
}

// DeleteDocument removes the document with the given id, if present.
func (m *MockStore) DeleteDocument(ctx context.Context, dataset *store.Dataset, id string) error {
	m.record(fmt.Sprintf("DeleteDocument(%s)", id))

	if m.DeleteDocumentFunc != nil {
		return m.DeleteDocumentFunc(ctx, dataset, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	docs := m.docs[dataset.ID]
	for i, doc := range docs {
		if doc.ID == id {
			m.docs[dataset.ID] = append(docs[:i], docs[i+1:]...)
			return nil
		}
	}
	return nil
}

// TriggerParse marks the addressed documents as DONE so that a subsequent
// poll observes success. Tests that need other sequences override
// ListDocumentsFunc or TriggerParseFunc.
func (m *MockStore) TriggerParse(ctx context.Context, dataset *store.Dataset, documentIDs []string) error {
	m.record(fmt.Sprintf("TriggerParse(%s)", strings.Join(documentIDs, ",")))

	if m.TriggerParseFunc != nil {
		return m.TriggerParseFunc(ctx, dataset, documentIDs)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range documentIDs {
		for i := range m.docs[dataset.ID] {
			if m.docs[dataset.ID][i].ID == id {
				m.docs[dataset.ID][i].Run = store.RunDone
				m.docs[dataset.ID][i].Progress = 1.0
			}
		}
	}
	return nil
}

// Retrieve returns no chunks by default.
func (m *MockStore) Retrieve(ctx context.Context, opts store.RetrieveOptions) ([]store.Chunk, error) {
	m.record(fmt.Sprintf("Retrieve(weight=%.2f)", opts.VectorSimilarityWeight))

	if m.RetrieveFunc != nil {
		return m.RetrieveFunc(ctx, opts)
	}
	return []store.Chunk{}, nil
}

// SetRunStatus overrides the run status of a stored document, for
// scripting parse outcomes without overriding ListDocumentsFunc.
func (m *MockStore) SetRunStatus(dataset *store.Dataset, id string, status store.RunStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.docs[dataset.ID] {
		if m.docs[dataset.ID][i].ID == id {
			m.docs[dataset.ID][i].Run = status
		}
	}
}

// SeedDocument inserts a document directly, bypassing Upload. Useful for
// pre-populating duplicate-detection scenarios.
func (m *MockStore) SeedDocument(dataset *store.Dataset, doc store.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[dataset.ID] = append(m.docs[dataset.ID], doc)
}

// Datasets returns a copy of the datasets created so far.
func (m *MockStore) Datasets() []*store.Dataset {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*store.Dataset, 0, len(m.datasets))
	for _, ds := range m.datasets {
		out = append(out, ds)
	}
	return out
}

// Documents returns a copy of the documents currently held for a dataset.
func (m *MockStore) Documents(dataset *store.Dataset) []store.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]store.Document, len(m.docs[dataset.ID]))
	copy(out, m.docs[dataset.ID])
	return out
}

// Calls returns the recorded call log in invocation order.
func (m *MockStore) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many recorded calls start with the given method
// name.
func (m *MockStore) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, call := range m.calls {
		if strings.HasPrefix(call, method+"(") {
			n++
		}
	}
	return n
}

// ResetCalls clears the call log but keeps the stored state.
func (m *MockStore) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

func (m *MockStore) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}
