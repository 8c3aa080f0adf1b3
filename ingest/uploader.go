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


package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/poiesic/ragline/store"
)

// Uploader reads a local file and submits it to the store under its base
// filename, then recovers the assigned document id by listing, since the
// store's upload call does not return one.
type Uploader struct {
	store  store.Store
	logger *slog.Logger
}

// NewUploader creates an uploader. A nil logger falls back to slog.Default().
func NewUploader(st store.Store, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{store: st, logger: logger}
}

// Upload submits the file at path to the dataset. On success it returns
// the document id recovered by a best-effort name lookup; an empty id with
// a nil error is a partial success (the upload landed but the id could not
// be determined). Any error is a per-file failure the caller should count,
// not escalate.
func (u *Uploader) Upload(ctx context.Context, dataset *store.Dataset, path string) (string, error) {
	if dataset == nil {
		return "", ErrDatasetRequired
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	name := filepath.Base(path)
	if err := u.store.Upload(ctx, dataset, name, blob); err != nil {
		return "", fmt.Errorf("uploading %s: %w", name, err)
	}
	u.logger.Info("upload started", "dataset", dataset.Name, "file", name)

	id, err := u.lookupID(ctx, dataset, name)
	if err != nil {
		u.logger.Error("document id lookup failed", "file", name, "err", err)
		return "", nil
	}
	if id == "" {
		u.logger.Warn("uploaded but could not determine document id", "file", name)
	}
	return id, nil
}

// lookupID finds the id the store assigned to a freshly uploaded document.
// Exact display-name match wins; otherwise the first keyword match is used.
func (u *Uploader) lookupID(ctx context.Context, dataset *store.Dataset, name string) (string, error) {
	docs, err := u.store.ListDocuments(ctx, dataset, store.ListOptions{
		Keywords: name,
		PageSize: 100,
	})
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return "", nil
	}

	for _, doc := range docs {
		if doc.Name == name {
			return doc.ID, nil
		}
	}

	u.logger.Warn("no exact name match, falling back to first result",
		"file", name, "id", docs[0].ID)
	return docs[0].ID, nil
}
