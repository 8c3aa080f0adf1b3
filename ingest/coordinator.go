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
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/ragline/store"
)

// Stats aggregates the per-file outcomes of one folder walk.
type Stats struct {
	Processed int
	Uploaded  int
	Skipped   int
	Replaced  int
	Failed    int
}

// Coordinator walks a folder's direct entries, filters by extension,
// applies the duplicate policy and uploads accepted files. One file's
// failure never aborts the walk.
type Coordinator struct {
	store      store.Store
	resolver   *Resolver
	uploader   *Uploader
	policy     Policy
	extensions []string
	logger     *slog.Logger
}

// NewCoordinator creates a coordinator uploading files whose lowercase
// extension is in extensions (with or without a leading dot). A nil logger
// falls back to slog.Default().
func NewCoordinator(st store.Store, policy Policy, extensions []string, logger *slog.Logger) (*Coordinator, error) {
	if st == nil {
		return nil, ErrStoreRequired
	}
	if logger == nil {
		logger = slog.Default()
	}

	normalized := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}

	return &Coordinator{
		store:      st,
		resolver:   NewResolver(st, logger),
		uploader:   NewUploader(st, logger),
		policy:     policy,
		extensions: normalized,
		logger:     logger,
	}, nil
}

// Ingest uploads the eligible files in folder and returns the ids of the
// newly uploaded documents together with the walk statistics. Uploads that
// landed without a recoverable id are counted as uploaded but excluded
// from the returned list, since there is nothing to address in the parse
// stage. The returned error is reserved for fatal conditions (missing
// folder, nil dataset); per-file failures only increment Stats.Failed.
func (c *Coordinator) Ingest(ctx context.Context, dataset *store.Dataset, folder string) ([]string, Stats, error) {
	var stats Stats

	if dataset == nil {
		return nil, stats, ErrDatasetRequired
	}

	absFolder, err := filepath.Abs(folder)
	if err != nil {
		return nil, stats, ErrFolderRequired
	}
	info, err := os.Stat(absFolder)
	if err != nil || !info.IsDir() {
		return nil, stats, ErrFolderRequired
	}

	entries, err := os.ReadDir(absFolder)
	if err != nil {
		return nil, stats, ErrFolderRequired
	}

	c.logger.Info("starting folder ingestion",
		"folder", absFolder,
		"policy", c.policy.String(),
		"extensions", c.extensions)

	var uploadedIDs []string
	for _, entry := range entries {
		if entry.IsDir() || !c.allowed(entry.Name()) {
			continue
		}
		stats.Processed++

		filename := entry.Name()
		resolution := c.resolver.Resolve(ctx, dataset, filename, c.policy)

		switch resolution.Action {
		case ActionSkip:
			c.logger.Info("skipping existing document", "file", filename)
			stats.Skipped++
			continue
		case ActionReplace:
			c.logger.Info("replacing existing document", "file", filename)
			stats.Replaced++
			for _, id := range resolution.ExistingIDs {
				// A failed delete is logged but does not block the upload.
				if err := c.store.DeleteDocument(ctx, dataset, id); err != nil {
					c.logger.Error("failed to delete existing document",
						"file", filename, "id", id, "err", err)
				}
			}
		}

		id, err := c.uploader.Upload(ctx, dataset, filepath.Join(absFolder, filename))
		if err != nil {
			c.logger.Warn("upload failed", "file", filename, "err", err)
			stats.Failed++
			continue
		}
		stats.Uploaded++
		if id != "" {
			uploadedIDs = append(uploadedIDs, id)
		}
	}

	c.logger.Info("folder scan complete",
		"processed", stats.Processed,
		"uploaded", stats.Uploaded,
		"skipped", stats.Skipped,
		"replaced", stats.Replaced,
		"failed", stats.Failed)

	return uploadedIDs, stats, nil
}

func (c *Coordinator) allowed(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range c.extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
