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
	"time"

	"github.com/poiesic/ragline/store"
)

// DefaultGracePeriod is how long the trigger waits before requesting a
// parse, so the request does not race the store's own post-upload indexing.
const DefaultGracePeriod = 1 * time.Second

// Trigger issues the fire-and-forget asynchronous parse request for a
// batch of document ids.
type Trigger struct {
	store  store.Store
	grace  time.Duration
	logger *slog.Logger
}

// NewTrigger creates a trigger. A negative grace period is clamped to
// zero; a nil logger falls back to slog.Default().
func NewTrigger(st store.Store, grace time.Duration, logger *slog.Logger) *Trigger {
	if grace < 0 {
		grace = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Trigger{store: st, grace: grace, logger: logger}
}

// Trigger waits out the grace period and then asks the store to begin
// parsing the given documents. An error means the documents must not enter
// the polling stage.
func (t *Trigger) Trigger(ctx context.Context, dataset *store.Dataset, documentIDs []string) error {
	if dataset == nil {
		return ErrDatasetRequired
	}
	if len(documentIDs) == 0 {
		return store.ErrNoDocumentIDs
	}

	if t.grace > 0 {
		timer := time.NewTimer(t.grace)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	if err := t.store.TriggerParse(ctx, dataset, documentIDs); err != nil {
		t.logger.Error("parse trigger failed", "ids", documentIDs, "err", err)
		return fmt.Errorf("triggering parse: %w", err)
	}
	t.logger.Info("parse requested", "ids", documentIDs)
	return nil
}
