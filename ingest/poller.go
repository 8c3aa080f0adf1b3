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

// State is the terminal result of polling one document.
type State int

const (
	// StateSuccess means the store reported the document fully parsed.
	StateSuccess State = iota + 1

	// StateFailed means the failure-observation budget was exhausted.
	StateFailed

	// StateIndeterminate means polling stopped without a clear success or
	// failure: the wall-clock bound expired or the context was canceled.
	StateIndeterminate
)

func (s State) String() string {
	switch s {
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	case StateIndeterminate:
		return "indeterminate"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Poller repeatedly queries a document's run status until it reaches a
// terminal state or exhausts its failure budget.
//
// Status observations fall into three classes. A success status is
// immediately terminal. A reported-failure status counts against
// MaxFailures: the store is allowed to report a failure while retrying
// internally and recover, so only the budget-exhausting observation is
// terminal. Everything else, including query errors and unrecognized
// statuses, is treated as still-in-progress and does not consume budget.
type Poller struct {
	store store.Store

	// MaxFailures is the failure-observation budget.
	maxFailures int

	// Interval is the sleep between observations.
	interval time.Duration

	// MaxElapsed bounds the total polling time per document; zero means
	// unbounded, in which case a document that never reaches a terminal
	// status is polled until the context is canceled.
	maxElapsed time.Duration

	logger *slog.Logger
}

// NewPoller creates a poller with the given failure budget and interval.
// maxElapsed zero disables the wall-clock bound. A nil logger falls back
// to slog.Default().
func NewPoller(st store.Store, maxFailures int, interval, maxElapsed time.Duration, logger *slog.Logger) (*Poller, error) {
	if st == nil {
		return nil, ErrStoreRequired
	}
	if maxFailures <= 0 {
		return nil, ErrInvalidMaxFailures
	}
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		store:       st,
		maxFailures: maxFailures,
		interval:    interval,
		maxElapsed:  maxElapsed,
		logger:      logger,
	}, nil
}

// Poll observes documentID until it reaches a terminal state. The status
// is only ever read, never written; the store owns the document lifecycle.
func (p *Poller) Poll(ctx context.Context, dataset *store.Dataset, documentID string) State {
	failures := 0
	observations := 0
	start := time.Now()

	for {
		if p.maxElapsed > 0 && time.Since(start) >= p.maxElapsed {
			p.logger.Warn("poll wall-clock bound exceeded",
				"id", documentID, "elapsed", time.Since(start))
			return StateIndeterminate
		}

		observations++
		docs, err := p.store.ListDocuments(ctx, dataset, store.ListOptions{ID: documentID})
		switch {
		case err != nil:
			// Query errors never consume failure budget.
			p.logger.Error("status query failed", "id", documentID, "err", err)
		case len(docs) == 0:
			p.logger.Warn("no status information for document", "id", documentID)
		default:
			doc := docs[0]
			switch {
			case doc.Run.Done():
				p.logger.Info("document parsed",
					"id", documentID, "observations", observations)
				return StateSuccess
			case doc.Run.Failed():
				failures++
				p.logger.Warn("failure status observed",
					"id", documentID,
					"status", string(doc.Run),
					"failures", failures,
					"budget", p.maxFailures)
				if failures >= p.maxFailures {
					p.logger.Warn("failure budget exhausted, giving up", "id", documentID)
					return StateFailed
				}
			default:
				p.logger.Debug("still parsing",
					"id", documentID,
					"status", string(doc.Run),
					"progress", doc.Progress)
			}
		}

		timer := time.NewTimer(p.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			p.logger.Warn("polling canceled", "id", documentID, "err", ctx.Err())
			return StateIndeterminate
		case <-timer.C:
		}
	}
}
