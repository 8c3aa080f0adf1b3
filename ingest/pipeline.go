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
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/ragline/store"
)

// Config holds the tunables of one ingestion pipeline.
type Config struct {
	// Policy is the duplicate-handling policy applied per file.
	Policy Policy

	// AllowedExtensions are the file suffixes eligible for ingestion.
	AllowedExtensions []string

	// GracePeriod is the wait before each parse trigger.
	GracePeriod time.Duration

	// MaxFailures is the poller's failure-observation budget per document.
	MaxFailures int

	// PollInterval is the sleep between status observations.
	PollInterval time.Duration

	// MaxElapsed bounds the total polling time per document; zero
	// disables the bound.
	MaxElapsed time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Policy:            PolicySkipName,
		AllowedExtensions: []string{".txt", ".pdf", ".md", ".docx", ".doc"},
		GracePeriod:       DefaultGracePeriod,
		MaxFailures:       10,
		PollInterval:      5 * time.Second,
		MaxElapsed:        0,
	}
}

// DocumentOutcome is the terminal polling result for one document.
type DocumentOutcome struct {
	ID    string
	State State
}

// Report aggregates everything one pipeline run produced. It exists for
// logging and export; nothing in it is fed back into the store.
type Report struct {
	RunID    string
	Dataset  string
	Folder   string
	Started  time.Time
	Finished time.Time

	Stats    Stats
	Outcomes []DocumentOutcome

	ParsedOK      int
	ParsedFailed  int
	Indeterminate int
}

// Succeeded reports whether at least one document reached a parsed state.
// Partial batch failure deliberately does not fail the run.
func (r *Report) Succeeded() bool {
	return r.ParsedOK > 0
}

// Pipeline drives one folder end to end: ingest, then per accepted
// document trigger and poll. Documents are processed strictly one at a
// time; serialization is backpressure protecting the store's embedding
// backend, not a missing feature.
type Pipeline struct {
	store       store.Store
	config      *Config
	coordinator *Coordinator
	trigger     *Trigger
	poller      *Poller
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a pipeline over st with the given config. A nil
// config uses DefaultConfig().
func NewPipeline(st store.Store, config *Config, opts ...Option) (*Pipeline, error) {
	if st == nil {
		return nil, ErrStoreRequired
	}
	if config == nil {
		config = DefaultConfig()
	}

	p := &Pipeline{
		store:  st,
		config: config,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	coordinator, err := NewCoordinator(st, config.Policy, config.AllowedExtensions, p.logger)
	if err != nil {
		return nil, err
	}
	poller, err := NewPoller(st, config.MaxFailures, config.PollInterval, config.MaxElapsed, p.logger)
	if err != nil {
		return nil, err
	}

	p.coordinator = coordinator
	p.trigger = NewTrigger(st, config.GracePeriod, p.logger)
	p.poller = poller
	return p, nil
}

// Run ingests folder into dataset and drives every accepted document to a
// terminal parse state, one document at a time. The returned error is
// fatal-only (bad folder, canceled context); per-document failures are
// recorded in the report.
func (p *Pipeline) Run(ctx context.Context, dataset *store.Dataset, folder string) (*Report, error) {
	report := &Report{
		RunID:   uuid.NewString(),
		Folder:  folder,
		Started: time.Now().UTC(),
	}
	if dataset != nil {
		report.Dataset = dataset.Name
	}

	ids, stats, err := p.coordinator.Ingest(ctx, dataset, folder)
	report.Stats = stats
	if err != nil {
		report.Finished = time.Now().UTC()
		return report, err
	}

	if len(ids) == 0 {
		p.logger.Info("no new documents uploaded, skipping parse stage", "run", report.RunID)
		report.Finished = time.Now().UTC()
		return report, nil
	}

	p.logger.Info("parsing uploaded documents one at a time",
		"run", report.RunID, "count", len(ids))

	for i, id := range ids {
		p.logger.Info("processing document",
			"run", report.RunID, "id", id, "position", i+1, "total", len(ids))

		if err := p.trigger.Trigger(ctx, dataset, []string{id}); err != nil {
			report.ParsedFailed++
			report.Outcomes = append(report.Outcomes, DocumentOutcome{ID: id, State: StateFailed})
			if ctx.Err() != nil {
				break
			}
			continue
		}

		state := p.poller.Poll(ctx, dataset, id)
		report.Outcomes = append(report.Outcomes, DocumentOutcome{ID: id, State: state})
		switch state {
		case StateSuccess:
			report.ParsedOK++
		case StateFailed:
			report.ParsedFailed++
		default:
			report.Indeterminate++
		}

		if ctx.Err() != nil {
			break
		}
	}

	report.Finished = time.Now().UTC()
	p.logger.Info("parse stage complete",
		"run", report.RunID,
		"total", len(ids),
		"parsed", report.ParsedOK,
		"failed", report.ParsedFailed,
		"indeterminate", report.Indeterminate)

	return report, ctx.Err()
}
