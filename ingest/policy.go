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

	"github.com/poiesic/ragline/store"
)

// Policy selects how a file whose name already exists in the dataset is
// treated on re-ingestion.
type Policy int

const (
	// PolicySkipName skips files whose display name already exists.
	PolicySkipName Policy = iota + 1

	// PolicySkipContent is reserved for content-hash deduplication. The
	// store exposes no content lookup, so it currently behaves exactly
	// like PolicySkipName.
	PolicySkipContent

	// PolicyReplace deletes the existing same-named document before
	// uploading the new one.
	PolicyReplace

	// PolicyAllow uploads unconditionally without querying the store.
	PolicyAllow
)

// ParsePolicy maps a configuration string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "skip_name", "":
		return PolicySkipName, nil
	case "skip_content":
		return PolicySkipContent, nil
	case "replace":
		return PolicyReplace, nil
	case "allow":
		return PolicyAllow, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

func (p Policy) String() string {
	switch p {
	case PolicySkipName:
		return "skip_name"
	case PolicySkipContent:
		return "skip_content"
	case PolicyReplace:
		return "replace"
	case PolicyAllow:
		return "allow"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// Action is the Resolver's decision for one candidate file.
type Action int

const (
	// ActionAllow uploads the candidate.
	ActionAllow Action = iota + 1
	// ActionSkip drops the candidate without uploading.
	ActionSkip
	// ActionReplace uploads after the caller deletes the matched document.
	ActionReplace
)

func (a Action) String() string {
	switch a {
	case ActionAllow:
		return "allow"
	case ActionSkip:
		return "skip"
	case ActionReplace:
		return "replace"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Resolution carries the decided action and, for ActionReplace, the ids of
// the matched documents the caller must delete before uploading.
type Resolution struct {
	Action      Action
	ExistingIDs []string
}

// Resolver decides whether a candidate filename may be uploaded. Every
// decision under a non-allow policy is based on a fresh query against the
// store; the store is the single source of truth for duplicate detection.
type Resolver struct {
	store  store.Store
	logger *slog.Logger
}

// NewResolver creates a resolver. A nil logger falls back to slog.Default().
func NewResolver(st store.Store, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: st, logger: logger}
}

// Resolve decides the action for filename under policy. The existence
// query fails open: a query error is logged and treated as "no match" so a
// legitimate new file is never silently dropped.
func (r *Resolver) Resolve(ctx context.Context, dataset *store.Dataset, filename string, policy Policy) Resolution {
	if policy == PolicyAllow {
		return Resolution{Action: ActionAllow}
	}

	matches, err := r.store.ListDocuments(ctx, dataset, store.ListOptions{
		Keywords: filename,
		PageSize: 100,
	})
	if err != nil {
		r.logger.Warn("duplicate check failed, allowing upload",
			"file", filename, "err", err)
		return Resolution{Action: ActionAllow}
	}
	if len(matches) == 0 {
		return Resolution{Action: ActionAllow}
	}

	switch policy {
	case PolicyReplace:
		ids := make([]string, 0, len(matches))
		for _, doc := range matches {
			if doc.ID != "" {
				ids = append(ids, doc.ID)
			}
		}
		return Resolution{Action: ActionReplace, ExistingIDs: ids}
	default:
		// skip_name and skip_content both match on name only.
		return Resolution{Action: ActionSkip}
	}
}
