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

import "errors"

var (
	// ErrStoreRequired is returned when a component is built without a store.
	ErrStoreRequired = errors.New("store required")

	// ErrDatasetRequired is returned when an operation is invoked with a
	// nil dataset.
	ErrDatasetRequired = errors.New("dataset required")

	// ErrFolderRequired is returned when the ingestion folder is missing
	// or is not a directory.
	ErrFolderRequired = errors.New("folder path is missing or not a directory")

	// ErrUnknownPolicy is returned for an unrecognized duplicate-handling
	// policy string.
	ErrUnknownPolicy = errors.New("unknown duplicate-handling policy")

	// ErrInvalidMaxFailures is returned when the poller failure budget is
	// not positive.
	ErrInvalidMaxFailures = errors.New("max failure observations must be > 0")

	// ErrInvalidInterval is returned when the poll interval is not positive.
	ErrInvalidInterval = errors.New("poll interval must be > 0")
)
