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

import "errors"

var (
	// ErrDatasetRequired is returned when a nil dataset is passed to a
	// document operation.
	ErrDatasetRequired = errors.New("dataset required")

	// ErrDatasetNameRequired is returned when a dataset is referenced by
	// an empty name.
	ErrDatasetNameRequired = errors.New("dataset name required")

	// ErrNoDocumentIDs is returned when a parse trigger or delete is
	// issued with nothing to address.
	ErrNoDocumentIDs = errors.New("no document ids provided")
)
