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


package config

import "errors"

var (
	ErrAPIKeyRequired       = errors.New("ragflow api_key is required")
	ErrBaseURLRequired      = errors.New("ragflow base_url is required")
	ErrFolderPathRequired   = errors.New("document_upload folder_path is required when upload is enabled")
	ErrInvalidRetryCount    = errors.New("parse_retry_count must be at least 1")
	ErrInvalidRetryInterval = errors.New("parse_retry_interval_seconds must be positive")
	ErrTestQueryRequired    = errors.New("grid_search test_query is required when grid search is enabled")
	ErrNoWeights            = errors.New("grid_search vector_weights_to_test must not be empty")
	ErrWeightOutOfRange     = errors.New("vector weight must be between 0 and 1")
	ErrNoQueries            = errors.New("generation queries must not be empty when generation is enabled")
)
