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


package query

import "errors"

var (
	ErrStoreRequired     = errors.New("store is required")
	ErrModelRequired     = errors.New("language model is required")
	ErrRetrieverRequired = errors.New("retriever is required")
	ErrEvaluatorRequired = errors.New("evaluator is required")
	ErrQuestionRequired  = errors.New("question must not be empty")
	ErrNoWeights         = errors.New("at least one vector weight is required")
	ErrWeightOutOfRange  = errors.New("vector weight must be between 0 and 1")
	ErrAnswerMalformed   = errors.New("model response is not valid answer JSON")
)
