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

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/tmc/langchaingo/llms"
)

// scorePattern matches the first decimal number in a model response.
var scorePattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Evaluator scores passage relevance with a chat model. It is used by
// the grid search to compare retrieval configurations.
type Evaluator struct {
	model  llms.Model
	logger *slog.Logger
}

// NewEvaluator creates an evaluator over the given model. A nil logger
// uses slog.Default().
func NewEvaluator(model llms.Model, logger *slog.Logger) (*Evaluator, error) {
	if model == nil {
		return nil, ErrModelRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{
		model:  model,
		logger: logger.With("component", "evaluator"),
	}, nil
}

// Score rates how relevant passage is to q on a 0.0 to 1.0 scale. Any
// failure, from the model call to an unparseable response, scores 0.0 so
// a flaky judge cannot abort a sweep.
func (e *Evaluator) Score(ctx context.Context, q, passage string) float64 {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildRelevancePrompt(q, passage)),
			},
		},
	}

	response, err := e.model.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		e.logger.Warn("relevance scoring failed", "err", err)
		return 0.0
	}
	if len(response.Choices) < 1 {
		e.logger.Debug("no choices returned from model")
		return 0.0
	}

	match := scorePattern.FindString(response.Choices[0].Content)
	if match == "" {
		e.logger.Warn("no score found in response", "response", response.Choices[0].Content)
		return 0.0
	}

	score, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0.0
	}
	if score < 0 {
		return 0.0
	}
	if score > 1 {
		return 1.0
	}
	return score
}
