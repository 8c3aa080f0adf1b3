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
	"encoding/json"
	"log/slog"

	"github.com/poiesic/ragline/store"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// Reference is one retrieved passage an answer was grounded on.
type Reference struct {
	DocumentName string
	Content      string
	Similarity   float64
}

// Answer is a generated answer together with the passages it was
// grounded on.
type Answer struct {
	Text       string
	References []Reference
}

// Generator produces grounded answers from retrieved chunks using a
// chat model.
type Generator struct {
	model       llms.Model
	temperature float64
	logger      *slog.Logger
}

// answerPayload matches the JSON contract the model is prompted with.
type answerPayload struct {
	Answer string `json:"answer"`
}

// NewOllamaModel creates a chat model backed by a local Ollama server.
func NewOllamaModel(host, model string) (llms.Model, error) {
	return ollama.New(
		ollama.WithServerURL(host),
		ollama.WithModel(model),
	)
}

// NewGenerator creates a generator over the given model. A nil logger
// uses slog.Default().
func NewGenerator(model llms.Model, temperature float64, logger *slog.Logger) (*Generator, error) {
	if model == nil {
		return nil, ErrModelRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		model:       model,
		temperature: temperature,
		logger:      logger.With("component", "generator"),
	}, nil
}

// Generate answers question from the given chunks. The model is asked
// for a strict JSON object; malformed responses are repaired and retried
// up to 3 times before failing.
func (g *Generator) Generate(ctx context.Context, question string, chunks []store.Chunk) (*Answer, error) {
	if question == "" {
		return nil, ErrQuestionRequired
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildAnswerPrompt(chunks)),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(question),
			},
		},
	}

	var payload answerPayload
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := g.model.GenerateContent(ctx, content,
			llms.WithTemperature(g.temperature), llms.WithJSONMode())
		if err != nil {
			g.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}
		if len(response.Choices) < 1 {
			g.logger.Debug("no choices returned from model")
			return nil, ErrAnswerMalformed
		}

		responseText := repairJSON(stripFences(response.Choices[0].Content))
		if err := json.Unmarshal([]byte(responseText), &payload); err != nil {
			lastErr = err
			g.logger.Warn("error parsing answer response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}
	if lastErr != nil {
		g.logger.Error("failed to parse answer response after retries", "err", lastErr)
		return nil, ErrAnswerMalformed
	}

	answer := &Answer{
		Text:       payload.Answer,
		References: make([]Reference, 0, len(chunks)),
	}
	for _, chunk := range chunks {
		answer.References = append(answer.References, Reference{
			DocumentName: chunk.DocumentName,
			Content:      chunk.Content,
			Similarity:   chunk.Similarity,
		})
	}
	return answer, nil
}
