package query

import (
	"fmt"
	"strings"

	"github.com/poiesic/ragline/store"
)

const answerPromptTemplate = `Answer the user's question using only the context passages below. If the
context does not contain the answer, say so instead of guessing.

Output ONLY valid JSON. Do not include any preamble, explanation, greeting,
or acknowledgment. Start your response directly with the opening brace { and
end with the closing brace }. Your output must exactly follow this schema:

{"answer": "<your answer as a single string>"}

Rules:
- Base the answer strictly on the context passages.
- The JSON must parse without errors; no trailing commas, no extra keys,
  and no extraneous text outside the object.

Context passages:
%s`

const relevancePromptTemplate = `Rate how relevant the following passage is to the query.

Query: %s

Passage: %s

Respond with a single number between 0.0 (completely irrelevant) and 1.0
(directly answers the query). Output only the number.`

// buildAnswerPrompt creates the system prompt with retrieved chunks
// embedded as numbered context passages.
func buildAnswerPrompt(chunks []store.Chunk) string {
	if len(chunks) == 0 {
		return fmt.Sprintf(answerPromptTemplate, "(no passages were retrieved)")
	}

	var b strings.Builder
	for i, chunk := range chunks {
		fmt.Fprintf(&b, "[%d] (from %s)\n%s\n\n", i+1, chunk.DocumentName, chunk.Content)
	}
	return fmt.Sprintf(answerPromptTemplate, strings.TrimSpace(b.String()))
}

func buildRelevancePrompt(query, passage string) string {
	return fmt.Sprintf(relevancePromptTemplate, query, passage)
}
