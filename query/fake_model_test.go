package query

import (
	"context"
	"sync"

	"github.com/tmc/langchaingo/llms"
)

// fakeModel implements llms.Model with a scriptable response function.
// Safe for concurrent use so grid-search tests can share one instance.
type fakeModel struct {
	mu    sync.Mutex
	calls int

	// GenerateFunc receives the 1-based call number and the flattened
	// prompt text. Default returns an empty JSON object.
	GenerateFunc func(call int, prompt string) (string, error)
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.mu.Lock()
	m.calls++
	call := m.calls
	m.mu.Unlock()

	text := "{}"
	if m.GenerateFunc != nil {
		var err error
		text, err = m.GenerateFunc(call, flattenMessages(messages))
		if err != nil {
			return nil, err
		}
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: text}},
	}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	response, err := m.GenerateContent(ctx, []llms.MessageContent{
		{Role: llms.ChatMessageTypeHuman, Parts: []llms.ContentPart{llms.TextPart(prompt)}},
	}, options...)
	if err != nil {
		return "", err
	}
	return response.Choices[0].Content, nil
}

func (m *fakeModel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func flattenMessages(messages []llms.MessageContent) string {
	var out string
	for _, message := range messages {
		for _, part := range message.Parts {
			if text, ok := part.(llms.TextContent); ok {
				out += text.Text + "\n"
			}
		}
	}
	return out
}
