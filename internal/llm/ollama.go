package llm

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"

	// Schedules should come back the same for the same request.
	ollamaTemperature = 0.2
)

// OllamaClient talks to a local Ollama server through langchaingo.
type OllamaClient struct {
	backend *ollama.LLM
	model   string
}

// NewOllamaClient creates a client for model served at baseURL.
func NewOllamaClient(model, baseURL string) (*OllamaClient, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, errors.New("ollama model is required")
	}
	backend, err := ollama.New(
		ollama.WithModel(model),
		ollama.WithServerURL(cmp.Or(baseURL, defaultOllamaBaseURL)),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ollama client: %w", err)
	}
	return &OllamaClient{backend: backend, model: model}, nil
}

// Chat sends messages to the LLM and returns the response.
func (c *OllamaClient) Chat(ctx context.Context, messages []Message) (string, error) {
	return c.generate(ctx, messages)
}

// ChatJSON asks Ollama for JSON output and decodes it into result.
func (c *OllamaClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	content, err := c.generate(ctx, messages, llms.WithJSONMode())
	if err != nil {
		return err
	}
	return decodeJSON(content, result)
}

func (c *OllamaClient) generate(ctx context.Context, messages []Message, opts ...llms.CallOption) (string, error) {
	opts = append([]llms.CallOption{llms.WithModel(c.model), llms.WithTemperature(ollamaTemperature)}, opts...)
	resp, err := c.backend.GenerateContent(ctx, toLangChainMessages(messages), opts...)
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("ollama returned no choices")
	}
	return resp.Choices[0].Content, nil
}

var langChainRoles = map[string]llms.ChatMessageType{
	RoleSystem:    llms.ChatMessageTypeSystem,
	RoleUser:      llms.ChatMessageTypeHuman,
	RoleAssistant: llms.ChatMessageTypeAI,
}

// toLangChainMessages maps roles case-insensitively; unknown roles are sent
// as the user.
func toLangChainMessages(messages []Message) []llms.MessageContent {
	out := make([]llms.MessageContent, len(messages))
	for i, msg := range messages {
		role, ok := langChainRoles[strings.ToLower(msg.Role)]
		if !ok {
			role = llms.ChatMessageTypeHuman
		}
		out[i] = llms.TextParts(role, msg.Content)
	}
	return out
}
