package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	defaultLMStudioBaseURL = "http://localhost:1234/v1"
	defaultOpenAIBaseURL   = "https://api.openai.com/v1"
)

// OpenAIClient talks to any OpenAI-compatible chat completions API, which
// covers both OpenAI itself and LM Studio's local server.
type OpenAIClient struct {
	client  openai.Client
	name    string
	model   string
	baseURL string
}

// NewLMStudioClient creates a client for a local LM Studio server. The API
// key is optional.
func NewLMStudioClient(model, baseURL string) (*OpenAIClient, error) {
	if baseURL == "" {
		baseURL = defaultLMStudioBaseURL
	}
	apiKey := firstEnv("LMSTUDIO_API_KEY", "OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = "lm-studio"
	}
	return newOpenAICompatible("lm studio", model, baseURL, apiKey)
}

// NewOpenAIClient creates a client for the OpenAI API. OPENAI_API_KEY must
// be set.
func NewOpenAIClient(model, baseURL string) (*OpenAIClient, error) {
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}
	return newOpenAICompatible("openai", model, baseURL, apiKey)
}

func newOpenAICompatible(name, model, baseURL, apiKey string) (*OpenAIClient, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("%s model is required", name)
	}
	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)
	return &OpenAIClient{
		client:  client,
		name:    name,
		model:   model,
		baseURL: baseURL,
	}, nil
}

// Chat sends messages to the LLM and returns the response.
func (c *OpenAIClient) Chat(ctx context.Context, messages []Message) (string, error) {
	params := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			params[i] = openai.SystemMessage(msg.Content)
		case RoleAssistant:
			params[i] = openai.AssistantMessage(msg.Content)
		default:
			params[i] = openai.UserMessage(msg.Content)
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: params,
	})
	if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", c.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// ChatJSON sends messages and parses the response as JSON into the provided type.
func (c *OpenAIClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	content, err := c.Chat(ctx, messages)
	if err != nil {
		return err
	}
	return decodeJSON(content, result)
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
