package llm

import "testing"

func TestNewClient_Ollama(t *testing.T) {
	client, err := NewClient("ollama", "llama3", "")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	ollamaClient, ok := client.(*OllamaClient)
	if !ok {
		t.Fatalf("expected OllamaClient, got %T", client)
	}
	if ollamaClient.baseURL != defaultOllamaBaseURL {
		t.Errorf("baseURL = %q, want %q", ollamaClient.baseURL, defaultOllamaBaseURL)
	}
}

func TestNewClient_LMStudio(t *testing.T) {
	client, err := NewClient("lm-studio", "llama3", "")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	lmStudioClient, ok := client.(*OpenAIClient)
	if !ok {
		t.Fatalf("expected OpenAIClient, got %T", client)
	}
	if lmStudioClient.baseURL != defaultLMStudioBaseURL {
		t.Errorf("baseURL = %q, want %q", lmStudioClient.baseURL, defaultLMStudioBaseURL)
	}
}

func TestNewClient_OpenAI(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewClient("openai", "gpt-4o-mini", ""); err == nil {
		t.Fatal("expected error without OPENAI_API_KEY")
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")
	client, err := NewClient("openai", "gpt-4o-mini", "")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if c := client.(*OpenAIClient); c.baseURL != defaultOpenAIBaseURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, defaultOpenAIBaseURL)
	}
}

func TestNewClient_EmptyModel(t *testing.T) {
	if _, err := NewClient("lmstudio", " ", ""); err == nil {
		t.Fatal("expected error for empty model")
	}
}

func TestNewClient_UnsupportedProvider(t *testing.T) {
	_, err := NewClient("unknown", "model", "")
	if err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}
