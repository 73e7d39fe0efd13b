package llm

import (
	"testing"

	"github.com/tmc/langchaingo/llms"
)

func TestNewOllamaClient(t *testing.T) {
	client, err := NewOllamaClient("  llama3 ", "")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if client.model != "llama3" {
		t.Errorf("model = %q, want trimmed name", client.model)
	}

	if _, err := NewOllamaClient(" ", ""); err == nil {
		t.Fatal("expected error for empty model")
	}
}

func TestToLangChainMessages(t *testing.T) {
	got := toLangChainMessages([]Message{
		{Role: RoleSystem, Content: "rules"},
		{Role: "ASSISTANT", Content: "{}"},
		{Role: RoleUser, Content: "plan"},
		{Role: "tool", Content: "?"},
	})
	want := []llms.ChatMessageType{
		llms.ChatMessageTypeSystem,
		llms.ChatMessageTypeAI,
		llms.ChatMessageTypeHuman,
		llms.ChatMessageTypeHuman,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d messages, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Role != want[i] {
			t.Errorf("message %d role = %q, want %q", i, got[i].Role, want[i])
		}
	}
}
