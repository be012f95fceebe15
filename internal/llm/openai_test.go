package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
)

func TestOpenAIProvider_Generate_Success(t *testing.T) {
	// Mock server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}

		// Return success response
		resp := openai.ChatCompletionResponse{
			ID:      "chatcmpl-123",
			Object:  "chat.completion",
			Created: 1677652288,
			Model:   "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{
					Index: 0,
					Message: openai.ChatCompletionMessage{
						Role:    "assistant",
						Content: `{"decision": "admissible"}`,
					},
					FinishReason: "stop",
				},
			},
			Usage: openai.Usage{
				TotalTokens: 100,
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	// Create provider
	config := Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gpt-4o-mini",
		Timeout: 5,
	}
	provider, err := NewOpenAIProvider(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Generate(context.Background(), GenerateRequest{Prompt: "classifie"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if resp.Text != `{"decision": "admissible"}` {
		t.Errorf("Unexpected text: %s", resp.Text)
	}
	if resp.TokensUsed != 100 {
		t.Errorf("Unexpected token usage: %d", resp.TokensUsed)
	}
}

func TestOpenAIProvider_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Invalid API key", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	config := Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 5,
	}
	provider, err := NewOpenAIProvider(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Generate(context.Background(), GenerateRequest{Prompt: "classifie"})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestOpenAIProvider_Generate_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{})
	}))
	defer server.Close()

	config := Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 5,
	}
	provider, err := NewOpenAIProvider(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = provider.Generate(ctx, GenerateRequest{Prompt: "classifie"})
	if err == nil {
		t.Fatal("Expected timeout error, got nil")
	}
}

func TestOpenAIProvider_RequiresAPIKey(t *testing.T) {
	if _, err := NewOpenAIProvider(Config{}); err == nil {
		t.Fatal("Expected error without API key")
	}
}

func TestNewProvider_Factory(t *testing.T) {
	cases := []struct {
		provider string
		wantNil  bool
		wantErr  bool
	}{
		{"", true, false},
		{"openai", false, false},
		{"anthropic", false, false},
		{"claude", false, false},
		{"ollama", false, false},
		{"mystery", true, true},
	}

	for _, tc := range cases {
		p, err := NewProvider(Config{Provider: tc.provider, APIKey: "test-key"})
		if tc.wantErr && err == nil {
			t.Errorf("Provider %q: expected error", tc.provider)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("Provider %q: unexpected error %v", tc.provider, err)
		}
		if tc.wantNil != (p == nil) {
			t.Errorf("Provider %q: nil mismatch (got %v)", tc.provider, p)
		}
	}
}
