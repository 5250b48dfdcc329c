package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/povarna/generative-ai-agents/synereval/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHost(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "http://localhost:11434"},
		{"localhost", "http://localhost:11434"},
		{"http://ollama:11434", "http://ollama:11434"},
		{"https://ollama.example.com", "https://ollama.example.com"},
	}

	for _, tt := range tests {
		got, err := parseHost(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.String(), "host %q", tt.in)
	}
}

func TestNewClient_RequiresModel(t *testing.T) {
	_, err := NewClient("", "", "")
	assert.Error(t, err)
}

func TestInvokeModel(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3.2:3b","message":{"role":"assistant","content":"Clear answer [RESULT] 4"},"done":true,"done_reason":"stop"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "llama3.2:3b", "")
	require.NoError(t, err)

	resp, err := client.InvokeModel(context.Background(), llm.LLMRequest{
		System:    "You are a fair judge assistant.",
		Prompt:    "Grade the response",
		MaxTokens: 256,
	})
	require.NoError(t, err)

	assert.Equal(t, "Clear answer [RESULT] 4", resp.Content)
	assert.Equal(t, "stop", resp.StopReason)
	assert.Equal(t, "llama3.2:3b", received["model"])
	assert.Len(t, received["messages"], 2)
}

func TestEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/embed", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"paraphrase-multilingual","embeddings":[[1,0],[0,1]]}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "", "paraphrase-multilingual")
	require.NoError(t, err)

	vectors, err := client.Embed(context.Background(), []string{"hola", "mundo"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 0}, {0, 1}}, vectors)

	_, err = client.Embed(context.Background(), []string{"solo"})
	assert.Error(t, err, "embedding count mismatch must fail")
}
