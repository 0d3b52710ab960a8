package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *OpenAIClient {
	return NewOpenAIClientWithConfig(OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: serverURL,
		Model:   "gpt-4o",
		Timeout: 5 * time.Second,
	})
}

func completionResponse(content string) string {
	body := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
	out, _ := json.Marshal(body)
	return string(out)
}

func TestCompleteWithSystem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "be terse", req.Messages[0].Content)
		assert.Equal(t, "user", req.Messages[1].Role)

		w.Write([]byte(completionResponse("  hello world  ")))
	}))
	defer server.Close()

	got, err := newTestClient(server.URL).CompleteWithSystem(context.Background(), "be terse", "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
}

func TestComplete_NoSystemMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		w.Write([]byte(completionResponse("ok")))
	}))
	defer server.Close()

	got, err := newTestClient(server.URL).Complete(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestCompleteWithSystem_RetriesOn429(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(completionResponse("recovered")))
	}))
	defer server.Close()

	got, err := newTestClient(server.URL).CompleteWithSystem(context.Background(), "", "hi")
	require.NoError(t, err)
	assert.Equal(t, "recovered", got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCompleteWithSystem_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "bad key"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).CompleteWithSystem(context.Background(), "", "hi")
	require.Error(t, err)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "openai", terr.Provider)
	assert.Equal(t, http.StatusUnauthorized, terr.Status)
}

func TestCompleteWithSystem_MissingAPIKey(t *testing.T) {
	client := NewOpenAIClientWithConfig(OpenAIConfig{BaseURL: "http://localhost:1"})
	_, err := client.CompleteWithSystem(context.Background(), "", "hi")
	var terr *TransportError
	require.True(t, errors.As(err, &terr))
}

func TestCompleteWithSystem_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).CompleteWithSystem(context.Background(), "", "hi")
	assert.Error(t, err)
}

func TestCompatClientDefaults(t *testing.T) {
	groq := NewGroqClient(OpenAIConfig{APIKey: "k"})
	assert.Equal(t, "llama-3.3-70b-versatile", groq.GetModel())

	mistral := NewMistralClient(OpenAIConfig{APIKey: "k"})
	assert.Equal(t, "mistral-medium-latest", mistral.GetModel())

	deepseek := NewDeepSeekClient(OpenAIConfig{APIKey: "k"})
	assert.Equal(t, "deepseek-chat", deepseek.GetModel())

	ollama := NewOllamaClient(OpenAIConfig{})
	assert.Equal(t, "llama3", ollama.GetModel())

	// Explicit model overrides survive.
	custom := NewGroqClient(OpenAIConfig{APIKey: "k", Model: "mixtral-8x7b"})
	assert.Equal(t, "mixtral-8x7b", custom.GetModel())
}
