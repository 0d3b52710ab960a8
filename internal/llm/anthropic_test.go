package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnthropicTestClient(serverURL string) *AnthropicClient {
	return NewAnthropicClientWithConfig(AnthropicConfig{
		APIKey:  "test-key",
		BaseURL: serverURL,
		Model:   "claude-sonnet-4-20250514",
		Timeout: 5 * time.Second,
	})
}

func TestAnthropicCompleteWithSystem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "be brief", req.System)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		w.Write([]byte(`{"content": [{"type": "text", "text": "first "}, {"type": "text", "text": "second"}]}`))
	}))
	defer server.Close()

	got, err := newAnthropicTestClient(server.URL).CompleteWithSystem(context.Background(), "be brief", "hi")
	require.NoError(t, err)
	assert.Equal(t, "first second", got)
}

func TestAnthropicCompleteWithSystem_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"type": "invalid_request_error", "message": "too long"}}`))
	}))
	defer server.Close()

	_, err := newAnthropicTestClient(server.URL).CompleteWithSystem(context.Background(), "", "hi")
	require.Error(t, err)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "anthropic", terr.Provider)
	assert.Equal(t, http.StatusBadRequest, terr.Status)
}

func TestAnthropicCompleteWithSystem_MissingAPIKey(t *testing.T) {
	client := NewAnthropicClientWithConfig(AnthropicConfig{BaseURL: "http://localhost:1"})
	_, err := client.CompleteWithSystem(context.Background(), "", "hi")
	var terr *TransportError
	require.True(t, errors.As(err, &terr))
}
