package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		provider  Provider
		wantModel string
	}{
		{ProviderOpenAI, "gpt-4o"},
		{ProviderGroq, "llama-3.3-70b-versatile"},
		{ProviderDeepSeek, "deepseek-chat"},
		{ProviderMistral, "mistral-medium-latest"},
		{ProviderOllama, "llama3"},
		{ProviderAnthropic, "claude-sonnet-4-20250514"},
	}
	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			client, err := NewClient(ctx, Config{Provider: tt.provider, APIKey: "k"})
			require.NoError(t, err)
			require.NotNil(t, client)

			type modeler interface{ GetModel() string }
			if m, ok := client.(modeler); ok {
				assert.Equal(t, tt.wantModel, m.GetModel())
			}
		})
	}
}

func TestNewClient_ModelOverride(t *testing.T) {
	client, err := NewClient(context.Background(), Config{
		Provider: ProviderOpenAI,
		APIKey:   "k",
		Model:    "gpt-4o-mini",
	})
	require.NoError(t, err)
	oc, ok := client.(*OpenAIClient)
	require.True(t, ok)
	assert.Equal(t, "gpt-4o-mini", oc.GetModel())
}

func TestNewClient_UnknownProvider(t *testing.T) {
	_, err := NewClient(context.Background(), Config{Provider: "watson"})
	assert.Error(t, err)
}

func TestEnvKeyFor(t *testing.T) {
	assert.Equal(t, "OPENAI_API_KEY", EnvKeyFor(ProviderOpenAI))
	assert.Equal(t, "ANTHROPIC_API_KEY", EnvKeyFor(ProviderAnthropic))
	assert.Equal(t, "", EnvKeyFor(ProviderOllama))
}
