package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// OpenAIClient implements Client for the OpenAI chat-completions API and for
// any provider that speaks the same wire format (Groq, Mistral, DeepSeek,
// Ollama). The provider name is carried only for error reporting.
type OpenAIClient struct {
	provider    string
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
	mu          sync.Mutex
	lastRequest time.Time
}

// OpenAIConfig holds configuration for an OpenAI-compatible client.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// DefaultOpenAIConfig returns sensible defaults.
func DefaultOpenAIConfig(apiKey string) OpenAIConfig {
	return OpenAIConfig{
		APIKey:      apiKey,
		BaseURL:     "https://api.openai.com/v1",
		Model:       "gpt-4o",
		Temperature: 0.7,
		MaxTokens:   4096,
		Timeout:     2 * time.Minute,
	}
}

// NewOpenAIClient creates a new OpenAI client with default config.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	return NewOpenAIClientWithConfig(DefaultOpenAIConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom config.
func NewOpenAIClientWithConfig(config OpenAIConfig) *OpenAIClient {
	return newCompatClient("openai", config)
}

// NewGroqClient creates a client for the Groq OpenAI-compatible endpoint.
func NewGroqClient(config OpenAIConfig) *OpenAIClient {
	if config.BaseURL == "" || config.BaseURL == DefaultOpenAIConfig("").BaseURL {
		config.BaseURL = "https://api.groq.com/openai/v1"
	}
	if config.Model == "" {
		config.Model = "llama-3.3-70b-versatile"
	}
	return newCompatClient("groq", config)
}

// NewMistralClient creates a client for the Mistral OpenAI-compatible endpoint.
func NewMistralClient(config OpenAIConfig) *OpenAIClient {
	if config.BaseURL == "" || config.BaseURL == DefaultOpenAIConfig("").BaseURL {
		config.BaseURL = "https://api.mistral.ai/v1"
	}
	if config.Model == "" {
		config.Model = "mistral-medium-latest"
	}
	return newCompatClient("mistral", config)
}

// NewDeepSeekClient creates a client for the DeepSeek OpenAI-compatible endpoint.
func NewDeepSeekClient(config OpenAIConfig) *OpenAIClient {
	if config.BaseURL == "" || config.BaseURL == DefaultOpenAIConfig("").BaseURL {
		config.BaseURL = "https://api.deepseek.com/v1"
	}
	if config.Model == "" {
		config.Model = "deepseek-chat"
	}
	return newCompatClient("deepseek", config)
}

// NewOllamaClient creates a client for a local Ollama server. Ollama does not
// require an API key.
func NewOllamaClient(config OpenAIConfig) *OpenAIClient {
	if config.BaseURL == "" || config.BaseURL == DefaultOpenAIConfig("").BaseURL {
		config.BaseURL = "http://localhost:11434/v1"
	}
	if config.Model == "" {
		config.Model = "llama3"
	}
	if config.APIKey == "" {
		config.APIKey = "ollama"
	}
	return newCompatClient("ollama", config)
}

func newCompatClient(provider string, config OpenAIConfig) *OpenAIClient {
	if config.Timeout <= 0 {
		config.Timeout = 2 * time.Minute
	}
	if config.Temperature <= 0 {
		config.Temperature = 0.7
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 4096
	}
	return &OpenAIClient{
		provider:    provider,
		apiKey:      config.APIKey,
		baseURL:     strings.TrimRight(config.BaseURL, "/"),
		model:       config.Model,
		temperature: config.Temperature,
		maxTokens:   config.MaxTokens,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// Complete sends a prompt and returns the completion.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt)
}

// CompleteWithSystem sends a prompt with a system message.
func (c *OpenAIClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.apiKey == "" {
		return "", transportErr(c.provider, 0, fmt.Errorf("API key not configured"))
	}

	// Rate limiting: keep at least 500ms between requests.
	c.mu.Lock()
	elapsed := time.Since(c.lastRequest)
	if elapsed < 500*time.Millisecond {
		time.Sleep(500*time.Millisecond - elapsed)
	}
	c.lastRequest = time.Now()
	c.mu.Unlock()

	messages := make([]chatMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userPrompt})

	reqBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	// Retry loop for 429s and transient network failures.
	maxRetries := 3
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if i > 0 {
			// Exponential backoff: 1s, 2s, 4s
			select {
			case <-ctx.Done():
				return "", transportErr(c.provider, 0, ctx.Err())
			case <-time.After(time.Duration(1<<uint(i-1)) * time.Second):
			}
		}

		req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limit exceeded")
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return "", transportErr(c.provider, resp.StatusCode, fmt.Errorf("%s", strings.TrimSpace(string(body))))
		}

		var parsed chatResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return "", transportErr(c.provider, resp.StatusCode, fmt.Errorf("failed to parse response: %w", err))
		}

		if parsed.Error != nil {
			return "", transportErr(c.provider, resp.StatusCode, fmt.Errorf("API error: %s", parsed.Error.Message))
		}

		if len(parsed.Choices) == 0 {
			return "", transportErr(c.provider, resp.StatusCode, fmt.Errorf("no completion returned"))
		}

		return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
	}

	return "", transportErr(c.provider, 0, fmt.Errorf("max retries exceeded: %w", lastErr))
}

// SetModel changes the model used for completions.
func (c *OpenAIClient) SetModel(model string) {
	c.model = model
}

// GetModel returns the current model.
func (c *OpenAIClient) GetModel() string {
	return c.model
}
