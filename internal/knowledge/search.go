package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// SearchClient queries the DuckDuckGo instant-answer API for supplementary
// task references. No API key required.
type SearchClient struct {
	baseURL    string
	httpClient *http.Client
	maxResults int
}

// NewSearchClient creates a DuckDuckGo search client.
func NewSearchClient() *SearchClient {
	return &SearchClient{
		baseURL: "https://api.duckduckgo.com",
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		maxResults: 5,
	}
}

type ddgResponse struct {
	AbstractText  string `json:"AbstractText"`
	AbstractURL   string `json:"AbstractURL"`
	Heading       string `json:"Heading"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

// Search returns up to five instant-answer results as knowledge sources.
func (c *SearchClient) Search(ctx context.Context, query string) ([]Source, error) {
	endpoint := fmt.Sprintf("%s/?q=%s&format=json&no_html=1", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	var parsed ddgResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	var results []Source
	if parsed.AbstractURL != "" {
		results = append(results, Source{
			Title:       parsed.Heading,
			Description: parsed.AbstractText,
			URL:         parsed.AbstractURL,
		})
	}
	for _, topic := range parsed.RelatedTopics {
		if len(results) >= c.maxResults {
			break
		}
		if topic.FirstURL == "" {
			continue
		}
		results = append(results, Source{
			Title: topic.Text,
			URL:   topic.FirstURL,
		})
	}

	return results, nil
}
