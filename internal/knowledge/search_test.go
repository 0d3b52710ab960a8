package knowledge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "caching layers", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"Heading": "Cache",
			"AbstractText": "A cache stores data.",
			"AbstractURL": "https://en.wikipedia.org/wiki/Cache",
			"RelatedTopics": [
				{"Text": "Cache replacement policies", "FirstURL": "https://example.com/lru"},
				{"Text": "no url topic", "FirstURL": ""}
			]
		}`))
	}))
	defer server.Close()

	client := NewSearchClient()
	client.baseURL = server.URL

	results, err := client.Search(context.Background(), "caching layers")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Cache", results[0].Title)
	assert.Equal(t, "https://example.com/lru", results[1].URL)
}

func TestSearch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewSearchClient()
	client.baseURL = server.URL

	_, err := client.Search(context.Background(), "q")
	assert.Error(t, err)
}

func TestScraper_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Test Page</title><style>p{}</style></head>
			<body><script>ignored()</script><p>Visible   text here.</p></body></html>`))
	}))
	defer server.Close()

	page, err := NewScraper().Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Test Page", page.Title)
	assert.Contains(t, page.Excerpt, "Visible text here.")
	assert.NotContains(t, page.Excerpt, "ignored")
}

func TestScraper_FetchAll_SkipsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`<html><head><title>OK</title></head><body>x</body></html>`))
	}))
	defer server.Close()

	pages, failures := NewScraper().FetchAll(context.Background(),
		[]string{server.URL + "/good", server.URL + "/bad", " "})
	require.Len(t, pages, 1)
	assert.Equal(t, "OK", pages[0].Title)
	assert.Len(t, failures, 1)
}
