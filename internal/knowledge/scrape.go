package knowledge

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// maxPageBytes caps how much of a reference page we read.
const maxPageBytes = 512 * 1024

// maxExcerptRunes caps the text excerpt carried into the generation context.
const maxExcerptRunes = 2000

// PageSummary is the scraped content of one reference URL.
type PageSummary struct {
	URL     string
	Title   string
	Excerpt string
}

// Scraper fetches user-supplied reference URLs and extracts title and text
// so reference context can be fed to persona generation.
type Scraper struct {
	httpClient *http.Client
}

// NewScraper creates a scraper with a sane timeout.
func NewScraper() *Scraper {
	return &Scraper{
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// Fetch retrieves url and extracts its title and a plain-text excerpt.
func (s *Scraper) Fetch(ctx context.Context, pageURL string) (*PageSummary, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "personagen/1.0 (+reference context fetcher)")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}

	summary := &PageSummary{URL: pageURL}
	summary.Title, summary.Excerpt = extractTextContent(doc)
	return summary, nil
}

// FetchAll fetches each URL, skipping failures; errors are collected per-URL.
func (s *Scraper) FetchAll(ctx context.Context, urls []string) ([]PageSummary, map[string]error) {
	var summaries []PageSummary
	failures := make(map[string]error)
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		page, err := s.Fetch(ctx, u)
		if err != nil {
			failures[u] = err
			continue
		}
		summaries = append(summaries, *page)
	}
	return summaries, failures
}

// extractTextContent walks the HTML tree collecting the <title> and the
// visible text, skipping script and style subtrees.
func extractTextContent(doc *html.Node) (title, excerpt string) {
	var text strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "title":
				if title == "" && n.FirstChild != nil {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.Join(strings.Fields(n.Data), " "); t != "" {
				if text.Len() > 0 {
					text.WriteByte(' ')
				}
				text.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	excerpt = text.String()
	if runes := []rune(excerpt); len(runes) > maxExcerptRunes {
		excerpt = string(runes[:maxExcerptRunes]) + "…"
	}
	return title, excerpt
}
