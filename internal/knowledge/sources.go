// Package knowledge fetches knowledge sources for a task: LLM-suggested
// references, DuckDuckGo instant answers, and scraped reference URLs.
package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"personagen/internal/llm"
)

// Source is one knowledge reference for a task.
type Source struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	URL         string `json:"url" yaml:"url"`
}

const sourcesSystemPrompt = `You will be provided with a task. Generate a list of knowledge sources in JSON format ONLY, without any additional text or explanations. Each knowledge source must include the following fields: title, description, and url.`

// FetchSources asks the model for knowledge sources relevant to the task.
// Best effort: on transport or parse failure it returns an empty list and
// the error for the caller to log; the pipeline continues without sources.
func FetchSources(ctx context.Context, client llm.Client, logger *zap.Logger, task string) ([]Source, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	task = strings.TrimSpace(task)
	if task == "" {
		return nil, fmt.Errorf("task must not be empty")
	}

	user := fmt.Sprintf("Task: %s. Generate a list of knowledge sources relevant to this task. Return the knowledge sources as a JSON array ONLY, without any additional text or explanations.", task)

	raw, err := client.CompleteWithSystem(ctx, sourcesSystemPrompt, user)
	if err != nil {
		logger.Warn("knowledge source fetch failed", zap.Error(err))
		return nil, err
	}

	sources, err := parseSources(raw)
	if err != nil {
		logger.Warn("could not parse knowledge sources", zap.Error(err))
		return nil, err
	}

	logger.Debug("knowledge sources generated", zap.Int("count", len(sources)))
	return sources, nil
}

// parseSources extracts the JSON source array from model output, tolerating
// markdown wrappers and surrounding prose.
func parseSources(raw string) ([]Source, error) {
	text := extractJSONArray(raw)
	if text == "" {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	var sources []Source
	if err := json.Unmarshal([]byte(text), &sources); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge sources: %w", err)
	}

	// Drop entries with no title; a bare URL is still useful, a bare
	// description is not.
	kept := sources[:0]
	for _, s := range sources {
		s.Title = strings.TrimSpace(s.Title)
		s.Description = strings.TrimSpace(s.Description)
		s.URL = strings.TrimSpace(s.URL)
		if s.Title == "" && s.URL == "" {
			continue
		}
		kept = append(kept, s)
	}
	return kept, nil
}

// extractJSONArray finds the first balanced JSON array in text (handles
// markdown wrappers).
func extractJSONArray(text string) string {
	start := strings.IndexByte(text, '[')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			escaped = true
		case '"':
			inString = !inString
		case '[':
			if !inString {
				depth++
			}
		case ']':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1]
				}
			}
		}
	}
	return ""
}
