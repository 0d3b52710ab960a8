package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"personagen/internal/knowledge"
)

func TestReferenceLines(t *testing.T) {
	pages := []knowledge.PageSummary{
		{URL: "https://example.com/clig", Title: "CLI Guidelines", Excerpt: "command design notes"},
		{URL: "https://example.com/bare"},
		{URL: "https://example.com/untitled", Excerpt: "body only"},
	}

	assert.Equal(t, []string{
		"CLI Guidelines (https://example.com/clig): command design notes",
		"https://example.com/bare",
		"https://example.com/untitled: body only",
	}, referenceLines(pages))
}

func TestReferenceLines_Empty(t *testing.T) {
	assert.Empty(t, referenceLines(nil))
}

func TestSplitGoals(t *testing.T) {
	assert.Nil(t, splitGoals("  "))
	assert.Equal(t, []string{"ship fast", "stay simple"}, splitGoals("ship fast; stay simple"))
	assert.Equal(t, []string{"a", "b"}, splitGoals("a\nb"))
}
