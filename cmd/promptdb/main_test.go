package main

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 70))
	assert.Equal(t, "abc...", truncate("abcdef", 3))

	// Truncation must not split multi-byte runes.
	got := truncate(strings.Repeat("é", 80), 70)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", 70)+"...", got)
}
