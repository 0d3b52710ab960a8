package main

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"personagen/internal/store"
)

func TestPrintTaskLine_RuneSafeTruncation(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	printTaskLine(cmd, store.TaskMemory{
		ID:        "0123456789abcdef",
		Task:      strings.Repeat("ü", 80),
		CreatedAt: time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
	})

	line := out.String()
	assert.True(t, utf8.ValidString(line))
	assert.Contains(t, line, strings.Repeat("ü", 60)+"...")
	assert.NotContains(t, line, "�")
}

func TestPrintTaskLine_ShortTaskUntouched(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	printTaskLine(cmd, store.TaskMemory{
		ID:        "0123456789abcdef",
		Task:      "Plan a launch",
		CreatedAt: time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
	})
	assert.Contains(t, out.String(), "Plan a launch")
	assert.NotContains(t, out.String(), "...")
}
