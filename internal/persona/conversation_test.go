package persona

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialConversation(t *testing.T) {
	set := PersonaSet(validPersonas(2))
	got := InitialConversation(set)

	lines := strings.Split(got, "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Hello, I am Persona 0")
	assert.Contains(t, lines[1], "Background 1")
}

func TestApplyToneEdits(t *testing.T) {
	set := PersonaSet(validPersonas(2))
	out := ApplyToneEdits(set, map[string]string{
		"persona 0": "Blunt and brief",
		"Nobody":    "ignored",
	})

	assert.Equal(t, "Blunt and brief", out[0].CommunicationStyle)
	assert.Equal(t, set[1].CommunicationStyle, out[1].CommunicationStyle)
	// Original untouched.
	assert.Equal(t, "Style 0", set[0].CommunicationStyle)
}

func TestApplyToneEdits_EmptyMap(t *testing.T) {
	set := PersonaSet(validPersonas(1))
	assert.Equal(t, set, ApplyToneEdits(set, nil))
}
