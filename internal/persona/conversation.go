package persona

import (
	"fmt"
	"strings"
)

// InitialConversation produces the deterministic conversation seed in which
// each persona introduces itself. Used to bootstrap multi-agent chats.
func InitialConversation(set PersonaSet) string {
	lines := make([]string, 0, len(set))
	for _, p := range set {
		lines = append(lines, fmt.Sprintf(
			"%s: Hello, I am %s. My background is %s. I aim to achieve %s.",
			p.Name, p.Name, p.Background, p.Goals))
	}
	return strings.Join(lines, "\n")
}

// ApplyToneEdits overrides communication styles by persona name
// (case-insensitive). Unknown names are ignored. The input set is not
// mutated; a copy is returned.
func ApplyToneEdits(set PersonaSet, tones map[string]string) PersonaSet {
	if len(tones) == 0 {
		return set
	}

	folded := make(map[string]string, len(tones))
	for name, tone := range tones {
		folded[strings.ToLower(name)] = tone
	}

	out := make(PersonaSet, len(set))
	copy(out, set)
	for i := range out {
		if tone, ok := folded[strings.ToLower(out[i].Name)]; ok && strings.TrimSpace(tone) != "" {
			out[i].CommunicationStyle = strings.TrimSpace(tone)
		}
	}
	return out
}
