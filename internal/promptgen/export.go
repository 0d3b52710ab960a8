package promptgen

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"gopkg.in/yaml.v3"
)

// JSON serializes the document as indented JSON.
func (d *Document) JSON() ([]byte, error) {
	out, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal prompt document: %w", err)
	}
	return out, nil
}

// YAML serializes the document as YAML.
func (d *Document) YAML() ([]byte, error) {
	out, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal prompt document: %w", err)
	}
	return out, nil
}

// Markdown renders the document as a markdown report.
func (d *Document) Markdown() string {
	var b strings.Builder

	b.WriteString("# Persona-Driven Prompt\n\n")
	fmt.Fprintf(&b, "## Task\n\n%s\n\n", d.Task)
	fmt.Fprintf(&b, "## Goals\n\n%s\n\n", d.Goals)

	b.WriteString("## Personas\n\n")
	for _, p := range d.Personas {
		fmt.Fprintf(&b, "### %s\n\n", p.Name)
		fmt.Fprintf(&b, "- **Background:** %s\n", p.Background)
		fmt.Fprintf(&b, "- **Goals:** %s\n", p.Goals)
		fmt.Fprintf(&b, "- **Beliefs:** %s\n", p.Beliefs)
		fmt.Fprintf(&b, "- **Knowledge:** %s\n", p.Knowledge)
		fmt.Fprintf(&b, "- **Communication Style:** %s\n\n", p.CommunicationStyle)
	}

	if len(d.KnowledgeSources) > 0 {
		b.WriteString("## Knowledge Sources\n\n")
		for _, s := range d.KnowledgeSources {
			if s.URL != "" {
				fmt.Fprintf(&b, "- [%s](%s): %s\n", s.Title, s.URL, s.Description)
			} else {
				fmt.Fprintf(&b, "- %s: %s\n", s.Title, s.Description)
			}
		}
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "## Conflict Resolution\n\n%s\n\n", d.ConflictResolution)
	fmt.Fprintf(&b, "## Prompt\n\n```\n%s\n```\n", d.Instructions)

	return b.String()
}

// RenderTerminal renders the markdown report styled for terminal display.
func (d *Document) RenderTerminal() (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := renderer.Render(d.Markdown())
	if err != nil {
		return "", fmt.Errorf("failed to render prompt document: %w", err)
	}
	return out, nil
}
