// Package promptgen assembles the final persona-driven prompt document and
// renders it for export.
package promptgen

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"personagen/internal/knowledge"
	"personagen/internal/persona"
)

// Document is the assembled prompt handed to the user: the task, the persona
// set, supporting knowledge, the conflict strategy, and the rendered
// instructions block.
type Document struct {
	ID                 string             `json:"id" yaml:"id"`
	Task               string             `json:"task" yaml:"task"`
	Goals              string             `json:"goals" yaml:"goals"`
	OriginalTask       string             `json:"original_task,omitempty" yaml:"original_task,omitempty"`
	OriginalGoals      string             `json:"original_goals,omitempty" yaml:"original_goals,omitempty"`
	Personas           persona.PersonaSet `json:"personas" yaml:"personas"`
	KnowledgeSources   []knowledge.Source `json:"knowledge_sources" yaml:"knowledge_sources"`
	ConflictResolution string             `json:"conflict_resolution" yaml:"conflict_resolution"`
	PriorDecisions     []string           `json:"prior_decisions,omitempty" yaml:"prior_decisions,omitempty"`
	Instructions       string             `json:"instructions" yaml:"instructions"`
	CreatedAt          time.Time          `json:"created_at" yaml:"created_at"`
}

// Input collects everything Assemble needs.
type Input struct {
	Task               string
	Goals              string
	OriginalTask       string
	OriginalGoals      string
	Personas           persona.PersonaSet
	KnowledgeSources   []knowledge.Source
	ConflictResolution string
	PriorDecisions     []string
}

// Assemble builds the prompt document, including the memory sections and the
// instructions block. Deterministic apart from ID and CreatedAt.
func Assemble(in Input) *Document {
	doc := &Document{
		ID:                 uuid.NewString(),
		Task:               in.Task,
		Goals:              in.Goals,
		OriginalTask:       in.OriginalTask,
		OriginalGoals:      in.OriginalGoals,
		Personas:           in.Personas,
		KnowledgeSources:   in.KnowledgeSources,
		ConflictResolution: in.ConflictResolution,
		PriorDecisions:     in.PriorDecisions,
		CreatedAt:          time.Now().UTC(),
	}
	if doc.Goals == "" {
		doc.Goals = "No specific goals provided."
	}
	doc.Instructions = buildInstructions(doc)
	return doc
}

// buildInstructions renders the sectioned instructions text the original
// prompt format uses: task, memory sections, then directives.
func buildInstructions(doc *Document) string {
	var b strings.Builder

	fmt.Fprintf(&b, "### Task ###\n%s\n\n", doc.Task)

	b.WriteString("### Memory: Personas ###\n")
	b.WriteString(memoryPersonas(doc.Personas))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "### Memory: Task Goals ###\n%s\n\n", doc.Goals)

	b.WriteString("### Memory: Prior Decisions ###\n")
	if len(doc.PriorDecisions) == 0 {
		b.WriteString("- None")
	} else {
		for i, d := range doc.PriorDecisions {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "- %s", d)
		}
	}
	b.WriteString("\n\n")

	b.WriteString("### Instructions ###\n")
	fmt.Fprintf(&b, "Generate outputs for the task %q by incorporating the perspectives of %s.",
		doc.Task, strings.Join(doc.Personas.Names(), ", "))
	if titles := sourceTitles(doc.KnowledgeSources); len(titles) > 0 {
		fmt.Fprintf(&b, " Use knowledge from %s.", strings.Join(titles, ", "))
	}
	fmt.Fprintf(&b, " Resolve conflicts using the following strategy: %s.", doc.ConflictResolution)
	b.WriteString(" Update the memory with significant decisions or outputs generated.")

	return b.String()
}

func memoryPersonas(set persona.PersonaSet) string {
	lines := make([]string, 0, len(set))
	for _, p := range set {
		lines = append(lines, fmt.Sprintf(
			"- %s:\n    - Background: %s\n    - Goals: %s\n    - Beliefs: %s\n    - Knowledge: %s\n    - Communication Style: %s",
			p.Name, p.Background, p.Goals, p.Beliefs, p.Knowledge, p.CommunicationStyle))
	}
	return strings.Join(lines, "\n")
}

func sourceTitles(sources []knowledge.Source) []string {
	titles := make([]string, 0, len(sources))
	for _, s := range sources {
		if s.Title != "" {
			titles = append(titles, s.Title)
		}
	}
	return titles
}
