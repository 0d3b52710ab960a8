package persona

import (
	"fmt"
	"strings"
)

// Prompt is the request payload for one generation call: a system message
// that pins down the output contract and a user message with the task.
type Prompt struct {
	System string
	User   string
}

const generationSystemPrompt = `You are an expert in creating diverse and well-defined personas for collaborative tasks. Each persona must be distinct and contribute meaningfully to the task at hand.

Every persona must include exactly these fields:
- name: a realistic full name, unique within the set
- background: professional background and experience
- goals: specific goals related to the task
- beliefs: core values and principles that guide their work
- knowledge: concrete areas of expertise
- communication_style: how they interact with others

Return ONLY a JSON array of persona objects with those exact fields, without any additional text, explanations, or markdown fences.`

// BuildPrompt deterministically produces the generation request for the given
// task, goals, reference context, and persona count. Pure function; no side
// effects. References are excerpts from user-supplied sources folded into the
// user message so personas are grounded in them.
// Returns ErrInvalidArgument for an empty task or an out-of-range count.
func BuildPrompt(task string, goals, references []string, count int) (Prompt, error) {
	task = strings.TrimSpace(task)
	if task == "" {
		return Prompt{}, fmt.Errorf("%w: task must not be empty", ErrInvalidArgument)
	}
	if !validCount(count) {
		return Prompt{}, fmt.Errorf("%w: count %d outside supported range [%d,%d]", ErrInvalidArgument, count, MinCount, MaxCount)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Task Description: %s\n", task)
	if len(goals) > 0 {
		fmt.Fprintf(&b, "Goals: %s\n", strings.Join(goals, "; "))
	} else {
		b.WriteString("Goals: No specific goals provided.\n")
	}
	for _, ref := range references {
		if ref = strings.TrimSpace(ref); ref != "" {
			fmt.Fprintf(&b, "Consider information from this source: %s\n", ref)
		}
	}
	fmt.Fprintf(&b, "Number of Personas: %d\n\n", count)
	fmt.Fprintf(&b, "Generate exactly %d distinct personas that:\n", count)
	b.WriteString("1. Have complementary skills and knowledge\n")
	b.WriteString("2. Represent different perspectives and approaches\n")
	b.WriteString("3. Can effectively collaborate while maintaining their unique viewpoints\n")
	b.WriteString("Return ONLY a JSON array of personas.")

	return Prompt{System: generationSystemPrompt, User: b.String()}, nil
}
