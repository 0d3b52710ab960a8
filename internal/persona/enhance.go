package persona

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"personagen/internal/llm"
)

const enhanceSystemPrompt = `You are an expert in task analysis and requirements engineering. Enhance and structure task descriptions to make them more comprehensive and actionable: clarify ambiguous points, add measurable objectives, identify constraints, and add success criteria. Return ONLY a JSON object with "enhanced_task" and "enhanced_goals" fields.`

// Enhancement is the result of the task-refinement pass. On any failure the
// originals are returned untouched; enhancement never blocks generation.
type Enhancement struct {
	Task     string
	Goals    string
	Enhanced bool // false when originals were kept
}

type enhanceWire struct {
	EnhancedTask  looseString `json:"enhanced_task"`
	EnhancedGoals looseString `json:"enhanced_goals"`
}

// EnhanceTask asks the model to rewrite the task and goals into a more
// actionable form. Best effort: transport or parse failures return the
// originals with Enhanced=false.
func EnhanceTask(ctx context.Context, client llm.Client, logger *zap.Logger, task, goals string) Enhancement {
	if logger == nil {
		logger = zap.NewNop()
	}
	original := Enhancement{Task: task, Goals: goals}

	var b strings.Builder
	b.WriteString("Task Description: ")
	b.WriteString(task)
	b.WriteString("\nGoals: ")
	b.WriteString(goals)
	b.WriteString("\n\nPlease enhance this task description and goals to make them more detailed and actionable. Return ONLY a JSON object with 'enhanced_task' and 'enhanced_goals' fields.")

	raw, err := client.CompleteWithSystem(ctx, enhanceSystemPrompt, b.String())
	if err != nil {
		logger.Warn("task enhancement failed, keeping original task", zap.Error(err))
		return original
	}

	payload := extractPayload(stripFences(raw))
	var wire enhanceWire
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		logger.Warn("could not parse enhancement response, keeping original task", zap.Error(err))
		return original
	}

	enhanced := Enhancement{
		Task:     strings.TrimSpace(string(wire.EnhancedTask)),
		Goals:    strings.TrimSpace(string(wire.EnhancedGoals)),
		Enhanced: true,
	}
	if enhanced.Task == "" {
		enhanced.Task = task
	}
	if enhanced.Goals == "" {
		enhanced.Goals = goals
	}
	return enhanced
}
