// Package conflict resolves narrative conflicts between personas by asking
// the model to identify tensions and propose resolutions.
package conflict

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"personagen/internal/llm"
	"personagen/internal/persona"
)

const resolveSystemPrompt = `Resolve conflicts between personas by prioritizing fairness, knowledge, and relevance to task goals.`

// DefaultStrategy is used when automatic resolution fails and the caller
// supplied nothing better.
const DefaultStrategy = "Defer to the persona with the most relevant expertise; escalate ties to the task owner."

// Resolver produces a conflict-resolution strategy for a persona set.
type Resolver struct {
	client llm.Client
	logger *zap.Logger
}

// NewResolver creates a resolver backed by the given LLM client. A nil
// logger disables logging.
func NewResolver(client llm.Client, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{client: client, logger: logger}
}

// Resolve asks the model to identify conflicts among the personas and
// propose resolutions. On failure it falls back to the supplied manual
// strategy, or DefaultStrategy when that is empty; the error is returned
// alongside for diagnostics but the strategy is always usable.
func (r *Resolver) Resolve(ctx context.Context, task string, set persona.PersonaSet, manualStrategy string) (string, error) {
	user := fmt.Sprintf("Task: %s\n\nPersonas:\n%s\n\nIdentify conflicts and propose resolutions.",
		task, describePersonas(set))

	resolution, err := r.client.CompleteWithSystem(ctx, resolveSystemPrompt, user)
	if err == nil {
		resolution = strings.TrimSpace(resolution)
		if resolution != "" {
			return resolution, nil
		}
		err = fmt.Errorf("empty resolution from model")
	}

	r.logger.Warn("conflict resolution failed, using manual strategy", zap.Error(err))
	if strings.TrimSpace(manualStrategy) != "" {
		return manualStrategy, err
	}
	return DefaultStrategy, err
}

// describePersonas renders the personas as the bullet list fed to the model.
func describePersonas(set persona.PersonaSet) string {
	var b strings.Builder
	for _, p := range set {
		fmt.Fprintf(&b, "- %s:\n", p.Name)
		fmt.Fprintf(&b, "    - Background: %s\n", p.Background)
		fmt.Fprintf(&b, "    - Goals: %s\n", p.Goals)
		fmt.Fprintf(&b, "    - Beliefs: %s\n", p.Beliefs)
		fmt.Fprintf(&b, "    - Knowledge: %s\n", p.Knowledge)
		fmt.Fprintf(&b, "    - Communication Style: %s\n", p.CommunicationStyle)
	}
	return b.String()
}
