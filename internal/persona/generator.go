package persona

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"personagen/internal/llm"
)

// Request describes one persona-set generation. References carry excerpts
// from user-supplied sources; they enrich the generation prompt so personas
// are grounded in that material.
type Request struct {
	Task       string
	Goals      []string
	References []string
	Count      int
}

// Degradation is the non-fatal warning signal returned alongside a result
// when genuine generation was insufficient and fallback entries were used.
// Reason is one of "transport", "parse", or "shape".
type Degradation struct {
	Reason string
	Err    error
}

func (d *Degradation) String() string {
	if d == nil {
		return ""
	}
	return fmt.Sprintf("%s degradation: %v", d.Reason, d.Err)
}

// Generator runs the build → call → parse → validate pipeline. It is
// stateless and safe for concurrent use; each Generate call is independent.
type Generator struct {
	client llm.Client
	logger *zap.Logger
}

// NewGenerator creates a generator backed by the given LLM client. A nil
// logger disables logging.
func NewGenerator(client llm.Client, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{client: client, logger: logger}
}

// Generate returns exactly req.Count valid, name-distinct personas. Invalid
// input (empty task, out-of-range count) is the only hard error. Transport
// and parse failures degrade to the deterministic fallback set; the
// accompanying Degradation reports what happened so callers can log it.
func (g *Generator) Generate(ctx context.Context, req Request) (PersonaSet, *Degradation, error) {
	prompt, err := BuildPrompt(req.Task, req.Goals, req.References, req.Count)
	if err != nil {
		return nil, nil, err
	}

	g.logger.Debug("generating personas",
		zap.Int("count", req.Count),
		zap.String("task", req.Task))

	raw, err := g.client.CompleteWithSystem(ctx, prompt.System, prompt.User)
	if err != nil {
		// Context cancellation and non-transport failures degrade the same
		// way: the caller always gets a usable set.
		var terr *llm.TransportError
		if !errors.As(err, &terr) {
			err = &llm.TransportError{Provider: "unknown", Err: err}
		}
		g.logger.Warn("LLM call failed, using fallback personas", zap.Error(err))
		return DefaultSet(req.Count), &Degradation{Reason: "transport", Err: err}, nil
	}

	candidates, err := ParseCandidates(raw)
	if err != nil {
		g.logger.Warn("unparseable persona response, using fallback personas", zap.Error(err))
		return DefaultSet(req.Count), &Degradation{Reason: "parse", Err: err}, nil
	}

	set := Sanitize(candidates, req.Count)

	// Report a shortfall (padding with fallback entries) as a non-fatal
	// shape warning. Truncating a surplus is not degradation.
	genuine := 0
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		p := c.trim()
		if p.validate() != nil {
			continue
		}
		key := strings.ToLower(p.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		genuine++
	}
	if genuine < req.Count {
		deg := &Degradation{
			Reason: "shape",
			Err:    fmt.Errorf("model returned %d usable personas, padded to %d", genuine, req.Count),
		}
		g.logger.Warn("persona shortfall", zap.Int("usable", genuine), zap.Int("requested", req.Count))
		return set, deg, nil
	}

	return set, nil, nil
}
