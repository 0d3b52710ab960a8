// Package persona implements the persona-set generation pipeline: prompt
// construction, tolerant parsing of model output, and validation with a
// deterministic fallback. The pipeline is stateless; every request is a pure
// function of (task, goals, count) plus whatever the model returns.
package persona

import (
	"errors"
	"fmt"
	"strings"
)

// Supported persona count range for one generation request.
const (
	MinCount = 1
	MaxCount = 10
)

// ErrInvalidArgument reports malformed caller input (bad count, empty task).
// It is the only error the top-level generator surfaces for input problems;
// generation-quality failures degrade to the fallback set instead.
var ErrInvalidArgument = errors.New("invalid argument")

// Persona is one synthesized viewpoint. All six fields are required and
// non-empty after validation.
type Persona struct {
	Name               string `json:"name" yaml:"name"`
	Background         string `json:"background" yaml:"background"`
	Goals              string `json:"goals" yaml:"goals"`
	Beliefs            string `json:"beliefs" yaml:"beliefs"`
	Knowledge          string `json:"knowledge" yaml:"knowledge"`
	CommunicationStyle string `json:"communication_style" yaml:"communication_style"`
}

// trim normalizes surrounding whitespace on every field.
func (p Persona) trim() Persona {
	return Persona{
		Name:               strings.TrimSpace(p.Name),
		Background:         strings.TrimSpace(p.Background),
		Goals:              strings.TrimSpace(p.Goals),
		Beliefs:            strings.TrimSpace(p.Beliefs),
		Knowledge:          strings.TrimSpace(p.Knowledge),
		CommunicationStyle: strings.TrimSpace(p.CommunicationStyle),
	}
}

// validate reports the first missing required field, or nil.
func (p Persona) validate() error {
	switch {
	case p.Name == "":
		return fmt.Errorf("missing field: name")
	case p.Background == "":
		return fmt.Errorf("missing field: background")
	case p.Goals == "":
		return fmt.Errorf("missing field: goals")
	case p.Beliefs == "":
		return fmt.Errorf("missing field: beliefs")
	case p.Knowledge == "":
		return fmt.Errorf("missing field: knowledge")
	case p.CommunicationStyle == "":
		return fmt.Errorf("missing field: communication_style")
	}
	return nil
}

// PersonaSet is an ordered sequence of personas. A conforming set has exactly
// the requested length, pairwise case-insensitively distinct names, and all
// fields present on every member.
type PersonaSet []Persona

// Names returns the persona names in set order.
func (s PersonaSet) Names() []string {
	names := make([]string, len(s))
	for i, p := range s {
		names[i] = p.Name
	}
	return names
}

// Validate checks the set invariant for the given requested count.
func (s PersonaSet) Validate(count int) error {
	if len(s) != count {
		return fmt.Errorf("expected %d personas, got %d", count, len(s))
	}
	seen := make(map[string]string, len(s))
	for i, p := range s {
		if err := p.validate(); err != nil {
			return fmt.Errorf("persona %d: %w", i, err)
		}
		key := strings.ToLower(p.Name)
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("duplicate persona name: %q collides with %q", p.Name, prev)
		}
		seen[key] = p.Name
	}
	return nil
}

// validCount reports whether n is inside the supported range.
func validCount(n int) bool {
	return n >= MinCount && n <= MaxCount
}

// clampCount forces n into the supported range.
func clampCount(n int) int {
	if n < MinCount {
		return MinCount
	}
	if n > MaxCount {
		return MaxCount
	}
	return n
}
