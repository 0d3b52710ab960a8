package persona

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseError reports that model output could not be turned into candidate
// personas even after the full repair chain. It is a recoverable signal: the
// validator substitutes the fallback set, it is never surfaced as a crash.
type ParseError struct {
	Attempts []string // repair steps attempted, in chain order
	Err      error    // last strict-parse failure
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("no parseable persona data after repairs [%s]: %v", strings.Join(e.Attempts, ", "), e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// repair is one named, independently testable text-normalization step.
type repair struct {
	name  string
	apply func(string) string
}

// repairChain is the bounded, ordered set of heuristics applied to model
// output that fails strict parsing. Each step's result is re-fed to the
// strict parser; the chain terminates after the last step.
var repairChain = []repair{
	{"extract-payload", extractPayload},
	{"strip-fences", stripFences},
	{"strip-trailing-commas", stripTrailingCommas},
	{"normalize-quotes", normalizeQuotes},
}

// ParseCandidates converts raw model output into candidate personas. It
// attempts strict JSON parsing first, then applies the repair chain
// cumulatively, retrying after each step. Candidates are returned as-is;
// shape enforcement is the validator's job. Never panics on malformed input;
// the failure mode is a *ParseError.
func ParseCandidates(raw string) ([]Persona, error) {
	text := strings.TrimSpace(raw)

	candidates, lastErr := decodeCandidates(text)
	if lastErr == nil {
		return candidates, nil
	}

	attempts := make([]string, 0, len(repairChain))
	for _, r := range repairChain {
		text = r.apply(text)
		attempts = append(attempts, r.name)

		candidates, err := decodeCandidates(text)
		if err == nil {
			return candidates, nil
		}
		lastErr = err
	}

	return nil, &ParseError{Attempts: attempts, Err: lastErr}
}

// personaWire tolerates the loose value shapes LLMs emit for individual
// fields (plain string, list of strings, nested object) while keeping the
// record itself strictly typed past the parse boundary.
type personaWire struct {
	Name               looseString `json:"name"`
	Background         looseString `json:"background"`
	Goals              looseString `json:"goals"`
	Beliefs            looseString `json:"beliefs"`
	Knowledge          looseString `json:"knowledge"`
	CommunicationStyle looseString `json:"communication_style"`
}

func (w personaWire) persona() Persona {
	return Persona{
		Name:               string(w.Name),
		Background:         string(w.Background),
		Goals:              string(w.Goals),
		Beliefs:            string(w.Beliefs),
		Knowledge:          string(w.Knowledge),
		CommunicationStyle: string(w.CommunicationStyle),
	}
}

// looseString unmarshals a string, a string list (joined with "; "), or any
// other JSON value (re-encoded compactly).
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = looseString(str)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = looseString(strings.Join(list, "; "))
		return nil
	}

	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == nil {
		*s = ""
		return nil
	}
	compact, err := json.Marshal(v)
	if err != nil {
		return err
	}
	*s = looseString(compact)
	return nil
}

// decodeCandidates strictly parses text as a persona array, accepting a bare
// single object as a one-element array.
func decodeCandidates(text string) ([]Persona, error) {
	if text == "" {
		return nil, fmt.Errorf("empty response")
	}

	var wire []personaWire
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		var single personaWire
		if err2 := json.Unmarshal([]byte(text), &single); err2 != nil {
			return nil, err
		}
		wire = []personaWire{single}
	}

	out := make([]Persona, len(wire))
	for i, w := range wire {
		out[i] = w.persona()
	}
	return out, nil
}

// extractPayload strips leading/trailing non-data text by locating the first
// balanced JSON array (or, failing that, object) in the text. The scan is
// string- and escape-aware so braces inside values do not confuse it.
// Returns the input unchanged when no balanced payload is found.
func extractPayload(text string) string {
	if payload := extractBalanced(text, '[', ']'); payload != "" {
		return payload
	}
	if payload := extractBalanced(text, '{', '}'); payload != "" {
		return payload
	}
	return text
}

func extractBalanced(text string, open, close byte) string {
	start := strings.IndexByte(text, open)
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]

		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch ch {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}

	return ""
}

// stripFences removes markdown code-fence marker lines (``` or ```json).
func stripFences(text string) string {
	if !strings.Contains(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

var trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)

// stripTrailingCommas removes commas immediately preceding a closing brace or
// bracket. Heuristic: it does not track strings, which is acceptable for the
// ",]" / ",}" shapes LLMs actually produce.
func stripTrailingCommas(text string) string {
	return trailingCommaRe.ReplaceAllString(text, "$1")
}

// normalizeQuotes converts single-quoted JSON strings to double-quoted ones.
// A single quote only counts as a delimiter when it sits in a structural
// position (after { [ , : or before : , } ]), so apostrophes inside values
// survive.
func normalizeQuotes(text string) string {
	if !strings.Contains(text, "'") {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	inDouble := false
	inSingle := false

	for i := 0; i < len(text); i++ {
		ch := text[i]

		switch {
		case inDouble:
			b.WriteByte(ch)
			if ch == '\\' && i+1 < len(text) {
				i++
				b.WriteByte(text[i])
				continue
			}
			if ch == '"' {
				inDouble = false
			}

		case inSingle:
			if ch == '\'' && structuralAfter(text, i+1) {
				b.WriteByte('"')
				inSingle = false
			} else if ch == '"' {
				b.WriteString(`\"`)
			} else {
				b.WriteByte(ch)
			}

		default:
			switch {
			case ch == '"':
				inDouble = true
				b.WriteByte(ch)
			case ch == '\'' && structuralBefore(text, i-1):
				inSingle = true
				b.WriteByte('"')
			default:
				b.WriteByte(ch)
			}
		}
	}

	return b.String()
}

func structuralBefore(text string, i int) bool {
	for ; i >= 0; i-- {
		switch text[i] {
		case ' ', '\t', '\n', '\r':
			continue
		case '{', '[', ',', ':':
			return true
		default:
			return false
		}
	}
	return true
}

func structuralAfter(text string, i int) bool {
	for ; i < len(text); i++ {
		switch text[i] {
		case ' ', '\t', '\n', '\r':
			continue
		case '}', ']', ',', ':':
			return true
		default:
			return false
		}
	}
	return true
}
