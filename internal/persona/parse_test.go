package persona

import (
	"errors"
	"testing"
)

const cleanArray = `[
  {"name": "Ada Lovelace", "background": "Mathematician", "goals": "Prove it works", "beliefs": "Rigor first", "knowledge": "Analytical engines", "communication_style": "Precise"},
  {"name": "Grace Hopper", "background": "Rear admiral", "goals": "Ship the compiler", "beliefs": "Ask forgiveness", "knowledge": "Compilers", "communication_style": "Direct"}
]`

func TestParseCandidates_Robustness(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{
			name:  "clean JSON array",
			input: cleanArray,
			want:  2,
		},
		{
			name:  "markdown fenced",
			input: "```json\n" + cleanArray + "\n```",
			want:  2,
		},
		{
			name:  "surrounding prose",
			input: "Sure! Here are your personas:\n" + cleanArray + "\nLet me know if you need adjustments.",
			want:  2,
		},
		{
			name:  "trailing commas",
			input: `[{"name": "Ada", "background": "b", "goals": "g", "beliefs": "be", "knowledge": "k", "communication_style": "c",},]`,
			want:  1,
		},
		{
			name:  "single quotes",
			input: `[{'name': 'Ada', 'background': 'b', 'goals': 'g', 'beliefs': 'be', 'knowledge': 'k', 'communication_style': 'c'}]`,
			want:  1,
		},
		{
			name:  "single object instead of array",
			input: `{"name": "Ada", "background": "b", "goals": "g", "beliefs": "be", "knowledge": "k", "communication_style": "c"}`,
			want:  1,
		},
		{
			name:  "fenced with prose and trailing comma",
			input: "Of course.\n```json\n[{\"name\": \"Ada\", \"background\": \"b\", \"goals\": \"g\", \"beliefs\": \"be\", \"knowledge\": \"k\", \"communication_style\": \"c\",}]\n```\nDone!",
			want:  1,
		},
		{
			name:    "plain prose",
			input:   "I cannot generate personas for this task.",
			wantErr: true,
		},
		{
			name:    "truncated array",
			input:   `[{"name": "Ada", "background": "b"`,
			wantErr: true,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCandidates(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCandidates() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var perr *ParseError
				if !errors.As(err, &perr) {
					t.Fatalf("expected *ParseError, got %T", err)
				}
				if len(perr.Attempts) != len(repairChain) {
					t.Errorf("expected %d attempted repairs, got %v", len(repairChain), perr.Attempts)
				}
				return
			}
			if len(got) != tt.want {
				t.Errorf("got %d candidates, want %d", len(got), tt.want)
			}
		})
	}
}

func TestParseCandidates_ApostropheSurvives(t *testing.T) {
	input := `[{'name': "O'Brien", 'background': 'b', 'goals': 'g', 'beliefs': 'be', 'knowledge': 'k', 'communication_style': 'c'}]`
	got, err := ParseCandidates(input)
	if err != nil {
		t.Fatalf("ParseCandidates() error = %v", err)
	}
	if got[0].Name != "O'Brien" {
		t.Errorf("apostrophe mangled: got %q", got[0].Name)
	}
}

func TestParseCandidates_LooseFieldShapes(t *testing.T) {
	input := `[{"name": "Ada", "background": "b", "goals": ["ship it", "test it"], "beliefs": "be", "knowledge": "k", "communication_style": "c"}]`
	got, err := ParseCandidates(input)
	if err != nil {
		t.Fatalf("ParseCandidates() error = %v", err)
	}
	if got[0].Goals != "ship it; test it" {
		t.Errorf("list goals not joined: got %q", got[0].Goals)
	}
}

func TestExtractPayload_NestedBracesInStrings(t *testing.T) {
	input := `prefix [{"name": "A {weird} name", "background": "b]"}] suffix`
	got := extractPayload(input)
	want := `[{"name": "A {weird} name", "background": "b]"}]`
	if got != want {
		t.Errorf("extractPayload() = %q, want %q", got, want)
	}
}

func TestRepairSteps_Individually(t *testing.T) {
	if got := stripFences("```json\n[1]\n```"); got != "[1]" {
		t.Errorf("stripFences = %q", got)
	}
	if got := stripTrailingCommas(`{"a": 1,}`); got != `{"a": 1}` {
		t.Errorf("stripTrailingCommas = %q", got)
	}
	if got := normalizeQuotes(`{'a': 'b'}`); got != `{"a": "b"}` {
		t.Errorf("normalizeQuotes = %q", got)
	}
	if got := normalizeQuotes(`{"a": "it's fine"}`); got != `{"a": "it's fine"}` {
		t.Errorf("normalizeQuotes mangled apostrophe inside double quotes: %q", got)
	}
}
