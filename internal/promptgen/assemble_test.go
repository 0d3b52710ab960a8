package promptgen

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"personagen/internal/knowledge"
	"personagen/internal/persona"
)

func sampleInput() Input {
	return Input{
		Task:  "Design a caching layer",
		Goals: "Low latency; predictable eviction",
		Personas: persona.PersonaSet{
			{
				Name:               "Ada",
				Background:         "Systems engineer",
				Goals:              "Correctness first",
				Beliefs:            "Measure before optimizing",
				Knowledge:          "Distributed systems",
				CommunicationStyle: "Direct",
			},
			{
				Name:               "Lin",
				Background:         "SRE",
				Goals:              "Operability",
				Beliefs:            "Simple beats clever",
				Knowledge:          "Production incidents",
				CommunicationStyle: "Pragmatic",
			},
		},
		KnowledgeSources: []knowledge.Source{
			{Title: "Caching at Scale", Description: "Survey of cache designs", URL: "https://example.com/caching"},
		},
		ConflictResolution: "Defer to measured data",
		PriorDecisions:     []string{"Chose LRU over LFU"},
	}
}

func TestAssemble(t *testing.T) {
	doc := Assemble(sampleInput())

	require.NotEmpty(t, doc.ID)
	assert.False(t, doc.CreatedAt.IsZero())

	for _, want := range []string{
		"### Task ###",
		"Design a caching layer",
		"### Memory: Personas ###",
		"- Ada:",
		"Communication Style: Pragmatic",
		"### Memory: Task Goals ###",
		"Low latency; predictable eviction",
		"### Memory: Prior Decisions ###",
		"- Chose LRU over LFU",
		"### Instructions ###",
		"incorporating the perspectives of Ada, Lin",
		"Use knowledge from Caching at Scale",
		"Resolve conflicts using the following strategy: Defer to measured data.",
		"Update the memory",
	} {
		assert.Contains(t, doc.Instructions, want)
	}
}

func TestAssemble_Defaults(t *testing.T) {
	in := sampleInput()
	in.Goals = ""
	in.KnowledgeSources = nil
	in.PriorDecisions = nil

	doc := Assemble(in)
	assert.Equal(t, "No specific goals provided.", doc.Goals)
	assert.Contains(t, doc.Instructions, "### Memory: Prior Decisions ###\n- None")
	assert.NotContains(t, doc.Instructions, "Use knowledge from")
}

func TestExportRoundTrips(t *testing.T) {
	doc := Assemble(sampleInput())

	jsonOut, err := doc.JSON()
	require.NoError(t, err)
	var fromJSON Document
	require.NoError(t, json.Unmarshal(jsonOut, &fromJSON))
	assert.Equal(t, doc.ID, fromJSON.ID)
	assert.Equal(t, doc.Personas.Names(), fromJSON.Personas.Names())

	yamlOut, err := doc.YAML()
	require.NoError(t, err)
	var fromYAML Document
	require.NoError(t, yaml.Unmarshal(yamlOut, &fromYAML))
	assert.Equal(t, doc.ConflictResolution, fromYAML.ConflictResolution)
}

func TestMarkdown(t *testing.T) {
	md := Assemble(sampleInput()).Markdown()

	assert.True(t, strings.HasPrefix(md, "# Persona-Driven Prompt"))
	assert.Contains(t, md, "### Ada")
	assert.Contains(t, md, "[Caching at Scale](https://example.com/caching)")
	assert.Contains(t, md, "## Conflict Resolution")
	assert.Contains(t, md, "### Task ###")
}
