package conflict

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personagen/internal/persona"
)

type fakeClient struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeClient) Complete(ctx context.Context, prompt string) (string, error) {
	return f.CompleteWithSystem(ctx, "", prompt)
}

func (f *fakeClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.lastPrompt = userPrompt
	return f.response, f.err
}

func testSet() persona.PersonaSet {
	return persona.DefaultSet(2)
}

func TestResolve(t *testing.T) {
	client := &fakeClient{response: "  Alice defers to Bob on infrastructure.  "}
	r := NewResolver(client, nil)

	got, err := r.Resolve(context.Background(), "build a service", testSet(), "")
	require.NoError(t, err)
	assert.Equal(t, "Alice defers to Bob on infrastructure.", got)
	assert.Contains(t, client.lastPrompt, "build a service")
	assert.Contains(t, client.lastPrompt, testSet()[0].Name)
}

func TestResolve_FallsBackToManualStrategy(t *testing.T) {
	client := &fakeClient{err: errors.New("down")}
	r := NewResolver(client, nil)

	got, err := r.Resolve(context.Background(), "task", testSet(), "Vote on it")
	assert.Error(t, err)
	assert.Equal(t, "Vote on it", got)
}

func TestResolve_FallsBackToDefaultStrategy(t *testing.T) {
	client := &fakeClient{response: "   "}
	r := NewResolver(client, nil)

	got, err := r.Resolve(context.Background(), "task", testSet(), "")
	assert.Error(t, err)
	assert.Equal(t, DefaultStrategy, got)
}
