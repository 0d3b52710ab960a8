package persona

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnhanceTask(t *testing.T) {
	client := &fakeClient{response: "```json\n{\"enhanced_task\": \"Better task\", \"enhanced_goals\": \"Better goals\"}\n```"}

	got := EnhanceTask(context.Background(), client, nil, "task", "goals")
	assert.True(t, got.Enhanced)
	assert.Equal(t, "Better task", got.Task)
	assert.Equal(t, "Better goals", got.Goals)
}

func TestEnhanceTask_TransportFailureKeepsOriginal(t *testing.T) {
	client := &fakeClient{err: errors.New("down")}

	got := EnhanceTask(context.Background(), client, nil, "task", "goals")
	assert.False(t, got.Enhanced)
	assert.Equal(t, "task", got.Task)
	assert.Equal(t, "goals", got.Goals)
}

func TestEnhanceTask_GarbageKeepsOriginal(t *testing.T) {
	client := &fakeClient{response: "no json here"}

	got := EnhanceTask(context.Background(), client, nil, "task", "goals")
	assert.False(t, got.Enhanced)
	assert.Equal(t, "task", got.Task)
}

func TestEnhanceTask_EmptyFieldsKeepOriginals(t *testing.T) {
	client := &fakeClient{response: `{"enhanced_task": "", "enhanced_goals": ""}`}

	got := EnhanceTask(context.Background(), client, nil, "task", "goals")
	assert.True(t, got.Enhanced)
	assert.Equal(t, "task", got.Task)
	assert.Equal(t, "goals", got.Goals)
}
