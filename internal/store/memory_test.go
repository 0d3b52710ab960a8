package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personagen/internal/persona"
)

// fakeEngine returns a fixed-direction vector per registered text so
// similarity ordering is predictable.
type fakeEngine struct {
	vectors map[string][]float32
}

func (f *fakeEngine) Embed(_ context.Context, text string) ([]float32, error) {
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func (f *fakeEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEngine) Dimensions() int { return 3 }
func (f *fakeEngine) Name() string    { return "fake" }

func openTestStore(t *testing.T, engine *fakeEngine) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memory.db")
	var s *Store
	var err error
	if engine != nil {
		s, err = Open(path, engine, nil)
	} else {
		s, err = Open(path, nil, nil)
	}
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleMemory(task string) *TaskMemory {
	return &TaskMemory{
		Task:               task,
		Goals:              "some goals",
		Personas:           persona.DefaultSet(2),
		ReferenceURLs:      []string{"https://example.com/doc"},
		ConflictResolution: "defer to expertise",
		Instructions:       "### Task ###\n" + task,
	}
}

func TestSaveAndListTasks(t *testing.T) {
	s := openTestStore(t, nil)
	ctx := context.Background()

	mem := sampleMemory("design a queue")
	require.NoError(t, s.SaveTask(ctx, mem))
	require.NotEmpty(t, mem.ID)

	require.NoError(t, s.SaveTask(ctx, sampleMemory("write docs")))

	tasks, err := s.ListTasks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	got, err := s.GetTask(ctx, mem.ID)
	require.NoError(t, err)
	assert.Equal(t, "design a queue", got.Task)
	assert.Equal(t, mem.Personas.Names(), got.Personas.Names())
	assert.Equal(t, []string{"https://example.com/doc"}, got.ReferenceURLs)

	_, err = s.GetTask(ctx, "nope")
	assert.Error(t, err)
}

func TestSimilarTasks(t *testing.T) {
	engine := &fakeEngine{vectors: map[string][]float32{
		"design a cache":   {1, 0, 0},
		"design a queue":   {0.9, 0.1, 0},
		"plan a party":     {0, 0, 1},
		"caching strategy": {1, 0.05, 0},
	}}
	s := openTestStore(t, engine)
	ctx := context.Background()

	for _, task := range []string{"design a cache", "design a queue", "plan a party"} {
		require.NoError(t, s.SaveTask(ctx, sampleMemory(task)))
	}

	similar, err := s.SimilarTasks(ctx, "caching strategy", 2)
	require.NoError(t, err)
	require.Len(t, similar, 2)
	assert.Equal(t, "design a cache", similar[0].Task)
	assert.Equal(t, "design a queue", similar[1].Task)
	assert.Greater(t, similar[0].Similarity, similar[1].Similarity)
}

func TestSimilarTasks_NoEngine(t *testing.T) {
	s := openTestStore(t, nil)
	_, err := s.SimilarTasks(context.Background(), "anything", 3)
	assert.Error(t, err)
}

func TestDeleteAndClear(t *testing.T) {
	s := openTestStore(t, nil)
	ctx := context.Background()

	mem := sampleMemory("first")
	require.NoError(t, s.SaveTask(ctx, mem))
	require.NoError(t, s.SaveTask(ctx, sampleMemory("second")))

	require.NoError(t, s.DeleteTask(ctx, mem.ID))
	assert.Error(t, s.DeleteTask(ctx, mem.ID))

	tasks, err := s.ListTasks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	require.NoError(t, s.Clear(ctx))
	tasks, err = s.ListTasks(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestConversationHistory(t *testing.T) {
	s := openTestStore(t, nil)
	ctx := context.Background()

	mem := sampleMemory("task with chat")
	require.NoError(t, s.SaveTask(ctx, mem))

	msgs := []ConversationMessage{
		{PersonaName: "John Smith", Message: "Hello, I am John Smith."},
		{PersonaName: "Sarah Johnson", Message: "Hello, I am Sarah Johnson."},
	}
	require.NoError(t, s.AppendConversation(ctx, mem.ID, msgs))

	got, err := s.Conversation(ctx, mem.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "John Smith", got[0].PersonaName)
	assert.Equal(t, "Sarah Johnson", got[1].PersonaName)
	assert.False(t, got[0].CreatedAt.IsZero())
}

func TestSerializeVectorRoundTrip(t *testing.T) {
	in := []float32{0.5, -1.25, 3}
	out := deserializeVector(serializeVector(in))
	assert.Equal(t, in, out)
}
