package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"personagen/internal/embedding"
	"personagen/internal/persona"
)

// TaskMemory is one remembered prompt generation: the task, the personas it
// produced, and the supporting context.
type TaskMemory struct {
	ID                 string
	Task               string
	Goals              string
	Personas           persona.PersonaSet
	ReferenceURLs      []string
	ConflictResolution string
	Instructions       string
	CreatedAt          time.Time
}

// SimilarTask pairs a remembered task with its similarity to a query.
type SimilarTask struct {
	TaskMemory
	Similarity float64
}

// SaveTask records a generation in task memory. When an embedding engine is
// configured the task text is embedded for later similarity search; embedding
// failures are logged and the row is saved without a vector.
func (s *Store) SaveTask(ctx context.Context, mem *TaskMemory) error {
	if mem.ID == "" {
		mem.ID = uuid.NewString()
	}
	if mem.CreatedAt.IsZero() {
		mem.CreatedAt = time.Now().UTC()
	}

	personasJSON, err := json.Marshal(mem.Personas)
	if err != nil {
		return fmt.Errorf("failed to marshal personas: %w", err)
	}
	urlsJSON, err := json.Marshal(mem.ReferenceURLs)
	if err != nil {
		return fmt.Errorf("failed to marshal reference urls: %w", err)
	}

	var vec []byte
	if s.engine != nil {
		emb, err := s.engine.Embed(ctx, mem.Task)
		if err != nil {
			s.logger.Warn("failed to embed task, saving without vector",
				zap.String("engine", s.engine.Name()), zap.Error(err))
		} else {
			vec = serializeVector(emb)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO task_memory (id, task, goals, personas, reference_urls, conflict_resolution, instructions, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		mem.ID, mem.Task, mem.Goals, string(personasJSON), string(urlsJSON),
		mem.ConflictResolution, mem.Instructions, vec, mem.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save task memory: %w", err)
	}
	return nil
}

// ListTasks returns the most recent task memories, newest first.
func (s *Store) ListTasks(ctx context.Context, limit int) ([]TaskMemory, error) {
	if limit <= 0 {
		limit = 20
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task, goals, personas, reference_urls, conflict_resolution, instructions, created_at
		FROM task_memory ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list task memory: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// GetTask returns one task memory by ID.
func (s *Store) GetTask(ctx context.Context, id string) (*TaskMemory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task, goals, personas, reference_urls, conflict_resolution, instructions, created_at
		FROM task_memory WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get task memory: %w", err)
	}
	defer rows.Close()

	mems, err := scanTasks(rows)
	if err != nil {
		return nil, err
	}
	if len(mems) == 0 {
		return nil, fmt.Errorf("task %s not found", id)
	}
	return &mems[0], nil
}

// SimilarTasks finds the k remembered tasks most similar to the query.
// Requires an embedding engine. Rows without embeddings are skipped.
func (s *Store) SimilarTasks(ctx context.Context, query string, k int) ([]SimilarTask, error) {
	if s.engine == nil {
		return nil, fmt.Errorf("similarity search requires an embedding engine")
	}
	queryVec, err := s.engine.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.vectorExt {
		return s.similarTasksVec(ctx, queryVec, k)
	}
	return s.similarTasksCosine(ctx, queryVec, k)
}

// similarTasksVec ranks rows with the sqlite-vec distance function.
func (s *Store) similarTasksVec(ctx context.Context, queryVec []float32, k int) ([]SimilarTask, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task, goals, personas, reference_urls, conflict_resolution, instructions, created_at,
		       vec_distance_cosine(embedding, ?) AS dist
		FROM task_memory WHERE embedding IS NOT NULL
		ORDER BY dist ASC LIMIT ?`, serializeVector(queryVec), k)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	defer rows.Close()

	var out []SimilarTask
	for rows.Next() {
		var mem TaskMemory
		var personasJSON, urlsJSON string
		var dist float64
		if err := rows.Scan(&mem.ID, &mem.Task, &mem.Goals, &personasJSON, &urlsJSON,
			&mem.ConflictResolution, &mem.Instructions, &mem.CreatedAt, &dist); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if err := decodeTaskJSON(&mem, personasJSON, urlsJSON); err != nil {
			return nil, err
		}
		out = append(out, SimilarTask{TaskMemory: mem, Similarity: 1 - dist})
	}
	return out, rows.Err()
}

// similarTasksCosine loads all embedded rows and scores them in process.
// Fine at this scale; the vec path takes over for large stores.
func (s *Store) similarTasksCosine(ctx context.Context, queryVec []float32, k int) ([]SimilarTask, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task, goals, personas, reference_urls, conflict_resolution, instructions, created_at, embedding
		FROM task_memory WHERE embedding IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to load task memory: %w", err)
	}
	defer rows.Close()

	var mems []TaskMemory
	var vecs [][]float32
	for rows.Next() {
		var mem TaskMemory
		var personasJSON, urlsJSON string
		var blob []byte
		if err := rows.Scan(&mem.ID, &mem.Task, &mem.Goals, &personasJSON, &urlsJSON,
			&mem.ConflictResolution, &mem.Instructions, &mem.CreatedAt, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if err := decodeTaskJSON(&mem, personasJSON, urlsJSON); err != nil {
			return nil, err
		}
		mems = append(mems, mem)
		vecs = append(vecs, deserializeVector(blob))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ranked := embedding.FindTopK(queryVec, vecs, k)
	out := make([]SimilarTask, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, SimilarTask{TaskMemory: mems[r.Index], Similarity: r.Similarity})
	}
	return out, nil
}

// DeleteTask removes one task memory and its conversation history.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, "DELETE FROM conversation_history WHERE task_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete conversation history: %w", err)
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM task_memory WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete task memory: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("task %s not found", id)
	}
	return nil
}

// Clear removes all task memory and conversation history.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, "DELETE FROM conversation_history"); err != nil {
		return fmt.Errorf("failed to clear conversation history: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM task_memory"); err != nil {
		return fmt.Errorf("failed to clear task memory: %w", err)
	}
	return nil
}

// ConversationMessage is one persona utterance recorded against a task.
type ConversationMessage struct {
	PersonaName string
	Message     string
	CreatedAt   time.Time
}

// AppendConversation records persona messages for a task.
func (s *Store) AppendConversation(ctx context.Context, taskID string, messages []ConversationMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range messages {
		at := m.CreatedAt
		if at.IsZero() {
			at = time.Now().UTC()
		}
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO conversation_history (task_id, persona_name, message, created_at)
			VALUES (?, ?, ?, ?)`, taskID, m.PersonaName, m.Message, at)
		if err != nil {
			return fmt.Errorf("failed to append conversation: %w", err)
		}
	}
	return nil
}

// Conversation returns the recorded messages for a task, oldest first.
func (s *Store) Conversation(ctx context.Context, taskID string) ([]ConversationMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, `
		SELECT persona_name, message, created_at
		FROM conversation_history WHERE task_id = ? ORDER BY id ASC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	defer rows.Close()

	var out []ConversationMessage
	for rows.Next() {
		var m ConversationMessage
		if err := rows.Scan(&m.PersonaName, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanTasks(rows *sql.Rows) ([]TaskMemory, error) {
	var out []TaskMemory
	for rows.Next() {
		var mem TaskMemory
		var personasJSON, urlsJSON string
		if err := rows.Scan(&mem.ID, &mem.Task, &mem.Goals, &personasJSON, &urlsJSON,
			&mem.ConflictResolution, &mem.Instructions, &mem.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if err := decodeTaskJSON(&mem, personasJSON, urlsJSON); err != nil {
			return nil, err
		}
		out = append(out, mem)
	}
	return out, rows.Err()
}

func decodeTaskJSON(mem *TaskMemory, personasJSON, urlsJSON string) error {
	if err := json.Unmarshal([]byte(personasJSON), &mem.Personas); err != nil {
		return fmt.Errorf("failed to decode personas for task %s: %w", mem.ID, err)
	}
	if urlsJSON != "" && urlsJSON != "null" {
		if err := json.Unmarshal([]byte(urlsJSON), &mem.ReferenceURLs); err != nil {
			return fmt.Errorf("failed to decode reference urls for task %s: %w", mem.ID, err)
		}
	}
	return nil
}

// serializeVector encodes a vector as little-endian float32 bytes, the
// layout sqlite-vec expects for embedding blobs.
func serializeVector(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func deserializeVector(buf []byte) []float32 {
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec
}
