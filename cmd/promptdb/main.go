// Command promptdb is a standalone read-only inspector for the prompt memory
// database. It uses the pure-Go sqlite driver so it runs without cgo, handy
// for poking at a memory.db copied off another machine.
package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

func main() {
	dbPath := defaultDBPath()
	limit := 10
	if len(os.Args) > 1 {
		dbPath = os.Args[1]
	}

	if err := inspect(dbPath, limit); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".personagen", "memory.db")
	}
	return filepath.Join(home, ".personagen", "memory.db")
}

func inspect(dbPath string, limit int) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", dbPath, err)
	}
	defer db.Close()

	fmt.Printf("Database: %s\n", dbPath)

	var version int
	if err := db.QueryRow("SELECT version FROM schema_info LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("not a prompt memory database: %w", err)
	}
	fmt.Printf("Schema version: %d\n", version)

	var taskCount, convCount int
	db.QueryRow("SELECT COUNT(*) FROM task_memory").Scan(&taskCount)
	db.QueryRow("SELECT COUNT(*) FROM conversation_history").Scan(&convCount)
	fmt.Printf("Tasks: %d, conversation messages: %d\n\n", taskCount, convCount)

	rows, err := db.Query(`
		SELECT id, task, conflict_resolution, created_at, embedding IS NOT NULL
		FROM task_memory ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return fmt.Errorf("failed to query task_memory: %w", err)
	}
	defer rows.Close()

	fmt.Println("Recent tasks:")
	fmt.Println("─────────────────────────────────────────────────────────────")
	for rows.Next() {
		var id, task, conflict, createdAt string
		var hasEmbedding bool
		if err := rows.Scan(&id, &task, &conflict, &createdAt, &hasEmbedding); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		embedded := " "
		if hasEmbedding {
			embedded = "*"
		}
		fmt.Printf("%s %s  %s  %s\n", embedded, id[:8], createdAt, truncate(task, 70))
		if conflict != "" {
			fmt.Printf("           conflict: %s\n", truncate(conflict, 70))
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	fmt.Println("\n(* = row has an embedding)")
	return nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
