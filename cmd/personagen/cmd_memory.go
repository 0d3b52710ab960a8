package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"personagen/internal/store"
)

var (
	memoryLimit int
	memoryTopK  int
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect and manage prompt memory",
}

var memoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List remembered prompt generations, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		tasks, err := s.ListTasks(cmd.Context(), memoryLimit)
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Prompt memory is empty.")
			return nil
		}
		for _, t := range tasks {
			printTaskLine(cmd, t)
		}
		return nil
	},
}

var memoryShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one remembered generation in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		mem, err := s.GetTask(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:       %s\n", mem.ID)
		fmt.Fprintf(out, "Created:  %s\n", mem.CreatedAt.Format("2006-01-02 15:04"))
		fmt.Fprintf(out, "Task:     %s\n", mem.Task)
		fmt.Fprintf(out, "Goals:    %s\n", mem.Goals)
		fmt.Fprintf(out, "Personas: %s\n", strings.Join(mem.Personas.Names(), ", "))
		if len(mem.ReferenceURLs) > 0 {
			fmt.Fprintf(out, "Refs:     %s\n", strings.Join(mem.ReferenceURLs, ", "))
		}
		fmt.Fprintf(out, "Conflict: %s\n", mem.ConflictResolution)
		fmt.Fprintf(out, "\n%s\n", mem.Instructions)

		conv, err := s.Conversation(cmd.Context(), mem.ID)
		if err == nil && len(conv) > 0 {
			fmt.Fprintln(out, "\nConversation:")
			for _, m := range conv {
				fmt.Fprintf(out, "  %s: %s\n", m.PersonaName, m.Message)
			}
		}
		return nil
	},
}

var memorySimilarCmd = &cobra.Command{
	Use:   "similar [task]",
	Short: "Find remembered tasks similar to a query",
	Long: `Embeds the query and ranks remembered tasks by cosine similarity.
Requires an embedding engine in the config file (embedding.provider).`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		similar, err := s.SimilarTasks(cmd.Context(), strings.Join(args, " "), memoryTopK)
		if err != nil {
			return err
		}
		if len(similar) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No similar tasks found.")
			return nil
		}
		for _, t := range similar {
			fmt.Fprintf(cmd.OutOrStdout(), "%.3f  ", t.Similarity)
			printTaskLine(cmd, t.TaskMemory)
		}
		return nil
	},
}

var memoryDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete one remembered generation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		return s.DeleteTask(cmd.Context(), args[0])
	},
}

var memoryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all prompt memory",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Prompt memory cleared.")
		return nil
	},
}

func init() {
	memoryListCmd.Flags().IntVar(&memoryLimit, "limit", 20, "Maximum entries to list")
	memorySimilarCmd.Flags().IntVarP(&memoryTopK, "top", "k", 5, "Number of results")

	memoryCmd.AddCommand(memoryListCmd)
	memoryCmd.AddCommand(memoryShowCmd)
	memoryCmd.AddCommand(memorySimilarCmd)
	memoryCmd.AddCommand(memoryDeleteCmd)
	memoryCmd.AddCommand(memoryClearCmd)
}

func printTaskLine(cmd *cobra.Command, t store.TaskMemory) {
	task := t.Task
	if runes := []rune(task); len(runes) > 60 {
		task = string(runes[:60]) + "..."
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s  [%s]\n",
		t.ID[:8], t.CreatedAt.Format("2006-01-02"), task, strings.Join(t.Personas.Names(), ", "))
}
