package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"personagen/internal/conflict"
	"personagen/internal/knowledge"
	"personagen/internal/persona"
	"personagen/internal/promptgen"
	"personagen/internal/store"
)

var (
	genGoals            string
	genCount            int
	genEnhance          bool
	genRefs             []string
	genConflictStrategy string
	genFormat           string
	genOutput           string
	genSave             bool
	genNoSearch         bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [task]",
	Short: "Generate a persona-driven prompt for a task",
	Long: `Runs the full pipeline: optionally enhances the task description,
generates a persona set, gathers knowledge sources, resolves persona
conflicts, and assembles the final prompt document.

Examples:
  personagen generate "Design a REST API for a bookstore"
  personagen generate "Plan a launch" --goals "Ship in Q3" --count 4 --format json
  personagen generate "Review this spec" --ref https://example.com/spec --save`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genGoals, "goals", "g", "", "Task goals")
	generateCmd.Flags().IntVarP(&genCount, "count", "n", 2, "Number of personas (1-10)")
	generateCmd.Flags().BoolVar(&genEnhance, "enhance", false, "Enhance the task description before generation")
	generateCmd.Flags().StringArrayVar(&genRefs, "ref", nil, "Reference URL to scrape for context (repeatable)")
	generateCmd.Flags().StringVar(&genConflictStrategy, "conflict-strategy", "", "Manual conflict resolution strategy")
	generateCmd.Flags().StringVarP(&genFormat, "format", "f", "text", "Output format: text, markdown, json, yaml")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "Write output to file instead of stdout")
	generateCmd.Flags().BoolVar(&genSave, "save", false, "Save the result to prompt memory")
	generateCmd.Flags().BoolVar(&genNoSearch, "no-search", false, "Skip knowledge source gathering")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	task := strings.Join(args, " ")

	client, err := newLLMClient(cmd)
	if err != nil {
		return err
	}

	goals := genGoals
	originalTask, originalGoals := "", ""
	if genEnhance {
		enh := persona.EnhanceTask(ctx, client, logger, task, goals)
		if enh.Enhanced {
			originalTask, originalGoals = task, goals
			task, goals = enh.Task, enh.Goals
			logger.Info("task enhanced")
		}
	}

	// Knowledge gathering and reference scraping run concurrently; neither
	// blocks the pipeline on failure. Generation waits for the scraped pages
	// because their excerpts feed the generation prompt.
	var (
		sources []knowledge.Source
		pages   []knowledge.PageSummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if genNoSearch {
			return nil
		}
		found, err := knowledge.FetchSources(gctx, client, logger, task)
		if err != nil || len(found) == 0 {
			if err != nil {
				logger.Warn("knowledge source gathering failed, trying web search", zap.Error(err))
			}
			found, err = knowledge.NewSearchClient().Search(gctx, task)
			if err != nil {
				logger.Warn("web search failed", zap.Error(err))
				return nil
			}
		}
		sources = found
		return nil
	})
	g.Go(func() error {
		if len(genRefs) == 0 {
			return nil
		}
		var failures map[string]error
		pages, failures = knowledge.NewScraper().FetchAll(gctx, genRefs)
		for url, err := range failures {
			logger.Warn("reference fetch failed", zap.String("url", url), zap.Error(err))
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	set, degradation, err := persona.NewGenerator(client, logger).Generate(ctx, persona.Request{
		Task:       task,
		Goals:      splitGoals(goals),
		References: referenceLines(pages),
		Count:      genCount,
	})
	if err != nil {
		return err
	}
	if degradation != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", degradation)
	}
	for _, page := range pages {
		sources = append(sources, knowledge.Source{
			Title:       page.Title,
			Description: page.Excerpt,
			URL:         page.URL,
		})
	}

	strategy, resolveErr := conflict.NewResolver(client, logger).Resolve(ctx, task, set, genConflictStrategy)
	if resolveErr != nil {
		logger.Warn("conflict resolution degraded", zap.Error(resolveErr))
	}

	doc := promptgen.Assemble(promptgen.Input{
		Task:               task,
		Goals:              goals,
		OriginalTask:       originalTask,
		OriginalGoals:      originalGoals,
		Personas:           set,
		KnowledgeSources:   sources,
		ConflictResolution: strategy,
	})

	if genSave {
		if err := saveToMemory(ctx, doc, genRefs); err != nil {
			logger.Warn("failed to save to prompt memory", zap.Error(err))
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "Saved to prompt memory as %s\n", doc.ID)
		}
	}

	return writeDocument(cmd, doc)
}

func saveToMemory(ctx context.Context, doc *promptgen.Document, refs []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	mem := &store.TaskMemory{
		ID:                 doc.ID,
		Task:               doc.Task,
		Goals:              doc.Goals,
		Personas:           doc.Personas,
		ReferenceURLs:      refs,
		ConflictResolution: doc.ConflictResolution,
		Instructions:       doc.Instructions,
		CreatedAt:          doc.CreatedAt,
	}
	if err := s.SaveTask(ctx, mem); err != nil {
		return err
	}

	var messages []store.ConversationMessage
	for _, p := range doc.Personas {
		messages = append(messages, store.ConversationMessage{
			PersonaName: p.Name,
			Message:     fmt.Sprintf("Hello, I am %s. My background is %s. I aim to achieve %s.", p.Name, p.Background, p.Goals),
		})
	}
	return s.AppendConversation(ctx, doc.ID, messages)
}

// writeDocument renders the document in the requested format.
func writeDocument(cmd *cobra.Command, doc *promptgen.Document) error {
	var out []byte
	switch genFormat {
	case "json":
		data, err := doc.JSON()
		if err != nil {
			return err
		}
		out = data
	case "yaml":
		data, err := doc.YAML()
		if err != nil {
			return err
		}
		out = data
	case "markdown", "md":
		out = []byte(doc.Markdown())
	case "text", "":
		if genOutput == "" {
			rendered, err := doc.RenderTerminal()
			if err != nil {
				// Fall back to raw markdown when the terminal renderer fails.
				rendered = doc.Markdown()
			}
			fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return nil
		}
		out = []byte(doc.Markdown())
	default:
		return fmt.Errorf("unknown format %q (want text, markdown, json, or yaml)", genFormat)
	}

	if genOutput != "" {
		if err := os.WriteFile(genOutput, out, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", genOutput, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", genOutput)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// referenceLines turns scraped pages into one-line excerpts for the
// generation prompt.
func referenceLines(pages []knowledge.PageSummary) []string {
	refs := make([]string, 0, len(pages))
	for _, page := range pages {
		line := page.URL
		if page.Title != "" {
			line = fmt.Sprintf("%s (%s)", page.Title, page.URL)
		}
		if page.Excerpt != "" {
			line += ": " + page.Excerpt
		}
		refs = append(refs, line)
	}
	return refs
}

// splitGoals breaks a free-form goals string into individual goals.
func splitGoals(goals string) []string {
	if strings.TrimSpace(goals) == "" {
		return nil
	}
	parts := strings.FieldsFunc(goals, func(r rune) bool {
		return r == ';' || r == '\n'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
