package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"personagen/internal/persona"
	"personagen/internal/workflow"
)

var (
	workflowGoals  string
	workflowCount  int
	workflowType   string
	workflowModel  string
	workflowOutput string
)

var workflowCmd = &cobra.Command{
	Use:   "workflow [task]",
	Short: "Generate an AutoGen workflow script from a persona set",
	Long: `Generates personas for the task and emits a Python AutoGen script
wiring them up as agents.

Workflow types:
  autonomous  each persona chats independently with a user proxy
  sequential  personas run in order, each building on the previous output
  groupchat   all personas share one managed group conversation`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWorkflow,
}

func init() {
	workflowCmd.Flags().StringVarP(&workflowGoals, "goals", "g", "", "Task goals")
	workflowCmd.Flags().IntVarP(&workflowCount, "count", "n", 2, "Number of personas (1-10)")
	workflowCmd.Flags().StringVarP(&workflowType, "type", "t", "autonomous", "Workflow type: autonomous, sequential, groupchat")
	workflowCmd.Flags().StringVar(&workflowModel, "agent-model", "", "Model name to embed in the script (default gpt-4o)")
	workflowCmd.Flags().StringVarP(&workflowOutput, "output", "o", "", "Write the script to a file instead of stdout")
}

func runWorkflow(cmd *cobra.Command, args []string) error {
	wfType, err := workflow.ParseType(workflowType)
	if err != nil {
		return err
	}

	client, err := newLLMClient(cmd)
	if err != nil {
		return err
	}

	task := strings.Join(args, " ")
	set, degradation, err := persona.NewGenerator(client, logger).Generate(cmd.Context(), persona.Request{
		Task:  task,
		Goals: splitGoals(workflowGoals),
		Count: workflowCount,
	})
	if err != nil {
		return err
	}
	if degradation != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", degradation)
	}

	script, err := workflow.Emit(workflow.Spec{
		Type:     wfType,
		Task:     task,
		Model:    workflowModel,
		Personas: set,
	})
	if err != nil {
		return err
	}

	if workflowOutput != "" {
		if err := os.WriteFile(workflowOutput, []byte(script), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", workflowOutput, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", workflowOutput)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), script)
	return nil
}
