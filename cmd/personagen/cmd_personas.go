package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"personagen/internal/persona"
)

var (
	personasGoals  string
	personasCount  int
	personasTones  []string
	personasChat   bool
	personasJSON   bool
	personasAssess bool
)

var personasCmd = &cobra.Command{
	Use:   "personas [task]",
	Short: "Generate just the persona set for a task",
	Long: `Generates the persona set without the full prompt pipeline.

Tone overrides adjust a persona's communication style after generation:
  personagen personas "Plan a migration" --tone "John Smith=blunt and brief"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPersonas,
}

func init() {
	personasCmd.Flags().StringVarP(&personasGoals, "goals", "g", "", "Task goals")
	personasCmd.Flags().IntVarP(&personasCount, "count", "n", 2, "Number of personas (1-10)")
	personasCmd.Flags().StringArrayVar(&personasTones, "tone", nil, "Override a persona's tone as name=style (repeatable)")
	personasCmd.Flags().BoolVar(&personasChat, "chat", false, "Print the initial conversation seed instead of the persona list")
	personasCmd.Flags().BoolVar(&personasJSON, "json", false, "Output as JSON")
	personasCmd.Flags().BoolVar(&personasAssess, "assess", false, "Assess the set's emotional tones and predicted success")
}

func runPersonas(cmd *cobra.Command, args []string) error {
	client, err := newLLMClient(cmd)
	if err != nil {
		return err
	}

	set, degradation, err := persona.NewGenerator(client, logger).Generate(cmd.Context(), persona.Request{
		Task:  strings.Join(args, " "),
		Goals: splitGoals(personasGoals),
		Count: personasCount,
	})
	if err != nil {
		return err
	}
	if degradation != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", degradation)
	}

	if tones, err := parseTones(personasTones); err != nil {
		return err
	} else if len(tones) > 0 {
		set = persona.ApplyToneEdits(set, tones)
	}

	out := cmd.OutOrStdout()
	switch {
	case personasChat:
		fmt.Fprintln(out, persona.InitialConversation(set))
	case personasJSON:
		data, err := json.MarshalIndent(set, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal personas: %w", err)
		}
		fmt.Fprintln(out, string(data))
	default:
		for _, p := range set {
			fmt.Fprintf(out, "%s\n", p.Name)
			fmt.Fprintf(out, "  Background:          %s\n", p.Background)
			fmt.Fprintf(out, "  Goals:               %s\n", p.Goals)
			fmt.Fprintf(out, "  Beliefs:             %s\n", p.Beliefs)
			fmt.Fprintf(out, "  Knowledge:           %s\n", p.Knowledge)
			fmt.Fprintf(out, "  Communication style: %s\n\n", p.CommunicationStyle)
		}
	}

	if personasAssess {
		printAssessment(cmd, set)
	}
	return nil
}

// printAssessment reports each persona's emotional tone, the set's score,
// and the success prediction, with suggested tone overrides when the
// outlook is weak.
func printAssessment(cmd *cobra.Command, set persona.PersonaSet) {
	out := cmd.OutOrStdout()
	a := persona.AssessTones(set)

	fmt.Fprintln(out, "Emotional tone assessment:")
	for _, p := range set {
		fmt.Fprintf(out, "  %s: %s\n", p.Name, a.Tones[p.Name])
	}
	fmt.Fprintf(out, "Score: %d (%s)\n", a.Score, a.Prediction)

	if edits := a.Improvements(); len(edits) > 0 {
		fmt.Fprintln(out, "Suggested tone overrides:")
		for _, p := range set {
			if tone, ok := edits[p.Name]; ok {
				fmt.Fprintf(out, "  --tone %q\n", p.Name+"="+tone)
			}
		}
	}
}

// parseTones converts repeated name=style flags into a map.
func parseTones(flags []string) (map[string]string, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	tones := make(map[string]string, len(flags))
	for _, f := range flags {
		name, style, ok := strings.Cut(f, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid tone %q (want name=style)", f)
		}
		tones[strings.TrimSpace(name)] = strings.TrimSpace(style)
	}
	return tones, nil
}
