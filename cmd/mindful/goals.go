package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/mindful/internal/journal"
	"github.com/hyperengineering/mindful/internal/validation"
)

var (
	goalExercise string
	goalSleep    string
	goalWater    string
	goalCalories string
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Manage daily goals",
}

var goalsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Replace the goal set",
	Long: "Replace the goal set. Goals not given are cleared. Every goal is a " +
		"minimum: a day meets it when its value is at least the goal.",
	Args: cobra.NoArgs,
	RunE: runGoalsSet,
}

var goalsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the goal set",
	Args:  cobra.NoArgs,
	RunE:  runGoalsShow,
}

func init() {
	goalsSetCmd.Flags().StringVar(&goalExercise, "exercise", "", "Exercise goal in minutes")
	goalsSetCmd.Flags().StringVar(&goalSleep, "sleep", "", "Sleep goal in hours")
	goalsSetCmd.Flags().StringVar(&goalWater, "water", "", "Water goal in glasses")
	goalsSetCmd.Flags().StringVar(&goalCalories, "calories", "", "Calories goal")

	goalsCmd.AddCommand(goalsSetCmd)
	goalsCmd.AddCommand(goalsShowCmd)
}

func runGoalsSet(cmd *cobra.Command, args []string) error {
	g := journal.GoalSet{
		Exercise: journal.Quantity(strings.TrimSpace(goalExercise)),
		Sleep:    journal.Quantity(strings.TrimSpace(goalSleep)),
		Water:    journal.Quantity(strings.TrimSpace(goalWater)),
		Calories: journal.Quantity(strings.TrimSpace(goalCalories)),
	}
	if errs := validation.ValidateGoalSet(g); len(errs) > 0 {
		return validationFailed(errs)
	}

	adapter, store, err := openJournal()
	if err != nil {
		return err
	}
	store.SetGoals(g)
	if err := adapter.Save(store.Document()); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{"goals": g})
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Goals saved")
	return nil
}

func runGoalsShow(cmd *cobra.Command, args []string) error {
	_, store, err := openJournal()
	if err != nil {
		return err
	}
	g, ok := store.Goals()

	if jsonOutput {
		var goals *journal.GoalSet
		if ok {
			goals = &g
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{"goals": goals})
	}

	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "No goals set.")
		return nil
	}
	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "METRIC\tGOAL\tUNIT")
	for _, m := range journal.Metrics {
		fmt.Fprintf(w, "%s\t%s\t%s\n", m, orDash(string(g.Goal(m))), orDash(m.Unit()))
	}
	w.Flush()
	return nil
}
