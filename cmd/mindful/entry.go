package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/mindful/internal/journal"
	"github.com/hyperengineering/mindful/internal/validation"
)

var (
	entryExercise string
	entrySleep    string
	entryWater    string
	entryCalories string
	entryMood     string

	listFrom string
	listTo   string
	listDesc bool
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Record and inspect day entries",
}

var entrySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set fields of a day entry",
	Long: "Set top-level fields of a day entry. Only the flags given change; " +
		"other fields and the nutrition and sleep sections are kept.",
	Args: cobra.NoArgs,
	RunE: runEntrySet,
}

var entryShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show one day entry",
	Args:  cobra.NoArgs,
	RunE:  runEntryShow,
}

var entryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List day entries",
	Args:  cobra.NoArgs,
	RunE:  runEntryList,
}

func init() {
	addDateFlag(entrySetCmd)
	entrySetCmd.Flags().StringVar(&entryExercise, "exercise", "", "Exercise in minutes")
	entrySetCmd.Flags().StringVar(&entrySleep, "sleep", "", "Sleep in hours")
	entrySetCmd.Flags().StringVar(&entryWater, "water", "", "Water in glasses")
	entrySetCmd.Flags().StringVar(&entryCalories, "calories", "", "Calories eaten")
	entrySetCmd.Flags().StringVar(&entryMood, "mood", "",
		"Mood: happy, okay, sad, angry, tired (empty clears it)")

	addDateFlag(entryShowCmd)

	entryListCmd.Flags().StringVar(&listFrom, "from", "", "First day, YYYY-MM-DD")
	entryListCmd.Flags().StringVar(&listTo, "to", "", "Last day, YYYY-MM-DD")
	entryListCmd.Flags().BoolVar(&listDesc, "desc", false, "Newest first")

	entryCmd.AddCommand(entrySetCmd)
	entryCmd.AddCommand(entryShowCmd)
	entryCmd.AddCommand(entryListCmd)
}

func runEntrySet(cmd *cobra.Command, args []string) error {
	date, err := resolveDate(dateFlag)
	if err != nil {
		return err
	}

	u := journal.EntryUpdate{
		Exercise: changedQuantity(cmd, "exercise", entryExercise),
		Sleep:    changedQuantity(cmd, "sleep", entrySleep),
		Water:    changedQuantity(cmd, "water", entryWater),
		Calories: changedQuantity(cmd, "calories", entryCalories),
	}
	if cmd.Flags().Changed("mood") {
		m := journal.Mood(strings.TrimSpace(entryMood))
		if parsed, ok := journal.ParseMood(entryMood); ok {
			m = parsed
		}
		u.Mood = &m
	}
	if u.IsEmpty() {
		return fmt.Errorf("%w: pass at least one of --exercise, --sleep, --water, --calories, --mood", errNothingToSet)
	}
	if errs := validation.ValidateEntryUpdate(u); len(errs) > 0 {
		return validationFailed(errs)
	}

	adapter, store, err := openJournal()
	if err != nil {
		return err
	}
	e := store.UpsertEntry(date, u)
	if err := adapter.Save(store.Document()); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), entryJSON{Date: journal.Key(date), Entry: e})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved entry for %s\n", journal.Key(date))
	return nil
}

func runEntryShow(cmd *cobra.Command, args []string) error {
	date, err := resolveDate(dateFlag)
	if err != nil {
		return err
	}
	_, store, err := openJournal()
	if err != nil {
		return err
	}

	e, ok := store.GetEntry(date)
	if !ok {
		return fmt.Errorf("no entry for %s", journal.Key(date))
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), entryJSON{Date: journal.Key(date), Entry: e})
	}
	writeEntry(cmd.OutOrStdout(), journal.Key(date), e)
	return nil
}

func writeEntry(out io.Writer, date string, e journal.DayEntry) {
	w := newTabWriter(out)
	fmt.Fprintf(w, "Date:\t%s\n", date)
	fmt.Fprintf(w, "Exercise:\t%s\n", orDash(string(e.Exercise)))
	fmt.Fprintf(w, "Sleep:\t%s\n", orDash(string(e.Sleep)))
	fmt.Fprintf(w, "Water:\t%s\n", orDash(string(e.Water)))
	fmt.Fprintf(w, "Calories:\t%s\n", orDash(string(e.Calories)))
	mood := "-"
	if e.Mood != "" {
		mood = e.Mood.Label()
	}
	fmt.Fprintf(w, "Mood:\t%s\n", mood)
	if n := e.Nutrition; n != nil {
		fmt.Fprintf(w, "Nutrition:\tbreakfast %s, lunch %s, dinner %s, snacks %s\n",
			orDash(string(n.Breakfast)), orDash(string(n.Lunch)),
			orDash(string(n.Dinner)), orDash(string(n.Snacks)))
	}
	if sd := e.SleepDetail; sd != nil {
		fmt.Fprintf(w, "Sleep detail:\thours %s, quality %s, bedtime %s\n",
			orDash(string(sd.Hours)), orDash(string(sd.Quality)), orDash(sd.Bedtime))
	}
	w.Flush()
}

func runEntryList(cmd *cobra.Command, args []string) error {
	_, store, err := openJournal()
	if err != nil {
		return err
	}

	order := journal.Ascending
	if listDesc {
		order = journal.Descending
	}

	var dated []journal.DatedEntry
	if listFrom == "" && listTo == "" {
		dated = store.Entries(order)
	} else {
		from, err := resolveDate(listFrom)
		if err != nil {
			return err
		}
		to, err := resolveDate(listTo)
		if err != nil {
			return err
		}
		dated = store.EntriesInRange(from, to, order)
	}

	if jsonOutput {
		items := make([]entryJSON, len(dated))
		for i, de := range dated {
			items[i] = entryJSON{Date: journal.Key(de.Date), Entry: de.Entry}
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"entries": items,
			"total":   len(items),
		})
	}

	if len(dated) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No entries found.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "DATE\tEXERCISE\tSLEEP\tWATER\tCALORIES\tMOOD")
	for _, de := range dated {
		e := de.Entry
		mood := "-"
		if e.Mood != "" {
			mood = e.Mood.Label()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			journal.Key(de.Date),
			orDash(string(e.Exercise)),
			orDash(string(e.Sleep)),
			orDash(string(e.Water)),
			orDash(string(e.Calories)),
			mood,
		)
	}
	w.Flush()

	return nil
}
