package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/mindful/internal/archive"
)

var archiveOverride string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Archive the journal into SQLite",
	Long: "Copy the whole journal into the local SQLite archive as a new " +
		"snapshot. The journal file itself is not changed.",
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotList,
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show <snapshot-id>",
	Short: "Show the days of one snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotShow,
}

func init() {
	snapshotCmd.PersistentFlags().StringVar(&archiveOverride, "out", "",
		"Archive database (overrides config and MINDFUL_ARCHIVE_PATH)")

	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
}

func openArchive() (*archive.SQLiteArchive, error) {
	path := archiveOverride
	if path == "" {
		path = cfg.Archive.Path
	}
	return archive.NewSQLiteArchive(path)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	adapter, store, err := openJournal()
	if err != nil {
		return err
	}

	a, err := openArchive()
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := a.Export(cmd.Context(), store.Document(), adapter.Path())
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), snap)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created snapshot %s (%d entries)\n", snap.ID, snap.EntryCount)
	return nil
}

func runSnapshotList(cmd *cobra.Command, args []string) error {
	a, err := openArchive()
	if err != nil {
		return err
	}
	defer a.Close()

	snaps, err := a.ListSnapshots(cmd.Context())
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}

	if jsonOutput {
		if snaps == nil {
			snaps = []archive.Snapshot{}
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"snapshots": snaps,
			"total":     len(snaps),
		})
	}

	if len(snaps) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No snapshots found.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "ID\tTAKEN\tENTRIES\tSOURCE")
	for _, s := range snaps {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			s.ID,
			s.TakenAt.Local().Format("2006-01-02 15:04"),
			s.EntryCount,
			orDash(s.Source),
		)
	}
	w.Flush()
	return nil
}

func runSnapshotShow(cmd *cobra.Command, args []string) error {
	a, err := openArchive()
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := a.GetSnapshot(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	entries, err := a.SnapshotEntries(cmd.Context(), snap.ID)
	if err != nil {
		return err
	}

	if jsonOutput {
		if entries == nil {
			entries = []archive.SnapshotEntry{}
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"snapshot": snap,
			"entries":  entries,
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Snapshot %s taken %s\n", snap.ID, snap.TakenAt.Local().Format("2006-01-02 15:04"))
	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "DATE\tEXERCISE\tSLEEP\tWATER\tCALORIES\tMOOD")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Date, num(e.Exercise), num(e.Sleep), num(e.Water), num(e.Calories), orDash(e.Mood))
	}
	w.Flush()
	return nil
}

func num(f *float64) string {
	if f == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *f)
}
