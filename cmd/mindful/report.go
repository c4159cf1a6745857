package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/mindful/internal/journal"
	"github.com/hyperengineering/mindful/internal/report"
	"github.com/hyperengineering/mindful/internal/rollup"
	"github.com/hyperengineering/mindful/internal/validation"
)

var (
	rangeFrom string
	rangeTo   string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize the journal against your goals",
}

var reportDayCmd = &cobra.Command{
	Use:   "day",
	Short: "Report one day with goal checks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, rollup.Day)
	},
}

var reportWeekCmd = &cobra.Command{
	Use:   "week",
	Short: "Summarize the trailing week (today and the 7 days before)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, rollup.Week)
	},
}

var reportMonthCmd = &cobra.Command{
	Use:   "month",
	Short: "Summarize the month to date",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, rollup.Month)
	},
}

var reportRangeCmd = &cobra.Command{
	Use:   "range",
	Short: "Summarize an inclusive date range",
	Args:  cobra.NoArgs,
	RunE:  runReportRange,
}

func init() {
	addDateFlag(reportDayCmd)
	addDateFlag(reportWeekCmd)
	addDateFlag(reportMonthCmd)

	reportRangeCmd.Flags().StringVar(&rangeFrom, "from", "", "First day, YYYY-MM-DD")
	reportRangeCmd.Flags().StringVar(&rangeTo, "to", "", "Last day, YYYY-MM-DD")

	reportCmd.AddCommand(reportDayCmd)
	reportCmd.AddCommand(reportWeekCmd)
	reportCmd.AddCommand(reportMonthCmd)
	reportCmd.AddCommand(reportRangeCmd)
}

func runReport(cmd *cobra.Command, window func(rollup.EntryReader, time.Time) rollup.Window) error {
	date, err := resolveDate(dateFlag)
	if err != nil {
		return err
	}
	_, store, err := openJournal()
	if err != nil {
		return err
	}
	return writeReport(cmd, store, window(store, date))
}

func runReportRange(cmd *cobra.Command, args []string) error {
	if errs := validation.ValidateDateRange(rangeFrom, rangeTo); len(errs) > 0 {
		return validationFailed(errs)
	}
	from, _ := journal.ParseDate(rangeFrom)
	to, _ := journal.ParseDate(rangeTo)
	_, store, err := openJournal()
	if err != nil {
		return err
	}
	return writeReport(cmd, store, rollup.Range(store, from, to))
}

func writeReport(cmd *cobra.Command, store *journal.Store, w rollup.Window) error {
	var goals *journal.GoalSet
	if g, ok := store.Goals(); ok {
		goals = &g
	}
	r := report.Build(w, goals)

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), r)
	}
	return report.WriteText(cmd.OutOrStdout(), r)
}
