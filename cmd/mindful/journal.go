package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/mindful/internal/journal"
	"github.com/hyperengineering/mindful/internal/persist"
	"github.com/hyperengineering/mindful/internal/validation"
)

var (
	errInvalidInput = errors.New("invalid input")
	errNothingToSet = errors.New("nothing to set")
)

// dateFlag backs --date on every command that works on one day.
var dateFlag string

func addDateFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&dateFlag, "date", "",
		"Day to work on, YYYY-MM-DD (default: today)")
}

// openJournal loads the configured journal file.
func openJournal() (*persist.FileAdapter, *journal.Store, error) {
	a := persist.NewFileAdapter(cfg.Journal.Path)
	doc, err := a.Load()
	if err != nil {
		return nil, nil, err
	}
	return a, journal.NewStore(doc), nil
}

// resolveDate parses s, or returns today's date when s is empty.
func resolveDate(s string) (time.Time, error) {
	if s == "" {
		return journal.Day(now()), nil
	}
	return journal.ParseDate(s)
}

func validationFailed(errs []validation.ValidationError) error {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Field + " " + e.Message
	}
	return fmt.Errorf("%w: %s", errInvalidInput, strings.Join(parts, "; "))
}

// changedQuantity returns the flag value when the user passed the flag.
func changedQuantity(cmd *cobra.Command, name, value string) *journal.Quantity {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	q := journal.Quantity(strings.TrimSpace(value))
	return &q
}

// printJSON marshals v to JSON and writes to the given writer.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTabWriter returns a configured tabwriter for aligned columns.
func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// entryJSON is the --json form of a dated entry.
type entryJSON struct {
	Date  string           `json:"date"`
	Entry journal.DayEntry `json:"entry"`
}
