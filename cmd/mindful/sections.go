package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/mindful/internal/journal"
	"github.com/hyperengineering/mindful/internal/validation"
)

var (
	nutritionBreakfast string
	nutritionLunch     string
	nutritionDinner    string
	nutritionSnacks    string

	sleepHours   string
	sleepQuality string
	sleepBedtime string
)

var nutritionCmd = &cobra.Command{
	Use:   "nutrition",
	Short: "Record meal calories",
}

var nutritionSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Replace the nutrition section of a day",
	Long:  "Replace the nutrition section of a day. Meals not given are cleared.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setSection(cmd, journal.Nutrition{
			Breakfast: journal.Quantity(strings.TrimSpace(nutritionBreakfast)),
			Lunch:     journal.Quantity(strings.TrimSpace(nutritionLunch)),
			Dinner:    journal.Quantity(strings.TrimSpace(nutritionDinner)),
			Snacks:    journal.Quantity(strings.TrimSpace(nutritionSnacks)),
		})
	},
}

var sleepCmd = &cobra.Command{
	Use:   "sleep",
	Short: "Record sleep details",
}

var sleepSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Replace the sleep section of a day",
	Long:  "Replace the sleep section of a day. Fields not given are cleared.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setSection(cmd, journal.SleepDetail{
			Hours:   journal.Quantity(strings.TrimSpace(sleepHours)),
			Quality: journal.Quantity(strings.TrimSpace(sleepQuality)),
			Bedtime: strings.TrimSpace(sleepBedtime),
		})
	},
}

func init() {
	addDateFlag(nutritionSetCmd)
	nutritionSetCmd.Flags().StringVar(&nutritionBreakfast, "breakfast", "", "Breakfast calories")
	nutritionSetCmd.Flags().StringVar(&nutritionLunch, "lunch", "", "Lunch calories")
	nutritionSetCmd.Flags().StringVar(&nutritionDinner, "dinner", "", "Dinner calories")
	nutritionSetCmd.Flags().StringVar(&nutritionSnacks, "snacks", "", "Snack calories")
	nutritionCmd.AddCommand(nutritionSetCmd)

	addDateFlag(sleepSetCmd)
	sleepSetCmd.Flags().StringVar(&sleepHours, "hours", "", "Hours slept")
	sleepSetCmd.Flags().StringVar(&sleepQuality, "quality", "", "Sleep quality, 1-10")
	sleepSetCmd.Flags().StringVar(&sleepBedtime, "bedtime", "", "Bedtime, e.g. 22:30")
	sleepCmd.AddCommand(sleepSetCmd)
}

func setSection(cmd *cobra.Command, sec journal.Section) error {
	date, err := resolveDate(dateFlag)
	if err != nil {
		return err
	}
	if errs := validation.ValidateSection(sec); len(errs) > 0 {
		return validationFailed(errs)
	}

	adapter, store, err := openJournal()
	if err != nil {
		return err
	}
	e := store.UpsertSection(date, sec)
	if err := adapter.Save(store.Document()); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), entryJSON{Date: journal.Key(date), Entry: e})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s for %s\n", sec.SectionName(), journal.Key(date))
	return nil
}
