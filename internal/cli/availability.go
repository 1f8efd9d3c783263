package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mentorhub/mentorhub/internal/client/sessionclient"
	"github.com/mentorhub/mentorhub/internal/common/uuid"
	"github.com/mentorhub/mentorhub/pkg/api"
)

var availabilityFile string

// availabilityCmd represents the availability command group
var availabilityCmd = &cobra.Command{
	Use:   "availability",
	Short: "View and set a mentor's weekly availability",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var availabilityGetCmd = &cobra.Command{
	Use:   "get MENTOR_ID",
	Short: "Show a mentor's weekly availability",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mentorID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid mentor id %q", args[0])
		}

		client := sessionclient.New(GetConfig())
		availability, err := client.GetAvailability(cmd.Context(), mentorID)
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(availability)
			return nil
		}
		fmt.Printf("Timezone: %s\n", availability.Timezone)
		for _, day := range availability.Days {
			fmt.Printf("  %-9s ", time.Weekday(day.Weekday))
			for i, interval := range day.Intervals {
				if i > 0 {
					fmt.Print(", ")
				}
				fmt.Printf("%s-%s", formatMinute(interval.StartMinute), formatMinute(interval.EndMinute))
			}
			fmt.Println()
		}
		return nil
	},
}

var availabilitySetCmd = &cobra.Command{
	Use:   "set MENTOR_ID -f FILE",
	Short: "Replace your weekly availability from a JSON file (mentor only)",
	Long: `Replace your weekly availability wholesale from a JSON file.

The file holds the weekly rules, with weekdays numbered 0 (Sunday) to 6
and times as minutes from midnight in the mentor's timezone:
  {
    "timezone": "Europe/Berlin",
    "days": [
      {"weekday": 1, "intervals": [{"startMinute": 540, "endMinute": 1020}]},
      {"weekday": 3, "intervals": [{"startMinute": 840, "endMinute": 1200}]}
    ]
  }`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mentorID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid mentor id %q", args[0])
		}

		raw, err := os.ReadFile(availabilityFile)
		if err != nil {
			return fmt.Errorf("unable to read availability file: %w", err)
		}
		var availability api.WeeklyAvailability
		if err := json.Unmarshal(raw, &availability); err != nil {
			return fmt.Errorf("unable to parse availability file: %w", err)
		}

		client := sessionclient.New(GetConfig())
		stored, err := client.PutAvailability(cmd.Context(), mentorID, availability)
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(stored)
			return nil
		}
		okLabel.Println("Availability updated.")
		return nil
	},
}

func init() {
	availabilitySetCmd.Flags().StringVarP(&availabilityFile, "file", "f", "", "JSON file holding the weekly availability")
	availabilitySetCmd.MarkFlagRequired("file")

	availabilityCmd.AddCommand(availabilityGetCmd)
	availabilityCmd.AddCommand(availabilitySetCmd)
	rootCmd.AddCommand(availabilityCmd)
}

func formatMinute(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
