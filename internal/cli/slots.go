package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mentorhub/mentorhub/internal/client/sessionclient"
	"github.com/mentorhub/mentorhub/internal/common/uuid"
)

var (
	// Slots command flags
	slotsDuration int
	slotsFrom     string
	slotsTo       string
	slotsTZ       string
)

// slotsCmd represents the slots command
var slotsCmd = &cobra.Command{
	Use:   "slots MENTOR_ID [flags]",
	Short: "List a mentor's bookable slots",
	Long: `List the bookable slots a mentor offers for a given lesson duration over
a date range. Slot times are shown in the display timezone.

Examples:
  # Slots for a 60-minute lesson next week
  mentorhub slots 7f6b... --duration 60 --from 2026-09-07 --to 2026-09-13

  # Same, displayed in another timezone
  mentorhub slots 7f6b... --duration 30 --from 2026-09-07 --to 2026-09-13 --tz Europe/Berlin`,
	Args: cobra.ExactArgs(1),
	RunE: listSlots,
}

func init() {
	slotsCmd.Flags().IntVar(&slotsDuration, "duration", 60, "Lesson duration in minutes (30, 60, or 90)")
	slotsCmd.Flags().StringVar(&slotsFrom, "from", "", "Start of the date range (YYYY-MM-DD, default today)")
	slotsCmd.Flags().StringVar(&slotsTo, "to", "", "End of the date range (YYYY-MM-DD, default one week out)")
	slotsCmd.Flags().StringVar(&slotsTZ, "tz", "", "Display timezone (IANA name, default from config)")

	rootCmd.AddCommand(slotsCmd)
}

func listSlots(cmd *cobra.Command, args []string) error {
	mentorID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid mentor id %q", args[0])
	}

	tz := slotsTZ
	if tz == "" {
		tz = GetConfig().Timezone
	}
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("unknown timezone %q", tz)
	}

	from := time.Now().UTC().Truncate(24 * time.Hour)
	if slotsFrom != "" {
		from, err = time.Parse("2006-01-02", slotsFrom)
		if err != nil {
			return fmt.Errorf("invalid --from date %q, expected YYYY-MM-DD", slotsFrom)
		}
	}
	to := from.AddDate(0, 0, 7)
	if slotsTo != "" {
		to, err = time.Parse("2006-01-02", slotsTo)
		if err != nil {
			return fmt.Errorf("invalid --to date %q, expected YYYY-MM-DD", slotsTo)
		}
	}

	client := sessionclient.New(GetConfig())
	slots, err := client.Slots(cmd.Context(), mentorID, from, to, slotsDuration, tz)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(slots)
		return nil
	}

	if len(slots) == 0 {
		fmt.Println("No bookable slots in this range.")
		return nil
	}

	lastDate := ""
	for _, slot := range slots {
		if slot.Date != lastDate {
			lastDate = slot.Date
			okLabel.Printf("%s\n", slot.Date)
		}
		fmt.Printf("  %s - %s\n", slot.Start.In(loc).Format("15:04"), slot.End.In(loc).Format("15:04"))
	}
	return nil
}
