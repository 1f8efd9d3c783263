package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mentorhub/mentorhub/internal/client/booking"
	"github.com/mentorhub/mentorhub/internal/client/sessionclient"
	"github.com/mentorhub/mentorhub/internal/common/uuid"
	"github.com/mentorhub/mentorhub/pkg/api"
)

var (
	// Book command flags
	bookAt       string
	bookDuration int
	bookNotes    string
	bookTZ       string
)

// bookCmd represents the book command
var bookCmd = &cobra.Command{
	Use:   "book MENTOR_ID --at TIME [flags]",
	Short: "Book a session with a mentor",
	Long: `Book a session with a mentor at one of their offered slot times. The
start time must line up with a slot from "mentorhub slots"; the session is
created pending and awaits the mentor's confirmation.

Examples:
  # Book a 60-minute lesson
  mentorhub book 7f6b... --at 2026-09-08T15:00:00Z --duration 60

  # With a note for the mentor
  mentorhub book 7f6b... --at 2026-09-08T15:00:00Z --duration 30 --notes "interfaces and embedding"`,
	Args: cobra.ExactArgs(1),
	RunE: bookSession,
}

func init() {
	bookCmd.Flags().StringVar(&bookAt, "at", "", "Slot start time (RFC3339)")
	bookCmd.Flags().IntVar(&bookDuration, "duration", 60, "Lesson duration in minutes (30, 60, or 90)")
	bookCmd.Flags().StringVar(&bookNotes, "notes", "", "Optional lesson notes for the mentor")
	bookCmd.Flags().StringVar(&bookTZ, "tz", "", "Booking timezone (IANA name, default from config)")
	bookCmd.MarkFlagRequired("at")

	rootCmd.AddCommand(bookCmd)
}

func bookSession(cmd *cobra.Command, args []string) error {
	mentorID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid mentor id %q", args[0])
	}
	start, err := time.Parse(time.RFC3339, bookAt)
	if err != nil {
		return fmt.Errorf("invalid --at time %q, expected RFC3339", bookAt)
	}

	tz := bookTZ
	if tz == "" {
		tz = GetConfig().Timezone
	}

	// the draft walks the same slot -> details -> review steps the
	// booking flow uses, so flag validation matches it exactly
	draft := booking.NewDraft(sessionclient.New(GetConfig()))
	draft.SetMentor(mentorID, "")
	if err := draft.SetDuration(bookDuration); err != nil {
		return err
	}
	draft.SetSlot(api.BookingSlot{
		Date:  start.UTC().Format("2006-01-02"),
		Start: start,
		End:   start.Add(time.Duration(bookDuration) * time.Minute),
	})
	draft.SetNotes(bookNotes)
	if tz != "" {
		draft.SetTimezone(tz)
	}

	session, err := draft.Submit(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(session)
		return nil
	}
	okLabel.Println("Session booked, awaiting mentor confirmation.")
	printSessionDetail(session)
	return nil
}
