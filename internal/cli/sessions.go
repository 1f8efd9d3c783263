package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mentorhub/mentorhub/internal/client/sessionclient"
	"github.com/mentorhub/mentorhub/internal/common/uuid"
	"github.com/mentorhub/mentorhub/pkg/api"
	"github.com/mentorhub/mentorhub/pkg/types"
)

var (
	// Sessions list flags
	sessionsStatus string
	sessionsLimit  int
	sessionsOffset int

	// Transition flags
	cancelReason   string
	rescheduleAt   string
	completeNotes  string
	completeTopics []string
	completeLevel  int
)

// sessionsCmd represents the sessions command group
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List and manage your sessions",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var sessionsListCmd = &cobra.Command{
	Use:   "list [flags]",
	Short: "List your sessions",
	Long: `List the sessions you participate in, newest first.

Examples:
  # All your sessions
  mentorhub sessions list

  # Only confirmed ones
  mentorhub sessions list --status CONFIRMED

  # Next page
  mentorhub sessions list --limit 20 --offset 20`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := sessionclient.New(GetConfig())
		page, err := client.List(cmd.Context(), sessionclient.ListOptions{
			Status: sessionsStatus,
			Limit:  sessionsLimit,
			Offset: sessionsOffset,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(page)
			return nil
		}

		if len(page.Sessions) == 0 {
			fmt.Println("No sessions.")
			return nil
		}
		for i := range page.Sessions {
			printSessionLine(&page.Sessions[i])
		}
		if page.HasMore {
			dimLabel.Printf("more available; use --offset %d\n", sessionsOffset+len(page.Sessions))
		}
		return nil
	},
}

var sessionsGetCmd = &cobra.Command{
	Use:   "get SESSION_ID",
	Short: "Show one session in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid session id %q", args[0])
		}

		client := sessionclient.New(GetConfig())
		session, err := client.Get(cmd.Context(), sessionID)
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(session)
			return nil
		}
		printSessionDetail(session)
		return nil
	},
}

var confirmCmd = &cobra.Command{
	Use:   "confirm SESSION_ID",
	Short: "Confirm a pending session (mentor only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransition(cmd, args[0], func(client *sessionclient.Client, id uuid.UUID) (*api.Session, error) {
			return client.Confirm(cmd.Context(), id)
		})
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel SESSION_ID [flags]",
	Short: "Cancel a session you participate in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransition(cmd, args[0], func(client *sessionclient.Client, id uuid.UUID) (*api.Session, error) {
			return client.Cancel(cmd.Context(), id, cancelReason)
		})
	},
}

var rescheduleCmd = &cobra.Command{
	Use:   "reschedule SESSION_ID --at TIME",
	Short: "Move a session to a new start time",
	Long: `Move a pending or confirmed session to a new start time. The new time
must be a slot the mentor offers; the session returns to pending and the
mentor must confirm it again.

Example:
  mentorhub reschedule 3a91... --at 2026-09-10T14:00:00Z`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		newStart, err := time.Parse(time.RFC3339, rescheduleAt)
		if err != nil {
			return fmt.Errorf("invalid --at time %q, expected RFC3339", rescheduleAt)
		}
		return runTransition(cmd, args[0], func(client *sessionclient.Client, id uuid.UUID) (*api.Session, error) {
			return client.Reschedule(cmd.Context(), id, newStart)
		})
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete SESSION_ID [flags]",
	Short: "Finalize an in-progress session with the lesson outcome (mentor only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outcome := &api.CompleteSessionRequest{
			Notes:         completeNotes,
			TopicsCovered: completeTopics,
		}
		if cmd.Flags().Changed("mastery") {
			outcome.MasteryLevel = &completeLevel
		}
		return runTransition(cmd, args[0], func(client *sessionclient.Client, id uuid.UUID) (*api.Session, error) {
			return client.Complete(cmd.Context(), id, outcome)
		})
	},
}

var noShowCmd = &cobra.Command{
	Use:   "no-show SESSION_ID",
	Short: "Report that the other participant did not show up",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransition(cmd, args[0], func(client *sessionclient.Client, id uuid.UUID) (*api.Session, error) {
			return client.MarkNoShow(cmd.Context(), id)
		})
	},
}

func init() {
	sessionsListCmd.Flags().StringVar(&sessionsStatus, "status", "", "Filter by status (e.g. CONFIRMED)")
	sessionsListCmd.Flags().IntVar(&sessionsLimit, "limit", 0, "Page size (server default when 0)")
	sessionsListCmd.Flags().IntVar(&sessionsOffset, "offset", 0, "Page offset")
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsGetCmd)

	cancelCmd.Flags().StringVar(&cancelReason, "reason", "", "Optional cancellation reason")
	rescheduleCmd.Flags().StringVar(&rescheduleAt, "at", "", "New start time (RFC3339)")
	rescheduleCmd.MarkFlagRequired("at")
	completeCmd.Flags().StringVar(&completeNotes, "notes", "", "Lesson outcome notes")
	completeCmd.Flags().StringSliceVar(&completeTopics, "topic", nil, "Topic covered (repeatable)")
	completeCmd.Flags().IntVar(&completeLevel, "mastery", 0, "Mastery level 0-100 in steps of 5")

	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(confirmCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(rescheduleCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(noShowCmd)
}

func runTransition(cmd *cobra.Command, rawID string, apply func(*sessionclient.Client, uuid.UUID) (*api.Session, error)) error {
	sessionID, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid session id %q", rawID)
	}

	client := sessionclient.New(GetConfig())
	session, err := apply(client, sessionID)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(session)
		return nil
	}
	okLabel.Printf("%s\n", session.Status)
	printSessionDetail(session)
	return nil
}

func printSessionLine(session *api.Session) {
	label := dimLabel
	switch session.Status {
	case types.SessionStatusConfirmed, types.SessionStatusInProgress:
		label = okLabel
	case types.SessionStatusCancelledByMentor, types.SessionStatusCancelledByMentee,
		types.SessionStatusNoShowMentor, types.SessionStatusNoShowMentee:
		label = errorLabel
	}
	fmt.Printf("%s  %s  %3dm  ", session.ID, session.ScheduledAt.UTC().Format("2006-01-02 15:04"), session.DurationMinutes)
	label.Printf("%s\n", session.Status)
}

func printSessionDetail(session *api.Session) {
	fmt.Printf("Session:   %s\n", session.ID)
	fmt.Printf("Mentor:    %s\n", session.MentorID)
	fmt.Printf("Mentee:    %s\n", session.MenteeID)
	fmt.Printf("Starts:    %s\n", session.ScheduledAt.UTC().Format(time.RFC3339))
	fmt.Printf("Duration:  %d minutes\n", session.DurationMinutes)
	fmt.Printf("Status:    %s\n", session.Status)
	if session.LessonNotes != "" {
		fmt.Printf("Notes:     %s\n", session.LessonNotes)
	}
	if session.Completion != nil {
		if len(session.Completion.TopicsCovered) > 0 {
			fmt.Printf("Topics:    %v\n", session.Completion.TopicsCovered)
		}
		if session.Completion.MasteryLevel != nil {
			fmt.Printf("Mastery:   %d\n", *session.Completion.MasteryLevel)
		}
	}
	if session.Cancellation != nil && session.Cancellation.Reason != "" {
		fmt.Printf("Reason:    %s\n", session.Cancellation.Reason)
	}
}
