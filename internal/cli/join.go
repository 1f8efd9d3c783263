package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mentorhub/mentorhub/internal/client/call"
	"github.com/mentorhub/mentorhub/internal/client/sessionclient"
	"github.com/mentorhub/mentorhub/internal/common/uuid"
)

// joinCmd represents the join command
var joinCmd = &cobra.Command{
	Use:   "join SESSION_ID",
	Short: "Join the live room of a confirmed session",
	Long: `Join the live lesson room of a confirmed session. The terminal client
carries the text channel and roster; typed lines are sent as chat.

In-call commands:
  /roster   show who is in the room
  /time     show elapsed and remaining lesson time
  /mute     toggle your audio announcement
  /end      finalize the session and leave (mentor)
  /leave    leave the room`,
	Args: cobra.ExactArgs(1),
	RunE: joinSession,
}

func init() {
	rootCmd.AddCommand(joinCmd)
}

// terminalMedia is the headless capture backend: the terminal has no camera
// or microphone, so the only track it ever announces is a muted audio
// placeholder. Joining is still allowed; the client carries chat and
// roster.
type terminalMedia struct{}

func (terminalMedia) Supported() bool { return true }

func (terminalMedia) Acquire(context.Context) (call.MediaStream, error) {
	return &terminalStream{}, nil
}

type terminalStream struct{}

func (*terminalStream) AudioGranted() bool { return false }
func (*terminalStream) VideoGranted() bool { return false }
func (*terminalStream) Stop()              {}

func joinSession(cmd *cobra.Command, args []string) error {
	sessionID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid session id %q", args[0])
	}
	cfg := GetConfig()
	localID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		return fmt.Errorf("configured user_id %q is not a valid id", cfg.UserID)
	}
	displayName := cfg.DisplayName
	if displayName == "" {
		displayName = cfg.UserID
	}

	client := sessionclient.New(cfg)
	session, err := client.Get(cmd.Context(), sessionID)
	if err != nil {
		return err
	}

	transport := call.NewWebsocketTransport(cfg.GetServerURL())
	machine := call.NewMachine(client, terminalMedia{}, transport, localID, displayName)
	defer machine.Leave()

	if err := machine.StartDeviceCheck(cmd.Context()); err != nil {
		return err
	}
	if err := machine.Join(cmd.Context(), session); err != nil {
		return err
	}
	okLabel.Printf("Joined session %s. Type to chat, /leave to exit.\n", sessionID)

	finalizer := call.NewFinalizer(client, machine)
	scanner := bufio.NewScanner(os.Stdin)
	lastPrinted := 0

	for machine.State() == call.StateJoined {
		// drain anything that arrived while we were blocked on input
		lastPrinted = printNewMessages(machine, localID, lastPrinted)

		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "/leave":
			machine.Leave()
		case "/end":
			if err := finalizer.EndAsMentor(cmd.Context(), sessionID, nil); err != nil {
				errorLabel.Printf("could not finalize: %v\n", err)
				continue
			}
			okLabel.Println("Session completed.")
		case "/roster":
			for _, p := range machine.Roster() {
				marker := " "
				if p.IsLocal {
					marker = "*"
				}
				fmt.Printf("%s %s (%s)\n", marker, p.DisplayName, p.Role)
			}
		case "/time":
			countdown := call.ComputeCountdown(session.ScheduledAt, session.DurationMinutes, time.Now())
			if countdown.Overtime {
				errorLabel.Printf("overtime: %s past the scheduled end\n", countdown.Elapsed-time.Duration(session.DurationMinutes)*time.Minute)
			} else {
				fmt.Printf("elapsed %s, remaining %s\n", countdown.Elapsed.Round(time.Second), countdown.Remaining.Round(time.Second))
			}
		case "/mute":
			if err := machine.ToggleAudio(); err != nil {
				errorLabel.Printf("%v\n", err)
			}
		default:
			if err := machine.SendMessage(line); err != nil {
				errorLabel.Printf("%v\n", err)
			}
			lastPrinted = len(machine.Messages())
		}
	}

	if machine.State() == call.StateError {
		meetingErr := machine.Err()
		if meetingErr != nil {
			if meetingErr.Recoverable() {
				return fmt.Errorf("%s (you can rejoin)", meetingErr.Message)
			}
			return fmt.Errorf("%s", meetingErr.Message)
		}
	}
	dimLabel.Println("Left the room.")
	return nil
}

// printNewMessages prints chat that arrived since the last prompt.
func printNewMessages(machine *call.Machine, localID uuid.UUID, from int) int {
	messages := machine.Messages()
	for _, message := range messages[min(from, len(messages)):] {
		if message.SenderID == localID {
			continue
		}
		fmt.Printf("%s: %s\n", message.SenderName, message.Content)
	}
	return len(messages)
}
