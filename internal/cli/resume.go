package cli

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/praxiskit/praxis/pkg/models"
)

var sessionResumeCmd = &cobra.Command{
	Use:   "resume [session-id]",
	Short: "Resume a paused session",
	Long: `Move a paused session back to active.

With no argument, shows an interactive list of paused sessions to pick from.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tracker == nil {
			return fmt.Errorf("continuity tracker not initialized")
		}

		var sessionID string
		if len(args) == 1 {
			sessionID = args[0]
		} else {
			picked, err := pickPausedSession()
			if err != nil {
				return err
			}
			sessionID = picked
		}

		if err := Tracker.UpdateSessionStatus(sessionID, models.SessionActive); err != nil {
			return fmt.Errorf("resuming session: %w", err)
		}
		fmt.Printf("Session %s is now active\n", sessionID)
		return nil
	},
}

// pickPausedSession shows an interactive list of paused sessions and returns
// the selected session id. Returns an error if none are paused or the user
// cancels.
func pickPausedSession() (string, error) {
	if SessionStore == nil {
		return "", fmt.Errorf("session store not initialized")
	}

	all, err := SessionStore.ListSessions()
	if err != nil {
		return "", fmt.Errorf("listing sessions: %w", err)
	}

	var paused []models.WorkflowSession
	for _, s := range all {
		if s.Status == models.SessionPaused {
			paused = append(paused, s)
		}
	}
	if len(paused) == 0 {
		return "", fmt.Errorf("no paused sessions found")
	}

	// Most recently active first.
	sort.Slice(paused, func(i, j int) bool {
		return paused[i].LastActivityAt.After(paused[j].LastActivityAt)
	})

	fmt.Println("\nPaused sessions:")
	fmt.Println()
	fmt.Printf("  %-4s %-10s %-16s %-16s %-12s %s\n", "#", "ID", "PROJECT", "FRAMEWORK", "STAGE", "LAST ACTIVITY")
	for i, s := range paused {
		fmt.Printf("  %-4d %-10s %-16s %-16s %-12s %s\n",
			i+1, s.ID, s.ProjectID, s.FrameworkID, s.CurrentStageID,
			s.LastActivityAt.Format("2006-01-02 15:04"))
	}
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("Select session [1-%d] (or 'q' to cancel): ", len(paused))
		input, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "q" || input == "Q" {
			return "", fmt.Errorf("cancelled")
		}

		num, err := strconv.Atoi(input)
		if err != nil || num < 1 || num > len(paused) {
			fmt.Printf("  Invalid selection. Enter a number between 1 and %d.\n", len(paused))
			continue
		}

		return paused[num-1].ID, nil
	}
}

func init() {
	sessionCmd.AddCommand(sessionResumeCmd)
}
