package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/praxiskit/praxis/pkg/models"
)

var (
	sessionProject       string
	sessionFramework     string
	sessionType          string
	sessionParticipants  int
	sessionQuality       string
	sessionAccessibility bool
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage workflow sessions",
}

var sessionStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new workflow session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tracker == nil {
			return fmt.Errorf("continuity tracker not initialized")
		}

		framework := sessionFramework
		if framework == "" && Config != nil {
			framework = Config.DefaultFramework
		}

		session, err := Tracker.StartSession(sessionProject, framework, models.SessionMetadata{
			SessionType:        sessionType,
			ParticipantCount:   sessionParticipants,
			QualityLevel:       sessionQuality,
			AccessibilityFocus: sessionAccessibility,
		})
		if err != nil {
			return fmt.Errorf("starting session: %w", err)
		}

		fmt.Printf("Started session %s (%s, %s) at stage %s\n",
			session.ID, session.ProjectID, session.FrameworkID, session.CurrentStageID)
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all workflow sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if SessionStore == nil {
			return fmt.Errorf("session store not initialized")
		}

		sessions, err := SessionStore.ListSessions()
		if err != nil {
			return fmt.Errorf("listing sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		fmt.Printf("  %-10s %-16s %-16s %-12s %-10s %s\n",
			"ID", "PROJECT", "FRAMEWORK", "STAGE", "STATUS", "STARTED")
		for _, s := range sessions {
			fmt.Printf("  %-10s %-16s %-16s %-12s %-10s %s\n",
				s.ID, s.ProjectID, s.FrameworkID, s.CurrentStageID, s.Status,
				s.StartedAt.Format("2006-01-02"))
		}
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show a session and its stage history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tracker == nil || SessionStore == nil {
			return fmt.Errorf("continuity tracker not initialized")
		}

		session, err := Tracker.GetSession(args[0])
		if err != nil {
			return fmt.Errorf("loading session: %w", err)
		}

		fmt.Printf("Session %s\n\n", session.ID)
		fmt.Printf("  %-16s %s\n", "Project:", session.ProjectID)
		fmt.Printf("  %-16s %s\n", "Framework:", session.FrameworkID)
		fmt.Printf("  %-16s %s\n", "Current stage:", session.CurrentStageID)
		fmt.Printf("  %-16s %s\n", "Status:", session.Status)
		fmt.Printf("  %-16s %s\n", "Started:", session.StartedAt.Format(time.RFC3339))
		fmt.Printf("  %-16s %s\n", "Last activity:", session.LastActivityAt.Format(time.RFC3339))

		transitions, err := SessionStore.GetTransitions(session.ID)
		if err != nil {
			return fmt.Errorf("loading transitions: %w", err)
		}
		if len(transitions) > 0 {
			fmt.Println("\n  Stage history:")
			for _, tr := range transitions {
				from := tr.FromStageID
				if from == "" {
					from = "(start)"
				}
				fmt.Printf("    %-8s %s -> %s  (%d outputs, %d insights)\n",
					tr.ID, from, tr.ToStageID, len(tr.Outputs), len(tr.Insights))
			}
		}
		return nil
	},
}

var sessionAnalyticsCmd = &cobra.Command{
	Use:   "analytics <session-id>",
	Short: "Show progress analytics for a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tracker == nil {
			return fmt.Errorf("continuity tracker not initialized")
		}

		a, err := Tracker.Analytics(args[0])
		if err != nil {
			return fmt.Errorf("computing analytics: %w", err)
		}

		fmt.Printf("Analytics for %s\n\n", a.SessionID)
		fmt.Printf("  %-22s %s\n", "Duration:", a.Duration.Round(time.Minute))
		fmt.Printf("  %-22s %d\n", "Stages completed:", a.StagesCompleted)
		fmt.Printf("  %-22s %d\n", "Decisions recorded:", a.DecisionCount)
		fmt.Printf("  %-22s %d\n", "Outputs captured:", a.OutputCount)
		fmt.Printf("  %-22s %d\n", "Active carry items:", a.ActiveCarryItems)
		fmt.Printf("  %-22s %.0f%%\n", "Consistency score:", a.ConsistencyScore)
		return nil
	},
}

// statusCommand builds a subcommand that moves a session to the given status.
func statusCommand(use, short string, status models.SessionStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <session-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if Tracker == nil {
				return fmt.Errorf("continuity tracker not initialized")
			}
			if err := Tracker.UpdateSessionStatus(args[0], status); err != nil {
				return fmt.Errorf("updating session: %w", err)
			}
			fmt.Printf("Session %s is now %s\n", args[0], status)
			return nil
		},
	}
}

func init() {
	sessionStartCmd.Flags().StringVarP(&sessionProject, "project", "p", "", "Project id (required)")
	sessionStartCmd.Flags().StringVarP(&sessionFramework, "framework", "f", "", "Framework id (defaults to the configured framework)")
	sessionStartCmd.Flags().StringVar(&sessionType, "type", "", "Session type label (e.g. workshop, solo)")
	sessionStartCmd.Flags().IntVar(&sessionParticipants, "participants", 0, "Participant count")
	sessionStartCmd.Flags().StringVar(&sessionQuality, "quality", "", "Quality level label")
	sessionStartCmd.Flags().BoolVar(&sessionAccessibility, "accessibility", false, "Mark the session as accessibility-focused")
	_ = sessionStartCmd.MarkFlagRequired("project")

	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionAnalyticsCmd)
	sessionCmd.AddCommand(statusCommand("pause", "Pause an active session", models.SessionPaused))
	sessionCmd.AddCommand(statusCommand("complete", "Complete a session", models.SessionCompleted))
	sessionCmd.AddCommand(statusCommand("abandon", "Abandon a session", models.SessionAbandoned))

	rootCmd.AddCommand(sessionCmd)
}
