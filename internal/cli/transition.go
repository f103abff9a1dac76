package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/praxiskit/praxis/pkg/models"
)

var (
	transitionTo      string
	transitionTool    string
	transitionOutputs []string
)

var sessionTransitionCmd = &cobra.Command{
	Use:   "transition <session-id>",
	Short: "Move a session to its next stage",
	Long: `Record a stage transition, carrying the stage's outputs with it.

Each --output becomes one generated output of the departing stage. The
engine derives insights and carry-forward obligations from them, so later
stages see what this stage learned and what it still owes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tracker == nil {
			return fmt.Errorf("continuity tracker not initialized")
		}

		outputs := make([]models.GeneratedOutput, 0, len(transitionOutputs))
		for _, content := range transitionOutputs {
			outputs = append(outputs, models.GeneratedOutput{
				ToolID:    transitionTool,
				Content:   content,
				CreatedAt: time.Now().UTC(),
			})
		}

		tr, err := Tracker.TransitionToStage(args[0], transitionTo, outputs, nil)
		if err != nil {
			return fmt.Errorf("transitioning session: %w", err)
		}

		fmt.Printf("Transition %s: %s -> %s\n", tr.ID, orStart(tr.FromStageID), tr.ToStageID)
		if len(tr.Insights) > 0 {
			fmt.Println("\nInsights carried forward:")
			for _, in := range tr.Insights {
				fmt.Printf("  - %s\n", in)
			}
		}
		if len(tr.CarryForwardItems) > 0 {
			fmt.Printf("\n%d carry-forward item(s) derived.\n", len(tr.CarryForwardItems))
		}
		return nil
	},
}

func orStart(stageID string) string {
	if stageID == "" {
		return "(start)"
	}
	return stageID
}

func init() {
	sessionTransitionCmd.Flags().StringVar(&transitionTo, "to", "", "Stage id to move into (required)")
	sessionTransitionCmd.Flags().StringVar(&transitionTool, "tool", "", "Tool id the outputs came from")
	sessionTransitionCmd.Flags().StringArrayVar(&transitionOutputs, "output", nil, "Output produced by the departing stage (repeatable)")
	_ = sessionTransitionCmd.MarkFlagRequired("to")

	sessionCmd.AddCommand(sessionTransitionCmd)
}
