package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/praxiskit/praxis/pkg/models"
)

var (
	decisionTitle        string
	decisionRationale    string
	decisionImpact       string
	decisionStage        string
	decisionAlternatives []string
	decisionStakeholders []string
	decisionIrreversible bool
)

var decisionCmd = &cobra.Command{
	Use:   "decision <session-id>",
	Short: "Record a decision in a session",
	Long: `Record a decision with its rationale. Medium and high impact decisions
spawn pre-validated carry-forward requirements so every later stage
honors them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tracker == nil {
			return fmt.Errorf("continuity tracker not initialized")
		}

		decision := models.Decision{
			Title:        decisionTitle,
			Rationale:    decisionRationale,
			Impact:       models.ImpactLevel(decisionImpact),
			StageID:      decisionStage,
			Alternatives: decisionAlternatives,
			Stakeholders: decisionStakeholders,
			Reversible:   !decisionIrreversible,
			RecordedAt:   time.Now().UTC(),
		}
		if err := Tracker.RecordDecision(args[0], decision); err != nil {
			return fmt.Errorf("recording decision: %w", err)
		}

		fmt.Printf("Recorded %q (%s impact) in %s\n", decisionTitle, decisionImpact, args[0])
		return nil
	},
}

func init() {
	decisionCmd.Flags().StringVar(&decisionTitle, "title", "", "What was decided (required)")
	decisionCmd.Flags().StringVar(&decisionRationale, "rationale", "", "Why it was decided")
	decisionCmd.Flags().StringVar(&decisionImpact, "impact", "medium", "Impact level: low, medium, or high")
	decisionCmd.Flags().StringVar(&decisionStage, "stage", "", "Stage the decision was made in")
	decisionCmd.Flags().StringArrayVar(&decisionAlternatives, "alternative", nil, "Alternative that was considered (repeatable)")
	decisionCmd.Flags().StringArrayVar(&decisionStakeholders, "stakeholder", nil, "Stakeholder affected (repeatable)")
	decisionCmd.Flags().BoolVar(&decisionIrreversible, "irreversible", false, "Mark the decision as hard to undo")
	_ = decisionCmd.MarkFlagRequired("title")

	rootCmd.AddCommand(decisionCmd)
}
