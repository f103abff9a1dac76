package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/praxiskit/praxis/pkg/models"
)

var (
	continuityStage string
	continuityTool  string
	continuityYAML  bool
)

var continuityCmd = &cobra.Command{
	Use:   "continuity <session-id>",
	Short: "Show what the current stage must know from earlier stages",
	Long: `Assemble the continuity picture for a stage: carry-forward obligations
that target it, standing decisions, previous outputs, and consistency
checks over the vocabulary used across stages.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tracker == nil {
			return fmt.Errorf("continuity tracker not initialized")
		}

		cont, err := Tracker.GetContinuity(args[0], continuityStage, continuityTool)
		if err != nil {
			return fmt.Errorf("loading continuity: %w", err)
		}

		if continuityYAML {
			out, err := marshalYAML(cont)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		}

		fmt.Printf("Continuity for %s\n", cont.SessionID)

		if len(cont.CarryForwardItems) > 0 {
			fmt.Println("\nCarry-forward items:")
			for _, item := range cont.CarryForwardItems {
				fmt.Printf("  [%s/%s] %s\n", item.Type, item.Priority, item.Content)
			}
		}
		if len(cont.KeyDecisions) > 0 {
			fmt.Println("\nKey decisions:")
			for _, d := range cont.KeyDecisions {
				fmt.Printf("  [%s] %s\n", d.Impact, d.Title)
			}
		}
		if len(cont.ConsistencyChecks) > 0 {
			fmt.Println("\nConsistency checks:")
			for _, c := range cont.ConsistencyChecks {
				line := fmt.Sprintf("  %-12s %-14s %s", c.Term, c.Status, c.Recommendation)
				fmt.Println(strings.TrimRight(line, " "))
			}
		}
		if len(cont.Suggestions) > 0 {
			fmt.Println("\nSuggestions:")
			for _, s := range cont.Suggestions {
				fmt.Printf("  - %s\n", s)
			}
		}
		if len(cont.CarryForwardItems) == 0 && len(cont.KeyDecisions) == 0 &&
			len(cont.ConsistencyChecks) == 0 && len(cont.Suggestions) == 0 {
			fmt.Println("\nNothing to carry forward yet.")
		}

		return nil
	},
}

var (
	carryStatus string
	carryForce  bool
)

var carryCmd = &cobra.Command{
	Use:   "carry <session-id> <item-id>",
	Short: "Update a carry-forward item's status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tracker == nil {
			return fmt.Errorf("continuity tracker not initialized")
		}

		item, err := Tracker.UpdateCarryForwardItem(args[0], args[1],
			models.CarryForwardStatus(carryStatus), carryForce)
		if err != nil {
			return fmt.Errorf("updating carry item: %w", err)
		}
		if item == nil {
			fmt.Printf("No item %s in session %s\n", args[1], args[0])
			return nil
		}

		fmt.Printf("Item %s is now %s\n", item.ID, item.Status)
		return nil
	},
}

func init() {
	continuityCmd.Flags().StringVarP(&continuityStage, "stage", "s", "", "Stage id to assemble continuity for")
	continuityCmd.Flags().StringVarP(&continuityTool, "tool", "t", "", "Tool id in use at the stage")
	continuityCmd.Flags().BoolVar(&continuityYAML, "yaml", false, "Output the full continuity as YAML")
	rootCmd.AddCommand(continuityCmd)

	carryCmd.Flags().StringVar(&carryStatus, "status", "resolved", "New status: active, resolved, or outdated")
	carryCmd.Flags().BoolVar(&carryForce, "force", false, "Allow reopening a resolved or outdated item")
	rootCmd.AddCommand(carryCmd)
}
