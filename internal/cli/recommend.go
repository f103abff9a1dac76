package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/praxiskit/praxis/internal/core"
	"github.com/praxiskit/praxis/pkg/models"
)

var (
	recommendComplexity    string
	recommendExamples      bool
	recommendPerspectives  bool
	recommendExpertise     bool
	recommendStepByStep    bool
	recommendKnowledgeBase bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend a prompt method for the task at hand",
	Long: `Score every built-in method against the described task and print the
best fit plus alternatives, with the signals that drove the choice.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rec := core.RecommendMethod(models.RecommendationContext{
			Complexity:           recommendComplexity,
			NeedsExamples:        recommendExamples,
			MultiplePerspectives: recommendPerspectives,
			DomainExpertise:      recommendExpertise,
			StepByStep:           recommendStepByStep,
			HasKnowledgeBase:     recommendKnowledgeBase,
		})

		fmt.Printf("Recommended method: %s (score %d)\n", rec.PrimaryMethod, rec.Score)
		if len(rec.Alternatives) > 0 {
			fmt.Println("\nAlternatives:")
			for _, alt := range rec.Alternatives {
				fmt.Printf("  - %s\n", alt)
			}
		}
		if len(rec.Reasons) > 0 {
			fmt.Println("\nWhy:")
			for _, r := range rec.Reasons {
				fmt.Printf("  - %s\n", r)
			}
		}

		return nil
	},
}

func init() {
	recommendCmd.Flags().StringVar(&recommendComplexity, "complexity", "", "Task complexity: basic, intermediate, or advanced")
	recommendCmd.Flags().BoolVar(&recommendExamples, "examples", false, "Worked examples are available or wanted")
	recommendCmd.Flags().BoolVar(&recommendPerspectives, "perspectives", false, "Multiple perspectives should be explored")
	recommendCmd.Flags().BoolVar(&recommendExpertise, "expertise", false, "Domain expertise should shape the answer")
	recommendCmd.Flags().BoolVar(&recommendStepByStep, "step-by-step", false, "Step-by-step reasoning is wanted")
	recommendCmd.Flags().BoolVar(&recommendKnowledgeBase, "knowledge-base", false, "A knowledge base is available to ground on")
	rootCmd.AddCommand(recommendCmd)
}
