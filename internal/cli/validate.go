package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	validateMethod     string
	validateComplexity string
	validateYAML       bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate text against a prompt method's expected shape",
	Long: `Run the advanced validator: how well the text fits the named method's
structure, how coherently it flows, how actionable it is, and whether the
method suits the declared task complexity.

Reads from the given file, or from stdin when no file (or "-") is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Scorer == nil {
			return fmt.Errorf("quality scorer not initialized")
		}

		text, err := readTextArg(args)
		if err != nil {
			return err
		}

		result, err := Scorer.ValidateMethodText(validateMethod, text, validateComplexity)
		if err != nil {
			return fmt.Errorf("validating text: %w", err)
		}

		if validateYAML {
			out, err := marshalYAML(result)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		}

		fmt.Printf("Method fit for %s\n\n", result.MethodID)
		fmt.Printf("  %-18s %d\n", "Method shape:", result.MethodScore)
		fmt.Printf("  %-18s %d\n", "Coherence:", result.Coherence)
		fmt.Printf("  %-18s %d\n", "Effectiveness:", result.Effectiveness)
		fmt.Printf("  %-18s %d\n", "Appropriateness:", result.Appropriateness)
		fmt.Printf("  %-18s %d\n", "Combined:", result.Combined)

		if len(result.Notes) > 0 {
			fmt.Println()
			for _, n := range result.Notes {
				fmt.Printf("  note: %s\n", n)
			}
		}

		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateMethod, "method", "m", "", "Method id the text claims to follow (required)")
	validateCmd.Flags().StringVar(&validateComplexity, "complexity", "", "Task complexity: basic, intermediate, or advanced")
	validateCmd.Flags().BoolVar(&validateYAML, "yaml", false, "Output the full result as YAML")
	_ = validateCmd.MarkFlagRequired("method")
	rootCmd.AddCommand(validateCmd)
}
