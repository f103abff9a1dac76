package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/praxiskit/praxis/pkg/models"
)

var (
	generateProject     string
	generateFramework   string
	generateStage       string
	generateTool        string
	generateMethod      string
	generateInstruction string
	generateVars        []string
	generateIndustry    string
	generateMaxEntries  int
	generateThreshold   float64
	generateRecent      bool
	generateYAML        bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a context-aware prompt for a workflow stage",
	Long: `Run the full pipeline in one call: rank knowledge entries against the
current stage, pull continuity from the active session, compile the method
template, and score the synthesized prompt.

Missing knowledge or session data degrades the result with a warning
instead of failing; the warnings are printed alongside the prompt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Engine == nil {
			return fmt.Errorf("orchestrator not initialized")
		}

		framework := generateFramework
		method := generateMethod
		if Config != nil {
			if framework == "" {
				framework = Config.DefaultFramework
			}
			if method == "" {
				method = Config.DefaultMethod
			}
		}

		vars, err := parseVarFlags(method, generateVars)
		if err != nil {
			return err
		}
		if generateInstruction != "" {
			if vars == nil {
				vars = make(map[string]any, 1)
			}
			vars["instruction"] = generateInstruction
		}

		req := models.IntegratedContextRequest{
			ProjectID:   generateProject,
			FrameworkID: framework,
			StageID:     generateStage,
			ToolID:      generateTool,
			MethodID:    method,
			Instruction: generateInstruction,
			UserInputs:  vars,
			Options:     generateProcessingOptions(),
		}
		if generateIndustry != "" {
			req.UserPreferences = map[string]string{"industry": generateIndustry}
		}

		resp, err := Engine.ProcessIntegratedContext(req)
		if err != nil {
			return fmt.Errorf("generating prompt: %w", err)
		}

		if generateYAML {
			out, err := marshalYAML(resp)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		}

		fmt.Println(resp.SynthesizedPrompt)

		if resp.Validation != nil {
			fmt.Printf("\nQuality: %d/100 (%s), confidence %.2f\n",
				resp.Validation.OverallScore, resp.Validation.Bucket,
				resp.QualityMetrics.ConfidenceScore)
		}
		for _, w := range resp.Warnings {
			fmt.Printf("warning: %s\n", w)
		}

		return nil
	},
}

// generateProcessingOptions merges the flag values over the .praxisrc
// processing defaults; unset numeric flags fall back to the configured values.
func generateProcessingOptions() models.ProcessingOptions {
	opts := models.ProcessingOptions{
		MaxEntries:         generateMaxEntries,
		RelevanceThreshold: generateThreshold,
		PrioritizeRecent:   generateRecent,
	}
	if Config != nil {
		if opts.MaxEntries == 0 {
			opts.MaxEntries = Config.Processing.MaxEntries
		}
		if opts.RelevanceThreshold == 0 {
			opts.RelevanceThreshold = Config.Processing.RelevanceThreshold
		}
	}
	return opts
}

func init() {
	generateCmd.Flags().StringVarP(&generateProject, "project", "p", "", "Project id (required)")
	generateCmd.Flags().StringVarP(&generateFramework, "framework", "f", "", "Framework id (defaults to the configured framework)")
	generateCmd.Flags().StringVarP(&generateStage, "stage", "s", "", "Stage id within the framework")
	generateCmd.Flags().StringVarP(&generateTool, "tool", "t", "", "Tool id within the stage")
	generateCmd.Flags().StringVarP(&generateMethod, "method", "m", "", "Prompt method id")
	generateCmd.Flags().StringVarP(&generateInstruction, "instruction", "i", "", "Task instruction")
	generateCmd.Flags().StringArrayVar(&generateVars, "var", nil, "Template variable as name=value (repeatable)")
	generateCmd.Flags().StringVar(&generateIndustry, "industry", "", "Industry profile for quality scoring (e.g. healthcare)")
	generateCmd.Flags().IntVar(&generateMaxEntries, "max-entries", 0, "Cap on ranked knowledge entries (0 uses the configured default)")
	generateCmd.Flags().Float64Var(&generateThreshold, "threshold", 0, "Relevance threshold in [0,1] (0 uses the configured default)")
	generateCmd.Flags().BoolVar(&generateRecent, "recent", true, "Blend recency into the ranking order")
	generateCmd.Flags().BoolVar(&generateYAML, "yaml", false, "Output the full response as YAML")
	_ = generateCmd.MarkFlagRequired("project")

	rootCmd.AddCommand(generateCmd)
}
