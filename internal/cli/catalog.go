package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse frameworks, stages, and tools",
}

var catalogFrameworksCmd = &cobra.Command{
	Use:   "frameworks",
	Short: "List the built-in frameworks and their stages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Catalog == nil {
			return fmt.Errorf("catalog not initialized")
		}

		for _, f := range Catalog.Frameworks() {
			fmt.Printf("%s (%s)\n", f.ID, f.Name)
			fmt.Printf("  stages: %s\n", strings.Join(f.StageIDs, " -> "))
		}
		return nil
	},
}

var catalogToolsCmd = &cobra.Command{
	Use:   "tools <stage-id>",
	Short: "List the tools available in a stage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Catalog == nil {
			return fmt.Errorf("catalog not initialized")
		}

		stage, ok := Catalog.Stage(args[0])
		if !ok {
			return fmt.Errorf("unknown stage %q", args[0])
		}

		fmt.Printf("Tools for %s (%s):\n", stage.ID, stage.Name)
		for _, tool := range Catalog.StageTools(stage.ID) {
			fmt.Printf("  %-24s %s\n", tool.ID, tool.Category)
		}
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogFrameworksCmd)
	catalogCmd.AddCommand(catalogToolsCmd)
	rootCmd.AddCommand(catalogCmd)
}
