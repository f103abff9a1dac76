package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/praxiskit/praxis/pkg/models"
)

var (
	knowledgeTitle   string
	knowledgeContent string
	knowledgeType    string
	knowledgeTags    []string
)

var knowledgeCmd = &cobra.Command{
	Use:     "knowledge",
	Aliases: []string{"kb"},
	Short:   "Manage the knowledge base",
}

var knowledgeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a knowledge entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if KnowledgeStore == nil {
			return fmt.Errorf("knowledge store not initialized")
		}

		id, err := KnowledgeStore.AddEntry(models.KnowledgeEntry{
			Title:     knowledgeTitle,
			Content:   knowledgeContent,
			Type:      models.KnowledgeEntryType(knowledgeType),
			Tags:      knowledgeTags,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("adding entry: %w", err)
		}

		fmt.Printf("Added %s: %s\n", id, knowledgeTitle)
		return nil
	},
}

var knowledgeSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search knowledge entries by title, content, or tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if KnowledgeStore == nil {
			return fmt.Errorf("knowledge store not initialized")
		}

		entries, err := KnowledgeStore.Search(args[0])
		if err != nil {
			return fmt.Errorf("searching knowledge: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No matching entries.")
			return nil
		}

		printKnowledgeTable(entries)
		return nil
	},
}

var knowledgeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all knowledge entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if KnowledgeStore == nil {
			return fmt.Errorf("knowledge store not initialized")
		}

		entries, err := KnowledgeStore.GetAllEntries()
		if err != nil {
			return fmt.Errorf("listing knowledge: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("Knowledge base is empty.")
			return nil
		}

		printKnowledgeTable(entries)
		return nil
	},
}

func printKnowledgeTable(entries []models.KnowledgeEntry) {
	fmt.Printf("  %-10s %-12s %-32s %s\n", "ID", "TYPE", "TITLE", "TAGS")
	for _, e := range entries {
		fmt.Printf("  %-10s %-12s %-32s %s\n",
			e.ID, e.Type, truncate(e.Title, 32), strings.Join(e.Tags, ","))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func init() {
	knowledgeAddCmd.Flags().StringVar(&knowledgeTitle, "title", "", "Entry title (required)")
	knowledgeAddCmd.Flags().StringVar(&knowledgeContent, "content", "", "Entry body (required)")
	knowledgeAddCmd.Flags().StringVar(&knowledgeType, "type", "research", "Entry type: research, guideline, pattern, case_study, or output")
	knowledgeAddCmd.Flags().StringArrayVar(&knowledgeTags, "tag", nil, "Tag (repeatable)")
	_ = knowledgeAddCmd.MarkFlagRequired("title")
	_ = knowledgeAddCmd.MarkFlagRequired("content")

	knowledgeCmd.AddCommand(knowledgeAddCmd)
	knowledgeCmd.AddCommand(knowledgeSearchCmd)
	knowledgeCmd.AddCommand(knowledgeListCmd)
	rootCmd.AddCommand(knowledgeCmd)
}
