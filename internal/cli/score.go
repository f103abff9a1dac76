package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/praxiskit/praxis/internal/observability"
	"github.com/praxiskit/praxis/pkg/models"
)

var (
	scoreTemplate string
	scoreIndustry string
	scoreYAML     bool
)

// Score report styles.
var (
	bucketExcellentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	bucketGoodStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	bucketFairStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	bucketPoorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	scoreHeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	criticalLineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	weaknessLineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	strengthLineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	recommendLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
)

var scoreCmd = &cobra.Command{
	Use:   "score [file]",
	Short: "Score text against the quality model",
	Long: `Score a piece of text against the weighted quality metrics.

Reads from the given file, or from stdin when no file (or "-") is given.
A template id extends the core metrics with tool-specific ones, and an
industry adds regulated-domain metrics.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Scorer == nil {
			return fmt.Errorf("quality scorer not initialized")
		}

		text, err := readTextArg(args)
		if err != nil {
			return err
		}

		result := Scorer.Score(text, scoreTemplate, scoreIndustry)
		observability.Emit(EventLog, "INFO", observability.EventTextScored,
			fmt.Sprintf("text scored %d (%s)", result.OverallScore, result.Bucket),
			map[string]any{"score": float64(result.OverallScore), "bucket": string(result.Bucket)})

		if scoreYAML {
			out, err := marshalYAML(result)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		}

		fmt.Println(renderScoreReport(result))
		return nil
	},
}

// readTextArg reads the text to analyze from the file argument or stdin.
func readTextArg(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

func renderScoreReport(result *models.QualityValidationResult) string {
	var b strings.Builder

	bucket := styleForBucket(result.Bucket).Render(string(result.Bucket))
	b.WriteString(fmt.Sprintf("%s  %d/100 (%s)\n\n",
		scoreHeaderStyle.Render("Overall"), result.OverallScore, bucket))

	b.WriteString(scoreHeaderStyle.Render("Metrics"))
	b.WriteString("\n")
	for _, s := range result.Scores {
		b.WriteString(fmt.Sprintf("  %-22s %3d  %s\n", s.MetricID, s.Score, s.Feedback))
	}

	writeSection := func(header string, lines []string, style lipgloss.Style) {
		if len(lines) == 0 {
			return
		}
		b.WriteString("\n")
		b.WriteString(scoreHeaderStyle.Render(header))
		b.WriteString("\n")
		for _, line := range lines {
			b.WriteString("  ")
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
	}

	writeSection("Critical issues", result.CriticalIssues, criticalLineStyle)
	writeSection("Weaknesses", result.Weaknesses, weaknessLineStyle)
	writeSection("Strengths", result.Strengths, strengthLineStyle)
	writeSection("Recommendations", result.Recommendations, recommendLineStyle)

	return strings.TrimRight(b.String(), "\n")
}

func styleForBucket(bucket models.QualityBucket) lipgloss.Style {
	switch bucket {
	case models.BucketExcellent:
		return bucketExcellentStyle
	case models.BucketGood:
		return bucketGoodStyle
	case models.BucketFair:
		return bucketFairStyle
	case models.BucketPoor:
		return bucketPoorStyle
	default:
		return lipgloss.NewStyle()
	}
}

func init() {
	scoreCmd.Flags().StringVar(&scoreTemplate, "template", "", "Template id to extend the metric set (e.g. user-interview)")
	scoreCmd.Flags().StringVar(&scoreIndustry, "industry", "", "Industry profile to extend the metric set (e.g. healthcare)")
	scoreCmd.Flags().BoolVar(&scoreYAML, "yaml", false, "Output the full result as YAML")
	rootCmd.AddCommand(scoreCmd)
}
