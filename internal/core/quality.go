package core

import (
	"fmt"
	"math"
	"sort"

	"github.com/praxiskit/praxis/internal/catalog"
	"github.com/praxiskit/praxis/pkg/models"
)

// Summary derivation thresholds and caps.
const (
	strengthFloor      = 80
	criticalCeiling    = 50
	maxStrengths       = 5
	maxWeaknesses      = 5
	maxCriticalIssues  = 3
	maxRecommendations = 8
)

// QualityScorer evaluates generated text against a weighted metric set and,
// in advanced mode, against the shape of a declared prompt method.
type QualityScorer interface {
	// Score evaluates text against the core metrics plus any template and
	// industry profile extensions. Empty templateID or industry skip the
	// corresponding profile lookup.
	Score(text, templateID, industry string) *models.QualityValidationResult

	// ValidateMethodText runs the advanced validator: method-shape fit,
	// coherence, effectiveness, and tier appropriateness, combined with
	// fixed weights. Unknown method ids fail before any analysis.
	ValidateMethodText(methodID, text, taskComplexity string) (*models.MethodValidationResult, error)
}

type qualityScorer struct{}

// NewQualityScorer creates the default scorer backed by the built-in
// analyzer table.
func NewQualityScorer() QualityScorer {
	return &qualityScorer{}
}

func (q *qualityScorer) Score(text, templateID, industry string) *models.QualityValidationResult {
	metrics := catalog.CoreMetrics()
	if templateID != "" {
		metrics = append(metrics, catalog.TemplateMetrics(templateID)...)
	}
	if industry != "" {
		metrics = append(metrics, catalog.IndustryMetrics(industry)...)
	}

	scores := make([]models.QualityScore, 0, len(metrics))
	var weightedSum, weightTotal float64
	for _, metric := range metrics {
		value := analyzerFor(metric)(text)
		scores = append(scores, models.QualityScore{
			MetricID:    metric.ID,
			Score:       value,
			Feedback:    metricFeedback(metric, value),
			Suggestions: metricSuggestions(metric, value),
		})
		weightedSum += float64(value) * metric.Weight
		weightTotal += metric.Weight
	}

	overall := 0
	if weightTotal > 0 {
		// Weights are renormalized over the active set so profile
		// extensions never push the total above 100.
		overall = int(math.Round(weightedSum / weightTotal))
	}

	result := &models.QualityValidationResult{
		OverallScore: overall,
		Bucket:       bucketFor(overall),
		Scores:       scores,
	}
	summarize(result, metrics)
	return result
}

// bucketFor maps an overall score onto the coarse grade.
func bucketFor(score int) models.QualityBucket {
	switch {
	case score >= 85:
		return models.BucketExcellent
	case score >= 70:
		return models.BucketGood
	case score >= 55:
		return models.BucketFair
	default:
		return models.BucketPoor
	}
}

// summarize fills the strengths, weaknesses, critical issues, and
// recommendation lists from the per-metric scores.
func summarize(result *models.QualityValidationResult, metrics []models.QualityMetric) {
	names := make(map[string]string, len(metrics))
	for _, m := range metrics {
		names[m.ID] = m.Name
	}

	// Worst metrics first so the caps keep the most urgent entries.
	ordered := make([]models.QualityScore, len(result.Scores))
	copy(ordered, result.Scores)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Score < ordered[j].Score })

	seen := make(map[string]bool)
	add := func(list []string, cap int, entry string) []string {
		if entry == "" || seen[entry] || len(list) >= cap {
			return list
		}
		seen[entry] = true
		return append(list, entry)
	}

	for _, s := range ordered {
		name := names[s.MetricID]
		switch {
		case s.Score < criticalCeiling:
			result.CriticalIssues = add(result.CriticalIssues, maxCriticalIssues,
				fmt.Sprintf("%s is critically low (%d/100)", name, s.Score))
			for _, sug := range s.Suggestions {
				result.Recommendations = add(result.Recommendations, maxRecommendations, sug)
			}
		case s.Score < strengthFloor:
			result.Weaknesses = add(result.Weaknesses, maxWeaknesses,
				fmt.Sprintf("%s could be stronger (%d/100)", name, s.Score))
			if len(s.Suggestions) > 0 {
				result.Recommendations = add(result.Recommendations, maxRecommendations, s.Suggestions[0])
			}
		}
	}

	// Strengths read best in metric-set order, highest signal first.
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Score > ordered[j].Score })
	for _, s := range ordered {
		if s.Score >= strengthFloor {
			result.Strengths = add(result.Strengths, maxStrengths,
				fmt.Sprintf("%s is strong (%d/100)", names[s.MetricID], s.Score))
		}
	}
}

func metricFeedback(metric models.QualityMetric, score int) string {
	switch {
	case score >= strengthFloor:
		return fmt.Sprintf("%s: good", metric.Name)
	case score >= criticalCeiling:
		return fmt.Sprintf("%s: adequate, room to improve", metric.Name)
	default:
		return fmt.Sprintf("%s: needs attention", metric.Name)
	}
}

// suggestionCatalog holds the improvement hint surfaced when a metric scores
// below the strength floor.
var suggestionCatalog = map[string]string{
	"clarity":             "Shorten sentences and replace vague words with concrete ones",
	"organization":        "Add headings or bullet lists to expose the structure",
	"specificity":         "Add concrete numbers, names, and examples",
	"actionability":       "State explicit next actions using verbs like define, test, or measure",
	"completeness":        "Cover context, goal, and scope before the details",
	"method-alignment":    "Follow the declared method's shape: steps, examples, or perspectives",
	"rigor":               "Back claims with data, observations, or sources",
	"readability":         "Break long sentences up; aim for plain language",
	"accessibility":       "Use inclusive, assistive-friendly language",
	"empathy-language":    "Ask open questions like \"tell me about\" or \"walk me through\"",
	"question-quality":    "Replace leading questions with open-ended ones",
	"task-realism":        "Ground tasks in realistic, everyday scenarios",
	"success-criteria":    "Define measurable pass and fail conditions",
	"user-focus":          "Frame the problem around user needs, not solutions",
	"divergence":          "Invite quantity and wild ideas; defer judgment",
	"compliance-language": "Address consent, privacy, and data handling explicitly",
	"risk-language":       "Name the risks and the safeguards against them",
	"inclusivity":         "Accommodate diverse learners and language levels",
}

func metricSuggestions(metric models.QualityMetric, score int) []string {
	if score >= strengthFloor {
		return nil
	}
	if s, ok := suggestionCatalog[metric.ID]; ok {
		return []string{s}
	}
	return []string{fmt.Sprintf("Improve %s: %s", metric.Name, metric.Description)}
}

// Advanced validator weights.
const (
	weightMethodSpecific  = 0.4
	weightCoherence       = 0.2
	weightEffectiveness   = 0.25
	weightAppropriateness = 0.15
)

func (q *qualityScorer) ValidateMethodText(methodID, text, taskComplexity string) (*models.MethodValidationResult, error) {
	method, ok := catalog.Method(methodID)
	if !ok {
		return nil, ErrUnknownMethod(methodID)
	}

	result := &models.MethodValidationResult{
		MethodID:        methodID,
		MethodScore:     methodShapeScore(method, text),
		Coherence:       analyzeCoherence(text),
		Effectiveness:   analyzeEffectiveness(text),
		Appropriateness: tierAppropriateness(method.Tier, taskComplexity),
	}
	result.Combined = int(math.Round(
		float64(result.MethodScore)*weightMethodSpecific +
			float64(result.Coherence)*weightCoherence +
			float64(result.Effectiveness)*weightEffectiveness +
			float64(result.Appropriateness)*weightAppropriateness))

	if result.MethodScore < criticalCeiling {
		result.Notes = append(result.Notes,
			fmt.Sprintf("text does not follow the %s shape; revisit the method's template", method.Name))
	}
	if result.Appropriateness < criticalCeiling {
		result.Notes = append(result.Notes,
			fmt.Sprintf("%s is a %s method; the declared task complexity is %q", method.Name, method.Tier, taskComplexity))
	}
	return result, nil
}

// methodShapeScore checks for the structural fingerprints each method leaves
// in well-formed text.
func methodShapeScore(method catalog.MethodDefinition, text string) int {
	score := 50
	switch method.ID {
	case "zero-shot":
		score += cappedCount(text, []string{"task", "respond", "format"}, 10, 30)
	case "few-shot":
		score += cappedCount(text, []string{"example", "input:", "output:"}, 12, 36)
	case "chain-of-thought":
		score += cappedCount(text, []string{"step", "first", "then", "therefore", "reason"}, 9, 45)
	case "persona":
		score += cappedCount(text, []string{"you are", "as a", "expert", "experience", "perspective"}, 9, 45)
	case "tree-of-thought":
		score += cappedCount(text, []string{"approach", "alternative", "branch", "evaluate", "compare"}, 9, 45)
	case "knowledge-grounded":
		score += cappedCount(text, []string{"source", "according to", "cite", "reference", "grounded"}, 9, 45)
	}
	return clampScore(score)
}

func analyzeCoherence(text string) int {
	score := 45
	score += cappedCount(text, []string{"first", "then", "next", "because", "therefore", "finally", "however"}, 8, 48)
	return clampScore(score)
}

func analyzeEffectiveness(text string) int {
	score := 45
	score += cappedCount(text, actionWords, 5, 25)
	score += cappedCount(text, []string{"result", "outcome", "achieve", "deliver", "impact"}, 6, 30)
	return clampScore(score)
}

// tierAppropriateness compares the method's intrinsic difficulty with the
// declared task complexity. Unknown complexity is treated as neutral.
func tierAppropriateness(tier catalog.ComplexityTier, taskComplexity string) int {
	rank := map[string]int{
		string(catalog.TierBasic):        0,
		string(catalog.TierIntermediate): 1,
		string(catalog.TierAdvanced):     2,
	}
	want, ok := rank[taskComplexity]
	if !ok {
		return 70
	}
	have := rank[string(tier)]

	switch distance := abs(want - have); distance {
	case 0:
		return 90
	case 1:
		return 65
	default:
		return 40
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
