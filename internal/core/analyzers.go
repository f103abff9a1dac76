package core

import (
	"regexp"
	"strings"

	"github.com/praxiskit/praxis/pkg/models"
)

// analyzerFunc evaluates one quality dimension of a text, returning 0-100.
// Analyzers are pure functions of the text so scoring stays reproducible.
type analyzerFunc func(text string) int

// analyzers maps metric ids to their dedicated analyzer. Metrics without an
// entry fall back to the category-level analyzer.
var analyzers = map[string]analyzerFunc{
	"clarity":             analyzeClarity,
	"organization":        analyzeOrganization,
	"specificity":         analyzeSpecificity,
	"actionability":       analyzeActionability,
	"completeness":        analyzeCompleteness,
	"method-alignment":    analyzeMethodAlignment,
	"rigor":               analyzeRigor,
	"readability":         analyzeReadability,
	"accessibility":       analyzeAccessibility,
	"empathy-language":    analyzeEmpathyLanguage,
	"question-quality":    analyzeQuestionQuality,
	"task-realism":        analyzeTaskRealism,
	"success-criteria":    analyzeSuccessCriteria,
	"user-focus":          analyzeUserFocus,
	"divergence":          analyzeDivergence,
	"compliance-language": analyzeComplianceLanguage,
	"risk-language":       analyzeRiskLanguage,
	"inclusivity":         analyzeInclusivity,
}

// categoryFallbacks routes metrics with no dedicated analyzer to the generic
// heuristic for their category.
var categoryFallbacks = map[models.MetricCategory]analyzerFunc{
	models.CategoryStructure:   analyzeClarity,
	models.CategoryContent:     analyzeActionability,
	models.CategoryMethodology: analyzeRigor,
	models.CategoryUsability:   analyzeAccessibility,
}

// analyzerFor resolves the analyzer for a metric, preferring the dedicated
// one and falling back by category. The final fallback is a flat midpoint.
func analyzerFor(metric models.QualityMetric) analyzerFunc {
	if fn, ok := analyzers[metric.ID]; ok {
		return fn
	}
	if fn, ok := categoryFallbacks[metric.Category]; ok {
		return fn
	}
	return func(string) int { return 50 }
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// cappedCount counts keyword hits, each worth perHit points up to cap.
func cappedCount(text string, keywords []string, perHit, cap int) int {
	n := countKeywords(text, keywords) * perHit
	if n > cap {
		return cap
	}
	return n
}

var vagueWords = []string{"maybe", "somehow", "stuff", "things", "various", "some kind of", "etc"}

func analyzeClarity(text string) int {
	score := 55
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return 0
	}

	words := len(strings.Fields(text))
	avg := float64(words) / float64(len(sentences))
	if avg <= 20 {
		score += 20
	} else if avg <= 30 {
		score += 10
	}

	score -= cappedCount(text, vagueWords, 5, 20)
	if strings.Contains(text, ":") || strings.Contains(text, "- ") {
		score += 10
	}
	return clampScore(score)
}

var structureMarkers = regexp.MustCompile(`(?m)^(#{1,4} |[-*] |\d+[.)] )`)

func analyzeOrganization(text string) int {
	score := 40
	markers := len(structureMarkers.FindAllString(text, -1))
	bonus := markers * 8
	if bonus > 40 {
		bonus = 40
	}
	score += bonus

	if strings.Count(text, "\n\n") >= 2 {
		score += 10
	}
	return clampScore(score)
}

var digitPattern = regexp.MustCompile(`\d+`)

func analyzeSpecificity(text string) int {
	score := 45
	numbers := len(digitPattern.FindAllString(text, -1))
	bonus := numbers * 5
	if bonus > 25 {
		bonus = 25
	}
	score += bonus
	score += cappedCount(text, []string{"specific", "exactly", "precisely", "for example", "such as", "in particular"}, 6, 30)
	return clampScore(score)
}

var actionWords = []string{"create", "define", "identify", "analyze", "design", "test", "measure", "document", "review", "prioritize", "validate", "build"}

func analyzeActionability(text string) int {
	score := 45
	score += cappedCount(text, actionWords, 8, 40)
	if strings.Contains(strings.ToLower(text), "next step") {
		score += 10
	}
	return clampScore(score)
}

func analyzeCompleteness(text string) int {
	score := 40
	words := len(strings.Fields(text))
	bonus := words / 25
	if bonus > 35 {
		bonus = 35
	}
	score += bonus
	score += cappedCount(text, []string{"context", "goal", "outcome", "scope", "assumption"}, 5, 25)
	return clampScore(score)
}

func analyzeMethodAlignment(text string) int {
	score := 50
	score += cappedCount(text, []string{"step", "example", "perspective", "approach", "source", "reason"}, 7, 35)
	return clampScore(score)
}

var evidenceWords = []string{"because", "evidence", "data", "observed", "measured", "source", "research", "study", "interview"}

func analyzeRigor(text string) int {
	score := 45
	score += cappedCount(text, evidenceWords, 7, 42)
	return clampScore(score)
}

func analyzeReadability(text string) int {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return 0
	}
	words := len(strings.Fields(text))
	avg := float64(words) / float64(len(sentences))

	// Penalty grows with average sentence length past 15 words.
	penalty := int((avg - 15) * 3)
	if penalty < 0 {
		penalty = 0
	}
	return clampScore(90 - penalty)
}

var inclusiveTerms = []string{"accessible", "accessibility", "screen reader", "alt text", "contrast", "plain language", "inclusive", "assistive"}

func analyzeAccessibility(text string) int {
	score := 50
	score += cappedCount(text, inclusiveTerms, 10, 40)
	return clampScore(score)
}

func analyzeEmpathyLanguage(text string) int {
	score := 45
	score += cappedCount(text, []string{"tell me about", "how did you feel", "walk me through", "describe", "what was that like", "why"}, 9, 45)
	return clampScore(score)
}

func analyzeQuestionQuality(text string) int {
	score := 40
	questions := strings.Count(text, "?")
	bonus := questions * 6
	if bonus > 30 {
		bonus = 30
	}
	score += bonus
	score -= cappedCount(text, []string{"do you agree", "isn't it", "don't you think"}, 10, 20) // leading questions
	score += cappedCount(text, []string{"how", "what", "when", "where"}, 5, 20)
	return clampScore(score)
}

func analyzeTaskRealism(text string) int {
	score := 50
	score += cappedCount(text, []string{"scenario", "imagine", "you want to", "real", "typical", "everyday"}, 8, 40)
	return clampScore(score)
}

func analyzeSuccessCriteria(text string) int {
	score := 45
	score += cappedCount(text, []string{"success", "complete", "pass", "fail", "within", "criteria", "measure"}, 7, 42)
	return clampScore(score)
}

func analyzeUserFocus(text string) int {
	score := 45
	score += cappedCount(text, []string{"user", "need", "goal", "struggle", "pain point"}, 8, 40)
	score -= cappedCount(text, []string{"solution", "feature", "implement"}, 5, 15)
	return clampScore(score)
}

func analyzeDivergence(text string) int {
	score := 45
	score += cappedCount(text, []string{"quantity", "wild", "defer judgment", "build on", "as many", "no wrong"}, 9, 45)
	return clampScore(score)
}

func analyzeComplianceLanguage(text string) int {
	score := 45
	score += cappedCount(text, []string{"consent", "privacy", "confidential", "hipaa", "de-identif", "opt out"}, 9, 45)
	return clampScore(score)
}

func analyzeRiskLanguage(text string) int {
	score := 45
	score += cappedCount(text, []string{"risk", "safeguard", "mitigat", "exposure", "audit", "control"}, 9, 45)
	return clampScore(score)
}

func analyzeInclusivity(text string) int {
	score := 45
	score += cappedCount(text, []string{"inclusive", "diverse", "learner", "accommodat", "multiple formats", "language level"}, 9, 45)
	return clampScore(score)
}
