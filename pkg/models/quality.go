package models

// MetricCategory groups quality metrics by the aspect of text they judge.
type MetricCategory string

const (
	CategoryStructure   MetricCategory = "structure"
	CategoryContent     MetricCategory = "content"
	CategoryUsability   MetricCategory = "usability"
	CategoryMethodology MetricCategory = "methodology"
)

// QualityMetric is a named, weighted dimension used to score generated text.
// Weights are renormalized within the active metric set at scoring time.
type QualityMetric struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Weight      float64        `yaml:"weight"`
	Category    MetricCategory `yaml:"category"`
}

// QualityScore is one metric's evaluation of a piece of text.
type QualityScore struct {
	MetricID    string   `yaml:"metric_id"`
	Score       int      `yaml:"score"` // 0-100
	Feedback    string   `yaml:"feedback,omitempty"`
	Suggestions []string `yaml:"suggestions,omitempty"`
}

// QualityBucket is the coarse grade derived from the overall score.
type QualityBucket string

const (
	BucketExcellent QualityBucket = "excellent"
	BucketGood      QualityBucket = "good"
	BucketFair      QualityBucket = "fair"
	BucketPoor      QualityBucket = "poor"
)

// QualityValidationResult aggregates per-metric scores into an overall
// weighted score, a bucket, and a human-oriented summary.
type QualityValidationResult struct {
	OverallScore    int            `yaml:"overall_score"` // 0-100
	Bucket          QualityBucket  `yaml:"bucket"`
	Scores          []QualityScore `yaml:"scores"`
	Strengths       []string       `yaml:"strengths,omitempty"`
	Weaknesses      []string       `yaml:"weaknesses,omitempty"`
	CriticalIssues  []string       `yaml:"critical_issues,omitempty"`
	Recommendations []string       `yaml:"recommendations,omitempty"`
}

// MethodValidationResult extends quality validation with method-fit analysis
// produced by the advanced validator.
type MethodValidationResult struct {
	MethodID        string   `yaml:"method_id"`
	MethodScore     int      `yaml:"method_score"`
	Coherence       int      `yaml:"coherence"`
	Effectiveness   int      `yaml:"effectiveness"`
	Appropriateness int      `yaml:"appropriateness"`
	Combined        int      `yaml:"combined"`
	Notes           []string `yaml:"notes,omitempty"`
}

// RecommendationContext is the context vector the method recommender scores
// every known method against.
type RecommendationContext struct {
	Complexity           string `yaml:"complexity"` // basic, intermediate, advanced
	NeedsExamples        bool   `yaml:"needs_examples"`
	MultiplePerspectives bool   `yaml:"multiple_perspectives"`
	DomainExpertise      bool   `yaml:"domain_expertise"`
	StepByStep           bool   `yaml:"step_by_step"`
	HasKnowledgeBase     bool   `yaml:"has_knowledge_base"`
}

// MethodRecommendation is the recommender's ranked answer.
type MethodRecommendation struct {
	PrimaryMethod string   `yaml:"primary_method"`
	Alternatives  []string `yaml:"alternatives,omitempty"`
	Reasons       []string `yaml:"reasons,omitempty"`
	Score         int      `yaml:"score"`
}
