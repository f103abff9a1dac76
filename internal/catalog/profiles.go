package catalog

import "github.com/praxiskit/praxis/pkg/models"

// CoreMetrics returns the baseline quality metric set applied to every text.
func CoreMetrics() []models.QualityMetric {
	return cloneMetrics(coreMetrics)
}

// TemplateMetrics returns extra metrics for a known template/tool profile,
// or nil when no profile exists for the id.
func TemplateMetrics(templateID string) []models.QualityMetric {
	return cloneMetrics(templateProfiles[templateID])
}

// IndustryMetrics returns extra metrics for a known industry profile, or nil
// when no profile exists for the tag.
func IndustryMetrics(industry string) []models.QualityMetric {
	return cloneMetrics(industryProfiles[industry])
}

func cloneMetrics(in []models.QualityMetric) []models.QualityMetric {
	if in == nil {
		return nil
	}
	out := make([]models.QualityMetric, len(in))
	copy(out, in)
	return out
}

var coreMetrics = []models.QualityMetric{
	{ID: "clarity", Name: "Clarity", Description: "Direct, unambiguous phrasing", Weight: 0.15, Category: models.CategoryStructure},
	{ID: "organization", Name: "Organization", Description: "Visible structure: sections, lists, ordering", Weight: 0.10, Category: models.CategoryStructure},
	{ID: "specificity", Name: "Specificity", Description: "Concrete details over generalities", Weight: 0.15, Category: models.CategoryContent},
	{ID: "actionability", Name: "Actionability", Description: "Tells the reader what to do next", Weight: 0.15, Category: models.CategoryContent},
	{ID: "completeness", Name: "Completeness", Description: "Covers the task without gaps", Weight: 0.10, Category: models.CategoryContent},
	{ID: "method-alignment", Name: "Method Alignment", Description: "Follows the declared method's shape", Weight: 0.15, Category: models.CategoryMethodology},
	{ID: "rigor", Name: "Rigor", Description: "Evidence and reasoning over assertion", Weight: 0.10, Category: models.CategoryMethodology},
	{ID: "readability", Name: "Readability", Description: "Sentence length and plain language", Weight: 0.05, Category: models.CategoryUsability},
	{ID: "accessibility", Name: "Accessibility", Description: "Inclusive, assistive-friendly language", Weight: 0.05, Category: models.CategoryUsability},
}

// templateProfiles adds metrics for specific tool templates. Profile authors
// are responsible for keeping metric ids collision-free with the core set;
// duplicates are not deduplicated at scoring time.
var templateProfiles = map[string][]models.QualityMetric{
	"user-interview": {
		{ID: "empathy-language", Name: "Empathy Language", Description: "Open, non-leading interview phrasing", Weight: 0.10, Category: models.CategoryContent},
		{ID: "question-quality", Name: "Question Quality", Description: "Open-ended questions that invite stories", Weight: 0.10, Category: models.CategoryMethodology},
	},
	"usability-test": {
		{ID: "task-realism", Name: "Task Realism", Description: "Scenarios match real usage", Weight: 0.10, Category: models.CategoryMethodology},
		{ID: "success-criteria", Name: "Success Criteria", Description: "Measurable pass/fail definitions", Weight: 0.10, Category: models.CategoryContent},
	},
	"problem-statement": {
		{ID: "user-focus", Name: "User Focus", Description: "Framed around user needs, not solutions", Weight: 0.12, Category: models.CategoryMethodology},
	},
	"brainstorming": {
		{ID: "divergence", Name: "Divergence", Description: "Encourages quantity and wild ideas", Weight: 0.10, Category: models.CategoryMethodology},
	},
}

// industryProfiles adds metrics per industry tag.
var industryProfiles = map[string][]models.QualityMetric{
	"healthcare": {
		{ID: "compliance-language", Name: "Compliance Language", Description: "Privacy and consent awareness", Weight: 0.12, Category: models.CategoryContent},
	},
	"finance": {
		{ID: "risk-language", Name: "Risk Language", Description: "Names risks and safeguards", Weight: 0.12, Category: models.CategoryContent},
	},
	"education": {
		{ID: "inclusivity", Name: "Inclusivity", Description: "Accommodates diverse learners", Weight: 0.12, Category: models.CategoryUsability},
	},
}
