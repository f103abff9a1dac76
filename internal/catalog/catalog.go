// Package catalog holds the static reference data the engines resolve
// against: methodology frameworks with their stages and tools, prompt
// methods, and quality-metric profiles. Everything here is read-only and
// keyed by string id.
package catalog

// Framework is a staged methodology (e.g. design thinking) a project runs.
type Framework struct {
	ID       string
	Name     string
	Category string
	StageIDs []string
}

// Stage is one phase of a framework.
type Stage struct {
	ID       string
	Name     string
	Category string
	ToolIDs  []string
}

// Tool is a concrete activity practitioners use within a stage.
type Tool struct {
	ID       string
	Name     string
	Category string
}

// Catalog provides lookups over the static framework/stage/tool data.
type Catalog interface {
	Framework(id string) (Framework, bool)
	Stage(id string) (Stage, bool)
	Tool(id string) (Tool, bool)
	Frameworks() []Framework
	StageTools(stageID string) []Tool
	NextStage(frameworkID, stageID string) (Stage, bool)
}

type staticCatalog struct {
	frameworks map[string]Framework
	stages     map[string]Stage
	tools      map[string]Tool
	order      []string
}

// NewCatalog returns the built-in reference catalog.
func NewCatalog() Catalog {
	c := &staticCatalog{
		frameworks: make(map[string]Framework),
		stages:     make(map[string]Stage),
		tools:      make(map[string]Tool),
	}
	for _, f := range builtinFrameworks {
		c.frameworks[f.ID] = f
		c.order = append(c.order, f.ID)
	}
	for _, s := range builtinStages {
		c.stages[s.ID] = s
	}
	for _, t := range builtinTools {
		c.tools[t.ID] = t
	}
	return c
}

func (c *staticCatalog) Framework(id string) (Framework, bool) {
	f, ok := c.frameworks[id]
	return f, ok
}

func (c *staticCatalog) Stage(id string) (Stage, bool) {
	s, ok := c.stages[id]
	return s, ok
}

func (c *staticCatalog) Tool(id string) (Tool, bool) {
	t, ok := c.tools[id]
	return t, ok
}

func (c *staticCatalog) Frameworks() []Framework {
	out := make([]Framework, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.frameworks[id])
	}
	return out
}

func (c *staticCatalog) StageTools(stageID string) []Tool {
	stage, ok := c.stages[stageID]
	if !ok {
		return nil
	}
	var out []Tool
	for _, id := range stage.ToolIDs {
		if t, ok := c.tools[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

// NextStage returns the stage following stageID in the framework's declared
// order, or false when stageID is the last stage or unknown.
func (c *staticCatalog) NextStage(frameworkID, stageID string) (Stage, bool) {
	f, ok := c.frameworks[frameworkID]
	if !ok {
		return Stage{}, false
	}
	for i, id := range f.StageIDs {
		if id == stageID && i+1 < len(f.StageIDs) {
			return c.stages[f.StageIDs[i+1]], true
		}
	}
	return Stage{}, false
}

var builtinFrameworks = []Framework{
	{
		ID:       "design-thinking",
		Name:     "Design Thinking",
		Category: "human-centered",
		StageIDs: []string{"empathize", "define", "ideate", "prototype", "test"},
	},
	{
		ID:       "double-diamond",
		Name:     "Double Diamond",
		Category: "human-centered",
		StageIDs: []string{"discover", "define", "develop", "deliver"},
	},
	{
		ID:       "lean-ux",
		Name:     "Lean UX",
		Category: "iterative",
		StageIDs: []string{"hypothesize", "build", "measure", "learn"},
	},
}

var builtinStages = []Stage{
	{ID: "empathize", Name: "Empathize", Category: "research", ToolIDs: []string{"user-interview", "field-observation", "empathy-map"}},
	{ID: "define", Name: "Define", Category: "synthesis", ToolIDs: []string{"affinity-mapping", "problem-statement", "persona"}},
	{ID: "ideate", Name: "Ideate", Category: "ideation", ToolIDs: []string{"brainstorming", "how-might-we", "crazy-eights"}},
	{ID: "prototype", Name: "Prototype", Category: "prototyping", ToolIDs: []string{"paper-prototype", "wireframe", "storyboard"}},
	{ID: "test", Name: "Test", Category: "evaluation", ToolIDs: []string{"usability-test", "feedback-capture", "accessibility-review"}},
	{ID: "discover", Name: "Discover", Category: "research", ToolIDs: []string{"user-interview", "field-observation", "diary-study"}},
	{ID: "develop", Name: "Develop", Category: "ideation", ToolIDs: []string{"brainstorming", "co-design-workshop", "wireframe"}},
	{ID: "deliver", Name: "Deliver", Category: "evaluation", ToolIDs: []string{"usability-test", "pilot-launch", "feedback-capture"}},
	{ID: "hypothesize", Name: "Hypothesize", Category: "synthesis", ToolIDs: []string{"assumption-mapping", "problem-statement"}},
	{ID: "build", Name: "Build", Category: "prototyping", ToolIDs: []string{"wireframe", "paper-prototype"}},
	{ID: "measure", Name: "Measure", Category: "evaluation", ToolIDs: []string{"usability-test", "analytics-review"}},
	{ID: "learn", Name: "Learn", Category: "synthesis", ToolIDs: []string{"affinity-mapping", "retrospective"}},
}

var builtinTools = []Tool{
	{ID: "user-interview", Name: "User Interview", Category: "research"},
	{ID: "field-observation", Name: "Field Observation", Category: "research"},
	{ID: "diary-study", Name: "Diary Study", Category: "research"},
	{ID: "empathy-map", Name: "Empathy Map", Category: "synthesis"},
	{ID: "affinity-mapping", Name: "Affinity Mapping", Category: "synthesis"},
	{ID: "problem-statement", Name: "Problem Statement", Category: "synthesis"},
	{ID: "persona", Name: "Persona", Category: "synthesis"},
	{ID: "assumption-mapping", Name: "Assumption Mapping", Category: "synthesis"},
	{ID: "retrospective", Name: "Retrospective", Category: "synthesis"},
	{ID: "brainstorming", Name: "Brainstorming", Category: "ideation"},
	{ID: "how-might-we", Name: "How Might We", Category: "ideation"},
	{ID: "crazy-eights", Name: "Crazy Eights", Category: "ideation"},
	{ID: "co-design-workshop", Name: "Co-Design Workshop", Category: "ideation"},
	{ID: "paper-prototype", Name: "Paper Prototype", Category: "prototyping"},
	{ID: "wireframe", Name: "Wireframe", Category: "prototyping"},
	{ID: "storyboard", Name: "Storyboard", Category: "prototyping"},
	{ID: "usability-test", Name: "Usability Test", Category: "evaluation"},
	{ID: "feedback-capture", Name: "Feedback Capture", Category: "evaluation"},
	{ID: "accessibility-review", Name: "Accessibility Review", Category: "evaluation"},
	{ID: "pilot-launch", Name: "Pilot Launch", Category: "evaluation"},
	{ID: "analytics-review", Name: "Analytics Review", Category: "evaluation"},
}
