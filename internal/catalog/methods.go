package catalog

// ComplexityTier grades a method's intrinsic difficulty.
type ComplexityTier string

const (
	TierBasic        ComplexityTier = "basic"
	TierIntermediate ComplexityTier = "intermediate"
	TierAdvanced     ComplexityTier = "advanced"
)

// ParameterType constrains the value a method parameter accepts.
type ParameterType string

const (
	ParamString  ParameterType = "string"
	ParamNumber  ParameterType = "number"
	ParamBoolean ParameterType = "boolean"
	ParamArray   ParameterType = "array"
)

// MethodParameter declares one parameter of a prompt method.
type MethodParameter struct {
	Name     string
	Type     ParameterType
	Required bool
	Default  any
}

// MethodDefinition describes a prompt-engineering method: its template, the
// parameters it declares, and how hard it is to apply well.
type MethodDefinition struct {
	ID            string
	Name          string
	Description   string
	SystemRole    string
	Template      string
	Parameters    []MethodParameter
	ExampleDriven bool
	Tier          ComplexityTier
}

// Methods returns all built-in method definitions in a stable order.
func Methods() []MethodDefinition {
	out := make([]MethodDefinition, 0, len(methodOrder))
	for _, id := range methodOrder {
		out = append(out, builtinMethods[id])
	}
	return out
}

// Method looks up a method definition by id.
func Method(id string) (MethodDefinition, bool) {
	m, ok := builtinMethods[id]
	return m, ok
}

var methodOrder = []string{
	"zero-shot",
	"few-shot",
	"chain-of-thought",
	"persona",
	"tree-of-thought",
	"knowledge-grounded",
}

var builtinMethods = map[string]MethodDefinition{
	"zero-shot": {
		ID:          "zero-shot",
		Name:        "Zero-Shot",
		Description: "Direct instruction with no worked examples.",
		SystemRole:  "You are an experienced design researcher.",
		Template: `{system_role}

Task: {instruction}

{{#if constraints}}Constraints: {constraints}
{{/if}}Respond with {format}.`,
		Parameters: []MethodParameter{
			{Name: "instruction", Type: ParamString, Required: true},
			{Name: "format", Type: ParamString, Required: false, Default: "a concise, structured answer"},
			{Name: "constraints", Type: ParamArray, Required: false},
		},
		Tier: TierBasic,
	},
	"few-shot": {
		ID:          "few-shot",
		Name:        "Few-Shot",
		Description: "Instruction anchored by worked input/output examples.",
		SystemRole:  "You are an experienced design researcher who learns patterns from examples.",
		Template: `{system_role}

Task: {instruction}

Study the examples below and follow the same pattern.

{examples}

{{#if constraints}}Constraints: {constraints}
{{/if}}Now produce your answer for: {input}`,
		Parameters: []MethodParameter{
			{Name: "instruction", Type: ParamString, Required: true},
			{Name: "input", Type: ParamString, Required: true},
			{Name: "constraints", Type: ParamArray, Required: false},
		},
		ExampleDriven: true,
		Tier:          TierBasic,
	},
	"chain-of-thought": {
		ID:          "chain-of-thought",
		Name:        "Chain of Thought",
		Description: "Step-by-step reasoning before the final answer.",
		SystemRole:  "You are a methodical design researcher who reasons through problems step by step.",
		Template: `{system_role}

Task: {instruction}

Work through this in {step_count} explicit steps. For each step, state what
you are doing and why before moving on.

{{#if context}}Relevant context: {context}
{{/if}}Finish with a short conclusion that synthesizes the steps.`,
		Parameters: []MethodParameter{
			{Name: "instruction", Type: ParamString, Required: true},
			{Name: "step_count", Type: ParamNumber, Required: false, Default: 4},
			{Name: "context", Type: ParamString, Required: false},
		},
		Tier: TierIntermediate,
	},
	"persona": {
		ID:          "persona",
		Name:        "Persona",
		Description: "Answer from a named expert perspective.",
		SystemRole:  "You adopt the perspective of a domain expert.",
		Template: `You are {persona}, with deep experience in {domain}.

Task: {instruction}

Answer in the voice of {persona}, drawing on practices specific to {domain}.
{{#if audience}}Write for {audience}.
{{/if}}`,
		Parameters: []MethodParameter{
			{Name: "persona", Type: ParamString, Required: true},
			{Name: "domain", Type: ParamString, Required: true},
			{Name: "instruction", Type: ParamString, Required: true},
			{Name: "audience", Type: ParamString, Required: false},
		},
		Tier: TierIntermediate,
	},
	"tree-of-thought": {
		ID:          "tree-of-thought",
		Name:        "Tree of Thought",
		Description: "Explore several solution branches, then converge.",
		SystemRole:  "You are a design strategist who weighs alternatives before committing.",
		Template: `{system_role}

Task: {instruction}

Generate {branch_count} distinct approaches. For each approach, note its
strongest argument and its biggest risk. Then compare the approaches and
recommend one, explaining the trade-off that decided it.

{{#if criteria}}Judge the approaches against: {criteria}
{{/if}}`,
		Parameters: []MethodParameter{
			{Name: "instruction", Type: ParamString, Required: true},
			{Name: "branch_count", Type: ParamNumber, Required: false, Default: 3},
			{Name: "criteria", Type: ParamArray, Required: false},
		},
		Tier: TierAdvanced,
	},
	"knowledge-grounded": {
		ID:          "knowledge-grounded",
		Name:        "Knowledge-Grounded",
		Description: "Answer grounded in supplied knowledge-base excerpts.",
		SystemRole:  "You are a design researcher who grounds every claim in the supplied sources.",
		Template: `{system_role}

Task: {instruction}

Use only the knowledge below. Cite the source title for each claim you make.
If the knowledge does not cover something, say so instead of guessing.

Knowledge:
{knowledge}

{{#if question}}Question to answer: {question}
{{/if}}`,
		Parameters: []MethodParameter{
			{Name: "instruction", Type: ParamString, Required: true},
			{Name: "knowledge", Type: ParamString, Required: true},
			{Name: "question", Type: ParamString, Required: false},
		},
		Tier: TierAdvanced,
	},
}
