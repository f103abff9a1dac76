package models

// PromptExample is one worked input/output pair for example-driven methods.
type PromptExample struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// PromptRequest is the compiler's input: a method id plus everything the
// caller wants folded into the template.
type PromptRequest struct {
	MethodID    string          `yaml:"method_id"`
	Instruction string          `yaml:"instruction"`
	Variables   map[string]any  `yaml:"variables,omitempty"`
	Examples    []PromptExample `yaml:"examples,omitempty"`
	Constraints []string        `yaml:"constraints,omitempty"`
	SystemRole  string          `yaml:"system_role,omitempty"` // overrides the method default
}
