package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/praxiskit/praxis/internal/catalog"
	"github.com/praxiskit/praxis/pkg/models"
)

var (
	promptMethod      string
	promptInstruction string
	promptVars        []string
	promptExamples    []string
	promptConstraints []string
	promptSystemRole  string
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Compile method templates into prompts",
}

var promptCompileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile a prompt from a method template",
	Long: `Compile a prompt from one of the built-in method templates.

Variables are passed as repeated --var name=value flags and are coerced to
the type the method declares for that parameter. Examples for example-driven
methods use --example "input => output".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Compiler == nil {
			return fmt.Errorf("prompt compiler not initialized")
		}

		method := promptMethod
		if method == "" && Config != nil {
			method = Config.DefaultMethod
		}

		vars, err := parseVarFlags(method, promptVars)
		if err != nil {
			return err
		}

		examples, err := parseExampleFlags(promptExamples)
		if err != nil {
			return err
		}

		prompt, err := Compiler.Compile(models.PromptRequest{
			MethodID:    method,
			Instruction: promptInstruction,
			Variables:   vars,
			Examples:    examples,
			Constraints: promptConstraints,
			SystemRole:  promptSystemRole,
		})
		if err != nil {
			return fmt.Errorf("compiling prompt: %w", err)
		}

		fmt.Println(prompt)
		return nil
	},
}

var promptMethodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List the built-in prompt methods",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("  %-20s %-14s %s\n", "ID", "TIER", "DESCRIPTION")
		for _, m := range catalog.Methods() {
			fmt.Printf("  %-20s %-14s %s\n", m.ID, m.Tier, m.Description)
		}
		return nil
	},
}

// parseVarFlags turns repeated name=value flags into a variables map,
// coercing each value to the type the method declares for that parameter.
// Unknown names pass through as strings; the compiler rejects them if the
// method does not accept extras.
func parseVarFlags(methodID string, flags []string) (map[string]any, error) {
	if len(flags) == 0 {
		return nil, nil
	}

	params := map[string]catalog.MethodParameter{}
	if def, ok := catalog.Method(methodID); ok {
		for _, p := range def.Parameters {
			params[p.Name] = p
		}
	}

	vars := make(map[string]any, len(flags))
	for _, f := range flags {
		name, value, found := strings.Cut(f, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid --var %q (expected name=value)", f)
		}

		p, known := params[name]
		if !known {
			vars[name] = value
			continue
		}

		switch p.Type {
		case catalog.ParamNumber:
			n, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("parameter %s expects a number, got %q", name, value)
			}
			vars[name] = n
		case catalog.ParamBoolean:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("parameter %s expects a boolean, got %q", name, value)
			}
			vars[name] = b
		case catalog.ParamArray:
			parts := strings.Split(value, ",")
			items := make([]any, 0, len(parts))
			for _, part := range parts {
				if trimmed := strings.TrimSpace(part); trimmed != "" {
					items = append(items, trimmed)
				}
			}
			vars[name] = items
		default:
			vars[name] = value
		}
	}

	return vars, nil
}

// parseExampleFlags parses repeated "input => output" flags.
func parseExampleFlags(flags []string) ([]models.PromptExample, error) {
	if len(flags) == 0 {
		return nil, nil
	}

	examples := make([]models.PromptExample, 0, len(flags))
	for _, f := range flags {
		input, output, found := strings.Cut(f, "=>")
		if !found {
			return nil, fmt.Errorf("invalid --example %q (expected \"input => output\")", f)
		}
		examples = append(examples, models.PromptExample{
			Input:  strings.TrimSpace(input),
			Output: strings.TrimSpace(output),
		})
	}
	return examples, nil
}

// marshalYAML renders a value as YAML for --yaml output flags.
func marshalYAML(v any) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("formatting output: %w", err)
	}
	return string(data), nil
}

func init() {
	promptCompileCmd.Flags().StringVarP(&promptMethod, "method", "m", "", "Method id (defaults to the configured default method)")
	promptCompileCmd.Flags().StringVarP(&promptInstruction, "instruction", "i", "", "Task instruction")
	promptCompileCmd.Flags().StringArrayVar(&promptVars, "var", nil, "Template variable as name=value (repeatable)")
	promptCompileCmd.Flags().StringArrayVar(&promptExamples, "example", nil, "Worked example as \"input => output\" (repeatable)")
	promptCompileCmd.Flags().StringArrayVar(&promptConstraints, "constraint", nil, "Constraint line (repeatable)")
	promptCompileCmd.Flags().StringVar(&promptSystemRole, "system-role", "", "Override the method's default system role")

	promptCmd.AddCommand(promptCompileCmd)
	promptCmd.AddCommand(promptMethodsCmd)
	rootCmd.AddCommand(promptCmd)
}
