package core

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/praxiskit/praxis/internal/catalog"
	"github.com/praxiskit/praxis/pkg/models"
)

// PromptCompiler resolves a method's template against caller-supplied
// variables, examples, and constraints into final prompt text.
type PromptCompiler interface {
	Compile(req models.PromptRequest) (string, error)
	ValidateParameters(methodID string, vars map[string]any) error
}

type promptCompiler struct{}

// NewPromptCompiler creates a PromptCompiler over the built-in method catalog.
func NewPromptCompiler() PromptCompiler {
	return &promptCompiler{}
}

// placeholderPattern matches a single {identifier} placeholder.
var placeholderPattern = regexp.MustCompile(`\{[a-zA-Z_][a-zA-Z0-9_]*\}`)

// blankRunPattern matches three or more consecutive newlines.
var blankRunPattern = regexp.MustCompile(`\n{3,}`)

// Compile resolves the method template. Resolution order: the method's
// system role (overridable by the request), declared parameter defaults,
// caller variables, then examples for example-driven methods. Unresolved
// placeholders are deleted and blank-line runs collapsed, so compiling the
// same request twice yields byte-identical output.
func (pc *promptCompiler) Compile(req models.PromptRequest) (string, error) {
	method, ok := catalog.Method(req.MethodID)
	if !ok {
		return "", ErrUnknownMethod(req.MethodID)
	}

	vars := make(map[string]any, len(req.Variables)+4)

	// Declared parameter defaults first, caller values on top.
	for _, p := range method.Parameters {
		if p.Default != nil {
			vars[p.Name] = p.Default
		}
	}
	for k, v := range req.Variables {
		vars[k] = v
	}

	systemRole := method.SystemRole
	if req.SystemRole != "" {
		systemRole = req.SystemRole
	}
	vars["system_role"] = systemRole

	if req.Instruction != "" {
		vars["instruction"] = req.Instruction
	}
	if len(req.Constraints) > 0 {
		vars["constraints"] = req.Constraints
	}

	text, err := resolveConditionals(method.Template, vars)
	if err != nil {
		return "", fmt.Errorf("compiling %s: %w", method.ID, err)
	}

	// Examples go in before the placeholder pass so stray {name} tokens
	// inside example content are cleaned up like any other placeholder.
	if method.ExampleDriven && strings.Contains(text, "{examples}") {
		text = strings.ReplaceAll(text, "{examples}", formatExamples(req.Examples))
	}

	text = placeholderPattern.ReplaceAllStringFunc(text, func(ph string) string {
		name := ph[1 : len(ph)-1]
		v, ok := vars[name]
		if !ok || v == nil {
			return ""
		}
		return coerceValue(v)
	})

	// Substituted values can themselves carry {identifier} text. Strip until
	// none remain; deleting a token can expose a new match around it.
	for placeholderPattern.MatchString(text) {
		text = placeholderPattern.ReplaceAllString(text, "")
	}

	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text), nil
}

// ValidateParameters checks caller variables against the method's declared
// parameter schema. Parameters the method does not declare are ignored.
func (pc *promptCompiler) ValidateParameters(methodID string, vars map[string]any) error {
	method, ok := catalog.Method(methodID)
	if !ok {
		return ErrUnknownMethod(methodID)
	}

	for _, p := range method.Parameters {
		v, present := vars[p.Name]
		if !present || v == nil {
			if p.Required && p.Default == nil {
				return &ValidationError{
					Code:    CodeMissingParameter,
					Param:   p.Name,
					Message: "required parameter is missing",
				}
			}
			continue
		}
		if !matchesType(v, p.Type) {
			return &ValidationError{
				Code:    CodeInvalidParameterType,
				Param:   p.Name,
				Message: fmt.Sprintf("expected %s, got %T", p.Type, v),
			}
		}
	}
	return nil
}

func matchesType(v any, t catalog.ParameterType) bool {
	switch t {
	case catalog.ParamString:
		_, ok := v.(string)
		return ok
	case catalog.ParamNumber:
		switch v.(type) {
		case int, int32, int64, float32, float64:
			return true
		}
		return false
	case catalog.ParamBoolean:
		_, ok := v.(bool)
		return ok
	case catalog.ParamArray:
		switch v.(type) {
		case []any, []string:
			return true
		}
		return false
	}
	return false
}

// resolveConditionals evaluates {{#if name}}...{{/if}} blocks against the
// truthiness of the variable map. Unknown names evaluate false. Nested
// conditionals are rejected rather than guessed at.
func resolveConditionals(text string, vars map[string]any) (string, error) {
	const (
		openTag  = "{{#if "
		closeTag = "{{/if}}"
	)

	var sb strings.Builder
	for {
		start := strings.Index(text, openTag)
		if start < 0 {
			sb.WriteString(text)
			return sb.String(), nil
		}
		sb.WriteString(text[:start])

		rest := text[start+len(openTag):]
		nameEnd := strings.Index(rest, "}}")
		if nameEnd < 0 {
			return "", &ValidationError{Code: CodeInvalidArgument, Message: "unterminated conditional tag"}
		}
		name := strings.TrimSpace(rest[:nameEnd])
		body := rest[nameEnd+2:]

		end := strings.Index(body, closeTag)
		if end < 0 {
			return "", &ValidationError{Code: CodeInvalidArgument, Message: fmt.Sprintf("conditional %q has no closing tag", name)}
		}
		inner := body[:end]
		if strings.Contains(inner, openTag) {
			return "", &ValidationError{Code: CodeInvalidArgument, Message: fmt.Sprintf("nested conditional inside %q is not supported", name)}
		}

		if truthy(vars[name]) {
			sb.WriteString(inner)
		}
		text = body[end+len(closeTag):]
	}
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	case []any:
		return len(val) > 0
	case []string:
		return len(val) > 0
	default:
		return true
	}
}

// coerceValue renders a variable value into prompt text. Slices join with
// ", "; maps JSON-encode; everything else renders via strconv.
func coerceValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, coerceValue(item))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		data, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// formatExamples renders worked examples as numbered input/output pairs.
func formatExamples(examples []models.PromptExample) string {
	if len(examples) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, ex := range examples {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "Example %d:\nInput: %s\nOutput: %s", i+1, ex.Input, ex.Output)
	}
	return sb.String()
}
