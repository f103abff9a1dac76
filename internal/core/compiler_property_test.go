package core

import (
	"strings"
	"testing"

	"github.com/praxiskit/praxis/internal/catalog"
	"github.com/praxiskit/praxis/pkg/models"
	"pgregory.net/rapid"
)

// Feature: prompt compiler, Property 1: Determinism
// Compiling the same request twice yields byte-identical output.
func TestProperty_CompileDeterminism(t *testing.T) {
	pc := NewPromptCompiler()
	methodIDs := methodIDList()

	rapid.Check(t, func(rt *rapid.T) {
		req := models.PromptRequest{
			MethodID:    rapid.SampledFrom(methodIDs).Draw(rt, "method"),
			Instruction: rapid.StringMatching(`[A-Za-z ]{1,60}`).Draw(rt, "instruction"),
			Variables: map[string]any{
				"format":  rapid.StringMatching(`[a-z ]{0,20}`).Draw(rt, "format"),
				"context": rapid.StringMatching(`[A-Za-z .]{0,40}`).Draw(rt, "context"),
			},
		}
		if rapid.Bool().Draw(rt, "withExamples") {
			req.Examples = []models.PromptExample{
				{Input: rapid.StringMatching(`[a-z ]{1,30}`).Draw(rt, "exIn"), Output: rapid.StringMatching(`[a-z ]{1,30}`).Draw(rt, "exOut")},
			}
		}

		first, err1 := pc.Compile(req)
		second, err2 := pc.Compile(req)
		if (err1 == nil) != (err2 == nil) {
			t.Fatalf("non-deterministic error: %v vs %v", err1, err2)
		}
		if first != second {
			t.Fatalf("non-deterministic output:\n%q\nvs\n%q", first, second)
		}
	})
}

// Feature: prompt compiler, Property 2: Placeholder closure
// Compiled output never contains an unresolved {name} placeholder or a
// conditional marker, regardless of which variables were supplied.
func TestProperty_CompilePlaceholderClosure(t *testing.T) {
	pc := NewPromptCompiler()
	methodIDs := methodIDList()

	rapid.Check(t, func(rt *rapid.T) {
		vars := map[string]any{}
		for _, name := range []string{"format", "context", "domain", "expertise", "task", "sources"} {
			if rapid.Bool().Draw(rt, "has_"+name) {
				// Values may themselves look like placeholders.
				vars[name] = rapid.StringMatching(`[A-Za-z {}_]{0,30}`).Draw(rt, name)
			}
		}

		prompt, err := pc.Compile(models.PromptRequest{
			MethodID:    rapid.SampledFrom(methodIDs).Draw(rt, "method"),
			Instruction: rapid.StringMatching(`[A-Za-z ]{1,40}`).Draw(rt, "instruction"),
			Variables:   vars,
		})
		if err != nil {
			t.Fatalf("Compile failed: %v", err)
		}

		if placeholderPattern.MatchString(prompt) {
			t.Fatalf("unresolved placeholder in output:\n%s", prompt)
		}
		for _, marker := range []string{"{{#if", "{{/if}}"} {
			if strings.Contains(prompt, marker) {
				t.Fatalf("conditional marker %q left in output:\n%s", marker, prompt)
			}
		}
	})
}

func methodIDList() []string {
	var ids []string
	for _, m := range catalog.Methods() {
		ids = append(ids, m.ID)
	}
	return ids
}
