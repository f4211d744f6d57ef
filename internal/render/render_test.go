package render

import (
	"strings"
	"testing"

	"promptforge/internal/intent"
	"promptforge/internal/spec"
)

func TestRenderLayout(t *testing.T) {
	s := &spec.Spec{
		SystemInstruction: "Be precise.",
		Sections: []spec.Section{
			{
				Heading:     "Summary",
				Instruction: "Summarize it.",
				InjectedBlocks: []spec.InjectedBlock{
					{Label: "Revenue", Content: "Revenue grew 14%."},
					{Label: "Churn", Content: "Churn held flat."},
				},
			},
			{Heading: "Risks", Instruction: "List risks."},
		},
		Constraints: []intent.Constraint{
			{Kind: "tone", Value: "formal"},
		},
	}

	got := Render(s)
	want := `Be precise.

## Summary
Summarize it.

[Context: Revenue]
Revenue grew 14%.

---

[Context: Churn]
Churn held flat.

## Risks
List risks.

Constraints:
- tone: formal
`
	if got != want {
		t.Errorf("layout mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestRenderNoConstraintsBlock(t *testing.T) {
	s := &spec.Spec{
		SystemInstruction: "Be precise.",
		Sections:          []spec.Section{{Heading: "Summary", Instruction: "Go."}},
	}

	if strings.Contains(Render(s), "Constraints:") {
		t.Error("constraints block must be omitted when there are none")
	}
}

func TestRenderDeterministic(t *testing.T) {
	s := &spec.Spec{
		SystemInstruction: "Stay consistent.",
		Sections: []spec.Section{
			{Heading: "A", Instruction: "a", InjectedBlocks: []spec.InjectedBlock{{Label: "L", Content: "c"}}},
			{Heading: "B", Instruction: "b"},
		},
	}

	first := Render(s)
	for i := 0; i < 10; i++ {
		if Render(s) != first {
			t.Fatal("render output varies between calls")
		}
	}
}
