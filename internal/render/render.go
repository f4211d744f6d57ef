// Package render serializes a Spec to its final text form. The layout is
// fixed: same Spec in, same bytes out.
package render

import (
	"strings"

	"promptforge/internal/spec"
)

const blockRule = "---"

// Render produces the final prompt text for s.
func Render(s *spec.Spec) string {
	var b strings.Builder

	if s.SystemInstruction != "" {
		b.WriteString(s.SystemInstruction)
		b.WriteString("\n")
	}

	for _, sec := range s.Sections {
		b.WriteString("\n## ")
		b.WriteString(sec.Heading)
		b.WriteString("\n")
		if sec.Instruction != "" {
			b.WriteString(sec.Instruction)
			b.WriteString("\n")
		}

		for i, blk := range sec.InjectedBlocks {
			if i > 0 {
				b.WriteString("\n")
				b.WriteString(blockRule)
				b.WriteString("\n")
			}
			b.WriteString("\n[Context: ")
			b.WriteString(blk.Label)
			b.WriteString("]\n")
			b.WriteString(blk.Content)
			b.WriteString("\n")
		}
	}

	if len(s.Constraints) > 0 {
		b.WriteString("\nConstraints:\n")
		for _, c := range s.Constraints {
			b.WriteString("- ")
			b.WriteString(c.String())
			b.WriteString("\n")
		}
	}

	return b.String()
}
