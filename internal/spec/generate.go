package spec

import (
	"github.com/google/uuid"

	"promptforge/internal/artifact"
	"promptforge/internal/intent"
	"promptforge/internal/template"
)

// GenerateInput carries everything the generator assembles into a Spec.
// Blocks maps section headings to their selected blocks.
type GenerateInput struct {
	RawInput    string
	Template    *template.Template
	Dial        int
	TokenBudget int
	Parsed      *intent.Result
	Refs        []artifact.Ref
	Blocks      map[string][]InjectedBlock
}

// Generate is pure assembly: it filters sections by dial, attaches injected
// blocks, and copies parser and resolver output. Meta stays zeroed except for
// the timestamp fields the driver fills after rendering and linting.
func Generate(in GenerateInput) *Spec {
	s := &Spec{
		ID:                uuid.NewString(),
		RawInput:          in.RawInput,
		TemplateID:        in.Template.ID,
		Dial:              in.Dial,
		TokenBudget:       in.TokenBudget,
		SystemInstruction: in.Template.SystemInstruction,
		Constraints:       in.Parsed.Constraints,
		ArtifactRefs:      in.Refs,
	}

	if s.Constraints == nil {
		s.Constraints = []intent.Constraint{}
	}
	if s.ArtifactRefs == nil {
		s.ArtifactRefs = []artifact.Ref{}
	}

	for _, sec := range in.Template.SectionsForDial(in.Dial) {
		blocks := in.Blocks[sec.Heading]
		if blocks == nil {
			blocks = []InjectedBlock{}
		}
		s.Sections = append(s.Sections, Section{
			Heading:        sec.Heading,
			Instruction:    sec.Instruction,
			MinDial:        sec.MinDial,
			Required:       sec.Required,
			InjectedBlocks: blocks,
		})
	}
	if s.Sections == nil {
		s.Sections = []Section{}
	}

	return s
}
