package spec

import (
	"fmt"

	"github.com/google/uuid"

	"promptforge/internal/artifact"
	"promptforge/internal/intent"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult reports the outcome of Validate. Data is set only when the
// spec is valid, possibly after the single repair pass.
type ValidationResult struct {
	Valid    bool         `json:"valid"`
	Data     *Spec        `json:"data,omitempty"`
	Errors   []FieldError `json:"errors,omitempty"`
	Repaired bool         `json:"repaired"`
}

// Validate checks a candidate Spec against the structural contract. On
// failure it applies one repair pass and revalidates once; there is no retry
// loop. The input is never mutated.
func Validate(s *Spec) ValidationResult {
	if s == nil {
		return ValidationResult{Errors: []FieldError{{Field: "spec", Message: "spec is nil"}}}
	}

	if errs := check(s); len(errs) == 0 {
		return ValidationResult{Valid: true, Data: s}
	}

	repaired := Repair(s)
	if errs := check(repaired); len(errs) > 0 {
		return ValidationResult{Errors: errs, Repaired: true}
	}
	return ValidationResult{Valid: true, Data: repaired, Repaired: true}
}

func check(s *Spec) []FieldError {
	var errs []FieldError

	if s.ID == "" {
		errs = append(errs, FieldError{Field: "id", Message: "missing"})
	}
	if s.TemplateID == "" {
		errs = append(errs, FieldError{Field: "templateId", Message: "missing"})
	}
	if s.Dial < 0 || s.Dial > 5 {
		errs = append(errs, FieldError{Field: "dial", Message: fmt.Sprintf("out of range: %d", s.Dial)})
	}
	if s.TokenBudget < 0 {
		errs = append(errs, FieldError{Field: "tokenBudget", Message: fmt.Sprintf("negative: %d", s.TokenBudget)})
	}
	if s.Constraints == nil {
		errs = append(errs, FieldError{Field: "constraints", Message: "missing"})
	}
	if s.ArtifactRefs == nil {
		errs = append(errs, FieldError{Field: "artifactRefs", Message: "missing"})
	}
	if s.Sections == nil {
		errs = append(errs, FieldError{Field: "sections", Message: "missing"})
	}
	for i, sec := range s.Sections {
		if sec.Heading == "" {
			errs = append(errs, FieldError{Field: fmt.Sprintf("sections[%d].heading", i), Message: "missing"})
		}
		if sec.InjectedBlocks == nil {
			errs = append(errs, FieldError{Field: fmt.Sprintf("sections[%d].injectedBlocks", i), Message: "missing"})
		}
	}
	if s.Meta.TotalTokens < 0 || s.Meta.CompileDurationMs < 0 || s.Meta.LintScore < 0 || s.Meta.LintScore > 100 {
		errs = append(errs, FieldError{Field: "meta", Message: "invalid"})
	}

	return errs
}

// Repair returns a copy of s with the fixed default-fill set applied. The
// fills are idempotent: repairing already-repaired data changes nothing.
// Structural problems outside the fill set (a missing template id, a section
// without a heading) are left for the revalidation to report.
func Repair(s *Spec) *Spec {
	out := *s

	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	if out.Dial < 0 || out.Dial > 5 {
		out.Dial = 3
	}
	if out.TokenBudget < 0 {
		out.TokenBudget = 0
	}
	if out.Constraints == nil {
		out.Constraints = []intent.Constraint{}
	}
	if out.ArtifactRefs == nil {
		out.ArtifactRefs = []artifact.Ref{}
	}
	if out.Sections == nil {
		out.Sections = []Section{}
	}

	sections := make([]Section, len(out.Sections))
	copy(sections, out.Sections)
	for i := range sections {
		if sections[i].InjectedBlocks == nil {
			sections[i].InjectedBlocks = []InjectedBlock{}
		}
	}
	out.Sections = sections

	if out.Meta.TotalTokens < 0 || out.Meta.CompileDurationMs < 0 ||
		out.Meta.LintScore < 0 || out.Meta.LintScore > 100 {
		out.Meta = Meta{}
	}

	return &out
}
