// Package spec defines the compiler's intermediate representation. The types
// here are plain data and round-trip through JSON so that persisted or
// transmitted specs can be validated without re-running compilation.
package spec

import (
	"time"

	"promptforge/internal/artifact"
	"promptforge/internal/intent"
)

// InjectedBlock is a selected artifact block annotated with its owning
// artifact identity, embedded into one section's output.
type InjectedBlock struct {
	ArtifactID   string   `json:"artifactId"`
	ArtifactName string   `json:"artifactName"`
	BlockID      string   `json:"blockId"`
	Label        string   `json:"label"`
	Content      string   `json:"content"`
	Tags         []string `json:"tags"`
	Priority     int      `json:"priority"`
	TokenCount   int      `json:"tokenCount"`
}

type Section struct {
	Heading        string          `json:"heading"`
	Instruction    string          `json:"instruction"`
	MinDial        int             `json:"minDial"`
	Required       bool            `json:"required"`
	InjectedBlocks []InjectedBlock `json:"injectedBlocks"`
}

// Meta holds post-hoc fields populated only after rendering and linting. A
// Spec is not fully formed until the driver has filled it in.
type Meta struct {
	TotalTokens       int       `json:"totalTokens"`
	CompileDurationMs int64     `json:"compileDurationMs"`
	CompiledAt        time.Time `json:"compiledAt"`
	LintScore         int       `json:"lintScore"`
}

type Spec struct {
	ID                string              `json:"id"`
	RawInput          string              `json:"rawInput"`
	TemplateID        string              `json:"templateId"`
	Dial              int                 `json:"dial"`
	TokenBudget       int                 `json:"tokenBudget"`
	SystemInstruction string              `json:"systemInstruction"`
	Sections          []Section           `json:"sections"`
	Constraints       []intent.Constraint `json:"constraints"`
	ArtifactRefs      []artifact.Ref      `json:"artifactRefs"`
	Meta              Meta                `json:"meta"`
}
