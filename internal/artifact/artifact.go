// Package artifact defines the user-owned knowledge units referenced from
// prompts via @alias, and the stores that hold them. The compiler only ever
// reads artifacts; ownership and mutation belong to the caller.
package artifact

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Block is one tagged, prioritized, token-counted unit of artifact content.
// DoNotSend is an absolute exclusion flag: a flagged block never leaves the
// store regardless of tags or budget.
type Block struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
	Priority   int      `json:"priority"`
	DoNotSend  bool     `json:"doNotSend"`
	TokenCount int      `json:"tokenCount"`
}

type Artifact struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Aliases     []string  `json:"aliases"`
	Description string    `json:"description"`
	Blocks      []Block   `json:"blocks"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Ref is the resolution result for one raw @token. Unresolved refs keep the
// raw token but carry empty id and name.
type Ref struct {
	Raw          string `json:"raw"`
	ArtifactID   string `json:"artifactId"`
	ArtifactName string `json:"artifactName"`
	Resolved     bool   `json:"resolved"`
}

// NormalizeAlias canonicalizes an alias or reference token for lookup.
// Aliases are unique across all artifacts in this form.
func NormalizeAlias(s string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(s)))
}
