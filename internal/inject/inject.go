// Package inject chooses which artifact blocks enter which document section
// under a shared token budget, and keeps a full audit trail of every
// candidate considered.
package inject

import (
	"sort"
	"strings"

	"promptforge/internal/artifact"
	"promptforge/internal/spec"
)

// Disposition reasons. Every candidate block gets exactly one.
const (
	ReasonIncluded  = "included"
	ReasonDoNotSend = "do_not_send flag"
	ReasonNoTags    = "no matching tags"
	ReasonBudget    = "exceeded token budget"
)

// Unlimited disables budget enforcement for a selection call. The driver maps
// a compile-level budget of zero to this; a remaining budget that happens to
// reach zero stays a hard cap.
const Unlimited = -1

type Entry struct {
	Section      string `json:"section"`
	ArtifactID   string `json:"artifactId"`
	ArtifactName string `json:"artifactName"`
	BlockID      string `json:"blockId"`
	Label        string `json:"label"`
	Priority     int    `json:"priority"`
	TokenCount   int    `json:"tokenCount"`
	Included     bool   `json:"included"`
	Reason       string `json:"reason"`
}

type Report struct {
	Entries    []Entry `json:"entries"`
	TokensUsed int     `json:"tokensUsed"`
}

// Selection is the outcome for a single section.
type Selection struct {
	Blocks     []spec.InjectedBlock
	TokensUsed int
	Entries    []Entry
}

// SectionTags derives a section's tag set from its heading: lowercase words
// with punctuation dropped.
func SectionTags(heading string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return ' '
		}
	}, heading)

	var tags []string
	for _, w := range strings.Fields(cleaned) {
		tags = append(tags, strings.ToLower(w))
	}
	return tags
}

type candidate struct {
	artifactID   string
	artifactName string
	block        artifact.Block
}

// SelectForSection runs the selection policy for one section. Candidates come
// from all resolved artifacts in order; priority ordering is global across
// artifacts. The budget walk is single-pass greedy: once a block is skipped
// for budget, smaller lower-priority blocks are not retried.
func SelectForSection(section string, tags []string, artifacts []*artifact.Artifact, budget int) Selection {
	var sel Selection

	var survivors []candidate
	for _, a := range artifacts {
		for _, b := range a.Blocks {
			c := candidate{artifactID: a.ID, artifactName: a.Name, block: b}

			if b.DoNotSend {
				sel.Entries = append(sel.Entries, entryFor(section, c, false, ReasonDoNotSend))
				continue
			}
			if len(tags) > 0 && !overlaps(tags, b.Tags) {
				sel.Entries = append(sel.Entries, entryFor(section, c, false, ReasonNoTags))
				continue
			}
			survivors = append(survivors, c)
		}
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].block.Priority > survivors[j].block.Priority
	})

	for _, c := range survivors {
		if budget != Unlimited && sel.TokensUsed+c.block.TokenCount > budget {
			sel.Entries = append(sel.Entries, entryFor(section, c, false, ReasonBudget))
			continue
		}
		sel.TokensUsed += c.block.TokenCount
		sel.Blocks = append(sel.Blocks, spec.InjectedBlock{
			ArtifactID:   c.artifactID,
			ArtifactName: c.artifactName,
			BlockID:      c.block.ID,
			Label:        c.block.Label,
			Content:      c.block.Content,
			Tags:         c.block.Tags,
			Priority:     c.block.Priority,
			TokenCount:   c.block.TokenCount,
		})
		sel.Entries = append(sel.Entries, entryFor(section, c, true, ReasonIncluded))
	}

	return sel
}

func entryFor(section string, c candidate, included bool, reason string) Entry {
	return Entry{
		Section:      section,
		ArtifactID:   c.artifactID,
		ArtifactName: c.artifactName,
		BlockID:      c.block.ID,
		Label:        c.block.Label,
		Priority:     c.block.Priority,
		TokenCount:   c.block.TokenCount,
		Included:     included,
		Reason:       reason,
	}
}

func overlaps(sectionTags, blockTags []string) bool {
	for _, bt := range blockTags {
		lowered := strings.ToLower(bt)
		for _, st := range sectionTags {
			if lowered == st {
				return true
			}
		}
	}
	return false
}
