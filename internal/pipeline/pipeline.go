// Package pipeline composes the compilation stages: parse, resolve, select,
// generate, render, lint. A Pipeline holds no per-request state; concurrent
// Compile calls are independent.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"promptforge/internal/artifact"
	"promptforge/internal/inject"
	"promptforge/internal/intent"
	"promptforge/internal/lint"
	"promptforge/internal/logger"
	"promptforge/internal/render"
	"promptforge/internal/spec"
	"promptforge/internal/template"
	"promptforge/internal/token"
)

var ErrEmptyInput = errors.New("rawInput is required")

type Input struct {
	RawInput         string   `json:"rawInput"`
	Dial             int      `json:"dial"`
	TokenBudget      int      `json:"tokenBudget"`
	TemplateOverride string   `json:"templateOverride,omitempty"`
	ForceArtifacts   []string `json:"forceArtifacts,omitempty"`
}

type Output struct {
	Spec      *spec.Spec    `json:"spec"`
	Rendered  string        `json:"rendered"`
	Lint      lint.Report   `json:"lint"`
	Injection inject.Report `json:"injection"`
}

type Pipeline struct {
	registry *template.Registry
}

func New(registry *template.Registry) *Pipeline {
	return &Pipeline{registry: registry}
}

// Compile runs the full pipeline for one request. The two collaborators are
// the only blocking stages; everything else is a pure transformation. An
// unknown template override is fatal and aborts before any collaborator call.
func (p *Pipeline) Compile(ctx context.Context, in Input, resolve artifact.ResolveFunc, fetch artifact.FetchFunc) (*Output, error) {
	start := time.Now()
	log := logger.ForComponent("pipeline")

	if in.RawInput == "" {
		return nil, ErrEmptyInput
	}
	dial := clampDial(in.Dial)
	budget := in.TokenBudget
	if budget < 0 {
		budget = 0
	}

	parsed, err := intent.Parse(in.RawInput, in.TemplateOverride, p.registry)
	if err != nil {
		return nil, fmt.Errorf("parse intent: %w", err)
	}

	tmpl, err := p.registry.Get(parsed.TemplateID)
	if err != nil {
		return nil, err
	}

	tokens := append([]string{}, parsed.References...)
	tokens = append(tokens, in.ForceArtifacts...)

	var refs []artifact.Ref
	if len(tokens) > 0 {
		refs, err = resolve(ctx, tokens)
		if err != nil {
			return nil, fmt.Errorf("resolve artifacts: %w", err)
		}
		if len(refs) != len(tokens) {
			return nil, fmt.Errorf("resolver returned %d refs for %d tokens", len(refs), len(tokens))
		}
	}

	artifacts, err := fetchResolved(ctx, refs, fetch)
	if err != nil {
		return nil, err
	}

	report, blocks := p.selectBlocks(tmpl, dial, budget, artifacts)

	s := spec.Generate(spec.GenerateInput{
		RawInput:    in.RawInput,
		Template:    tmpl,
		Dial:        dial,
		TokenBudget: budget,
		Parsed:      parsed,
		Refs:        refs,
		Blocks:      blocks,
	})

	rendered := render.Render(s)
	lintReport := lint.Run(s, rendered)

	s.Meta = spec.Meta{
		TotalTokens:       token.Estimate(rendered),
		CompileDurationMs: time.Since(start).Milliseconds(),
		CompiledAt:        time.Now().UTC(),
		LintScore:         lintReport.Score,
	}

	log.Debug("compile finished",
		"template", s.TemplateID,
		"sections", len(s.Sections),
		"score", lintReport.Score,
		"tokens", s.Meta.TotalTokens)

	return &Output{
		Spec:      s,
		Rendered:  rendered,
		Lint:      lintReport,
		Injection: report,
	}, nil
}

// fetchResolved loads each resolved artifact once, in first-reference order.
// A nil fetch result means the record vanished between resolve and fetch; the
// artifact is silently excluded.
func fetchResolved(ctx context.Context, refs []artifact.Ref, fetch artifact.FetchFunc) ([]*artifact.Artifact, error) {
	var artifacts []*artifact.Artifact
	seen := make(map[string]bool)

	for _, ref := range refs {
		if !ref.Resolved || seen[ref.ArtifactID] {
			continue
		}
		seen[ref.ArtifactID] = true

		a, err := fetch(ctx, ref.ArtifactID)
		if err != nil {
			return nil, fmt.Errorf("fetch artifact %s: %w", ref.ArtifactID, err)
		}
		if a != nil {
			artifacts = append(artifacts, a)
		}
	}
	return artifacts, nil
}

// selectBlocks runs the selector per eligible section in template order. The
// token budget is shared cumulatively: each section sees only what its
// predecessors left over. A budget of zero means unlimited throughout.
func (p *Pipeline) selectBlocks(tmpl *template.Template, dial, budget int, artifacts []*artifact.Artifact) (inject.Report, map[string][]spec.InjectedBlock) {
	report := inject.Report{Entries: []inject.Entry{}}
	blocks := make(map[string][]spec.InjectedBlock)

	remaining := inject.Unlimited
	if budget > 0 {
		remaining = budget
	}

	for _, sec := range tmpl.SectionsForDial(dial) {
		tags := inject.SectionTags(sec.Heading)
		sel := inject.SelectForSection(sec.Heading, tags, artifacts, remaining)

		blocks[sec.Heading] = sel.Blocks
		report.Entries = append(report.Entries, sel.Entries...)
		report.TokensUsed += sel.TokensUsed
		if remaining != inject.Unlimited {
			remaining -= sel.TokensUsed
		}
	}

	return report, blocks
}

func clampDial(dial int) int {
	if dial < 0 {
		return 0
	}
	if dial > 5 {
		return 5
	}
	return dial
}
