package pipeline

import (
	"context"
	"strings"
	"testing"

	"promptforge/internal/artifact"
	"promptforge/internal/inject"
	"promptforge/internal/template"
)

func noArtifacts() (artifact.ResolveFunc, artifact.FetchFunc) {
	resolve := func(_ context.Context, tokens []string) ([]artifact.Ref, error) {
		refs := make([]artifact.Ref, len(tokens))
		for i, tok := range tokens {
			refs[i] = artifact.Ref{Raw: tok}
		}
		return refs, nil
	}
	fetch := func(_ context.Context, _ string) (*artifact.Artifact, error) {
		return nil, nil
	}
	return resolve, fetch
}

func fixedArtifacts(arts ...*artifact.Artifact) (artifact.ResolveFunc, artifact.FetchFunc) {
	byAlias := make(map[string]*artifact.Artifact)
	byID := make(map[string]*artifact.Artifact)
	for _, a := range arts {
		byID[a.ID] = a
		for _, alias := range a.Aliases {
			byAlias[artifact.NormalizeAlias(alias)] = a
		}
	}

	resolve := func(_ context.Context, tokens []string) ([]artifact.Ref, error) {
		refs := make([]artifact.Ref, len(tokens))
		for i, tok := range tokens {
			refs[i] = artifact.Ref{Raw: tok}
			if a, ok := byAlias[artifact.NormalizeAlias(tok)]; ok {
				refs[i].ArtifactID = a.ID
				refs[i].ArtifactName = a.Name
				refs[i].Resolved = true
			}
		}
		return refs, nil
	}
	fetch := func(_ context.Context, id string) (*artifact.Artifact, error) {
		return byID[id], nil
	}
	return resolve, fetch
}

func TestCompileReportScenario(t *testing.T) {
	pipe := New(template.Default())
	resolve, fetch := noArtifacts()

	out, err := pipe.Compile(context.Background(), Input{
		RawInput:    "Write a report on AI",
		Dial:        3,
		TokenBudget: 1000,
	}, resolve, fetch)
	if err != nil {
		t.Fatal(err)
	}

	if out.Spec.TemplateID != "report" {
		t.Errorf("expected report template, got %q", out.Spec.TemplateID)
	}
	if len(out.Spec.Sections) != 9 {
		t.Errorf("expected 9 sections at dial 3, got %d", len(out.Spec.Sections))
	}

	fired := map[string]bool{}
	for _, r := range out.Lint.Results {
		fired[r.RuleID] = true
	}
	for _, id := range []string{"vague-input", "missing-constraints", "no-template-match"} {
		if !fired[id] {
			t.Errorf("expected %s to fire, results: %v", id, out.Lint.Results)
		}
	}
	if out.Lint.Score != 70 {
		t.Errorf("expected score 70, got %d", out.Lint.Score)
	}
	if !out.Lint.Passed {
		t.Error("score 70 should pass")
	}
}

func TestCompileWhitespaceInputDialZero(t *testing.T) {
	pipe := New(template.Default())
	resolve, fetch := noArtifacts()

	out, err := pipe.Compile(context.Background(), Input{
		RawInput:    "   ",
		Dial:        0,
		TokenBudget: 0,
	}, resolve, fetch)
	if err != nil {
		t.Fatal(err)
	}

	if len(out.Spec.Sections) != 3 {
		t.Errorf("expected 3 sections at dial 0, got %d", len(out.Spec.Sections))
	}
	if len(out.Injection.Entries) != 0 {
		t.Errorf("no artifacts, no injection entries expected")
	}

	fired := map[string]bool{}
	for _, r := range out.Lint.Results {
		fired[r.RuleID] = true
	}
	if !fired["vague-input"] {
		t.Error("vague-input should fire for whitespace input")
	}
	if fired["budget-exceeded"] {
		t.Error("budget 0 is unlimited; budget-exceeded must not fire")
	}
}

func TestCompileEmptyInput(t *testing.T) {
	pipe := New(template.Default())
	resolve, fetch := noArtifacts()

	if _, err := pipe.Compile(context.Background(), Input{}, resolve, fetch); err == nil {
		t.Error("empty rawInput should error")
	}
}

func TestCompileUnknownOverrideFatal(t *testing.T) {
	pipe := New(template.Default())
	resolve, fetch := noArtifacts()

	_, err := pipe.Compile(context.Background(), Input{
		RawInput:         "anything",
		TemplateOverride: "no-such-template",
	}, resolve, fetch)
	if err == nil {
		t.Fatal("unknown override must abort compilation")
	}
}

func TestCompileWithArtifacts(t *testing.T) {
	a := &artifact.Artifact{
		ID:      "a1",
		Name:    "Metrics",
		Aliases: []string{"metrics"},
		Blocks: []artifact.Block{
			{ID: "b1", Label: "Revenue", Content: "Revenue grew.", Tags: []string{"findings"}, Priority: 90, TokenCount: 4},
			{ID: "b2", Label: "Secret", Content: "hidden", Tags: []string{"findings"}, Priority: 99, DoNotSend: true, TokenCount: 2},
		},
	}
	pipe := New(template.Default())
	resolve, fetch := fixedArtifacts(a)

	out, err := pipe.Compile(context.Background(), Input{
		RawInput: "Write a detailed report about our quarterly data @metrics for the board",
		Dial:     3,
	}, resolve, fetch)
	if err != nil {
		t.Fatal(err)
	}

	if len(out.Spec.ArtifactRefs) != 1 || !out.Spec.ArtifactRefs[0].Resolved {
		t.Fatalf("expected one resolved ref, got %+v", out.Spec.ArtifactRefs)
	}

	if !strings.Contains(out.Rendered, "[Context: Revenue]") {
		t.Error("included block missing from rendered output")
	}
	if strings.Contains(out.Rendered, "hidden") {
		t.Error("do-not-send content leaked into rendered output")
	}

	for _, e := range out.Injection.Entries {
		if e.BlockID == "b2" && e.Included {
			t.Error("do-not-send block recorded as included")
		}
	}
}

func TestCompileUnresolvedRefNonFatal(t *testing.T) {
	pipe := New(template.Default())
	resolve, fetch := noArtifacts()

	out, err := pipe.Compile(context.Background(), Input{
		RawInput: "Write a report using @ghost",
	}, resolve, fetch)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Spec.ArtifactRefs) != 1 {
		t.Fatalf("expected 1 ref, got %d", len(out.Spec.ArtifactRefs))
	}
	if out.Spec.ArtifactRefs[0].Resolved {
		t.Error("ghost ref should be unresolved")
	}
}

func TestCompileSharedBudgetAcrossSections(t *testing.T) {
	tmpl := &template.Template{
		ID:                "two-part",
		Name:              "Two Part",
		SystemInstruction: "sys",
		Sections: []template.SectionSpec{
			{Heading: "Alpha", Instruction: "a", MinDial: 0},
			{Heading: "Beta", Instruction: "b", MinDial: 0},
		},
	}
	reg, err := template.NewRegistry(tmpl)
	if err != nil {
		t.Fatal(err)
	}

	a := &artifact.Artifact{
		ID:      "a1",
		Name:    "A",
		Aliases: []string{"a"},
		Blocks: []artifact.Block{
			{ID: "for-alpha", Label: "A1", Content: "x", Tags: []string{"alpha"}, Priority: 50, TokenCount: 9},
			{ID: "for-beta", Label: "B1", Content: "y", Tags: []string{"beta"}, Priority: 50, TokenCount: 5},
		},
	}
	pipe := New(reg)
	resolve, fetch := fixedArtifacts(a)

	out, err := pipe.Compile(context.Background(), Input{
		RawInput:         "compile with @a",
		TemplateOverride: "two-part",
		TokenBudget:      10,
	}, resolve, fetch)
	if err != nil {
		t.Fatal(err)
	}

	// Alpha consumes 9 of 10; Beta's 5-token block no longer fits.
	reasons := map[string]string{}
	for _, e := range out.Injection.Entries {
		if e.Reason == inject.ReasonIncluded || e.Reason == inject.ReasonBudget {
			reasons[e.BlockID+"/"+e.Section] = e.Reason
		}
	}
	if reasons["for-alpha/Alpha"] != inject.ReasonIncluded {
		t.Errorf("alpha block should be included: %v", reasons)
	}
	if reasons["for-beta/Beta"] != inject.ReasonBudget {
		t.Errorf("beta block should be squeezed out by the shared budget: %v", reasons)
	}
	if out.Injection.TokensUsed != 9 {
		t.Errorf("expected 9 tokens used, got %d", out.Injection.TokensUsed)
	}
}

func TestCompileDeterministic(t *testing.T) {
	a := &artifact.Artifact{
		ID:      "a1",
		Name:    "Metrics",
		Aliases: []string{"metrics"},
		Blocks: []artifact.Block{
			{ID: "b1", Label: "L1", Content: "one", Tags: []string{"findings"}, Priority: 10, TokenCount: 1},
			{ID: "b2", Label: "L2", Content: "two", Tags: []string{"findings"}, Priority: 20, TokenCount: 1},
		},
	}
	pipe := New(template.Default())
	resolve, fetch := fixedArtifacts(a)

	in := Input{RawInput: "Write a report on @metrics data", Dial: 4, TokenBudget: 500}

	first, err := pipe.Compile(context.Background(), in, resolve, fetch)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		next, err := pipe.Compile(context.Background(), in, resolve, fetch)
		if err != nil {
			t.Fatal(err)
		}
		if next.Rendered != first.Rendered {
			t.Fatal("rendered output varies between identical compiles")
		}
		if next.Lint.Score != first.Lint.Score {
			t.Fatal("lint score varies between identical compiles")
		}
		if next.Spec.ID == first.Spec.ID {
			t.Fatal("spec ids must be fresh per compilation")
		}
	}
}

func TestCompileResolverLengthMismatch(t *testing.T) {
	pipe := New(template.Default())
	badResolve := func(_ context.Context, _ []string) ([]artifact.Ref, error) {
		return nil, nil
	}
	_, fetch := noArtifacts()

	_, err := pipe.Compile(context.Background(), Input{RawInput: "report on @x"}, badResolve, fetch)
	if err == nil {
		t.Error("resolver breaking the length contract should error")
	}
}

func TestCompileMetaPopulated(t *testing.T) {
	pipe := New(template.Default())
	resolve, fetch := noArtifacts()

	out, err := pipe.Compile(context.Background(), Input{RawInput: "Write a report on AI"}, resolve, fetch)
	if err != nil {
		t.Fatal(err)
	}

	if out.Spec.Meta.TotalTokens <= 0 {
		t.Error("meta.totalTokens should be populated after render")
	}
	if out.Spec.Meta.CompiledAt.IsZero() {
		t.Error("meta.compiledAt should be populated")
	}
	if out.Spec.Meta.LintScore != out.Lint.Score {
		t.Error("meta.lintScore should mirror the lint report")
	}
}
