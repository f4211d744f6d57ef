// Package intent classifies a raw request against the template catalog and
// extracts references and constraints. Parsing is pure: fixed regex and
// keyword tables, no lookups, no side effects.
package intent

import (
	"regexp"
	"strings"

	"promptforge/internal/template"
)

// refPattern matches @alias references. Aliases are identifier-like with
// hyphens allowed.
var refPattern = regexp.MustCompile(`@([A-Za-z_][A-Za-z0-9_-]*)`)

// matchKeywords drives template classification. The lint engine keeps its own
// independently maintained table; the two are known to disagree and the
// disagreement is preserved on purpose.
var matchKeywords = map[string][]string{
	"report":           {"report", "analysis", "analyze", "overview", "study", "investigate"},
	"requirements-doc": {"requirements", "requirement", "prd", "feature", "user story", "specification"},
	"decision-memo":    {"decision", "decide", "memo", "choose", "option", "trade-off"},
	"critique":         {"critique", "review", "feedback", "assess", "evaluate"},
	"brief":            {"brief", "summary", "summarize", "tl;dr", "concise"},
}

type Constraint struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

func (c Constraint) String() string {
	return c.Kind + ": " + c.Value
}

// constraintPatterns is an ordered list of single-capture patterns. Several
// patterns may share a kind; only the first match per kind is kept.
var constraintPatterns = []struct {
	kind string
	re   *regexp.Regexp
}{
	{"audience", regexp.MustCompile(`(?i)\bfor\s+(beginners|experts|executives|engineers|students|customers)\b`)},
	{"audience", regexp.MustCompile(`(?i)\baudience:\s*([a-zA-Z-]+)`)},
	{"tone", regexp.MustCompile(`(?i)\b(formal|casual|technical|friendly|urgent)\s+tone\b`)},
	{"tone", regexp.MustCompile(`(?i)\btone:\s*([a-zA-Z-]+)`)},
	{"max-words", regexp.MustCompile(`(?i)\b(?:under|at most|max(?:imum)?(?: of)?)\s+(\d+)\s+words\b`)},
	{"max-length", regexp.MustCompile(`(?i)\bno longer than\s+(\d+)\b`)},
}

// Result is the parser output.
type Result struct {
	TemplateID   string       `json:"templateId"`
	Confidence   float64      `json:"confidence"`
	CleanedInput string       `json:"cleanedInput"`
	References   []string     `json:"references"`
	Constraints  []Constraint `json:"constraints"`
}

// Parse classifies raw against the registry. When override is non-empty it is
// used verbatim with confidence 1.0; an unknown override is the caller's
// error and surfaces as template.ErrNotFound.
func Parse(raw, override string, reg *template.Registry) (*Result, error) {
	refs, cleaned := extractReferences(raw)

	res := &Result{
		CleanedInput: cleaned,
		References:   refs,
		Constraints:  extractConstraints(cleaned),
	}

	if override != "" {
		if _, err := reg.Get(override); err != nil {
			return nil, err
		}
		res.TemplateID = override
		res.Confidence = 1.0
		return res, nil
	}

	res.TemplateID, res.Confidence = classify(cleaned, reg)
	return res, nil
}

// extractReferences pulls @tokens out of raw in input order, duplicates
// included, and strips them from the text. The strip is a plain removal: it
// leaves double spaces behind, which downstream consumers rely on staying
// as-is.
func extractReferences(raw string) ([]string, string) {
	var refs []string
	for _, m := range refPattern.FindAllStringSubmatch(raw, -1) {
		refs = append(refs, m[1])
	}
	cleaned := refPattern.ReplaceAllString(raw, "")
	return refs, cleaned
}

func classify(text string, reg *template.Registry) (string, float64) {
	lowered := strings.ToLower(text)

	bestID := ""
	bestHits := 0
	for _, t := range reg.All() {
		hits := 0
		for _, kw := range matchKeywords[t.ID] {
			if strings.Contains(lowered, kw) {
				hits++
			}
		}
		// Strict comparison keeps declaration order as the tiebreaker.
		if bestID == "" || hits > bestHits {
			bestID = t.ID
			bestHits = hits
		}
	}

	if bestHits == 0 {
		return reg.All()[0].ID, 0.3
	}

	confidence := 0.5 + 0.2*float64(bestHits)
	if confidence > 1.0 {
		confidence = 1.0
	}
	return bestID, confidence
}

func extractConstraints(text string) []Constraint {
	var out []Constraint
	seen := make(map[string]bool)

	for _, p := range constraintPatterns {
		if seen[p.kind] {
			continue
		}
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		out = append(out, Constraint{Kind: p.kind, Value: strings.ToLower(m[1])})
		seen[p.kind] = true
	}
	return out
}
