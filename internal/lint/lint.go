// Package lint evaluates a compiled Spec and its rendered text against a
// fixed rule set and scores the result. Findings are data; nothing here ever
// blocks compilation.
package lint

import (
	"fmt"
	"strings"

	"promptforge/internal/spec"
	"promptforge/internal/token"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

type Result struct {
	RuleID   string   `json:"ruleId"`
	RuleName string   `json:"ruleName"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Fix      string   `json:"fix,omitempty"`
}

const passThreshold = 70

type Report struct {
	Score   int      `json:"score"`
	Results []Result `json:"results"`
	Passed  bool     `json:"passed"`
}

// sensitiveTags trips the do-not-send-leak rule. This is defense in depth:
// the selector already drops DoNotSend blocks, this rule catches tagged
// content that slipped through by any other path.
var sensitiveTags = map[string]bool{
	"do-not-send":   true,
	"sensitive":     true,
	"internal-only": true,
}

// templateKeywords backs the no-template-match rule. It is maintained
// separately from the parser's classification table and the two have drifted;
// the drift is preserved, so a request the parser matches can still fail this
// rule.
var templateKeywords = map[string][]string{
	"report":           {"analysis", "findings", "data", "research"},
	"requirements-doc": {"must", "shall", "requirement", "acceptance"},
	"decision-memo":    {"because", "recommend", "versus", "option"},
	"critique":         {"improve", "issue", "strength", "weakness"},
	"brief":            {"takeaway", "action", "deadline"},
}

type rule func(s *spec.Spec, rendered string) *Result

// Rules run in fixed order for stable report output, but no rule depends on
// another; each returns at most one finding.
var rules = []rule{
	vagueInput,
	missingConstraints,
	noTemplateMatch,
	budgetExceeded,
	emptySections,
	doNotSendLeak,
}

// Run evaluates every rule and computes the score: 100 minus 25 per error,
// 10 per warning, 3 per info, floored at zero.
func Run(s *spec.Spec, rendered string) Report {
	report := Report{Results: []Result{}}

	for _, r := range rules {
		if res := r(s, rendered); res != nil {
			report.Results = append(report.Results, *res)
		}
	}

	score := 100
	for _, res := range report.Results {
		switch res.Severity {
		case SeverityError:
			score -= 25
		case SeverityWarning:
			score -= 10
		case SeverityInfo:
			score -= 3
		}
	}
	if score < 0 {
		score = 0
	}

	report.Score = score
	report.Passed = score >= passThreshold
	return report
}

func vagueInput(s *spec.Spec, _ string) *Result {
	if len(strings.Fields(s.RawInput)) >= 10 {
		return nil
	}
	return &Result{
		RuleID:   "vague-input",
		RuleName: "Vague input",
		Severity: SeverityWarning,
		Message:  "the request has fewer than 10 words; results improve with more detail",
		Fix:      "describe the desired output, audience, and scope",
	}
}

func missingConstraints(s *spec.Spec, _ string) *Result {
	if len(s.Constraints) > 0 {
		return nil
	}
	return &Result{
		RuleID:   "missing-constraints",
		RuleName: "Missing constraints",
		Severity: SeverityWarning,
		Message:  "no constraints were extracted from the request",
		Fix:      "state an audience, tone, or length limit",
	}
}

func noTemplateMatch(s *spec.Spec, _ string) *Result {
	lowered := strings.ToLower(s.RawInput)
	for _, kw := range templateKeywords[s.TemplateID] {
		if strings.Contains(lowered, kw) {
			return nil
		}
	}
	return &Result{
		RuleID:   "no-template-match",
		RuleName: "No template match",
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("the request does not mention any %s-template vocabulary", s.TemplateID),
	}
}

func budgetExceeded(s *spec.Spec, rendered string) *Result {
	if s.TokenBudget <= 0 {
		return nil
	}
	estimated := token.Estimate(rendered)
	if estimated <= s.TokenBudget {
		return nil
	}
	return &Result{
		RuleID:   "budget-exceeded",
		RuleName: "Budget exceeded",
		Severity: SeverityError,
		Message:  fmt.Sprintf("rendered output is ~%d tokens, budget is %d", estimated, s.TokenBudget),
		Fix:      "lower the dial or raise the token budget",
	}
}

func emptySections(s *spec.Spec, _ string) *Result {
	for _, sec := range s.Sections {
		if sec.Instruction == "" && len(sec.InjectedBlocks) == 0 {
			return &Result{
				RuleID:   "empty-sections",
				RuleName: "Empty sections",
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("section %q has no instruction and no injected content", sec.Heading),
			}
		}
	}
	return nil
}

func doNotSendLeak(s *spec.Spec, _ string) *Result {
	for _, sec := range s.Sections {
		for _, blk := range sec.InjectedBlocks {
			for _, tag := range blk.Tags {
				if sensitiveTags[strings.ToLower(tag)] {
					return &Result{
						RuleID:   "do-not-send-leak",
						RuleName: "Do-not-send leak",
						Severity: SeverityError,
						Message:  fmt.Sprintf("block %q in section %q carries sensitive tag %q", blk.Label, sec.Heading, tag),
						Fix:      "remove the block or clear its sensitive tags",
					}
				}
			}
		}
	}
	return nil
}
