package template

// The five built-in templates. Section order matters: the block selector
// consumes a shared token budget section by section in declared order, so
// earlier sections win when the budget is scarce.

func builtins() []*Template {
	return []*Template{
		reportTemplate(),
		requirementsTemplate(),
		decisionMemoTemplate(),
		critiqueTemplate(),
		briefTemplate(),
	}
}

func reportTemplate() *Template {
	return &Template{
		ID:   "report",
		Name: "Report",
		SystemInstruction: "You are a senior analyst producing a structured report. " +
			"Ground every claim in the supplied context and keep sections focused on their headings.",
		Sections: []SectionSpec{
			{Heading: "Objective", Instruction: "State what this report answers and for whom.", MinDial: 0, Required: true},
			{Heading: "Summary", Instruction: "Summarize the key conclusions in a short paragraph.", MinDial: 0, Required: true},
			{Heading: "Key Findings", Instruction: "List the most important findings as bullet points.", MinDial: 0, Required: true},
			{Heading: "Background", Instruction: "Give the context a newcomer needs before reading further.", MinDial: 1, Required: false},
			{Heading: "Analysis", Instruction: "Walk through the reasoning that leads to the findings.", MinDial: 1, Required: false},
			{Heading: "Supporting Data", Instruction: "Present the data and sources backing the analysis.", MinDial: 2, Required: false},
			{Heading: "Risks", Instruction: "Identify risks, caveats, and known unknowns.", MinDial: 2, Required: false},
			{Heading: "Recommendations", Instruction: "Recommend concrete actions ranked by impact.", MinDial: 3, Required: false},
			{Heading: "Next Steps", Instruction: "List immediate next steps with owners where possible.", MinDial: 3, Required: false},
			{Heading: "Alternatives Considered", Instruction: "Describe alternatives that were evaluated and rejected.", MinDial: 4, Required: false},
			{Heading: "Open Questions", Instruction: "Record unresolved questions worth revisiting.", MinDial: 4, Required: false},
			{Heading: "Appendix", Instruction: "Include supplementary material referenced above.", MinDial: 5, Required: false},
		},
	}
}

func requirementsTemplate() *Template {
	return &Template{
		ID:   "requirements-doc",
		Name: "Requirements Document",
		SystemInstruction: "You are a product engineer writing a requirements document. " +
			"Be precise, testable, and explicit about what is out of scope.",
		Sections: []SectionSpec{
			{Heading: "Overview", Instruction: "Describe the feature and the problem it solves.", MinDial: 0, Required: true},
			{Heading: "Goals", Instruction: "List the measurable goals this work must achieve.", MinDial: 0, Required: true},
			{Heading: "User Stories", Instruction: "Write user stories in as-a/I-want/so-that form.", MinDial: 1, Required: false},
			{Heading: "Functional Requirements", Instruction: "Enumerate functional requirements with stable identifiers.", MinDial: 1, Required: true},
			{Heading: "Non-Functional Requirements", Instruction: "Cover performance, security, and reliability expectations.", MinDial: 2, Required: false},
			{Heading: "Constraints", Instruction: "List technical and organizational constraints.", MinDial: 3, Required: false},
			{Heading: "Acceptance Criteria", Instruction: "Define how completion will be verified.", MinDial: 3, Required: false},
			{Heading: "Out of Scope", Instruction: "Name what this work explicitly does not cover.", MinDial: 4, Required: false},
		},
	}
}

func decisionMemoTemplate() *Template {
	return &Template{
		ID:   "decision-memo",
		Name: "Decision Memo",
		SystemInstruction: "You are writing a decision memo for a time-constrained reader. " +
			"Lead with the decision, then justify it.",
		Sections: []SectionSpec{
			{Heading: "Context", Instruction: "Explain the situation that forces a decision.", MinDial: 0, Required: true},
			{Heading: "Decision", Instruction: "State the recommended decision in one sentence, then elaborate.", MinDial: 0, Required: true},
			{Heading: "Options Considered", Instruction: "Describe each viable option neutrally.", MinDial: 1, Required: false},
			{Heading: "Trade-Offs", Instruction: "Compare the options on cost, risk, and reversibility.", MinDial: 2, Required: false},
			{Heading: "Rationale", Instruction: "Explain why the recommended option wins.", MinDial: 3, Required: false},
			{Heading: "Consequences", Instruction: "Describe what changes once the decision is made.", MinDial: 4, Required: false},
		},
	}
}

func critiqueTemplate() *Template {
	return &Template{
		ID:   "critique",
		Name: "Critique",
		SystemInstruction: "You are reviewing the supplied work. Be direct and specific; " +
			"every criticism needs an example and every example needs a suggestion.",
		Sections: []SectionSpec{
			{Heading: "Summary", Instruction: "Summarize the work and your overall judgment.", MinDial: 0, Required: true},
			{Heading: "Strengths", Instruction: "Call out what works well and should be kept.", MinDial: 1, Required: false},
			{Heading: "Weaknesses", Instruction: "Identify the most significant problems first.", MinDial: 1, Required: true},
			{Heading: "Suggestions", Instruction: "Propose concrete improvements for each weakness.", MinDial: 2, Required: false},
			{Heading: "Severity Assessment", Instruction: "Rate each issue blocking, major, or minor.", MinDial: 4, Required: false},
		},
	}
}

func briefTemplate() *Template {
	return &Template{
		ID:   "brief",
		Name: "Brief",
		SystemInstruction: "You are writing a brief. Every sentence must earn its place; " +
			"cut anything the reader can infer.",
		Sections: []SectionSpec{
			{Heading: "Objective", Instruction: "One sentence on what this brief is for.", MinDial: 0, Required: true},
			{Heading: "Key Points", Instruction: "Three to five bullets carrying the substance.", MinDial: 0, Required: true},
			{Heading: "Call to Action", Instruction: "What the reader should do next.", MinDial: 2, Required: false},
		},
	}
}
