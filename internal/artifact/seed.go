package artifact

// SeedArtifacts returns the starter library installed into an empty store.
// Token counts are filled in on write.
func SeedArtifacts() []*Artifact {
	return []*Artifact{
		{
			Name:        "Company Voice",
			Aliases:     []string{"voice", "company-voice"},
			Description: "House style and tone guidance for outbound writing.",
			Blocks: []Block{
				{
					Label:    "Tone",
					Content:  "Write plainly and directly. Prefer short sentences. Avoid hedging and marketing superlatives.",
					Tags:     []string{"summary", "objective", "background"},
					Priority: 80,
				},
				{
					Label:    "Terminology",
					Content:  "Use 'customer' not 'user' in external documents. Product names are always capitalized.",
					Tags:     []string{"background", "analysis"},
					Priority: 60,
				},
			},
		},
		{
			Name:        "Quarterly Metrics",
			Aliases:     []string{"metrics", "q-metrics"},
			Description: "Headline numbers for the current quarter.",
			Blocks: []Block{
				{
					Label:    "Revenue",
					Content:  "Quarterly revenue grew 14% quarter over quarter, driven primarily by the enterprise tier.",
					Tags:     []string{"findings", "data", "analysis"},
					Priority: 90,
				},
				{
					Label:    "Churn",
					Content:  "Monthly churn held at 2.1%, flat against last quarter despite the pricing change.",
					Tags:     []string{"findings", "data", "risks"},
					Priority: 70,
				},
				{
					Label:     "Forecast Internals",
					Content:   "Internal forecast assumes two unsigned enterprise deals close this quarter.",
					Tags:      []string{"internal-only"},
					Priority:  95,
					DoNotSend: true,
				},
			},
		},
		{
			Name:        "Platform Constraints",
			Aliases:     []string{"constraints", "platform"},
			Description: "Standing technical constraints for platform work.",
			Blocks: []Block{
				{
					Label:    "Compatibility",
					Content:  "All public APIs must remain backward compatible within a major version.",
					Tags:     []string{"constraints", "requirements", "functional"},
					Priority: 85,
				},
				{
					Label:    "Latency",
					Content:  "Interactive endpoints must respond within 200ms at the 95th percentile.",
					Tags:     []string{"constraints", "non-functional", "performance"},
					Priority: 75,
				},
			},
		},
	}
}
