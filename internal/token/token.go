// Package token provides the fixed token estimation rule used everywhere a
// budget is enforced. The estimate must be deterministic and cheap; it is a
// character heuristic, not a model tokenizer.
package token

const charsPerToken = 4

// Estimate returns the estimated token count for s, rounding up.
func Estimate(s string) int {
	if len(s) == 0 {
		return 0
	}
	return (len(s) + charsPerToken - 1) / charsPerToken
}
