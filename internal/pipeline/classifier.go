package pipeline

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	summaryLimit    = 300
	transcriptLimit = 1000
)

// Classification is the structured result of interpreting raw review text.
type Classification struct {
	Decision   Decision
	Summary    string
	Transcript string
}

var (
	acceptedMarker = regexp.MustCompile(`(?i)FINAL DECISION:\s*\*\*ACCEPTED\*\*`)
	revisionMarker = regexp.MustCompile(`(?i)FINAL DECISION:\s*\*\*ACCEPTED WITH (MINOR|MAJOR) REVISION`)
	rejectedMarker = regexp.MustCompile(`(?i)FINAL DECISION:\s*\*\*REJECTED\*\*`)
)

// rules map review text to a decision in priority order: explicit decision
// markers first, then keyword heuristics for reviews that ignored the
// requested format. The first matching rule wins.
var rules = []struct {
	match    func(raw, lower string) bool
	decision Decision
}{
	{
		match:    func(raw, _ string) bool { return acceptedMarker.MatchString(raw) },
		decision: DecisionAccepted,
	},
	{
		match:    func(raw, _ string) bool { return revisionMarker.MatchString(raw) },
		decision: DecisionRevision,
	},
	{
		match:    func(raw, _ string) bool { return rejectedMarker.MatchString(raw) },
		decision: DecisionRejected,
	},
	{
		match: func(_, lower string) bool {
			return (strings.Contains(lower, "accepted") && !strings.Contains(lower, "rejected")) ||
				strings.Contains(lower, "recommend publication")
		},
		decision: DecisionAccepted,
	},
	{
		match: func(_, lower string) bool {
			return strings.Contains(lower, "revision") ||
				strings.Contains(lower, "revise") ||
				strings.Contains(lower, "improvements needed")
		},
		decision: DecisionRevision,
	},
	{
		match:    func(_, lower string) bool { return strings.Contains(lower, "reject") },
		decision: DecisionRejected,
	},
}

// Classify interprets raw review text into a decision, a summary drawn from
// the first paragraph, and a bounded transcript. Text matching no rule
// defaults to a revision request.
func Classify(raw string) Classification {
	decision := DecisionRevision
	lower := strings.ToLower(raw)

	for _, rule := range rules {
		if rule.match(raw, lower) {
			decision = rule.decision
			break
		}
	}

	summary, _, _ := strings.Cut(raw, "\n\n")

	return Classification{
		Decision:   decision,
		Summary:    truncate(summary, summaryLimit),
		Transcript: truncate(raw, transcriptLimit),
	}
}

// truncate bounds s to limit runes, appending an ellipsis when content was
// dropped. Cutting on rune boundaries keeps multi-byte characters intact.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	runes := []rune(s)
	return string(runes[:limit]) + "..."
}
