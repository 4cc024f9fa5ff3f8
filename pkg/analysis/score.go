package analysis

import (
	"sort"

	"github.com/actionlens/actionlens/pkg/costmodel"
)

// computeScore starts at 100 and subtracts the fixed per-severity penalty
// for every finding across all passes, flooring at 0. Bottlenecks are
// already represented as findings in the performance pass, so they are not
// counted twice.
func computeScore(result *ValidationResult) int {
	score := 100
	for _, f := range result.AllFindings() {
		score -= costmodel.SeverityPenalty[string(f.Severity)]
	}
	if score < 0 {
		return 0
	}
	return score
}

// orderRecommendations sorts by priority, then estimated saving descending,
// with the id as a stable final tie-break so identical inputs always yield
// identical output.
func orderRecommendations(recs []Recommendation) []Recommendation {
	ordered := make([]Recommendation, len(recs))
	copy(ordered, recs)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority.rank() != ordered[j].Priority.rank() {
			return ordered[i].Priority.rank() < ordered[j].Priority.rank()
		}
		if ordered[i].EstimatedTimeSaving != ordered[j].EstimatedTimeSaving {
			return ordered[i].EstimatedTimeSaving > ordered[j].EstimatedTimeSaving
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}

// deriveQuickFixes filters the ordered recommendations down to the ones
// whose implementation is a mechanical, non-destructive text edit.
func deriveQuickFixes(recs []Recommendation) []Recommendation {
	var fixes []Recommendation
	for _, rec := range recs {
		if rec.IsQuickFix() {
			fixes = append(fixes, rec)
		}
	}
	return fixes
}
