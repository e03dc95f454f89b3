package skillmatch

import "github.com/xrash/smetrics"

// MatchThreshold is the similarity a token must exceed to count as a skill hit.
const MatchThreshold = 85.0

// Ratio returns the normalized Indel similarity of a and b in [0, 100]:
// insertions and deletions cost 1, a substitution costs 2.
func Ratio(a, b string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	dist := smetrics.WagnerFischer(a, b, 1, 1, 2)
	return 100 * float64(total-dist) / float64(total)
}
