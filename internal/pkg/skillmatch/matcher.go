// Package skillmatch compares resume text with the skills of placed students.
package skillmatch

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yigit/hirelytics/internal/domain"
)

// TopSkillCount is how many of the most frequent placed-student skills are checked.
const TopSkillCount = 10

var tokenPattern = regexp.MustCompile(`\b[a-z]{2,}\b`)

// Analysis is the skill-gap report for one resume.
type Analysis struct {
	TopSkills            []string `json:"topSkills"`
	Matched              []string `json:"matched"`
	Missing              []string `json:"missing"`
	SuggestInternship    bool     `json:"suggestInternship"`
	PlacedWithInternship int      `json:"placedWithInternship"`
	PlacedWithout        int      `json:"placedWithoutInternship"`
	TokenCount           int      `json:"tokenCount"`
}

// Tokenize lower-cases text and returns its alphabetic words of two or more letters.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// TopSkills returns the n most frequent skills among placed records, lower-cased.
// Ties keep the order in which skills were first seen.
func TopSkills(ds *domain.Dataset, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, rec := range ds.Records {
		if !rec.Placed() {
			continue
		}
		for _, s := range rec.Skills {
			s = strings.ToLower(strings.TrimSpace(s))
			if s == "" {
				continue
			}
			if _, seen := counts[s]; !seen {
				order = append(order, s)
			}
			counts[s]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}

// Analyze partitions the top placed-student skills into those the resume
// mentions and those it lacks.
func Analyze(ds *domain.Dataset, resumeText string) *Analysis {
	tokens := uniqueTokens(Tokenize(resumeText))
	top := TopSkills(ds, TopSkillCount)

	a := &Analysis{
		TopSkills:  top,
		Matched:    []string{},
		Missing:    []string{},
		TokenCount: len(tokens),
	}
	for _, skill := range top {
		if mentions(tokens, skill) {
			a.Matched = append(a.Matched, skill)
		} else {
			a.Missing = append(a.Missing, skill)
		}
	}

	for _, rec := range ds.Records {
		if !rec.Placed() {
			continue
		}
		if rec.Internship {
			a.PlacedWithInternship++
		} else {
			a.PlacedWithout++
		}
	}
	a.SuggestInternship = a.PlacedWithInternship > a.PlacedWithout &&
		!strings.Contains(strings.ToLower(resumeText), "intern")

	return a
}

func mentions(tokens []string, skill string) bool {
	for _, tok := range tokens {
		if Ratio(tok, skill) > MatchThreshold {
			return true
		}
	}
	return false
}

func uniqueTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
