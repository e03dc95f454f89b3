// Package insights aggregates a placement dataset into dashboard figures.
package insights

import (
	"sort"
	"strings"

	"github.com/yigit/hirelytics/internal/domain"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// TopCompanyCount is the number of hiring companies listed.
const TopCompanyCount = 5

// Filter narrows the records considered. Empty fields match everything.
type Filter struct {
	Branch string `form:"branch" json:"branch,omitempty"`
	Year   string `form:"year" json:"year,omitempty"`
}

func (f Filter) matches(r domain.PlacementRecord) bool {
	return (f.Branch == "" || r.Branch == f.Branch) && (f.Year == "" || r.Year == f.Year)
}

type Summary struct {
	TotalStudents  int     `json:"totalStudents"`
	PlacedStudents int     `json:"placedStudents"`
	PlacementRate  float64 `json:"placementRate"`
	AveragePackage float64 `json:"averagePackage"`
	HighestPackage float64 `json:"highestPackage"`
}

type ScatterPoint struct {
	CGPA    float64 `json:"cgpa"`
	Package float64 `json:"package"`
	Branch  string  `json:"branch"`
}

type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// BoxStats summarizes the package distribution of one group.
type BoxStats struct {
	Group  string  `json:"group"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

type BranchAverage struct {
	Branch         string  `json:"branch"`
	Students       int     `json:"students"`
	AveragePackage float64 `json:"averagePackage"`
}

type YearTrend struct {
	Year     string `json:"year"`
	Students int    `json:"students"`
	Placed   int    `json:"placed"`
}

// Insights is everything the dashboard shows for one college and filter.
type Insights struct {
	CollegeCode      string          `json:"collegeCode"`
	Filter           Filter          `json:"filter"`
	Branches         []string        `json:"branches"`
	Years            []string        `json:"years"`
	Summary          Summary         `json:"summary"`
	Scatter          []ScatterPoint  `json:"scatter"`
	TopCompanies     []CategoryCount `json:"topCompanies"`
	InternshipImpact []BoxStats      `json:"internshipImpact"`
	BranchAverages   []BranchAverage `json:"branchAverages"`
	YearTrend        []YearTrend     `json:"yearTrend"`
}

// Compute aggregates ds under filter. Filter options always cover the whole dataset.
func Compute(ds *domain.Dataset, filter Filter) *Insights {
	out := &Insights{
		CollegeCode:      ds.CollegeCode,
		Filter:           filter,
		Branches:         distinct(ds.Records, func(r domain.PlacementRecord) string { return r.Branch }),
		Years:            distinct(ds.Records, func(r domain.PlacementRecord) string { return r.Year }),
		Scatter:          []ScatterPoint{},
		TopCompanies:     []CategoryCount{},
		InternshipImpact: []BoxStats{},
		BranchAverages:   []BranchAverage{},
		YearTrend:        []YearTrend{},
	}

	var records []domain.PlacementRecord
	for _, r := range ds.Records {
		if filter.matches(r) {
			records = append(records, r)
		}
	}

	out.Summary = summarize(records)
	for _, r := range records {
		out.Scatter = append(out.Scatter, ScatterPoint{CGPA: r.CGPA, Package: r.Package, Branch: r.Branch})
	}
	out.TopCompanies = topCompanies(records, TopCompanyCount)
	out.InternshipImpact = internshipImpact(records)
	out.BranchAverages = branchAverages(records)
	out.YearTrend = yearTrend(records)
	return out
}

func summarize(records []domain.PlacementRecord) Summary {
	s := Summary{TotalStudents: len(records)}
	var packages []float64
	for _, r := range records {
		if r.Placed() {
			packages = append(packages, r.Package)
		}
	}
	s.PlacedStudents = len(packages)
	if s.TotalStudents > 0 {
		s.PlacementRate = 100 * float64(s.PlacedStudents) / float64(s.TotalStudents)
	}
	if len(packages) > 0 {
		s.AveragePackage = stat.Mean(packages, nil)
		s.HighestPackage = floats.Max(packages)
	}
	return s
}

func topCompanies(records []domain.PlacementRecord, n int) []CategoryCount {
	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		company := strings.TrimSpace(r.Company)
		if !r.Placed() || company == "" {
			continue
		}
		if _, seen := counts[company]; !seen {
			order = append(order, company)
		}
		counts[company]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > n {
		order = order[:n]
	}

	out := make([]CategoryCount, 0, len(order))
	for _, c := range order {
		out = append(out, CategoryCount{Label: c, Count: counts[c]})
	}
	return out
}

func internshipImpact(records []domain.PlacementRecord) []BoxStats {
	var with, without []float64
	for _, r := range records {
		if r.Internship {
			with = append(with, r.Package)
		} else {
			without = append(without, r.Package)
		}
	}

	var out []BoxStats
	if len(with) > 0 {
		out = append(out, boxStats("Yes", with))
	}
	if len(without) > 0 {
		out = append(out, boxStats("No", without))
	}
	if out == nil {
		return []BoxStats{}
	}
	return out
}

func boxStats(group string, values []float64) BoxStats {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return BoxStats{
		Group:  group,
		Count:  len(sorted),
		Min:    sorted[0],
		Q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
	}
}

func branchAverages(records []domain.PlacementRecord) []BranchAverage {
	packages := make(map[string][]float64)
	for _, r := range records {
		packages[r.Branch] = append(packages[r.Branch], r.Package)
	}

	out := make([]BranchAverage, 0, len(packages))
	for branch, values := range packages {
		out = append(out, BranchAverage{
			Branch:         branch,
			Students:       len(values),
			AveragePackage: stat.Mean(values, nil),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Branch < out[j].Branch })
	return out
}

func yearTrend(records []domain.PlacementRecord) []YearTrend {
	byYear := make(map[string]*YearTrend)
	for _, r := range records {
		t, ok := byYear[r.Year]
		if !ok {
			t = &YearTrend{Year: r.Year}
			byYear[r.Year] = t
		}
		t.Students++
		if r.Placed() {
			t.Placed++
		}
	}

	out := make([]YearTrend, 0, len(byYear))
	for _, t := range byYear {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

func distinct(records []domain.PlacementRecord, key func(domain.PlacementRecord) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range records {
		k := key(r)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
