package domain

import (
	"strings"
	"time"
)

// Column names every placement dataset must carry, in canonical order.
const (
	ColumnCGPA       = "CGPA"
	ColumnPackage    = "Package"
	ColumnCompany    = "Company"
	ColumnBranch     = "Branch"
	ColumnInternship = "Internship"
	ColumnYear       = "Year"
	ColumnSkills     = "Skills"
)

// RequiredColumns lists the dataset columns in the order they are written.
var RequiredColumns = []string{
	ColumnCGPA,
	ColumnPackage,
	ColumnCompany,
	ColumnBranch,
	ColumnInternship,
	ColumnYear,
	ColumnSkills,
}

// PlacementRecord is one historical student outcome.
type PlacementRecord struct {
	CGPA       float64  `json:"cgpa"`
	Package    float64  `json:"package"`
	Company    string   `json:"company"`
	Branch     string   `json:"branch"`
	Internship bool     `json:"internship"`
	Year       string   `json:"year"`
	Skills     []string `json:"skills"`
}

// Placed reports whether the student received a non-zero package.
func (r PlacementRecord) Placed() bool {
	return r.Package > 0
}

// SkillSet returns the record's skills lower-cased and de-duplicated.
func (r PlacementRecord) SkillSet() map[string]struct{} {
	return NormalizeSkills(r.Skills)
}

// Dataset is the normalized placement table of one college.
type Dataset struct {
	CollegeCode string            `json:"collegeCode"`
	Records     []PlacementRecord `json:"records"`
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// CandidateProfile is the student input to the placement predictor.
type CandidateProfile struct {
	CGPA       float64
	Internship bool
	Skills     []string
}

// SkillSet returns the candidate's skills lower-cased and de-duplicated.
func (p CandidateProfile) SkillSet() map[string]struct{} {
	return NormalizeSkills(p.Skills)
}

// SourceFormat is the on-store encoding of a dataset.
type SourceFormat string

const (
	FormatCSV  SourceFormat = "csv"
	FormatXLSX SourceFormat = "xlsx"
)

// DatasetMeta describes the stored object a dataset was loaded from.
type DatasetMeta struct {
	CollegeCode string       `json:"collegeCode"`
	Path        string       `json:"path"`
	Format      SourceFormat `json:"format"`
	Revision    string       `json:"revision"`
	Rows        int          `json:"rows"`
	LoadedAt    time.Time    `json:"loadedAt"`
}

// NormalizeSkills trims, lower-cases and de-duplicates skill names, dropping blanks.
func NormalizeSkills(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		set[s] = struct{}{}
	}
	return set
}

// SplitSkills splits a comma separated skill list, trimming each entry and dropping blanks.
func SplitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			skills = append(skills, p)
		}
	}
	return skills
}
