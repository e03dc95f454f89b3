package skillmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/hirelytics/internal/domain"
)

func placements() *domain.Dataset {
	rec := func(pkg float64, intern bool, skills string) domain.PlacementRecord {
		return domain.PlacementRecord{CGPA: 8, Package: pkg, Internship: intern, Skills: domain.SplitSkills(skills)}
	}
	return &domain.Dataset{Records: []domain.PlacementRecord{
		rec(10, true, "Python, SQL, Docker"),
		rec(8, true, "python, Java"),
		rec(7, false, "SQL, Excel"),
		rec(0, false, "Cobol, Fortran"),
		rec(6, true, "Python, Kubernetes"),
	}}
}

func TestRatio(t *testing.T) {
	assert.InDelta(t, 90.909, Ratio("pythn", "python"), 0.001)
	assert.Equal(t, 100.0, Ratio("sql", "sql"))
	assert.Equal(t, 100.0, Ratio("", ""))
	assert.Equal(t, 0.0, Ratio("go", "rust"))
	assert.Greater(t, Ratio("pythn", "python"), MatchThreshold)
	assert.LessOrEqual(t, Ratio("java", "javascript"), MatchThreshold)
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Built APIs in Go, Python3 and C; k8s + Docker")
	assert.Equal(t, []string{"built", "apis", "in", "go", "and", "docker"}, got)
}

func TestTopSkills(t *testing.T) {
	got := TopSkills(placements(), 10)
	assert.Equal(t, []string{"python", "sql", "docker", "java", "excel", "kubernetes"}, got)

	assert.Equal(t, []string{"python", "sql"}, TopSkills(placements(), 2))
}

func TestAnalyzePartitionsTopSkills(t *testing.T) {
	a := Analyze(placements(), "Experienced in Pythn and Dockers. Interned at Acme.")

	assert.Equal(t, []string{"python", "docker"}, a.Matched)
	assert.Equal(t, []string{"sql", "java", "excel", "kubernetes"}, a.Missing)
	assert.ElementsMatch(t, a.TopSkills, append(append([]string{}, a.Matched...), a.Missing...))
	for _, m := range a.Matched {
		assert.NotContains(t, a.Missing, m)
	}
	assert.Equal(t, 3, a.PlacedWithInternship)
	assert.Equal(t, 1, a.PlacedWithout)
	assert.False(t, a.SuggestInternship, "resume already mentions an internship")
}

func TestAnalyzeEmptyResume(t *testing.T) {
	a := Analyze(placements(), "")
	require.Empty(t, a.Matched)
	assert.Equal(t, a.TopSkills, a.Missing)
	assert.True(t, a.SuggestInternship)
	assert.Zero(t, a.TokenCount)
}

func TestAnalyzeNoInternshipSuggestionWhenInternsDoNotDominate(t *testing.T) {
	ds := &domain.Dataset{Records: []domain.PlacementRecord{
		{Package: 5, Internship: true, Skills: []string{"Go"}},
		{Package: 5, Internship: false, Skills: []string{"Go"}},
	}}
	a := Analyze(ds, "golang developer")
	assert.False(t, a.SuggestInternship)
}

func TestAnalyzeWithoutPlacedStudents(t *testing.T) {
	ds := &domain.Dataset{Records: []domain.PlacementRecord{{Package: 0, Skills: []string{"Go"}}}}
	a := Analyze(ds, "go developer")
	assert.Empty(t, a.TopSkills)
	assert.Empty(t, a.Matched)
	assert.Empty(t, a.Missing)
}
