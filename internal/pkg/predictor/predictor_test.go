package predictor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/hirelytics/internal/domain"
	"github.com/yigit/hirelytics/internal/pkg/apperrors"
)

func history() *domain.Dataset {
	rec := func(cgpa, pkg float64, intern bool, skills ...string) domain.PlacementRecord {
		return domain.PlacementRecord{CGPA: cgpa, Package: pkg, Internship: intern, Skills: skills, Branch: "CSE", Year: "2023"}
	}
	return &domain.Dataset{
		CollegeCode: "KLU01",
		Records: []domain.PlacementRecord{
			rec(9.1, 14, true, "Python", "SQL"),
			rec(8.8, 11, true, "Python", "Java"),
			rec(8.4, 9, false, "SQL"),
			rec(8.9, 12, true, "Go", "Python"),
			rec(7.9, 7, true, "Python"),
			rec(6.2, 0, false, "C"),
			rec(5.8, 0, false),
			rec(6.5, 0, true, "Excel"),
			rec(5.5, 0, false, "C", "Excel"),
			rec(6.8, 0, false, "Java"),
		},
	}
}

func TestPredict(t *testing.T) {
	tests := []struct {
		name       string
		profile    domain.CandidateProfile
		wantPlaced bool
		minConf    float64
		maxConf    float64
	}{
		{"strong candidate", domain.CandidateProfile{CGPA: 9.2, Internship: true, Skills: []string{"python", "SQL"}}, true, 90, 100},
		{"weak candidate", domain.CandidateProfile{CGPA: 5.0}, false, 0, 10},
		{"borderline candidate", domain.CandidateProfile{CGPA: 7.0, Internship: true, Skills: []string{"Python", "sql"}}, true, 55, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Predict(history(), tt.profile)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPlaced, got.Placed)
			assert.GreaterOrEqual(t, got.Confidence, tt.minConf)
			assert.LessOrEqual(t, got.Confidence, tt.maxConf)
			assert.Equal(t, 10, got.TrainingRows)
			assert.Less(t, got.Model.Iterations, MaxIterations)
		})
	}
}

func TestPredictIsDeterministic(t *testing.T) {
	profile := domain.CandidateProfile{CGPA: 7.4, Internship: false, Skills: []string{"java", "sql"}}

	first, err := Predict(history(), profile)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Predict(history(), profile)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestPredictInsufficientData(t *testing.T) {
	allPlaced := &domain.Dataset{Records: []domain.PlacementRecord{
		{CGPA: 8, Package: 5}, {CGPA: 9, Package: 7},
	}}
	_, err := Predict(allPlaced, domain.CandidateProfile{CGPA: 8})
	assert.True(t, errors.Is(err, ErrInsufficientData))
	assert.True(t, errors.Is(err, apperrors.ErrInsufficientData))

	_, err = Predict(&domain.Dataset{}, domain.CandidateProfile{CGPA: 8})
	assert.True(t, errors.Is(err, ErrInsufficientData))
}

func TestSkillMatchCount(t *testing.T) {
	candidate := domain.NormalizeSkills(domain.SplitSkills("python, java"))
	assert.Equal(t, 1, SkillMatchCount(domain.SplitSkills("Python, SQL"), candidate))
	assert.Equal(t, 0, SkillMatchCount(nil, candidate))
	assert.Equal(t, 2, SkillMatchCount([]string{" JAVA ", "python", "Python"}, candidate))
}

func TestCandidateSkillMatchIsOwnSetSize(t *testing.T) {
	got, err := Predict(history(), domain.CandidateProfile{CGPA: 8, Skills: []string{"Python", "python ", "SQL"}})
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.Candidate.SkillMatch)
	assert.Equal(t, 0.0, got.Candidate.Internship)
}

func TestFitRejectsRaggedInput(t *testing.T) {
	_, err := Fit([][]float64{{1, 2}, {1}}, []bool{true, false})
	assert.Error(t, err)

	_, err = Fit([][]float64{{1}}, []bool{true, false})
	assert.Error(t, err)
}
