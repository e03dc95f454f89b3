// Package predictor estimates a candidate's placement chance from a college's
// historical placement records.
package predictor

import (
	"github.com/yigit/hirelytics/internal/domain"
	"github.com/yigit/hirelytics/internal/pkg/apperrors"
)

// ErrInsufficientData is returned when the history holds fewer than two label classes.
var ErrInsufficientData = apperrors.ErrInsufficientData

// Features is the model input for one student.
type Features struct {
	CGPA       float64 `json:"cgpa"`
	Internship float64 `json:"internship"`
	SkillMatch float64 `json:"skillMatch"`
}

func (f Features) vector() []float64 {
	return []float64{f.CGPA, f.Internship, f.SkillMatch}
}

// Prediction is the outcome for one candidate.
type Prediction struct {
	Placed       bool     `json:"placed"`
	Confidence   float64  `json:"confidence"`
	Candidate    Features `json:"candidate"`
	Model        *Model   `json:"model"`
	TrainingRows int      `json:"trainingRows"`
}

// SkillMatchCount counts the record skills present in the candidate set.
func SkillMatchCount(recordSkills []string, candidate map[string]struct{}) int {
	n := 0
	for skill := range domain.NormalizeSkills(recordSkills) {
		if _, ok := candidate[skill]; ok {
			n++
		}
	}
	return n
}

// TrainingSet derives the feature matrix and labels from ds relative to the
// candidate skill set.
func TrainingSet(ds *domain.Dataset, candidate map[string]struct{}) ([][]float64, []bool) {
	x := make([][]float64, 0, ds.Len())
	y := make([]bool, 0, ds.Len())
	for _, rec := range ds.Records {
		f := Features{
			CGPA:       rec.CGPA,
			Internship: indicator(rec.Internship),
			SkillMatch: float64(SkillMatchCount(rec.Skills, candidate)),
		}
		x = append(x, f.vector())
		y = append(y, rec.Placed())
	}
	return x, y
}

// Predict fits a model on ds and classifies profile. The candidate's own
// skill match is the size of its skill set.
func Predict(ds *domain.Dataset, profile domain.CandidateProfile) (*Prediction, error) {
	candidate := profile.SkillSet()
	x, y := TrainingSet(ds, candidate)
	if !hasBothClasses(y) {
		return nil, ErrInsufficientData
	}

	model, err := Fit(x, y)
	if err != nil {
		return nil, err
	}

	features := Features{
		CGPA:       profile.CGPA,
		Internship: indicator(profile.Internship),
		SkillMatch: float64(len(candidate)),
	}
	p := model.Probability(features.vector())

	return &Prediction{
		Placed:       p > DecisionThreshold,
		Confidence:   p * 100,
		Candidate:    features,
		Model:        model,
		TrainingRows: len(x),
	}, nil
}

func hasBothClasses(y []bool) bool {
	var pos, neg bool
	for _, v := range y {
		if v {
			pos = true
		} else {
			neg = true
		}
		if pos && neg {
			return true
		}
	}
	return false
}

func indicator(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
