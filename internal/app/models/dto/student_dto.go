package dto

import (
	"strings"

	"github.com/yigit/hirelytics/internal/domain"
	"github.com/yigit/hirelytics/internal/pkg/predictor"
	"github.com/yigit/hirelytics/internal/pkg/resume"
	"github.com/yigit/hirelytics/internal/pkg/skillmatch"
)

// AvailabilityStatus tells the client whether a dataset-backed feature could run.
type AvailabilityStatus string

const (
	StatusOK               AvailabilityStatus = "OK"
	StatusDatasetMissing   AvailabilityStatus = "DATASET_MISSING"
	StatusDatasetInvalid   AvailabilityStatus = "DATASET_INVALID"
	StatusInsufficientData AvailabilityStatus = "INSUFFICIENT_DATA"
)

// PredictRequest is the candidate profile submitted for prediction.
type PredictRequest struct {
	CGPA       *float64 `json:"cgpa" binding:"required,min=0,max=10" example:"8.2"`
	Skills     string   `json:"skills" binding:"max=1000" example:"Python, SQL"`
	Internship bool     `json:"internship"`
}

// Profile converts the request into a domain candidate.
func (r PredictRequest) Profile() domain.CandidateProfile {
	var cgpa float64
	if r.CGPA != nil {
		cgpa = *r.CGPA
	}
	return domain.CandidateProfile{
		CGPA:       cgpa,
		Internship: r.Internship,
		Skills:     domain.SplitSkills(r.Skills),
	}
}

// PredictionResponse carries the prediction or the reason there is none.
type PredictionResponse struct {
	Status     AvailabilityStatus    `json:"status" example:"OK"`
	Reason     string                `json:"reason,omitempty"`
	Prediction *predictor.Prediction `json:"prediction,omitempty"`
}

// AnalysisResponse carries the resume skill-gap report.
type AnalysisResponse struct {
	Available bool                 `json:"available"`
	Status    AvailabilityStatus   `json:"status" example:"OK"`
	Reason    string               `json:"reason,omitempty"`
	Analysis  *skillmatch.Analysis `json:"analysis,omitempty"`
}

// ResumeBuildRequest is the multipart form of the resume builder.
type ResumeBuildRequest struct {
	Name       string `form:"name" binding:"required,max=100"`
	Title      string `form:"title" binding:"max=100"`
	Phone      string `form:"phone" binding:"max=40"`
	Email      string `form:"email" binding:"max=100,optemail"`
	Address    string `form:"address" binding:"max=200"`
	Website    string `form:"website" binding:"max=200"`
	Skills     string `form:"skills" binding:"max=1000"`
	About      string `form:"about" binding:"max=4000"`
	Education  string `form:"education" binding:"max=4000"`
	Experience string `form:"experience" binding:"max=4000"`
}

// Fields converts the form into generator input.
func (r ResumeBuildRequest) Fields() resume.Fields {
	return resume.Fields{
		Name:       strings.TrimSpace(r.Name),
		Title:      strings.TrimSpace(r.Title),
		Phone:      strings.TrimSpace(r.Phone),
		Email:      strings.TrimSpace(r.Email),
		Address:    strings.TrimSpace(r.Address),
		Website:    strings.TrimSpace(r.Website),
		Skills:     domain.SplitSkills(r.Skills),
		About:      r.About,
		Education:  r.Education,
		Experience: r.Experience,
	}
}
