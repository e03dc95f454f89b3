package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/hirelytics/internal/app/models/dto"
	"github.com/yigit/hirelytics/internal/domain"
	"github.com/yigit/hirelytics/internal/pkg/apperrors"
	"github.com/yigit/hirelytics/internal/pkg/resume"
	"github.com/yigit/hirelytics/internal/pkg/skillmatch"
)

// ResumeService analyzes uploaded resumes and generates new ones.
type ResumeService struct {
	datasets *DatasetService
	logger   zerolog.Logger
}

// NewResumeService creates a new ResumeService
func NewResumeService(datasets *DatasetService, logger zerolog.Logger) *ResumeService {
	return &ResumeService{datasets: datasets, logger: logger}
}

// Analyze compares the resume with the skills of placed students of the college.
func (s *ResumeService) Analyze(ctx context.Context, code string, file domain.UploadedFile) (*dto.AnalysisResponse, error) {
	text, err := resume.ExtractText(file)
	if err != nil {
		return nil, err
	}

	ds, _, err := s.datasets.Load(ctx, code)
	if err != nil {
		status, reason, ok := datasetAvailability(err)
		if !ok {
			return nil, err
		}
		return &dto.AnalysisResponse{Available: false, Status: status, Reason: reason}, nil
	}

	analysis := skillmatch.Analyze(ds, text)
	s.logger.Debug().
		Str("college", code).
		Int("matched", len(analysis.Matched)).
		Int("missing", len(analysis.Missing)).
		Msg("Resume analyzed")

	return &dto.AnalysisResponse{Available: true, Status: dto.StatusOK, Analysis: analysis}, nil
}

// Build renders a one-page PDF resume. photo may be empty.
func (s *ResumeService) Build(req dto.ResumeBuildRequest, photo []byte) (*resume.Document, error) {
	doc, err := resume.Build(req.Fields(), photo)
	if errors.Is(err, resume.ErrInvalidPhoto) {
		return nil, apperrors.NewCustomError(apperrors.ErrBadRequest, resume.ErrInvalidPhoto.Error())
	}
	if err != nil {
		return nil, err
	}

	if len(doc.Truncated) > 0 {
		s.logger.Info().Strs("sections", doc.Truncated).Msg("Resume sections clipped to fit the page")
	}
	return doc, nil
}
