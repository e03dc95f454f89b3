package services

import (
	"errors"

	"github.com/yigit/hirelytics/internal/app/models/dto"
	"github.com/yigit/hirelytics/internal/pkg/apperrors"
)

// datasetAvailability classifies a dataset load error for features that
// degrade instead of failing. ok is false for errors that must be returned.
func datasetAvailability(err error) (status dto.AvailabilityStatus, reason string, ok bool) {
	switch {
	case errors.Is(err, apperrors.ErrDatasetNotFound):
		return dto.StatusDatasetMissing, "No placement data has been uploaded for this college yet.", true
	case errors.Is(err, apperrors.ErrMissingColumns), errors.Is(err, apperrors.ErrDatasetInvalid):
		return dto.StatusDatasetInvalid, "The placement data for this college could not be loaded: " + err.Error(), true
	default:
		return "", "", false
	}
}
