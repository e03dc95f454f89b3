package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hirelytics/internal/app/models/dto"
	"github.com/yigit/hirelytics/internal/pkg/apperrors"
	"github.com/yigit/hirelytics/internal/pkg/dataset"
	"github.com/yigit/hirelytics/internal/pkg/logger"
)

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	status, detail := ErrorDetailFor(err)
	if status < http.StatusInternalServerError {
		detail.WithSeverity(dto.ErrorSeverityWarning)
	} else {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Request failed")
	}
	c.JSON(status, dto.NewErrorResponse(detail))
}

// ErrorDetailFor maps an error to its HTTP status and response detail.
func ErrorDetailFor(err error) (int, *dto.ErrorDetail) {
	var missing *dataset.MissingColumnsError
	var cell *dataset.CellError

	switch {
	case errors.As(err, &missing):
		return http.StatusUnprocessableEntity,
			dto.NewErrorDetail(dto.ErrorCodeMissingColumns, "Dataset is missing required columns").
				WithDetails(map[string]interface{}{"missing": missing.Missing})
	case errors.As(err, &cell):
		return http.StatusUnprocessableEntity,
			dto.NewErrorDetail(dto.ErrorCodeInvalidDataset, cell.Error()).
				WithField(cell.Column).
				WithDetails(map[string]interface{}{"row": cell.Row, "column": cell.Column, "value": cell.Value})
	case errors.Is(err, apperrors.ErrDatasetInvalid):
		return http.StatusUnprocessableEntity,
			dto.NewErrorDetail(dto.ErrorCodeInvalidDataset, apperrors.MessageOf(err, "Dataset file could not be read"))
	case errors.Is(err, apperrors.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType,
			dto.NewErrorDetail(dto.ErrorCodeUnsupportedFormat, apperrors.MessageOf(err, "Unsupported file format"))
	case errors.Is(err, apperrors.ErrUnreadableResume):
		return http.StatusUnprocessableEntity,
			dto.NewErrorDetail(dto.ErrorCodeResourceInvalid, "Resume could not be read")
	case errors.Is(err, apperrors.ErrDatasetNotFound):
		return http.StatusNotFound,
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "No placement dataset found for this college")
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound,
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, apperrors.MessageOf(err, "Resource not found"))
	case errors.Is(err, apperrors.ErrRevisionConflict):
		return http.StatusConflict,
			dto.NewErrorDetail(dto.ErrorCodeConflict, "Dataset was changed by another request, reload and retry")
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		return http.StatusServiceUnavailable,
			dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, "Data store is temporarily unavailable")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden,
			dto.NewErrorDetail(dto.ErrorCodeForbidden, apperrors.MessageOf(err, "Permission denied"))
	case errors.Is(err, apperrors.ErrInvalidCollegeCode):
		return http.StatusUnauthorized,
			dto.NewErrorDetail(dto.ErrorCodeInvalidCollegeCode, apperrors.MessageOf(err, "Invalid college code"))
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized,
			dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid college code or credentials")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized,
			dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized,
			dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case apperrors.Is(err, apperrors.ErrTokenNotFound, apperrors.ErrSessionNotFound):
		return http.StatusUnauthorized,
			dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Session has ended")
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest):
		return http.StatusBadRequest,
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, apperrors.MessageOf(err, "Validation failed")).
				WithDetails(apperrors.DetailsOf(err))
	default:
		return http.StatusInternalServerError,
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}
