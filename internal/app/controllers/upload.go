// Package controllers handles HTTP request handling
package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hirelytics/internal/domain"
	"github.com/yigit/hirelytics/internal/pkg/apperrors"
)

// readUploadedFile reads a multipart file field into memory. A missing
// field is reported as apperrors.ErrBadRequest.
func readUploadedFile(ctx *gin.Context, field string, maxBytes int64) (domain.UploadedFile, error) {
	header, err := ctx.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.UploadedFile{}, fileTooLarge(maxBytes)
		}
		return domain.UploadedFile{}, apperrors.NewBadRequestError(fmt.Sprintf("multipart field %q is required", field))
	}
	if header.Size > maxBytes {
		return domain.UploadedFile{}, fileTooLarge(maxBytes)
	}

	f, err := header.Open()
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return domain.UploadedFile{}, fileTooLarge(maxBytes)
	}

	return domain.UploadedFile{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func fileTooLarge(maxBytes int64) error {
	return apperrors.NewBadRequestError(fmt.Sprintf("file exceeds the %d MB upload limit", maxBytes>>20))
}
