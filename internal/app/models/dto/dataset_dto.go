package dto

import "github.com/yigit/hirelytics/internal/domain"

// DatasetResponse is the admin view of the stored dataset.
type DatasetResponse struct {
	Meta       domain.DatasetMeta       `json:"meta"`
	Columns    []string                 `json:"columns"`
	Rows       []domain.PlacementRecord `json:"rows"`
	Pagination PaginationInfo           `json:"pagination"`
}

// UploadResponse reports a committed upload.
type UploadResponse struct {
	Meta domain.DatasetMeta `json:"meta"`
}
