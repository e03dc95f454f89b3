package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/hirelytics/internal/app/models/dto"
	"github.com/yigit/hirelytics/internal/app/services"
	"github.com/yigit/hirelytics/internal/middleware"
	"github.com/yigit/hirelytics/internal/pkg/helpers"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DatasetController serves the admin dataset endpoints.
type DatasetController struct {
	datasetService *services.DatasetService
	maxUploadBytes int64
	logger         zerolog.Logger
}

// NewDatasetController creates a new DatasetController
func NewDatasetController(datasetService *services.DatasetService, maxUploadBytes int64, logger zerolog.Logger) *DatasetController {
	return &DatasetController{
		datasetService: datasetService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Template downloads the empty upload template
// @Summary Download dataset template
// @Tags dataset
// @Security BearerAuth
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /admin/dataset/template [get]
func (c *DatasetController) Template(ctx *gin.Context) {
	data, err := c.datasetService.Template()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="placement_template.xlsx"`)
	ctx.Data(http.StatusOK, xlsxContentType, data)
}

// Get returns the dataset metadata and a page of rows
// @Summary Preview college dataset
// @Tags dataset
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size (max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.DatasetResponse}
// @Failure 404 {object} dto.APIResponse "No dataset"
// @Failure 422 {object} dto.APIResponse "Stored dataset is invalid"
// @Router /admin/dataset [get]
func (c *DatasetController) Get(ctx *gin.Context) {
	session, _ := middleware.CurrentSession(ctx)
	page, size := helpers.ParsePaginationParams(ctx)

	preview, err := c.datasetService.Preview(ctx.Request.Context(), session.CollegeCode, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(preview, ""))
}

// Upload replaces the college dataset
// @Summary Upload college dataset
// @Description Accepts a .csv or .xlsx file with the columns CGPA, Package, Company, Branch, Internship, Year, Skills. The file is rejected as a whole if any column is missing or any cell is invalid.
// @Tags dataset
// @Security BearerAuth
// @Accept multipart/form-data
// @Param file formData file true "Dataset file"
// @Param expectedRevision formData string false "Revision the upload replaces"
// @Success 200 {object} dto.APIResponse{data=dto.UploadResponse}
// @Failure 409 {object} dto.APIResponse "Dataset changed concurrently"
// @Failure 415 {object} dto.APIResponse "Unsupported file type"
// @Failure 422 {object} dto.APIResponse "Missing columns or invalid cells"
// @Failure 503 {object} dto.APIResponse "Data store unavailable"
// @Router /admin/dataset [post]
func (c *DatasetController) Upload(ctx *gin.Context) {
	session, _ := middleware.CurrentSession(ctx)

	file, err := readUploadedFile(ctx, "file", c.maxUploadBytes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	expected := strings.TrimSpace(ctx.PostForm("expectedRevision"))
	meta, err := c.datasetService.Upload(ctx.Request.Context(), session.Username, session.CollegeCode, file, expected)
	if err != nil {
		c.logger.Info().Err(err).Str("college", session.CollegeCode).Str("file", file.FileName).Msg("Dataset upload rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.UploadResponse{Meta: *meta}, "Dataset uploaded"))
}

// Delete removes the college dataset
// @Summary Delete college dataset
// @Tags dataset
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse "No dataset"
// @Router /admin/dataset [delete]
func (c *DatasetController) Delete(ctx *gin.Context) {
	session, _ := middleware.CurrentSession(ctx)

	if err := c.datasetService.Delete(ctx.Request.Context(), session.Username, session.CollegeCode); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Dataset deleted"))
}
