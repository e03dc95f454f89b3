package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/hirelytics/internal/app/models/dto"
	"github.com/yigit/hirelytics/internal/app/services"
	"github.com/yigit/hirelytics/internal/middleware"
)

// TruncatedHeader lists resume sections that were clipped to fit the page.
const TruncatedHeader = "X-Resume-Truncated"

// StudentController serves prediction and resume endpoints.
type StudentController struct {
	predictionService *services.PredictionService
	resumeService     *services.ResumeService
	maxUploadBytes    int64
	logger            zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(
	predictionService *services.PredictionService,
	resumeService *services.ResumeService,
	maxUploadBytes int64,
	logger zerolog.Logger,
) *StudentController {
	return &StudentController{
		predictionService: predictionService,
		resumeService:     resumeService,
		maxUploadBytes:    maxUploadBytes,
		logger:            logger,
	}
}

// Predict estimates the placement chance of a candidate profile
// @Summary Predict placement
// @Description Fits a logistic regression on the college history. When no usable dataset exists the response status explains why and no prediction is returned.
// @Tags student
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.PredictRequest true "Candidate profile"
// @Success 200 {object} dto.APIResponse{data=dto.PredictionResponse}
// @Failure 400 {object} dto.APIResponse "Invalid request format"
// @Failure 503 {object} dto.APIResponse "Data store unavailable"
// @Router /student/predict [post]
func (c *StudentController) Predict(ctx *gin.Context) {
	session, _ := middleware.CurrentSession(ctx)

	var req dto.PredictRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondValidationError(ctx, err)
		return
	}

	resp, err := c.predictionService.Predict(ctx.Request.Context(), session.CollegeCode, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// AnalyzeResume compares a resume with skills of placed students
// @Summary Analyze resume
// @Tags student
// @Security BearerAuth
// @Accept multipart/form-data
// @Param file formData file true "Resume (.pdf, .docx or .txt)"
// @Success 200 {object} dto.APIResponse{data=dto.AnalysisResponse}
// @Failure 415 {object} dto.APIResponse "Unsupported file type"
// @Failure 422 {object} dto.APIResponse "Unreadable resume"
// @Router /student/resume/analyze [post]
func (c *StudentController) AnalyzeResume(ctx *gin.Context) {
	session, _ := middleware.CurrentSession(ctx)

	file, err := readUploadedFile(ctx, "file", c.maxUploadBytes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.resumeService.Analyze(ctx.Request.Context(), session.CollegeCode, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// BuildResume renders a one-page PDF resume
// @Summary Build resume
// @Tags student
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce application/pdf
// @Param name formData string true "Full name"
// @Param photo formData file false "Profile photo (PNG or JPEG)"
// @Success 200 {file} binary
// @Router /student/resume/build [post]
func (c *StudentController) BuildResume(ctx *gin.Context) {
	var req dto.ResumeBuildRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.RespondValidationError(ctx, err)
		return
	}

	var photo []byte
	if _, err := ctx.FormFile("photo"); err == nil {
		file, err := readUploadedFile(ctx, "photo", c.maxUploadBytes)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		photo = file.Data
	}

	doc, err := c.resumeService.Build(req, photo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if len(doc.Truncated) > 0 {
		ctx.Header(TruncatedHeader, strings.Join(doc.Truncated, ","))
	}
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, resumeFilename(req.Name)))
	ctx.Data(http.StatusOK, "application/pdf", doc.PDF)
}

func resumeFilename(name string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == ' ', r == '-', r == '_':
			return '_'
		default:
			return -1
		}
	}, strings.TrimSpace(name))
	if slug == "" {
		slug = "resume"
	}
	return slug + "_resume.pdf"
}
